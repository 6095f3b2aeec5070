package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/models"
	"github.com/foxxcyber/receipt-feed/internal/parser"
)

var (
	ErrEmptyText   = errors.New("text is required")
	ErrEmptySource = errors.New("source is required")
	ErrNoItems     = errors.New("no valid items found")
	ErrOCRDisabled = errors.New("receipt scanning is not enabled")
)

// ReceiptStore persists parsed receipts
type ReceiptStore interface {
	ImportReceipt(ctx context.Context, req *models.ImportReceiptRequest) (*models.ImportResult, error)
	SetReceiptArchiveKey(ctx context.Context, receiptID int, key string) error
	SetReceiptImageKey(ctx context.Context, receiptID int, key string) error
}

// Archiver keeps a copy of the submitted receipt
type Archiver interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)
}

// Suggester proposes categories for uncategorized items
type Suggester interface {
	Suggest(ctx context.Context, userID int, items []models.ImportedItem) map[string][]models.MatchResult
}

// TextExtractor reads text out of a receipt photo
type TextExtractor interface {
	ProcessImage(imageBytes []byte) (*OCRResult, error)
}

// ParseObserver is told about every parser run
type ParseObserver interface {
	ObserveParse(source parser.Source, items int, elapsed time.Duration)
}

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text string
}

// ReceiptService runs receipt text through the parser and stores the result.
// archive, matcher and ocr are optional.
type ReceiptService struct {
	store   ReceiptStore
	archive Archiver
	matcher Suggester
	ocr     TextExtractor
	observe ParseObserver
	log     logger.Logger
}

// NewReceiptService creates a receipt service
func NewReceiptService(store ReceiptStore, archive Archiver, matcher Suggester, ocr TextExtractor) *ReceiptService {
	return &ReceiptService{
		store:   store,
		archive: archive,
		matcher: matcher,
		ocr:     ocr,
		log:     logger.With("component", "receipts"),
	}
}

// WithObserver reports parser runs to o
func (s *ReceiptService) WithObserver(o ParseObserver) *ReceiptService {
	s.observe = o
	return s
}

// ScanEnabled reports whether photos can be imported
func (s *ReceiptService) ScanEnabled() bool {
	return s.ocr != nil
}

func validate(text, source string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}
	return nil
}

// Preview parses text without saving anything
func (s *ReceiptService) Preview(text, source string) (*models.PreviewResponse, error) {
	if err := validate(text, source); err != nil {
		return nil, err
	}

	items := s.parse(text, source)
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}

	return &models.PreviewResponse{
		Source:     parser.Resolve(source),
		Items:      items,
		TotalItems: len(items),
		Total:      total,
	}, nil
}

// Import parses text, stores the receipt for userID and links every item to the catalog
func (s *ReceiptService) Import(ctx context.Context, userID int, text, source string) (*models.ParseResponse, error) {
	if err := validate(text, source); err != nil {
		return nil, err
	}

	items := s.parse(text, source)
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	result, err := s.store.ImportReceipt(ctx, &models.ImportReceiptRequest{
		UserID:  userID,
		Source:  source,
		RawText: text,
		Items:   items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.log.Info("Receipt imported",
		"user_id", userID,
		"receipt_id", result.ReceiptID,
		"source", parser.Resolve(source),
		"items", len(result.Items),
	)

	s.archiveText(ctx, userID, result.ReceiptID, text)

	response := &models.ParseResponse{
		ReceiptID:          result.ReceiptID,
		Source:             parser.Resolve(source),
		Items:              result.Items,
		UncategorizedItems: []models.ImportedItem{},
		TotalItems:         len(result.Items),
	}
	for _, item := range result.Items {
		if item.CategoryID == nil {
			response.UncategorizedItems = append(response.UncategorizedItems, item)
		}
	}

	if s.matcher != nil && len(response.UncategorizedItems) > 0 {
		response.Suggestions = s.matcher.Suggest(ctx, userID, response.UncategorizedItems)
	}

	return response, nil
}

// Scan extracts text from a receipt photo and imports it. The photo is
// archived next to the receipt when storage is available.
func (s *ReceiptService) Scan(ctx context.Context, userID int, image []byte, contentType, source string) (*models.ParseResponse, error) {
	if s.ocr == nil {
		return nil, ErrOCRDisabled
	}

	ocrResult, err := s.ocr.ProcessImage(image)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt image: %w", err)
	}

	response, err := s.Import(ctx, userID, ocrResult.Text, source)
	if err != nil {
		return nil, err
	}

	s.archiveImage(ctx, userID, response.ReceiptID, image, contentType)

	return response, nil
}

// ParseBatch parses several receipts concurrently. Results line up with requests.
func (s *ReceiptService) ParseBatch(ctx context.Context, requests []models.ParseRequest) ([][]parser.ParsedItem, error) {
	results := make([][]parser.ParsedItem, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := validate(req.Text, req.Source); err != nil {
				return fmt.Errorf("receipt %d: %w", i+1, err)
			}
			results[i] = s.parse(req.Text, req.Source)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ReceiptService) parse(text, source string) []parser.ParsedItem {
	start := time.Now()
	items := parser.Parse(text, source)
	if s.observe != nil {
		s.observe.ObserveParse(parser.Resolve(source), len(items), time.Since(start))
	}
	return items
}

func (s *ReceiptService) archiveText(ctx context.Context, userID, receiptID int, text string) {
	if s.archive == nil {
		return
	}

	key := ReceiptObjectKey(userID, receiptID, "txt")
	if _, err := s.archive.Upload(ctx, key, strings.NewReader(text), int64(len(text)), "text/plain; charset=utf-8"); err != nil {
		s.log.Warn("Failed to archive receipt text", "receipt_id", receiptID, "error", err)
		return
	}

	if err := s.store.SetReceiptArchiveKey(ctx, receiptID, key); err != nil {
		s.log.Warn("Failed to record archive key", "receipt_id", receiptID, "error", err)
	}
}

func (s *ReceiptService) archiveImage(ctx context.Context, userID, receiptID int, image []byte, contentType string) {
	if s.archive == nil {
		return
	}

	key := ReceiptObjectKey(userID, receiptID, imageExtension(contentType))
	if _, err := s.archive.Upload(ctx, key, bytes.NewReader(image), int64(len(image)), contentType); err != nil {
		s.log.Warn("Failed to archive receipt image", "receipt_id", receiptID, "error", err)
		return
	}

	if err := s.store.SetReceiptImageKey(ctx, receiptID, key); err != nil {
		s.log.Warn("Failed to record image key", "receipt_id", receiptID, "error", err)
	}
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/heic":
		return "heic"
	default:
		return "jpg"
	}
}
