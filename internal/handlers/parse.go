package handlers

import (
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-feed/internal/middleware"
	"github.com/foxxcyber/receipt-feed/internal/models"
	"github.com/foxxcyber/receipt-feed/internal/services"
)

// PreviewReceipt parses pasted receipt text and returns the items without saving
func (h *Handler) PreviewReceipt(c *fiber.Ctx) error {
	req, err := h.bindParseRequest(c)
	if err != nil {
		return err
	}

	preview, err := h.receipts.Preview(req.Text, req.Source)
	if err != nil {
		return h.parseError(c, err)
	}

	return Success(c, preview)
}

// ParseReceipt parses pasted receipt text and saves it for the current user
func (h *Handler) ParseReceipt(c *fiber.Ctx) error {
	req, err := h.bindParseRequest(c)
	if err != nil {
		return err
	}

	result, err := h.receipts.Import(c.Context(), middleware.GetUserID(c), req.Text, req.Source)
	if err != nil {
		return h.parseError(c, err)
	}

	return Created(c, result)
}

// ScanReceipt runs OCR on an uploaded receipt photo and saves the parsed items
func (h *Handler) ScanReceipt(c *fiber.Ctx) error {
	if !h.receipts.ScanEnabled() {
		return Error(c, fiber.StatusServiceUnavailable, "receipt scanning is not enabled")
	}

	source := c.FormValue("source")
	if source == "" {
		return Error(c, fiber.StatusBadRequest, "source is required")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	if file.Size > int64(h.cfg.MaxReceiptBytes) {
		return Error(c, fiber.StatusRequestEntityTooLarge, "image file is too large")
	}

	src, err := file.Open()
	if err != nil {
		return serverError(c, "failed to read image", err)
	}
	defer src.Close()

	image, err := io.ReadAll(src)
	if err != nil {
		return serverError(c, "failed to read image", err)
	}

	// Trust the bytes, not the client's Content-Type header
	contentType := mimetype.Detect(image).String()
	if !isValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type, allowed: jpeg, png, webp")
	}

	result, err := h.receipts.Scan(c.Context(), middleware.GetUserID(c), image, contentType, source)
	if err != nil {
		return h.parseError(c, err)
	}

	return Created(c, result)
}

// bindParseRequest decodes the body and enforces the text size limit.
// Errors are rendered by ErrorHandler.
func (h *Handler) bindParseRequest(c *fiber.Ctx) (*models.ParseRequest, error) {
	var req models.ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Text) > h.cfg.MaxReceiptBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "receipt text is too large")
	}

	return &req, nil
}

func (h *Handler) parseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyText), errors.Is(err, services.ErrEmptySource):
		return Error(c, fiber.StatusBadRequest, "text and source are required")
	case errors.Is(err, services.ErrNoItems):
		return Error(c, fiber.StatusBadRequest, "no valid items found")
	case errors.Is(err, services.ErrOCRDisabled):
		return Error(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		return serverError(c, "failed to process receipt", err)
	}
}

// isValidImageType checks if the content type is a valid image type
func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
