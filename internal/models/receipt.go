package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-feed/internal/parser"
)

// Receipt is one imported block of vendor receipt text
type Receipt struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Source    string    `json:"source"`
	S3Key     *string   `json:"s3_key,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceiptRaw is what a receipt was parsed from: the submitted text and the
// archived copies of it
type ReceiptRaw struct {
	Text     *string
	S3Key    *string
	ImageKey *string
}

// ReceiptSummary is a receipt with aggregate line figures
type ReceiptSummary struct {
	Receipt
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptLine is a purchased item as recorded on one receipt
type ReceiptLine struct {
	ID           int             `json:"id"`
	ReceiptID    int             `json:"receipt_id"`
	ItemID       int             `json:"item_id"`
	Position     int             `json:"position"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Taxable      bool            `json:"taxable"`
	CategoryID   *int            `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
}

// ReceiptDetail includes the lines and computed totals
type ReceiptDetail struct {
	Receipt
	Items  []ReceiptLine  `json:"items"`
	Totals *ReceiptTotals `json:"totals,omitempty"`
}

// CategoryTotal is the spend for one category on a receipt
type CategoryTotal struct {
	Category     string          `json:"category"`
	Total        decimal.Decimal `json:"total"`
	Tax          decimal.Decimal `json:"tax"`
	TotalWithTax decimal.Decimal `json:"total_with_tax"`
	Count        int             `json:"count"`
}

// ReceiptTotals summarizes a receipt's lines
type ReceiptTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// ImportReceiptRequest is used when persisting a parsed receipt
type ImportReceiptRequest struct {
	UserID  int
	Source  string
	RawText string
	Items   []parser.ParsedItem
}

// ImportedItem is a parsed line after it was linked to the catalog
type ImportedItem struct {
	ItemID     int             `json:"item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Taxable    bool            `json:"taxable"`
	CategoryID *int            `json:"category_id,omitempty"`
	IsNew      bool            `json:"is_new"`
}

// ImportResult is what the database reports back after an import
type ImportResult struct {
	ReceiptID int            `json:"receipt_id"`
	Items     []ImportedItem `json:"items"`
}

// ParseResponse is returned by the parse endpoint and the import command
type ParseResponse struct {
	ReceiptID          int                      `json:"receipt_id"`
	Source             parser.Source            `json:"source"`
	Items              []ImportedItem           `json:"items"`
	UncategorizedItems []ImportedItem           `json:"uncategorized_items"`
	TotalItems         int                      `json:"total_items"`
	Suggestions        map[string][]MatchResult `json:"suggestions,omitempty"`
}

// PreviewResponse is returned when parsing without saving
type PreviewResponse struct {
	Source     parser.Source       `json:"source"`
	Items      []parser.ParsedItem `json:"items"`
	TotalItems int                 `json:"total_items"`
	Total      decimal.Decimal     `json:"total"`
}

// ParseRequest is the request body for the parse endpoints
type ParseRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
