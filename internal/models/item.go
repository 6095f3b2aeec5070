package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry keyed by exact name per user. Receipt lines point at it.
type Item struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Source       string          `json:"source"`
	CategoryID   *int            `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Taxable      bool            `json:"taxable"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListParams contains parameters for listing items
type ItemListParams struct {
	UserID        int
	Search        string
	Uncategorized bool
	Limit         int
	Offset        int
}

// CategorizeRequest assigns one item to a category
type CategorizeRequest struct {
	ItemID     int `json:"item_id" validate:"gt=0"`
	CategoryID int `json:"category_id" validate:"gt=0"`
}

// BulkCategorizeRequest assigns several items to the same category
type BulkCategorizeRequest struct {
	ItemIDs    []int `json:"item_ids" validate:"min=1,max=500,dive,gt=0"`
	CategoryID int   `json:"category_id" validate:"gt=0"`
}

// UncategorizeRequest clears the category of the listed items
type UncategorizeRequest struct {
	ItemIDs []int `json:"item_ids" validate:"min=1,max=500,dive,gt=0"`
}

// TaxableRequest flips the taxable flag on an item and its receipt lines
type TaxableRequest struct {
	ItemID  int  `json:"item_id" validate:"gt=0"`
	Taxable bool `json:"taxable"`
}

// MatchResult represents a fuzzy match result
type MatchResult struct {
	ItemID       int     `json:"item_id"`
	Name         string  `json:"name"`
	CategoryID   *int    `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	Confidence   float64 `json:"confidence"`
	Level        string  `json:"level"`
	MatchType    string  `json:"match_type"`
}
