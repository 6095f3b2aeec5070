package parser

import (
	"github.com/shopspring/decimal"
)

// ParsedItem is a single purchased line extracted from receipt text
type ParsedItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	// Taxable is only set when the receipt format encodes it (Costco)
	Taxable *bool `json:"taxable,omitempty"`
}

// IsTaxable returns the encoded taxable flag, or fallback when the format carries none
func (p ParsedItem) IsTaxable(fallback bool) bool {
	if p.Taxable == nil {
		return fallback
	}
	return *p.Taxable
}

// candidate is an in-progress item whose price may not be known yet
type candidate struct {
	name     string
	price    decimal.Decimal
	resolved bool
}

func (c *candidate) resolve(price decimal.Decimal) {
	c.price = price
	c.resolved = true
}

// itemList is the ordered output of one parse. Items stay addressable by
// index so a later line can revise an earlier emission.
type itemList struct {
	items []ParsedItem
}

// add appends an item and returns its index
func (l *itemList) add(item ParsedItem) int {
	l.items = append(l.items, item)
	return len(l.items) - 1
}

func (l *itemList) at(i int) *ParsedItem {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return &l.items[i]
}

func (l *itemList) slice() []ParsedItem {
	if l.items == nil {
		return []ParsedItem{}
	}
	return l.items
}

func boolPtr(b bool) *bool {
	return &b
}
