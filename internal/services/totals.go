package services

import (
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

// UncategorizedBucket collects lines whose item has no category
const UncategorizedBucket = "Uncategorized"

// TotalsCalculator computes receipt and per-category totals with sales tax
type TotalsCalculator struct {
	taxRate decimal.Decimal
}

// NewTotalsCalculator creates a calculator for the given tax rate (0.07 = 7%)
func NewTotalsCalculator(taxRate decimal.Decimal) *TotalsCalculator {
	return &TotalsCalculator{taxRate: taxRate}
}

// Compute totals the lines. Categories keep first-appearance order and tax
// is rounded to cents once per bucket.
func (t *TotalsCalculator) Compute(lines []models.ReceiptLine) *models.ReceiptTotals {
	type bucket struct {
		total decimal.Decimal
		tax   decimal.Decimal
		count int
	}

	var order []string
	buckets := make(map[string]*bucket)
	subtotal := decimal.Zero
	tax := decimal.Zero

	for _, line := range lines {
		name := UncategorizedBucket
		if line.CategoryName != nil && *line.CategoryName != "" {
			name = *line.CategoryName
		}

		b, ok := buckets[name]
		if !ok {
			b = &bucket{total: decimal.Zero, tax: decimal.Zero}
			buckets[name] = b
			order = append(order, name)
		}

		lineTax := decimal.Zero
		if line.Taxable {
			lineTax = line.Price.Mul(t.taxRate)
		}

		b.total = b.total.Add(line.Price)
		b.tax = b.tax.Add(lineTax)
		b.count++

		subtotal = subtotal.Add(line.Price)
		tax = tax.Add(lineTax)
	}

	totals := &models.ReceiptTotals{
		Subtotal:   subtotal.Round(2),
		Tax:        tax.Round(2),
		Categories: make([]models.CategoryTotal, 0, len(order)),
	}
	totals.Total = totals.Subtotal.Add(totals.Tax)

	for _, name := range order {
		b := buckets[name]
		total := b.total.Round(2)
		bucketTax := b.tax.Round(2)
		totals.Categories = append(totals.Categories, models.CategoryTotal{
			Category:     name,
			Total:        total,
			Tax:          bucketTax,
			TotalWithTax: total.Add(bucketTax),
			Count:        b.count,
		})
	}

	return totals
}
