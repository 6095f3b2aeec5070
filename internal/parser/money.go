package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amount is a dollar-prefixed currency value such as $5.49 or $1,299.00
const amount = `\$\d[\d,]*\.\d+`

var (
	amountRe    = regexp.MustCompile(`\$\s*(\d[\d,]*\.\d+)`)
	barePriceRe = regexp.MustCompile(`^\$\d[\d,]*\.\d{2}$`)
	bareIntRe   = regexp.MustCompile(`^\d+$`)
)

// parseAmount converts "$1,234.56" or "5.49" into a two-decimal amount
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// firstAmount returns the first dollar amount appearing in line
func firstAmount(line string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	return parseAmount(m[1])
}

// weightPrice is weight times unit price, rounded half away from zero to cents
func weightPrice(weight, unitPrice decimal.Decimal) decimal.Decimal {
	return weight.Mul(unitPrice).Round(2)
}

// applyDiscount subtracts discount from price. The result never drops below zero.
func applyDiscount(price, discount decimal.Decimal) decimal.Decimal {
	adjusted := price.Sub(discount).Round(2)
	if adjusted.IsNegative() {
		return decimal.Zero
	}
	return adjusted
}
