package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	receivedMarker = "Received:"
	paidMarker     = "Paid:"
	discountPhrase = "discounted from"
)

// UI affordances Kroger interleaves with purchased items
var krogerNoisePhrases = []string{
	"Save to List",
	"Saved, View List",
	"Add to Cart",
	"SNAP EBT",
	"Featured",
	"Sponsored",
	"View Offer",
}

var krogerNoisePatterns = []*regexp.Regexp{
	// Promotions: "Buy 2 For $5.00"
	regexp.MustCompile(`(?i)^buy \d+ for \$`),
	// Package descriptors: "8 oz", "10 ct / 1.65 oz"
	regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*(fl oz|oz|lbs?|ct|count|pk|pack|gal|ml|l|g|kg)(\s*/\s*\d+(\.\d+)?\s*(fl oz|oz|lbs?|ct|count|gal|ml|l|g|kg))?$`),
	// Unit prices: "$2.99/lb"
	regexp.MustCompile(`(?i)^\$\d[\d,]*(\.\d+)?\s*/\s*(lb|lbs|oz|each|ea)$`),
	regexp.MustCompile(`(?i)^(about|each|approx\.?)$`),
}

// KrogerParser handles the "Received: / Paid:" purchase history export.
// Text without a Received: marker is treated as the older export layout.
type KrogerParser struct{}

// Parse extracts one item per product name whose paid price follows its Received: marker
func (KrogerParser) Parse(lines []string) []ParsedItem {
	if !hasReceivedMarker(lines) {
		return parseLegacyKroger(lines)
	}

	var out itemList
	c := newCursor(lines)
	for !c.done() {
		name := c.line()
		if !isKrogerName(name) {
			c.advance(1)
			continue
		}

		// Kroger prints every product name twice
		offset := 1
		if next, ok := c.peek(1); ok && next == name {
			offset = 2
		}

		price, consumed, ok := scanPaidPrice(c, offset)
		if !ok {
			c.advance(1)
			continue
		}

		out.add(ParsedItem{Name: name, Price: price})
		c.advance(consumed)
	}
	return out.slice()
}

// scanPaidPrice walks forward from offset to the Received: marker and reads
// the paid amount after it. It gives up when another product name shows up
// first rather than attribute the wrong price. consumed is relative to the cursor.
func scanPaidPrice(c *cursor, offset int) (price decimal.Decimal, consumed int, ok bool) {
	for k := offset; ; k++ {
		line, exists := c.peek(k)
		if !exists {
			return decimal.Zero, 0, false
		}

		if strings.HasPrefix(line, receivedMarker) {
			return readPaidPrice(c, k)
		}

		if isKrogerName(line) {
			return decimal.Zero, 0, false
		}
	}
}

// readPaidPrice parses the amount for the marker at offset k
func readPaidPrice(c *cursor, k int) (decimal.Decimal, int, bool) {
	marker, _ := c.peek(k)

	// Occasionally the amount shares the marker line: "Received: 1 Paid: $5.49"
	if idx := strings.Index(marker, paidMarker); idx >= 0 {
		if price, ok := firstAmount(marker[idx:]); ok {
			if !price.IsPositive() {
				return decimal.Zero, 0, false
			}
			return price, k + 1, true
		}
	}

	priceLine, ok := c.peek(k + 1)
	if !ok {
		return decimal.Zero, 0, false
	}

	// "$6.49 discounted from $6.99": the first amount is what was charged
	price, ok := firstAmount(priceLine)
	if !ok || !price.IsPositive() {
		return decimal.Zero, 0, false
	}

	consumed := k + 2
	// Same pair split across lines: "$6.49" / "discounted from" / "$6.99"
	if next, ok := c.peek(consumed); ok && next == discountPhrase {
		consumed++
		if original, ok := c.peek(consumed); ok && barePriceRe.MatchString(original) {
			consumed++
		}
	}
	return price, consumed, true
}

func hasReceivedMarker(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, receivedMarker) {
			return true
		}
	}
	return false
}

func isKrogerNoise(line string) bool {
	for _, phrase := range krogerNoisePhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	for _, pattern := range krogerNoisePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func isKrogerName(line string) bool {
	switch {
	case len([]rune(line)) <= 2:
		return false
	case strings.HasPrefix(line, "$"):
		return false
	case strings.HasPrefix(line, receivedMarker):
		return false
	case bareIntRe.MatchString(line):
		return false
	case strings.Contains(line, discountPhrase):
		return false
	// Weighed and multi-unit quantities: "0.64 lbs x $0.98/each"
	case weightLineRe.MatchString(line), unitLineRe.MatchString(line):
		return false
	}
	return !isKrogerNoise(line)
}
