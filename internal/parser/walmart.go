package parser

import (
	"regexp"
	"strings"
)

// Order status and button text from the Walmart order page
var walmartStatusLines = map[string]bool{
	"Shopped":               true,
	"Add to cart":           true,
	"Review item":           true,
	"Approved substitution": true,
	"Weight-adjusted":       true,
	"Substitution":          true,
	"Out of stock":          true,
}

var (
	walmartPerPoundRe  = regexp.MustCompile(amount + `/lb`)
	walmartDiscountRe  = regexp.MustCompile(`Discount price ` + amount)
	walmartWasRe       = regexp.MustCompile(`Was ` + amount)
	walmartSavingsRe   = regexp.MustCompile(amount + `\s+from savings`)
	walmartWasPairRe   = regexp.MustCompile(amount + `.*Was ` + amount)
	walmartTrailingRe  = regexp.MustCompile(amount + `$`)
	walmartQtyPriceRe  = regexp.MustCompile(`Qty \d+\s+` + amount)
	walmartAnyAmountRe = regexp.MustCompile(amount)
)

// Quantity, pack, unit price and variant lines
var walmartDescriptors = []*regexp.Regexp{
	regexp.MustCompile(`^Qty \d+$`),
	regexp.MustCompile(`^Multipack Quantity: \d+$`),
	regexp.MustCompile(`^Count: \d+$`),
	regexp.MustCompile(`^Count Per Pack: \d+$`),
	regexp.MustCompile(`^\d+(\.\d+)?¢/[a-z ]+$`),
	regexp.MustCompile(amount + `/[a-z]+`),
	regexp.MustCompile(amount + ` ea`),
	regexp.MustCompile(`^(Size|Actual Color|Color):\s*.+$`),
}

// WalmartParser handles the Walmart order details page. It holds a single
// pending product name until a price line resolves it.
type WalmartParser struct{}

// Parse pairs each product name with the first price line that follows it
func (WalmartParser) Parse(lines []string) []ParsedItem {
	var out itemList
	pending := ""

	// emit resolves the pending name with the first amount on line
	emit := func(line string) bool {
		if pending == "" {
			return false
		}
		price, ok := firstAmount(line)
		if !ok {
			return false
		}
		out.add(ParsedItem{Name: pending, Price: price})
		pending = ""
		return true
	}

	c := newCursor(lines)
	for ; !c.done(); c.advance(1) {
		line := c.line()

		switch {
		case walmartStatusLines[line],
			strings.Contains(line, "Walmart Cash"),
			bareIntRe.MatchString(line):
			continue

		case barePriceRe.MatchString(line):
			emit(line)

		case walmartPerPoundRe.MatchString(line):
			continue

		case walmartDiscountRe.MatchString(line):
			if !emit(line) {
				continue
			}
			// Walmart repeats the discounted price after the "Was" line
			if next, ok := c.peek(1); ok && walmartWasRe.MatchString(next) {
				c.advance(1)
			}
			if next, ok := c.peek(1); ok && barePriceRe.MatchString(next) {
				c.advance(1)
			}

		case walmartSavingsRe.MatchString(line):
			continue

		case walmartWasPairRe.MatchString(line), walmartTrailingRe.MatchString(line):
			emit(line)

		case walmartQtyPriceRe.MatchString(line):
			emit(line)

		case isWalmartDescriptor(line):
			continue

		case pending == "" && !walmartAnyAmountRe.MatchString(line):
			pending = line
		}
	}

	return out.slice()
}

func isWalmartDescriptor(line string) bool {
	for _, pattern := range walmartDescriptors {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
