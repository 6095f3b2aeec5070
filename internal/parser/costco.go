package parser

import (
	"regexp"
	"strings"
)

// taxExemptPrefix marks a Costco item that is NOT subject to sales tax
const taxExemptPrefix = "E"

var (
	costcoFooterRe = regexp.MustCompile(`(?i)^(\**\s*)?(SUB\s*TOTAL|TAX|TOTAL|BALANCE|CHANGE)\b|^[-=*_]{3,}$`)
	// "366226 / 1489812 4.00-": instant savings against item 1489812
	costcoDiscountRe = regexp.MustCompile(`^(?:E\s+)?(\d+)\s*/\s*(\d+)\s+(\d[\d,]*\.\d{2})-`)
	// "E 179571 COKEDEMEXICO 35.49 N"
	costcoItemRe = regexp.MustCompile(`^(?:(E)\s+)?(\d+)\s+(.+?)\s+(\d[\d,]*\.\d{2})(?:\s+([YN]))?$`)
)

// Characters Costco wraps around some item names, e.g. "**KS WATER**"
const nameWrapperChars = `*~_"'#`

// CostcoParser handles Costco's one-item-per-line receipt layout.
type CostcoParser struct{}

// Parse emits one item per item line and applies discount lines to the item
// they reference, revising its already emitted price.
func (CostcoParser) Parse(lines []string) []ParsedItem {
	var out itemList
	codes := make(map[string]int)

	c := newCursor(lines)
	for ; !c.done(); c.advance(1) {
		line := c.line()

		if costcoFooterRe.MatchString(line) {
			continue
		}

		if m := costcoDiscountRe.FindStringSubmatch(line); m != nil {
			parent := out.at(lookupCode(codes, m[2]))
			discount, ok := parseAmount(m[3])
			if parent != nil && ok {
				parent.Price = applyDiscount(parent.Price, discount)
			}
			continue
		}

		m := costcoItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := stripNameWrapper(m[3])
		price, ok := parseAmount(m[4])
		if name == "" || !ok {
			continue
		}

		exempt := m[1] == taxExemptPrefix
		// Some exports put the prefix on its own line
		if prev, ok := c.behind(1); ok && prev == taxExemptPrefix {
			exempt = true
		}

		codes[m[2]] = out.add(ParsedItem{
			Name:    name,
			Price:   price,
			Taxable: boolPtr(!exempt),
		})
	}

	return out.slice()
}

func lookupCode(codes map[string]int, code string) int {
	if idx, ok := codes[code]; ok {
		return idx
	}
	return -1
}

// stripNameWrapper removes symmetric decoration around a name
func stripNameWrapper(name string) string {
	name = strings.TrimSpace(name)
	for len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if first != last || !strings.ContainsRune(nameWrapperChars, rune(first)) {
			break
		}
		name = strings.TrimSpace(name[1 : len(name)-1])
	}
	return name
}
