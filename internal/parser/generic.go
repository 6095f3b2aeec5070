package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Name is greedy, so the last dollar amount on a line is taken as the price
var genericLineRe = regexp.MustCompile(`(.+)\s+\$(\d+\.\d+)`)

// GenericParser handles unmodeled vendors as one "name $price" item per line
type GenericParser struct{}

// Parse emits one item for every line carrying a name and a dollar price
func (GenericParser) Parse(lines []string) []ParsedItem {
	var out itemList
	for _, line := range lines {
		matches := genericLineRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		name := strings.TrimSpace(matches[1])
		if name == "" {
			continue
		}

		price, ok := parseAmount(matches[2])
		if !ok {
			price = decimal.Zero
		}

		out.add(ParsedItem{Name: name, Price: price})
	}
	return out.slice()
}
