package parser

import (
	"regexp"
	"strings"
)

var (
	totalSuffixRe = regexp.MustCompile(`,\s+[\d.]+\s+total$`)
	// "0.64 lbs x $0.98/each"
	weightLineRe = regexp.MustCompile(`^([\d.]+)\s+lbs?\s+x\s+\$([\d.]+)/each`)
	// "2 x $1.25/each"
	unitLineRe = regexp.MustCompile(`^\d+\s+x\s+\$([\d.]+)/each`)
)

// parseLegacyKroger handles the older export where the price trails the name
// without a Received: marker. A new name flushes the previous candidate.
func parseLegacyKroger(lines []string) []ParsedItem {
	var out itemList
	var current *candidate

	flush := func() {
		if current != nil && current.resolved {
			out.add(ParsedItem{Name: current.name, Price: current.price})
		}
	}

	c := newCursor(lines)
	for ; !c.done(); c.advance(1) {
		line := c.line()

		switch {
		case isKrogerNoise(line):
			continue

		case isLegacyName(c):
			flush()
			current = &candidate{name: strings.TrimSpace(totalSuffixRe.ReplaceAllString(line, ""))}

		case barePriceRe.MatchString(line):
			price, ok := firstAmount(line)
			if !ok || current == nil {
				continue
			}
			current.resolve(price)

			// "$1.15" / "discounted from" / "$1.50": keep the first, drop the original
			if next, ok := c.peek(1); ok && next == discountPhrase {
				c.advance(1)
				if original, ok := c.peek(1); ok && barePriceRe.MatchString(original) {
					c.advance(1)
				}
			}

		case line == discountPhrase:
			continue

		case weightLineRe.MatchString(line):
			if current == nil {
				continue
			}
			// An explicit charged amount on the next line beats our own arithmetic
			if next, ok := c.peek(1); ok && barePriceRe.MatchString(next) {
				c.advance(1)
				if price, ok := firstAmount(next); ok {
					current.resolve(price)
				}
				continue
			}
			m := weightLineRe.FindStringSubmatch(line)
			weight, okWeight := parseAmount(m[1])
			unit, okUnit := parseAmount(m[2])
			if okWeight && okUnit {
				current.resolve(weightPrice(weight, unit))
			}

		case unitLineRe.MatchString(line):
			m := unitLineRe.FindStringSubmatch(line)
			if current == nil || current.resolved {
				continue
			}
			if price, ok := parseAmount(m[1]); ok {
				current.resolve(price)
			}

		case strings.Contains(line, "$"):
			price, ok := firstAmount(line)
			if !ok {
				continue
			}
			if current == nil {
				// Orphan price: borrow a name from up to three lines back
				if name, found := legacyNameBehind(c, 3); found {
					current = &candidate{name: name}
					current.resolve(price)
				}
			} else if !current.resolved {
				current.resolve(price)
			}
		}
	}

	flush()
	return out.slice()
}

// isLegacyName reports whether the cursor line starts a new product
func isLegacyName(c *cursor) bool {
	line := c.line()
	if totalSuffixRe.MatchString(line) {
		return true
	}

	next, ok := c.peek(1)
	if !ok {
		return false
	}
	return !strings.Contains(line, "$") &&
		!startsWithDigit(line) &&
		!strings.Contains(line, discountPhrase) &&
		strings.Contains(next, "$")
}

func legacyNameBehind(c *cursor, window int) (string, bool) {
	for n := 1; n <= window; n++ {
		prev, ok := c.behind(n)
		if !ok {
			break
		}
		if strings.Contains(prev, "$") || startsWithDigit(prev) || isKrogerNoise(prev) {
			continue
		}
		return prev, true
	}
	return "", false
}

func startsWithDigit(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '9'
}
