// Package parser extracts purchased line items from copy-pasted vendor receipts.
//
// Every vendor parser is a pure function of the normalized line sequence: it
// performs no I/O and keeps all working state local to one call, so receipts
// can be parsed concurrently without coordination.
package parser

// Source identifies the vendor export format of a receipt
type Source string

const (
	SourceKroger  Source = "kroger"
	SourceWalmart Source = "walmart"
	SourceCostco  Source = "costco"
	SourceGeneric Source = "generic"
)

// KnownSources lists the formats with a dedicated parser
var KnownSources = []Source{SourceKroger, SourceWalmart, SourceCostco}

// Parser turns normalized receipt lines into an ordered item sequence
type Parser interface {
	Parse(lines []string) []ParsedItem
}

// ForSource selects the parser for source. Matching is exact; anything
// unrecognized gets the generic parser.
func ForSource(source string) Parser {
	switch Source(source) {
	case SourceKroger:
		return KrogerParser{}
	case SourceWalmart:
		return WalmartParser{}
	case SourceCostco:
		return CostcoParser{}
	default:
		return GenericParser{}
	}
}

// Resolve reports which format ForSource would use for source
func Resolve(source string) Source {
	switch s := Source(source); s {
	case SourceKroger, SourceWalmart, SourceCostco:
		return s
	default:
		return SourceGeneric
	}
}

// Parse normalizes text and runs the parser registered for source
func Parse(text, source string) []ParsedItem {
	return ForSource(source).Parse(Lines(text))
}
