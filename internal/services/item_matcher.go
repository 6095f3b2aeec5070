package services

import (
	"context"
	"sort"
	"strings"

	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/models"
)

// SimilarItemFinder looks up categorized catalog items by name similarity
type SimilarItemFinder interface {
	FindSimilarItems(ctx context.Context, userID int, name string, limit int) ([]models.MatchResult, error)
}

// ItemMatcher suggests categories for new items from similar, already categorized ones
type ItemMatcher struct {
	finder SimilarItemFinder
	log    logger.Logger
}

// NewItemMatcher creates a new item matcher
func NewItemMatcher(finder SimilarItemFinder) *ItemMatcher {
	return &ItemMatcher{
		finder: finder,
		log:    logger.With("component", "item_matcher"),
	}
}

// FindMatches finds categorized items similar to the given name. Catalog names
// keep their receipt abbreviations, so when expansion changes the name both
// spellings are looked up and each item keeps its higher score.
func (m *ItemMatcher) FindMatches(ctx context.Context, userID int, itemName string, limit int) ([]models.MatchResult, error) {
	expanded := normalizeItemName(itemName)
	matches, err := m.finder.FindSimilarItems(ctx, userID, expanded, limit)
	if err != nil {
		return nil, err
	}

	raw := strings.Join(strings.Fields(strings.ToLower(itemName)), " ")
	if raw == expanded {
		return matches, nil
	}

	rawMatches, err := m.finder.FindSimilarItems(ctx, userID, raw, limit)
	if err != nil {
		return nil, err
	}

	return mergeMatches(limit, matches, rawMatches), nil
}

// mergeMatches keeps the best score per item, highest first, capped at limit
func mergeMatches(limit int, sets ...[]models.MatchResult) []models.MatchResult {
	best := make(map[int]models.MatchResult)
	for _, set := range sets {
		for _, match := range set {
			if prev, ok := best[match.ItemID]; !ok || match.Confidence > prev.Confidence {
				best[match.ItemID] = match
			}
		}
	}

	merged := make([]models.MatchResult, 0, len(best))
	for _, match := range best {
		merged = append(merged, match)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].ItemID < merged[j].ItemID
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Suggest returns category suggestions keyed by item name for every item
// without a category. Matches below low confidence are dropped. Lookup
// failures only cost that item its suggestions.
func (m *ItemMatcher) Suggest(ctx context.Context, userID int, items []models.ImportedItem) map[string][]models.MatchResult {
	suggestions := make(map[string][]models.MatchResult)
	seen := make(map[string]bool)

	for _, item := range items {
		if item.CategoryID != nil || seen[item.Name] {
			continue
		}
		seen[item.Name] = true

		matches, err := m.FindMatches(ctx, userID, item.Name, 3)
		if err != nil {
			m.log.Warn("Item match lookup failed", "item", item.Name, "error", err)
			continue
		}

		var kept []models.MatchResult
		for _, match := range matches {
			match.Level = GetMatchConfidenceLevel(match.Confidence)
			if match.Level != "none" {
				kept = append(kept, match)
			}
		}
		if len(kept) > 0 {
			suggestions[item.Name] = kept
		}
	}

	return suggestions
}

// Receipt abbreviations and their catalog spelling
var abbreviations = map[string]string{
	"org":   "organic",
	"whl":   "whole",
	"chkn":  "chicken",
	"brst":  "breast",
	"bnls":  "boneless",
	"sknls": "skinless",
	"gal":   "gallon",
	"qt":    "quart",
	"pt":    "pint",
	"oz":    "ounce",
	"lb":    "pound",
	"lbs":   "pounds",
	"pkg":   "package",
	"btl":   "bottle",
	"cn":    "can",
	"bx":    "box",
	"bg":    "bag",
	"ea":    "each",
	"ct":    "count",
	"pc":    "piece",
	"pcs":   "pieces",
	"lrg":   "large",
	"med":   "medium",
	"sml":   "small",
	"frsh":  "fresh",
	"frzn":  "frozen",
	"veg":   "vegetable",
	"vegs":  "vegetables",
	"frt":   "fruit",
	"jce":   "juice",
	"mlk":   "milk",
	"chse":  "cheese",
	"brd":   "bread",
	"wht":   "white",
	"brn":   "brown",
	"grn":   "green",
	"yel":   "yellow",
	"blk":   "black",
	"ks":    "kirkland signature",
	"gv":    "great value",
}

// normalizeItemName lowercases a name and expands whole-word abbreviations
func normalizeItemName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		trimmed := strings.Trim(word, ",.")
		if full, ok := abbreviations[trimmed]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// GetMatchConfidenceLevel returns a human-readable confidence level
func GetMatchConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence >= 0.7:
		return "medium"
	case confidence >= 0.5:
		return "low"
	default:
		return "none"
	}
}
