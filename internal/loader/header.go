// Package loader turns the four raw campaign tables into typed records and
// joins their per-influencer aggregates onto the influencer base table.
package loader

import "strings"

// platformSpellings are header spellings of "platform" produced by a broken
// upstream PDF-to-CSV export.
var platformSpellings = map[string]string{
	"pla0orm": "platform",
	"pla4orm": "platform",
}

// NormalizeHeader trims and lower-cases every column name and canonicalizes
// the known alternate spellings of the platform column.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if canon, ok := platformSpellings[h]; ok {
			h = canon
		}
		out[i] = h
	}
	return out
}

// columns maps canonical column names to their index in a row.
type columns map[string]int

// indexColumns builds the column index for a normalized header. An alias is
// only used when the canonical column itself is absent; the first occurrence
// of a repeated column wins.
func indexColumns(header []string, aliases map[string]string) columns {
	norm := NormalizeHeader(header)
	idx := make(columns, len(norm))
	for i, h := range norm {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	for alias, canon := range aliases {
		i, ok := idx[alias]
		if !ok {
			continue
		}
		if _, has := idx[canon]; !has {
			idx[canon] = i
		}
	}
	return idx
}

// get returns the trimmed value of the named column, or "" when the column
// is absent or the row is short.
func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// has reports whether the named column is present.
func (c columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

var (
	influencerAliases = map[string]string{
		"id":        "influencer_id",
		"followers": "follower_count",
	}
	postAliases = map[string]string{
		"id":        "post_id",
		"post_date": "date",
	}
	trackingAliases = map[string]string{
		"platform": "source",
	}
	payoutAliases = map[string]string{
		"orders": "total_orders",
		"payout": "total_payout",
	}
)
