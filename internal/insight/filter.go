package insight

import (
	"strings"
	"time"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Filter selects master rows. Empty sets match everything; set matching is
// case-insensitive. When Start or End is set, only rows with post dates
// overlapping the window are kept.
type Filter struct {
	Platforms             []string
	Categories            []string
	Tiers                 []string
	PerformanceCategories []string
	Start                 *time.Time
	End                   *time.Time
}

// IsZero reports whether the filter keeps every row.
func (f Filter) IsZero() bool {
	return len(f.Platforms) == 0 && len(f.Categories) == 0 && len(f.Tiers) == 0 &&
		len(f.PerformanceCategories) == 0 && f.Start == nil && f.End == nil
}

// Apply returns the rows matching every criterion, preserving order.
func (f Filter) Apply(rows []model.MasterRow) []model.MasterRow {
	platforms := toSet(f.Platforms)
	categories := toSet(f.Categories)
	tiers := toSet(f.Tiers)
	perf := toSet(f.PerformanceCategories)

	out := make([]model.MasterRow, 0, len(rows))
	for _, r := range rows {
		if !matches(platforms, r.Platform) ||
			!matches(categories, r.Category) ||
			!matches(tiers, string(r.FollowerTier)) ||
			!matches(perf, string(r.PerformanceCategory)) {
			continue
		}
		if !f.inWindow(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f Filter) inWindow(r model.MasterRow) bool {
	if f.Start == nil && f.End == nil {
		return true
	}
	if r.FirstPostDate == nil || r.LastPostDate == nil {
		return false
	}
	if f.Start != nil && r.LastPostDate.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.FirstPostDate.After(*f.End) {
		return false
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func matches(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[strings.ToLower(v)]
	return ok
}
