// Package insight builds the summary views, executive KPIs and investment
// action buckets over a derived master table.
package insight

import (
	"sort"

	"github.com/sells-group/influencer-kpi/internal/kpi"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// group partitions rows by key and returns the keys in ascending order.
// Rows with an empty key belong to no group.
func group(rows []model.MasterRow, key func(model.MasterRow) string) ([]string, map[string][]model.MasterRow) {
	groups := make(map[string][]model.MasterRow)
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

func mean(rows []model.MasterRow, field func(model.MasterRow) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += field(r)
	}
	return sum / float64(len(rows))
}

// PlatformView sums revenue, payout, orders and reach per platform and
// derives platform ROAS and revenue share. Rows are ordered by platform.
func PlatformView(rows []model.MasterRow) []model.PlatformPerformance {
	keys, groups := group(rows, func(r model.MasterRow) string { return r.Platform })

	out := make([]model.PlatformPerformance, 0, len(keys))
	var grand float64
	for _, k := range keys {
		p := model.PlatformPerformance{Platform: k, InfluencerCount: len(groups[k])}
		for _, r := range groups[k] {
			p.TotalRevenue += r.TotalRevenue
			p.TotalPayout += r.TotalPayout
			p.TotalOrders += r.TotalOrders
			p.TotalReach += r.TotalReach
		}
		p.PlatformROAS = kpi.SafeDiv(p.TotalRevenue, p.TotalPayout)
		grand += p.TotalRevenue
		out = append(out, p)
	}
	for i := range out {
		out[i].RevenueShare = kpi.SafeDiv(out[i].TotalRevenue, grand) * 100
	}
	return out
}

// PersonaView aggregates per persona combination, ordered by mean ROAS
// descending.
func PersonaView(rows []model.MasterRow) []model.PersonaPerformance {
	keys, groups := group(rows, func(r model.MasterRow) string { return r.PersonaCombination })

	out := make([]model.PersonaPerformance, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		p := model.PersonaPerformance{
			PersonaCombination: k,
			AvgROAS:            mean(g, func(r model.MasterRow) float64 { return r.ROAS }),
			AvgEfficiency:      mean(g, func(r model.MasterRow) float64 { return r.EfficiencyScore }),
			InfluencerCount:    len(g),
		}
		for _, r := range g {
			p.TotalPosts += r.TotalPosts
			p.TotalRevenue += r.TotalRevenue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgROAS > out[j].AvgROAS })
	return out
}

// CategoryView aggregates per content category, ordered by mean ROAS
// descending.
func CategoryView(rows []model.MasterRow) []model.CategoryPerformance {
	keys, groups := group(rows, func(r model.MasterRow) string { return r.Category })

	out := make([]model.CategoryPerformance, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		c := model.CategoryPerformance{
			Category:          k,
			AvgROAS:           mean(g, func(r model.MasterRow) float64 { return r.ROAS }),
			AvgEngagementRate: mean(g, func(r model.MasterRow) float64 { return r.EngagementRate }),
			InfluencerCount:   len(g),
		}
		for _, r := range g {
			c.TotalRevenue += r.TotalRevenue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgROAS > out[j].AvgROAS })
	return out
}

// ProductView sums orders and revenue per product from the tracking events,
// ordered by revenue descending. Events without a product are left out.
func ProductView(events []model.Tracking) []model.ProductPerformance {
	byProduct := make(map[string]*model.ProductPerformance)
	for _, e := range events {
		if e.Product == "" {
			continue
		}
		p, ok := byProduct[e.Product]
		if !ok {
			p = &model.ProductPerformance{Product: e.Product}
			byProduct[e.Product] = p
		}
		p.Orders += float64(e.Orders)
		p.Revenue += e.Revenue
	}

	out := make([]model.ProductPerformance, 0, len(byProduct))
	for _, p := range byProduct {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Product < out[j].Product
	})
	return out
}
