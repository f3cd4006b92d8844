package insight

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sells-group/influencer-kpi/internal/kpi"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// ActionLimit caps the size of every action bucket.
const ActionLimit = 5

// Payout quantiles bounding the Invest More and Optimize buckets.
const (
	LowPayoutQuantile  = 0.30
	HighPayoutQuantile = 0.70
)

// Actions segments influencers into investment buckets:
//   - Invest More: high ROAS at or below the 30th payout percentile, best first.
//   - Optimize: low ROAS at or above the 70th payout percentile, worst first.
//   - Monitor: medium ROAS, a random sample drawn from rnd.
//
// A nil rnd uses a time-seeded source.
func Actions(rows []model.MasterRow, rnd *rand.Rand) model.InvestmentActions {
	out := model.InvestmentActions{
		InvestMore: []model.ActionRow{},
		Optimize:   []model.ActionRow{},
		Monitor:    []model.ActionRow{},
	}
	if len(rows) == 0 {
		return out
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}

	payouts := make([]float64, len(rows))
	for i, r := range rows {
		payouts[i] = r.TotalPayout
	}
	p30 := Quantile(payouts, LowPayoutQuantile)
	p70 := Quantile(payouts, HighPayoutQuantile)

	var invest, optimize, monitor []model.MasterRow
	for _, r := range rows {
		switch {
		case r.ROAS >= kpi.HighROAS && r.TotalPayout <= p30:
			invest = append(invest, r)
		case r.ROAS < kpi.MediumROAS && r.TotalPayout >= p70:
			optimize = append(optimize, r)
		}
		if r.ROAS >= kpi.MediumROAS && r.ROAS < kpi.HighROAS {
			monitor = append(monitor, r)
		}
	}

	sort.SliceStable(invest, func(i, j int) bool { return invest[i].ROAS > invest[j].ROAS })
	sort.SliceStable(optimize, func(i, j int) bool { return optimize[i].ROAS < optimize[j].ROAS })

	out.InvestMore = toActionRows(head(invest, ActionLimit))
	out.Optimize = toActionRows(head(optimize, ActionLimit))
	out.Monitor = toActionRows(sample(monitor, ActionLimit, rnd))
	return out
}

// Quantile returns the q-th quantile of values using linear interpolation
// between the closest ranks. Returns 0 for an empty slice.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func head(rows []model.MasterRow, n int) []model.MasterRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// sample draws up to n rows without replacement, in draw order.
func sample(rows []model.MasterRow, n int, rnd *rand.Rand) []model.MasterRow {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]model.MasterRow, 0, n)
	for _, i := range rnd.Perm(len(rows))[:n] {
		out = append(out, rows[i])
	}
	return out
}

func toActionRows(rows []model.MasterRow) []model.ActionRow {
	out := make([]model.ActionRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ActionRow{
			InfluencerID: r.ID,
			Name:         r.Name,
			ROAS:         r.ROAS,
			TotalPayout:  r.TotalPayout,
			TotalRevenue: r.TotalRevenue,
			Platform:     r.Platform,
		})
	}
	return out
}
