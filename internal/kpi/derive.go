// Package kpi derives the per-influencer KPI columns of the master table.
package kpi

import (
	"math"
	"time"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Deriver computes KPI columns. Now supplies the reference time for
// recency; nil means time.Now.
type Deriver struct {
	Now func() time.Time
}

// Derive returns a copy of rows with every KPI column filled in. Row-level
// columns are computed in dependency order; ranks are computed last across
// the whole table.
func (d Deriver) Derive(rows []model.MasterRow) []model.MasterRow {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	ref := now()

	out := make([]model.MasterRow, len(rows))
	for i, r := range rows {
		out[i] = deriveRow(r, ref)
	}

	keys := make([]string, len(out))
	roas := make([]float64, len(out))
	for i, r := range out {
		keys[i] = r.Platform
		roas[i] = r.ROAS
	}
	platformRanks := groupDenseRank(keys, roas)
	overallRanks := DenseRank(roas)
	for i := range out {
		out[i].PlatformRank = platformRanks[i]
		out[i].OverallRank = overallRanks[i]
	}
	return out
}

func deriveRow(r model.MasterRow, now time.Time) model.MasterRow {
	engagements := r.TotalLikes + r.TotalComments

	r.ROAS = SafeDiv(r.TotalRevenue, r.TotalPayout)
	r.EngagementRate = SafeDiv(engagements, r.TotalReach) * 100
	r.ConversionRate = SafeDiv(r.TotalOrders, r.TotalReach) * 100
	r.CostPerOrder = SafeDiv(r.TotalPayout, r.TotalOrders)
	r.CostPerEngagement = SafeDiv(r.TotalPayout, engagements)
	r.RevenuePerPost = SafeDiv(r.TotalRevenue, r.TotalPosts)

	r.EfficiencyScore = 0
	if r.ROAS > 0 && r.EngagementRate > 0 && r.ConversionRate > 0 {
		r.EfficiencyScore = finite(r.ROAS * r.EngagementRate * r.ConversionRate / 100)
	}

	r.FollowerTier = Tier(r.FollowerCount)
	r.PerformanceCategory = Performance(r.ROAS)
	r.PersonaCombination = Persona(r.FollowerTier, r.Category, r.Platform)
	r.ROIScore = clamp(finite((r.ROAS*10+r.EfficiencyScore*2)/2), 0, 100)

	r.DaysSinceLastPost = DaysSince(now, r.LastPostDate)
	r.CampaignDuration = CampaignDuration(r.FirstPostDate, r.LastPostDate)
	r.PostFrequency = SafeDiv(r.TotalPosts, float64(r.CampaignDuration)) * 7

	r.EngagementQuality = SafeDiv(r.TotalComments, r.TotalLikes)
	r.ReachEfficiency = SafeDiv(r.TotalReach, float64(r.FollowerCount))
	r.Status = StatusFor(r.DaysSinceLastPost, r.ROAS)
	r.InvestmentEfficiency = r.ROAS
	return r
}

// DaysSince returns the whole days elapsed from last to now, rounded down,
// or NoPostDays when last is nil. Post dates carry no zone, so last is read
// as wall-clock time in now's location.
func DaysSince(now time.Time, last *time.Time) int {
	if last == nil {
		return NoPostDays
	}
	return int(math.Floor(now.Sub(inLocation(*last, now.Location())).Hours() / 24))
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// CampaignDuration returns the inclusive day span between the first and last
// post, or 0 when either date is missing.
func CampaignDuration(first, last *time.Time) int {
	if first == nil || last == nil {
		return 0
	}
	return int(math.Floor(last.Sub(*first).Hours()/24)) + 1
}
