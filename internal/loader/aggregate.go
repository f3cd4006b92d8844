package loader

import (
	"time"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// PostAggregate summarizes the posts of one influencer.
type PostAggregate struct {
	Posts              int64
	TotalReach         float64
	AvgReachPerPost    float64
	TotalLikes         float64
	AvgLikesPerPost    float64
	TotalComments      float64
	AvgCommentsPerPost float64
	FirstPostDate      *time.Time
	LastPostDate       *time.Time
}

// TrackingAggregate summarizes the attributed orders of one influencer.
type TrackingAggregate struct {
	TotalOrders    float64
	TotalRevenue   float64
	CampaignsCount int
}

// AggregatePosts groups posts by influencer id. Posts without an influencer
// id are skipped. Sums and means are rounded to two decimals.
func AggregatePosts(posts []model.Post) map[string]PostAggregate {
	out := make(map[string]PostAggregate)
	for _, p := range posts {
		if p.InfluencerID == "" {
			continue
		}
		agg := out[p.InfluencerID]
		agg.Posts++
		agg.TotalReach += float64(p.Reach)
		agg.TotalLikes += float64(p.Likes)
		agg.TotalComments += float64(p.Comments)
		if p.Date != nil {
			if agg.FirstPostDate == nil || p.Date.Before(*agg.FirstPostDate) {
				d := *p.Date
				agg.FirstPostDate = &d
			}
			if agg.LastPostDate == nil || p.Date.After(*agg.LastPostDate) {
				d := *p.Date
				agg.LastPostDate = &d
			}
		}
		out[p.InfluencerID] = agg
	}

	for id, agg := range out {
		n := float64(agg.Posts)
		agg.AvgReachPerPost = round2(agg.TotalReach / n)
		agg.AvgLikesPerPost = round2(agg.TotalLikes / n)
		agg.AvgCommentsPerPost = round2(agg.TotalComments / n)
		agg.TotalReach = round2(agg.TotalReach)
		agg.TotalLikes = round2(agg.TotalLikes)
		agg.TotalComments = round2(agg.TotalComments)
		out[id] = agg
	}
	return out
}

// AggregateTracking groups tracking events by influencer id. Empty campaign
// names are not counted as campaigns.
func AggregateTracking(events []model.Tracking) map[string]TrackingAggregate {
	out := make(map[string]TrackingAggregate)
	campaigns := make(map[string]map[string]struct{})
	for _, e := range events {
		if e.InfluencerID == "" {
			continue
		}
		agg := out[e.InfluencerID]
		agg.TotalOrders += float64(e.Orders)
		agg.TotalRevenue += e.Revenue
		out[e.InfluencerID] = agg

		if e.Campaign == "" {
			continue
		}
		seen, ok := campaigns[e.InfluencerID]
		if !ok {
			seen = make(map[string]struct{})
			campaigns[e.InfluencerID] = seen
		}
		seen[e.Campaign] = struct{}{}
	}

	for id, agg := range out {
		agg.TotalOrders = round2(agg.TotalOrders)
		agg.TotalRevenue = round2(agg.TotalRevenue)
		agg.CampaignsCount = len(campaigns[id])
		out[id] = agg
	}
	return out
}
