package loader

import (
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Dataset bundles the four parsed input tables.
type Dataset struct {
	Influencers []model.Influencer
	Posts       []model.Post
	Tracking    []model.Tracking
	Payouts     []model.Payout
}

// Join builds one master row per influencer of the base table, in input
// order, left-joined with post aggregates, tracking aggregates and the first
// payout of each influencer. Aggregates absent for an influencer stay zero.
// Duplicate influencer ids keep the first row.
func Join(ds Dataset) []model.MasterRow {
	log := zap.L().With(zap.String("stage", "join"))

	postAgg := AggregatePosts(ds.Posts)
	trackAgg := AggregateTracking(ds.Tracking)

	payouts := make(map[string]model.Payout, len(ds.Payouts))
	dupPayouts := 0
	for _, p := range ds.Payouts {
		if _, ok := payouts[p.InfluencerID]; ok {
			dupPayouts++
			continue
		}
		payouts[p.InfluencerID] = p
	}
	if dupPayouts > 0 {
		log.Warn("duplicate payout rows ignored", zap.Int("count", dupPayouts))
	}

	seen := make(map[string]struct{}, len(ds.Influencers))
	rows := make([]model.MasterRow, 0, len(ds.Influencers))
	dupInfluencers := 0
	for _, inf := range ds.Influencers {
		if _, ok := seen[inf.ID]; ok {
			dupInfluencers++
			continue
		}
		seen[inf.ID] = struct{}{}

		row := model.MasterRow{Influencer: inf}
		if pa, ok := postAgg[inf.ID]; ok {
			row.TotalPosts = float64(pa.Posts)
			row.TotalReach = pa.TotalReach
			row.AvgReachPerPost = pa.AvgReachPerPost
			row.TotalLikes = pa.TotalLikes
			row.AvgLikesPerPost = pa.AvgLikesPerPost
			row.TotalComments = pa.TotalComments
			row.AvgCommentsPerPost = pa.AvgCommentsPerPost
			row.FirstPostDate = pa.FirstPostDate
			row.LastPostDate = pa.LastPostDate
		}
		if ta, ok := trackAgg[inf.ID]; ok {
			row.TotalOrders = ta.TotalOrders
			row.TotalRevenue = ta.TotalRevenue
			row.CampaignsCount = float64(ta.CampaignsCount)
		}
		if p, ok := payouts[inf.ID]; ok {
			row.TotalPayout = p.TotalPayout
			row.Basis = p.Basis
			row.Rate = p.Rate
		}
		rows = append(rows, row)
	}
	if dupInfluencers > 0 {
		log.Warn("duplicate influencer ids ignored", zap.Int("count", dupInfluencers))
	}

	orphans := countOrphans(seen, postAgg, trackAgg, payouts)
	if orphans > 0 {
		log.Warn("rows for unknown influencers dropped", zap.Int("influencers", orphans))
	}

	log.Info("master table built",
		zap.Int("influencers", len(rows)),
		zap.Int("posts", len(ds.Posts)),
		zap.Int("tracking", len(ds.Tracking)),
		zap.Int("payouts", len(ds.Payouts)),
	)
	return rows
}

// countOrphans counts distinct influencer ids present in the fact tables but
// not in the base.
func countOrphans(base map[string]struct{}, posts map[string]PostAggregate, tracking map[string]TrackingAggregate, payouts map[string]model.Payout) int {
	orphans := make(map[string]struct{})
	for id := range posts {
		if _, ok := base[id]; !ok {
			orphans[id] = struct{}{}
		}
	}
	for id := range tracking {
		if _, ok := base[id]; !ok {
			orphans[id] = struct{}{}
		}
	}
	for id := range payouts {
		if _, ok := base[id]; !ok {
			orphans[id] = struct{}{}
		}
	}
	return len(orphans)
}
