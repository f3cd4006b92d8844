package loader

import (
	"github.com/sells-group/influencer-kpi/internal/fetcher"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// ParseInfluencers converts the influencer table into records. Missing
// columns produce zero values.
func ParseInfluencers(t *fetcher.Table) []model.Influencer {
	if t == nil {
		return nil
	}
	cols := indexColumns(t.Header, influencerAliases)
	out := make([]model.Influencer, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, model.Influencer{
			ID:            cols.get(row, "influencer_id"),
			Name:          cols.get(row, "name"),
			Category:      cols.get(row, "category"),
			Gender:        cols.get(row, "gender"),
			FollowerCount: parseInt64Or(cols.get(row, "follower_count"), 0),
			Platform:      cols.get(row, "platform"),
		})
	}
	return out
}

// ParsePosts converts the post table into records.
func ParsePosts(t *fetcher.Table) []model.Post {
	if t == nil {
		return nil
	}
	cols := indexColumns(t.Header, postAliases)
	out := make([]model.Post, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, model.Post{
			ID:           cols.get(row, "post_id"),
			InfluencerID: cols.get(row, "influencer_id"),
			Platform:     cols.get(row, "platform"),
			Date:         parseDate(cols.get(row, "date")),
			URL:          cols.get(row, "url"),
			Caption:      cols.get(row, "caption"),
			Reach:        parseInt64Or(cols.get(row, "reach"), 0),
			Likes:        parseInt64Or(cols.get(row, "likes"), 0),
			Comments:     parseInt64Or(cols.get(row, "comments"), 0),
		})
	}
	return out
}

// ParseTracking converts the tracking table into records.
func ParseTracking(t *fetcher.Table) []model.Tracking {
	if t == nil {
		return nil
	}
	cols := indexColumns(t.Header, trackingAliases)
	out := make([]model.Tracking, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, model.Tracking{
			Source:       cols.get(row, "source"),
			Campaign:     cols.get(row, "campaign"),
			PostID:       cols.get(row, "post_id"),
			InfluencerID: cols.get(row, "influencer_id"),
			UserID:       cols.get(row, "user_id"),
			Product:      cols.get(row, "product"),
			Date:         parseDate(cols.get(row, "date")),
			Orders:       parseInt64Or(cols.get(row, "orders"), 0),
			Revenue:      parseFloat64Or(cols.get(row, "revenue"), 0),
		})
	}
	return out
}

// ParsePayouts converts the payout table into records.
func ParsePayouts(t *fetcher.Table) []model.Payout {
	if t == nil {
		return nil
	}
	cols := indexColumns(t.Header, payoutAliases)
	out := make([]model.Payout, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, model.Payout{
			InfluencerID: cols.get(row, "influencer_id"),
			Basis:        model.ParsePayoutBasis(cols.get(row, "basis")),
			Rate:         parseFloat64Or(cols.get(row, "rate"), 0),
			TotalOrders:  parseInt64Or(cols.get(row, "total_orders"), 0),
			TotalPayout:  parseFloat64Or(cols.get(row, "total_payout"), 0),
		})
	}
	return out
}
