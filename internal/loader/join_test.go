package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-kpi/internal/model"
)

func TestJoin(t *testing.T) {
	ds := Dataset{
		Influencers: []model.Influencer{
			{ID: "INF001", Name: "Alice", Platform: "Instagram"},
			{ID: "INF002", Name: "Bob", Platform: "YouTube"},
			{ID: "INF001", Name: "Alice Again"},
			{ID: "INF003", Name: "Cara", Platform: "Instagram"},
		},
		Posts: []model.Post{
			{InfluencerID: "INF001", Reach: 1000, Likes: 100, Comments: 10, Date: day("2025-06-01")},
			{InfluencerID: "INF001", Reach: 3000, Likes: 300, Comments: 20, Date: day("2025-06-11")},
			{InfluencerID: "INF999", Reach: 10},
		},
		Tracking: []model.Tracking{
			{InfluencerID: "INF001", Campaign: "Summer", Orders: 2, Revenue: 1000},
			{InfluencerID: "INF002", Campaign: "Launch", Orders: 1, Revenue: 50},
			{InfluencerID: "INF999", Campaign: "Launch", Orders: 1, Revenue: 5},
		},
		Payouts: []model.Payout{
			{InfluencerID: "INF001", Basis: model.BasisPerPost, Rate: 250, TotalPayout: 500},
			{InfluencerID: "INF001", TotalPayout: 9999},
		},
	}

	rows := Join(ds)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"INF001", "INF002", "INF003"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})

	alice := rows[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 2.0, alice.TotalPosts)
	assert.Equal(t, 4000.0, alice.TotalReach)
	assert.Equal(t, 2000.0, alice.AvgReachPerPost)
	assert.Equal(t, 2.0, alice.TotalOrders)
	assert.Equal(t, 1000.0, alice.TotalRevenue)
	assert.Equal(t, 1.0, alice.CampaignsCount)
	assert.Equal(t, 500.0, alice.TotalPayout)
	assert.Equal(t, model.BasisPerPost, alice.Basis)

	bob := rows[1]
	assert.Zero(t, bob.TotalPosts)
	assert.Nil(t, bob.FirstPostDate)
	assert.Equal(t, 50.0, bob.TotalRevenue)
	assert.Zero(t, bob.TotalPayout)

	cara := rows[2]
	assert.Zero(t, cara.TotalPosts)
	assert.Zero(t, cara.TotalRevenue)
	assert.Zero(t, cara.TotalPayout)
}

func TestJoin_EmptyBase(t *testing.T) {
	rows := Join(Dataset{Posts: []model.Post{{InfluencerID: "INF001", Reach: 1}}})
	assert.Empty(t, rows)
}

func TestCountOrphans(t *testing.T) {
	base := map[string]struct{}{"A": {}}
	n := countOrphans(base,
		map[string]PostAggregate{"A": {}, "B": {}},
		map[string]TrackingAggregate{"B": {}, "C": {}},
		map[string]model.Payout{"D": {}},
	)
	assert.Equal(t, 3, n)
}
