package insight

import (
	"time"

	"github.com/sells-group/influencer-kpi/internal/model"
)

func row(id, platform, category string, revenue, payout float64) model.MasterRow {
	r := model.MasterRow{
		Influencer:   model.Influencer{ID: id, Name: "name-" + id, Platform: platform, Category: category},
		TotalRevenue: revenue,
		TotalPayout:  payout,
	}
	if payout > 0 {
		r.ROAS = revenue / payout
	}
	return r
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(rows []model.ActionRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.InfluencerID)
	}
	return out
}
