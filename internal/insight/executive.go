package insight

import (
	"github.com/sells-group/influencer-kpi/internal/kpi"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// Executive computes the headline KPIs. Active campaigns count the distinct
// non-empty campaigns in events; when events is nil (no tracking input) the
// per-influencer campaign counts are summed instead.
func Executive(rows []model.MasterRow, events []model.Tracking) model.ExecutiveKPIs {
	var k model.ExecutiveKPIs

	ids := make(map[string]struct{}, len(rows))
	var campaignsFallback float64
	for _, r := range rows {
		k.TotalRevenue += r.TotalRevenue
		k.TotalPayout += r.TotalPayout
		campaignsFallback += r.CampaignsCount
		ids[r.ID] = struct{}{}
	}
	k.OverallROAS = kpi.SafeDiv(k.TotalRevenue, k.TotalPayout)
	k.TotalInfluencers = len(ids)

	if events == nil {
		k.ActiveCampaigns = int(campaignsFallback)
	} else {
		campaigns := make(map[string]struct{})
		for _, e := range events {
			if e.Campaign != "" {
				campaigns[e.Campaign] = struct{}{}
			}
		}
		k.ActiveCampaigns = len(campaigns)
	}

	if len(rows) > 0 {
		best, worst := 0, 0
		for i, r := range rows {
			if r.ROAS > rows[best].ROAS {
				best = i
			}
			if r.ROAS < rows[worst].ROAS {
				worst = i
			}
		}
		k.BestPerformer = &model.Performer{Name: rows[best].Name, ROAS: rows[best].ROAS}
		k.WorstPerformer = &model.Performer{Name: rows[worst].Name, ROAS: rows[worst].ROAS}
	}
	return k
}
