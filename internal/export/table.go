// Package export writes the master table, summary views and executive
// summary as delimited text, YAML and an XLSX workbook.
package export

import (
	"strconv"
	"time"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Table is a header plus rows of typed cells. Cells are string, float64,
// int, int64 or *time.Time.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

var masterColumns = []string{
	"influencer_id", "name", "category", "gender", "follower_count", "platform",
	"total_posts", "total_reach", "avg_reach_per_post", "total_likes", "avg_likes_per_post",
	"total_comments", "avg_comments_per_post", "first_post_date", "last_post_date",
	"total_orders", "total_revenue", "campaigns_count", "total_payout", "basis", "rate",
	"roas", "engagement_rate", "conversion_rate", "cost_per_order", "cost_per_engagement",
	"revenue_per_post", "efficiency_score", "follower_tier", "performance_category",
	"persona_combination", "roi_score", "days_since_last_post", "campaign_duration",
	"post_frequency", "engagement_quality", "reach_efficiency", "status",
	"investment_efficiency", "platform_rank", "overall_rank",
}

// MasterTable lays out the master rows in the published column order.
func MasterTable(rows []model.MasterRow) Table {
	t := Table{Name: "master", Header: masterColumns, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ID, r.Name, r.Category, r.Gender, r.FollowerCount, r.Platform,
			r.TotalPosts, r.TotalReach, r.AvgReachPerPost, r.TotalLikes, r.AvgLikesPerPost,
			r.TotalComments, r.AvgCommentsPerPost, r.FirstPostDate, r.LastPostDate,
			r.TotalOrders, r.TotalRevenue, r.CampaignsCount, r.TotalPayout, string(r.Basis), r.Rate,
			r.ROAS, r.EngagementRate, r.ConversionRate, r.CostPerOrder, r.CostPerEngagement,
			r.RevenuePerPost, r.EfficiencyScore, string(r.FollowerTier), string(r.PerformanceCategory),
			r.PersonaCombination, r.ROIScore, r.DaysSinceLastPost, r.CampaignDuration,
			r.PostFrequency, r.EngagementQuality, r.ReachEfficiency, string(r.Status),
			r.InvestmentEfficiency, r.PlatformRank, r.OverallRank,
		})
	}
	return t
}

// PlatformTable lays out the platform view.
func PlatformTable(rows []model.PlatformPerformance) Table {
	t := Table{
		Name:   "platform_performance",
		Header: []string{"platform", "total_revenue", "total_payout", "total_orders", "total_reach", "influencer_count", "platform_roas", "revenue_share"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Platform, r.TotalRevenue, r.TotalPayout, r.TotalOrders, r.TotalReach, r.InfluencerCount, r.PlatformROAS, r.RevenueShare})
	}
	return t
}

// PersonaTable lays out the persona view.
func PersonaTable(rows []model.PersonaPerformance) Table {
	t := Table{
		Name:   "persona_performance",
		Header: []string{"persona_combination", "total_posts", "roas", "total_revenue", "efficiency_score", "influencer_count"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.PersonaCombination, r.TotalPosts, r.AvgROAS, r.TotalRevenue, r.AvgEfficiency, r.InfluencerCount})
	}
	return t
}

// CategoryTable lays out the category view.
func CategoryTable(rows []model.CategoryPerformance) Table {
	t := Table{
		Name:   "category_performance",
		Header: []string{"category", "total_revenue", "roas", "engagement_rate", "influencer_count"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Category, r.TotalRevenue, r.AvgROAS, r.AvgEngagementRate, r.InfluencerCount})
	}
	return t
}

// ProductTable lays out the product view.
func ProductTable(rows []model.ProductPerformance) Table {
	t := Table{
		Name:   "product_performance",
		Header: []string{"product", "orders", "revenue"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Product, r.Orders, r.Revenue})
	}
	return t
}

// ActionsTable flattens the three buckets into one table keyed by bucket.
func ActionsTable(a model.InvestmentActions) Table {
	t := Table{
		Name:   "investment_actions",
		Header: []string{"bucket", "influencer_id", "name", "roas", "total_payout", "total_revenue", "platform"},
	}
	add := func(bucket model.ActionBucket, rows []model.ActionRow) {
		for _, r := range rows {
			t.Rows = append(t.Rows, []any{string(bucket), r.InfluencerID, r.Name, r.ROAS, r.TotalPayout, r.TotalRevenue, r.Platform})
		}
	}
	add(model.ActionInvestMore, a.InvestMore)
	add(model.ActionOptimize, a.Optimize)
	add(model.ActionMonitor, a.Monitor)
	return t
}

// FormatCell renders a cell for delimited output. Floats use the shortest
// representation that round-trips; dates use 2006-01-02; nil dates are empty.
func FormatCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case *time.Time:
		if c == nil {
			return ""
		}
		return c.Format(DateLayout)
	case nil:
		return ""
	default:
		return ""
	}
}

// DateLayout is the output date format.
const DateLayout = "2006-01-02"
