package model

// PlatformPerformance is one row of the platform summary.
type PlatformPerformance struct {
	Platform        string  `json:"platform" yaml:"platform"`
	TotalRevenue    float64 `json:"total_revenue" yaml:"total_revenue"`
	TotalPayout     float64 `json:"total_payout" yaml:"total_payout"`
	TotalOrders     float64 `json:"total_orders" yaml:"total_orders"`
	TotalReach      float64 `json:"total_reach" yaml:"total_reach"`
	InfluencerCount int     `json:"influencer_count" yaml:"influencer_count"`
	PlatformROAS    float64 `json:"platform_roas" yaml:"platform_roas"`
	RevenueShare    float64 `json:"revenue_share" yaml:"revenue_share"`
}

// PersonaPerformance is one row of the persona summary.
type PersonaPerformance struct {
	PersonaCombination string  `json:"persona_combination"`
	TotalPosts         float64 `json:"total_posts"`
	AvgROAS            float64 `json:"roas"`
	TotalRevenue       float64 `json:"total_revenue"`
	AvgEfficiency      float64 `json:"efficiency_score"`
	InfluencerCount    int     `json:"influencer_count"`
}

// CategoryPerformance is one row of the content-category summary.
type CategoryPerformance struct {
	Category          string  `json:"category"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgROAS           float64 `json:"roas"`
	AvgEngagementRate float64 `json:"engagement_rate"`
	InfluencerCount   int     `json:"influencer_count"`
}

// ProductPerformance is one row of the product summary built from tracking.
type ProductPerformance struct {
	Product string  `json:"product"`
	Orders  float64 `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ActionBucket names an investment recommendation.
type ActionBucket string

const (
	ActionInvestMore ActionBucket = "invest_more"
	ActionOptimize   ActionBucket = "optimize"
	ActionMonitor    ActionBucket = "monitor"
)

// ActionRow is an influencer listed under an investment recommendation.
type ActionRow struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name"`
	ROAS         float64 `json:"roas"`
	TotalPayout  float64 `json:"total_payout"`
	TotalRevenue float64 `json:"total_revenue"`
	Platform     string  `json:"platform"`
}

// InvestmentActions holds the three recommendation buckets.
type InvestmentActions struct {
	InvestMore []ActionRow `json:"invest_more"`
	Optimize   []ActionRow `json:"optimize"`
	Monitor    []ActionRow `json:"monitor"`
}

// Performer names an influencer together with its ROAS.
type Performer struct {
	Name string  `json:"name" yaml:"name"`
	ROAS float64 `json:"roas" yaml:"roas"`
}

// ExecutiveKPIs are the headline numbers of a run.
type ExecutiveKPIs struct {
	TotalRevenue     float64    `json:"total_revenue" yaml:"total_revenue"`
	TotalPayout      float64    `json:"total_payout" yaml:"total_payout"`
	OverallROAS      float64    `json:"overall_roas" yaml:"overall_roas"`
	ActiveCampaigns  int        `json:"active_campaigns" yaml:"active_campaigns"`
	TotalInfluencers int        `json:"total_influencers" yaml:"total_influencers"`
	BestPerformer    *Performer `json:"best_performer,omitempty" yaml:"best_performer,omitempty"`
	WorstPerformer   *Performer `json:"worst_performer,omitempty" yaml:"worst_performer,omitempty"`
}
