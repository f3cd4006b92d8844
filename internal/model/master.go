package model

import "time"

// FollowerTier buckets influencers by audience size.
type FollowerTier string

const (
	TierNano  FollowerTier = "Nano"
	TierMicro FollowerTier = "Micro"
	TierMacro FollowerTier = "Macro"
	TierMega  FollowerTier = "Mega"
)

// PerformanceCategory buckets influencers by ROAS.
type PerformanceCategory string

const (
	PerformanceHigh   PerformanceCategory = "High"
	PerformanceMedium PerformanceCategory = "Medium"
	PerformanceLow    PerformanceCategory = "Low"
)

// Status is the activity/performance label of an influencer.
type Status string

const (
	StatusInactive Status = "Inactive"
	StatusReview   Status = "Review"
	StatusStar     Status = "Star"
	StatusActive   Status = "Active"
)

// MasterRow is the denormalized per-influencer row: base fields, joined
// aggregates and derived KPIs. Aggregates are float64 because they are
// zero-filled sums that feed ratio math.
type MasterRow struct {
	Influencer

	// Post aggregates.
	TotalPosts         float64    `json:"total_posts"`
	TotalReach         float64    `json:"total_reach"`
	AvgReachPerPost    float64    `json:"avg_reach_per_post"`
	TotalLikes         float64    `json:"total_likes"`
	AvgLikesPerPost    float64    `json:"avg_likes_per_post"`
	TotalComments      float64    `json:"total_comments"`
	AvgCommentsPerPost float64    `json:"avg_comments_per_post"`
	FirstPostDate      *time.Time `json:"first_post_date,omitempty"`
	LastPostDate       *time.Time `json:"last_post_date,omitempty"`

	// Tracking aggregates.
	TotalOrders    float64 `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	CampaignsCount float64 `json:"campaigns_count"`

	// Payout.
	TotalPayout float64     `json:"total_payout"`
	Basis       PayoutBasis `json:"basis"`
	Rate        float64     `json:"rate"`

	// Derived KPIs.
	ROAS                 float64             `json:"roas"`
	EngagementRate       float64             `json:"engagement_rate"`
	ConversionRate       float64             `json:"conversion_rate"`
	CostPerOrder         float64             `json:"cost_per_order"`
	CostPerEngagement    float64             `json:"cost_per_engagement"`
	RevenuePerPost       float64             `json:"revenue_per_post"`
	EfficiencyScore      float64             `json:"efficiency_score"`
	FollowerTier         FollowerTier        `json:"follower_tier"`
	PerformanceCategory  PerformanceCategory `json:"performance_category"`
	PersonaCombination   string              `json:"persona_combination"`
	ROIScore             float64             `json:"roi_score"`
	DaysSinceLastPost    int                 `json:"days_since_last_post"`
	CampaignDuration     int                 `json:"campaign_duration"`
	PostFrequency        float64             `json:"post_frequency"`
	EngagementQuality    float64             `json:"engagement_quality"`
	ReachEfficiency      float64             `json:"reach_efficiency"`
	Status               Status              `json:"status"`
	InvestmentEfficiency float64             `json:"investment_efficiency"`
	PlatformRank         int                 `json:"platform_rank"`
	OverallRank          int                 `json:"overall_rank"`
}
