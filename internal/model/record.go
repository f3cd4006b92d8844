package model

import (
	"strings"
	"time"
)

// PayoutBasis describes how an influencer is compensated.
type PayoutBasis string

const (
	BasisPerPost  PayoutBasis = "post"
	BasisPerOrder PayoutBasis = "order"
)

// ParsePayoutBasis maps the spellings seen in payout exports to a PayoutBasis.
// Unknown values return the empty basis.
func ParsePayoutBasis(s string) PayoutBasis {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "post", "per-post", "per_post", "per post":
		return BasisPerPost
	case "order", "per-order", "per_order", "per order":
		return BasisPerOrder
	default:
		return ""
	}
}

// Influencer is one row of the influencer base table.
type Influencer struct {
	ID            string `json:"influencer_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	FollowerCount int64  `json:"follower_count"`
	Platform      string `json:"platform"`
}

// Post is a single published post. Reach is not guaranteed to cover
// likes + comments.
type Post struct {
	ID           string     `json:"post_id"`
	InfluencerID string     `json:"influencer_id"`
	Platform     string     `json:"platform"`
	Date         *time.Time `json:"date,omitempty"`
	URL          string     `json:"url"`
	Caption      string     `json:"caption"`
	Reach        int64      `json:"reach"`
	Likes        int64      `json:"likes"`
	Comments     int64      `json:"comments"`
}

// Tracking is one attributed order event.
type Tracking struct {
	Source       string     `json:"source"`
	Campaign     string     `json:"campaign"`
	PostID       string     `json:"post_id"`
	InfluencerID string     `json:"influencer_id"`
	UserID       string     `json:"user_id"`
	Product      string     `json:"product"`
	Date         *time.Time `json:"date,omitempty"`
	Orders       int64      `json:"orders"`
	Revenue      float64    `json:"revenue"`
}

// Payout is the compensation record for one influencer.
type Payout struct {
	InfluencerID string      `json:"influencer_id"`
	Basis        PayoutBasis `json:"basis"`
	Rate         float64     `json:"rate"`
	TotalOrders  int64       `json:"total_orders"`
	TotalPayout  float64     `json:"total_payout"`
}
