package kpi

import "github.com/sells-group/influencer-kpi/internal/model"

// Follower tier boundaries, inclusive on the lower bound.
const (
	MicroFollowers = 10_000
	MacroFollowers = 100_000
	MegaFollowers  = 1_000_000
)

// ROAS thresholds shared by performance buckets, status and investment
// actions.
const (
	HighROAS   = 3.5
	MediumROAS = 2.0
	ReviewROAS = 1.5
)

// InactiveAfterDays is the number of days without a post after which an
// influencer is Inactive.
const InactiveAfterDays = 30

// NoPostDays is the days_since_last_post sentinel for influencers that
// never posted.
const NoPostDays = 999

// Tier buckets a follower count.
func Tier(followers int64) model.FollowerTier {
	switch {
	case followers < MicroFollowers:
		return model.TierNano
	case followers < MacroFollowers:
		return model.TierMicro
	case followers < MegaFollowers:
		return model.TierMacro
	default:
		return model.TierMega
	}
}

// Performance buckets a ROAS value.
func Performance(roas float64) model.PerformanceCategory {
	switch {
	case roas >= HighROAS:
		return model.PerformanceHigh
	case roas >= MediumROAS:
		return model.PerformanceMedium
	default:
		return model.PerformanceLow
	}
}

// StatusFor labels an influencer. Inactivity is checked before ROAS.
func StatusFor(daysSinceLastPost int, roas float64) model.Status {
	switch {
	case daysSinceLastPost > InactiveAfterDays:
		return model.StatusInactive
	case roas < ReviewROAS:
		return model.StatusReview
	case roas >= HighROAS:
		return model.StatusStar
	default:
		return model.StatusActive
	}
}

// Persona joins tier, category and platform with "+".
func Persona(tier model.FollowerTier, category, platform string) string {
	return string(tier) + "+" + category + "+" + platform
}
