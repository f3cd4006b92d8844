package model

import "time"

// Run records one pipeline execution persisted by the snapshot store.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Influencers  int       `json:"influencers"`
	TotalRevenue float64   `json:"total_revenue"`
	OverallROAS  float64   `json:"overall_roas"`
	InputDigest  string    `json:"input_digest,omitempty"`
}
