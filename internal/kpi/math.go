package kpi

import "math"

// SafeDiv returns n/d when d > 0 and 0 otherwise. Non-finite results are
// reported as 0.
func SafeDiv(n, d float64) float64 {
	if !(d > 0) {
		return 0
	}
	return finite(n / d)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
