// Package money holds the integer-cents arithmetic every monetary path in
// the platform goes through. Amounts are carried as float64 major units at
// the API edges and converted to int64 cents for calculation; nothing is
// persisted without passing back through FromCents.
package money

import "math"

// epsilon nudges values sitting exactly on a half-cent boundary upward so
// rounding is stable across float representations (0.005 -> 0.01).
const epsilon = 1e-9

// ToCents converts a major-unit amount to integer cents using round-half-up.
// Non-finite input is treated as zero.
func ToCents(amount float64) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return int64(math.Round((amount + epsilon) * 100))
}

// FromCents converts integer cents back to a 2-decimal major-unit amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Round2 rounds a major-unit amount to 2 decimal places, half up.
func Round2(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return math.Round((amount+epsilon)*100) / 100
}

// Share computes round(cents * rate), the cent share a fractional rate takes
// of a cents base.
func Share(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate))
}

// NormalizeRate maps caller-supplied rates onto [0, 1]. Values above 1 are
// interpreted as percentages (20 -> 0.20); non-finite or non-positive input
// collapses to zero.
func NormalizeRate(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 0
	}
	rate := raw
	if rate > 1 {
		rate = rate / 100
	}
	if rate > 1 {
		rate = 1
	}
	return rate
}
