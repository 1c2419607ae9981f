// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

// Scoring constants. The final score is a linear weighted sum, not a
// learned model: ties are broken by stable-sort order over the candidate
// pool.
const (
	// timeDecayFactor discounts the recency contribution.
	timeDecayFactor = 0.8

	// recencyScale and popularityScale convert the normalized [0,1]
	// recency and popularity inputs into score points.
	recencyScale    = 10.0
	popularityScale = 5.0
)

// CalculateScore combines reason weights, recency, and popularity into a
// single ranking score.
//
// Base score is the sum over reasons of weight times the per-source
// constant (ReasonSource.ScoreWeight). Recency and popularity are expected
// to be normalized to [0,1] by the caller. The result is not clamped:
// more and stronger reasons monotonically increase rank.
func CalculateScore(reasons []Reason, recency, popularity float64) float64 {
	var base float64
	for _, r := range reasons {
		base += r.Weight * r.Source.ScoreWeight()
	}

	return base + recency*timeDecayFactor*recencyScale + popularity*popularityScale
}
