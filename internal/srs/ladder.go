package srs

import "time"

// Pre-review wait ladder. The first three exposures come back quickly; every
// later round falls back to a constant longer wait.
var preReviewLadder = [...]time.Duration{
	1 * time.Minute,
	3 * time.Minute,
	5 * time.Minute,
}

const preReviewFallback = 10 * time.Minute

// PreReviewInterval maps a 0-indexed pre-review round to its wait interval.
// Total over all non-negative counts; counts beyond the ladder return the
// fallback.
func PreReviewInterval(reviewCount int) time.Duration {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount < len(preReviewLadder) {
		return preReviewLadder[reviewCount]
	}
	return preReviewFallback
}
