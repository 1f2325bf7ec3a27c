package srs

import "time"

// Bounds for the initial_review_count tunable: the total number of early
// exposures (pre-review rounds plus the algorithm's first learning steps)
// before a card reaches day-scale spacing.
const (
	MinInitialReviewCount     = 2
	MaxInitialReviewCount     = 10
	DefaultInitialReviewCount = 5
)

// ValidateInitialReviewCount rejects out-of-range values at the point they
// are written to configuration, before they ever reach the scheduler.
func ValidateInitialReviewCount(n int) error {
	if n < MinInitialReviewCount || n > MaxInitialReviewCount {
		return &ConfigError{Field: "initial_review_count", Value: n,
			Reason: "must be between 2 and 10"}
	}
	return nil
}

// Schedule applies one rating to a card's scheduling state using the
// default retention target. See ScheduleWithRetention.
func Schedule(state CardState, rating Rating, initialReviewCount int, now time.Time) (Result, error) {
	return ScheduleWithRetention(state, rating, initialReviewCount, now, DefaultRetention)
}

// ScheduleWithRetention is the scheduling orchestrator: given the current
// state, the learner's rating and the injected current time it returns the
// whole next state plus a transition flag. Pre-review cards walk the fixed
// ladder (retention is ignored there); review cards go through the FSRS
// adapter. The returned due time is never before now.
//
// Rating/phase compatibility is deliberately not checked here; callers
// restrict offered ratings via ValidRatings.
func ScheduleWithRetention(state CardState, rating Rating, initialReviewCount int, now time.Time, retention float64) (Result, error) {
	if state.Phase == PreReview {
		return preReviewStep(state, rating, initialReviewCount, now), nil
	}

	mem, due, err := applyMemory(state.Memory, rating, now, retention)
	if err != nil {
		return Result{}, err
	}
	if due.Before(now) {
		due = now
	}
	return Result{
		State: CardState{
			Phase:          Review,
			PreReviewCount: state.PreReviewCount,
			Due:            due,
			Memory:         mem,
		},
	}, nil
}

// preReviewStep advances a pre-review card by one round.
//
// The wait is keyed to the round the learner was in (the pre-increment
// count), so the transition review still waits the standard pre-review
// interval instead of becoming due immediately. That keeps pacing continuous
// across the phase boundary.
func preReviewStep(state CardState, rating Rating, initialReviewCount int, now time.Time) Result {
	// Two FSRS learning steps are reserved so the total initial exposure
	// equals initialReviewCount.
	threshold := initialReviewCount - 2
	if threshold < 0 {
		threshold = 0
	}

	newCount := state.PreReviewCount + 1
	interval := PreReviewInterval(state.PreReviewCount)
	due := now.Add(interval)

	if rating == Understood || newCount >= threshold {
		return Result{
			State: CardState{
				Phase:          Review,
				PreReviewCount: newCount,
				Due:            due,
				Memory:         NewMemoryState(now),
			},
			PhaseTransitioned: true,
		}
	}

	return Result{
		State: CardState{
			Phase:          PreReview,
			PreReviewCount: newCount,
			Due:            due,
			Memory:         nil,
		},
	}
}
