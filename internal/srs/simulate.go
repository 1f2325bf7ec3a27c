package srs

import "time"

// SimulationStep records one review in a simulated timeline.
type SimulationStep struct {
	Review            int       `json:"review"` // 1-based review number
	Rating            Rating    `json:"rating"`
	Phase             Phase     `json:"phase"`
	Due               time.Time `json:"due"`
	PhaseTransitioned bool      `json:"phase_transitioned"`
	Interval          string    `json:"interval"` // human-readable wait
}

// Simulate replays a rating sequence against a fresh card using the default
// retention target. See SimulateWithRetention.
func Simulate(initialReviewCount int, ratings []Rating, start time.Time) ([]SimulationStep, error) {
	return SimulateWithRetention(initialReviewCount, ratings, start, DefaultRetention)
}

// SimulateWithRetention produces a deterministic preview timeline for a
// hypothetical rating sequence. It starts from a freshly created card at
// start and, after each review, advances the virtual clock to the returned
// due time. The learner is assumed to always review exactly on time, so
// the result is the best-case spacing curve. Pure function of its inputs.
func SimulateWithRetention(initialReviewCount int, ratings []Rating, start time.Time, retention float64) ([]SimulationStep, error) {
	state := NewCardState(start)
	clock := start

	steps := make([]SimulationStep, 0, len(ratings))
	for i, rating := range ratings {
		res, err := ScheduleWithRetention(state, rating, initialReviewCount, clock, retention)
		if err != nil {
			return nil, err
		}
		steps = append(steps, SimulationStep{
			Review:            i + 1,
			Rating:            rating,
			Phase:             res.State.Phase,
			Due:               res.State.Due,
			PhaseTransitioned: res.PhaseTransitioned,
			Interval:          FormatInterval(res.State.Due.Sub(clock)),
		})
		state = res.State
		clock = res.State.Due
	}
	return steps, nil
}
