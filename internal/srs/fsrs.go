package srs

import (
	"errors"
	"fmt"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"
)

// ErrMissingMemoryState reports a lifecycle violation: a review-phase card
// reached the FSRS adapter without a memory state. The record in storage is
// corrupt or a transition was never persisted; callers must surface this as
// a hard failure and persist nothing.
var ErrMissingMemoryState = errors.New("srs: memory state missing for review-phase card")

// DefaultRetention is the target recall probability used on the
// authoritative scheduling path. Previews may override it per call.
const DefaultRetention = 0.95

// maxIntervalDays keeps the interval ceiling practically unbounded.
const maxIntervalDays = 36500

func newFSRS(retention float64) *fsrs.FSRS {
	p := fsrs.DefaultParam()
	p.RequestRetention = retention
	p.MaximumInterval = maxIntervalDays
	// Sub-day learning steps stay on; fuzzing stays off so identical inputs
	// always schedule identically.
	p.EnableShortTerm = true
	p.EnableFuzz = false
	return fsrs.NewFSRS(p)
}

var fsrsGrades = map[Rating]fsrs.Rating{
	Again: fsrs.Again,
	Hard:  fsrs.Hard,
	Good:  fsrs.Good,
	Easy:  fsrs.Easy,
}

// NewMemoryState returns the working state of a card that is brand-new to
// the FSRS algorithm, due at now.
func NewMemoryState(now time.Time) *MemoryState {
	return memoryFromCard(fsrs.Card{
		Due:        now,
		State:      fsrs.New,
		LastReview: now,
	})
}

func (m *MemoryState) toCard() fsrs.Card {
	return fsrs.Card{
		Due:           time.UnixMilli(m.DueMS).UTC(),
		Stability:     m.Stability,
		Difficulty:    m.Difficulty,
		ElapsedDays:   m.ElapsedDays,
		ScheduledDays: m.ScheduledDays,
		Reps:          m.Reps,
		Lapses:        m.Lapses,
		State:         fsrs.State(m.State),
		LastReview:    time.UnixMilli(m.LastReviewMS).UTC(),
	}
}

func memoryFromCard(c fsrs.Card) *MemoryState {
	return &MemoryState{
		DueMS:         c.Due.UnixMilli(),
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		State:         int(c.State),
		LastReviewMS:  c.LastReview.UnixMilli(),
	}
}

// applyMemory advances the memory state by exactly one rating and returns
// the new state together with its due time. The input state is not mutated.
func applyMemory(m *MemoryState, rating Rating, now time.Time, retention float64) (*MemoryState, time.Time, error) {
	if m == nil {
		return nil, time.Time{}, ErrMissingMemoryState
	}
	grade, ok := fsrsGrades[rating]
	if !ok {
		return nil, time.Time{}, fmt.Errorf("srs: rating %v is not an FSRS grade", rating)
	}
	if retention <= 0 || retention > 1 {
		retention = DefaultRetention
	}

	rec := newFSRS(retention).Repeat(m.toCard(), now)
	next := rec[grade].Card
	nm := memoryFromCard(next)

	// Mirror the algorithm's learning progress as a plain counter so the
	// serialized record carries it: counts reviews spent in a (re)learning
	// run, resets once the card graduates.
	switch next.State {
	case fsrs.Learning, fsrs.Relearning:
		nm.Step = m.Step + 1
	default:
		nm.Step = 0
	}

	return nm, next.Due, nil
}
