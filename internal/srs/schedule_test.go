package srs

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var t0 = time.UnixMilli(0).UTC()

func TestTransitionOnThreshold(t *testing.T) {
	t.Parallel()
	// initialReviewCount = 5 reserves two learning steps, so the third
	// still_learning review triggers the handoff.
	state := NewCardState(t0)
	now := t0
	for i := 1; i <= 3; i++ {
		res, err := Schedule(state, StillLearning, 5, now)
		if err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
		if res.State.PreReviewCount != i {
			t.Fatalf("review %d: count = %d, want %d", i, res.State.PreReviewCount, i)
		}
		wantTransition := i == 3
		if res.PhaseTransitioned != wantTransition {
			t.Fatalf("review %d: transitioned = %v, want %v", i, res.PhaseTransitioned, wantTransition)
		}
		state = res.State
		now = res.State.Due
	}
	if state.Phase != Review {
		t.Fatalf("phase = %v, want %v", state.Phase, Review)
	}
	if state.Memory == nil {
		t.Fatal("memory state missing after transition")
	}
}

func TestTransitionOnUnderstood(t *testing.T) {
	t.Parallel()
	res, err := Schedule(NewCardState(t0), Understood, 5, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.PhaseTransitioned {
		t.Fatal("understood on a fresh card must transition immediately")
	}
	if res.State.Phase != Review || res.State.Memory == nil {
		t.Fatalf("unexpected state after transition: %+v", res.State)
	}
	if res.State.PreReviewCount != 1 {
		t.Fatalf("count = %d, want 1", res.State.PreReviewCount)
	}
	// The transition review still waits the standard pre-review interval.
	if got, want := res.State.Due, t0.Add(PreReviewInterval(0)); !got.Equal(want) {
		t.Fatalf("due = %v, want %v", got, want)
	}
}

func TestEndToEndExample(t *testing.T) {
	t.Parallel()
	// Three still_learning reviews starting at epoch, always on time.
	state := NewCardState(t0)

	r1, err := Schedule(state, StillLearning, 5, t0)
	if err != nil {
		t.Fatal(err)
	}
	if r1.PhaseTransitioned || r1.State.Phase != PreReview || r1.State.PreReviewCount != 1 {
		t.Fatalf("review 1: %+v", r1)
	}
	if want := t0.Add(1 * time.Minute); !r1.State.Due.Equal(want) {
		t.Fatalf("review 1 due = %v, want %v", r1.State.Due, want)
	}
	if r1.State.Memory != nil {
		t.Fatal("review 1: memory must stay nil in pre-review")
	}

	t1 := r1.State.Due
	r2, err := Schedule(r1.State, StillLearning, 5, t1)
	if err != nil {
		t.Fatal(err)
	}
	if r2.PhaseTransitioned || r2.State.PreReviewCount != 2 {
		t.Fatalf("review 2: %+v", r2)
	}
	if want := t1.Add(3 * time.Minute); !r2.State.Due.Equal(want) {
		t.Fatalf("review 2 due = %v, want %v", r2.State.Due, want)
	}

	t2 := r2.State.Due
	r3, err := Schedule(r2.State, StillLearning, 5, t2)
	if err != nil {
		t.Fatal(err)
	}
	if !r3.PhaseTransitioned || r3.State.Phase != Review || r3.State.PreReviewCount != 3 {
		t.Fatalf("review 3: %+v", r3)
	}
	if r3.State.Memory == nil {
		t.Fatal("review 3: fresh memory state expected")
	}
	if want := t2.Add(5 * time.Minute); !r3.State.Due.Equal(want) {
		t.Fatalf("review 3 due = %v, want %v", r3.State.Due, want)
	}
}

func TestDueNeverBeforeNow(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := NewCardState(now)
	for i := 0; i < 12; i++ {
		rating := StillLearning
		if state.Phase == Review {
			rating = []Rating{Again, Hard, Good, Easy}[i%4]
		}
		res, err := Schedule(state, rating, 5, now)
		if err != nil {
			t.Fatal(err)
		}
		if res.State.Due.Before(now) {
			t.Fatalf("step %d: due %v before now %v", i, res.State.Due, now)
		}
		state = res.State
		now = res.State.Due
	}
}

func TestPhaseNeverReverts(t *testing.T) {
	t.Parallel()
	res, err := Schedule(NewCardState(t0), Understood, 5, t0)
	if err != nil {
		t.Fatal(err)
	}
	state := res.State
	now := state.Due
	count := state.PreReviewCount
	for _, rating := range []Rating{Again, Good, Again, Easy, Hard, Good} {
		res, err = Schedule(state, rating, 5, now)
		if err != nil {
			t.Fatal(err)
		}
		if res.State.Phase != Review {
			t.Fatalf("phase reverted to %v after %v", res.State.Phase, rating)
		}
		if res.PhaseTransitioned {
			t.Fatal("transition flag must fire exactly once")
		}
		if res.State.PreReviewCount != count {
			t.Fatalf("pre-review count changed after transition: %d -> %d", count, res.State.PreReviewCount)
		}
		if res.State.Memory == nil {
			t.Fatal("memory state lost in review phase")
		}
		state = res.State
		now = res.State.Due
	}
}

func TestScheduleDeterministic(t *testing.T) {
	t.Parallel()
	res, err := Schedule(NewCardState(t0), Understood, 5, t0)
	if err != nil {
		t.Fatal(err)
	}
	state := res.State
	now := state.Due

	a, err := Schedule(state, Good, 5, now)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Schedule(state, Good, 5, now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different outputs:\n%+v\n%+v", a, b)
	}
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	res, err := Schedule(NewCardState(t0), Understood, 5, t0)
	if err != nil {
		t.Fatal(err)
	}
	state := res.State
	before := *state.Memory

	if _, err := Schedule(state, Again, 5, state.Due); err != nil {
		t.Fatal(err)
	}
	if *state.Memory != before {
		t.Fatal("input memory state was mutated")
	}
}

func TestMissingMemoryStateFatal(t *testing.T) {
	t.Parallel()
	broken := CardState{Phase: Review, PreReviewCount: 3, Due: t0, Memory: nil}
	_, err := Schedule(broken, Good, 5, t0)
	if !errors.Is(err, ErrMissingMemoryState) {
		t.Fatalf("err = %v, want ErrMissingMemoryState", err)
	}
}

func TestValidateInitialReviewCount(t *testing.T) {
	t.Parallel()
	for _, n := range []int{2, 5, 10} {
		if err := ValidateInitialReviewCount(n); err != nil {
			t.Fatalf("ValidateInitialReviewCount(%d) = %v", n, err)
		}
	}
	for _, n := range []int{-1, 0, 1, 11, 100} {
		err := ValidateInitialReviewCount(n)
		if err == nil {
			t.Fatalf("ValidateInitialReviewCount(%d): expected error", n)
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("ValidateInitialReviewCount(%d): error type %T", n, err)
		}
	}
}

func TestLowInitialReviewCountTransitionsImmediately(t *testing.T) {
	t.Parallel()
	// initialReviewCount = 2 leaves a zero threshold: the first review
	// transitions regardless of rating.
	res, err := Schedule(NewCardState(t0), StillLearning, 2, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.PhaseTransitioned {
		t.Fatal("expected immediate transition with threshold 0")
	}
}
