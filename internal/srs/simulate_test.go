package srs

import (
	"reflect"
	"testing"
	"time"
)

func TestSimulateIdealizedPacing(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	steps, err := Simulate(5, []Rating{StillLearning, StillLearning, Understood}, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(steps))
	}

	if steps[0].PhaseTransitioned || steps[1].PhaseTransitioned {
		t.Fatal("transition fired before the understood review")
	}
	if !steps[2].PhaseTransitioned {
		t.Fatal("step 3 must transition")
	}
	if steps[2].Phase != Review {
		t.Fatalf("step 3 phase = %v, want %v", steps[2].Phase, Review)
	}

	// The clock advances to each due time; the transition review waits the
	// ladder interval for the round it was in (count 2).
	t1 := start.Add(PreReviewInterval(0))
	if !steps[0].Due.Equal(t1) {
		t.Fatalf("step 1 due = %v, want %v", steps[0].Due, t1)
	}
	t2 := t1.Add(PreReviewInterval(1))
	if !steps[1].Due.Equal(t2) {
		t.Fatalf("step 2 due = %v, want %v", steps[1].Due, t2)
	}
	t3 := t2.Add(PreReviewInterval(2))
	if !steps[2].Due.Equal(t3) {
		t.Fatalf("step 3 due = %v, want %v", steps[2].Due, t3)
	}
}

func TestSimulateRestartable(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	ratings := []Rating{Understood, Good, Good, Again, Good, Easy}

	a, err := Simulate(5, ratings, start)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(5, ratings, start)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("simulate is not a pure function of its inputs")
	}
}

func TestSimulateThroughReviewPhase(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	steps, err := Simulate(5, []Rating{Understood, Good, Good, Good, Good}, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 5 {
		t.Fatalf("len(steps) = %d, want 5", len(steps))
	}
	prev := start
	for i, st := range steps {
		if st.Review != i+1 {
			t.Fatalf("step %d: review number %d", i, st.Review)
		}
		if st.Due.Before(prev) {
			t.Fatalf("step %d: due %v before previous clock %v", i, st.Due, prev)
		}
		if st.Interval == "" {
			t.Fatalf("step %d: empty interval", i)
		}
		prev = st.Due
	}
	// Later reviews in the review phase should space out beyond the ladder.
	last := steps[len(steps)-1]
	if last.Phase != Review {
		t.Fatalf("final phase = %v, want %v", last.Phase, Review)
	}
}

func TestSimulateEmpty(t *testing.T) {
	t.Parallel()
	steps, err := Simulate(5, nil, t0)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 0 {
		t.Fatalf("len(steps) = %d, want 0", len(steps))
	}
}
