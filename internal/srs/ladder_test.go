package srs

import (
	"testing"
	"time"
)

func TestPreReviewIntervalLadder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		count int
		want  time.Duration
	}{
		{count: 0, want: 1 * time.Minute},
		{count: 1, want: 3 * time.Minute},
		{count: 2, want: 5 * time.Minute},
		{count: 3, want: 10 * time.Minute},
		{count: 4, want: 10 * time.Minute},
		{count: 100, want: 10 * time.Minute},
		{count: -1, want: 1 * time.Minute}, // clamped
	}
	for _, tt := range tests {
		if got := PreReviewInterval(tt.count); got != tt.want {
			t.Fatalf("PreReviewInterval(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestPreReviewIntervalShape(t *testing.T) {
	t.Parallel()
	// The first three rungs are distinct and increasing; everything past the
	// ladder is a constant longer fallback.
	for i := 0; i < 2; i++ {
		if PreReviewInterval(i) >= PreReviewInterval(i+1) {
			t.Fatalf("ladder not strictly increasing at rung %d", i)
		}
	}
	fallback := PreReviewInterval(3)
	if fallback <= PreReviewInterval(2) {
		t.Fatalf("fallback %v not larger than last rung %v", fallback, PreReviewInterval(2))
	}
	for i := 3; i < 20; i++ {
		if PreReviewInterval(i) != fallback {
			t.Fatalf("PreReviewInterval(%d) = %v, want constant %v", i, PreReviewInterval(i), fallback)
		}
	}
}
