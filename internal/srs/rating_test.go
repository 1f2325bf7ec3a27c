package srs

import (
	"testing"
)

func TestValidRatings(t *testing.T) {
	t.Parallel()
	pre := ValidRatings(PreReview)
	if len(pre) != 2 || pre[0] != StillLearning || pre[1] != Understood {
		t.Fatalf("ValidRatings(PreReview) = %v", pre)
	}
	rev := ValidRatings(Review)
	if len(rev) != 4 || rev[0] != Again || rev[3] != Easy {
		t.Fatalf("ValidRatings(Review) = %v", rev)
	}
	if ValidRatings(Phase(0)) != nil {
		t.Fatal("unknown phase must return nil")
	}
}

func TestRatingValidFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rating Rating
		phase  Phase
		want   bool
	}{
		{StillLearning, PreReview, true},
		{Understood, PreReview, true},
		{Again, PreReview, false},
		{Easy, PreReview, false},
		{StillLearning, Review, false},
		{Understood, Review, false},
		{Again, Review, true},
		{Hard, Review, true},
		{Good, Review, true},
		{Easy, Review, true},
	}
	for _, tt := range tests {
		if got := tt.rating.ValidFor(tt.phase); got != tt.want {
			t.Fatalf("%v.ValidFor(%v) = %v, want %v", tt.rating, tt.phase, got, tt.want)
		}
	}
}

func TestRatingTextRoundTrip(t *testing.T) {
	t.Parallel()
	for _, r := range []Rating{StillLearning, Understood, Again, Hard, Good, Easy} {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatalf("%v: %v", r, err)
		}
		got, err := ParseRating(string(b))
		if err != nil {
			t.Fatalf("%v: %v", r, err)
		}
		if got != r {
			t.Fatalf("round trip %v -> %s -> %v", r, b, got)
		}
	}
	if _, err := ParseRating("meh"); err == nil {
		t.Fatal("expected error for unknown rating name")
	}
	if _, err := Rating(0).MarshalText(); err == nil {
		t.Fatal("expected error marshaling the zero rating")
	}
}

func TestDefaultRating(t *testing.T) {
	t.Parallel()
	if got := DefaultRating(PreReview); got != Understood {
		t.Fatalf("DefaultRating(PreReview) = %v", got)
	}
	if got := DefaultRating(Review); got != Good {
		t.Fatalf("DefaultRating(Review) = %v", got)
	}
}

func TestPhaseTextRoundTrip(t *testing.T) {
	t.Parallel()
	for _, p := range []Phase{PreReview, Review} {
		b, err := p.MarshalText()
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		var got Phase
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if got != p {
			t.Fatalf("round trip %v -> %s -> %v", p, b, got)
		}
	}
}
