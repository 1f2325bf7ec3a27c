package srs

import (
	"encoding"
	"fmt"
)

// Rating is the learner's feedback for a single review. Valid members are
// phase-scoped: StillLearning/Understood during pre-review, Again..Easy once
// the card is FSRS-scheduled. The scheduler itself does not validate the
// pairing; callers must restrict offered ratings via ValidRatings and reject
// mismatches before scheduling.
type Rating int

const (
	StillLearning Rating = iota + 1 // pre-review: needs more exposure
	Understood                      // pre-review: ready for spaced repetition

	Again // review: failed to recall
	Hard  // review: recalled with difficulty
	Good  // review: recalled with effort
	Easy  // review: recalled effortlessly
)

var (
	ratingNames = map[Rating]string{
		StillLearning: "still_learning",
		Understood:    "understood",
		Again:         "again",
		Hard:          "hard",
		Good:          "good",
		Easy:          "easy",
	}
	ratingByName = map[string]Rating{
		"still_learning": StillLearning,
		"understood":     Understood,
		"again":          Again,
		"hard":           Hard,
		"good":           Good,
		"easy":           Easy,
	}
)

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

func (r Rating) IsValid() bool { return r >= StillLearning && r <= Easy }

// ValidFor reports whether r belongs to the given phase's rating set.
func (r Rating) ValidFor(p Phase) bool {
	switch p {
	case PreReview:
		return r == StillLearning || r == Understood
	case Review:
		return r >= Again && r <= Easy
	default:
		return false
	}
}

func (r Rating) String() string {
	if s, ok := ratingNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("srs: invalid rating: %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("srs: invalid rating: %q", text)
	}
	*r = v
	return nil
}

// ParseRating converts a stored/wire rating name back to a Rating.
func ParseRating(s string) (Rating, error) {
	var r Rating
	if err := r.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return r, nil
}

// ValidRatings returns the ratings a caller may offer for the given phase,
// in display order. Unknown phases return nil.
func ValidRatings(p Phase) []Rating {
	switch p {
	case PreReview:
		return []Rating{StillLearning, Understood}
	case Review:
		return []Rating{Again, Hard, Good, Easy}
	default:
		return nil
	}
}

// DefaultRating is the rating a UI should preselect for the given phase.
func DefaultRating(p Phase) Rating {
	if p == PreReview {
		return Understood
	}
	return Good
}
