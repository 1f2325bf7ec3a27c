package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"
)

// Phase is the scheduling stage of a card.
//
// A card starts in PreReview and moves at most once, forward-only, to
// Review. It never reverts.
type Phase int

const (
	PreReview Phase = iota + 1 // fixed-interval ladder for brand-new material
	Review                     // FSRS-scheduled long-term retention
)

var (
	phaseNames = map[Phase]string{
		PreReview: "pre_review",
		Review:    "review",
	}
	phaseByName = map[string]Phase{
		"pre_review": PreReview,
		"review":     Review,
	}
)

var (
	_ fmt.Stringer             = Phase(0)
	_ encoding.TextMarshaler   = Phase(0)
	_ encoding.TextUnmarshaler = (*Phase)(nil)
)

func (p Phase) IsValid() bool { return p == PreReview || p == Review }

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("srs: invalid phase: %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	v, ok := phaseByName[string(text)]
	if !ok {
		return fmt.Errorf("srs: invalid phase: %q", text)
	}
	*p = v
	return nil
}

// MemoryState is the serialized working state of the spaced-repetition
// algorithm. All fields are plain numbers so the record marshals losslessly
// through stores with no native date type; instants are epoch milliseconds.
// Conversion to richer time types happens only inside the FSRS adapter.
type MemoryState struct {
	DueMS         int64   `json:"due_ms"`
	Stability     float64 `json:"stability"`
	Difficulty    float64 `json:"difficulty"`
	ElapsedDays   uint64  `json:"elapsed_days"`
	ScheduledDays uint64  `json:"scheduled_days"`
	Step          uint64  `json:"step"`
	Reps          uint64  `json:"reps"`
	Lapses        uint64  `json:"lapses"`
	State         int     `json:"state"`
	LastReviewMS  int64   `json:"last_review_ms"`
}

// CardState is the persisted scheduling record for one card.
//
// Invariants:
//   - PreReviewCount never decreases while Phase == PreReview and is frozen
//     once Phase == Review.
//   - Memory is nil iff Phase == PreReview.
type CardState struct {
	Phase          Phase        `json:"phase"`
	PreReviewCount int          `json:"pre_review_count"`
	Due            time.Time    `json:"due"`
	Memory         *MemoryState `json:"memory,omitempty"`
}

// NewCardState returns the state of a freshly created card: pre-review
// phase, zero rounds completed, due immediately.
func NewCardState(now time.Time) CardState {
	return CardState{
		Phase:          PreReview,
		PreReviewCount: 0,
		Due:            now,
		Memory:         nil,
	}
}

// Result is the outcome of a single scheduling step. PhaseTransitioned is
// true only on the one call that flips the card from PreReview to Review.
type Result struct {
	State             CardState
	PhaseTransitioned bool
}

// clone returns a deep copy so scheduling never aliases the caller's record.
func (s CardState) clone() CardState {
	out := s
	if s.Memory != nil {
		m := *s.Memory
		out.Memory = &m
	}
	return out
}

// EncodeMemory marshals the memory state for storage. Nil encodes as nil.
func EncodeMemory(m *MemoryState) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// DecodeMemory is the inverse of EncodeMemory. Empty input decodes as nil.
func DecodeMemory(b []byte) (*MemoryState, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m MemoryState
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("srs: decode memory state: %w", err)
	}
	return &m, nil
}
