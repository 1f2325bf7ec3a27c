package review

import (
	"strings"
	"testing"
	"time"

	"phrasebot/internal/config"
	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	logx "phrasebot/pkg/logx"
)

var t0 = time.UnixMilli(0).UTC()

func newTestService(t *testing.T) *Service {
	t.Helper()
	m := config.NewManager("unused")
	m.Commit(&config.Config{})
	svc := New(logx.Nop(), nil, m)
	svc.now = func() time.Time { return t0 }
	return svc
}

func TestRatingKeyboardPreReview(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	card := storage.Card{ID: 7, State: srs.NewCardState(t0)}

	kb := svc.ratingKeyboard(card, storage.Deck{}, t0)
	rows := kb.Markup().InlineKeyboard
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("keyboard shape = %v, want 1 row of 2", rows)
	}

	first := rows[0][0]
	if !strings.Contains(first.Data, "review:rate:7:still_learning") {
		t.Fatalf("first button data = %q", first.Data)
	}
	// Round 0 of the warm-up ladder waits one minute.
	if !strings.Contains(first.Text, "1m") {
		t.Fatalf("first button label = %q, want interval preview", first.Text)
	}
	second := rows[0][1]
	if !strings.Contains(second.Data, "review:rate:7:understood") {
		t.Fatalf("second button data = %q", second.Data)
	}
}

func TestRatingKeyboardReviewPhase(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	card := storage.Card{ID: 3, State: srs.CardState{
		Phase:          srs.Review,
		PreReviewCount: 3,
		Due:            t0,
		Memory:         srs.NewMemoryState(t0),
	}}

	kb := svc.ratingKeyboard(card, storage.Deck{}, t0)
	rows := kb.Markup().InlineKeyboard
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 2 {
		t.Fatalf("keyboard shape = %v, want 2 rows of 2", rows)
	}
	want := []string{"again", "hard", "good", "easy"}
	got := []string{rows[0][0].Data, rows[0][1].Data, rows[1][0].Data, rows[1][1].Data}
	for i, data := range got {
		if !strings.Contains(data, "review:rate:3:"+want[i]) {
			t.Fatalf("button %d data = %q, want rating %s", i, data, want[i])
		}
	}
}

func TestDeckWarmupOverride(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	if got := svc.initialReviewCount(storage.Deck{}); got != srs.DefaultInitialReviewCount {
		t.Fatalf("default budget = %d, want %d", got, srs.DefaultInitialReviewCount)
	}
	if got := svc.initialReviewCount(storage.Deck{InitialReviewCount: 3}); got != 3 {
		t.Fatalf("override budget = %d, want 3", got)
	}
}

func TestSimulateTypicalGraduates(t *testing.T) {
	t.Parallel()
	steps, err := simulateTypical(6, srs.DefaultInitialReviewCount, srs.DefaultRetention, t0)
	if err != nil {
		t.Fatalf("simulateTypical: %v", err)
	}
	if len(steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(steps))
	}

	// With the default budget of 5 the third warm-up round graduates.
	var transitionAt int
	for _, st := range steps {
		if st.PhaseTransitioned {
			transitionAt = st.Review
			break
		}
	}
	if transitionAt != 3 {
		t.Fatalf("transition at review %d, want 3", transitionAt)
	}
	for _, st := range steps[:2] {
		if st.Rating != srs.StillLearning || st.Phase != srs.PreReview {
			t.Fatalf("warm-up step = %+v", st)
		}
	}
	for _, st := range steps[3:] {
		if st.Rating != srs.Good || st.Phase != srs.Review {
			t.Fatalf("long-term step = %+v", st)
		}
	}
}

func TestFrontMessageHasRevealButton(t *testing.T) {
	t.Parallel()
	card := storage.Card{ID: 12, Front: "hola", Back: "hello", State: srs.NewCardState(t0)}
	msg := frontMessage(card, storage.Deck{ID: 1, Title: "spanish"})

	if !strings.Contains(msg.Text, "hola") {
		t.Fatalf("text = %q, want front side", msg.Text)
	}
	if strings.Contains(msg.Text, "hello") {
		t.Fatal("front message must not leak the answer")
	}
	if msg.Opt == nil || msg.Opt.ReplyMarkupAdapter == nil {
		t.Fatal("front message should carry a reveal keyboard")
	}
}

func TestOutcomeMessageTransition(t *testing.T) {
	t.Parallel()
	card := storage.Card{ID: 5, Front: "hola", State: srs.CardState{
		Phase:          srs.Review,
		PreReviewCount: 1,
		Due:            t0.Add(time.Minute),
		Memory:         srs.NewMemoryState(t0),
	}}
	result := srs.Result{State: card.State, PhaseTransitioned: true}

	msg := outcomeMessage(card, storage.Deck{Title: "spanish"}, result, t0)
	if !strings.Contains(msg.Text, "Graduated") {
		t.Fatalf("text = %q, want graduation note", msg.Text)
	}
	if !strings.Contains(msg.Text, "1m") {
		t.Fatalf("text = %q, want next interval", msg.Text)
	}
}
