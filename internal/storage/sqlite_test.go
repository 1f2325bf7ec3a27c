package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"phrasebot/internal/srs"
	logx "phrasebot/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedCard(t *testing.T, st Store, now time.Time) Card {
	t.Helper()
	ctx := context.Background()
	deck, err := st.CreateDeck(ctx, "spanish", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	card, err := st.CreateCard(ctx, deck.ID, "hola", "hello", srs.NewCardState(now))
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	return card
}

func TestCreateAndGetCard(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	now := time.Now().Truncate(time.Millisecond)
	card := seedCard(t, st, now)

	got, err := st.GetCard(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.Front != "hola" || got.Back != "hello" {
		t.Fatalf("card = %+v", got)
	}
	if got.State.Phase != srs.PreReview {
		t.Fatalf("Phase = %v, want PreReview", got.State.Phase)
	}
	if got.State.Memory != nil {
		t.Fatal("new card should have no memory state")
	}
	if !got.State.Due.Equal(now) {
		t.Fatalf("Due = %v, want %v", got.State.Due, now)
	}
}

func TestGetCardNotFound(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	if _, err := st.GetCard(context.Background(), 12345); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("err = %v, want ErrCardNotFound", err)
	}
	if _, err := st.GetDeck(context.Background(), 12345); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestCreateCardRequiresDeck(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	_, err := st.CreateCard(context.Background(), 99, "a", "b", srs.NewCardState(time.Now()))
	if !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestDeckInitialReviewCountBounds(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	if _, err := st.CreateDeck(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error for out-of-range override")
	}
	if _, err := st.CreateDeck(context.Background(), "x", 3); err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
}

func TestDueCardOrderingAndFilters(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	deck, err := st.CreateDeck(ctx, "deck", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	early, err := st.CreateCard(ctx, deck.ID, "early", "e", srs.NewCardState(now.Add(-time.Hour)))
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	late, err := st.CreateCard(ctx, deck.ID, "late", "l", srs.NewCardState(now.Add(-time.Minute)))
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if _, err := st.CreateCard(ctx, deck.ID, "future", "f", srs.NewCardState(now.Add(time.Hour))); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	got, err := st.DueCard(ctx, deck.ID, now)
	if err != nil {
		t.Fatalf("DueCard: %v", err)
	}
	if got.ID != early.ID {
		t.Fatalf("DueCard = %d, want earliest %d", got.ID, early.ID)
	}

	if err := st.SetCardHidden(ctx, early.ID, true); err != nil {
		t.Fatalf("SetCardHidden: %v", err)
	}
	got, err = st.DueCard(ctx, deck.ID, now)
	if err != nil {
		t.Fatalf("DueCard: %v", err)
	}
	if got.ID != late.ID {
		t.Fatalf("DueCard = %d, want %d after hiding earliest", got.ID, late.ID)
	}

	if err := st.SetCardMastered(ctx, late.ID, true); err != nil {
		t.Fatalf("SetCardMastered: %v", err)
	}
	if _, err := st.DueCard(ctx, deck.ID, now); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("err = %v, want ErrCardNotFound with nothing due", err)
	}
}

func TestApplyReviewPersistsStateAndHistory(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)
	card := seedCard(t, st, now)

	updated, result, err := st.ApplyReview(ctx, card.ID, srs.StillLearning, now,
		func(c Card) (srs.Result, error) {
			return srs.Schedule(c.State, srs.StillLearning, srs.DefaultInitialReviewCount, now)
		})
	if err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}
	if result.PhaseTransitioned {
		t.Fatal("first warm-up review should not transition")
	}
	if updated.State.PreReviewCount != 1 {
		t.Fatalf("PreReviewCount = %d, want 1", updated.State.PreReviewCount)
	}

	got, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.State.PreReviewCount != 1 {
		t.Fatalf("persisted PreReviewCount = %d, want 1", got.State.PreReviewCount)
	}
	if !got.State.Due.Equal(updated.State.Due) {
		t.Fatalf("persisted Due = %v, want %v", got.State.Due, updated.State.Due)
	}
	if got.ReviewedAt.IsZero() {
		t.Fatal("ReviewedAt should be set after a review")
	}

	hist, err := st.RecentReviews(ctx, card.ID, 10)
	if err != nil {
		t.Fatalf("RecentReviews: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("history length = %d, want 1", len(hist))
	}
	if hist[0].Rating != srs.StillLearning || hist[0].Phase != srs.PreReview {
		t.Fatalf("history entry = %+v", hist[0])
	}
}

func TestApplyReviewRollsBackOnError(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)
	card := seedCard(t, st, now)

	wantErr := errors.New("bad rating")
	_, _, err := st.ApplyReview(ctx, card.ID, srs.Good, now,
		func(Card) (srs.Result, error) { return srs.Result{}, wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	got, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.State.PreReviewCount != 0 || !got.ReviewedAt.IsZero() {
		t.Fatalf("card changed after failed review: %+v", got)
	}
	hist, err := st.RecentReviews(ctx, card.ID, 10)
	if err != nil {
		t.Fatalf("RecentReviews: %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("history length = %d, want 0", len(hist))
	}
}

func TestMemoryStateRoundTrip(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)
	card := seedCard(t, st, now)

	// Drive the card through the warm-up phase until it graduates.
	var transitioned bool
	cur := now
	for i := 0; i < srs.DefaultInitialReviewCount && !transitioned; i++ {
		updated, result, err := st.ApplyReview(ctx, card.ID, srs.Understood, cur,
			func(c Card) (srs.Result, error) {
				return srs.Schedule(c.State, srs.Understood, srs.DefaultInitialReviewCount, cur)
			})
		if err != nil {
			t.Fatalf("ApplyReview: %v", err)
		}
		transitioned = result.PhaseTransitioned
		cur = updated.State.Due
	}
	if !transitioned {
		t.Fatal("card never graduated")
	}

	got, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.State.Phase != srs.Review {
		t.Fatalf("Phase = %v, want Review", got.State.Phase)
	}
	if got.State.Memory == nil {
		t.Fatal("graduated card should carry memory state")
	}
	if got.State.Memory.DueMS == 0 {
		t.Fatal("memory due should be set")
	}
}

func TestListCards(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	deck, err := st.CreateDeck(ctx, "deck", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	other, err := st.CreateDeck(ctx, "other", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	for _, front := range []string{"a", "b", "c"} {
		if _, err := st.CreateCard(ctx, deck.ID, front, "x", srs.NewCardState(now)); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
	}
	if _, err := st.CreateCard(ctx, other.ID, "z", "x", srs.NewCardState(now)); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	cards, err := st.ListCards(ctx, deck.ID)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("cards length = %d, want 3", len(cards))
	}
	if cards[0].Front != "a" || cards[2].Front != "c" {
		t.Fatalf("cards not ordered by id: %+v", cards)
	}
}

func TestDeleteDeckCascades(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)
	card := seedCard(t, st, now)

	if _, _, err := st.ApplyReview(ctx, card.ID, srs.StillLearning, now,
		func(c Card) (srs.Result, error) {
			return srs.Schedule(c.State, srs.StillLearning, srs.DefaultInitialReviewCount, now)
		}); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}

	if err := st.DeleteDeck(ctx, card.DeckID); err != nil {
		t.Fatalf("DeleteDeck: %v", err)
	}
	if _, err := st.GetDeck(ctx, card.DeckID); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound", err)
	}
	if _, err := st.GetCard(ctx, card.ID); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("err = %v, want ErrCardNotFound after cascade", err)
	}
	hist, err := st.RecentReviews(ctx, card.ID, 10)
	if err != nil {
		t.Fatalf("RecentReviews: %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("history length = %d, want 0 after cascade", len(hist))
	}

	if err := st.DeleteDeck(ctx, card.DeckID); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound on second delete", err)
	}
}

func TestDueCounts(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	deck, err := st.CreateDeck(ctx, "deck", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	if _, err := st.CreateCard(ctx, deck.ID, "a", "1", srs.NewCardState(now.Add(-time.Minute))); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if _, err := st.CreateCard(ctx, deck.ID, "b", "2", srs.NewCardState(now.Add(time.Hour))); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	stats, err := st.DueCounts(ctx, now)
	if err != nil {
		t.Fatalf("DueCounts: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats length = %d, want 1", len(stats))
	}
	if stats[0].Total != 2 || stats[0].Due != 1 || stats[0].PreReview != 2 {
		t.Fatalf("stats = %+v", stats[0])
	}
}
