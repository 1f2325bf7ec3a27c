package review

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"phrasebot/internal/config"
	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	logx "phrasebot/pkg/logx"
)

func newStoreBackedService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	st, err := storage.Open(storage.Config{Path: filepath.Join(t.TempDir(), "test.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m := config.NewManager("unused")
	m.Commit(&config.Config{})
	svc := New(logx.Nop(), st, m)
	svc.now = func() time.Time { return t0 }
	return svc, st
}

func TestCardsPagePagination(t *testing.T) {
	t.Parallel()
	svc, st := newStoreBackedService(t)
	ctx := context.Background()

	deck, err := st.CreateDeck(ctx, "verbs", 0)
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	for i := 0; i < cardsPageSize+2; i++ {
		if _, err := st.CreateCard(ctx, deck.ID, fmt.Sprintf("front %d", i), "back", srs.NewCardState(t0)); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
	}

	first, err := svc.cardsPage(ctx, deck.ID, 0)
	if err != nil {
		t.Fatalf("cardsPage: %v", err)
	}
	if !strings.Contains(first.Text, "front 0") || strings.Contains(first.Text, fmt.Sprintf("front %d", cardsPageSize)) {
		t.Fatalf("page 0 text = %q", first.Text)
	}
	if !strings.Contains(first.Text, "Page 1/2") {
		t.Fatalf("page 0 label missing: %q", first.Text)
	}
	if !hasCallback(t, first.Opt.ReplyMarkupAdapter, "review:page:"+pagePayload(deck.ID, 1)) {
		t.Fatal("page 0 should offer a next button")
	}
	if n := countButtons(t, first.Opt.ReplyMarkupAdapter); n != 1 {
		t.Fatalf("page 0 has %d nav buttons, want next only", n)
	}

	second, err := svc.cardsPage(ctx, deck.ID, 1)
	if err != nil {
		t.Fatalf("cardsPage: %v", err)
	}
	if !strings.Contains(second.Text, fmt.Sprintf("front %d", cardsPageSize)) {
		t.Fatalf("page 1 text = %q", second.Text)
	}
	if !hasCallback(t, second.Opt.ReplyMarkupAdapter, "review:page:"+pagePayload(deck.ID, 0)) {
		t.Fatal("page 1 should offer a prev button")
	}
}

func countButtons(t *testing.T, markup any) int {
	t.Helper()
	rm, ok := markup.(*tele.ReplyMarkup)
	if !ok || rm == nil {
		t.Fatalf("markup = %T, want *tele.ReplyMarkup", markup)
	}
	n := 0
	for _, row := range rm.InlineKeyboard {
		n += len(row)
	}
	return n
}

func hasCallback(t *testing.T, markup any, data string) bool {
	t.Helper()
	rm, ok := markup.(*tele.ReplyMarkup)
	if !ok || rm == nil {
		t.Fatalf("markup = %T, want *tele.ReplyMarkup", markup)
	}
	for _, row := range rm.InlineKeyboard {
		for _, btn := range row {
			if strings.Contains(btn.Data, data) {
				return true
			}
		}
	}
	return false
}

func TestCardStatus(t *testing.T) {
	t.Parallel()
	base := storage.Card{State: srs.CardState{Due: t0.Add(time.Hour)}}

	if got := cardStatus(base, t0); got != "due in 1h" {
		t.Fatalf("cardStatus = %q, want %q", got, "due in 1h")
	}
	if got := cardStatus(base, t0.Add(2*time.Hour)); got != "due" {
		t.Fatalf("cardStatus = %q, want %q", got, "due")
	}
	hidden := base
	hidden.Hidden = true
	if got := cardStatus(hidden, t0); got != "hidden" {
		t.Fatalf("cardStatus = %q, want %q", got, "hidden")
	}
	mastered := hidden
	mastered.Mastered = true
	if got := cardStatus(mastered, t0); got != "mastered" {
		t.Fatalf("cardStatus = %q, want %q", got, "mastered")
	}
}

func TestDeleteConfirmTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	tok := svc.tokens.PutString("42")
	if tok == "" {
		t.Fatal("empty token")
	}
	// callback data is ':'-delimited; tokens must stay clear of it
	if strings.Contains(tok, ":") {
		t.Fatalf("token %q contains ':'", tok)
	}
	got, ok := svc.tokens.GetString(tok)
	if !ok || got != "42" {
		t.Fatalf("GetString = %q, %v", got, ok)
	}
	if _, ok := svc.tokens.GetString("~missing"); ok {
		t.Fatal("unknown token should not resolve")
	}
}
