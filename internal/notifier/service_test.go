package notifier

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"phrasebot/internal/storage"
	kit "phrasebot/internal/transport"
	logx "phrasebot/pkg/logx"
)

type fakeStore struct {
	storage.Store
	stats []storage.DeckStats
}

func (f *fakeStore) DueCounts(context.Context, time.Time) ([]storage.DeckStats, error) {
	return f.stats, nil
}

type fakeAdapter struct {
	kit.Adapter

	mu    sync.Mutex
	texts []string
	chats []kit.ChatTarget
}

func (f *fakeAdapter) SendText(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.chats = append(f.chats, to)
	return kit.MessageRef{}, nil
}

func TestApplyRejectsBadSchedule(t *testing.T) {
	t.Parallel()
	s := New(logx.Nop(), &fakeAdapter{}, &fakeStore{})
	err := s.Apply(Config{Enabled: true, Schedule: "not a cron"})
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestApplyAndStop(t *testing.T) {
	t.Parallel()
	s := New(logx.Nop(), &fakeAdapter{}, &fakeStore{})
	if err := s.Apply(Config{Enabled: true, Schedule: "0 9 * * *", Chat: kit.ChatTarget{ChatID: 1}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// A second Apply replaces the running cron in place.
	if err := s.Apply(Config{Enabled: true, Schedule: "30 7 * * 1", Chat: kit.ChatTarget{ChatID: 1}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRemindSendsWhenDue(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{}
	st := &fakeStore{stats: []storage.DeckStats{{DeckID: 1, Due: 2}, {DeckID: 2, Due: 3}}}
	s := New(logx.Nop(), ad, st)
	s.cfg = Config{Enabled: true, Chat: kit.ChatTarget{ChatID: 42, ThreadID: 7}}

	s.remind(context.Background())

	ad.mu.Lock()
	defer ad.mu.Unlock()
	if len(ad.texts) != 1 {
		t.Fatalf("sent %d messages, want 1", len(ad.texts))
	}
	if !strings.Contains(ad.texts[0], "5 card(s)") {
		t.Fatalf("text = %q, want total due count", ad.texts[0])
	}
	if ad.chats[0].ChatID != 42 || ad.chats[0].ThreadID != 7 {
		t.Fatalf("chat = %+v", ad.chats[0])
	}
}

func TestRemindSkipsWhenNothingDue(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{}
	s := New(logx.Nop(), ad, &fakeStore{stats: []storage.DeckStats{{DeckID: 1}}})
	s.cfg = Config{Enabled: true, Chat: kit.ChatTarget{ChatID: 42}}

	s.remind(context.Background())

	ad.mu.Lock()
	defer ad.mu.Unlock()
	if len(ad.texts) != 0 {
		t.Fatalf("sent %d messages, want 0", len(ad.texts))
	}
}
