package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"phrasebot/internal/storage"
	kit "phrasebot/internal/transport"
	logx "phrasebot/pkg/logx"
)

// Service runs the reminder cron. Safe for concurrent use; Apply may be
// called at any time from the config hot-reload path.
type Service struct {
	mu sync.Mutex

	log     logx.Logger
	adapter kit.Adapter
	store   storage.Store

	parser cron.Parser
	c      *cron.Cron
	cfg    Config

	now func() time.Time
}

func New(log logx.Logger, adapter kit.Adapter, store storage.Store) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log:     log,
		adapter: adapter,
		store:   store,
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:     time.Now,
	}
}

// Apply replaces the running schedule with cfg. Disabled or empty schedules
// stop the cron entirely.
func (s *Service) Apply(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		stopCtx := s.c.Stop()
		// Wait briefly for an in-flight reminder to finish.
		select {
		case <-stopCtx.Done():
		case <-time.After(2 * time.Second):
		}
		s.c = nil
	}
	s.cfg = cfg

	if !cfg.Enabled || cfg.Schedule == "" {
		s.log.Debug("reminders disabled")
		return nil
	}
	if _, err := s.parser.Parse(cfg.Schedule); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", cfg.Schedule, err)
	}

	c := cron.New(cron.WithParser(s.parser))
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.remind(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	s.c = c
	s.log.Info("reminders scheduled",
		logx.String("schedule", cfg.Schedule),
		logx.Int64("chat_id", cfg.Chat.ChatID),
	)
	return nil
}

// Stop halts the cron and waits for in-flight jobs.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// remind counts due cards and nudges the configured chat when any are waiting.
func (s *Service) remind(ctx context.Context) {
	s.mu.Lock()
	chat := s.cfg.Chat
	s.mu.Unlock()

	stats, err := s.store.DueCounts(ctx, s.now())
	if err != nil {
		s.log.Warn("reminder due count failed", logx.Any("err", err))
		return
	}
	total := 0
	for _, st := range stats {
		total += st.Due
	}
	if total == 0 {
		s.log.Debug("reminder skipped (nothing due)")
		return
	}

	text := fmt.Sprintf("⏰ %d card(s) waiting for review. /study", total)
	if _, err := s.adapter.SendText(ctx, chat, text, nil); err != nil {
		s.log.Warn("reminder send failed", logx.Any("err", err), logx.Int64("chat_id", chat.ChatID))
		return
	}
	s.log.Info("reminder sent", logx.Int("due", total), logx.Int64("chat_id", chat.ChatID))
}
