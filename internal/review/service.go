package review

import (
	"time"

	"phrasebot/internal/config"
	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	logx "phrasebot/pkg/logx"
	"phrasebot/pkg/tgui"
)

// callbackScope prefixes all inline-button callback data owned by this service.
const callbackScope = "review"

type Service struct {
	log   logx.Logger
	store storage.Store
	cfgm  *config.Manager

	// tokens holds one-shot confirmation payloads for destructive actions.
	tokens *tgui.TokenStore

	// now is the clock used for all scheduling decisions (swapped in tests).
	now func() time.Time
}

func New(log logx.Logger, store storage.Store, cfgm *config.Manager) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log:    log,
		store:  store,
		cfgm:   cfgm,
		tokens: tgui.NewTokenStore().WithTTL(5 * time.Minute),
		now:    time.Now,
	}
}

// initialReviewCount resolves the warm-up budget for a deck: the per-deck
// override when set, otherwise the configured global value.
func (s *Service) initialReviewCount(deck storage.Deck) int {
	if deck.InitialReviewCount != 0 {
		return deck.InitialReviewCount
	}
	return s.cfgm.Get().InitialReviewCount()
}

func (s *Service) retention() float64 {
	return s.cfgm.Get().DesiredRetention()
}

// schedule runs one scheduling step for a card using the deck's budget.
func (s *Service) schedule(card storage.Card, deck storage.Deck, rating srs.Rating, now time.Time) (srs.Result, error) {
	return srs.ScheduleWithRetention(card.State, rating, s.initialReviewCount(deck), now, s.retention())
}
