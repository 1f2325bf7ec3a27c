package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	kit "phrasebot/internal/transport"
	"phrasebot/internal/transport/telegram/router"
	logx "phrasebot/pkg/logx"
	"phrasebot/pkg/tgui"
)

func (s *Service) handleStudy(ctx context.Context, req *router.Request) error {
	var deckID int64
	if len(req.Args) > 0 {
		id, err := strconv.ParseInt(req.Args[0], 10, 64)
		if err != nil {
			return s.sendText(ctx, req, "usage: /study [deck_id]")
		}
		deckID = id
	}

	now := s.now()
	card, err := s.store.DueCard(ctx, deckID, now)
	if errors.Is(err, storage.ErrCardNotFound) {
		return s.sendText(ctx, req, "Nothing due right now. 🎉 Check back later or /add new cards.")
	}
	if err != nil {
		return err
	}
	deck, err := s.store.GetDeck(ctx, card.DeckID)
	if err != nil {
		return err
	}

	_, err = frontMessage(card, deck).Send(ctx, req.Adapter, req.Chat)
	return err
}

func (s *Service) handleAdd(ctx context.Context, req *router.Request) error {
	const usage = "usage: /add <deck_id> <front> | <back>"
	if len(req.Args) < 2 {
		return s.sendText(ctx, req, usage)
	}
	deckID, err := strconv.ParseInt(req.Args[0], 10, 64)
	if err != nil {
		return s.sendText(ctx, req, usage)
	}
	rest := strings.Join(req.Args[1:], " ")
	front, back, ok := strings.Cut(rest, "|")
	if !ok || strings.TrimSpace(front) == "" || strings.TrimSpace(back) == "" {
		return s.sendText(ctx, req, usage)
	}

	card, err := s.store.CreateCard(ctx, deckID, front, back, srs.NewCardState(s.now()))
	if errors.Is(err, storage.ErrDeckNotFound) {
		return s.sendText(ctx, req, fmt.Sprintf("deck %d not found; see /decks", deckID))
	}
	if err != nil {
		return err
	}

	s.log.Info("card added",
		logx.Int64("card_id", card.ID),
		logx.Int64("deck_id", deckID),
		logx.Int64("from_id", req.FromID),
	)
	return s.sendText(ctx, req, fmt.Sprintf("Added card #%d. It is due now; start with /study.", card.ID))
}

func (s *Service) handleDeckNew(ctx context.Context, req *router.Request) error {
	const usage = "usage: /deck new <title> [--warmup N]"
	title := strings.TrimSpace(strings.Join(req.Args, " "))
	if title == "" {
		return s.sendText(ctx, req, usage)
	}

	warmup := 0
	if raw, ok := req.Flags["warmup"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s.sendText(ctx, req, usage)
		}
		warmup = n
	}

	deck, err := s.store.CreateDeck(ctx, title, warmup)
	var cfgErr *srs.ConfigError
	if errors.As(err, &cfgErr) {
		return s.sendText(ctx, req, "warmup "+cfgErr.Reason)
	}
	if err != nil {
		return err
	}
	return s.sendText(ctx, req, fmt.Sprintf("Deck #%d %q created.", deck.ID, deck.Title))
}

func (s *Service) handleDecks(ctx context.Context, req *router.Request) error {
	decks, err := s.store.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		return s.sendText(ctx, req, "No decks yet. Create one with /deck new <title>.")
	}
	stats, err := s.store.DueCounts(ctx, s.now())
	if err != nil {
		return err
	}
	byDeck := make(map[int64]storage.DeckStats, len(stats))
	for _, st := range stats {
		byDeck[st.DeckID] = st
	}

	b := tgui.New().Title("🗂", "Decks")
	for _, d := range decks {
		st := byDeck[d.ID]
		b.KV(fmt.Sprintf("#%d %s", d.ID, d.Title),
			fmt.Sprintf("%d cards, %d due, %d mastered", st.Total, st.Due, st.Mastered))
	}
	msg := b.Build()
	_, err = msg.Send(ctx, req.Adapter, req.Chat)
	return err
}

func (s *Service) handleDue(ctx context.Context, req *router.Request) error {
	stats, err := s.store.DueCounts(ctx, s.now())
	if err != nil {
		return err
	}
	total := 0
	for _, st := range stats {
		total += st.Due
	}
	if total == 0 {
		return s.sendText(ctx, req, "Nothing due right now. 🎉")
	}
	return s.sendText(ctx, req, fmt.Sprintf("%d card(s) due. Start with /study.", total))
}

func (s *Service) handleSimulate(ctx context.Context, req *router.Request) error {
	const usage = "usage: /simulate <count> or /simulate <rating...> (e.g. /simulate still_learning understood good)"
	budget := s.cfgm.Get().InitialReviewCount()
	retention := s.retention()
	now := s.now()

	var steps []srs.SimulationStep
	switch {
	case len(req.Args) == 1 && isUint(req.Args[0]):
		n, _ := strconv.Atoi(req.Args[0])
		if n < 1 || n > 30 {
			return s.sendText(ctx, req, "count must be between 1 and 30")
		}
		var err error
		steps, err = simulateTypical(n, budget, retention, now)
		if err != nil {
			return err
		}
	case len(req.Args) > 0:
		ratings := make([]srs.Rating, 0, len(req.Args))
		for _, a := range req.Args {
			r, err := srs.ParseRating(strings.ToLower(a))
			if err != nil {
				return s.sendText(ctx, req, usage)
			}
			ratings = append(ratings, r)
		}
		var err error
		steps, err = srs.SimulateWithRetention(budget, ratings, now, retention)
		if err != nil {
			return err
		}
	default:
		return s.sendText(ctx, req, usage)
	}

	b := tgui.New().Title("📈", "Schedule preview")
	b.Line(fmt.Sprintf("warm-up budget %d, retention %.0f%%", budget, retention*100))
	b.Blank()
	for _, st := range steps {
		mark := ""
		if st.PhaseTransitioned {
			mark = " 🎓"
		}
		b.Line(fmt.Sprintf("#%d %s (%s) → %s%s", st.Review, st.Rating, st.Phase, st.Interval, mark))
	}
	msg := b.Build()
	_, err := msg.Send(ctx, req.Adapter, req.Chat)
	return err
}

// simulateTypical previews n on-time reviews on the slow path: the learner
// keeps answering "still learning" during warm-up, then "good" afterwards.
func simulateTypical(n, budget int, retention float64, start time.Time) ([]srs.SimulationStep, error) {
	state := srs.NewCardState(start)
	clock := start

	steps := make([]srs.SimulationStep, 0, n)
	for i := 0; i < n; i++ {
		rating := srs.Good
		if state.Phase == srs.PreReview {
			rating = srs.StillLearning
		}
		res, err := srs.ScheduleWithRetention(state, rating, budget, clock, retention)
		if err != nil {
			return nil, err
		}
		steps = append(steps, srs.SimulationStep{
			Review:            i + 1,
			Rating:            rating,
			Phase:             res.State.Phase,
			Due:               res.State.Due,
			PhaseTransitioned: res.PhaseTransitioned,
			Interval:          srs.FormatInterval(res.State.Due.Sub(clock)),
		})
		state = res.State
		clock = res.State.Due
	}
	return steps, nil
}

func (s *Service) handleHide(ctx context.Context, req *router.Request) error {
	return s.handleCardFlag(ctx, req, "hide", s.store.SetCardHidden)
}

func (s *Service) handleMaster(ctx context.Context, req *router.Request) error {
	return s.handleCardFlag(ctx, req, "master", s.store.SetCardMastered)
}

func (s *Service) handleCardFlag(ctx context.Context, req *router.Request, verb string, set func(context.Context, int64, bool) error) error {
	if len(req.Args) != 1 {
		return s.sendText(ctx, req, "usage: /"+verb+" <card_id> [--off]")
	}
	id, err := strconv.ParseInt(req.Args[0], 10, 64)
	if err != nil {
		return s.sendText(ctx, req, "usage: /"+verb+" <card_id> [--off]")
	}
	on := !req.BoolFlags["off"]
	if err := set(ctx, id, on); err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			return s.sendText(ctx, req, fmt.Sprintf("card %d not found", id))
		}
		return err
	}
	state := "on"
	if !on {
		state = "off"
	}
	return s.sendText(ctx, req, fmt.Sprintf("card %d: %s %s", id, verb, state))
}

func (s *Service) sendText(ctx context.Context, req *router.Request, text string) error {
	_, err := req.Adapter.SendText(ctx, req.Chat, text, nil)
	return err
}

func isUint(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func callbackRef(req *router.Request) (kit.MessageRef, bool) {
	cb := req.Update.Callback
	if cb == nil {
		return kit.MessageRef{}, false
	}
	return kit.MessageRef{ChatID: cb.ChatID, ThreadID: cb.ThreadID, MessageID: cb.MessageID}, true
}
