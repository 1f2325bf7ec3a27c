package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	"phrasebot/internal/transport/telegram/router"
	logx "phrasebot/pkg/logx"
)

// cbShow reveals the answer side and swaps in the rating keyboard.
func (s *Service) cbShow(ctx context.Context, req *router.Request, payload string) error {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return fmt.Errorf("bad callback payload %q: %w", payload, err)
	}
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return err
	}
	deck, err := s.store.GetDeck(ctx, card.DeckID)
	if err != nil {
		return err
	}

	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	return s.answerMessage(card, deck, s.now()).Edit(ctx, req.Adapter, ref, req.Chat)
}

// cbRate applies a rating. The card's phase may have changed since the
// keyboard was rendered (another device, an edit), so the rating is
// re-checked against the stored phase inside the transaction.
func (s *Service) cbRate(ctx context.Context, req *router.Request, payload string) error {
	idRaw, ratingRaw, ok := strings.Cut(payload, ":")
	if !ok {
		return fmt.Errorf("bad callback payload %q", payload)
	}
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return fmt.Errorf("bad callback payload %q: %w", payload, err)
	}
	rating, err := srs.ParseRating(ratingRaw)
	if err != nil {
		return err
	}

	// The deck is only needed for its warm-up override; reading it outside
	// the transaction is fine since overrides are write-once at creation.
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return err
	}
	deck, err := s.store.GetDeck(ctx, card.DeckID)
	if err != nil {
		return err
	}

	now := s.now()
	updated, result, err := s.store.ApplyReview(ctx, id, rating, now, func(c storage.Card) (srs.Result, error) {
		if !rating.ValidFor(c.State.Phase) {
			return srs.Result{}, fmt.Errorf("rating %s not valid in %s phase", rating, c.State.Phase)
		}
		return s.schedule(c, deck, rating, now)
	})
	if err != nil {
		_ = req.Adapter.AnswerCallback(ctx, req.Update.Callback.ID, "stale card, try /study")
		return err
	}

	s.log.Info("review applied",
		logx.Int64("card_id", id),
		logx.String("rating", rating.String()),
		logx.String("phase", updated.State.Phase.String()),
		logx.Bool("transitioned", result.PhaseTransitioned),
		logx.Duration("interval", updated.State.Due.Sub(now)),
	)

	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	return outcomeMessage(updated, deck, result, now).Edit(ctx, req.Adapter, ref, req.Chat)
}

// cbNext replaces the finished card with the next due one in place.
func (s *Service) cbNext(ctx context.Context, req *router.Request, payload string) error {
	var deckID int64
	if payload != "" {
		id, err := strconv.ParseInt(payload, 10, 64)
		if err == nil {
			deckID = id
		}
	}

	now := s.now()
	card, err := s.store.DueCard(ctx, deckID, now)
	if errors.Is(err, storage.ErrCardNotFound) {
		// Fall back to any deck before giving up.
		if deckID != 0 {
			card, err = s.store.DueCard(ctx, 0, now)
		}
		if errors.Is(err, storage.ErrCardNotFound) {
			ref, ok := callbackRef(req)
			if !ok {
				return nil
			}
			return req.Adapter.EditText(ctx, ref, "Nothing due right now. 🎉", nil)
		}
	}
	if err != nil {
		return err
	}
	deck, err := s.store.GetDeck(ctx, card.DeckID)
	if err != nil {
		return err
	}

	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	return frontMessage(card, deck).Edit(ctx, req.Adapter, ref, req.Chat)
}
