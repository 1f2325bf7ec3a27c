package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	"phrasebot/internal/transport/telegram/router"
	logx "phrasebot/pkg/logx"
	"phrasebot/pkg/tgui"
)

const cardsPageSize = 8

func (s *Service) handleCards(ctx context.Context, req *router.Request) error {
	const usage = "usage: /cards <deck_id> [page]"
	if len(req.Args) < 1 {
		return s.sendText(ctx, req, usage)
	}
	deckID, err := strconv.ParseInt(req.Args[0], 10, 64)
	if err != nil {
		return s.sendText(ctx, req, usage)
	}
	page := 0
	if len(req.Args) > 1 {
		p, err := strconv.Atoi(req.Args[1])
		if err != nil || p < 1 {
			return s.sendText(ctx, req, usage)
		}
		page = p - 1
	}

	msg, err := s.cardsPage(ctx, deckID, page)
	if errors.Is(err, storage.ErrDeckNotFound) {
		return s.sendText(ctx, req, fmt.Sprintf("deck %d not found; see /decks", deckID))
	}
	if err != nil {
		return err
	}
	_, err = msg.Send(ctx, req.Adapter, req.Chat)
	return err
}

// cbPage re-renders the card list at another page, in place.
func (s *Service) cbPage(ctx context.Context, req *router.Request, payload string) error {
	deckRaw, pageRaw, ok := strings.Cut(payload, ":")
	if !ok {
		return fmt.Errorf("bad callback payload %q", payload)
	}
	deckID, err := strconv.ParseInt(deckRaw, 10, 64)
	if err != nil {
		return fmt.Errorf("bad callback payload %q: %w", payload, err)
	}
	page, err := strconv.Atoi(pageRaw)
	if err != nil {
		return fmt.Errorf("bad callback payload %q: %w", payload, err)
	}

	msg, err := s.cardsPage(ctx, deckID, page)
	if err != nil {
		return err
	}
	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	return msg.Edit(ctx, req.Adapter, ref, req.Chat)
}

func (s *Service) cardsPage(ctx context.Context, deckID int64, page int) (tgui.Message, error) {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return tgui.Message{}, err
	}
	cards, err := s.store.ListCards(ctx, deckID)
	if err != nil {
		return tgui.Message{}, err
	}

	b := tgui.New().Title("🗂", deck.Title)
	if len(cards) == 0 {
		b.Line("No cards yet. Add one with /add.")
		return b.Build(), nil
	}

	sub, page, _, _, _, hasPrev, hasNext := tgui.PaginateSlice(cards, page, cardsPageSize)
	now := s.now()
	for _, c := range sub {
		b.Line(fmt.Sprintf("#%d %s · %s", c.ID, tgui.TruncRunes(c.Front, 40), cardStatus(c, now)))
	}
	b.Blank()
	b.Line(tgui.PageLabel(page, cardsPageSize, len(cards)))

	if hasPrev || hasNext {
		var btns []tele.Btn
		if hasPrev {
			btns = append(btns, tgui.Btn("⬅️ Prev", tgui.Data(callbackScope, "page", pagePayload(deckID, page-1))))
		}
		if hasNext {
			btns = append(btns, tgui.Btn("Next ➡️", tgui.Data(callbackScope, "page", pagePayload(deckID, page+1))))
		}
		b.Inline(tgui.NewInline().Row(btns...))
	}
	return b.Build(), nil
}

func pagePayload(deckID int64, page int) string {
	return strconv.FormatInt(deckID, 10) + ":" + strconv.Itoa(page)
}

func cardStatus(c storage.Card, now time.Time) string {
	switch {
	case c.Mastered:
		return "mastered"
	case c.Hidden:
		return "hidden"
	case !c.State.Due.After(now):
		return "due"
	default:
		return "due in " + srs.FormatInterval(c.State.Due.Sub(now))
	}
}

// handleDeckDelete asks for confirmation before dropping a deck. The confirm
// button carries a one-shot token so a stale keyboard cannot replay the
// deletion later.
func (s *Service) handleDeckDelete(ctx context.Context, req *router.Request) error {
	const usage = "usage: /deck delete <deck_id>"
	if len(req.Args) != 1 {
		return s.sendText(ctx, req, usage)
	}
	deckID, err := strconv.ParseInt(req.Args[0], 10, 64)
	if err != nil {
		return s.sendText(ctx, req, usage)
	}
	deck, err := s.store.GetDeck(ctx, deckID)
	if errors.Is(err, storage.ErrDeckNotFound) {
		return s.sendText(ctx, req, fmt.Sprintf("deck %d not found; see /decks", deckID))
	}
	if err != nil {
		return err
	}
	cards, err := s.store.ListCards(ctx, deckID)
	if err != nil {
		return err
	}

	tok := s.tokens.PutString(strconv.FormatInt(deckID, 10))
	kb := tgui.ConfirmInline(
		tgui.Btn("🗑 Delete", tgui.Data(callbackScope, "deckdel", tok)),
		tgui.Btn("Cancel", tgui.Data(callbackScope, "cancel", "")),
	)
	msg := tgui.New().
		Title("⚠️", "Delete deck?").
		Blank().
		Line(fmt.Sprintf("#%d %s with %d card(s) and all review history.", deck.ID, deck.Title, len(cards))).
		Line("This cannot be undone.").
		Inline(kb).
		Build()
	_, err = msg.Send(ctx, req.Adapter, req.Chat)
	return err
}

func (s *Service) cbDeckDelete(ctx context.Context, req *router.Request, payload string) error {
	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	raw, found := s.tokens.GetString(payload)
	if !found {
		return req.Adapter.EditText(ctx, ref, "Confirmation expired. Run /deck delete again.", nil)
	}
	deckID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("bad confirm token payload %q: %w", raw, err)
	}

	err = s.store.DeleteDeck(ctx, deckID)
	if errors.Is(err, storage.ErrDeckNotFound) {
		return req.Adapter.EditText(ctx, ref, fmt.Sprintf("Deck %d is already gone.", deckID), nil)
	}
	if err != nil {
		return err
	}
	s.log.Info("deck deleted",
		logx.Int64("deck_id", deckID),
		logx.Int64("from_id", req.FromID),
	)
	return req.Adapter.EditText(ctx, ref, fmt.Sprintf("Deck #%d deleted.", deckID), nil)
}

func (s *Service) cbCancel(ctx context.Context, req *router.Request, _ string) error {
	ref, ok := callbackRef(req)
	if !ok {
		return nil
	}
	return req.Adapter.EditText(ctx, ref, "Cancelled.", nil)
}
