package review

import (
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"phrasebot/internal/srs"
	"phrasebot/internal/storage"
	"phrasebot/pkg/tgui"
)

// ratingLabels are the button captions for each rating.
var ratingLabels = map[srs.Rating]string{
	srs.StillLearning: "🔁 Still learning",
	srs.Understood:    "✅ Understood",
	srs.Again:         "❌ Again",
	srs.Hard:          "😬 Hard",
	srs.Good:          "🙂 Good",
	srs.Easy:          "🚀 Easy",
}

func ratingLabel(r srs.Rating) string {
	if s, ok := ratingLabels[r]; ok {
		return s
	}
	return r.String()
}

func cardPayload(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ratePayload(id int64, r srs.Rating) string {
	return strconv.FormatInt(id, 10) + ":" + r.String()
}

// frontMessage shows the question side with a reveal button.
func frontMessage(card storage.Card, deck storage.Deck) tgui.Message {
	kb := tgui.NewInline().Row(
		tgui.Btn("👀 Show answer", tgui.Data(callbackScope, "show", cardPayload(card.ID))),
	)
	return tgui.New().
		Title("🃏", deck.Title).
		Blank().
		RawLine(tgui.B(tgui.TruncRunes(card.Front, 3000)).String()).
		Inline(kb).
		Build()
}

// answerMessage shows both sides plus the rating keyboard. Each button is
// labeled with the wait the card would get for that rating.
func (s *Service) answerMessage(card storage.Card, deck storage.Deck, now time.Time) tgui.Message {
	b := tgui.New().
		Title("🃏", deck.Title).
		Blank().
		RawLine(tgui.B(tgui.TruncRunes(card.Front, 1500)).String()).
		Blank().
		RawLine(tgui.I(tgui.TruncRunes(card.Back, 1500)).String()).
		Blank()

	if card.State.Phase == srs.PreReview {
		b.Line("Warm-up round " + strconv.Itoa(card.State.PreReviewCount+1))
	}

	return b.Inline(s.ratingKeyboard(card, deck, now)).Build()
}

// ratingKeyboard offers exactly the ratings valid for the card's phase,
// two per row, each with an interval preview.
func (s *Service) ratingKeyboard(card storage.Card, deck storage.Deck, now time.Time) *tgui.Inline {
	kb := tgui.NewInline()
	ratings := srs.ValidRatings(card.State.Phase)
	for i := 0; i < len(ratings); i += 2 {
		row := ratings[i:min(i+2, len(ratings))]
		btns := make([]tele.Btn, 0, len(row))
		for _, r := range row {
			label := ratingLabel(r)
			if res, err := s.schedule(card, deck, r, now); err == nil {
				label += " · " + srs.FormatInterval(res.State.Due.Sub(now))
			}
			btns = append(btns, tgui.Btn(label, tgui.Data(callbackScope, "rate", ratePayload(card.ID, r))))
		}
		kb.Row(btns...)
	}
	return kb
}

// outcomeMessage summarizes an applied review and offers the next card.
func outcomeMessage(card storage.Card, deck storage.Deck, result srs.Result, now time.Time) tgui.Message {
	b := tgui.New().
		Title("🃏", deck.Title).
		Blank().
		RawLine(tgui.B(tgui.TruncRunes(card.Front, 1500)).String()).
		Blank()

	if result.PhaseTransitioned {
		b.Line("🎓 Graduated to long-term review.")
	}
	b.Line("Next review in " + srs.FormatInterval(result.State.Due.Sub(now)) + ".")

	kb := tgui.NewInline().Row(
		tgui.Btn("▶️ Next card", tgui.Data(callbackScope, "next", strconv.FormatInt(deck.ID, 10))),
	)
	return b.Inline(kb).Build()
}
