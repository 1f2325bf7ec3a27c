package storage

import (
	"context"
	"errors"
	"time"

	"phrasebot/internal/srs"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrCardNotFound = errors.New("card not found")
)

// Config configures the SQLite store.
type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

type Deck struct {
	ID    int64
	Title string
	// InitialReviewCount overrides the global warm-up budget for this deck.
	// 0 means "use the configured default".
	InitialReviewCount int
	CreatedAt          time.Time
}

type Card struct {
	ID     int64
	DeckID int64
	Front  string
	Back   string

	State srs.CardState

	Hidden    bool
	Mastered  bool
	CreatedAt time.Time
	// ReviewedAt is zero until the card has been reviewed at least once.
	ReviewedAt time.Time
}

// ReviewEntry is one row of the review history.
type ReviewEntry struct {
	CardID       int64
	Rating       srs.Rating
	Phase        srs.Phase
	ReviewedAt   time.Time
	Due          time.Time
	Transitioned bool
}

// DeckStats summarizes a deck for the /decks and /due views.
type DeckStats struct {
	DeckID    int64
	Total     int
	Due       int
	PreReview int
	Mastered  int
}

// Store is the persistence API used by the review and notifier services.
type Store interface {
	CreateDeck(ctx context.Context, title string, initialReviewCount int) (Deck, error)
	GetDeck(ctx context.Context, id int64) (Deck, error)
	ListDecks(ctx context.Context) ([]Deck, error)
	// DeleteDeck removes the deck, its cards and their review history.
	DeleteDeck(ctx context.Context, id int64) error

	CreateCard(ctx context.Context, deckID int64, front, back string, state srs.CardState) (Card, error)
	GetCard(ctx context.Context, id int64) (Card, error)
	ListCards(ctx context.Context, deckID int64) ([]Card, error)
	SetCardHidden(ctx context.Context, id int64, hidden bool) error
	SetCardMastered(ctx context.Context, id int64, mastered bool) error

	// DueCard returns the visible, unmastered card with the earliest due
	// instant <= now in the deck (deckID 0 searches all decks).
	// Returns ErrCardNotFound when nothing is due.
	DueCard(ctx context.Context, deckID int64, now time.Time) (Card, error)
	DueCounts(ctx context.Context, now time.Time) ([]DeckStats, error)

	// ApplyReview loads the card, calls apply to compute the next scheduling
	// state, then persists state and history in the same transaction. The
	// returned card carries the updated state.
	ApplyReview(ctx context.Context, id int64, rating srs.Rating, now time.Time, apply func(Card) (srs.Result, error)) (Card, srs.Result, error)
	RecentReviews(ctx context.Context, cardID int64, limit int) ([]ReviewEntry, error)

	Close() error
}
