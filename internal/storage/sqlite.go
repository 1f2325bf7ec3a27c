package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"phrasebot/internal/srs"
	logx "phrasebot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

// Open initializes the SQLite store, creating the file and schema as needed.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage path is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA foreign_keys = ON")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) CreateDeck(ctx context.Context, title string, initialReviewCount int) (Deck, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Deck{}, errors.New("deck title is required")
	}
	if initialReviewCount != 0 {
		if err := srs.ValidateInitialReviewCount(initialReviewCount); err != nil {
			return Deck{}, err
		}
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO decks(title, initial_review_count, created_at) VALUES(?,?,?)`,
		title, initialReviewCount, now.UnixMilli(),
	)
	if err != nil {
		return Deck{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Deck{}, err
	}
	return Deck{ID: id, Title: title, InitialReviewCount: initialReviewCount, CreatedAt: now}, nil
}

func (s *sqliteStore) GetDeck(ctx context.Context, id int64) (Deck, error) {
	var (
		d  Deck
		ms int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, initial_review_count, created_at FROM decks WHERE id = ?`, id,
	).Scan(&d.ID, &d.Title, &d.InitialReviewCount, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Deck{}, ErrDeckNotFound
	}
	if err != nil {
		return Deck{}, err
	}
	d.CreatedAt = time.UnixMilli(ms)
	return d, nil
}

func (s *sqliteStore) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, initial_review_count, created_at FROM decks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deck
	for rows.Next() {
		var (
			d  Deck
			ms int64
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.InitialReviewCount, &ms); err != nil {
			return nil, err
		}
		d.CreatedAt = time.UnixMilli(ms)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteDeck(ctx context.Context, id int64) error {
	// cards and review_log rows follow via ON DELETE CASCADE
	res, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeckNotFound
	}
	return nil
}

const cardColumns = `id, deck_id, front, back, phase, pre_review_count, due, memory, hidden, mastered, created_at, reviewed_at`

func scanCard(row interface{ Scan(...any) error }) (Card, error) {
	var (
		c          Card
		phase      int
		dueMS      int64
		memory     sql.NullString
		createdMS  int64
		reviewedMS sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back,
		&phase, &c.State.PreReviewCount, &dueMS, &memory,
		&c.Hidden, &c.Mastered, &createdMS, &reviewedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrCardNotFound
	}
	if err != nil {
		return Card{}, err
	}
	c.State.Phase = srs.Phase(phase)
	c.State.Due = time.UnixMilli(dueMS)
	if memory.Valid && memory.String != "" {
		m, err := srs.DecodeMemory([]byte(memory.String))
		if err != nil {
			return Card{}, fmt.Errorf("card %d: decode memory state: %w", c.ID, err)
		}
		c.State.Memory = m
	}
	c.CreatedAt = time.UnixMilli(createdMS)
	if reviewedMS.Valid {
		c.ReviewedAt = time.UnixMilli(reviewedMS.Int64)
	}
	return c, nil
}

func encodeMemory(state srs.CardState) (any, error) {
	if state.Memory == nil {
		return nil, nil
	}
	b, err := srs.EncodeMemory(state.Memory)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *sqliteStore) CreateCard(ctx context.Context, deckID int64, front, back string, state srs.CardState) (Card, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" {
		return Card{}, errors.New("card front and back are required")
	}
	if _, err := s.GetDeck(ctx, deckID); err != nil {
		return Card{}, err
	}
	mem, err := encodeMemory(state)
	if err != nil {
		return Card{}, err
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cards(deck_id, front, back, phase, pre_review_count, due, memory, hidden, mastered, created_at)
		 VALUES(?,?,?,?,?,?,?,0,0,?)`,
		deckID, front, back, int(state.Phase), state.PreReviewCount, state.Due.UnixMilli(), mem, now.UnixMilli(),
	)
	if err != nil {
		return Card{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Card{}, err
	}
	return Card{ID: id, DeckID: deckID, Front: front, Back: back, State: state, CreatedAt: now}, nil
}

func (s *sqliteStore) GetCard(ctx context.Context, id int64) (Card, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

func (s *sqliteStore) ListCards(ctx context.Context, deckID int64) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = ? ORDER BY id`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetCardHidden(ctx context.Context, id int64, hidden bool) error {
	return s.setCardFlag(ctx, id, "hidden", hidden)
}

func (s *sqliteStore) SetCardMastered(ctx context.Context, id int64, mastered bool) error {
	return s.setCardFlag(ctx, id, "mastered", mastered)
}

func (s *sqliteStore) setCardFlag(ctx context.Context, id int64, col string, v bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE cards SET `+col+` = ? WHERE id = ?`, v, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (s *sqliteStore) DueCard(ctx context.Context, deckID int64, now time.Time) (Card, error) {
	q := `SELECT ` + cardColumns + ` FROM cards
	      WHERE hidden = 0 AND mastered = 0 AND due <= ?`
	args := []any{now.UnixMilli()}
	if deckID != 0 {
		q += ` AND deck_id = ?`
		args = append(args, deckID)
	}
	q += ` ORDER BY due, id LIMIT 1`
	return scanCard(s.db.QueryRowContext(ctx, q, args...))
}

func (s *sqliteStore) DueCounts(ctx context.Context, now time.Time) ([]DeckStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id,
		       COUNT(c.id),
		       COALESCE(SUM(c.hidden = 0 AND c.mastered = 0 AND c.due <= ?), 0),
		       COALESCE(SUM(c.phase = ?), 0),
		       COALESCE(SUM(c.mastered), 0)
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.id`,
		now.UnixMilli(), int(srs.PreReview))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeckStats
	for rows.Next() {
		var st DeckStats
		if err := rows.Scan(&st.DeckID, &st.Total, &st.Due, &st.PreReview, &st.Mastered); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ApplyReview(ctx context.Context, id int64, rating srs.Rating, now time.Time, apply func(Card) (srs.Result, error)) (Card, srs.Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Card{}, srs.Result{}, err
	}
	defer func() { _ = tx.Rollback() }()

	card, err := scanCard(tx.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if err != nil {
		return Card{}, srs.Result{}, err
	}

	result, err := apply(card)
	if err != nil {
		return Card{}, srs.Result{}, err
	}
	next := result.State

	mem, err := encodeMemory(next)
	if err != nil {
		return Card{}, srs.Result{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET phase = ?, pre_review_count = ?, due = ?, memory = ?, reviewed_at = ? WHERE id = ?`,
		int(next.Phase), next.PreReviewCount, next.Due.UnixMilli(), mem, now.UnixMilli(), id,
	); err != nil {
		return Card{}, srs.Result{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO review_log(card_id, rating, phase, reviewed_at, due, transitioned)
		 VALUES(?,?,?,?,?,?)`,
		id, int(rating), int(card.State.Phase), now.UnixMilli(), next.Due.UnixMilli(), result.PhaseTransitioned,
	); err != nil {
		return Card{}, srs.Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Card{}, srs.Result{}, err
	}

	card.State = next
	card.ReviewedAt = now
	return card, result, nil
}

func (s *sqliteStore) RecentReviews(ctx context.Context, cardID int64, limit int) ([]ReviewEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_id, rating, phase, reviewed_at, due, transitioned
		FROM review_log WHERE card_id = ?
		ORDER BY reviewed_at DESC, id DESC LIMIT ?`, cardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewEntry
	for rows.Next() {
		var (
			e          ReviewEntry
			rating     int
			phase      int
			reviewedMS int64
			dueMS      int64
		)
		if err := rows.Scan(&e.CardID, &rating, &phase, &reviewedMS, &dueMS, &e.Transitioned); err != nil {
			return nil, err
		}
		e.Rating = srs.Rating(rating)
		e.Phase = srs.Phase(phase)
		e.ReviewedAt = time.UnixMilli(reviewedMS)
		e.Due = time.UnixMilli(dueMS)
		out = append(out, e)
	}
	return out, rows.Err()
}
