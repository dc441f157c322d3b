package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS duels (
	id              TEXT PRIMARY KEY,
	challenger_id   TEXT NOT NULL,
	opponent_id     TEXT NOT NULL,
	status          TEXT NOT NULL,
	reason          TEXT NOT NULL DEFAULT '',
	winner_id       TEXT NOT NULL DEFAULT '',
	loser_id        TEXT NOT NULL DEFAULT '',
	idle_id         TEXT NOT NULL DEFAULT '',
	challenger_hand TEXT NOT NULL,
	opponent_hand   TEXT NOT NULL,
	bid_ordinal     INTEGER NOT NULL,
	history         TEXT NOT NULL,
	actual          INTEGER NOT NULL DEFAULT 0,
	started_at      DATETIME NOT NULL,
	ended_at        DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS duels_challenger_idx ON duels (challenger_id);
CREATE INDEX IF NOT EXISTS duels_opponent_idx ON duels (opponent_id);
`

// SQLite is the modernc-backed Store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway archive.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Each connection to :memory: is a separate database; writes serialize anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveOutcome inserts rec. Saving the same duel twice is a no-op.
func (s *SQLite) SaveOutcome(ctx context.Context, rec DuelRecord) error {
	e, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO duels (id, challenger_id, opponent_id, status, reason, winner_id, loser_id, idle_id,
			challenger_hand, opponent_hand, bid_ordinal, history, actual, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID.String(), rec.ChallengerID, rec.OpponentID, rec.Status, rec.Reason, rec.WinnerID, rec.LoserID, rec.IdleID,
		e.challengerHand, e.opponentHand, rec.BidOrdinal, e.history, rec.Actual, rec.StartedAt.UTC(), rec.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert duel %s: %w", rec.ID, err)
	}
	return nil
}

// Duel loads one archived duel.
func (s *SQLite) Duel(ctx context.Context, id uuid.UUID) (DuelRecord, error) {
	rec := DuelRecord{ID: id}
	var e encoded
	err := s.db.QueryRowContext(ctx, `
		SELECT challenger_id, opponent_id, status, reason, winner_id, loser_id, idle_id,
			challenger_hand, opponent_hand, bid_ordinal, history, actual, started_at, ended_at
		FROM duels WHERE id = ?`, id.String(),
	).Scan(&rec.ChallengerID, &rec.OpponentID, &rec.Status, &rec.Reason, &rec.WinnerID, &rec.LoserID, &rec.IdleID,
		&e.challengerHand, &e.opponentHand, &rec.BidOrdinal, &e.history, &rec.Actual, &rec.StartedAt, &rec.EndedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DuelRecord{}, ErrNotFound
	}
	if err != nil {
		return DuelRecord{}, fmt.Errorf("load duel %s: %w", id, err)
	}
	return rec, rec.decode(e)
}

// Stats returns playerID's record across every archived duel.
func (s *SQLite) Stats(ctx context.Context, playerID string) (models.PlayerStats, error) {
	st := models.PlayerStats{PlayerID: playerID}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN winner_id = ?1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN loser_id = ?1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'aborted' THEN 1 ELSE 0 END), 0)
		FROM duels WHERE challenger_id = ?1 OR opponent_id = ?1`, playerID,
	).Scan(&st.Wins, &st.Losses, &st.Aborted)
	if err != nil {
		return st, fmt.Errorf("stats for %s: %w", playerID, err)
	}
	return st, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }
