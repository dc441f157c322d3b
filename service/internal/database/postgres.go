package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS duels (
	id              UUID PRIMARY KEY,
	challenger_id   TEXT NOT NULL,
	opponent_id     TEXT NOT NULL,
	status          TEXT NOT NULL,
	reason          TEXT NOT NULL DEFAULT '',
	winner_id       TEXT NOT NULL DEFAULT '',
	loser_id        TEXT NOT NULL DEFAULT '',
	idle_id         TEXT NOT NULL DEFAULT '',
	challenger_hand JSONB NOT NULL,
	opponent_hand   JSONB NOT NULL,
	bid_ordinal     INTEGER NOT NULL,
	history         JSONB NOT NULL,
	actual          INTEGER NOT NULL DEFAULT 0,
	started_at      TIMESTAMPTZ NOT NULL,
	ended_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS duels_challenger_idx ON duels (challenger_id);
CREATE INDEX IF NOT EXISTS duels_opponent_idx ON duels (opponent_id);
`

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool for dsn, verifies it and applies the schema.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// SaveOutcome inserts rec. Saving the same duel twice is a no-op.
func (p *Postgres) SaveOutcome(ctx context.Context, rec DuelRecord) error {
	e, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO duels (id, challenger_id, opponent_id, status, reason, winner_id, loser_id, idle_id,
			challenger_hand, opponent_hand, bid_ordinal, history, actual, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.ChallengerID, rec.OpponentID, rec.Status, rec.Reason, rec.WinnerID, rec.LoserID, rec.IdleID,
		e.challengerHand, e.opponentHand, rec.BidOrdinal, e.history, rec.Actual, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert duel %s: %w", rec.ID, err)
	}
	return nil
}

// Duel loads one archived duel.
func (p *Postgres) Duel(ctx context.Context, id uuid.UUID) (DuelRecord, error) {
	rec := DuelRecord{ID: id}
	var e encoded
	err := p.pool.QueryRow(ctx, `
		SELECT challenger_id, opponent_id, status, reason, winner_id, loser_id, idle_id,
			challenger_hand::text, opponent_hand::text, bid_ordinal, history::text, actual, started_at, ended_at
		FROM duels WHERE id = $1`, id,
	).Scan(&rec.ChallengerID, &rec.OpponentID, &rec.Status, &rec.Reason, &rec.WinnerID, &rec.LoserID, &rec.IdleID,
		&e.challengerHand, &e.opponentHand, &rec.BidOrdinal, &e.history, &rec.Actual, &rec.StartedAt, &rec.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DuelRecord{}, ErrNotFound
	}
	if err != nil {
		return DuelRecord{}, fmt.Errorf("load duel %s: %w", id, err)
	}
	return rec, rec.decode(e)
}

// Stats returns playerID's record across every archived duel.
func (p *Postgres) Stats(ctx context.Context, playerID string) (models.PlayerStats, error) {
	s := models.PlayerStats{PlayerID: playerID}
	err := p.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE winner_id = $1),
			COUNT(*) FILTER (WHERE loser_id = $1),
			COUNT(*) FILTER (WHERE status = 'aborted')
		FROM duels WHERE challenger_id = $1 OR opponent_id = $1`, playerID,
	).Scan(&s.Wins, &s.Losses, &s.Aborted)
	if err != nil {
		return s, fmt.Errorf("stats for %s: %w", playerID, err)
	}
	return s, nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
