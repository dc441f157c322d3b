// Package database archives finished duels and answers record queries.
//
// Postgres (pgx) is the production store; SQLite (modernc) serves local runs
// and tests. Both implement Store with the same schema.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a duel is not in the archive.
var ErrNotFound = errors.New("duel not found")

// DuelRecord is one archived duel. Hands are kept for audit; they are never
// served publicly for aborted duels.
type DuelRecord struct {
	ID             uuid.UUID
	ChallengerID   string
	OpponentID     string
	Status         string // "resolved" or "aborted"
	Reason         string // abort reason, empty when resolved
	WinnerID       string
	LoserID        string
	IdleID         string
	ChallengerHand []int
	OpponentHand   []int
	BidOrdinal     int // -1 when no bid was placed
	History        []int
	Actual         int
	StartedAt      time.Time
	EndedAt        time.Time
}

// Store is the archive used by the duel service and the stats command.
type Store interface {
	SaveOutcome(ctx context.Context, rec DuelRecord) error
	Duel(ctx context.Context, id uuid.UUID) (DuelRecord, error)
	Stats(ctx context.Context, playerID string) (models.PlayerStats, error)
	Close() error
}

// encoded holds the JSON columns of a record.
type encoded struct {
	challengerHand string
	opponentHand   string
	history        string
}

func encodeRecord(rec DuelRecord) (encoded, error) {
	var e encoded
	for _, f := range []struct {
		dst *string
		src []int
	}{
		{&e.challengerHand, rec.ChallengerHand},
		{&e.opponentHand, rec.OpponentHand},
		{&e.history, rec.History},
	} {
		if f.src == nil {
			f.src = []int{}
		}
		b, err := json.Marshal(f.src)
		if err != nil {
			return encoded{}, fmt.Errorf("encode duel %s: %w", rec.ID, err)
		}
		*f.dst = string(b)
	}
	return e, nil
}

func decodeInts(s string) ([]int, error) {
	var out []int
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	return out, nil
}

func (rec *DuelRecord) decode(e encoded) error {
	var err error
	if rec.ChallengerHand, err = decodeInts(e.challengerHand); err != nil {
		return err
	}
	if rec.OpponentHand, err = decodeInts(e.opponentHand); err != nil {
		return err
	}
	rec.History, err = decodeInts(e.history)
	return err
}
