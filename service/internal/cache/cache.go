// Package cache keeps the per-duel action history in Redis.
package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultHistoryTTL is how long a duel's action list is kept after its last write.
const DefaultHistoryTTL = 24 * time.Hour

// GameActionRecord is one entry in a duel's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   string                 `json:"actorUserId,omitempty"` // empty for round-level events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Historian appends action records to a Redis list per duel.
type Historian struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewHistorian returns a Historian writing through rdb.
func NewHistorian(rdb redis.Cmdable) *Historian {
	return &Historian{rdb: rdb, ttl: DefaultHistoryTTL}
}

// HistoryKey is the list key holding gameID's actions.
func HistoryKey(gameID uuid.UUID) string {
	return "duel:" + gameID.String() + ":actions"
}

// PublishGameAction appends rec to its duel's history and refreshes the expiry.
func (h *Historian) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action %d: %w", rec.ActionIndex, err)
	}
	key := HistoryKey(rec.GameID)
	_, err = h.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, b)
		pipe.Expire(ctx, key, h.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push action %d for %s: %w", rec.ActionIndex, rec.GameID, err)
	}
	return nil
}

// GameActions returns gameID's recorded actions ordered by ActionIndex.
// Records are published concurrently, so list order alone is not reliable.
func (h *Historian) GameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	raw, err := h.rdb.LRange(ctx, HistoryKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read actions for %s: %w", gameID, err)
	}
	out := make([]GameActionRecord, 0, len(raw))
	for _, s := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode action for %s: %w", gameID, err)
		}
		out = append(out, rec)
	}
	sortByIndex(out)
	return out, nil
}

func sortByIndex(recs []GameActionRecord) {
	slices.SortFunc(recs, func(a, b GameActionRecord) int {
		return cmp.Compare(a.ActionIndex, b.ActionIndex)
	})
}
