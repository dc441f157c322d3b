package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func resolvedRecord(winner, loser string) DuelRecord {
	start := time.Now().Add(-time.Minute).Truncate(time.Second)
	return DuelRecord{
		ID:             uuid.New(),
		ChallengerID:   winner,
		OpponentID:     loser,
		Status:         "resolved",
		WinnerID:       winner,
		LoserID:        loser,
		ChallengerHand: []int{1, 2, 3, 4},
		OpponentHand:   []int{1, 1, 2, 3},
		BidOrdinal:     6,
		History:        []int{0, 6},
		Actual:         2,
		StartedAt:      start,
		EndedAt:        start.Add(30 * time.Second),
	}
}

func abortedRecord(challenger, opponent, idle string) DuelRecord {
	now := time.Now().Truncate(time.Second)
	return DuelRecord{
		ID:             uuid.New(),
		ChallengerID:   challenger,
		OpponentID:     opponent,
		Status:         "aborted",
		Reason:         "timeout",
		IdleID:         idle,
		ChallengerHand: []int{2, 2, 3, 4},
		OpponentHand:   []int{1, 3, 3, 4},
		BidOrdinal:     -1,
		StartedAt:      now,
		EndedAt:        now,
	}
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	rec := resolvedRecord("alice", "bob")
	require.NoError(t, db.SaveOutcome(ctx, rec))

	got, err := db.Duel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ChallengerID, got.ChallengerID)
	assert.Equal(t, rec.WinnerID, got.WinnerID)
	assert.Equal(t, rec.ChallengerHand, got.ChallengerHand)
	assert.Equal(t, rec.OpponentHand, got.OpponentHand)
	assert.Equal(t, rec.History, got.History)
	assert.Equal(t, 6, got.BidOrdinal)
	assert.Equal(t, 2, got.Actual)
	assert.WithinDuration(t, rec.EndedAt, got.EndedAt, time.Second)
}

func TestSQLiteSaveTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	rec := resolvedRecord("alice", "bob")
	require.NoError(t, db.SaveOutcome(ctx, rec))
	require.NoError(t, db.SaveOutcome(ctx, rec))

	st, err := db.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Wins)
}

func TestSQLiteDuelNotFound(t *testing.T) {
	db := openTestSQLite(t)
	_, err := db.Duel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteEmptyHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	rec := abortedRecord("alice", "bob", "alice")
	require.NoError(t, db.SaveOutcome(ctx, rec))
	got, err := db.Duel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
	assert.Equal(t, "timeout", got.Reason)
	assert.Equal(t, "alice", got.IdleID)
	assert.Equal(t, -1, got.BidOrdinal)
}

func TestSQLiteStats(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	for _, rec := range []DuelRecord{
		resolvedRecord("alice", "bob"),
		resolvedRecord("alice", "carol"),
		resolvedRecord("bob", "alice"),
		abortedRecord("alice", "bob", "bob"),
		abortedRecord("carol", "dave", "dave"),
	} {
		require.NoError(t, db.SaveOutcome(ctx, rec))
	}

	st, err := db.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", st.PlayerID)
	assert.Equal(t, 2, st.Wins)
	assert.Equal(t, 1, st.Losses)
	assert.Equal(t, 1, st.Aborted)
	assert.Equal(t, 3, st.Played())

	st, err = db.Stats(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, st.Wins+st.Losses+st.Aborted)
}

// TestPostgres runs against a live server when GAMERBOT_TEST_DATABASE_URL is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("GAMERBOT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GAMERBOT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	winner := "pg-" + uuid.NewString()
	rec := resolvedRecord(winner, "pg-loser-"+uuid.NewString())
	require.NoError(t, db.SaveOutcome(ctx, rec))
	require.NoError(t, db.SaveOutcome(ctx, rec))

	got, err := db.Duel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.History, got.History)
	assert.Equal(t, rec.ChallengerHand, got.ChallengerHand)

	st, err := db.Stats(ctx, winner)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Wins)

	_, err = db.Duel(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
