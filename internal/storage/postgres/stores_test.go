package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/craps/internal/game/command"
	"github.com/cory-johannsen/craps/internal/game/craps"
	"github.com/cory-johannsen/craps/internal/game/dice"
	"github.com/cory-johannsen/craps/internal/game/session"
	"github.com/cory-johannsen/craps/internal/storage/postgres"
	"github.com/cory-johannsen/craps/internal/testutil"
)

func uniqueSession(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestRunStoreCreateAndGet(t *testing.T) {
	pool := testutil.NewPool(t)
	store := postgres.NewRunStore(pool)
	ctx := context.Background()

	sessionID := uniqueSession("run")
	run, err := store.Create(ctx, sessionID, 42, "iron_cross", 1000)
	require.NoError(t, err)
	assert.Greater(t, run.ID, int64(0))
	assert.Equal(t, sessionID, run.SessionID)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, "iron_cross", run.Strategy)
	assert.Equal(t, 1000.0, run.BankrollStart)
	assert.Nil(t, run.FinishedAt)

	got, err := store.GetBySessionID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = store.Create(ctx, sessionID, 42, "", 1000)
	assert.ErrorIs(t, err, postgres.ErrRunExists)

	_, err = store.GetBySessionID(ctx, "missing")
	assert.ErrorIs(t, err, postgres.ErrRunNotFound)
}

func TestRunStoreFinish(t *testing.T) {
	pool := testutil.NewPool(t)
	store := postgres.NewRunStore(pool)
	ctx := context.Background()

	run, err := store.Create(ctx, uniqueSession("run"), 7, "", 500)
	require.NoError(t, err)

	err = store.Finish(ctx, run.ID, session.RunSummary{
		Hands:    3,
		Rolls:    40,
		Bankroll: 612.50,
	})
	require.NoError(t, err)

	got, err := store.GetBySessionID(ctx, run.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.BankrollEnd)
	assert.Equal(t, 612.50, *got.BankrollEnd)
	require.NotNil(t, got.Hands)
	assert.Equal(t, 3, *got.Hands)
	require.NotNil(t, got.Rolls)
	assert.Equal(t, 40, *got.Rolls)
	assert.NotNil(t, got.FinishedAt)

	assert.ErrorIs(t, store.Finish(ctx, run.ID+9999, session.RunSummary{}), postgres.ErrRunNotFound)
}

func TestRunStoreList(t *testing.T) {
	pool := testutil.NewPool(t)
	store := postgres.NewRunStore(pool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, uniqueSession("list"), int64(i), "", 100)
		require.NoError(t, err)
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestEventStoreRoundTrip(t *testing.T) {
	pool := testutil.NewPool(t)
	runs := postgres.NewRunStore(pool)
	events := postgres.NewEventStore(pool)
	ctx := context.Background()

	run, err := runs.Create(ctx, uniqueSession("ev"), 1, "", 100)
	require.NoError(t, err)

	e := session.Event{
		ID:             "abcdef012345",
		Type:           session.EventRollCompleted,
		HandID:         1,
		RollSeq:        2,
		At:             time.Unix(100, 0).UTC(),
		BankrollBefore: 95,
		BankrollAfter:  110,
		Fields:         map[string]any{"dice": []any{3.0, 4.0}},
	}
	require.NoError(t, events.Insert(ctx, run.ID, e))
	// Replaying the same event is a no-op.
	require.NoError(t, events.Insert(ctx, run.ID, e))

	got, err := events.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, session.EventRollCompleted, got[0].Type)
	assert.Equal(t, 1, got[0].HandID)
	assert.Equal(t, 2, got[0].RollSeq)
	assert.True(t, e.At.Equal(got[0].At))
	assert.Equal(t, 95.0, got[0].BankrollBefore)
	assert.Equal(t, 110.0, got[0].BankrollAfter)
	assert.Contains(t, got[0].Fields, "dice")
}

func TestSnapshotStoreLatest(t *testing.T) {
	pool := testutil.NewPool(t)
	runs := postgres.NewRunStore(pool)
	snaps := postgres.NewSnapshotStore(pool)
	ctx := context.Background()

	run, err := runs.Create(ctx, uniqueSession("snap"), 1, "", 100)
	require.NoError(t, err)

	_, err = snaps.Latest(ctx, run.ID)
	assert.ErrorIs(t, err, postgres.ErrSnapshotNotFound)

	for seq := 1; seq <= 3; seq++ {
		snap := session.Snapshot{
			SessionID:     run.SessionID,
			HandID:        1,
			RollSeq:       seq,
			Puck:          "OFF",
			BankrollAfter: fmt.Sprintf("%d.00", 100+seq),
			Bets:          []session.BetView{},
		}
		require.NoError(t, snaps.Insert(ctx, run.ID, snap))
	}

	latest, err := snaps.Latest(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.RollSeq)
	assert.Equal(t, "103.00", latest.BankrollAfter)

	n, err := snaps.CountByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecorderPersistsLiveSession(t *testing.T) {
	pool := testutil.NewPool(t)
	runs := postgres.NewRunStore(pool)
	events := postgres.NewEventStore(pool)
	snaps := postgres.NewSnapshotStore(pool)
	ctx := context.Background()

	settings := craps.DefaultSettings()
	settings.AllowFixedDice = true
	table := craps.NewTable(dice.NewSeeded(3), settings, nil)
	player := craps.NewPlayer("rec", 200, 5)
	table.AddPlayer(player)

	sessionID := uniqueSession("live")
	run, err := runs.Create(ctx, sessionID, 3, "", 200)
	require.NoError(t, err)
	rec := postgres.NewRecorder(ctx, run.ID, events, snaps)

	sess := session.New(table, player,
		session.WithID(sessionID),
		session.WithRecorder(rec),
	)
	_, err = sess.Apply(&command.Envelope{Verb: "pass_line", Args: map[string]any{"amount": 10.0}})
	require.NoError(t, err)
	_, err = sess.Apply(&command.Envelope{Verb: "inject_roll", Args: map[string]any{"d1": 2, "d2": 2}})
	require.NoError(t, err)

	stored, err := events.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	latest, err := snaps.Latest(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "ON", latest.Puck)
}
