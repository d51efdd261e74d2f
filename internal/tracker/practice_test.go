package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/lox/darts/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func throw(t *testing.T, tr *Tracker, hits ...bool) DartResult {
	t.Helper()
	var res DartResult
	for _, h := range hits {
		var err error
		res, err = tr.RegisterDart(context.Background(), h)
		require.NoError(t, err)
	}
	return res
}

func TestRegisterDartWithoutRound(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	res, err := tr.RegisterDart(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestStartAroundTheClockValidation(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	assert.ErrorIs(t, tr.StartAroundTheClock(nil, 20), game.ErrInvalidPlayers)
	assert.ErrorIs(t, tr.StartAroundTheClock([]string{"a", "a"}, 20), game.ErrInvalidPlayers)

	require.NoError(t, tr.StartAroundTheClock([]string{"a"}, 0))
	snap, ok := tr.Practice()
	require.True(t, ok)
	assert.Equal(t, game.DefaultMaxTarget, snap.MaxTarget)
	assert.Equal(t, 1, snap.States["a"].CurrentTarget)
}

func TestTurnPassesAfterThreeDarts(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{"alice", "bob"}, 20))

	res := throw(t, tr, true, false)
	assert.Equal(t, "alice", res.PlayerID)
	assert.Equal(t, "alice", res.NextPlayerID)

	res = throw(t, tr, true)
	assert.Equal(t, "alice", res.PlayerID)
	assert.Equal(t, 2, res.Target)
	assert.Equal(t, "bob", res.NextPlayerID)

	res = throw(t, tr, true)
	assert.Equal(t, "bob", res.PlayerID)
	assert.Equal(t, 1, res.Target)

	snap, _ := tr.Practice()
	assert.Equal(t, 3, snap.States["alice"].CurrentTarget)
	assert.Equal(t, 2, snap.States["bob"].CurrentTarget)
	assert.Equal(t, "bob", snap.CurrentPlayerID())
	assert.Equal(t, 1, snap.DartInTurn)
}

func TestDartsPerTurnOption(t *testing.T) {
	tr, _, _ := newTestTracker(t, WithDartsPerTurn(1))
	require.NoError(t, tr.StartAroundTheClock([]string{"alice", "bob"}, 20))

	assert.Equal(t, "bob", throw(t, tr, false).NextPlayerID)
	assert.Equal(t, "alice", throw(t, tr, false).NextPlayerID)
}

func TestFirstToFinishWins(t *testing.T) {
	ctx := context.Background()
	tr, store, clock := newTestTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{"alice", "bob"}, 5))

	// alice hits everything, bob misses everything.
	throw(t, tr, true, true, true)
	throw(t, tr, false, false, false)
	clock.Advance(90 * time.Second)
	res := throw(t, tr, true, true)

	require.True(t, res.Finished)
	assert.Equal(t, "alice", res.PlayerID)
	assert.Equal(t, "alice", res.Session.WinnerPlayerID)
	assert.Equal(t, 8, res.Session.DartsThrown)
	assert.Equal(t, 5, res.Session.BestStreak)
	assert.Equal(t, []string{"alice", "bob"}, res.Session.PlayerIDs)
	assert.Equal(t, startTime, res.Session.StartedAt)
	assert.True(t, res.Session.FinishedAt.After(res.Session.StartedAt))

	// Further darts are ignored until the round is reset.
	after, err := tr.RegisterDart(ctx, true)
	require.NoError(t, err)
	assert.False(t, after.Applied)

	snap, ok := tr.Practice()
	require.True(t, ok)
	assert.True(t, snap.Finished())
	assert.Equal(t, 1, snap.States["bob"].CurrentTarget)

	require.Len(t, tr.Sessions(), 1)
	h, _ := store.Load(ctx)
	require.Len(t, h.Sessions, 1)
	assert.Equal(t, res.Session.ID, h.Sessions[0].ID)
}

func TestOtherPlayerFinishesFirst(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{"alice", "bob"}, 6))

	throw(t, tr, false, false, false)
	throw(t, tr, true, true, true)
	throw(t, tr, true, true, true)
	res := throw(t, tr, true, true, true)

	require.True(t, res.Finished)
	assert.Equal(t, "bob", res.Session.WinnerPlayerID)
	snap, _ := tr.Practice()
	assert.Equal(t, 4, snap.States["alice"].CurrentTarget)
}

func TestResetAroundTheClock(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{"alice"}, 20))
	throw(t, tr, true, true)

	tr.ResetAroundTheClock()
	_, ok := tr.Practice()
	assert.False(t, ok)
	assert.Empty(t, tr.Sessions())
	h, _ := store.Load(context.Background())
	assert.Empty(t, h.Sessions)
}

func TestPracticeEvents(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	var darts, finished int
	tr.Events().Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		switch e.EventType() {
		case game.EventTypeDartRegistered:
			darts++
		case game.EventTypePracticeFinished:
			finished++
		}
	}))

	require.NoError(t, tr.StartAroundTheClock([]string{"solo"}, 2))
	throw(t, tr, false, true, true)
	assert.Equal(t, 3, darts)
	assert.Equal(t, 1, finished)
}
