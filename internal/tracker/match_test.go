package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lox/darts/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// winLeg throws a 9-dart 501 for the current starter while everyone else
// scores nothing.
func winLeg(t *testing.T, tr *Tracker) {
	t.Helper()
	leg, _, ok := tr.ActiveLeg()
	require.True(t, ok)
	winner := leg.CurrentPlayerID
	others := len(leg.PlayerOrder) - 1
	for _, darts := range [][]int{{60, 60, 60}, {60, 60, 60}, {60, 57, 24}} {
		v, err := tr.RecordVisit(darts)
		require.NoError(t, err)
		require.Equal(t, winner, v.PlayerID)
		if v.Checkout {
			return
		}
		for i := 0; i < others; i++ {
			_, err := tr.RecordVisit([]int{0})
			require.NoError(t, err)
		}
	}
}

func TestRecordVisitWithoutMatch(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.RecordVisit([]int{60})
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	res, err := tr.CloseLegIfWon(context.Background())
	require.NoError(t, err)
	assert.False(t, res.LegClosed)
}

func TestStartMatchValidation(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	_, err := tr.StartMatch(nil, 501, 3)
	assert.ErrorIs(t, err, game.ErrInvalidPlayers)
	_, err = tr.StartMatch([]string{"a", "b", "c", "d", "e"}, 501, 3)
	assert.ErrorIs(t, err, game.ErrInvalidPlayers)
	_, err = tr.StartMatch([]string{"a", "a"}, 501, 3)
	assert.ErrorIs(t, err, game.ErrInvalidPlayers)

	m, err := tr.StartMatch([]string{"a"}, 301, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, m.BestOfLegs)
	assert.Equal(t, game.ModeX01, m.Mode)
	assert.Equal(t, startTime, m.CreatedAt)
	assert.Equal(t, map[string]int{"a": 0}, m.LegWins)
}

func TestRecordVisitAssignsIDs(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	_, err := tr.StartMatch([]string{"alice", "bob"}, 501, 3)
	require.NoError(t, err)
	_, legID, _ := tr.ActiveLeg()

	clock.Advance(30 * time.Second)
	v, err := tr.RecordVisit([]int{60, 60, 60})
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, legID, v.LegID)
	assert.Equal(t, startTime.Add(30*time.Second), v.CreatedAt)
	assert.Equal(t, 321, v.RemainingAfter)

	leg, _, _ := tr.ActiveLeg()
	require.Len(t, leg.Visits, 1)
	assert.Equal(t, v, leg.Visits[0])
	assert.Equal(t, "bob", leg.CurrentPlayerID)
}

func TestRecordVisitInvalid(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.StartMatch([]string{"alice"}, 501, 1)
	require.NoError(t, err)

	_, err = tr.RecordVisit([]int{20, 20, 20, 20})
	assert.ErrorIs(t, err, game.ErrInvalidVisit)
	leg, _, _ := tr.ActiveLeg()
	assert.Empty(t, leg.Visits)
}

func TestRecordVisitAfterCheckoutBeforeClose(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	_, err := tr.StartMatch([]string{"alice", "bob"}, 501, 3)
	require.NoError(t, err)
	winLeg(t, tr)

	_, err = tr.RecordVisit([]int{20})
	assert.ErrorIs(t, err, game.ErrLegFinished)

	h, _ := store.Load(context.Background())
	assert.Empty(t, h.Matches, "nothing is persisted before the match ends")
}

func TestBestOfThreeFinishesOnSecondWin(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTestTracker(t)
	players := []string{"alice", "bob"}
	_, err := tr.StartMatch(players, 501, 3)
	require.NoError(t, err)

	// Leg 1: alice starts and wins.
	winLeg(t, tr)
	res, err := tr.CloseLegIfWon(ctx)
	require.NoError(t, err)
	assert.True(t, res.LegClosed)
	assert.False(t, res.MatchFinished)
	assert.Equal(t, "alice", res.WinnerPlayerID)
	assert.Equal(t, 1, res.Leg.Sequence)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 0}, tr.LegWins())

	// Leg 2: bob starts and wins.
	leg, _, _ := tr.ActiveLeg()
	assert.Equal(t, []string{"bob", "alice"}, leg.PlayerOrder)
	winLeg(t, tr)
	res, err = tr.CloseLegIfWon(ctx)
	require.NoError(t, err)
	assert.False(t, res.MatchFinished)
	assert.Equal(t, "bob", res.WinnerPlayerID)

	// Leg 3: alice starts again and takes the match.
	leg, _, _ = tr.ActiveLeg()
	assert.Equal(t, []string{"alice", "bob"}, leg.PlayerOrder)
	winLeg(t, tr)
	res, err = tr.CloseLegIfWon(ctx)
	require.NoError(t, err)
	assert.True(t, res.MatchFinished)
	assert.Equal(t, "alice", res.WinnerPlayerID)

	_, ok := tr.ActiveMatch()
	assert.False(t, ok)
	_, err = tr.RecordVisit([]int{60})
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	matches := tr.Matches()
	require.Len(t, matches, 1)
	m := matches[0]
	assert.True(t, m.IsFinished())
	assert.Len(t, m.Legs, 3)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, m.LegWins)
	for i, leg := range m.Legs {
		assert.Equal(t, i+1, leg.Sequence)
		assert.Equal(t, m.ID, leg.MatchID)
		for _, v := range leg.Visits {
			assert.Equal(t, leg.ID, v.LegID)
		}
	}

	h, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, h.Matches, 1)
	assert.Equal(t, m.ID, h.Matches[0].ID)
}

func TestBestOfOneSingleLeg(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.StartMatch([]string{"alice", "bob", "carol"}, 501, 1)
	require.NoError(t, err)

	winLeg(t, tr)
	res, err := tr.CloseLegIfWon(context.Background())
	require.NoError(t, err)
	assert.True(t, res.MatchFinished)
	assert.Equal(t, "alice", res.WinnerPlayerID)
}

func TestCloseLegIfWonWithoutWinner(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.StartMatch([]string{"alice"}, 501, 3)
	require.NoError(t, err)
	_, err = tr.RecordVisit([]int{60})
	require.NoError(t, err)

	res, err := tr.CloseLegIfWon(context.Background())
	require.NoError(t, err)
	assert.False(t, res.LegClosed)
	leg, _, _ := tr.ActiveLeg()
	assert.Len(t, leg.Visits, 1)
}

func TestMatchEventsPublished(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	var types []game.EventType
	tr.Events().Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		if e.EventType() != game.EventTypeVisitRecorded {
			types = append(types, e.EventType())
		}
	}))

	_, err := tr.StartMatch([]string{"alice"}, 501, 1)
	require.NoError(t, err)
	winLeg(t, tr)
	_, err = tr.CloseLegIfWon(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []game.EventType{game.EventTypeLegWon, game.EventTypeMatchFinished}, types)
}

func TestFinishedMatchCommittedWhenStoreFails(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	boom := errors.New("disk full")
	store.Err = boom

	_, err := tr.StartMatch([]string{"alice"}, 501, 1)
	require.NoError(t, err)
	winLeg(t, tr)
	res, err := tr.CloseLegIfWon(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, res.MatchFinished)
	assert.Len(t, tr.Matches(), 1)
}

func TestAbandonMatch(t *testing.T) {
	tr, store, _ := newTestTracker(t)
	assert.False(t, tr.AbandonMatch())

	_, err := tr.StartMatch([]string{"alice"}, 501, 3)
	require.NoError(t, err)
	_, err = tr.RecordVisit([]int{100})
	require.NoError(t, err)

	assert.True(t, tr.AbandonMatch())
	assert.Empty(t, tr.Matches())
	h, _ := store.Load(context.Background())
	assert.Empty(t, h.Matches)
}

func TestStartMatchReplacesActive(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	first, err := tr.StartMatch([]string{"alice"}, 501, 3)
	require.NoError(t, err)
	second, err := tr.StartMatch([]string{"bob"}, 301, 1)
	require.NoError(t, err)

	m, ok := tr.ActiveMatch()
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, m.ID)
	assert.Empty(t, tr.Matches())
}
