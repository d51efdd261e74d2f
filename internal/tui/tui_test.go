package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/darts/internal/store/memstore"
	"github.com/lox/darts/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTracker(t *testing.T) (*tracker.Tracker, string, string) {
	t.Helper()
	ctx := context.Background()
	tr := tracker.New(tracker.WithLogger(quietLogger()), tracker.WithStore(memstore.New()))
	alice, err := tr.AddPlayer(ctx, "Alice", "", "")
	require.NoError(t, err)
	bob, err := tr.AddPlayer(ctx, "Bob", "", "")
	require.NoError(t, err)
	return tr, alice.ID, bob.ID
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestX01ModelScoresVisits(t *testing.T) {
	tr, alice, bob := newTracker(t)
	_, err := tr.StartMatch([]string{alice, bob}, 101, 1)
	require.NoError(t, err)

	m := NewX01ModelWithOptions(context.Background(), tr, quietLogger(), true)
	assert.Nil(t, m.Submit("60 1"))
	assert.Nil(t, m.Submit("45"))

	captured := m.GetCapturedLog()
	require.Len(t, captured, 3)
	assert.Equal(t, "101, best of 1: Alice v Bob", captured[0])
	assert.Equal(t, "Alice: 61 (40 left) [60 1]", captured[1])
	assert.Equal(t, "Bob: 45 (56 left)", captured[2])

	leg, _, ok := tr.ActiveLeg()
	require.True(t, ok)
	assert.Equal(t, alice, leg.CurrentPlayerID)
}

func TestX01ModelRejectsBadInput(t *testing.T) {
	tr, alice, _ := newTracker(t)
	_, err := tr.StartMatch([]string{alice}, 501, 1)
	require.NoError(t, err)

	m := NewX01ModelWithOptions(context.Background(), tr, quietLogger(), true)
	assert.Nil(t, m.Submit("200"))
	assert.Contains(t, m.Status(), "0 to 180")
	assert.Nil(t, m.Submit("61 1"))
	assert.Contains(t, m.Status(), "0 to 60")

	leg, _, _ := tr.ActiveLeg()
	assert.Empty(t, leg.Visits)

	assert.Nil(t, m.Submit("100"))
	assert.Empty(t, m.Status())
}

func TestX01ModelQuitsWhenMatchFinishes(t *testing.T) {
	tr, alice, bob := newTracker(t)
	_, err := tr.StartMatch([]string{alice, bob}, 40, 1)
	require.NoError(t, err)

	m := NewX01ModelWithOptions(context.Background(), tr, quietLogger(), true)
	cmd := m.Submit("20 20")
	assert.True(t, isQuit(cmd))

	match, ok := m.Finished()
	require.True(t, ok)
	assert.True(t, match.IsFinished())
	assert.Len(t, tr.Matches(), 1)

	captured := m.GetCapturedLog()
	assert.Contains(t, captured, "Alice: checks out with 40 [20 20]")
	assert.Contains(t, captured, "*** Alice wins the match ***")
}

func TestX01ModelEscAbandons(t *testing.T) {
	tr, alice, _ := newTracker(t)
	_, err := tr.StartMatch([]string{alice}, 501, 3)
	require.NoError(t, err)

	m := NewX01ModelWithOptions(context.Background(), tr, quietLogger(), true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, isQuit(cmd))

	_, ok := tr.ActiveMatch()
	assert.False(t, ok)
	assert.Empty(t, tr.Matches())
	_, finished := m.Finished()
	assert.False(t, finished)
}

func TestX01ModelView(t *testing.T) {
	tr, alice, bob := newTracker(t)
	_, err := tr.StartMatch([]string{alice, bob}, 501, 3)
	require.NoError(t, err)

	m := NewX01ModelWithOptions(context.Background(), tr, quietLogger(), true)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "first to 2")
}

func TestClockModelThrows(t *testing.T) {
	tr, alice, bob := newTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{alice, bob}, 2))

	m := NewClockModelWithOptions(context.Background(), tr, quietLogger(), true)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	snap, ok := tr.Practice()
	require.True(t, ok)
	assert.Equal(t, 2, snap.States[alice].CurrentTarget)
	assert.Equal(t, 2, snap.States[alice].DartsThrown)
	assert.Equal(t, 0, snap.States[bob].DartsThrown)

	assert.Equal(t, []string{"Alice: hits 1", "Alice: misses 2"}, m.GetCapturedLog())
}

func TestClockModelQuitsOnFinish(t *testing.T) {
	tr, alice, _ := newTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{alice}, 2))

	m := NewClockModelWithOptions(context.Background(), tr, quietLogger(), true)
	assert.Nil(t, m.Throw(true))
	assert.True(t, isQuit(m.Throw(true)))

	session, ok := m.Finished()
	require.True(t, ok)
	assert.Equal(t, alice, session.WinnerPlayerID)
	assert.Equal(t, 2, session.DartsThrown)
	assert.Len(t, tr.Sessions(), 1)
}

func TestClockModelQuitResetsRound(t *testing.T) {
	tr, alice, _ := newTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{alice}, 20))

	m := NewClockModelWithOptions(context.Background(), tr, quietLogger(), true)
	m.Throw(true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, isQuit(cmd))

	_, ok := tr.Practice()
	assert.False(t, ok)
	assert.Empty(t, tr.Sessions())
}

func TestProductionModeDoesNotCapture(t *testing.T) {
	tr, alice, _ := newTracker(t)
	require.NoError(t, tr.StartAroundTheClock([]string{alice}, 20))

	m := NewClockModel(context.Background(), tr, quietLogger())
	m.Throw(true)
	assert.Nil(t, m.GetCapturedLog())
}
