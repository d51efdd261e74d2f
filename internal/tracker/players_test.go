package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestAddPlayer(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTestTracker(t)

	p, err := tr.AddPlayer(ctx, "  Phil Taylor ", "The Power", "gb")
	require.NoError(t, err)
	assert.Equal(t, "Phil Taylor", p.Name)
	assert.Equal(t, "phil-taylor", p.Handle)
	assert.Equal(t, "The Power", p.DisplayName())
	assert.Equal(t, startTime, p.CreatedAt)
	assert.False(t, p.Hidden)

	h, _ := store.Load(ctx)
	require.Len(t, h.Players, 1)
	assert.Equal(t, p, h.Players[0])

	_, err = tr.AddPlayer(ctx, "   ", "", "")
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestHandlesAreUnique(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t)

	a, err := tr.AddPlayer(ctx, "Alice", "", "")
	require.NoError(t, err)
	b, err := tr.AddPlayer(ctx, "alice", "", "")
	require.NoError(t, err)
	c, err := tr.AddPlayer(ctx, "ALICE!", "", "")
	require.NoError(t, err)

	assert.Equal(t, "alice", a.Handle)
	assert.Equal(t, "alice-2", b.Handle)
	assert.Equal(t, "alice-3", c.Handle)

	// Renaming keeps the handle unique and does not collide with itself.
	b, err = tr.UpdatePlayer(ctx, b.ID, PlayerUpdate{Name: ptr("Bob")})
	require.NoError(t, err)
	assert.Equal(t, "bob", b.Handle)
}

func TestUpdatePlayer(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t)
	p, err := tr.AddPlayer(ctx, "Alice", "Ace", "nz")
	require.NoError(t, err)

	got, err := tr.UpdatePlayer(ctx, p.ID, PlayerUpdate{Nickname: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName())
	assert.Equal(t, "nz", got.Flag)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	_, err = tr.UpdatePlayer(ctx, p.ID, PlayerUpdate{Name: ptr("")})
	assert.ErrorIs(t, err, ErrInvalidPlayer)
	_, err = tr.UpdatePlayer(ctx, "missing", PlayerUpdate{})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestToggleHidden(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t)
	a, _ := tr.AddPlayer(ctx, "Alice", "", "")
	_, _ = tr.AddPlayer(ctx, "bob", "", "")

	hidden, err := tr.ToggleHidden(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, hidden.Hidden)

	visible := tr.VisiblePlayers()
	require.Len(t, visible, 1)
	assert.Equal(t, "bob", visible[0].Name)
	assert.Len(t, tr.Players(), 2)

	shown, err := tr.ToggleHidden(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, shown.Hidden)

	_, err = tr.ToggleHidden(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestPlayersSortedByName(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t)
	for _, name := range []string{"carol", "Bob", "alice"} {
		_, err := tr.AddPlayer(ctx, name, "", "")
		require.NoError(t, err)
	}
	var names []string
	for _, p := range tr.Players() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"alice", "Bob", "carol"}, names)
}

func TestFindPlayer(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t)
	p, err := tr.AddPlayer(ctx, "Michael van Gerwen", "MvG", "")
	require.NoError(t, err)

	for _, ref := range []string{p.ID, "michael-van-gerwen", "Michael van Gerwen"} {
		got, err := tr.FindPlayer(ref)
		require.NoError(t, err, ref)
		assert.Equal(t, p.ID, got.ID)
	}
	_, err = tr.FindPlayer("nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	assert.Equal(t, "MvG", tr.PlayerName(p.ID))
	assert.Equal(t, "ghost", tr.PlayerName("ghost"))
}

func TestFailedPlayerSaveLeavesRegistryUnchanged(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTestTracker(t)
	p, err := tr.AddPlayer(ctx, "Alice", "", "")
	require.NoError(t, err)

	boom := errors.New("disk full")
	store.Err = boom

	_, err = tr.AddPlayer(ctx, "Bob", "", "")
	assert.ErrorIs(t, err, boom)
	_, err = tr.UpdatePlayer(ctx, p.ID, PlayerUpdate{Name: ptr("Alicia")})
	assert.ErrorIs(t, err, boom)

	players := tr.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "Alice", players[0].Name)
}

func TestLoadRestoresHistory(t *testing.T) {
	ctx := context.Background()
	seed := game.History{
		Players:  []game.Player{{ID: "p1", Name: "Alice", Handle: "alice"}},
		Matches:  []game.Match{{ID: "m1", Mode: game.ModeX01}},
		Sessions: []game.PracticeSession{{ID: "s1"}},
	}
	tr := New(WithStore(memstore.New(seed)), WithLogger(quietLogger()))
	require.NoError(t, tr.Load(ctx))

	assert.Len(t, tr.Players(), 1)
	m, ok := tr.Match("m1")
	assert.True(t, ok)
	assert.Equal(t, "m1", m.ID)
	assert.Len(t, tr.Sessions(), 1)

	// New handles account for loaded players.
	p, err := tr.AddPlayer(ctx, "Alice", "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice-2", p.Handle)
}
