package tracker

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/lox/darts/internal/game"
)

// PlayerUpdate carries optional changes to a player. Nil fields are left alone;
// an empty string clears the nickname or flag.
type PlayerUpdate struct {
	Name     *string
	Nickname *string
	Flag     *string
}

// AddPlayer registers a new visible player.
func (t *Tracker) AddPlayer(ctx context.Context, name, nickname, flag string) (game.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return game.Player{}, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}

	p := game.Player{
		ID:        t.ids.New(),
		Name:      name,
		Nickname:  strings.TrimSpace(nickname),
		Flag:      strings.TrimSpace(flag),
		CreatedAt: t.clock.Now(),
	}
	p.Handle = t.uniqueHandle(name, p.ID)

	if err := t.savePlayer(ctx, p); err != nil {
		return game.Player{}, err
	}
	t.players = append(t.players, p)
	t.logger.Info("Player added", "player", p.ID, "name", p.Name, "handle", p.Handle)
	return p, nil
}

// UpdatePlayer changes a player's name, nickname or flag. The id and creation
// time never change.
func (t *Tracker) UpdatePlayer(ctx context.Context, id string, upd PlayerUpdate) (game.Player, error) {
	idx := t.playerIndex(id)
	if idx < 0 {
		return game.Player{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	p := t.players[idx]
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return game.Player{}, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
		}
		if name != p.Name {
			p.Name = name
			p.Handle = t.uniqueHandle(name, p.ID)
		}
	}
	if upd.Nickname != nil {
		p.Nickname = strings.TrimSpace(*upd.Nickname)
	}
	if upd.Flag != nil {
		p.Flag = strings.TrimSpace(*upd.Flag)
	}

	if err := t.savePlayer(ctx, p); err != nil {
		return game.Player{}, err
	}
	t.players[idx] = p
	t.logger.Info("Player updated", "player", p.ID, "name", p.Name)
	return p, nil
}

// ToggleHidden hides a visible player or shows a hidden one.
func (t *Tracker) ToggleHidden(ctx context.Context, id string) (game.Player, error) {
	idx := t.playerIndex(id)
	if idx < 0 {
		return game.Player{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	p := t.players[idx]
	p.Hidden = !p.Hidden
	if err := t.savePlayer(ctx, p); err != nil {
		return game.Player{}, err
	}
	t.players[idx] = p
	t.logger.Info("Player visibility changed", "player", p.ID, "hidden", p.Hidden)
	return p, nil
}

// Players returns every player sorted by name.
func (t *Tracker) Players() []game.Player {
	out := slices.Clone(t.players)
	slices.SortStableFunc(out, func(a, b game.Player) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// VisiblePlayers returns the players offered for selection, sorted by name.
func (t *Tracker) VisiblePlayers() []game.Player {
	return slices.DeleteFunc(t.Players(), func(p game.Player) bool { return p.Hidden })
}

// Player looks a player up by id.
func (t *Tracker) Player(id string) (game.Player, bool) {
	if idx := t.playerIndex(id); idx >= 0 {
		return t.players[idx], true
	}
	return game.Player{}, false
}

// FindPlayer resolves a reference typed by a user: an id, a handle, or a name
// that slugs to a handle.
func (t *Tracker) FindPlayer(ref string) (game.Player, error) {
	ref = strings.TrimSpace(ref)
	if p, ok := t.Player(ref); ok {
		return p, nil
	}
	handle := slug.Make(ref)
	for _, p := range t.players {
		if p.Handle == ref || p.Handle == handle {
			return p, nil
		}
	}
	return game.Player{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, ref)
}

// PlayerName returns the display name for id, or id itself for players the
// registry does not know.
func (t *Tracker) PlayerName(id string) string {
	if p, ok := t.Player(id); ok {
		return p.DisplayName()
	}
	return id
}

func (t *Tracker) playerIndex(id string) int {
	return slices.IndexFunc(t.players, func(p game.Player) bool { return p.ID == id })
}

// uniqueHandle slugs name and appends -2, -3, ... until no other player uses it.
func (t *Tracker) uniqueHandle(name, selfID string) string {
	base := slug.Make(name)
	if base == "" {
		base = "player"
	}
	taken := func(h string) bool {
		return slices.ContainsFunc(t.players, func(p game.Player) bool {
			return p.ID != selfID && p.Handle == h
		})
	}
	handle := base
	for n := 2; taken(handle); n++ {
		handle = fmt.Sprintf("%s-%d", base, n)
	}
	return handle
}

func (t *Tracker) savePlayer(ctx context.Context, p game.Player) error {
	if t.store == nil {
		return nil
	}
	if err := t.store.SavePlayer(ctx, p); err != nil {
		t.logger.Error("Failed to save player", "player", p.ID, "error", err)
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}
