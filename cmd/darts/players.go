package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/darts/cmd/darts/shared"
	"github.com/lox/darts/internal/tracker"
)

// PlayersCmd groups the player registry commands.
type PlayersCmd struct {
	Add  PlayersAddCmd  `cmd:"" help:"Register a player"`
	List PlayersListCmd `cmd:"" help:"List players"`
	Edit PlayersEditCmd `cmd:"" help:"Change a player's name, nickname or flag"`
	Hide PlayersHideCmd `cmd:"" help:"Hide or unhide a player"`
}

type PlayersAddCmd struct {
	Name     string `arg:"" help:"Player name"`
	Nickname string `help:"Shown instead of the name on the scoreboard"`
	Flag     string `help:"Country or team code"`
}

func (cmd *PlayersAddCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.tracker.AddPlayer(ctx, cmd.Name, cmd.Nickname, cmd.Flag)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", p.Name, p.Handle)
	return nil
}

type PlayersListCmd struct {
	All bool `help:"Include hidden players"`
}

func (cmd *PlayersListCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	players := a.tracker.VisiblePlayers()
	if cmd.All {
		players = a.tracker.Players()
	}
	if len(players) == 0 {
		fmt.Fprintln(a.out, "No players yet. Add one with: darts players add NAME")
		return nil
	}

	t := table.New().Headers("HANDLE", "NAME", "NICKNAME", "FLAG", "HIDDEN")
	for _, p := range players {
		hidden := ""
		if p.Hidden {
			hidden = "yes"
		}
		t.Row(p.Handle, p.Name, p.Nickname, p.Flag, hidden)
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}

type PlayersEditCmd struct {
	Player   string  `arg:"" help:"Player id or handle"`
	Name     *string `help:"New name"`
	Nickname *string `help:"New nickname (empty clears it)"`
	Flag     *string `help:"New flag (empty clears it)"`
}

func (cmd *PlayersEditCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.tracker.FindPlayer(cmd.Player)
	if err != nil {
		return err
	}
	p, err = a.tracker.UpdatePlayer(ctx, p.ID, tracker.PlayerUpdate{
		Name:     cmd.Name,
		Nickname: cmd.Nickname,
		Flag:     cmd.Flag,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (%s)\n", p.Name, p.Handle)
	return nil
}

type PlayersHideCmd struct {
	Player string `arg:"" help:"Player id or handle"`
}

func (cmd *PlayersHideCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.tracker.FindPlayer(cmd.Player)
	if err != nil {
		return err
	}
	p, err = a.tracker.ToggleHidden(ctx, p.ID)
	if err != nil {
		return err
	}
	state := "visible"
	if p.Hidden {
		state = "hidden"
	}
	fmt.Fprintf(a.out, "%s is now %s\n", p.Name, state)
	return nil
}
