package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/darts/cmd/darts/shared"
	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/tracker"
	"github.com/lox/darts/internal/tui"
)

// PlayCmd starts a game on the terminal scoreboard.
type PlayCmd struct {
	X01   PlayX01Cmd   `cmd:"x01" help:"Play an X01 match"`
	Clock PlayClockCmd `cmd:"clock" help:"Practice Around the Clock"`
}

type PlayX01Cmd struct {
	Players    []string `arg:"" help:"1 to 4 player ids or handles, in throwing order"`
	StartScore int      `help:"Starting score (default from config)"`
	BestOf     int      `help:"Best of N legs, rounded up to odd (default from config)"`
}

func (cmd *PlayX01Cmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := resolvePlayers(a.tracker, cmd.Players)
	if err != nil {
		return err
	}
	start := cmd.StartScore
	if start == 0 {
		start = a.cfg.X01.StartScore
	}
	bestOf := cmd.BestOf
	if bestOf == 0 {
		bestOf = a.cfg.X01.BestOfLegs
	}
	if _, err := a.tracker.StartMatch(ids, start, game.NormalizeBestOfLegs(bestOf)); err != nil {
		return err
	}

	model := tui.NewX01Model(ctx, a.tracker, a.logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("scoreboard: %w", err)
	}

	match, ok := model.Finished()
	if !ok {
		fmt.Fprintln(a.out, "Match abandoned, nothing recorded.")
		return nil
	}
	if status := model.Status(); status != "" {
		fmt.Fprintln(a.out, "Warning:", status)
	}
	printMatch(a.out, a.tracker, match)
	return nil
}

type PlayClockCmd struct {
	Players   []string `arg:"" help:"Player ids or handles, in throwing order"`
	MaxTarget int      `help:"Last number to hit, 1 to 20 (default from config)"`
}

func (cmd *PlayClockCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()
	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := resolvePlayers(a.tracker, cmd.Players)
	if err != nil {
		return err
	}
	maxTarget := cmd.MaxTarget
	if maxTarget == 0 {
		maxTarget = a.cfg.AroundTheClock.MaxTarget
	}
	if maxTarget < 0 || maxTarget > game.DefaultMaxTarget {
		return fmt.Errorf("max target must be between 1 and %d", game.DefaultMaxTarget)
	}
	if err := a.tracker.StartAroundTheClock(ids, maxTarget); err != nil {
		return err
	}

	model := tui.NewClockModel(ctx, a.tracker, a.logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("practice board: %w", err)
	}

	session, ok := model.Finished()
	if !ok {
		fmt.Fprintln(a.out, "Round abandoned, nothing recorded.")
		return nil
	}
	printSession(a.out, a.tracker, session)
	return nil
}

func resolvePlayers(tr *tracker.Tracker, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := tr.FindPlayer(ref)
		if err != nil {
			return nil, err
		}
		if p.Hidden {
			return nil, fmt.Errorf("%w: %s is hidden", tracker.ErrInvalidPlayer, p.Name)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}
