package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/darts/cmd/darts/shared"
	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/statistics"
	"github.com/lox/darts/internal/tracker"
)

const dateFormat = "2006-01-02 15:04"

// HistoryCmd lists finished games, newest first.
type HistoryCmd struct {
	Mode   string `help:"all, x01 or practice" enum:"all,x01,practice,clock" default:"all"`
	Player string `help:"Only games involving this player id or handle"`
}

func (cmd *HistoryCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()

	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	mode, ok := statistics.ParseHistoryMode(cmd.Mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", cmd.Mode)
	}
	filter := statistics.HistoryFilter{Mode: mode}
	if cmd.Player != "" {
		p, err := a.tracker.FindPlayer(cmd.Player)
		if err != nil {
			return err
		}
		filter.PlayerID = p.ID
	}

	printHistory(a.out, a.tracker, statistics.History(a.tracker.Matches(), a.tracker.Sessions(), filter))
	return nil
}

// MatchCmd prints the detail view of one match.
type MatchCmd struct {
	ID string `arg:"" help:"Match id (see darts history)"`
}

func (cmd *MatchCmd) Run(g *Globals) error {
	ctx, stop := shared.SetupSignalHandler()
	defer stop()

	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	m, ok := a.tracker.Match(cmd.ID)
	if !ok {
		return fmt.Errorf("no match with id %q", cmd.ID)
	}
	printMatch(a.out, a.tracker, m)
	return nil
}

func printHistory(w io.Writer, tr *tracker.Tracker, entries []statistics.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No games recorded.")
		return
	}
	t := table.New().Headers("DATE", "GAME", "PLAYERS", "RESULT", "ID")
	for _, e := range entries {
		switch {
		case e.Match != nil:
			m := e.Match
			result := "unfinished"
			if winner, ok := statistics.MatchWinner(*m); ok {
				result = fmt.Sprintf("%s won %s", tr.PlayerName(winner), legScore(*m, winner))
			}
			t.Row(e.Date.Format(dateFormat), fmt.Sprintf("%d", m.StartScore), playerNames(tr, m.PlayerIDs), result, m.ID)
		case e.Session != nil:
			s := e.Session
			t.Row(e.Date.Format(dateFormat), "clock", playerNames(tr, s.PlayerIDs),
				fmt.Sprintf("%s in %d darts", tr.PlayerName(s.WinnerPlayerID), s.DartsThrown), s.ID)
		}
	}
	fmt.Fprintln(w, t.Render())
}

func printMatch(w io.Writer, tr *tracker.Tracker, m game.Match) {
	fmt.Fprintf(w, "%d, best of %d, %s\n", m.StartScore, m.BestOfLegs, m.CreatedAt.Format(dateFormat))
	if winner, ok := statistics.MatchWinner(m); ok {
		fmt.Fprintf(w, "Winner: %s (%s)\n", tr.PlayerName(winner), legScore(m, winner))
	}
	fmt.Fprintln(w)

	summary := table.New().Headers("PLAYER", "LEGS", "AVG", "CHECKOUT", "HIGH OUT")
	for _, id := range m.PlayerIDs {
		rate := statistics.PlayerCheckoutRate(m, id)
		summary.Row(
			tr.PlayerName(id),
			fmt.Sprintf("%d", m.LegWins[id]),
			fmt.Sprintf("%.1f", statistics.PlayerMatchAverage(m, id)),
			fmt.Sprintf("%d/%d (%.0f%%)", rate.Successes, rate.Opportunities, rate.Percent),
			fmt.Sprintf("%d", statistics.HighestCheckout(m, id)),
		)
	}
	fmt.Fprintln(w, summary.Render())

	for _, leg := range m.Legs {
		fmt.Fprintf(w, "\nLeg %d, won by %s\n", leg.Sequence, tr.PlayerName(leg.WinnerPlayerID))
		lt := table.New().Headers("PLAYER", "DARTS", "3DA", "180", "140+", "100+", "BUSTS")
		for _, id := range leg.PlayerOrder {
			s := statistics.LegPlayerStats(leg.Visits, id)
			lt.Row(
				tr.PlayerName(id),
				fmt.Sprintf("%d", s.DartsThrown),
				fmt.Sprintf("%.1f", s.ThreeDartAverage()),
				fmt.Sprintf("%d", s.Maximums),
				fmt.Sprintf("%d", s.Ton40Plus),
				fmt.Sprintf("%d", s.TonPlus),
				fmt.Sprintf("%d", s.Busts),
			)
		}
		fmt.Fprintln(w, lt.Render())
	}
}

func printSession(w io.Writer, tr *tracker.Tracker, s game.PracticeSession) {
	fmt.Fprintf(w, "%s completes 1 to %d\n", tr.PlayerName(s.WinnerPlayerID), s.MaxTarget)
	fmt.Fprintf(w, "Darts thrown: %d, best streak: %d, time: %s\n",
		s.DartsThrown, s.BestStreak, s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
}

func legScore(m game.Match, winner string) string {
	parts := []string{fmt.Sprintf("%d", m.LegWins[winner])}
	for _, id := range m.PlayerIDs {
		if id != winner {
			parts = append(parts, fmt.Sprintf("%d", m.LegWins[id]))
		}
	}
	return strings.Join(parts, "-")
}

func playerNames(tr *tracker.Tracker, ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = tr.PlayerName(id)
	}
	return strings.Join(names, ", ")
}
