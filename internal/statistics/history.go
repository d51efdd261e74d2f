package statistics

import (
	"slices"
	"time"

	"github.com/lox/darts/internal/game"
)

// HistoryMode selects which kinds of game History returns.
type HistoryMode string

const (
	HistoryAll      HistoryMode = "all"
	HistoryX01      HistoryMode = "x01"
	HistoryPractice HistoryMode = "practice"
)

// HistoryFilter narrows History. The zero value returns everything.
type HistoryFilter struct {
	Mode HistoryMode
	// PlayerID keeps matches the player took part in and practice sessions
	// the player won.
	PlayerID string
}

// HistoryEntry is one row of the combined history. Exactly one of Match and
// Session is set.
type HistoryEntry struct {
	Mode    game.Mode
	ID      string
	Date    time.Time
	Match   *game.Match
	Session *game.PracticeSession
}

// History merges matches and practice sessions newest first. Matches are
// dated by creation, sessions by when they finished.
func History(matches []game.Match, sessions []game.PracticeSession, filter HistoryFilter) []HistoryEntry {
	mode := filter.Mode
	if mode == "" {
		mode = HistoryAll
	}

	var out []HistoryEntry
	if mode == HistoryAll || mode == HistoryX01 {
		for i := range matches {
			m := &matches[i]
			if filter.PlayerID != "" && !m.HasPlayer(filter.PlayerID) {
				continue
			}
			out = append(out, HistoryEntry{Mode: game.ModeX01, ID: m.ID, Date: m.CreatedAt, Match: m})
		}
	}
	if mode == HistoryAll || mode == HistoryPractice {
		for i := range sessions {
			s := &sessions[i]
			if filter.PlayerID != "" && s.WinnerPlayerID != filter.PlayerID {
				continue
			}
			out = append(out, HistoryEntry{Mode: game.ModeAroundTheClock, ID: s.ID, Date: s.FinishedAt, Session: s})
		}
	}

	slices.SortStableFunc(out, func(a, b HistoryEntry) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// ParseHistoryMode accepts the names used on the command line.
func ParseHistoryMode(s string) (HistoryMode, bool) {
	switch HistoryMode(s) {
	case "", HistoryAll:
		return HistoryAll, true
	case HistoryX01:
		return HistoryX01, true
	case HistoryPractice, "clock":
		return HistoryPractice, true
	}
	return "", false
}
