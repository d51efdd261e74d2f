package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowDarts bool                // Include the individual dart scores of a visit
	Names     func(string) string // Resolves a player id to a display name
}

// EventFormatter provides centralized formatting for all game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any known event as a single log line. Unknown events
// produce an empty string.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case VisitRecordedEvent:
		return ef.FormatVisit(e.Visit)
	case LegWonEvent:
		return ef.FormatLegWon(e)
	case MatchFinishedEvent:
		return fmt.Sprintf("*** %s wins the match ***", ef.name(e.WinnerPlayerID))
	case DartRegisteredEvent:
		return ef.FormatDart(e)
	case PracticeFinishedEvent:
		return fmt.Sprintf("*** %s completes the clock (%d darts in the round) ***",
			ef.name(e.Session.WinnerPlayerID), e.Session.DartsThrown)
	}
	return ""
}

// FormatVisit formats a visit into a human-readable string
func (ef *EventFormatter) FormatVisit(v Visit) string {
	name := ef.name(v.PlayerID)

	var text string
	switch {
	case v.Checkout:
		text = fmt.Sprintf("%s: checks out with %d", name, v.Total)
	case v.Bust:
		text = fmt.Sprintf("%s: %d, bust (stays on %d)", name, v.Total, v.RemainingAfter)
	default:
		text = fmt.Sprintf("%s: %d (%d left)", name, v.Total, v.RemainingAfter)
	}

	if ef.opts.ShowDarts && len(v.Scores) > 1 {
		parts := make([]string, len(v.Scores))
		for i, s := range v.Scores {
			parts[i] = fmt.Sprintf("%d", s)
		}
		text += " [" + strings.Join(parts, " ") + "]"
	}
	return text
}

// FormatLegWon formats the end of a leg with the running leg score
func (ef *EventFormatter) FormatLegWon(e LegWonEvent) string {
	var score []string
	for _, id := range e.Leg.PlayerOrder {
		score = append(score, fmt.Sprintf("%s %d", ef.name(id), e.LegWins[id]))
	}
	return fmt.Sprintf("Leg %d to %s (%s)", e.Leg.Sequence, ef.name(e.Leg.WinnerPlayerID), strings.Join(score, ", "))
}

// FormatDart formats a single Around the Clock dart
func (ef *EventFormatter) FormatDart(e DartRegisteredEvent) string {
	name := ef.name(e.PlayerID)
	if !e.Hit {
		return fmt.Sprintf("%s: misses %d", name, e.Target)
	}
	if e.State.CurrentStreak > 1 {
		return fmt.Sprintf("%s: hits %d (streak %d)", name, e.Target, e.State.CurrentStreak)
	}
	return fmt.Sprintf("%s: hits %d", name, e.Target)
}

func (ef *EventFormatter) name(id string) string {
	if ef.opts.Names != nil {
		if n := ef.opts.Names(id); n != "" {
			return n
		}
	}
	return id
}
