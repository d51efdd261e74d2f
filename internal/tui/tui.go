// Package tui is the terminal scoreboard for X01 matches and Around the Clock
// rounds. Each model drives a tracker.Tracker and renders the events it
// publishes into a scrolling log.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/darts/internal/game"
)

const sidebarMinWidth = 28

// gameLog is the scrolling event log shared by both models.
type gameLog struct {
	entries  []string
	viewport viewport.Model

	testMode bool
	captured []string // plain entries, test mode only
}

func newGameLog(testMode bool) gameLog {
	vp := viewport.New(10, 5)
	vp.SetContent("")
	return gameLog{viewport: vp, testMode: testMode}
}

// add appends a styled entry. plain is what tests see.
func (l *gameLog) add(plain, styled string) {
	l.entries = append(l.entries, styled)
	if l.testMode {
		l.captured = append(l.captured, plain)
		return
	}
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
	if l.viewport.Height > 0 && l.viewport.Width > 0 {
		l.viewport.GotoBottom()
	}
}

func (l *gameLog) capturedLog() []string {
	if !l.testMode {
		return nil
	}
	return append([]string(nil), l.captured...)
}

// scroll handles the log navigation keys and reports whether key was one.
func (l *gameLog) scroll(key string) bool {
	switch key {
	case "up":
		l.viewport.ScrollUp(1)
	case "down":
		l.viewport.ScrollDown(1)
	case "pgup":
		l.viewport.HalfPageUp()
	case "pgdown":
		l.viewport.HalfPageDown()
	case "home":
		l.viewport.GotoTop()
	case "end":
		l.viewport.GotoBottom()
	default:
		return false
	}
	return true
}

// styleEvent colours a formatted event line by what happened.
func styleEvent(event game.GameEvent, line string) string {
	switch e := event.(type) {
	case game.VisitRecordedEvent:
		switch {
		case e.Visit.Checkout:
			return checkoutStyle.Render(line)
		case e.Visit.Bust:
			return bustStyle.Render(line)
		case e.Visit.Total >= 100:
			return tonStyle.Render(line)
		}
	case game.LegWonEvent, game.MatchFinishedEvent, game.PracticeFinishedEvent:
		return checkoutStyle.Render(line)
	case game.DartRegisteredEvent:
		if !e.Hit {
			return mutedStyle.Render(line)
		}
	}
	return logStyle.Render(line)
}

// layout arranges the log and sidebar side by side above the action pane.
func layout(width, height int, log *gameLog, sidebar, action string) string {
	actionHeight := lipgloss.Height(action)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusColor).
		Width(max(width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(action)

	sidebarWidth := max(lipgloss.Width(sidebar), sidebarMinWidth)
	paneHeight := max(height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebar)

	log.viewport.Width = max(width-sidebarWidth-4, 1)
	log.viewport.Height = paneHeight
	log.viewport.SetContent(strings.Join(log.entries, "\n"))

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Width(log.viewport.Width).
		Height(paneHeight).
		Render(log.viewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, top, actionPane)
}

func helpLine(s string) string {
	return mutedStyle.Render(s)
}

func formatAverage(avg float64) string {
	return fmt.Sprintf("%.1f", avg)
}
