package tui

import "github.com/charmbracelet/lipgloss"

var (
	boardColor = lipgloss.Color("#F4F1E8")
	focusColor = lipgloss.Color("#2E9E5B")
	mutedColor = lipgloss.Color("#6B6B6B")

	titleStyle = lipgloss.NewStyle().
			Foreground(boardColor).
			Background(lipgloss.Color("#1F6F43")).
			Bold(true)

	logStyle = lipgloss.NewStyle().Foreground(boardColor)

	// Player rows on the scoreboard.
	throwerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8C547")).
			Bold(true)
	playerStyle = lipgloss.NewStyle().Foreground(boardColor)

	promptLineStyle = lipgloss.NewStyle().
			Foreground(focusColor).
			Bold(true)

	checkoutStyle = lipgloss.NewStyle().
			Foreground(focusColor).
			Bold(true)

	bustStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D64545")).
			Bold(true)

	// Visits of 100 or more.
	tonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8A33D")).
			Bold(true)

	errorStyle = bustStyle
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)
