package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/statistics"
	"github.com/lox/darts/internal/tracker"
)

// X01Model scores the tracker's active X01 match. Start the match before
// running the program.
type X01Model struct {
	ctx       context.Context
	tracker   *tracker.Tracker
	logger    *log.Logger
	formatter *game.EventFormatter
	unsub     func()

	log   gameLog
	input textinput.Model

	status   string
	finished *game.Match
	quitting bool

	width  int
	height int
}

// NewX01Model builds the scoreboard for tr's active match.
func NewX01Model(ctx context.Context, tr *tracker.Tracker, logger *log.Logger) *X01Model {
	return NewX01ModelWithOptions(ctx, tr, logger, false)
}

// NewX01ModelWithOptions allows test mode, which captures log lines instead of
// rendering them.
func NewX01ModelWithOptions(ctx context.Context, tr *tracker.Tracker, logger *log.Logger, testMode bool) *X01Model {
	ti := textinput.New()
	ti.Placeholder = "Visit total (140) or darts (60 60 20)"
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(boardColor)
	ti.Prompt = "> "

	m := &X01Model{
		ctx:     ctx,
		tracker: tr,
		logger:  logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			ShowDarts: true,
			Names:     tr.PlayerName,
		}),
		log:   newGameLog(testMode),
		input: ti,
	}
	m.unsub = tr.Events().Subscribe(game.EventSubscriberFunc(m.onEvent))

	if match, ok := tr.ActiveMatch(); ok {
		m.log.add(m.matchHeader(match), titleStyle.Render(" "+m.matchHeader(match)+" "))
	}
	return m
}

func (m *X01Model) onEvent(event game.GameEvent) {
	line := m.formatter.Format(event)
	if line == "" {
		return
	}
	m.log.add(line, styleEvent(event, line))
}

func (m *X01Model) matchHeader(match game.Match) string {
	names := make([]string, len(match.PlayerIDs))
	for i, id := range match.PlayerIDs {
		names[i] = m.tracker.PlayerName(id)
	}
	return fmt.Sprintf("%d, best of %d: %s", match.StartScore, match.BestOfLegs, strings.Join(names, " v "))
}

// Init initializes the model
func (m *X01Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *X01Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "enter":
			value := m.input.Value()
			m.input.SetValue("")
			return m, m.Submit(value)
		default:
			if m.log.scroll(key) {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Submit records a typed visit, closes the leg if it was won and quits once
// the match is over.
func (m *X01Model) Submit(input string) tea.Cmd {
	m.status = ""
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if input == "quit" || input == "q" {
		return m.quit()
	}

	darts, err := ParseVisit(input)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	if _, err := m.tracker.RecordVisit(darts); err != nil {
		m.status = err.Error()
		return nil
	}

	res, err := m.tracker.CloseLegIfWon(m.ctx)
	if err != nil {
		m.logger.Error("Failed to close leg", "error", err)
		m.status = err.Error()
	}
	if res.MatchFinished {
		if match, ok := m.tracker.Match(res.MatchID); ok {
			m.finished = &match
		}
		return m.quit()
	}
	return nil
}

func (m *X01Model) quit() tea.Cmd {
	if m.finished == nil && m.tracker.AbandonMatch() {
		m.logger.Info("Match abandoned from scoreboard")
	}
	m.quitting = true
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	return tea.Quit
}

// Finished returns the completed match once the scoreboard has quit after a
// win.
func (m *X01Model) Finished() (game.Match, bool) {
	if m.finished == nil {
		return game.Match{}, false
	}
	return *m.finished, true
}

// Status returns the last input or persistence error shown to the user.
func (m *X01Model) Status() string {
	return m.status
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *X01Model) GetCapturedLog() []string {
	return m.log.capturedLog()
}

// View renders the scoreboard
func (m *X01Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return layout(m.width, m.height, &m.log, m.renderScoreboard(), m.renderActionPane())
}

func (m *X01Model) renderScoreboard() string {
	match, ok := m.tracker.ActiveMatch()
	leg, _, legOK := m.tracker.ActiveLeg()
	if !ok || !legOK {
		return mutedStyle.Render("No match in progress")
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Leg %d  first to %d", len(match.Legs)+1, game.LegsToWin(match.BestOfLegs))))
	b.WriteString("\n\n")
	for _, id := range leg.PlayerOrder {
		line := fmt.Sprintf("%-12s %3d  avg %5s  legs %d",
			m.tracker.PlayerName(id),
			leg.Remaining(id),
			formatAverage(game.LegAverage(leg, id)),
			match.LegWins[id])
		if id == leg.CurrentPlayerID {
			b.WriteString(throwerStyle.Render("▶ " + line))
		} else {
			b.WriteString(playerStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Match avg %s: %s",
		m.tracker.PlayerName(leg.CurrentPlayerID),
		formatAverage(statistics.PlayerMatchAverage(withLeg(match, leg), leg.CurrentPlayerID)))))
	return b.String()
}

// withLeg includes the leg in progress so match averages stay live.
func withLeg(match game.Match, leg game.LegState) game.Match {
	match.Legs = append(slices.Clip(match.Legs), game.Leg{Visits: leg.Visits})
	return match
}

func (m *X01Model) renderActionPane() string {
	var b strings.Builder
	if leg, _, ok := m.tracker.ActiveLeg(); ok {
		b.WriteString(promptLineStyle.Render(fmt.Sprintf("%s to throw, %d left",
			m.tracker.PlayerName(leg.CurrentPlayerID), leg.Remaining(leg.CurrentPlayerID))))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpLine("Enter to score • ↑↓ PgUp/PgDn scroll log • Esc abandons the match"))
	return b.String()
}
