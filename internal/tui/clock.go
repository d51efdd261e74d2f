package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/darts/internal/game"
	"github.com/lox/darts/internal/tracker"
)

// ClockModel runs the tracker's Around the Clock round. Start the round
// before running the program.
type ClockModel struct {
	ctx       context.Context
	tracker   *tracker.Tracker
	logger    *log.Logger
	formatter *game.EventFormatter
	unsub     func()

	log gameLog

	status   string
	session  *game.PracticeSession
	quitting bool

	width  int
	height int
}

// NewClockModel builds the practice view for tr's current round.
func NewClockModel(ctx context.Context, tr *tracker.Tracker, logger *log.Logger) *ClockModel {
	return NewClockModelWithOptions(ctx, tr, logger, false)
}

// NewClockModelWithOptions allows test mode, which captures log lines instead
// of rendering them.
func NewClockModelWithOptions(ctx context.Context, tr *tracker.Tracker, logger *log.Logger, testMode bool) *ClockModel {
	m := &ClockModel{
		ctx:       ctx,
		tracker:   tr,
		logger:    logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{Names: tr.PlayerName}),
		log:       newGameLog(testMode),
	}
	m.unsub = tr.Events().Subscribe(game.EventSubscriberFunc(m.onEvent))
	return m
}

func (m *ClockModel) onEvent(event game.GameEvent) {
	line := m.formatter.Format(event)
	if line == "" {
		return
	}
	m.log.add(line, styleEvent(event, line))
}

// Init initializes the model
func (m *ClockModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ClockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc", "q":
			return m, m.quit()
		case "h", " ":
			return m, m.Throw(true)
		case "m", "x":
			return m, m.Throw(false)
		default:
			m.log.scroll(key)
		}
	}
	return m, nil
}

// Throw registers one dart for the current player and quits once someone
// completes the clock.
func (m *ClockModel) Throw(hit bool) tea.Cmd {
	m.status = ""
	res, err := m.tracker.RegisterDart(m.ctx, hit)
	if err != nil {
		m.logger.Error("Failed to register dart", "error", err)
		m.status = err.Error()
	}
	if res.Finished {
		session := res.Session
		m.session = &session
		return m.quit()
	}
	return nil
}

func (m *ClockModel) quit() tea.Cmd {
	if m.session == nil {
		m.tracker.ResetAroundTheClock()
	}
	m.quitting = true
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	return tea.Quit
}

// Finished returns the recorded session once a player has completed the
// clock.
func (m *ClockModel) Finished() (game.PracticeSession, bool) {
	if m.session == nil {
		return game.PracticeSession{}, false
	}
	return *m.session, true
}

// Status returns the last error shown to the user.
func (m *ClockModel) Status() string {
	return m.status
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *ClockModel) GetCapturedLog() []string {
	return m.log.capturedLog()
}

// View renders the practice board
func (m *ClockModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return layout(m.width, m.height, &m.log, m.renderBoard(), m.renderActionPane())
}

func (m *ClockModel) renderBoard() string {
	snap, ok := m.tracker.Practice()
	if !ok {
		return mutedStyle.Render("No round in progress")
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("1 to %d, %d darts a turn", snap.MaxTarget, snap.DartsPerTurn)))
	b.WriteString("\n\n")
	for i, id := range snap.PlayerIDs {
		s := snap.States[id]
		line := fmt.Sprintf("%-12s on %2d  streak %d (best %d)  %s per number",
			m.tracker.PlayerName(id),
			s.ReachedTarget(),
			s.CurrentStreak,
			s.BestStreak,
			formatAverage(game.AverageDartsPerNumber(s)))
		if i == snap.CurrentIndex && !snap.Finished() {
			b.WriteString(throwerStyle.Render("▶ " + line))
		} else {
			b.WriteString(playerStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *ClockModel) renderActionPane() string {
	var b strings.Builder
	if snap, ok := m.tracker.Practice(); ok && !snap.Finished() {
		id := snap.CurrentPlayerID()
		b.WriteString(promptLineStyle.Render(fmt.Sprintf("%s: dart %d of %d at %d",
			m.tracker.PlayerName(id), snap.DartInTurn+1, snap.DartsPerTurn, snap.States[id].CurrentTarget)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpLine("h/space hit • m/x miss • ↑↓ scroll log • q quits"))
	return b.String()
}
