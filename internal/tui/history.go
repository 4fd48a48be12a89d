package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

type historyLoadedMsg struct {
	gen     int
	history *domain.PredictionHistory
	err     error
}

type historyModel struct {
	client  *client.Client
	store   *session.Store
	scope   viewScope
	history *domain.PredictionHistory
	offset  int
	loading bool
	failed  bool
	width   int
	height  int
}

func newHistoryModel(c *client.Client, s *session.Store) historyModel {
	return historyModel{client: c, store: s}
}

func (m historyModel) loggedIn() bool {
	return m.store != nil && m.store.LoggedIn()
}

func (m *historyModel) mount() tea.Cmd {
	m.scope.mount()
	m.offset = 0
	if !m.loggedIn() {
		m.history = nil
		m.loading = false
		return nil
	}
	m.loading = true
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		h, err := c.PredictionHistory(ctx)
		return historyLoadedMsg{gen: gen, history: h, err: err}
	}
}

func (m *historyModel) unmount() {
	m.scope.unmount()
	m.loading = false
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.failed = client.Classify(msg.err) != client.OutcomeUnauthorized
			return m, nil
		}
		m.failed = false
		m.history = msg.history

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.history != nil && m.offset < len(m.history.Predictions)-1 {
				m.offset++
			}
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		case "r":
			return m, m.mount()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m historyModel) View() string {
	if !m.loggedIn() {
		return loginPrompt("keep a history of your predictions")
	}
	if m.loading {
		return " " + dimStyle.Render("loading history...")
	}
	if m.failed {
		return " " + dimStyle.Render("Could not load prediction history.")
	}
	if m.history == nil {
		return ""
	}

	var sb strings.Builder
	st := m.history.Stats
	sb.WriteString(" " + sectionHeaderStyle.Render("YOUR PREDICTIONS") + "\n\n")
	sb.WriteString("   " + scoreStyle.Render(fmt.Sprintf("%d", st.Total)) + " " + dimStyle.Render("total") +
		"   " + winStyle.Render(fmt.Sprintf("%d", st.Correct)) + " " + dimStyle.Render("correct") +
		"   " + drawStyle.Render(fmt.Sprintf("%d", st.Pending)) + " " + dimStyle.Render("pending") +
		"   " + accentStyle.Render(fmt.Sprintf("%.1f%%", st.Accuracy)) + " " + dimStyle.Render("accuracy") + "\n\n")

	if len(m.history.Predictions) == 0 {
		sb.WriteString("   " + dimStyle.Render("No predictions saved yet. Make one in the Predict tab.") + "\n")
		return sb.String()
	}

	for _, e := range m.history.Predictions[m.offset:] {
		sb.WriteString("   " + historyMark(e) + " " +
			normalStyle.Render(padRight(e.HomeTeam+" vs "+e.AwayTeam, 40)) +
			dimStyle.Render(padRight(e.PredictedOutcome, 22)) +
			metaStyle.Render(formatTime(e.CreatedAt)) + "\n")
	}
	return truncateToHeight(sb.String(), m.height-4)
}

// historyMark renders a tick, a cross or a pending dot for an entry.
func historyMark(e domain.HistoryEntry) string {
	switch {
	case e.WasCorrect == nil:
		return drawStyle.Render("·")
	case *e.WasCorrect:
		return winStyle.Render("✓")
	default:
		return lossStyle.Render("✗")
	}
}
