package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

const maxSuggestions = 5

type predictTeamsLoadedMsg struct {
	gen   int
	names []string
	err   error
}

// predictResultMsg joins the prediction and the head-to-head lookup.
type predictResultMsg struct {
	gen        int
	prediction *domain.Prediction
	h2h        *domain.HeadToHead
	err        error
	h2hErr     error
}

type predictionSavedMsg struct {
	gen int
	err error
}

type copyResultMsg struct {
	err error
}

type predictModel struct {
	client *client.Client
	store  *session.Store
	scope  viewScope

	names   []string
	fields  [2]string // home, away
	focus   int
	typing  bool
	sugIdx  int
	loading bool

	predicting bool
	result     *domain.Prediction
	h2h        *domain.HeadToHead
	rejection  string
	errMsg     string
	notice     string

	width  int
	height int
}

func newPredictModel(c *client.Client, s *session.Store) predictModel {
	return predictModel{client: c, store: s, typing: true, sugIdx: -1}
}

func (m *predictModel) mount() tea.Cmd {
	m.scope.mount()
	m.predicting = false
	if len(m.names) > 0 {
		return nil
	}
	m.loading = true
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		names, err := c.PredictionTeams(ctx)
		return predictTeamsLoadedMsg{gen: gen, names: names, err: err}
	}
}

func (m *predictModel) unmount() {
	m.scope.unmount()
	m.loading = false
	m.predicting = false
}

func (m predictModel) editing() bool {
	return m.typing
}

func (m predictModel) suggestions() []string {
	return domain.SuggestTeams(m.names, m.fields[m.focus], maxSuggestions)
}

func (m predictModel) Update(msg tea.Msg) (predictModel, tea.Cmd) {
	switch msg := msg.(type) {
	case predictTeamsLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err == nil {
			m.names = msg.names
		}

	case predictResultMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.predicting = false
		switch client.Classify(msg.err) {
		case client.OutcomeOK:
			m.result = msg.prediction
			if msg.h2hErr == nil {
				m.h2h = msg.h2h
			}
			return m, m.save()
		case client.OutcomeRejected:
			m.result, m.h2h = nil, nil
			m.rejection = client.Message(msg.err, "Prediction not available for these teams")
		case client.OutcomeTransport:
			m.result, m.h2h = nil, nil
			m.errMsg = client.Message(msg.err, "Prediction failed. Try again.")
		}

	case predictionSavedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		if msg.err == nil {
			m.notice = "Saved to your history"
		} else if client.Classify(msg.err) != client.OutcomeUnauthorized {
			m.notice = client.Message(msg.err, "Could not save to history")
		}

	case copyResultMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied to clipboard"
		}

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		switch msg.String() {
		case "enter", "i":
			m.typing = true
		case "c":
			if m.result != nil {
				text := summary(*m.result, m.h2h)
				return m, func() tea.Msg {
					return copyResultMsg{err: clipboard.WriteAll(text)}
				}
			}
		case "r":
			m.fields = [2]string{}
			m.focus = 0
			m.typing = true
			m.clearResult()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m predictModel) updateTyping(msg tea.KeyMsg) (predictModel, tea.Cmd) {
	sugs := m.suggestions()
	switch msg.String() {
	case "esc":
		m.typing = false
		m.sugIdx = -1
	case "down", "ctrl+n":
		if m.sugIdx < len(sugs)-1 {
			m.sugIdx++
		}
	case "up", "ctrl+p":
		if m.sugIdx >= 0 {
			m.sugIdx--
		}
	case "tab", "shift+tab":
		if m.sugIdx >= 0 && m.sugIdx < len(sugs) {
			m.fields[m.focus] = sugs[m.sugIdx]
		}
		m.focus = 1 - m.focus
		m.sugIdx = -1
	case "enter":
		if m.sugIdx >= 0 && m.sugIdx < len(sugs) {
			m.fields[m.focus] = sugs[m.sugIdx]
			m.sugIdx = -1
			return m, nil
		}
		if m.focus == 0 && strings.TrimSpace(m.fields[1]) == "" {
			m.focus = 1
			return m, nil
		}
		return m, m.submit()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		m.sugIdx = -1
	}
	return m, nil
}

func (m *predictModel) clearResult() {
	m.result = nil
	m.h2h = nil
	m.rejection = ""
	m.errMsg = ""
	m.notice = ""
}

// submit fires the prediction and the head-to-head lookup together.
func (m *predictModel) submit() tea.Cmd {
	home, away := strings.TrimSpace(m.fields[0]), strings.TrimSpace(m.fields[1])
	if home == "" || away == "" {
		return nil
	}
	m.clearResult()
	m.predicting = true
	m.typing = false

	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		var out predictResultMsg
		out.gen = gen
		var g errgroup.Group
		g.Go(func() error {
			out.prediction, out.err = c.Predict(ctx, home, away)
			return nil
		})
		g.Go(func() error {
			out.h2h, out.h2hErr = c.HeadToHead(ctx, home, away)
			return nil
		})
		g.Wait() //nolint:errcheck // errors travel in the message
		return out
	}
}

func (m *predictModel) save() tea.Cmd {
	if m.result == nil || m.store == nil || !m.store.LoggedIn() {
		return nil
	}
	p := *m.result
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		_, err := c.SavePrediction(ctx, p)
		return predictionSavedMsg{gen: gen, err: err}
	}
}

// summary is the plain-text form of a prediction for the clipboard.
func summary(p domain.Prediction, h2h *domain.HeadToHead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s: %s (%.1f%% confidence)\n", p.HomeTeam, p.AwayTeam, p.Prediction, p.Confidence)
	fmt.Fprintf(&b, "Home %s · Draw %s · Away %s\n",
		pct(p.Probabilities.HomeWin), pct(p.Probabilities.Draw), pct(p.Probabilities.AwayWin))
	if h2h != nil && len(h2h.Matches) > 0 {
		w, d, l := h2h.Record()
		fmt.Fprintf(&b, "Last %d meetings: %dW %dD %dL\n", len(h2h.Matches), w, d, l)
	}
	return b.String()
}

func (m predictModel) View() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("PREDICT A MATCH") + "\n")
	sb.WriteString(" " + dimStyle.Render("Pick two teams from the same league.") + "\n\n")

	sb.WriteString(renderField("Home", m.fields[0], "e.g. Arsenal", m.typing && m.focus == 0, false) + "\n")
	if m.typing && m.focus == 0 {
		m.renderSuggestions(&sb)
	}
	sb.WriteString(renderField("Away", m.fields[1], "e.g. Chelsea", m.typing && m.focus == 1, false) + "\n")
	if m.typing && m.focus == 1 {
		m.renderSuggestions(&sb)
	}
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("loading teams...") + "\n")
	case m.predicting:
		sb.WriteString(" " + dimStyle.Render("predicting...") + "\n")
	case m.rejection != "":
		sb.WriteString(" " + errorStyle.Render(m.rejection) + "\n")
	case m.errMsg != "":
		sb.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
	case m.result != nil:
		m.renderResult(&sb)
	}

	if m.notice != "" {
		sb.WriteString("\n " + noticeStyle.Render(m.notice) + "\n")
	}
	return sb.String()
}

func (m predictModel) renderSuggestions(sb *strings.Builder) {
	for i, s := range m.suggestions() {
		if i == m.sugIdx {
			sb.WriteString("             " + accentStyle.Render("▸ "+s) + "\n")
		} else {
			sb.WriteString("               " + dimStyle.Render(s) + "\n")
		}
	}
}

func (m predictModel) renderResult(sb *strings.Builder) {
	p := m.result
	sb.WriteString(" " + scoreStyle.Render(p.Prediction) + "  " +
		dimStyle.Render(fmt.Sprintf("%.1f%% confidence", p.Confidence)))
	if p.League != "" {
		sb.WriteString("  " + LeagueStyle(p.League).Render(p.League))
	}
	sb.WriteString("\n\n")

	rows := []struct {
		label string
		p     float64
		style func(...string) string
	}{
		{truncStr(p.HomeTeam, 16), p.Probabilities.HomeWin, winStyle.Render},
		{"Draw", p.Probabilities.Draw, drawStyle.Render},
		{truncStr(p.AwayTeam, 16), p.Probabilities.AwayWin, lossStyle.Render},
	}
	for _, r := range rows {
		sb.WriteString("   " + normalStyle.Render(padRight(r.label, 17)) + r.style(bar(r.p, 30)) + " " + normalStyle.Render(fmt.Sprintf("%4s", pct(r.p))) + "\n")
	}

	if m.h2h == nil {
		return
	}
	sb.WriteString("\n " + sectionHeaderStyle.Render("HEAD TO HEAD") + "\n")
	if len(m.h2h.Matches) == 0 {
		sb.WriteString("   " + dimStyle.Render("no previous meetings") + "\n")
		return
	}
	w, d, l := m.h2h.Record()
	sb.WriteString("   " + winStyle.Render(fmt.Sprintf("%dW", w)) + " " + drawStyle.Render(fmt.Sprintf("%dD", d)) + " " + lossStyle.Render(fmt.Sprintf("%dL", l)) + "\n")
	for _, hm := range m.h2h.Matches {
		sb.WriteString("   " + resultStyle(hm.Result).Render(hm.Result) + "  " +
			metaStyle.Render(padRight(hm.Date, 12)) +
			normalStyle.Render(fmt.Sprintf("%s %d-%d %s", hm.HomeTeam, hm.HomeGoals, hm.AwayGoals, hm.AwayTeam)) + "\n")
	}
}
