package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
)

type standingsLoadedMsg struct {
	gen       int
	code      string
	standings *domain.Standings
	err       error
}

type standingsModel struct {
	client    *client.Client
	scope     viewScope
	leagueIdx int
	standings *domain.Standings
	loading   bool
	failed    bool
	offset    int
	width     int
	height    int
}

func newStandingsModel(c *client.Client) standingsModel {
	return standingsModel{client: c}
}

func (m standingsModel) code() string {
	return domain.Leagues[m.leagueIdx].Code
}

// mount fetches the selected league. Switching league remounts, so a slow
// answer for the previous league cannot overwrite the new one.
func (m *standingsModel) mount() tea.Cmd {
	m.scope.mount()
	m.loading = true
	m.offset = 0
	c, ctx, gen, code := m.client, m.scope.context(), m.scope.gen, m.code()
	return func() tea.Msg {
		s, err := c.Standings(ctx, code)
		return standingsLoadedMsg{gen: gen, code: code, standings: s, err: err}
	}
}

func (m *standingsModel) unmount() {
	m.scope.unmount()
	m.loading = false
}

func (m standingsModel) Update(msg tea.Msg) (standingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case standingsLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.failed = client.Classify(msg.err) != client.OutcomeUnauthorized
			m.standings = nil
			return m, nil
		}
		m.failed = false
		m.standings = msg.standings

	case tea.KeyMsg:
		switch msg.String() {
		case "l", "right":
			m.leagueIdx = (m.leagueIdx + 1) % len(domain.Leagues)
			return m, m.mount()
		case "L", "left":
			m.leagueIdx = (m.leagueIdx + len(domain.Leagues) - 1) % len(domain.Leagues)
			return m, m.mount()
		case "j", "down":
			m.offset++
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m standingsModel) View() string {
	var sb strings.Builder

	var tabs []string
	for i, l := range domain.Leagues {
		if i == m.leagueIdx {
			tabs = append(tabs, LeagueStyle(l.Name).Bold(true).Underline(true).Render(l.Short))
		} else {
			tabs = append(tabs, dimStyle.Render(l.Short))
		}
	}
	sb.WriteString(" " + strings.Join(tabs, "  ") + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("loading table...") + "\n")
		return sb.String()
	case m.failed:
		sb.WriteString(" " + dimStyle.Render("Could not load standings.") + "\n")
		return sb.String()
	case m.standings == nil:
		return sb.String()
	}

	var body strings.Builder
	if m.standings.Grouped() {
		for i, g := range m.standings.Groups {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(g.Label())) + "\n")
			renderTable(&body, g.Table, false)
		}
	} else {
		renderTable(&body, m.standings.Standings, true)
		body.WriteString("\n " + winStyle.Render("▌") + dimStyle.Render(" Champions League  ") +
			drawStyle.Render("▌") + dimStyle.Render(" Europa League  ") +
			lossStyle.Render("▌") + dimStyle.Render(" Relegation") + "\n")
	}

	lines := strings.Split(body.String(), "\n")
	offset := m.offset
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	sb.WriteString(strings.Join(lines[offset:], "\n"))
	return sb.String()
}

func renderTable(sb *strings.Builder, rows []domain.StandingRow, zones bool) {
	sb.WriteString("   " + metaStyle.Render(fmt.Sprintf("%3s  %-20s %3s %3s %3s %3s %4s %4s %4s %4s",
		"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")) + "\n")
	for _, r := range rows {
		marker := " "
		if zones {
			marker = zoneMarker(domain.StandingZone(r.Position, len(rows)))
		}
		line := fmt.Sprintf("%3d  %-20s %3d %3d %3d %3d %4d %4d %+4d ",
			r.Position, truncStr(r.Team, 20), r.Played, r.Won, r.Drawn, r.Lost, r.GF, r.GA, r.GD)
		sb.WriteString(" " + marker + " " + normalStyle.Render(line) + scoreStyle.Render(fmt.Sprintf("%4d", r.Points)) + "\n")
	}
}
