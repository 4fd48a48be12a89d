package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

type teamsLoadedMsg struct {
	gen   int
	teams []domain.Team
	err   error
}

type favouriteAddedMsg struct {
	gen  int
	team domain.Team
	err  error
}

// teamLeagueFilters is the cycle of the league filter; "" means all.
var teamLeagueFilters = append([]string{""}, domain.DomesticLeagues...)

type teamsModel struct {
	client    *client.Client
	store     *session.Store
	scope     viewScope
	teams     []domain.Team
	search    string
	searching bool
	leagueIdx int
	cursor    int
	loading   bool
	failed    bool
	notice    string
	noticeErr bool
	width     int
	height    int
}

func newTeamsModel(c *client.Client, s *session.Store) teamsModel {
	return teamsModel{client: c, store: s}
}

func (m *teamsModel) mount() tea.Cmd {
	m.scope.mount()
	m.loading = true
	m.notice = ""
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		teams, err := c.Teams(ctx)
		return teamsLoadedMsg{gen: gen, teams: teams, err: err}
	}
}

func (m *teamsModel) unmount() {
	m.scope.unmount()
	m.loading = false
	m.searching = false
}

func (m teamsModel) league() string {
	return teamLeagueFilters[m.leagueIdx]
}

func (m teamsModel) filtered() []domain.Team {
	return domain.FilterTeams(m.teams, m.search, m.league())
}

func (m teamsModel) editing() bool {
	return m.searching
}

func (m teamsModel) Update(msg tea.Msg) (teamsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case teamsLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.failed = client.Classify(msg.err) != client.OutcomeUnauthorized
			return m, nil
		}
		m.failed = false
		m.teams = msg.teams
		m.clampCursor()

	case favouriteAddedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		switch client.Classify(msg.err) {
		case client.OutcomeOK:
			m.notice, m.noticeErr = msg.team.Name+" added to favourites", false
		case client.OutcomeUnauthorized:
			m.notice = ""
		default:
			m.notice, m.noticeErr = client.Message(msg.err, "Could not add favourite"), true
		}

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc", "enter":
				m.searching = false
			default:
				m.search = editRune(m.search, msg.String())
				m.cursor = 0
			}
			return m, nil
		}
		switch msg.String() {
		case "/":
			m.searching = true
		case "l":
			m.leagueIdx = (m.leagueIdx + 1) % len(teamLeagueFilters)
			m.cursor = 0
		case "x":
			m.search = ""
			m.leagueIdx = 0
			m.cursor = 0
		case "j", "down":
			m.cursor++
			m.clampCursor()
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "f":
			return m, m.addFavourite()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *teamsModel) clampCursor() {
	n := len(m.filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *teamsModel) addFavourite() tea.Cmd {
	list := m.filtered()
	if len(list) == 0 {
		return nil
	}
	if m.store == nil || !m.store.LoggedIn() {
		m.notice, m.noticeErr = "Sign in to save favourites (press a)", true
		return nil
	}
	team := list[m.cursor]
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		err := c.AddFavourite(ctx, domain.FavouriteFromTeam(team))
		return favouriteAddedMsg{gen: gen, team: team, err: err}
	}
}

func (m teamsModel) View() string {
	if m.loading {
		return " " + dimStyle.Render("loading teams...")
	}
	if m.failed {
		return " " + dimStyle.Render("Could not load teams.")
	}

	var sb strings.Builder

	league := m.league()
	if league == "" {
		league = "All leagues"
	}
	searchLine := " " + searchStyle.Render("/") + " "
	switch {
	case m.searching:
		searchLine += normalStyle.Render(m.search) + accentStyle.Render("█")
	case m.search != "":
		searchLine += normalStyle.Render(m.search)
	default:
		searchLine += inputPlaceholderStyle.Render("search teams")
	}
	searchLine += "   " + dimStyle.Render("league: ") + LeagueStyle(m.league()).Render(league)
	sb.WriteString(searchLine + "\n")

	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		sb.WriteString(" " + style.Render(m.notice) + "\n")
	}
	sb.WriteString("\n")

	list := m.filtered()
	if len(list) == 0 {
		sb.WriteString(" " + dimStyle.Render("no teams match") + "\n")
		return sb.String()
	}

	rows := m.height - 4
	start := windowStart(m.cursor, rows)
	for i := start; i < len(list) && (rows <= 0 || i < start+rows); i++ {
		t := list[i]
		line := fmt.Sprintf("%-28s %-16s %-9s %s",
			truncStr(t.Name, 28), truncStr(t.League, 16), founded(t.Founded), truncStr(t.Venue, 30))
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + " " + selectedRowBg.Render(selectedStyle.Render(line)) + "\n")
		} else {
			sb.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	sb.WriteString("\n " + metaStyle.Render(fmt.Sprintf("%d of %d teams", len(list), len(m.teams))) + "\n")
	return sb.String()
}

func founded(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("est. %d", year)
}

