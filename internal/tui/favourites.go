package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

type favouritesLoadedMsg struct {
	gen        int
	favourites []domain.Favourite
	err        error
}

type favouriteRemovedMsg struct {
	gen    int
	teamID int
	name   string
	err    error
}

type favouritesModel struct {
	client     *client.Client
	store      *session.Store
	scope      viewScope
	favourites []domain.Favourite
	cursor     int
	loading    bool
	removing   bool
	failed     bool
	notice     string
	noticeErr  bool
	width      int
	height     int
}

func newFavouritesModel(c *client.Client, s *session.Store) favouritesModel {
	return favouritesModel{client: c, store: s}
}

func (m favouritesModel) loggedIn() bool {
	return m.store != nil && m.store.LoggedIn()
}

func (m *favouritesModel) mount() tea.Cmd {
	m.scope.mount()
	m.notice = ""
	m.removing = false
	if !m.loggedIn() {
		m.favourites = nil
		m.loading = false
		return nil
	}
	m.loading = true
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		favs, err := c.Favourites(ctx)
		return favouritesLoadedMsg{gen: gen, favourites: favs, err: err}
	}
}

func (m *favouritesModel) unmount() {
	m.scope.unmount()
	m.loading = false
	m.removing = false
}

func (m favouritesModel) Update(msg tea.Msg) (favouritesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case favouritesLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.failed = client.Classify(msg.err) != client.OutcomeUnauthorized
			return m, nil
		}
		m.failed = false
		m.favourites = msg.favourites
		m.clampCursor()

	case favouriteRemovedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.removing = false
		switch client.Classify(msg.err) {
		case client.OutcomeOK:
			m.favourites = domain.RemoveFavourite(m.favourites, msg.teamID)
			m.clampCursor()
			m.notice, m.noticeErr = msg.name+" removed", false
		case client.OutcomeUnauthorized:
		default:
			m.notice, m.noticeErr = client.Message(msg.err, "Could not remove favourite"), true
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.favourites)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "d", "delete":
			return m, m.remove()
		case "r":
			return m, m.mount()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *favouritesModel) clampCursor() {
	if m.cursor >= len(m.favourites) {
		m.cursor = len(m.favourites) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// remove deletes the highlighted favourite on the server. The local list
// only changes once the server has confirmed.
func (m *favouritesModel) remove() tea.Cmd {
	if m.removing || len(m.favourites) == 0 || !m.loggedIn() {
		return nil
	}
	m.removing = true
	fav := m.favourites[m.cursor]
	c, ctx, gen := m.client, m.scope.context(), m.scope.gen
	return func() tea.Msg {
		err := c.RemoveFavourite(ctx, fav.TeamID)
		return favouriteRemovedMsg{gen: gen, teamID: fav.TeamID, name: fav.TeamName, err: err}
	}
}

func (m favouritesModel) View() string {
	if !m.loggedIn() {
		return loginPrompt("save favourite teams")
	}
	if m.loading {
		return " " + dimStyle.Render("loading favourites...")
	}
	if m.failed {
		return " " + dimStyle.Render("Could not load favourites.")
	}

	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("FAVOURITE TEAMS") + "\n")
	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		sb.WriteString(" " + style.Render(m.notice) + "\n")
	}
	sb.WriteString("\n")

	if len(m.favourites) == 0 {
		sb.WriteString("   " + dimStyle.Render("No favourites yet. Press f on a team in the Teams tab.") + "\n")
		return sb.String()
	}
	for i, f := range m.favourites {
		line := normalStyle.Render(padRight(f.TeamName, 28))
		if f.TeamLeague != "" {
			line += " " + LeagueStyle(f.TeamLeague).Render(f.TeamLeague)
		}
		if i == m.cursor {
			sb.WriteString(" " + accentStyle.Render("▸") + " " + selectedRowBg.Render(line) + "\n")
		} else {
			sb.WriteString("   " + line + "\n")
		}
	}
	sb.WriteString("\n " + metaStyle.Render(fmt.Sprintf("%d saved", len(m.favourites))) + "\n")
	return sb.String()
}

// loginPrompt is shown by views that need a session.
func loginPrompt(what string) string {
	return "\n " + dimStyle.Render("Sign in to "+what+".") + "\n\n   " +
		helpEntry("a", "sign in or register") + "\n"
}
