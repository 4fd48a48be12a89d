package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kickstats/kickstats/internal/browser"
	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/session"
)

type view int

const (
	viewHome view = iota
	viewTeams
	viewStandings
	viewPredict
	viewFavourites
	viewHistory
	viewAuth
)

type sessionExpiredMsg struct{}

// SessionExpired is sent into the program when the client has dropped the
// session after a 401.
func SessionExpired() tea.Msg { return sessionExpiredMsg{} }

// Option configures an App.
type Option func(*App)

// StartOnAuth opens the app on the sign-in form.
func StartOnAuth() Option {
	return func(a *App) { a.view = viewAuth }
}

// WithVersion enables the background check for a newer release.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// App is the root Bubbletea model.
type App struct {
	client     *client.Client
	store      *session.Store
	view       view
	home       homeModel
	teams      teamsModel
	standings  standingsModel
	predict    predictModel
	favourites favouritesModel
	history    historyModel
	auth       authModel
	helpOpen   bool
	helpCursor int
	status     string
	width      int
	height     int
	frame      int // logo shimmer animation frame
	version    string
	latest     string // newer release tag, if any
	initCmd    tea.Cmd
}

// NewApp creates a new TUI application and mounts its first view.
func NewApp(c *client.Client, s *session.Store, opts ...Option) App {
	a := App{
		client:     c,
		store:      s,
		home:       newHomeModel(c),
		teams:      newTeamsModel(c, s),
		standings:  newStandingsModel(c),
		predict:    newPredictModel(c, s),
		favourites: newFavouritesModel(c, s),
		history:    newHistoryModel(c, s),
		auth:       newAuthModel(c, s),
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.initCmd = a.mount(a.view)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, shimmerTickCmd(), checkRelease(releasesURL, a.version))
}

func (a *App) mount(v view) tea.Cmd {
	switch v {
	case viewHome:
		return a.home.mount()
	case viewTeams:
		return a.teams.mount()
	case viewStandings:
		return a.standings.mount()
	case viewPredict:
		return a.predict.mount()
	case viewFavourites:
		return a.favourites.mount()
	case viewHistory:
		return a.history.mount()
	case viewAuth:
		return a.auth.mount()
	}
	return nil
}

func (a *App) unmount(v view) {
	switch v {
	case viewHome:
		a.home.unmount()
	case viewTeams:
		a.teams.unmount()
	case viewStandings:
		a.standings.unmount()
	case viewPredict:
		a.predict.unmount()
	case viewFavourites:
		a.favourites.unmount()
	case viewHistory:
		a.history.unmount()
	case viewAuth:
		a.auth.unmount()
	}
}

// switchTo tears down the current view and mounts v, even when v is
// already showing.
func (a *App) switchTo(v view) tea.Cmd {
	a.unmount(a.view)
	a.view = v
	return a.mount(v)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.home, _ = a.home.Update(bodyMsg)
		a.teams, _ = a.teams.Update(bodyMsg)
		a.standings, _ = a.standings.Update(bodyMsg)
		a.predict, _ = a.predict.Update(bodyMsg)
		a.favourites, _ = a.favourites.Update(bodyMsg)
		a.history, _ = a.history.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case releaseCheckMsg:
		a.latest = msg.latest
		return a, nil

	case sessionExpiredMsg:
		a.helpOpen = false
		cmd := a.switchTo(viewAuth)
		a.auth.notice = "Your session has expired. Please sign in again."
		return a, cmd

	case loggedInMsg:
		current := a.view == viewAuth && a.auth.scope.current(msg.gen)
		a.auth, _ = a.auth.Update(msg)
		if current && msg.err == nil {
			a.status = "Signed in as " + msg.user.Username
			return a, a.switchTo(viewHome)
		}
		return a, nil

	case homeLoadedMsg:
		a.home, _ = a.home.Update(msg)
		return a, nil
	case teamsLoadedMsg, favouriteAddedMsg:
		var cmd tea.Cmd
		a.teams, cmd = a.teams.Update(msg)
		return a, cmd
	case standingsLoadedMsg:
		a.standings, _ = a.standings.Update(msg)
		return a, nil
	case predictTeamsLoadedMsg, predictResultMsg, predictionSavedMsg, copyResultMsg:
		var cmd tea.Cmd
		a.predict, cmd = a.predict.Update(msg)
		return a, cmd
	case favouritesLoadedMsg, favouriteRemovedMsg:
		a.favourites, _ = a.favourites.Update(msg)
		return a, nil
	case historyLoadedMsg:
		a.history, _ = a.history.Update(msg)
		return a, nil

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if err := browser.Open(helpItems[a.helpCursor].url); err != nil {
					a.status = "Could not open browser: " + err.Error()
				}
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.view == viewAuth && msg.String() == "esc" {
			return a, a.switchTo(viewHome)
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "1", "2", "3", "4", "5", "6":
				v := view(msg.String()[0] - '1')
				if v == a.view {
					return a, nil
				}
				a.status = ""
				return a, a.switchTo(v)
			case "a":
				a.status = ""
				return a, a.switchTo(viewAuth)
			case "o":
				return a, a.logout()
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewTeams:
		a.teams, cmd = a.teams.Update(msg)
	case viewStandings:
		a.standings, cmd = a.standings.Update(msg)
	case viewPredict:
		a.predict, cmd = a.predict.Update(msg)
	case viewFavourites:
		a.favourites, cmd = a.favourites.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	}
	return a, cmd
}

func (a *App) logout() tea.Cmd {
	if a.store == nil || !a.store.LoggedIn() {
		a.status = "Not signed in"
		return nil
	}
	if err := a.store.Logout(); err != nil {
		a.status = "Signed out (could not clear saved session: " + err.Error() + ")"
	} else {
		a.status = "Signed out"
	}
	return a.switchTo(viewHome)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewTeams:
		return a.teams.editing()
	case viewPredict:
		return a.predict.editing()
	case viewAuth:
		return true
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	var who string
	if a.store != nil {
		if u := a.store.Current().User; u != nil {
			who = metaStyle.Render("signed in as ") + accentStyle.Render(u.Username)
		}
	}
	if who == "" {
		who = metaStyle.Render("not signed in . press a")
	}

	if a.latest != "" {
		who += metaStyle.Render(" . ") + noticeStyle.Render(a.latest+" available")
	}
	header := center(logo, a.width) + "\n" + center(who, a.width)

	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "Home", viewHome},
		{"2", "Teams", viewTeams},
		{"3", "Standings", viewStandings},
		{"4", "Predict", viewPredict},
		{"5", "Favourites", viewFavourites},
		{"6", "History", viewHistory},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		tabBar.WriteString(padCenter(label, colWidth))
	}

	var body, help string
	tabsHelp := helpEntry("1-6", "tabs")
	tail := "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + tabsHelp + "  " + helpEntry("a", "sign in") + "  " + helpEntry("o", "sign out") + tail
	case viewTeams:
		body = a.teams.View()
		if a.teams.searching {
			help = " " + helpEntry("enter", "done") + "  " + helpEntry("esc", "done") + "  " + helpEntry("ctrl+u", "clear")
		} else {
			help = " " + tabsHelp + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("l", "league") + "  " + helpEntry("x", "reset") + "  " + helpEntry("f", "favourite") + tail
		}
	case viewStandings:
		body = a.standings.View()
		help = " " + tabsHelp + "  " + helpEntry("l/L", "league") + "  " + helpEntry("j/k", "scroll") + tail
	case viewPredict:
		body = a.predict.View()
		if a.predict.typing {
			help = " " + helpEntry("tab", "next team") + "  " + helpEntry("up/down", "suggestions") + "  " + helpEntry("enter", "predict") + "  " + helpEntry("esc", "nav")
		} else {
			help = " " + tabsHelp + "  " + helpEntry("enter", "edit") + "  " + helpEntry("c", "copy") + "  " + helpEntry("r", "reset") + tail
		}
	case viewFavourites:
		body = a.favourites.View()
		help = " " + tabsHelp + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("d", "remove") + "  " + helpEntry("r", "refresh") + tail
	case viewHistory:
		body = a.history.View()
		help = " " + tabsHelp + "  " + helpEntry("j/k", "scroll") + "  " + helpEntry("r", "refresh") + tail
	case viewAuth:
		body = a.auth.View()
		help = " " + helpEntry("esc", "back") + "  " + helpEntry("ctrl+c", "quit")
	}

	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	status := ""
	if a.status != "" {
		status = " " + noticeStyle.Render(a.status)
	}

	// Chrome budget: header(2) + tabs(1) + status(1) + help(1) = 5 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-5), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, help)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	left := (width - w) / 2
	if left < 0 {
		left = 0
	}
	right := width - w - left
	if right < 0 {
		right = 0
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
