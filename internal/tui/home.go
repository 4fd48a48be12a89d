package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
)

// homeLoadedMsg carries both fixture lists; it is sent once after both
// requests have settled.
type homeLoadedMsg struct {
	gen      int
	upcoming []domain.Match
	recent   []domain.Match
	err      error
}

type homeModel struct {
	client   *client.Client
	scope    viewScope
	upcoming []domain.Match
	recent   []domain.Match
	loading  bool
	failed   bool
	width    int
	height   int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c}
}

func (m *homeModel) mount() tea.Cmd {
	m.scope.mount()
	m.loading = true
	return loadHome(m.scope.context(), m.client, m.scope.gen)
}

func (m *homeModel) unmount() {
	m.scope.unmount()
	m.loading = false
}

func loadHome(ctx context.Context, c *client.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		var upcoming, recent []domain.Match
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			upcoming, err = c.UpcomingMatches(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			recent, err = c.RecentMatches(ctx)
			return err
		})
		err := g.Wait()
		return homeLoadedMsg{gen: gen, upcoming: upcoming, recent: recent, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.failed = client.Classify(msg.err) != client.OutcomeUnauthorized
			return m, nil
		}
		m.failed = false
		m.upcoming = msg.upcoming
		m.recent = msg.recent

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading {
		return " " + dimStyle.Render("loading fixtures...")
	}
	if m.failed {
		return " " + dimStyle.Render("Could not load matches. Is the API running?")
	}

	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("UPCOMING") + "\n")
	if len(m.upcoming) == 0 {
		sb.WriteString("   " + dimStyle.Render("no upcoming matches") + "\n")
	}
	for _, match := range m.upcoming {
		sb.WriteString(m.renderMatch(match) + "\n")
	}

	sb.WriteString("\n " + sectionHeaderStyle.Render("RECENT RESULTS") + "\n")
	if len(m.recent) == 0 {
		sb.WriteString("   " + dimStyle.Render("no recent results") + "\n")
	}
	for _, match := range m.recent {
		sb.WriteString(m.renderMatch(match) + "\n")
	}
	return sb.String()
}

func (m homeModel) renderMatch(match domain.Match) string {
	when := formatMatchDate(match.Date)
	if match.Status != "finished" && match.Time != "" {
		when += " " + match.Time
	}
	score := dimStyle.Render(fmt.Sprintf("%5s", "vs"))
	if match.HomeScore != nil && match.AwayScore != nil {
		score = scoreStyle.Render(fmt.Sprintf("%2d-%-2d", *match.HomeScore, *match.AwayScore))
	}
	return "   " + metaStyle.Render(padRight(when, 16)) +
		normalStyle.Render(fmt.Sprintf("%18s", truncStr(match.HomeTeam, 18))) +
		"  " + score + "  " +
		normalStyle.Render(padRight(match.AwayTeam, 18)) +
		" " + LeagueStyle(match.League).Render(match.League)
}
