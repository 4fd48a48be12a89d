package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kickstats/kickstats/pkg/domain"
)

// Shimmer animation for the KICKSTATS logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "KICKSTATS" as a wave of pitch-green light
// running from a dark turf (#0b3d24) to the accent (#00ff87).
func renderShimmerLogo(frame int) string {
	const text = "KICKSTATS"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0 + math.Sin(t*0.023)*2.0

		b := math.Pow(math.Sin(phase)*0.5+0.5, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(11 + b*(0-11))
		g := clampByte(61 + b*(255-61))
		bl := clampByte(36 + b*(135-36))

		out.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl))).
			Render(string(text[i])))
		if i < n-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff87"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff87")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00ff87")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Bars for win/draw/loss probabilities and form letters.
	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff87"))
	drawStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a844"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06060"))

	leagueColors = map[string]lipgloss.Color{
		"Premier League":   lipgloss.Color("#b080d0"),
		"La Liga":          lipgloss.Color("#f0944a"),
		"Bundesliga":       lipgloss.Color("#e06060"),
		"Serie A":          lipgloss.Color("#60a0e0"),
		"Ligue 1":          lipgloss.Color("#3ecce4"),
		"Champions League": lipgloss.Color("#d4a844"),
	}
)

// LeagueStyle returns a style coloured for a competition name.
func LeagueStyle(league string) lipgloss.Style {
	if c, ok := leagueColors[league]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// zoneMarker renders the coloured bar in front of a table row.
func zoneMarker(z domain.Zone) string {
	switch z {
	case domain.ZoneChampionsLeague:
		return winStyle.Render("▌")
	case domain.ZoneEuropaLeague:
		return drawStyle.Render("▌")
	case domain.ZoneRelegation:
		return lossStyle.Render("▌")
	default:
		return " "
	}
}

// resultStyle colours a W/D/L letter.
func resultStyle(r string) lipgloss.Style {
	switch r {
	case "W":
		return winStyle.Bold(true)
	case "L":
		return lossStyle.Bold(true)
	default:
		return drawStyle.Bold(true)
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Data source", "football-data.org", "https://www.football-data.org"},
	{"How predictions work", "Poisson goal model", "https://en.wikipedia.org/wiki/Poisson_distribution"},
	{"Report an issue", "github.com/kickstats/kickstats", "https://github.com/kickstats/kickstats/issues"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ff87")).
		Bold(true).
		Render("K I C K S T A T S")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Fixtures, tables and match predictions in your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff87"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"kickstats", "Open the dashboard"},
		{"kickstats login", "Sign in or create an account"},
		{"kickstats logout", "Clear your session"},
		{"kickstats whoami", "Show the signed-in user"},
		{"kickstats demo", "Run against built-in sample data"},
		{"kickstats --version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-6", "Home, Teams, Standings, Predict, Favourites, History"},
		{"a", "Sign in / register"},
		{"o", "Sign out"},
		{"h", "This help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
