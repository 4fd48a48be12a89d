package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

var pundits = [...]string{
	"It's a game of two halves. This is the half with the help text.",
	"Form is temporary. Expected goals are forever.",
	"The table never lies. It just takes a while to tell the truth.",
	"Nobody predicted that. Well, one model did, at 12%.",
	"Park the bus, open the terminal.",
	"Three points is three points.",
	"Home advantage is worth about sixty rating points. Probably.",
	"The draw was always on the cards. It was 26% on the cards.",
}

// banner renders the ASCII wordmark in pitch green.
func banner() string {
	art := strings.TrimRight(figure.NewFigure("kickstats", "cybermedium", true).String(), "\n")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff87")).Bold(true).Render(art)
}

func printHelp(out io.Writer) {
	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"` + pundits[rand.IntN(len(pundits))] + `"`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"kickstats", "Open the dashboard"},
		{"kickstats login", "Sign in or create an account"},
		{"kickstats logout", "Clear your session"},
		{"kickstats whoami", "Show the signed-in user"},
		{"kickstats demo", "Run against built-in sample data"},
		{"kickstats --version", "Show version"},
		{"kickstats help", "You are here"},
	}

	fmt.Fprintf(out, "\n%s\n\n  %s\n\n  Commands:\n", banner(), quote)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	envStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fmt.Fprintf(out, "\n  Environment:\n")
	for _, e := range [][2]string{
		{"KICKSTATS_API_URL", "API base URL (default http://localhost:8000)"},
		{"KICKSTATS_HOME", "Session and log directory (default ~/.kickstats)"},
		{"KICKSTATS_LOG_LEVEL", "debug, info, warn or error"},
		{"KICKSTATS_HTTP_TIMEOUT", "Request timeout, e.g. 30s"},
	} {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", e[0])), envStyle.Render(e[1]))
	}
	fmt.Fprintln(out)
}
