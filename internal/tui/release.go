package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// releasesURL is the GitHub endpoint for the latest published release.
const releasesURL = "https://api.github.com/repos/kickstats/kickstats/releases/latest"

// releaseCheckMsg carries a newer release tag, or "" when there is none or
// the check failed.
type releaseCheckMsg struct {
	latest string
}

// checkRelease looks for a newer CLI release in the background. Dev builds
// skip the check.
func checkRelease(url, current string) tea.Cmd {
	if current == "" || current == "dev" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return releaseCheckMsg{}
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return releaseCheckMsg{}
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusOK {
			return releaseCheckMsg{}
		}
		var release struct {
			TagName string `json:"tag_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return releaseCheckMsg{}
		}
		if !isNewerVersion(release.TagName, current) {
			return releaseCheckMsg{}
		}
		return releaseCheckMsg{latest: "v" + strings.TrimPrefix(release.TagName, "v")}
	}
}

// isNewerVersion compares two major.minor.patch strings, with or without a
// leading v. Unparseable parts count as zero.
func isNewerVersion(latest, current string) bool {
	l, c := semver(latest), semver(current)
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func semver(v string) [3]int {
	var out [3]int
	parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
	for i, p := range parts {
		n, _ := strconv.Atoi(p) //nolint:errcheck
		out[i] = n
	}
	return out
}
