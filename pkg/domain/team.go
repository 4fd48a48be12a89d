package domain

import "strings"

// Team is an entry of the team directory.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	Crest     string `json:"crest,omitempty"`
	League    string `json:"league"`
	Country   string `json:"country,omitempty"`
	Founded   int    `json:"founded,omitempty"`
	Venue     string `json:"venue,omitempty"`
}

// FilterTeams returns the teams whose name contains search (case-insensitive)
// and whose league equals league. An empty league matches every team.
// The source order is preserved and the input slice is not modified.
func FilterTeams(teams []Team, search, league string) []Team {
	needle := strings.ToLower(search)
	out := make([]Team, 0, len(teams))
	for _, t := range teams {
		if !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		if league != "" && t.League != league {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SuggestTeams returns up to limit names containing query (case-insensitive),
// in source order. An empty query yields no suggestions, and a name equal to
// the query is not suggested again.
func SuggestTeams(names []string, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var out []string
	for _, n := range names {
		ln := strings.ToLower(n)
		if ln == q || !strings.Contains(ln, q) {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}
