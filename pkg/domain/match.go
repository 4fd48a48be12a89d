package domain

import "strconv"

// Match is a fixture or a finished result.
// Date is YYYY-MM-DD and Time is HH:MM in UTC.
type Match struct {
	ID        int    `json:"id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	League    string `json:"league"`
	Status    string `json:"status"` // "upcoming" or "finished"
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
}

// Score renders "2 – 1" for finished matches and "vs" otherwise.
func (m Match) Score() string {
	if m.HomeScore == nil || m.AwayScore == nil {
		return "vs"
	}
	return strconv.Itoa(*m.HomeScore) + " – " + strconv.Itoa(*m.AwayScore)
}
