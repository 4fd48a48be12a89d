package domain

// Probabilities are the model's outcome probabilities, each in [0,1].
type Probabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Prediction is a successful answer of the predict endpoint.
type Prediction struct {
	HomeTeam      string        `json:"home_team"`
	AwayTeam      string        `json:"away_team"`
	League        string        `json:"league,omitempty"`
	Prediction    string        `json:"prediction"`
	Winner        string        `json:"winner,omitempty"` // "home", "draw" or "away"
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence"`
}

// H2HMatch is a past meeting. Result is W, D or L from the perspective of
// the requested home team.
type H2HMatch struct {
	Date      string `json:"date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Result    string `json:"result"`
}

// HeadToHead is the response of the h2h endpoint.
type HeadToHead struct {
	Team    string     `json:"team,omitempty"`
	Matches []H2HMatch `json:"matches"`
}

// Record counts wins, draws and losses in the meetings.
func (h HeadToHead) Record() (w, d, l int) {
	for _, m := range h.Matches {
		switch m.Result {
		case "W":
			w++
		case "D":
			d++
		case "L":
			l++
		}
	}
	return w, d, l
}
