package domain

// League is a competition the standings endpoint understands.
type League struct {
	Code  string
	Name  string
	Short string
}

// Leagues lists the supported competitions in tab order.
var Leagues = []League{
	{Code: "PL", Name: "Premier League", Short: "EPL"},
	{Code: "PD", Name: "La Liga", Short: "LAL"},
	{Code: "BL1", Name: "Bundesliga", Short: "BUN"},
	{Code: "SA", Name: "Serie A", Short: "SA"},
	{Code: "FL1", Name: "Ligue 1", Short: "L1"},
	{Code: "CL", Name: "Champions League", Short: "UCL"},
}

// DomesticLeagues are the league names the team directory can be filtered by.
var DomesticLeagues = []string{"Premier League", "La Liga", "Bundesliga", "Serie A", "Ligue 1"}

// LeagueByCode returns the league for a code.
func LeagueByCode(code string) (League, bool) {
	for _, l := range Leagues {
		if l.Code == code {
			return l, true
		}
	}
	return League{}, false
}
