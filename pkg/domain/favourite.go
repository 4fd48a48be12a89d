package domain

// Favourite is a team saved by the authenticated user.
type Favourite struct {
	ID         int    `json:"id"`
	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	TeamCrest  string `json:"team_crest,omitempty"`
	TeamLeague string `json:"team_league,omitempty"`
}

// FavouriteFromTeam builds the add-favourite payload for a directory team.
func FavouriteFromTeam(t Team) Favourite {
	return Favourite{
		TeamID:     t.ID,
		TeamName:   t.Name,
		TeamCrest:  t.Crest,
		TeamLeague: t.League,
	}
}

// RemoveFavourite returns favs without the entries for teamID.
// It allocates a new slice; favs is left intact.
func RemoveFavourite(favs []Favourite, teamID int) []Favourite {
	out := make([]Favourite, 0, len(favs))
	for _, f := range favs {
		if f.TeamID != teamID {
			out = append(out, f)
		}
	}
	return out
}
