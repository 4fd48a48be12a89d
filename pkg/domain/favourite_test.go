package domain

import "testing"

func TestRemoveFavourite(t *testing.T) {
	favs := []Favourite{
		{ID: 1, TeamID: 57, TeamName: "Arsenal FC"},
		{ID: 2, TeamID: 86, TeamName: "Real Madrid CF"},
		{ID: 3, TeamID: 65, TeamName: "Manchester City FC"},
	}

	got := RemoveFavourite(favs, 86)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, f := range got {
		if f.TeamID == 86 {
			t.Errorf("team 86 still present: %+v", got)
		}
	}
	if got[0].TeamID != 57 || got[1].TeamID != 65 {
		t.Errorf("order not preserved: %+v", got)
	}
	if len(favs) != 3 || favs[1].TeamID != 86 {
		t.Errorf("input modified: %+v", favs)
	}
}

func TestRemoveFavouriteMissing(t *testing.T) {
	favs := []Favourite{{TeamID: 57}}
	if got := RemoveFavourite(favs, 1); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
	if got := RemoveFavourite(nil, 1); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFavouriteFromTeam(t *testing.T) {
	f := FavouriteFromTeam(Team{ID: 5, Name: "FC Bayern München", Crest: "b.png", League: "Bundesliga"})
	if f.TeamID != 5 || f.TeamName != "FC Bayern München" || f.TeamCrest != "b.png" || f.TeamLeague != "Bundesliga" {
		t.Errorf("FavouriteFromTeam = %+v", f)
	}
}
