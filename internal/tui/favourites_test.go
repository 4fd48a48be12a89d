package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	s := session.Open(session.NewMemoryStorage())
	if err := s.Login(domain.User{ID: 1, Username: "alice"}, "tok123"); err != nil {
		t.Fatal(err)
	}
	return s
}

var testFavourites = []domain.Favourite{
	{ID: 1, TeamID: 57, TeamName: "Arsenal FC", TeamLeague: "Premier League"},
	{ID: 2, TeamID: 86, TeamName: "Real Madrid CF", TeamLeague: "La Liga"},
}

func newTestFavouritesModel(t *testing.T) favouritesModel {
	m := newFavouritesModel(nil, loggedInStore(t))
	m.mount()
	m, _ = m.Update(favouritesLoadedMsg{gen: m.scope.gen, favourites: append([]domain.Favourite(nil), testFavourites...)})
	return m
}

func TestFavouritesLoginPrompt(t *testing.T) {
	m := newFavouritesModel(nil, session.Open(session.NewMemoryStorage()))
	if cmd := m.mount(); cmd != nil {
		t.Error("no request expected while logged out")
	}
	if !strings.Contains(m.View(), "Sign in to save favourite teams") {
		t.Errorf("expected login prompt, got:\n%s", m.View())
	}
}

func TestFavouritesRendersList(t *testing.T) {
	m := newTestFavouritesModel(t)
	if !containsAll(m.View(), "Arsenal FC", "Real Madrid CF", "2 saved") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestFavouritesRemoveWaitsForServer(t *testing.T) {
	m := newTestFavouritesModel(t)
	m, _ = m.Update(keyMsg("j"))
	m, cmd := m.Update(keyMsg("d"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if len(m.favourites) != 2 {
		t.Fatal("list changed before the server answered")
	}

	m, _ = m.Update(favouriteRemovedMsg{gen: m.scope.gen, teamID: 86, name: "Real Madrid CF"})
	if len(m.favourites) != 1 || m.favourites[0].TeamID != 57 {
		t.Errorf("favourites = %+v, want only Arsenal", m.favourites)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
	if !strings.Contains(m.View(), "Real Madrid CF removed") {
		t.Errorf("expected confirmation:\n%s", m.View())
	}
}

func TestFavouritesRemoveFailureKeepsEntry(t *testing.T) {
	m := newTestFavouritesModel(t)
	m, _ = m.Update(keyMsg("d"))
	m, _ = m.Update(favouriteRemovedMsg{gen: m.scope.gen, teamID: 57, err: errors.New("connection reset")})
	if len(m.favourites) != 2 {
		t.Errorf("favourite removed despite failure: %+v", m.favourites)
	}
	if !strings.Contains(m.View(), "Could not remove favourite") {
		t.Errorf("expected fallback error:\n%s", m.View())
	}
}

func TestFavouritesRemoveIgnoresRepeatWhileInFlight(t *testing.T) {
	m := newTestFavouritesModel(t)
	m, first := m.Update(keyMsg("d"))
	m, second := m.Update(keyMsg("d"))
	if first == nil || second != nil {
		t.Errorf("first=%v second=%v, want one request", first != nil, second != nil)
	}
}

func TestFavouritesAgainstAPI(t *testing.T) {
	api, c, store := newFakeAPI(t)
	signIn(t, api, c, store)

	teams := newTeamsModel(c, store)
	cmd := teams.mount()
	teams, _ = teams.Update(cmd())
	_, cmd = teams.Update(keyMsg("f"))
	teams, _ = teams.Update(cmd())

	m := newFavouritesModel(c, store)
	cmd = m.mount()
	m, _ = m.Update(cmd())
	if len(m.favourites) != 1 {
		t.Fatalf("favourites = %+v", m.favourites)
	}

	m, cmd = m.Update(keyMsg("d"))
	m, _ = m.Update(cmd())
	if len(m.favourites) != 0 {
		t.Errorf("favourite still listed: %+v", m.favourites)
	}

	// The server agrees.
	favs, err := c.Favourites(m.scope.context())
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 0 {
		t.Errorf("server still has %+v", favs)
	}
}
