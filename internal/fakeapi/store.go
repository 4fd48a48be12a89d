package fakeapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kickstats/kickstats/pkg/domain"
)

type account struct {
	user         domain.User
	passwordHash []byte
}

// store is the fake API's mutable state. Every method takes the lock.
type store struct {
	mu         sync.Mutex
	users      map[int]*account
	nextUser   int
	favourites map[int][]domain.Favourite
	nextFav    int
	history    map[int][]domain.HistoryEntry
	nextEntry  int
}

func newStore() *store {
	return &store{
		users:      make(map[int]*account),
		favourites: make(map[int][]domain.Favourite),
		history:    make(map[int][]domain.HistoryEntry),
		nextUser:   1,
		nextFav:    1,
		nextEntry:  1,
	}
}

func (s *store) byEmail(email string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if strings.EqualFold(a.user.Email, email) {
			return a
		}
	}
	return nil
}

func (s *store) byID(id int) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	return a.user, true
}

// createUser fails with a user-facing message on a duplicate email or username.
func (s *store) createUser(email, username string, hash []byte, now time.Time) (domain.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if strings.EqualFold(a.user.Email, email) {
			return domain.User{}, "Email already registered"
		}
		if a.user.Username == username {
			return domain.User{}, "Username already taken"
		}
	}
	created := now.UTC()
	u := domain.User{ID: s.nextUser, Email: email, Username: username, CreatedAt: &created}
	s.users[u.ID] = &account{user: u, passwordHash: hash}
	s.nextUser++
	return u, ""
}

func (s *store) listFavourites(userID int) []domain.Favourite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Favourite{}, s.favourites[userID]...)
}

func (s *store) addFavourite(userID int, fav domain.Favourite) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favourites[userID] {
		if f.TeamID == fav.TeamID {
			return false
		}
	}
	fav.ID = s.nextFav
	s.nextFav++
	s.favourites[userID] = append(s.favourites[userID], fav)
	return true
}

func (s *store) removeFavourite(userID, teamID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.favourites[userID])
	s.favourites[userID] = domain.RemoveFavourite(s.favourites[userID], teamID)
	return len(s.favourites[userID]) < before
}

func (s *store) savePrediction(userID int, e domain.HistoryEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextEntry
	s.nextEntry++
	s.history[userID] = append(s.history[userID], e)
	return e.ID
}

// listHistory returns entries newest first.
func (s *store) listHistory(userID int) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.HistoryEntry{}, s.history[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
