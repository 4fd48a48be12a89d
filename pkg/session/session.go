// Package session holds the authenticated user and bearer token, mirrored
// to durable storage so a restart restores the same session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/kickstats/kickstats/pkg/domain"
)

// Durable keys.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// ErrNoSession is returned by Token when nobody is logged in.
var ErrNoSession = errors.New("session: not logged in")

// Session is a snapshot of the authentication state. User and Token are
// either both set or both empty.
type Session struct {
	User  *domain.User
	Token string
}

// Store owns the session. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	current Session
}

// Open builds a Store from whatever storage holds. A missing key, a read
// error or an undecodable user record all load as logged out.
func Open(storage Storage) *Store {
	s := &Store{storage: storage}

	rawUser, okUser, errUser := storage.Get(KeyUser)
	token, okToken, errToken := storage.Get(KeyToken)
	if errUser != nil || errToken != nil || !okUser || !okToken || token == "" {
		return s
	}
	var u domain.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return s
	}
	s.current = Session{User: &u, Token: token}
	return s
}

// Login persists user and token, then replaces the in-memory session.
// If persisting fails the in-memory session is left as it was.
func (s *Store) Login(user domain.User, token string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(KeyUser, string(raw)); err != nil {
		return err
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		s.restoreUser()
		return err
	}
	s.current = Session{User: &user, Token: token}
	return nil
}

// restoreUser puts the previous user record back after a partial write.
func (s *Store) restoreUser() {
	if s.current.User == nil {
		s.storage.Delete(KeyUser) //nolint:errcheck
		return
	}
	if raw, err := json.Marshal(s.current.User); err == nil {
		s.storage.Set(KeyUser, string(raw)) //nolint:errcheck
	}
}

// Logout clears the session. Memory is always cleared; the first storage
// failure, if any, is returned. Calling Logout twice is harmless.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	errToken := s.storage.Delete(KeyToken)
	errUser := s.storage.Delete(KeyUser)
	if errToken != nil {
		return errToken
	}
	return errUser
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.current
	if cur.User != nil {
		u := *cur.User
		cur.User = &u
	}
	return cur
}

// LoggedIn reports whether a session is present.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token != ""
}

// Token implements oauth2.TokenSource over the stored bearer token.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	raw := s.current.Token
	s.mu.RUnlock()

	if raw == "" {
		return nil, ErrNoSession
	}
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if c, err := ParseClaims(raw); err == nil {
		tok.Expiry = c.ExpiresAt
	}
	return tok, nil
}

// Expired reports whether the stored token carries an exp in the past.
// Tokens without a readable exp are treated as live; the server decides.
func (s *Store) Expired(now time.Time) bool {
	s.mu.RLock()
	raw := s.current.Token
	s.mu.RUnlock()

	if raw == "" {
		return false
	}
	c, err := ParseClaims(raw)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// Claims is the subset of token claims the client can read.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// ParseClaims decodes a JWT without verifying its signature. The client has
// no signing key; the result is for display and expiry checks only.
func ParseClaims(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("session: parse token: %w", err)
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
