// Package client is the HTTP wrapper around the KickStats API. It attaches
// the session's bearer token and turns a 401 on a protected route into a
// forced logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

// authPrefix marks routes whose 401 means "bad credentials", not "session gone".
const authPrefix = "/api/auth/"

// Session is what the client needs from the session store.
type Session interface {
	oauth2.TokenSource
	Logout() error
}

// Client is the KickStats API client.
type Client struct {
	baseURL    string
	sess       Session
	httpClient *http.Client
	log        zerolog.Logger

	mu             sync.Mutex
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new API client bound to a session.
func New(baseURL string, sess Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sess:    sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler registers fn to run after a forced logout.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// --- Matches ---

// UpcomingMatches returns scheduled fixtures across the supported leagues.
func (c *Client) UpcomingMatches(ctx context.Context) ([]domain.Match, error) {
	var resp struct {
		Matches []domain.Match `json:"matches"`
	}
	if err := c.get(ctx, "/api/matches/upcoming", &resp); err != nil {
		return nil, fmt.Errorf("client.UpcomingMatches: %w", err)
	}
	return resp.Matches, nil
}

// RecentMatches returns finished matches.
func (c *Client) RecentMatches(ctx context.Context) ([]domain.Match, error) {
	var resp struct {
		Matches []domain.Match `json:"matches"`
	}
	if err := c.get(ctx, "/api/matches/recent", &resp); err != nil {
		return nil, fmt.Errorf("client.RecentMatches: %w", err)
	}
	return resp.Matches, nil
}

// Standings returns the table (or group tables) for a league code.
func (c *Client) Standings(ctx context.Context, code string) (*domain.Standings, error) {
	var s domain.Standings
	if err := c.get(ctx, "/api/matches/standings/"+url.PathEscape(code), &s); err != nil {
		return nil, fmt.Errorf("client.Standings: %w", err)
	}
	return &s, nil
}

// --- Teams ---

// Teams returns the team directory.
func (c *Client) Teams(ctx context.Context) ([]domain.Team, error) {
	var resp struct {
		Teams []domain.Team `json:"teams"`
	}
	if err := c.get(ctx, "/api/teams/", &resp); err != nil {
		return nil, fmt.Errorf("client.Teams: %w", err)
	}
	return resp.Teams, nil
}

// --- Predictions ---

// PredictionTeams returns the team names the prediction model knows.
func (c *Client) PredictionTeams(ctx context.Context) ([]string, error) {
	var resp struct {
		Teams []string `json:"teams"`
	}
	if err := c.get(ctx, "/api/predictions/teams", &resp); err != nil {
		return nil, fmt.Errorf("client.PredictionTeams: %w", err)
	}
	return resp.Teams, nil
}

// PredictRequest is the payload of a prediction.
type PredictRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// Predict asks the model for a match outcome. An in-band refusal (unknown
// team, cross-league pair) comes back as *RejectedError.
func (c *Client) Predict(ctx context.Context, home, away string) (*domain.Prediction, error) {
	var resp struct {
		domain.Prediction
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/api/predictions/predict", PredictRequest{HomeTeam: home, AwayTeam: away}, &resp); err != nil {
		return nil, fmt.Errorf("client.Predict: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("client.Predict: %w", &RejectedError{Reason: resp.Error})
	}
	return &resp.Prediction, nil
}

// HeadToHead returns recent meetings of two teams, from home's perspective.
func (c *Client) HeadToHead(ctx context.Context, home, away string) (*domain.HeadToHead, error) {
	params := url.Values{}
	params.Set("home_team", home)
	params.Set("away_team", away)

	var h domain.HeadToHead
	if err := c.get(ctx, "/api/predictions/h2h?"+params.Encode(), &h); err != nil {
		return nil, fmt.Errorf("client.HeadToHead: %w", err)
	}
	return &h, nil
}

// --- Auth ---

// LoginRequest is the payload of a login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload of a registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. It does not touch the session;
// the caller decides what to do with the result.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, authPrefix+"login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, email, username, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	req := RegisterRequest{Email: email, Username: username, Password: password}
	if err := c.post(ctx, authPrefix+"register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, authPrefix+"me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// --- Favourites ---

// Favourites returns the user's saved teams.
func (c *Client) Favourites(ctx context.Context) ([]domain.Favourite, error) {
	var resp struct {
		Favourites []domain.Favourite `json:"favourites"`
	}
	if err := c.get(ctx, "/api/favourites/", &resp); err != nil {
		return nil, fmt.Errorf("client.Favourites: %w", err)
	}
	return resp.Favourites, nil
}

// AddFavourite saves a team for the user.
func (c *Client) AddFavourite(ctx context.Context, fav domain.Favourite) error {
	if err := c.post(ctx, "/api/favourites/", fav, nil); err != nil {
		return fmt.Errorf("client.AddFavourite: %w", err)
	}
	return nil
}

// RemoveFavourite deletes a saved team.
func (c *Client) RemoveFavourite(ctx context.Context, teamID int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/favourites/"+strconv.Itoa(teamID), nil, nil); err != nil {
		return fmt.Errorf("client.RemoveFavourite: %w", err)
	}
	return nil
}

// --- Prediction history ---

// PredictionHistory returns the user's saved predictions and accuracy.
func (c *Client) PredictionHistory(ctx context.Context) (*domain.PredictionHistory, error) {
	var h domain.PredictionHistory
	if err := c.get(ctx, "/api/prediction-history/", &h); err != nil {
		return nil, fmt.Errorf("client.PredictionHistory: %w", err)
	}
	return &h, nil
}

// SavePrediction records a prediction in the user's history and returns its id.
// The endpoint takes its fields as query parameters.
func (c *Client) SavePrediction(ctx context.Context, p domain.Prediction) (int, error) {
	params := url.Values{}
	params.Set("home_team", p.HomeTeam)
	params.Set("away_team", p.AwayTeam)
	params.Set("predicted_outcome", p.Prediction)
	params.Set("home_win_prob", strconv.FormatFloat(p.Probabilities.HomeWin, 'f', -1, 64))
	params.Set("draw_prob", strconv.FormatFloat(p.Probabilities.Draw, 'f', -1, 64))
	params.Set("away_win_prob", strconv.FormatFloat(p.Probabilities.AwayWin, 'f', -1, 64))

	var resp struct {
		ID int `json:"id"`
	}
	if err := c.post(ctx, "/api/prediction-history/?"+params.Encode(), nil, &resp); err != nil {
		return 0, fmt.Errorf("client.SavePrediction: %w", err)
	}
	return resp.ID, nil
}

// --- Internal helpers ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, err := c.sess.Token(); err == nil {
		tok.SetAuthHeader(req)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", req.URL.Path).
			Err(err).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", req.URL.Path).
		Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("request")

	if resp.StatusCode >= 400 {
		httpErr := readHTTPError(resp)
		if resp.StatusCode == http.StatusUnauthorized && !strings.Contains(req.URL.Path, authPrefix) {
			c.expire(reqID)
			return fmt.Errorf("%w: %w", ErrSessionExpired, httpErr)
		}
		return httpErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// expire clears the session and notifies the registered handler.
func (c *Client) expire(reqID string) {
	if err := c.sess.Logout(); err != nil {
		c.log.Warn().Err(err).Str("request_id", reqID).Msg("forced logout: clear session")
	} else {
		c.log.Info().Str("request_id", reqID).Msg("forced logout")
	}

	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func readHTTPError(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		var detail string
		if len(apiErr.Detail) > 0 && json.Unmarshal(apiErr.Detail, &detail) == nil && detail != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: detail, Detail: detail}
		}
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, Detail: apiErr.Error}
		}
	}
	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = statusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}

var _ Session = (*session.Store)(nil)
