package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

func loggedIn(t *testing.T, token string) *session.Store {
	t.Helper()
	s := session.Open(session.NewMemoryStorage())
	require.NoError(t, s.Login(domain.User{ID: 1, Username: "alice"}, token))
	return s
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, loggedIn(t, "test-token"))
	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("Username = %q, want %q", me.Username, "alice")
	}
}

func TestNoTokenOmitsHeader(t *testing.T) {
	var got string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		json.NewEncoder(w).Encode(map[string]any{"teams": []domain.Team{}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	if _, err := c.Teams(context.Background()); err != nil {
		t.Fatalf("Teams() error: %v", err)
	}
	if sawHeader {
		t.Errorf("Authorization header sent without a session: %q", got)
	}
}

func TestRequestID(t *testing.T) {
	var id string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"matches": []domain.Match{}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	_, err := c.RecentMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, id, 36)
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired token"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := loggedIn(t, "stale")
	c := New(srv.URL, store)
	var calls int32
	c.SetUnauthorizedHandler(func() { atomic.AddInt32(&calls, 1) })

	_, err := c.Favourites(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, OutcomeUnauthorized, Classify(err))
	require.False(t, store.LoggedIn())
	require.Nil(t, store.Current().User)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestUnauthorizedOnAuthRoutePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := loggedIn(t, "tok123")
	c := New(srv.URL, store)
	called := false
	c.SetUnauthorizedHandler(func() { called = true })

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSessionExpired))
	require.Equal(t, OutcomeRejected, Classify(err))
	require.Equal(t, "Invalid email or password", Message(err, "fallback"))
	require.True(t, store.LoggedIn(), "login failure must not clear the session")
	require.False(t, called)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	require.True(t, store.LoggedIn())
}

func TestPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/predictions/predict" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.AwayTeam == "Real Madrid" {
			json.NewEncoder(w).Encode(map[string]string{"error": "Cross-league predictions not supported."}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Prediction{ //nolint:errcheck
			HomeTeam:      req.HomeTeam,
			AwayTeam:      req.AwayTeam,
			Prediction:    req.HomeTeam + " Win",
			Winner:        "home",
			Probabilities: domain.Probabilities{HomeWin: 0.6, Draw: 0.25, AwayWin: 0.15},
			Confidence:    60,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))

	p, err := c.Predict(context.Background(), "Arsenal", "Chelsea")
	require.NoError(t, err)
	require.Equal(t, "Arsenal Win", p.Prediction)
	require.InDelta(t, 0.6, p.Probabilities.HomeWin, 1e-9)

	_, err = c.Predict(context.Background(), "Arsenal", "Real Madrid")
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, OutcomeRejected, Classify(err))
	require.Equal(t, "Cross-league predictions not supported.", Message(err, "Prediction failed"))
}

func TestHeadToHeadQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("home_team") != "Man City" || q.Get("away_team") != "Brighton & Hove" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.HeadToHead{Matches: []domain.H2HMatch{{Result: "W"}}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	h, err := c.HeadToHead(context.Background(), "Man City", "Brighton & Hove")
	require.NoError(t, err)
	require.Len(t, h.Matches, 1)
}

func TestRemoveFavourite(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "Removed from favourites"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, loggedIn(t, "tok"))
	require.NoError(t, c.RemoveFavourite(context.Background(), 57))
	require.Equal(t, http.MethodDelete, method)
	require.Equal(t, "/api/favourites/57", path)
}

func TestSavePrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.Method != http.MethodPost || q.Get("predicted_outcome") != "Draw" || q.Get("draw_prob") != "0.4" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"message": "Prediction saved", "id": 7}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, loggedIn(t, "tok"))
	id, err := c.SavePrediction(context.Background(), domain.Prediction{
		HomeTeam:      "Everton",
		AwayTeam:      "Fulham",
		Prediction:    "Draw",
		Probabilities: domain.Probabilities{HomeWin: 0.3, Draw: 0.4, AwayWin: 0.3},
	})
	require.NoError(t, err)
	require.Equal(t, 7, id)
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	_, err := c.Teams(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want it to contain 'boom'", got)
	}
	if Classify(err) != OutcomeTransport {
		t.Errorf("Classify = %v, want transport", Classify(err))
	}
}

func TestDetailAsArrayFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"field required"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	_, err := c.Register(context.Background(), "", "bob", "pw")
	require.Error(t, err)
	require.Equal(t, OutcomeRejected, Classify(err))
	require.Equal(t, "Registration failed", Message(err, "Registration failed"))
}

func TestDecodeErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	_, err := c.UpcomingMatches(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeTransport, Classify(err))
	require.Equal(t, "Failed to load", Message(err, "Failed to load"))
}

func TestDoRequest_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]any{"teams": []domain.Team{}}) //nolint:errcheck
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, session.Open(session.NewMemoryStorage()))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Teams(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !IsCanceled(err) {
		t.Errorf("IsCanceled(%v) = false", err)
	}
}

func TestConcurrentUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := loggedIn(t, "stale")
	c := New(srv.URL, store)
	var calls int32
	c.SetUnauthorizedHandler(func() { atomic.AddInt32(&calls, 1) })

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.PredictionHistory(context.Background())
			if !errors.Is(err, ErrSessionExpired) {
				t.Errorf("err = %v, want ErrSessionExpired", err)
			}
		}()
	}
	wg.Wait()

	require.False(t, store.LoggedIn())
	require.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOK},
		{"rejected", &RejectedError{Reason: "no"}, OutcomeRejected},
		{"bad request", &HTTPError{StatusCode: 400}, OutcomeRejected},
		{"not found", &HTTPError{StatusCode: 404}, OutcomeRejected},
		{"server", &HTTPError{StatusCode: 503}, OutcomeTransport},
		{"expired", ErrSessionExpired, OutcomeUnauthorized},
		{"network", errors.New("connection refused"), OutcomeTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
