// Package fakeapi is an in-memory KickStats API. It serves every endpoint
// the client uses, over deterministic data, for tests and the demo mode.
package fakeapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kickstats/kickstats/pkg/domain"
)

// Server is the fake API.
type Server struct {
	engine   *gin.Engine
	data     *dataset
	store    *store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
	registry *prometheus.Registry
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now, for token expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithTokenTTL sets how long issued tokens live. Default 24h.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithSecret fixes the token signing key instead of a random one.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithSeed changes the generated fixtures and results.
func WithSeed(seed uint64) Option {
	return func(s *Server) { s.data = newDataset(seed) }
}

// New builds a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		store:    newStore(),
		tokenTTL: 24 * time.Hour,
		now:      time.Now,
		log:      zerolog.Nop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.data == nil {
		s.data = newDataset(2026)
	}
	if s.secret == nil {
		s.secret = make([]byte, 32)
		rand.Read(s.secret) //nolint:errcheck // never fails
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(newMetrics(s.registry).middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/matches/upcoming", s.upcoming)
		api.GET("/matches/recent", s.recent)
		api.GET("/matches/standings/:code", s.standings)

		api.GET("/teams/", s.teams)

		api.GET("/predictions/teams", s.predictionTeams)
		api.POST("/predictions/predict", s.predict)
		api.GET("/predictions/h2h", s.headToHead)

		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.GET("/auth/me", s.requireUser(), s.me)

		fav := api.Group("/favourites", s.requireUser())
		fav.GET("/", s.listFavourites)
		fav.POST("/", s.addFavourite)
		fav.DELETE("/:team_id", s.removeFavourite)

		hist := api.Group("/prediction-history", s.requireUser())
		hist.GET("/", s.listHistory)
		hist.POST("/", s.savePrediction)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on addr until ctx is cancelled. The bound address is sent
// on ready once the listener is open.
func (s *Server) Serve(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("fakeapi: listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) upcoming(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": s.data.upcoming()})
}

func (s *Server) recent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": s.data.recent()})
}

func (s *Server) standings(c *gin.Context) {
	st, ok := s.data.standings(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "League not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) teams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teams": s.data.teams()})
}

func (s *Server) predictionTeams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teams": s.data.predictionTeams()})
}

type predictRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// predict reports domain refusals in-band with status 200.
func (s *Server) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "home_team and away_team are required"})
		return
	}
	home, away := s.data.lookup(req.HomeTeam), s.data.lookup(req.AwayTeam)
	if home == nil || away == nil {
		c.JSON(http.StatusOK, gin.H{"error": "One or both teams not found in dataset"})
		return
	}
	if home == away {
		c.JSON(http.StatusOK, gin.H{"error": "Pick two different teams"})
		return
	}
	if home.League != away.League {
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf(
			"Cross-league predictions not supported. %s (%s) vs %s (%s) - our model is trained only on league matches.",
			home.ShortName, home.League, away.ShortName, away.League)})
		return
	}
	c.JSON(http.StatusOK, predict(home, away))
}

func (s *Server) headToHead(c *gin.Context) {
	home, away := s.data.lookup(c.Query("home_team")), s.data.lookup(c.Query("away_team"))
	if home == nil || away == nil {
		c.JSON(http.StatusOK, domain.HeadToHead{Matches: []domain.H2HMatch{}})
		return
	}
	c.JSON(http.StatusOK, domain.HeadToHead{Team: home.ShortName, Matches: s.data.headToHead(home, away)})
}

func (s *Server) listFavourites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favourites": s.store.listFavourites(c.GetInt(userIDKey))})
}

func (s *Server) addFavourite(c *gin.Context) {
	var fav domain.Favourite
	if err := c.ShouldBindJSON(&fav); err != nil || fav.TeamID == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "team_id is required"})
		return
	}
	if !s.store.addFavourite(c.GetInt(userIDKey), fav) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Team already in favourites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fav.TeamName + " added to favourites"})
}

func (s *Server) removeFavourite(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("team_id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "team_id must be an integer"})
		return
	}
	if !s.store.removeFavourite(c.GetInt(userIDKey), teamID) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Favourite not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favourites"})
}

func (s *Server) savePrediction(c *gin.Context) {
	home, away, outcome := c.Query("home_team"), c.Query("away_team"), c.Query("predicted_outcome")
	if home == "" || away == "" || outcome == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "home_team, away_team and predicted_outcome are required"})
		return
	}
	var probs [3]float64
	for i, key := range []string{"home_win_prob", "draw_prob", "away_win_prob"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": key + " must be a number"})
			return
		}
		probs[i] = v
	}
	id := s.store.savePrediction(c.GetInt(userIDKey), domain.HistoryEntry{
		HomeTeam:         home,
		AwayTeam:         away,
		PredictedOutcome: outcome,
		Probabilities:    domain.Probabilities{HomeWin: probs[0], Draw: probs[1], AwayWin: probs[2]},
		CreatedAt:        s.now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Prediction saved", "id": id})
}

// listHistory settles saved predictions against played results on read.
func (s *Server) listHistory(c *gin.Context) {
	entries := s.store.listHistory(c.GetInt(userIDKey))
	for i := range entries {
		f := s.data.settled(entries[i].HomeTeam, entries[i].AwayTeam)
		if f == nil {
			continue
		}
		actual := f.outcome()
		correct := actual == entries[i].PredictedOutcome
		entries[i].ActualOutcome = &actual
		entries[i].WasCorrect = &correct
	}
	c.JSON(http.StatusOK, domain.PredictionHistory{Predictions: entries, Stats: domain.ComputeStats(entries)})
}
