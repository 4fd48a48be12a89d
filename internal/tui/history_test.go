package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

func boolp(b bool) *bool { return &b }

func TestHistoryLoginPrompt(t *testing.T) {
	m := newHistoryModel(nil, session.Open(session.NewMemoryStorage()))
	if cmd := m.mount(); cmd != nil {
		t.Error("no request expected while logged out")
	}
	if !strings.Contains(m.View(), "Sign in to keep a history") {
		t.Errorf("expected login prompt:\n%s", m.View())
	}
}

func TestHistoryRendersStatsAndEntries(t *testing.T) {
	m := newHistoryModel(nil, loggedInStore(t))
	m.mount()
	entries := []domain.HistoryEntry{
		{ID: 1, HomeTeam: "Arsenal", AwayTeam: "Chelsea", PredictedOutcome: "Arsenal Win", WasCorrect: boolp(true), CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: 2, HomeTeam: "Inter", AwayTeam: "Milan", PredictedOutcome: "Draw", WasCorrect: boolp(false), CreatedAt: time.Now()},
		{ID: 3, HomeTeam: "Lyon", AwayTeam: "Nice", PredictedOutcome: "Lyon Win", CreatedAt: time.Now()},
	}
	h := &domain.PredictionHistory{Predictions: entries, Stats: domain.ComputeStats(entries)}
	m, _ = m.Update(historyLoadedMsg{gen: m.scope.gen, history: h})

	view := m.View()
	if !containsAll(view, "3 total", "1 correct", "1 pending", "50.0% accuracy", "Arsenal vs Chelsea", "✓", "✗", "2h ago") {
		t.Errorf("unexpected history view:\n%s", view)
	}
}

func TestHistoryEmpty(t *testing.T) {
	m := newHistoryModel(nil, loggedInStore(t))
	m.mount()
	m, _ = m.Update(historyLoadedMsg{gen: m.scope.gen, history: &domain.PredictionHistory{}})
	if !strings.Contains(m.View(), "No predictions saved yet") {
		t.Errorf("expected empty state:\n%s", m.View())
	}
}

func TestHistoryFailure(t *testing.T) {
	m := newHistoryModel(nil, loggedInStore(t))
	m.mount()
	m, _ = m.Update(historyLoadedMsg{gen: m.scope.gen, err: errors.New("boom")})
	if !strings.Contains(m.View(), "Could not load prediction history") {
		t.Errorf("expected placeholder:\n%s", m.View())
	}
}
