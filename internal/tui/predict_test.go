package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
)

func newTestPredictModel() predictModel {
	m := newPredictModel(nil, nil)
	m.mount()
	m, _ = m.Update(predictTeamsLoadedMsg{gen: m.scope.gen, names: []string{"Arsenal", "Aston Villa", "Atalanta", "Chelsea", "Real Madrid"}})
	m.width = 100
	m.height = 30
	return m
}

var testPrediction = domain.Prediction{
	HomeTeam:      "Arsenal",
	AwayTeam:      "Chelsea",
	League:        "Premier League",
	Prediction:    "Arsenal Win",
	Winner:        "home",
	Probabilities: domain.Probabilities{HomeWin: 0.52, Draw: 0.26, AwayWin: 0.22},
	Confidence:    52,
}

func TestPredictSuggestionsFollowInput(t *testing.T) {
	m := newTestPredictModel()
	m = typeText(m, "at")
	got := m.suggestions()
	if len(got) != 1 || got[0] != "Atalanta" {
		t.Errorf("suggestions = %v, want [Atalanta]", got)
	}
	if !strings.Contains(m.View(), "Atalanta") {
		t.Errorf("suggestion not rendered:\n%s", m.View())
	}
}

func TestPredictAcceptSuggestion(t *testing.T) {
	m := newTestPredictModel()
	m = typeText(m, "ars")
	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("tab"))
	if m.fields[0] != "Arsenal" {
		t.Errorf("home = %q, want Arsenal", m.fields[0])
	}
	if m.focus != 1 {
		t.Errorf("focus = %d, want away field", m.focus)
	}
}

func TestPredictEnterMovesToAwayThenSubmits(t *testing.T) {
	m := newTestPredictModel()
	m = typeText(m, "Arsenal")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil || m.focus != 1 {
		t.Fatalf("first enter should move to away, focus=%d", m.focus)
	}
	m = typeText(m, "Chelsea")
	m, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !m.predicting || m.typing {
		t.Errorf("predicting=%v typing=%v after submit", m.predicting, m.typing)
	}
}

func TestPredictSuccessRendersPanel(t *testing.T) {
	m := newTestPredictModel()
	m.predicting = true
	h2h := &domain.HeadToHead{Matches: []domain.H2HMatch{
		{Date: "02 Mar 2026", HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: 2, AwayGoals: 0, Result: "W"},
		{Date: "14 Oct 2025", HomeTeam: "Chelsea", AwayTeam: "Arsenal", HomeGoals: 1, AwayGoals: 1, Result: "D"},
	}}
	p := testPrediction
	m, _ = m.Update(predictResultMsg{gen: m.scope.gen, prediction: &p, h2h: h2h})

	view := m.View()
	if !containsAll(view, "Arsenal Win", "52.0% confidence", "52%", "26%", "22%", "HEAD TO HEAD", "1W", "1D", "0L") {
		t.Errorf("unexpected prediction view:\n%s", view)
	}
}

func TestPredictRejectionHidesProbabilities(t *testing.T) {
	m := newTestPredictModel()
	m.result = &testPrediction // left over from an earlier prediction
	m.predicting = true
	err := &client.RejectedError{Reason: "Cross-league predictions not supported."}
	m, _ = m.Update(predictResultMsg{gen: m.scope.gen, err: err})

	view := m.View()
	if !strings.Contains(view, "Cross-league predictions not supported.") {
		t.Errorf("rejection message missing:\n%s", view)
	}
	if strings.Contains(view, "confidence") || strings.Contains(view, "%") {
		t.Errorf("probabilities panel rendered for a rejection:\n%s", view)
	}
}

func TestPredictTransportErrorFallback(t *testing.T) {
	m := newTestPredictModel()
	m, _ = m.Update(predictResultMsg{gen: m.scope.gen, err: errors.New("connection refused")})
	if !strings.Contains(m.View(), "Prediction failed. Try again.") {
		t.Errorf("expected fallback message:\n%s", m.View())
	}
}

func TestPredictHeadToHeadFailureKeepsPrediction(t *testing.T) {
	m := newTestPredictModel()
	p := testPrediction
	m, _ = m.Update(predictResultMsg{gen: m.scope.gen, prediction: &p, h2hErr: errors.New("timeout")})
	if m.result == nil || m.h2h != nil {
		t.Fatalf("result=%v h2h=%v", m.result, m.h2h)
	}
	if strings.Contains(m.View(), "HEAD TO HEAD") {
		t.Error("no head-to-head section expected")
	}
}

func TestPredictStaleResultDropped(t *testing.T) {
	m := newTestPredictModel()
	gen := m.scope.gen
	m.unmount()
	m.mount()
	p := testPrediction
	m, _ = m.Update(predictResultMsg{gen: gen, prediction: &p})
	if m.result != nil {
		t.Error("result from a previous mount was applied")
	}
}

func TestPredictSummary(t *testing.T) {
	got := summary(testPrediction, &domain.HeadToHead{Matches: []domain.H2HMatch{{Result: "W"}, {Result: "L"}}})
	for _, want := range []string{"Arsenal vs Chelsea: Arsenal Win (52.0% confidence)", "Home 52%", "Last 2 meetings: 1W 0D 1L"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestPredictAgainstAPI(t *testing.T) {
	api, c, store := newFakeAPI(t)
	signIn(t, api, c, store)

	m := newPredictModel(c, store)
	cmd := m.mount()
	m, _ = m.Update(cmd())
	if len(m.names) == 0 {
		t.Fatal("prediction teams not loaded")
	}

	m.fields = [2]string{"Arsenal", "Chelsea"}
	m.focus = 1
	m, cmd = m.Update(keyMsg("enter"))
	m, save := m.Update(cmd())
	if m.result == nil {
		t.Fatalf("no prediction: rejection=%q err=%q", m.rejection, m.errMsg)
	}
	if m.h2h == nil {
		t.Error("head-to-head not joined")
	}
	if save == nil {
		t.Fatal("signed-in prediction should be saved")
	}
	m, _ = m.Update(save())
	if m.notice != "Saved to your history" {
		t.Errorf("notice = %q", m.notice)
	}

	h, err := c.PredictionHistory(m.scope.context())
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Predictions) != 1 || h.Predictions[0].HomeTeam != "Arsenal" {
		t.Errorf("history = %+v", h.Predictions)
	}
}

func TestPredictCrossLeagueAgainstAPI(t *testing.T) {
	_, c, store := newFakeAPI(t)
	m := newPredictModel(c, store)
	m.mount()
	m.fields = [2]string{"Arsenal", "Real Madrid"}
	m.focus = 1
	m, cmd := m.Update(keyMsg("enter"))
	m, save := m.Update(cmd())
	if m.result != nil {
		t.Fatal("cross-league pair should be rejected")
	}
	if !strings.Contains(m.rejection, "Cross-league") {
		t.Errorf("rejection = %q", m.rejection)
	}
	if save != nil {
		t.Error("rejections are not saved")
	}
}
