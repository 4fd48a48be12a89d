package domain

import "time"

// HistoryEntry is a prediction saved by the user. WasCorrect is nil while
// the match is pending.
type HistoryEntry struct {
	ID               int           `json:"id"`
	HomeTeam         string        `json:"home_team"`
	AwayTeam         string        `json:"away_team"`
	PredictedOutcome string        `json:"predicted_outcome"`
	Probabilities    Probabilities `json:"probabilities"`
	ActualOutcome    *string       `json:"actual_outcome"`
	WasCorrect       *bool         `json:"was_correct"`
	CreatedAt        time.Time     `json:"created_at"`
}

// HistoryStats aggregates a user's predictions. Accuracy is a percentage
// over settled predictions.
type HistoryStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Pending  int     `json:"pending"`
	Accuracy float64 `json:"accuracy"`
}

// PredictionHistory is the response of the prediction-history endpoint.
type PredictionHistory struct {
	Predictions []HistoryEntry `json:"predictions"`
	Stats       HistoryStats   `json:"stats"`
}

// ComputeStats derives the aggregate the server reports for a set of entries.
func ComputeStats(entries []HistoryEntry) HistoryStats {
	s := HistoryStats{Total: len(entries)}
	for _, e := range entries {
		switch {
		case e.WasCorrect == nil:
			s.Pending++
		case *e.WasCorrect:
			s.Correct++
		}
	}
	if settled := s.Total - s.Pending; settled > 0 {
		acc := float64(s.Correct) / float64(settled) * 100
		s.Accuracy = float64(int(acc*10+0.5)) / 10
	}
	return s
}
