package fakeapi

import (
	"math"

	"github.com/kickstats/kickstats/pkg/domain"
)

const (
	homeAdvantage = 60.0
	averageGoals  = 2.7
	maxGoals      = 10
)

// expectedGoals splits the average goal count between two sides in
// proportion to their strength, home side boosted.
func expectedGoals(homeElo, awayElo float64) (float64, float64) {
	h := homeElo + homeAdvantage
	total := h + awayElo
	return h / total * averageGoals * 1.1, awayElo / total * averageGoals * 0.9
}

func poissonPMF(lambda float64, k int) float64 {
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// predict computes outcome probabilities from independent Poisson scores.
func predict(home, away *club) domain.Prediction {
	lh, la := expectedGoals(home.elo, away.elo)

	var pHome, pDraw, pAway float64
	for i := 0; i <= maxGoals; i++ {
		for j := 0; j <= maxGoals; j++ {
			p := poissonPMF(lh, i) * poissonPMF(la, j)
			switch {
			case i > j:
				pHome += p
			case i < j:
				pAway += p
			default:
				pDraw += p
			}
		}
	}
	total := pHome + pDraw + pAway
	probs := domain.Probabilities{
		HomeWin: round(pHome/total, 3),
		Draw:    round(pDraw/total, 3),
		AwayWin: round(pAway/total, 3),
	}

	winner, text, best := "home", home.ShortName+" Win", probs.HomeWin
	if probs.Draw > best {
		winner, text, best = "draw", "Draw", probs.Draw
	}
	if probs.AwayWin > best {
		winner, text, best = "away", away.ShortName+" Win", probs.AwayWin
	}

	return domain.Prediction{
		HomeTeam:      home.ShortName,
		AwayTeam:      away.ShortName,
		League:        home.League,
		Prediction:    text,
		Winner:        winner,
		Probabilities: probs,
		Confidence:    round(best*100, 1),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
