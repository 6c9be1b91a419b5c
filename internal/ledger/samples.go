package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

type sampleBet struct {
	match, league, prediction string
	betType                   models.BetType
	odds, stake               string
	status                    models.BetStatus
	daysFromNow               int
	notes                     string
}

var sampleBets = []sampleBet{
	{"Real Madrid vs Barcelona", "La Liga", "Real Madrid", models.BetWinner, "2.5", "50", models.BetPending, 2, "El Clásico"},
	{"Liverpool vs Manchester United", "Premier League", "2-1", models.BetScore, "8.0", "25", models.BetWon, -3, ""},
	{"Bayern Munich vs Borussia Dortmund", "Bundesliga", "Over 2.5", models.BetGoals, "1.8", "100", models.BetLost, -5, ""},
	{"PSG vs Marseille", "Ligue 1", "PSG", models.BetWinner, "1.5", "200", models.BetWon, -7, ""},
	{"Inter vs AC Milan", "Serie A", "Over 1.5", models.BetGoals, "1.7", "75", models.BetPending, 4, "Derby della Madonnina"},
}

// GenerateSampleBets grava as apostas de demonstração para o usuário.
// As já liquidadas entram com settledAt duas horas após a partida.
func (l *Ledger) GenerateSampleBets(ctx context.Context, userID string) ([]models.Bet, error) {
	now := l.now()
	created := make([]models.Bet, 0, len(sampleBets))
	for _, s := range sampleBets {
		odds := decimal.RequireFromString(s.odds)
		stake := decimal.RequireFromString(s.stake)
		match := now.AddDate(0, 0, s.daysFromNow).Truncate(time.Hour)
		b := models.Bet{
			ID:           l.newID(),
			UserID:       userID,
			MatchName:    s.match,
			League:       s.league,
			BetType:      s.betType,
			Prediction:   s.prediction,
			Odds:         odds,
			Stake:        stake,
			PotentialWin: models.PotentialWin(stake, odds),
			Status:       s.status,
			MatchDate:    match,
			PlacedAt:     match.Add(-24 * time.Hour),
			Notes:        s.notes,
		}
		if s.status.Terminal() {
			settled := match.Add(2 * time.Hour)
			b.SettledAt = &settled
		}
		created = append(created, b)
	}

	if _, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		return append(bets, created...), nil
	}); err != nil {
		return nil, err
	}
	for _, b := range created {
		l.mirror.Upsert(ctx, collections.Bets, b.ID, b)
	}
	return created, nil
}
