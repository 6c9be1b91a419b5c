package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/radieske/betting-companion/internal/shared/models"
)

// Stats agrega as apostas de um usuário
type Stats struct {
	TotalBets   int             `json:"totalBets"`
	Pending     int             `json:"pendingBets"`
	Won         int             `json:"wonBets"`
	Lost        int             `json:"lostBets"`
	Cancelled   int             `json:"cancelledBets"`
	TotalStaked decimal.Decimal `json:"totalStaked"`
	TotalWon    decimal.Decimal `json:"totalWon"`
	TotalLost   decimal.Decimal `json:"totalLost"`
	WinRate     float64         `json:"winRate"`
	ProfitLoss  decimal.Decimal `json:"profitLoss"`
}

// Search faz match case-insensitive em matchName, league e prediction
func (l *Ledger) Search(ctx context.Context, query, userID string) ([]models.Bet, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return l.filter(ctx, userID, func(b models.Bet) bool {
		return strings.Contains(strings.ToLower(b.MatchName), q) ||
			strings.Contains(strings.ToLower(b.League), q) ||
			strings.Contains(strings.ToLower(b.Prediction), q)
	})
}

func (l *Ledger) UserStats(ctx context.Context, userID string) (Stats, error) {
	bets, err := l.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(bets), nil
}

// ComputeStats: totalWon soma potentialWin das ganhas, totalLost soma stake das perdidas,
// winRate = won/(won+lost)×100 (0 sem apostas liquidadas)
func ComputeStats(bets []models.Bet) Stats {
	s := Stats{
		TotalBets:   len(bets),
		TotalStaked: decimal.Zero,
		TotalWon:    decimal.Zero,
		TotalLost:   decimal.Zero,
	}
	for _, b := range bets {
		s.TotalStaked = s.TotalStaked.Add(b.Stake)
		switch b.Status {
		case models.BetPending:
			s.Pending++
		case models.BetWon:
			s.Won++
			s.TotalWon = s.TotalWon.Add(b.PotentialWin)
		case models.BetLost:
			s.Lost++
			s.TotalLost = s.TotalLost.Add(b.Stake)
		case models.BetCancelled:
			s.Cancelled++
		}
	}
	if settled := s.Won + s.Lost; settled > 0 {
		s.WinRate = float64(s.Won) / float64(settled) * 100
	}
	s.ProfitLoss = s.TotalWon.Sub(s.TotalLost)
	return s
}

// SortForDisplay ordena por matchDate desc; empates mantêm a ordem de inserção
func SortForDisplay(bets []models.Bet) []models.Bet {
	out := make([]models.Bet, len(bets))
	copy(out, bets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchDate.After(out[j].MatchDate)
	})
	return out
}

// ForDisplay é ListByUser já ordenado para a tela
func (l *Ledger) ForDisplay(ctx context.Context, userID string) ([]models.Bet, error) {
	bets, err := l.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SortForDisplay(bets), nil
}
