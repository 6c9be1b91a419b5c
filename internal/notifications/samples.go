package notifications

import (
	"context"

	"github.com/radieske/betting-companion/internal/shared/models"
)

var samples = []NewNotification{
	{Title: "Sistema", Message: "Bem-vindo ao app! Explore as ligas, times e faça suas apostas.", Type: models.NotifySystem},
	{Title: "Comunidade", Message: "Novos comentários no seu post sobre o clássico.", Type: models.NotifyCommunity},
	{Title: "Transferência", Message: "Seu time favorito anunciou um novo reforço.", Type: models.NotifyTransfer},
	{Title: "Partida", Message: "Real Madrid vs Barcelona começa em 1 hora.", Type: models.NotifyMatch},
	{Title: "Aposta ganha!", Message: "Sua aposta em Liverpool vs Manchester United foi vencedora.", Type: models.NotifyBet},
}

// GenerateSamples cria um aviso de cada tipo; o último da lista fica no topo
func (l *Ledger) GenerateSamples(ctx context.Context, userID string) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(samples))
	for _, s := range samples {
		n, err := l.Add(ctx, userID, s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
