package catalog

import (
	"context"

	"github.com/radieske/betting-companion/internal/shared/models"
)

var sampleLeagues = []models.League{
	{Name: "La Liga", ShortName: "LALIGA", Logo: "🇪🇸", Country: "España", Season: "2024/2025", Type: models.LeagueDomestic, NumberOfTeams: 20, CurrentMatchday: 15,
		Description: "Primera División de España", Founded: 1929, Status: models.LeagueActive, Colors: models.Colors{Primary: "#FF6B00", Secondary: "#000000"}},
	{Name: "Premier League", ShortName: "EPL", Logo: "🏴", Country: "Inglaterra", Season: "2024/2025", Type: models.LeagueDomestic, NumberOfTeams: 20, CurrentMatchday: 16,
		Description: "Primeira divisão do futebol inglês", Founded: 1992, Status: models.LeagueActive, Colors: models.Colors{Primary: "#3D195B", Secondary: "#00FF87"}},
	{Name: "UEFA Champions League", ShortName: "UCL", Logo: "⭐", Country: "Europa", Season: "2024/2025", Type: models.LeagueInternational, NumberOfTeams: 36, CurrentMatchday: 6,
		Description: "Principal competição de clubes da Europa", Founded: 1955, Status: models.LeagueActive, Colors: models.Colors{Primary: "#002766", Secondary: "#FFFFFF"}},
	{Name: "Serie A", ShortName: "SERIE A", Logo: "🇮🇹", Country: "Italia", Season: "2024/2025", Type: models.LeagueDomestic, NumberOfTeams: 20, CurrentMatchday: 15,
		Description: "Primeira divisão do futebol italiano", Founded: 1898, Status: models.LeagueActive, Colors: models.Colors{Primary: "#008FD7", Secondary: "#000000"}},
	{Name: "Bundesliga", ShortName: "BL", Logo: "🇩🇪", Country: "Alemania", Season: "2024/2025", Type: models.LeagueDomestic, NumberOfTeams: 18, CurrentMatchday: 14,
		Description: "Primeira divisão do futebol alemão", Founded: 1963, Status: models.LeagueActive, Colors: models.Colors{Primary: "#D20515", Secondary: "#000000"}},
	{Name: "Copa del Rey", ShortName: "CDR", Logo: "🏆", Country: "España", Season: "2024/2025", Type: models.LeagueCup, NumberOfTeams: 116,
		Description: "Copa nacional da Espanha", Founded: 1903, Status: models.LeagueUpcoming, Colors: models.Colors{Primary: "#AA151B", Secondary: "#F1BF00"}},
}

type sampleTeam struct {
	team   models.Team
	league string // nome da liga de exemplo
}

var sampleTeams = []sampleTeam{
	{models.Team{Name: "Real Madrid", ShortName: "RMA", Logo: "🏆", Country: "España", City: "Madrid", Stadium: "Santiago Bernabéu", Founded: 1902,
		Colors: models.Colors{Primary: "#FFFFFF", Secondary: "#004170"}, Stats: models.TeamStats{Wins: 28, Draws: 5, Losses: 5, GoalsFor: 85, GoalsAgainst: 32}}, "La Liga"},
	{models.Team{Name: "FC Barcelona", ShortName: "FCB", Logo: "🔵", Country: "España", City: "Barcelona", Stadium: "Camp Nou", Founded: 1899,
		Colors: models.Colors{Primary: "#A50044", Secondary: "#004D98"}, Stats: models.TeamStats{Wins: 26, Draws: 7, Losses: 5, GoalsFor: 79, GoalsAgainst: 36}}, "La Liga"},
	{models.Team{Name: "Manchester United", ShortName: "MUN", Logo: "🔴", Country: "Inglaterra", City: "Manchester", Stadium: "Old Trafford", Founded: 1878,
		Colors: models.Colors{Primary: "#DA291C", Secondary: "#FBE122"}, Stats: models.TeamStats{Wins: 18, Draws: 6, Losses: 14, GoalsFor: 57, GoalsAgainst: 58}}, "Premier League"},
	{models.Team{Name: "Liverpool FC", ShortName: "LIV", Logo: "🔴", Country: "Inglaterra", City: "Liverpool", Stadium: "Anfield", Founded: 1892,
		Colors: models.Colors{Primary: "#C8102E", Secondary: "#00B2A9"}, Stats: models.TeamStats{Wins: 24, Draws: 10, Losses: 4, GoalsFor: 86, GoalsAgainst: 41}}, "Premier League"},
}

// GenerateSampleLeagues grava as ligas de demonstração
func (c *Catalog) GenerateSampleLeagues(ctx context.Context) ([]models.League, error) {
	out := make([]models.League, 0, len(sampleLeagues))
	for _, l := range sampleLeagues {
		created, err := c.CreateLeague(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// GenerateSampleTeams grava os times de demonstração, ligando-os às ligas já existentes pelo nome
func (c *Catalog) GenerateSampleTeams(ctx context.Context) ([]models.Team, error) {
	leagues, err := c.ListLeagues(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(leagues))
	for _, l := range leagues {
		byName[l.Name] = l.ID
	}

	out := make([]models.Team, 0, len(sampleTeams))
	for _, s := range sampleTeams {
		t := s.team
		t.League = byName[s.league]
		created, err := c.CreateTeam(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}
