// Package transfers lê transferências de jogadores de uma API de futebol externa.
// Qualquer falha da API cai nos dados de demonstração embutidos.
package transfers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Cache é satisfeito por cache.JSONCache (Redis) e cache.Memory
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type Transfer struct {
	ID           int    `json:"id"`
	PlayerName   string `json:"playerName"`
	PlayerPhoto  string `json:"playerPhoto"`
	Position     string `json:"position"`
	Age          int    `json:"age"`
	Nationality  string `json:"nationality"`
	FromClub     string `json:"fromClub"`
	FromClubLogo string `json:"fromClubLogo"`
	ToClub       string `json:"toClub"`
	ToClubLogo   string `json:"toClubLogo"`
	Fee          string `json:"fee"`
	Status       string `json:"status"`
	Date         string `json:"date"`
}

type Options struct {
	BaseURL  string
	APIKey   string
	Demo     bool
	CacheTTL time.Duration
	// Limit é o intervalo mínimo entre chamadas reais à API
	Limit time.Duration
}

type Client struct {
	log     *zap.Logger
	http    *http.Client
	cache   Cache
	limiter *rate.Limiter
	opts    Options
}

func New(log *zap.Logger, c Cache, opts Options) *Client {
	if opts.Limit <= 0 {
		opts.Limit = time.Second
	}
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   c,
		limiter: rate.NewLimiter(rate.Every(opts.Limit), 1),
		opts:    opts,
	}
}

// Demo indica se o cliente está servindo só os dados embutidos
func (c *Client) Demo() bool { return c.opts.Demo }

// List devolve transferências da temporada (e do time, se teamID > 0).
// force ignora o modo demo e o cache.
func (c *Client) List(ctx context.Context, season, teamID int, force bool) ([]Transfer, error) {
	if c.opts.Demo && !force {
		return DemoTransfers(), nil
	}
	key := fmt.Sprintf("transfers:%d:%d", season, teamID)
	if !force {
		var cached []Transfer
		if ok, err := c.cache.Get(ctx, key, &cached); err != nil {
			c.log.Warn("transfers cache get failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	list, err := c.fetch(ctx, season, teamID)
	if err != nil {
		c.log.Warn("transfers api failed; serving demo data", zap.Error(err))
		return DemoTransfers(), nil
	}
	if err := c.cache.Set(ctx, key, list, c.opts.CacheTTL); err != nil {
		c.log.Warn("transfers cache set failed", zap.Error(err))
	}
	return list, nil
}

func (c *Client) fetch(ctx context.Context, season, teamID int) ([]Transfer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("season", strconv.Itoa(season))
	if teamID > 0 {
		q.Set("team", strconv.Itoa(teamID))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.opts.BaseURL, "/")+"/transfers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.opts.APIKey)
	if u, err := url.Parse(c.opts.BaseURL); err == nil {
		req.Header.Set("X-RapidAPI-Host", u.Host)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transfers api http %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode transfers: %w", err)
	}
	return transform(body), nil
}

type apiResponse struct {
	Response []struct {
		Player struct {
			Name        string `json:"name"`
			Photo       string `json:"photo"`
			Position    string `json:"position"`
			Age         int    `json:"age"`
			Nationality string `json:"nationality"`
		} `json:"player"`
		Teams struct {
			In  apiTeam `json:"in"`
			Out apiTeam `json:"out"`
		} `json:"teams"`
		Transfer struct {
			Date string `json:"date"`
			Type string `json:"type"`
			Fee  string `json:"fee"`
		} `json:"transfer"`
	} `json:"response"`
}

type apiTeam struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

func transform(body apiResponse) []Transfer {
	out := make([]Transfer, 0, len(body.Response))
	for i, r := range body.Response {
		out = append(out, Transfer{
			ID:           i + 1,
			PlayerName:   or(r.Player.Name, "Jogador desconhecido"),
			PlayerPhoto:  or(r.Player.Photo, "https://via.placeholder.com/150?text=Jogador"),
			Position:     translatePosition(r.Player.Position),
			Age:          r.Player.Age,
			Nationality:  or(r.Player.Nationality, "Desconhecida"),
			FromClub:     or(r.Teams.Out.Name, "Clube anterior"),
			FromClubLogo: or(r.Teams.Out.Logo, "https://via.placeholder.com/60?text=Clube"),
			ToClub:       or(r.Teams.In.Name, "Clube de destino"),
			ToClubLogo:   or(r.Teams.In.Logo, "https://via.placeholder.com/60?text=Clube"),
			Fee:          formatFee(r.Transfer.Type, r.Transfer.Fee),
			Status:       "confirmado",
			Date:         formatDate(r.Transfer.Date),
		})
	}
	return out
}

var nonDigits = regexp.MustCompile(`[^\d]`)

func formatFee(kind, fee string) string {
	switch strings.ToLower(kind) {
	case "free":
		return "Grátis"
	case "loan":
		return "Empréstimo"
	}
	if fee != "" && fee != "N/A" {
		if n, err := strconv.ParseInt(nonDigits.ReplaceAllString(fee, ""), 10, 64); err == nil {
			return "€" + formatNumber(n)
		}
	}
	return "Não revelado"
}

func formatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 0, 64) + "K"
	}
	return strconv.FormatInt(n, 10)
}

var positions = map[string]string{
	"Goalkeeper": "Goleiro",
	"Defender":   "Defensor",
	"Midfielder": "Meio-campista",
	"Attacker":   "Atacante",
	"Forward":    "Atacante",
}

func translatePosition(p string) string {
	if v, ok := positions[p]; ok {
		return v
	}
	return or(p, "N/A")
}

var months = [...]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

func formatDate(s string) string {
	if s == "" {
		return "Data indisponível"
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
