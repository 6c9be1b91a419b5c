// Package geocode converte coordenadas em endereço legível usando Nominatim por trás de um proxy CORS.
// Nunca devolve erro ao chamador: sem rede, responde com um nome sintético.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radieske/betting-companion/internal/shared/cache"
)

type Options struct {
	NominatimURL string // ex.: https://nominatim.openstreetmap.org/reverse
	ProxyURL     string // ex.: https://api.allorigins.win/raw; vazio chama direto
	MinInterval  time.Duration
}

type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type Client struct {
	log     *zap.Logger
	http    *http.Client
	cache   *cache.Memory
	limiter *rate.Limiter
	opts    Options
}

func New(log *zap.Logger, opts Options) *Client {
	if opts.MinInterval <= 0 {
		opts.MinInterval = time.Second
	}
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache.NewMemory(),
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		opts:    opts,
	}
}

// Reverse devolve o endereço das coordenadas; o cache usa 4 casas decimais
func (c *Client) Reverse(ctx context.Context, lat, lon float64) string {
	key := fmt.Sprintf("%.4f_%.4f", lat, lon)
	var cached string
	if ok, _ := c.cache.Get(ctx, key, &cached); ok {
		return cached
	}

	name, err := c.reverse(ctx, lat, lon)
	if err != nil {
		c.log.Debug("reverse geocode failed; using coordinates", zap.Error(err))
		name = Fallback(lat, lon)
	}
	_ = c.cache.Set(ctx, key, name, 0)
	return name
}

// Search busca lugares por texto; consultas com menos de 3 letras não saem para a rede
func (c *Client) Search(ctx context.Context, query string) []Place {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil
	}
	key := "search_" + strings.ToLower(query)
	var cached []Place
	if ok, _ := c.cache.Get(ctx, key, &cached); ok {
		return cached
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("addressdetails", "1")
	q.Set("limit", "10")
	var rows []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := c.get(ctx, c.endpoint("search"), q, &rows); err != nil {
		c.log.Debug("place search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	out := make([]Place, 0, len(rows))
	for _, r := range rows {
		lat, err1 := strconv.ParseFloat(r.Lat, 64)
		lon, err2 := strconv.ParseFloat(r.Lon, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Place{Name: r.DisplayName, Lat: lat, Lon: lon})
	}
	if len(out) > 0 {
		_ = c.cache.Set(ctx, key, out, 0)
	}
	return out
}

// Fallback é o nome sintético usado quando o serviço não responde
func Fallback(lat, lon float64) string {
	return fmt.Sprintf("Lat %.5f, Lon %.5f", lat, lon)
}

func (c *Client) reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	var body struct {
		Address map[string]string `json:"address"`
	}
	if err := c.get(ctx, c.endpoint("reverse"), q, &body); err != nil {
		return "", err
	}
	if len(body.Address) == 0 {
		return "", fmt.Errorf("no address for %f,%f", lat, lon)
	}
	return FormatAddress(body.Address), nil
}

// endpoint troca o último segmento de NominatimURL (reverse ↔ search)
func (c *Client) endpoint(name string) string {
	base := strings.TrimRight(c.opts.NominatimURL, "/")
	if i := strings.LastIndex(base, "/"); i > len("https://") {
		base = base[:i]
	}
	return base + "/" + name
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	target := endpoint + "?" + q.Encode()
	if c.opts.ProxyURL != "" {
		target = c.opts.ProxyURL + "?url=" + url.QueryEscape(target)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// FormatAddress monta "rua número, bairro, cidade, estado, país" com o que existir
func FormatAddress(a map[string]string) string {
	var parts []string
	street := strings.TrimSpace(a["road"] + " " + a["house_number"])
	if street != "" {
		parts = append(parts, street)
	}
	parts = appendFirst(parts, a, "suburb", "neighbourhood")
	parts = appendFirst(parts, a, "city", "town", "village", "municipality")
	parts = appendFirst(parts, a, "state")
	parts = appendFirst(parts, a, "country")
	if len(parts) == 0 {
		return "Local desconhecido"
	}
	return strings.Join(parts, ", ")
}

func appendFirst(parts []string, a map[string]string, keys ...string) []string {
	for _, k := range keys {
		if v := a[k]; v != "" {
			return append(parts, v)
		}
	}
	return parts
}
