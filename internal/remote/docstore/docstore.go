// Package docstore fala com um banco de documentos via REST:
// {base}/{collection}/{id}.json para dados, mais autenticação e storage de arquivos.
package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/radieske/betting-companion/internal/remote"
)

type Config struct {
	DatabaseURL string
	AuthURL     string
	StorageURL  string
	APIKey      string
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	HTTP *http.Client

	mu      sync.RWMutex
	idToken string
}

func New(cfg Config) *Client {
	cfg.DatabaseURL = strings.TrimRight(cfg.DatabaseURL, "/")
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")
	cfg.StorageURL = strings.TrimRight(cfg.StorageURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, HTTP: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) Name() string { return "docstore" }

// Get trata o corpo "null" como documento inexistente
func (c *Client) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	body, err := c.db(ctx, http.MethodGet, collection, id, nil)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, remote.ErrNotFound
	}
	return remote.Document(body), nil
}

func (c *Client) Create(ctx context.Context, collection, id string, doc remote.Document) error {
	_, err := c.db(ctx, http.MethodPut, collection, id, doc)
	return err
}

// Update faz merge dos campos no documento existente
func (c *Client) Update(ctx context.Context, collection, id string, doc remote.Document) error {
	_, err := c.db(ctx, http.MethodPatch, collection, id, doc)
	return err
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.db(ctx, http.MethodDelete, collection, id, nil)
	return err
}

func (c *Client) Ping(ctx context.Context) error {
	u := c.cfg.DatabaseURL + "/.json?shallow=true"
	_, err := c.send(ctx, http.MethodGet, c.withAuth(u), "", nil)
	return err
}

func (c *Client) db(ctx context.Context, method, collection, id string, body []byte) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/%s.json", c.cfg.DatabaseURL, url.PathEscape(collection), url.PathEscape(id))
	ct := ""
	if body != nil {
		ct = "application/json"
	}
	return c.send(ctx, method, c.withAuth(u), ct, body)
}

// withAuth anexa o token do usuário autenticado, se houver
func (c *Client) withAuth(u string) string {
	c.mu.RLock()
	tok := c.idToken
	c.mu.RUnlock()
	if tok == "" {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "auth=" + url.QueryEscape(tok)
}

func (c *Client) send(ctx context.Context, method, u, contentType string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, remote.ErrNotFound
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("docstore %s http %d: %s", method, res.StatusCode, strings.TrimSpace(string(out)))
	}
	return out, nil
}
