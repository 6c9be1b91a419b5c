// Package restapi espelha as coleções num backend relacional exposto por REST.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

// HTTPError carrega o status e a mensagem devolvida pelo backend
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("rest api http %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Health  *http.Client
}

func New(base, token string, timeout, healthTimeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
		Health:  &http.Client{Timeout: healthTimeout},
	}
}

func (c *Client) Name() string { return "rest" }

func (c *Client) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	var out json.RawMessage
	err := c.do(ctx, c.HTTP, http.MethodGet, resourcePath(collection, id), nil, &out)
	if isStatus(err, http.StatusNotFound) {
		return nil, remote.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return remote.Document(out), nil
}

// Create usa o endpoint de registro para usuários e POST na coleção para o resto
func (c *Client) Create(ctx context.Context, collection, _ string, doc remote.Document) error {
	path := "/" + collection
	if collection == collections.Users {
		path = "/test/users/register"
	}
	return c.do(ctx, c.HTTP, http.MethodPost, path, json.RawMessage(doc), nil)
}

func (c *Client) Update(ctx context.Context, collection, id string, doc remote.Document) error {
	err := c.do(ctx, c.HTTP, http.MethodPut, resourcePath(collection, id), json.RawMessage(doc), nil)
	if isStatus(err, http.StatusNotFound) {
		return remote.ErrNotFound
	}
	return err
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	err := c.do(ctx, c.HTTP, http.MethodDelete, resourcePath(collection, id), nil, nil)
	if isStatus(err, http.StatusNotFound) {
		return remote.ErrNotFound
	}
	return err
}

// Ping consulta /health/status com o timeout curto de health check
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, c.Health, http.MethodGet, "/health/status", nil, nil)
}

// Status junta /health/status, /health/database e /test/stats.
// Partes que falham aparecem com o erro no lugar do corpo.
func (c *Client) Status(ctx context.Context) map[string]any {
	out := make(map[string]any, 3)
	for key, path := range map[string]string{
		"status":   "/health/status",
		"database": "/health/database",
		"stats":    "/test/stats",
	} {
		var body json.RawMessage
		if err := c.do(ctx, c.Health, http.MethodGet, path, nil, &body); err != nil {
			out[key] = map[string]string{"error": err.Error()}
			continue
		}
		out[key] = body
	}
	return out
}

// News lista as notícias publicadas no backend
func (c *Client) News(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, c.HTTP, http.MethodGet, "/news", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return &HTTPError{Status: res.StatusCode, Message: errorMessage(res)}
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func errorMessage(res *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body)

	switch res.StatusCode {
	case http.StatusBadRequest:
		if body.Message != "" {
			return body.Message
		}
		return "bad request"
	case http.StatusUnauthorized:
		if body.Message != "" {
			return body.Message
		}
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	}
	if body.Message != "" {
		return body.Message
	}
	return res.Status
}

func isStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

func resourcePath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}
