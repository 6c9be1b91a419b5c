package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/radieske/betting-companion/internal/remote"
)

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID string `json:"localId"`
	IDToken string `json:"idToken"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (remote.AuthSession, error) {
	return c.authenticate(ctx, "accounts:signUp", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (remote.AuthSession, error) {
	return c.authenticate(ctx, "accounts:signInWithPassword", email, password)
}

// SignOut descarta o token; as próximas chamadas vão sem auth
func (c *Client) SignOut() {
	c.mu.Lock()
	c.idToken = ""
	c.mu.Unlock()
}

func (c *Client) authenticate(ctx context.Context, action, email, password string) (remote.AuthSession, error) {
	body, err := json.Marshal(authRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return remote.AuthSession{}, err
	}
	u := c.cfg.AuthURL + "/" + action + "?key=" + url.QueryEscape(c.cfg.APIKey)
	raw, err := c.send(ctx, http.MethodPost, u, "application/json", body)
	if err != nil {
		return remote.AuthSession{}, err
	}

	var out authResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return remote.AuthSession{}, err
	}
	c.mu.Lock()
	c.idToken = out.IDToken
	c.mu.Unlock()
	return remote.AuthSession{UID: out.LocalID, Token: out.IDToken}, nil
}
