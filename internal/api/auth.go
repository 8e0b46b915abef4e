package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

type LoginResult struct {
	User  *domain.User
	Token string
}

// loginBody tolerates both observed token shapes: a bare string and a
// nested {"token": {"token": "..."}} object.
type loginBody struct {
	User  *domain.User    `json:"user"`
	Token json.RawMessage `json:"token"`
}

func extractToken(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Token
	}
	return ""
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	// no type-named key here: unwrapping by "user" would descend into the
	// user object and lose the sibling token field
	var body loginBody
	if err := decodeInto(raw, &body); err != nil {
		return nil, err
	}
	tok := extractToken(body.Token)
	if tok == "" || body.User == nil {
		return nil, apperr.InvalidResponse("login response missing user or token")
	}
	return &LoginResult{User: body.User, Token: tok}, nil
}

func (c *Client) Register(ctx context.Context, nickname, email, password string) (*domain.User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/register", map[string]string{
		"nickname": nickname,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := decodeInto(raw, &u, "user"); err != nil {
		return nil, err
	}
	return &u, nil
}
