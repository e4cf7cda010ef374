package api

import (
	"context"
	"errors"

	"coinfixi/internal/session"
)

// Auth endpoints.
const (
	PathLogin = "/auth/login"
	PathMe    = "/auth/me"
)

// LoginRequest is the credential form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        session.User `json:"user"`
}

// Login authenticates and stores the token in the client's session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	resp, err := Post[LoginResponse](ctx, c, PathLogin, req)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{Status: 500, Message: "login response carried no token", Err: errors.New("empty access_token")}
	}
	c.session.Set(resp.AccessToken, resp.TokenType, resp.User)
	return &resp, nil
}

// Me returns the user behind the current token.
func (c *Client) Me(ctx context.Context) (session.User, error) {
	if !c.session.Authenticated() {
		return session.User{}, session.ErrNoSession
	}
	resp, err := Get[Response[session.User]](ctx, c, PathMe, nil)
	return resp.Data, err
}

// Logout forgets the token locally. The API has no logout endpoint.
func (c *Client) Logout() {
	c.session.Clear()
}
