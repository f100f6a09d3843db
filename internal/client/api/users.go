package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest identifies the user by email or username in Email.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.call(ctx, http.MethodPost, "/users/register", req, nil, true)
}

// Login exchanges credentials for an access token. The refresh cookie set by
// the response lands in the client's jar.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	var res LoginResult
	if err := c.call(ctx, http.MethodPost, "/users/login", req, &res, true); err != nil {
		return LoginResult{}, err
	}
	if res.AccessToken == "" {
		return LoginResult{}, fmt.Errorf("%w: login response without access token", models.ErrMalformedPayload)
	}
	return res, nil
}
