package apiclient

import (
	"context"
	"errors"
)

// User is the identity returned by the auth endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// LoginResult is the body of a successful POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Login exchanges a username and password for a credential.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.PostJSON(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return LoginResult{}, err
	}
	if out.AccessToken == "" {
		return LoginResult{}, errors.New("api: login response missing access_token")
	}
	return out, nil
}

// Me returns the identity bound to the current credential.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	if err := c.Get(ctx, "/auth/me", nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}
