package supabase

import (
	"context"
	"net/http"
)

// User auth user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session issued by the auth API. AccessToken is empty when sign-up requires
// email confirmation first.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp creates an auth user; metadata lands in the user's data.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	var body struct {
		Session
		// without auto-confirm the response is the bare user
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	req := c.request(ctx).SetBody(credentials{Email: email, Password: password, Data: metadata})
	if err := c.send(req, http.MethodPost, "/auth/v1/signup", &body); err != nil {
		return nil, err
	}
	session := body.Session
	if session.User.ID == "" {
		session.User = User{ID: body.ID, Email: body.Email}
	}
	return &session, nil
}

// SignIn password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	req := c.request(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(credentials{Email: email, Password: password})
	if err := c.send(req, http.MethodPost, "/auth/v1/token", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUser resolves the user behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	req := c.request(WithAccessToken(ctx, accessToken))
	if err := c.send(req, http.MethodGet, "/auth/v1/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Invoke calls an edge function with a JSON body.
func (c *Client) Invoke(ctx context.Context, function string, body any, out any) error {
	req := c.request(ctx).SetBody(body)
	return c.send(req, http.MethodPost, "/functions/v1/"+function, out)
}
