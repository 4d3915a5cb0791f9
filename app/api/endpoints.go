package api

import (
	"context"
	"net/http"
	"time"
)

// Credentials is the login and register payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ShortenRequest is the validated shortener form.
type ShortenRequest struct {
	OriginalURL     string  `json:"originalUrl"`
	CustomShortCode string  `json:"customShortCode,omitempty"`
	Password        *string `json:"password"`
	Description     *string `json:"description"`
	IsActive        bool    `json:"isActive"`
}

// EditRequest is the validated edit form. A nil Password leaves the link's
// password unchanged; a nil Description clears it.
type EditRequest struct {
	OriginalURL string  `json:"originalUrl"`
	Password    *string `json:"password,omitempty"`
	Description *string `json:"description"`
	IsActive    bool    `json:"isActive"`
}

// Link is a shortened URL as the backend reports it.
type Link struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	Protected   bool      `json:"hasPassword"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
}

type resolveResponse struct {
	OriginalURL string `json:"originalUrl"`
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	return c.authenticate(ctx, "/api/auth/register", creds)
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.authenticate(ctx, "/api/auth/login", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, path, creds, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrEmptyToken
	}
	return out.Token, nil
}

// Shorten creates a link. Anonymous callers are allowed.
func (c *Client) Shorten(ctx context.Context, req ShortenRequest) (Link, error) {
	var out Link
	err := c.do(ctx, http.MethodPost, "/api/urls", req, &out)
	return out, err
}

// MyLinks lists the links owned by the session's account.
func (c *Client) MyLinks(ctx context.Context) ([]Link, error) {
	var out []Link
	if err := c.do(ctx, http.MethodGet, "/api/urls/mine", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Edit updates a link the session owns.
func (c *Client) Edit(ctx context.Context, id string, req EditRequest) (Link, error) {
	var out Link
	err := c.do(ctx, http.MethodPatch, "/api/urls/"+escape(id), req, &out)
	return out, err
}

// Delete removes a link the session owns.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/urls/"+escape(id), nil, nil)
}

// Resolve looks up the original URL for a short code. Protected links fail
// with ErrPasswordRequired.
func (c *Client) Resolve(ctx context.Context, shortCode string) (string, error) {
	var out resolveResponse
	if err := c.do(ctx, http.MethodGet, "/api/urls/"+escape(shortCode), nil, &out); err != nil {
		return "", err
	}
	return out.OriginalURL, nil
}

// Unlock resolves a password-protected short code.
func (c *Client) Unlock(ctx context.Context, shortCode, password string) (string, error) {
	var out resolveResponse
	in := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, "/api/urls/"+escape(shortCode)+"/unlock", in, &out); err != nil {
		return "", err
	}
	return out.OriginalURL, nil
}
