package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/fintrack-dev/fintrack/internal/session"
)

// LoginRequest represents the credential login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser represents the user object in backend auth responses
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AuthResponse represents a backend-issued token pair plus user identity
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

// GoogleAuthRequest is the identity profile exchanged for backend tokens
// after a Google sign-in.
type GoogleAuthRequest struct {
	GoogleID     string `json:"googleId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// Login exchanges credentials for a backend token pair
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	data, err := c.Post(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleAuth exchanges a Google identity profile for a backend token pair.
// The call is authenticated with the provider's own id_token.
func (c *Client) GoogleAuth(ctx context.Context, idToken string, profile GoogleAuthRequest) (*AuthResponse, error) {
	data, err := c.Post(session.WithToken(ctx, idToken), "/auth/google", profile)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register forwards a registration payload unchanged
func (c *Client) Register(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/auth/register", body)
}

// ConfirmEmail confirms a registration email by token
func (c *Client) ConfirmEmail(ctx context.Context, token string) (json.RawMessage, error) {
	return c.Post(ctx, "/auth/confirm-email?token="+url.QueryEscape(token), struct{}{})
}

// Logout revokes the session server-side. Callers treat failure as
// best-effort: it is logged, never propagated to the user.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Delete(ctx, "/auth/logout")
	return err
}
