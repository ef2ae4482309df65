// Package authapi is the HTTP client for the external auth service. It
// issues and refreshes sessions, upgrades anonymous identities, and manages
// credentials. All failures surface as domain.AuthError so callers can
// distinguish credential problems from network ones.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/spendcheck/spendcheck-go/internal/config"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// Client talks to the auth service REST API.
type Client struct {
	baseURL     string
	apiKey      string
	redirectURL string
	httpClient  *http.Client
	log         *slog.Logger
}

// New creates a Client from the auth configuration.
func New(cfg config.AuthConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		redirectURL: cfg.OAuthRedirectURL,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		log:         logger.With("adapter", "authapi"),
	}
}

// NewWithURL creates a Client with a custom base URL (for testing).
func NewWithURL(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "authapi"),
	}
}

// SignInAnonymously creates a fresh anonymous identity and session.
func (c *Client) SignInAnonymously(ctx context.Context) (*domain.Session, error) {
	body := map[string]any{"data": map[string]any{}}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

// SignUp registers a real account with email and password. The account gets
// a fresh id; any guest data moves over afterwards through the ownership
// migration.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]any{"email": email, "password": password}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

// SignInWithPassword exchanges email credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]any{"email": email, "password": password}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

// Refresh exchanges a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body := map[string]any{"refresh_token": refreshToken}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

// OAuthURL returns the authorization URL the user must visit to sign in with
// the given provider. The service redirects back to the configured URL with
// tokens in the fragment.
func (c *Client) OAuthURL(provider string) (string, error) {
	if provider == "" {
		return "", domain.NewAuthError("invalid_provider", "oauth provider is required")
	}

	q := url.Values{}
	q.Set("provider", provider)
	if c.redirectURL != "" {
		q.Set("redirect_to", c.redirectURL)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}

// SignOut revokes the session on the server. A 401 means the session is
// already gone and is not an error for the caller's purposes.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	if err != nil {
		var authErr *domain.AuthError
		if asAuthError(err, &authErr) && authErr.Code == "401" {
			return nil
		}
		return err
	}
	return nil
}

// ResetPasswordForEmail asks the service to send a password recovery email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	body := map[string]any{"email": email}
	return c.do(ctx, http.MethodPost, "/recover", "", body, nil)
}

// UpdatePassword sets a new password for the session's identity.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*domain.Identity, error) {
	body := map[string]any{"password": newPassword}

	var resp userResponse
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, body, &resp); err != nil {
		return nil, err
	}
	identity := resp.identity()
	return &identity, nil
}

// GetUser fetches the identity behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*domain.Identity, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &resp); err != nil {
		return nil, err
	}
	identity := resp.identity()
	return &identity, nil
}

// do executes one API call. A non-nil out is filled from the response body.
// The bearer token defaults to the API key when no access token is given.
func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("authapi: encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("authapi: create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.DebugContext(ctx, "auth request", slog.String("method", method), slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "auth request failed", slog.String("path", path), slog.String("error", err.Error()))
		return domain.NewAuthError("network", fmt.Sprintf("auth service unreachable: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewAuthError("network", fmt.Sprintf("read auth response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorResponse(resp.StatusCode, raw)
		c.log.WarnContext(ctx, "auth error response",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("code", apiErr.Code),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("authapi: decode response: %w", err)
	}
	return nil
}
