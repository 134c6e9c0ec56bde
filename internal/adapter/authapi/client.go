// Package authapi is the HTTP client of the remote authentication API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"njaboot/internal/domain"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

var errBaseURLRequired = errors.New("auth api base url is required")

// StatusError reports a non-2xx answer. The response body is not kept.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// Client implements domain.Authenticator over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ domain.Authenticator = (*Client)(nil)

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Login exchanges credentials for the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return c.postUser(ctx, "login", loginPath, payload)
}

// Register creates a customer account and returns its profile.
func (c *Client) Register(ctx context.Context, r domain.Registration) (*domain.User, error) {
	return c.postUser(ctx, "register", registerPath, r)
}

func (c *Client) postUser(ctx context.Context, op, path string, payload any) (*domain.User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: execute request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Status: resp.StatusCode}
	}

	var apiResp struct {
		User *domain.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if apiResp.User == nil || apiResp.User.ID == "" {
		return nil, fmt.Errorf("%s: response carries no user", op)
	}
	return apiResp.User, nil
}
