// Package apiclient is the Go client for the digital library API. It
// mirrors the web client's HTTP layer, including the decoupled logout
// broadcast: any 401 from the server notifies unauthorized listeners so
// independent components can end the session without direct coupling.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cibn-digital-library/internal/models"
)

// Client talks to the library backend.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	token        string
	unauthorized []func()
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// OnUnauthorized registers a listener invoked whenever the server
// answers 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unauthorized = append(c.unauthorized, fn)
}

// apiError carries the server's message for a non-2xx response.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// envelope is the server's uniform response shape.
type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    *models.CIBNMember `json:"user"`
}

// CIBNLogin authenticates a member and returns the resulting session.
func (c *Client) CIBNLogin(ctx context.Context, memberID, password string) (*models.AuthSession, error) {
	body, err := c.post(ctx, "/api/auth/cibn/login", map[string]string{
		"memberId": memberID,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if body.Token == "" || body.User == nil {
		return nil, fmt.Errorf("malformed login response")
	}

	c.SetToken(body.Token)
	return &models.AuthSession{
		User: &models.User{
			ID:       body.User.MemberID,
			Email:    body.User.Email,
			FullName: body.User.FullName(),
			Role:     models.RoleCIBNMember,
		},
		AccessToken: body.Token,
	}, nil
}

// Me fetches the profile behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	body, err := c.get(ctx, "/api/auth/cibn/me")
	if err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, fmt.Errorf("malformed profile response")
	}
	return &models.User{
		ID:       body.User.MemberID,
		Email:    body.User.Email,
		FullName: body.User.FullName(),
		Role:     models.RoleCIBNMember,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var body envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{Status: resp.StatusCode, Message: body.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return &body, nil
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	listeners := make([]func(), len(c.unauthorized))
	copy(listeners, c.unauthorized)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
