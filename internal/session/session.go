// Package session holds the client-side authentication state machine:
// unauthenticated -> initializing -> authenticated, and back to
// unauthenticated when the stored token fails validation. Every
// bootstrap failure resolves to a clean unauthenticated state; a stale
// session never blocks the caller.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/storage"
)

// Storage keys shared with the web client.
const (
	UserKey  = "user"
	TokenKey = "auth_token"
)

// Token prefixes trusted without a server round-trip (dev/demo
// convenience path).
var trustedTokenPrefixes = []string{"test-token", "demo-"}

// State is the session lifecycle phase.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateInitializing    State = "initializing"
	StateAuthenticated   State = "authenticated"
)

// API is the slice of the backend the session manager talks to.
type API interface {
	CIBNLogin(ctx context.Context, memberID, password string) (*models.AuthSession, error)
	Me(ctx context.Context) (*models.User, error)
	SetToken(token string)
	ClearToken()
}

// Manager owns the authenticated user and access token, mirrored into
// storage under the user/auth_token keys.
type Manager struct {
	mu       sync.Mutex
	api      API
	store    storage.Store
	state    State
	user     *models.User
	token    string
	onLogout []func()
}

// NewManager creates an unauthenticated session manager. Call Bootstrap
// to restore a persisted session.
func NewManager(api API, store storage.Store) *Manager {
	return &Manager{
		api:   api,
		store: store,
		state: StateUnauthenticated,
	}
}

// Bootstrap restores the session from storage. Missing data leaves the
// manager unauthenticated; a token with a trusted dev prefix is
// accepted as-is; anything else is validated against the backend, and
// on any failure the stored auth data is cleared atomically.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	m.state = StateInitializing
	m.mu.Unlock()

	var user models.User
	var token string
	hasUser := storage.GetItem(m.store, UserKey, &user)
	hasToken := storage.GetItem(m.store, TokenKey, &token)

	if !hasUser || !hasToken || token == "" {
		m.setUnauthenticated()
		return
	}

	if hasTrustedPrefix(token) {
		m.api.SetToken(token)
		m.setAuthenticated(&user, token)
		return
	}

	m.api.SetToken(token)
	refreshed, err := m.api.Me(ctx)
	if err != nil {
		slog.Warn("stored session failed validation, clearing", "error", err)
		m.clearStoredAuth()
		m.api.ClearToken()
		m.setUnauthenticated()
		return
	}

	// Persist the refreshed profile so the next bootstrap starts from
	// current data.
	storage.SetItem(m.store, UserKey, refreshed)
	m.setAuthenticated(refreshed, token)
}

// CIBNLogin authenticates a member and stores the resulting session.
// On failure the state is left untouched and the server's message (or
// the transport error) is returned for the caller to surface.
func (m *Manager) CIBNLogin(ctx context.Context, memberID, password string) error {
	session, err := m.api.CIBNLogin(ctx, memberID, password)
	if err != nil {
		return err
	}

	storage.SetItem(m.store, UserKey, session.User)
	storage.SetItem(m.store, TokenKey, session.AccessToken)
	m.setAuthenticated(session.User, session.AccessToken)
	return nil
}

// Logout clears the stored auth data, resets the state and notifies
// subscribers.
func (m *Manager) Logout() {
	m.clearStoredAuth()
	m.api.ClearToken()
	m.setUnauthenticated()

	m.mu.Lock()
	listeners := make([]func(), len(m.onLogout))
	copy(listeners, m.onLogout)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// OnLogout registers a listener for session-end broadcasts.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// HandleUnauthorized is the passive logout path: wire it to the API
// client's 401 notifications so a rejected request anywhere forces the
// session closed.
func (m *Manager) HandleUnauthorized() {
	if m.State() == StateAuthenticated {
		m.Logout()
	}
}

// State returns the current lifecycle phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the authenticated user, nil otherwise.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Token returns the current access token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// IsAuthenticated reports whether a user is set.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

func (m *Manager) setAuthenticated(user *models.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.user = user
	m.token = token
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUnauthenticated
	m.user = nil
	m.token = ""
}

// clearStoredAuth removes user and token together; one never outlives
// the other.
func (m *Manager) clearStoredAuth() {
	storage.RemoveItem(m.store, UserKey)
	storage.RemoveItem(m.store, TokenKey)
}

func hasTrustedPrefix(token string) bool {
	for _, prefix := range trustedTokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}
