package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/storage"
)

// fakeAPI records token handling and serves canned login/profile
// responses.
type fakeAPI struct {
	token        string
	loginResult  *models.AuthSession
	loginErr     error
	meResult     *models.User
	meErr        error
	meCalls      int
	clearedToken bool
}

func (f *fakeAPI) CIBNLogin(ctx context.Context, memberID, password string) (*models.AuthSession, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = f.loginResult.AccessToken
	return f.loginResult, nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meResult, nil
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) ClearToken() {
	f.token = ""
	f.clearedToken = true
}

func seedStoredAuth(t *testing.T, store storage.Store, user *models.User, token string) {
	t.Helper()
	require.True(t, storage.SetItem(store, UserKey, user))
	require.True(t, storage.SetItem(store, TokenKey, token))
}

func testUser() *models.User {
	return &models.User{
		ID:       "CIBN001",
		Email:    "ngozi@example.com",
		FullName: "Ngozi Adebayo",
		Role:     models.RoleCIBNMember,
	}
}

func TestBootstrapNoStoredData(t *testing.T) {
	api := &fakeAPI{}
	manager := NewManager(api, storage.NewMemoryStore(0))

	manager.Bootstrap(context.Background())

	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.Nil(t, manager.User())
	assert.Empty(t, manager.Token())
	assert.Zero(t, api.meCalls)
}

func TestBootstrapTokenWithoutUser(t *testing.T) {
	store := storage.NewMemoryStore(0)
	require.True(t, storage.SetItem(store, TokenKey, "some-token"))
	api := &fakeAPI{}
	manager := NewManager(api, store)

	manager.Bootstrap(context.Background())

	assert.False(t, manager.IsAuthenticated())
	assert.Zero(t, api.meCalls)
}

func TestBootstrapTrustedPrefixSkipsValidation(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"test token", "test-token-abc"},
		{"demo token", "demo-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore(0)
			seedStoredAuth(t, store, testUser(), tt.token)
			api := &fakeAPI{}
			manager := NewManager(api, store)

			manager.Bootstrap(context.Background())

			assert.Equal(t, StateAuthenticated, manager.State())
			assert.Equal(t, tt.token, manager.Token())
			assert.Equal(t, tt.token, api.token)
			assert.Zero(t, api.meCalls, "trusted tokens must not hit the backend")
		})
	}
}

func TestBootstrapValidTokenRefreshesProfile(t *testing.T) {
	store := storage.NewMemoryStore(0)
	stale := testUser()
	stale.FullName = "Stale Name"
	seedStoredAuth(t, store, stale, "real-jwt")

	api := &fakeAPI{meResult: testUser()}
	manager := NewManager(api, store)

	manager.Bootstrap(context.Background())

	require.Equal(t, StateAuthenticated, manager.State())
	assert.Equal(t, 1, api.meCalls)
	assert.Equal(t, "Ngozi Adebayo", manager.User().FullName)

	// The refreshed profile is persisted for the next bootstrap.
	var stored models.User
	require.True(t, storage.GetItem(store, UserKey, &stored))
	assert.Equal(t, "Ngozi Adebayo", stored.FullName)
}

func TestBootstrapInvalidTokenClearsStoredAuth(t *testing.T) {
	store := storage.NewMemoryStore(0)
	seedStoredAuth(t, store, testUser(), "expired-jwt")

	api := &fakeAPI{meErr: assert.AnError}
	manager := NewManager(api, store)

	manager.Bootstrap(context.Background())

	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.True(t, api.clearedToken)

	// User and token are cleared together, never one without the other.
	var user models.User
	var token string
	assert.False(t, storage.GetItem(store, UserKey, &user))
	assert.False(t, storage.GetItem(store, TokenKey, &token))
}

func TestCIBNLoginStoresSession(t *testing.T) {
	store := storage.NewMemoryStore(0)
	api := &fakeAPI{loginResult: &models.AuthSession{
		User:        testUser(),
		AccessToken: "fresh-jwt",
	}}
	manager := NewManager(api, store)

	require.NoError(t, manager.CIBNLogin(context.Background(), "CIBN001", "pass"))

	assert.Equal(t, StateAuthenticated, manager.State())
	assert.Equal(t, "fresh-jwt", manager.Token())

	var token string
	require.True(t, storage.GetItem(store, TokenKey, &token))
	assert.Equal(t, "fresh-jwt", token)
	var user models.User
	require.True(t, storage.GetItem(store, UserKey, &user))
	assert.Equal(t, "CIBN001", user.ID)
}

func TestCIBNLoginFailureLeavesStateUntouched(t *testing.T) {
	store := storage.NewMemoryStore(0)
	api := &fakeAPI{loginErr: assert.AnError}
	manager := NewManager(api, store)

	err := manager.CIBNLogin(context.Background(), "CIBN001", "wrong")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StateUnauthenticated, manager.State())
	var token string
	assert.False(t, storage.GetItem(store, TokenKey, &token))
}

func TestLogoutClearsAndNotifies(t *testing.T) {
	store := storage.NewMemoryStore(0)
	api := &fakeAPI{loginResult: &models.AuthSession{
		User:        testUser(),
		AccessToken: "fresh-jwt",
	}}
	manager := NewManager(api, store)
	require.NoError(t, manager.CIBNLogin(context.Background(), "CIBN001", "pass"))

	notified := 0
	manager.OnLogout(func() { notified++ })
	manager.Logout()

	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.Nil(t, manager.User())
	assert.True(t, api.clearedToken)
	assert.Equal(t, 1, notified)

	var user models.User
	assert.False(t, storage.GetItem(store, UserKey, &user))
}

func TestHandleUnauthorized(t *testing.T) {
	store := storage.NewMemoryStore(0)
	api := &fakeAPI{loginResult: &models.AuthSession{
		User:        testUser(),
		AccessToken: "fresh-jwt",
	}}
	manager := NewManager(api, store)

	notified := 0
	manager.OnLogout(func() { notified++ })

	// A 401 while logged out is a no-op.
	manager.HandleUnauthorized()
	assert.Zero(t, notified)

	require.NoError(t, manager.CIBNLogin(context.Background(), "CIBN001", "pass"))
	manager.HandleUnauthorized()

	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.Equal(t, 1, notified)
}
