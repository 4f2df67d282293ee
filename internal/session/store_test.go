package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

type mockAuthAPI struct {
	meCalls      int
	meErrs       []error
	meUser       *models.User
	refreshCalls int
	refreshErr   error
	refreshResp  *models.RefreshResponse
}

func (m *mockAuthAPI) Me(ctx context.Context, accessToken string) (*models.User, error) {
	m.meCalls++
	if len(m.meErrs) > 0 {
		err := m.meErrs[0]
		m.meErrs = m.meErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.meUser, nil
}

func (m *mockAuthAPI) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshResp, nil
}

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return storage
}

func seedStorage(t *testing.T, storage Storage, state *State) {
	t.Helper()
	require.NoError(t, storage.Save(context.Background(), state))
}

func TestRestoreNoTokensNoNetwork(t *testing.T) {
	auth := &mockAuthAPI{}
	store := NewStore(newTestStorage(t), auth, zap.NewNop())

	store.Restore(context.Background())

	assert.Nil(t, store.User())
	assert.False(t, store.Loading())
	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, auth.meCalls)
	assert.Zero(t, auth.refreshCalls)
}

func TestRestoreValidToken(t *testing.T) {
	storage := newTestStorage(t)
	cached := &models.User{ID: 1, Username: "alice", FullName: "Alice Tan", Role: models.RoleWarehouseHead}
	seedStorage(t, storage, &State{AccessToken: "at", RefreshToken: "rt", User: cached})

	auth := &mockAuthAPI{meUser: cached}
	store := NewStore(storage, auth, zap.NewNop())

	store.Restore(context.Background())

	require.NotNil(t, store.User())
	assert.Equal(t, "alice", store.User().Username)
	assert.Equal(t, "at", store.AccessToken())
	assert.False(t, store.Loading())
	assert.Equal(t, 1, auth.meCalls)
	assert.Zero(t, auth.refreshCalls)
}

func TestRestoreExpiredTokenRefreshesOnce(t *testing.T) {
	storage := newTestStorage(t)
	cached := &models.User{ID: 1, Username: "alice"}
	seedStorage(t, storage, &State{AccessToken: "stale", RefreshToken: "rt", User: cached})

	unauthorized := apperrors.New(apperrors.KindRequestFailed, http.StatusUnauthorized, "token expired")
	auth := &mockAuthAPI{
		meErrs:      []error{unauthorized, nil},
		meUser:      cached,
		refreshResp: &models.RefreshResponse{AccessToken: "fresh", RefreshToken: "rt2"},
	}
	store := NewStore(storage, auth, zap.NewNop())

	store.Restore(context.Background())

	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, 2, auth.meCalls)
	assert.Equal(t, "fresh", store.AccessToken())
	require.NotNil(t, store.User())

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", persisted.AccessToken)
	assert.Equal(t, "rt2", persisted.RefreshToken)
}

func TestRestoreRefreshFailureClearsEverything(t *testing.T) {
	storage := newTestStorage(t)
	seedStorage(t, storage, &State{AccessToken: "stale", RefreshToken: "rt", User: &models.User{ID: 1}})

	unauthorized := apperrors.New(apperrors.KindRequestFailed, http.StatusUnauthorized, "token expired")
	auth := &mockAuthAPI{
		meErrs:     []error{unauthorized},
		refreshErr: apperrors.New(apperrors.KindRequestFailed, http.StatusUnauthorized, "refresh token revoked"),
	}
	store := NewStore(storage, auth, zap.NewNop())

	store.Restore(context.Background())

	assert.Equal(t, 1, auth.refreshCalls)
	assert.Nil(t, store.User())
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.Loading())

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, persisted.Empty())
}

func TestRestoreNetworkFailureFailsClosed(t *testing.T) {
	storage := newTestStorage(t)
	seedStorage(t, storage, &State{AccessToken: "at", RefreshToken: "rt"})

	auth := &mockAuthAPI{meErrs: []error{apperrors.ErrNetwork}}
	store := NewStore(storage, auth, zap.NewNop())

	store.Restore(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, auth.refreshCalls)

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, persisted.Empty())
}

func TestLoginPersistsAtomically(t *testing.T) {
	storage := newTestStorage(t)
	store := NewStore(storage, &mockAuthAPI{}, zap.NewNop())

	user := &models.User{ID: 7, Username: "budi", Role: models.RoleOperations}
	require.NoError(t, store.Login(context.Background(), user, models.TokenPair{AccessToken: "at", RefreshToken: "rt"}))

	assert.Equal(t, "at", store.AccessToken())
	require.NotNil(t, store.User())

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at", persisted.AccessToken)
	assert.Equal(t, "rt", persisted.RefreshToken)
	require.NotNil(t, persisted.User)
	assert.Equal(t, "budi", persisted.User.Username)
}

func TestLogoutClearsMemoryAndStorage(t *testing.T) {
	storage := newTestStorage(t)
	store := NewStore(storage, &mockAuthAPI{}, zap.NewNop())
	require.NoError(t, store.Login(context.Background(), &models.User{ID: 1}, models.TokenPair{AccessToken: "at", RefreshToken: "rt"}))

	store.Logout(context.Background())

	assert.Nil(t, store.User())
	assert.False(t, store.IsAuthenticated())

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, persisted.Empty())
}

func TestRefreshAccessTokenRotates(t *testing.T) {
	storage := newTestStorage(t)
	store := NewStore(storage, &mockAuthAPI{refreshResp: &models.RefreshResponse{AccessToken: "at2", RefreshToken: "rt2"}}, zap.NewNop())
	require.NoError(t, store.Login(context.Background(), &models.User{ID: 1}, models.TokenPair{AccessToken: "at1", RefreshToken: "rt1"}))

	token, err := store.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at2", token)
	assert.Equal(t, "at2", store.AccessToken())

	persisted, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rt2", persisted.RefreshToken)
}

func TestRefreshAccessTokenFailureReturnsSessionExpired(t *testing.T) {
	storage := newTestStorage(t)
	store := NewStore(storage, &mockAuthAPI{refreshErr: apperrors.ErrRequestFailed}, zap.NewNop())
	require.NoError(t, store.Login(context.Background(), &models.User{ID: 1}, models.TokenPair{AccessToken: "at", RefreshToken: "rt"}))

	_, err := store.RefreshAccessToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))
	assert.False(t, store.IsAuthenticated())
}

func TestRefreshAccessTokenWithoutRefreshToken(t *testing.T) {
	store := NewStore(newTestStorage(t), &mockAuthAPI{}, zap.NewNop())

	_, err := store.RefreshAccessToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))
}
