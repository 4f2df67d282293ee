package session

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// AuthAPI is the slice of the auth endpoints the store needs: validating a
// token and exchanging a refresh token. Both run outside the gateway since
// the gateway itself depends on this store.
type AuthAPI interface {
	Me(ctx context.Context, accessToken string) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
}

// Store is the single source of truth for the current session. Pages read
// it; only Login, Logout, Restore and RefreshAccessToken write it.
type Store struct {
	mu           sync.RWMutex
	user         *models.User
	accessToken  string
	refreshToken string
	loading      bool

	storage Storage
	auth    AuthAPI
	logger  *zap.Logger
}

// NewStore builds a session store over the given durable storage.
func NewStore(storage Storage, auth AuthAPI, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, auth: auth, logger: logger}
}

// User returns the current user, nil when unauthenticated.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token, empty when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// IsAuthenticated reports whether an access token is present.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Loading reports whether Restore is still in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Restore loads the persisted session at startup. With no stored tokens it
// resolves to unauthenticated without any network call. With a cached user
// it sets it immediately, then validates against the server, refreshing at
// most once on a 401. Any unrecoverable failure clears the session
// entirely; Restore always terminates with loading=false.
func (s *Store) Restore(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	state, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn("session load failed, starting unauthenticated", zap.Error(err))
		s.clearAll(ctx)
		return
	}

	if state.AccessToken == "" || state.RefreshToken == "" {
		s.clearAll(ctx)
		return
	}

	s.mu.Lock()
	s.accessToken = state.AccessToken
	s.refreshToken = state.RefreshToken
	s.user = state.User
	s.mu.Unlock()

	user, err := s.auth.Me(ctx, state.AccessToken)
	if err == nil {
		s.setUser(ctx, user)
		return
	}

	if apperrors.StatusOf(err) == http.StatusUnauthorized {
		newToken, refreshErr := s.RefreshAccessToken(ctx)
		if refreshErr != nil {
			// RefreshAccessToken already cleared everything.
			return
		}
		user, err = s.auth.Me(ctx, newToken)
		if err == nil {
			s.setUser(ctx, user)
			return
		}
	}

	s.logger.Warn("session restore failed, clearing", zap.Error(err))
	s.clearAll(ctx)
}

// Login atomically installs the user and both tokens, in memory and in
// durable storage. The network call that produced them is the caller's.
func (s *Store) Login(ctx context.Context, user *models.User, tokens models.TokenPair) error {
	s.mu.Lock()
	s.user = user
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.mu.Unlock()

	if err := s.storage.Save(ctx, &State{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}); err != nil {
		s.logger.Warn("session persist failed", zap.Error(err))
		return err
	}
	return nil
}

// Logout clears the session from memory and durable storage.
func (s *Store) Logout(ctx context.Context) {
	s.clearAll(ctx)
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token. On any failure the whole session is cleared and a session-expired
// error returned: the store never keeps tokens that look valid but aren't.
// Concurrent callers must be deduplicated by the gateway's single-flight
// group; this method itself is merely safe, not deduplicating.
func (s *Store) RefreshAccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		s.clearAll(ctx)
		return "", apperrors.ErrSessionExpired
	}

	resp, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Info("token refresh failed, clearing session", zap.Error(err))
		s.clearAll(ctx)
		return "", apperrors.Wrap(err, apperrors.KindSessionExpired, http.StatusUnauthorized, "session expired")
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	state := &State{AccessToken: s.accessToken, RefreshToken: s.refreshToken, User: s.user}
	s.mu.Unlock()

	if err := s.storage.Save(ctx, state); err != nil {
		s.logger.Warn("session persist failed after refresh", zap.Error(err))
	}
	return resp.AccessToken, nil
}

func (s *Store) setUser(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.user = user
	state := &State{AccessToken: s.accessToken, RefreshToken: s.refreshToken, User: user}
	s.mu.Unlock()

	if err := s.storage.Save(ctx, state); err != nil {
		s.logger.Warn("session persist failed", zap.Error(err))
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) clearAll(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Warn("session clear failed", zap.Error(err))
	}
}
