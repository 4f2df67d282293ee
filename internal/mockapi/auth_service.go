package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// AuthService implements the credential and token flows of the mock
// server: login, rotated refresh, and current-user lookup.
type AuthService struct {
	repo   repository.Repository
	tokens *TokenService
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo repository.Repository, tokens *TokenService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

// Login checks credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindUserByLogin(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "username atau kata sandi salah")
		}
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal memuat akun")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "username atau kata sandi salah")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userView(user),
	}, nil
}

// Refresh validates a refresh token and rotates it: the old token is
// revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "sesi tidak dikenal")
		}
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal memuat sesi")
	}
	if stored.Revoked || time.Now().UTC().After(stored.ExpiresAt) {
		return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "sesi sudah berakhir")
	}

	user, err := s.repo.FindUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "akun tidak ditemukan")
	}

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// CurrentUser resolves the account behind validated claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindUnauthenticated, http.StatusUnauthorized, "akun tidak ditemukan")
		}
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal memuat akun")
	}
	view := userView(user)
	return &view, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *repository.UserRecord) (*models.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal membuat token")
	}
	refreshToken, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal membuat token")
	}
	if err := s.repo.SaveRefreshToken(ctx, &repository.RefreshTokenRecord{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.tokens.RefreshTokenExpiry()),
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal menyimpan sesi")
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// userView maps a stored account to its wire shape, password left behind.
func userView(u *repository.UserRecord) models.User {
	view := models.User{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
	if u.SubRole != "" {
		view.SubRole = &models.SubRoleInfo{
			Name:         u.SubRole,
			TeamCategory: teamCategoryOf(u.SubRole),
		}
	}
	return view
}

func teamCategoryOf(subRole models.SubRole) string {
	switch subRole {
	case models.SubRoleLeaderIncoming, models.SubRoleGoodReceive, models.SubRoleQualityInspection, models.SubRoleBinning:
		return models.TeamIncoming
	default:
		return models.TeamOutgoing
	}
}
