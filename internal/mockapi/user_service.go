package mockapi

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// UserService owns account management.
type UserService struct {
	repo repository.Repository
}

// NewUserService constructs a UserService.
func NewUserService(repo repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// List returns accounts, optionally narrowed to one role.
func (s *UserService) List(ctx context.Context, role *models.Role) ([]models.User, error) {
	records, err := s.repo.ListUsers(ctx, role)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]models.User, 0, len(records))
	for i := range records {
		out = append(out, userView(&records[i]))
	}
	return out, nil
}

// Create adds an account. Usernames and emails must be unique.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	for _, taken := range []string{req.Username, req.Email} {
		if _, err := s.repo.FindUserByLogin(ctx, taken); err == nil {
			return nil, apperrors.New(apperrors.KindValidation, http.StatusConflict, "username atau email sudah terpakai")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, storageErr(err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal menyimpan kata sandi")
	}

	rec := &repository.UserRecord{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		SubRole:      subRoleFor(req.Role, req.SubRole),
	}
	if err := s.repo.CreateUser(ctx, rec); err != nil {
		return nil, storageErr(err)
	}
	view := userView(rec)
	return &view, nil
}

// Update changes an account's profile and role.
func (s *UserService) Update(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error) {
	rec, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindRequestFailed, http.StatusNotFound, "user tidak ditemukan")
		}
		return nil, storageErr(err)
	}

	rec.FullName = req.FullName
	rec.Email = req.Email
	rec.Role = req.Role
	rec.SubRole = subRoleFor(req.Role, req.SubRole)
	if err := s.repo.UpdateUser(ctx, rec); err != nil {
		return nil, storageErr(err)
	}
	view := userView(rec)
	return &view, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.New(apperrors.KindRequestFailed, http.StatusNotFound, "user tidak ditemukan")
		}
		return storageErr(err)
	}
	return s.repo.RevokeUserRefreshTokens(ctx, id)
}

// subRoleFor drops the sub-role for accounts that cannot carry one.
func subRoleFor(role models.Role, subRole models.SubRole) models.SubRole {
	if role != models.RoleOperations {
		return ""
	}
	return subRole
}
