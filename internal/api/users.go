package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// UsersClient covers the user-management endpoints.
type UsersClient struct {
	gw       *gateway.Client
	validate *validator.Validate
}

// NewUsersClient builds a users client over the gateway.
func NewUsersClient(gw *gateway.Client) *UsersClient {
	return &UsersClient{gw: gw, validate: validator.New()}
}

// List fetches all users, optionally restricted to one role. The daily-log
// attendance picker uses role=operasional.
func (c *UsersClient) List(ctx context.Context, role *models.Role) ([]models.User, error) {
	var query url.Values
	if role != nil {
		query = url.Values{"role": {string(*role)}}
	}

	var out []models.User
	if err := c.gw.GetJSON(ctx, "/api/users", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create registers a new account.
func (c *UsersClient) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindValidation, 0, "data user belum lengkap")
	}

	out := &models.User{}
	if err := c.gw.PostJSON(ctx, "/api/users", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update edits an existing account.
func (c *UsersClient) Update(ctx context.Context, id int, req models.UpdateUserRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.KindValidation, 0, "data user belum lengkap")
	}
	return c.gw.PutJSON(ctx, fmt.Sprintf("/api/users/%d", id), req, nil)
}

// Delete removes an account.
func (c *UsersClient) Delete(ctx context.Context, id int) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/api/users/%d", id))
}
