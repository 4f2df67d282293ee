package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// AuthClient speaks to the auth endpoints directly, outside the gateway:
// login has no token yet, and refresh/me are the operations the session
// store runs underneath the gateway's single-flight.
type AuthClient struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewAuthClient builds an auth client against the given base URL.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AuthClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Login exchanges credentials for tokens and the user record. Validation
// failures block the call before any network traffic.
func (c *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindValidation, 0, "username dan kata sandi wajib diisi")
	}

	out := &models.LoginResponse{}
	if err := c.post(ctx, "/api/auth/login", "", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh exchanges the refresh token, sent as the bearer credential, for a
// new access token.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	out := &models.RefreshResponse{}
	if err := c.post(ctx, "/api/auth/refresh-token", refreshToken, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me validates the access token and returns the current user.
func (c *AuthClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindNetwork, 0, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	out := &models.User{}
	if err := c.roundTrip(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) post(ctx context.Context, path, bearer string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindValidation, 0, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindNetwork, 0, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return c.roundTrip(req, out)
}

func (c *AuthClient) roundTrip(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindNetwork, 0, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindNetwork, 0, "read response body")
	}
	return response.Decode(resp.StatusCode, raw, out)
}
