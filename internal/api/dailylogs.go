package api

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// DailyLogsClient covers the daily-log endpoints.
type DailyLogsClient struct {
	gw       *gateway.Client
	validate *validator.Validate
}

// NewDailyLogsClient builds a daily-logs client over the gateway.
func NewDailyLogsClient(gw *gateway.Client) *DailyLogsClient {
	return &DailyLogsClient{gw: gw, validate: validator.New()}
}

// List fetches one page of logs with the full filter state applied
// server-side.
func (c *DailyLogsClient) List(ctx context.Context, q models.ListQuery) (*models.LogPage, error) {
	out := &models.LogPage{}
	if err := c.gw.GetJSON(ctx, "/api/daily-logs", q.Values(), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one log with attendance detail and notes.
func (c *DailyLogsClient) Get(ctx context.Context, id int) (*models.DailyLogDetail, error) {
	out := &models.DailyLogDetail{}
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/api/daily-logs/%d", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create submits a new daily log. Validation blocks the call before any
// network traffic.
func (c *DailyLogsClient) Create(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLogDetail, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindValidation, 0, "data log belum lengkap")
	}

	out := &models.DailyLogDetail{}
	if err := c.gw.PostJSON(ctx, "/api/daily-logs", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a log's counts and attendance.
func (c *DailyLogsClient) Update(ctx context.Context, id int, req models.UpdateDailyLogRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.KindValidation, 0, "data log belum lengkap")
	}
	return c.gw.PutJSON(ctx, fmt.Sprintf("/api/daily-logs/%d", id), req, nil)
}

// Delete removes a log.
func (c *DailyLogsClient) Delete(ctx context.Context, id int) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/api/daily-logs/%d", id))
}
