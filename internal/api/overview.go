package api

import (
	"context"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// OverviewClient covers the dashboard summary endpoints.
type OverviewClient struct {
	gw *gateway.Client
}

// NewOverviewClient builds an overview client over the gateway.
func NewOverviewClient(gw *gateway.Client) *OverviewClient {
	return &OverviewClient{gw: gw}
}

// Counts fetches today's headline numbers.
func (c *OverviewClient) Counts(ctx context.Context) (*models.OverviewCounts, error) {
	out := &models.OverviewCounts{}
	if err := c.gw.GetJSON(ctx, "/api/overview/counts", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trend fetches the daily/weekly/monthly productivity averages.
func (c *OverviewClient) Trend(ctx context.Context) (*models.TrendAverages, error) {
	out := &models.TrendAverages{}
	if err := c.gw.GetJSON(ctx, "/api/overview/trend", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentLogs fetches the latest activity rows.
func (c *OverviewClient) RecentLogs(ctx context.Context) ([]models.RecentLog, error) {
	var out []models.RecentLog
	if err := c.gw.GetJSON(ctx, "/api/overview/recent-logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BarProductivity fetches the per-day productivity bars plus the target line.
func (c *OverviewClient) BarProductivity(ctx context.Context) (*models.BarProductivity, error) {
	out := &models.BarProductivity{}
	if err := c.gw.GetJSON(ctx, "/api/overview/bar-productivity", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
