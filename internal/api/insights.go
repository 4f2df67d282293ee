package api

import (
	"context"
	"net/url"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// InsightsClient covers the chart data-source endpoints.
type InsightsClient struct {
	gw *gateway.Client
}

// NewInsightsClient builds an insights client over the gateway.
func NewInsightsClient(gw *gateway.Client) *InsightsClient {
	return &InsightsClient{gw: gw}
}

// WorkerPresent fetches today's attendance split.
func (c *InsightsClient) WorkerPresent(ctx context.Context) (*models.WorkerPresence, error) {
	out := &models.WorkerPresence{}
	if err := c.gw.GetJSON(ctx, "/api/insights/worker-present", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendItem fetches the inbound-vs-outbound series for a date range.
func (c *InsightsClient) TrendItem(ctx context.Context, dateRange *models.DateRange) ([]models.TrendItemPoint, error) {
	query := url.Values{}
	if dateRange != nil {
		query.Set("startDate", dateRange.From.Format("2006-01-02"))
		query.Set("endDate", dateRange.To.Format("2006-01-02"))
	}

	var out []models.TrendItemPoint
	if err := c.gw.GetJSON(ctx, "/api/insights/trend-item", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerPerformance fetches the operator comparison for a period
// (weekly or monthly).
func (c *InsightsClient) WorkerPerformance(ctx context.Context, period string) ([]models.WorkerPerformance, error) {
	query := url.Values{"period": {period}}

	var out []models.WorkerPerformance
	if err := c.gw.GetJSON(ctx, "/api/insights/worker-performance", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
