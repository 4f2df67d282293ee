package api

import (
	"context"
	"net/url"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// PerformersClient covers the top-performers ranking endpoint.
type PerformersClient struct {
	gw *gateway.Client
}

// NewPerformersClient builds a performers client over the gateway.
func NewPerformersClient(gw *gateway.Client) *PerformersClient {
	return &PerformersClient{gw: gw}
}

// List fetches the ranking, optionally filtered by operator name.
func (c *PerformersClient) List(ctx context.Context, search string) ([]models.TopPerformer, error) {
	query := url.Values{"search": {search}}

	var out []models.TopPerformer
	if err := c.gw.GetJSON(ctx, "/api/top-performers", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
