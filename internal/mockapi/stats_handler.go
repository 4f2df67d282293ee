package mockapi

import (
	"github.com/gin-gonic/gin"

	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// StatsHandler wires the overview, insight and top-performer endpoints.
type StatsHandler struct {
	service *StatsService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Counts handles GET /api/overview/counts.
func (h *StatsHandler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", counts)
}

// Trend handles GET /api/overview/trend.
func (h *StatsHandler) Trend(c *gin.Context) {
	trend, err := h.service.Trend(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", trend)
}

// RecentLogs handles GET /api/overview/recent-logs.
func (h *StatsHandler) RecentLogs(c *gin.Context) {
	logs, err := h.service.RecentLogs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", logs)
}

// BarProductivity handles GET /api/overview/bar-productivity.
func (h *StatsHandler) BarProductivity(c *gin.Context) {
	bars, err := h.service.BarProductivity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", bars)
}

// WorkerPresence handles GET /api/insights/worker-present.
func (h *StatsHandler) WorkerPresence(c *gin.Context) {
	presence, err := h.service.WorkerPresence(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", presence)
}

// TrendItem handles GET /api/insights/trend-item.
func (h *StatsHandler) TrendItem(c *gin.Context) {
	from, ok := dateParam(c, "startDate")
	if !ok {
		return
	}
	to, ok := dateParam(c, "endDate")
	if !ok {
		return
	}

	points, err := h.service.TrendItem(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", points)
}

// WorkerPerformance handles GET /api/insights/worker-performance.
func (h *StatsHandler) WorkerPerformance(c *gin.Context) {
	bars, err := h.service.WorkerPerformance(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", bars)
}

// TopPerformers handles GET /api/top-performers.
func (h *StatsHandler) TopPerformers(c *gin.Context) {
	performers, err := h.service.TopPerformers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", performers)
}
