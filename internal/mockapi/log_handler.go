package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// LogHandler wires the daily-log endpoints.
type LogHandler struct {
	service  *LogService
	validate *validator.Validate
}

// NewLogHandler creates a new handler.
func NewLogHandler(svc *LogService) *LogHandler {
	return &LogHandler{service: svc, validate: validator.New()}
}

// List handles GET /api/daily-logs.
func (h *LogHandler) List(c *gin.Context) {
	filter, ok := logFilter(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", page)
}

// Get handles GET /api/daily-logs/:id.
func (h *LogHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", detail)
}

// Create handles POST /api/daily-logs.
func (h *LogHandler) Create(c *gin.Context) {
	var req models.CreateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "payload log tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, http.StatusBadRequest, "data log belum lengkap")
		return
	}

	detail, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "log dibuat", detail)
}

// Update handles PUT /api/daily-logs/:id.
func (h *LogHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "payload log tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, http.StatusBadRequest, "data log belum lengkap")
		return
	}

	detail, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "log diperbarui", detail)
}

// Delete handles DELETE /api/daily-logs/:id.
func (h *LogHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "log dihapus", nil)
}

// logFilter parses the shared list parameters. Empty values are the norm;
// only malformed ones are rejected.
func logFilter(c *gin.Context) (repository.LogFilter, bool) {
	filter := repository.LogFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      1,
		Limit:     10,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			response.Fail(c, http.StatusBadRequest, "parameter page tidak valid")
			return filter, false
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.Fail(c, http.StatusBadRequest, "parameter limit tidak valid")
			return filter, false
		}
		filter.Limit = limit
	}
	var ok bool
	if filter.StartDate, ok = dateParam(c, "startDate"); !ok {
		return filter, false
	}
	if filter.EndDate, ok = dateParam(c, "endDate"); !ok {
		return filter, false
	}
	return filter, true
}

func dateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "parameter "+name+" tidak valid")
		return nil, false
	}
	return &parsed, true
}
