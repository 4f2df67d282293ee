package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// UserHandler wires account management endpoints.
type UserHandler struct {
	service  *UserService
	validate *validator.Validate
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *UserService) *UserHandler {
	return &UserHandler{service: svc, validate: validator.New()}
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	var role *models.Role
	if raw := c.Query("role"); raw != "" {
		candidate := models.Role(raw)
		if !candidate.Valid() {
			response.Fail(c, http.StatusBadRequest, "role tidak dikenal")
			return
		}
		role = &candidate
	}

	users, err := h.service.List(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", users)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "payload user tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, http.StatusBadRequest, "data user belum lengkap")
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "user dibuat", user)
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "payload user tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, http.StatusBadRequest, "data user belum lengkap")
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user diperbarui", user)
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user dihapus", nil)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, "id tidak valid")
		return 0, false
	}
	return id, true
}
