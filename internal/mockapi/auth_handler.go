package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	"github.com/gudang-labs/warehouse-dashboard/pkg/response"
)

// AuthHandler wires the auth endpoints to the auth service.
type AuthHandler struct {
	service  *AuthService
	validate *validator.Validate
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *AuthService) *AuthHandler {
	return &AuthHandler{service: svc, validate: validator.New()}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "payload login tidak valid")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, http.StatusBadRequest, "username dan kata sandi wajib diisi")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "login berhasil", res)
}

// Refresh handles POST /api/auth/refresh-token. The refresh token arrives
// as the bearer credential, not in the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "token tidak ditemukan")
		return
	}

	res, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "token diperbarui", res)
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "token tidak ditemukan")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", user)
}
