package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/paragon/backend/internal/application/identity"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"github.com/paragon/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves login, logout and the current session
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges a username and password for a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	result, err := h.auth.Login(c.Request.Context(), appidentity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the caller's token
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		h.auth.Logout(c.Request.Context(), claims)
	}
	h.NoContent(c)
}

// Me returns the caller's session
func (h *AuthHandler) Me(c *gin.Context) {
	scope := middleware.GetScope(c)
	h.Success(c, appidentity.UserInfo{
		ID:         scope.UserID,
		Username:   scope.Username,
		Role:       scope.Role,
		LocationID: scope.LocationID,
	})
}
