package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler authentication endpoints
type AuthHandler struct {
	authSvc    service.AuthService
	refreshTTL time.Duration
}

// NewAuthHandler creates an AuthHandler. cfg may be nil in tests.
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	ttl := 24 * time.Hour
	if cfg != nil && cfg.RefreshTokenTTL > 0 {
		ttl = cfg.RefreshTokenTTL
	}
	return &AuthHandler{authSvc: authSvc, refreshTTL: ttl}
}

// Login login by cédula or email
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair.
// The token is taken from the body, falling back to the refresh_token cookie.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		cookie, cerr := c.Cookie(refreshCookieName)
		if cerr != nil || cookie == "" {
			response.BadRequest(c, 10001, "Falta el refresh token")
			return
		}
		req.RefreshToken = cookie
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	jti, exp := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", c.Request.TLS != nil, true)
	response.OK(c, nil)
}

// GetCurrentUser current account
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, user)
}

// ChangePassword password change by the account owner
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "La nueva contraseña debe tener entre 8 y 64 caracteres")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), refreshCookiePath, "", c.Request.TLS != nil, true)
}

// handleAuthError maps auth service errors to HTTP responses
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, err.Error())
	case errors.Is(err, service.ErrUserDisabled):
		response.Forbidden(c, 11002, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, 11003, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11004, err.Error())
	case errors.Is(err, service.ErrSamePassword):
		response.BadRequest(c, 11005, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}
