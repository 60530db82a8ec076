package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// Context keys written by middleware.JWTAuth
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxTeacherID = "teacher_id"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// MustGetUserID extracts user_id from the gin context.
// Writes a 401 and returns false when the JWT middleware did not run; callers return on ok=false.
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	return id, true
}

// MustGetRole extracts role from the gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxRole)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetTeacherID extracts the institute teacher id linked to the account.
// Accounts without a link get a 403.
func MustGetTeacherID(c *gin.Context) (string, bool) {
	v, _ := c.Get(CtxTeacherID)
	s, _ := v.(string)
	if s == "" {
		response.Forbidden(c, 10003, "La cuenta no está vinculada a un docente")
		return "", false
	}
	return s, true
}

// mustParseID parses a numeric path parameter
func mustParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "Identificador no válido")
		return 0, false
	}
	return uint(id), true
}

// tokenInfo jti and expiry of the access token in use
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(CtxTokenJTI)
	exp, _ := c.Get(CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
