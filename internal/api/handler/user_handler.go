package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

const maxImportFileSize = 5 << 20

// UserHandler user management endpoints
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers paginated list filtered by role and keyword
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// CreateUser creates an account with a temporary password
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	result, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, result)
}

// GetUser
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser partial update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// AssignRole role change
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Rol no válido")
		return
	}

	if err := h.userSvc.AssignRole(c.Request.Context(), id, &req, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteUser deactivates an account; rows are never removed
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Deactivate(c.Request.Context(), id, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportUsers bulk import from an .xlsx upload (form field "file")
// POST /api/v1/users/import
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "Debe adjuntar un archivo Excel en el campo file")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, 12010, "Solo se admiten archivos .xlsx")
		return
	}
	if fh.Size > maxImportFileSize {
		response.BadRequest(c, 10005, "El archivo supera el tamaño máximo de 5 MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 12011, service.ErrImportBadFile.Error())
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(f)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, result)
}

// handleUserError maps user service errors to HTTP responses
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrUserExists):
		response.Conflict(c, 12002, err.Error())
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.BadRequest(c, 12003, err.Error())
	case errors.Is(err, service.ErrUserSelfDeactivate):
		response.BadRequest(c, 12004, err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 12005, err.Error())
	case errors.Is(err, service.ErrTeacherLinkMissing):
		response.BadRequest(c, 12006, err.Error())
	case errors.Is(err, service.ErrStudentLinkMissing):
		response.BadRequest(c, 12007, err.Error())
	case errors.Is(err, service.ErrImportNoData), errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 12008, err.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12009, err.Error())
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 12011, service.ErrImportBadFile.Error())
	default:
		response.InternalError(c)
	}
}
