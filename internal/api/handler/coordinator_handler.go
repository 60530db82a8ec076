package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// CoordinatorHandler coordinator to career assignments
type CoordinatorHandler struct {
	coordSvc service.CoordinatorService
}

// NewCoordinatorHandler creates a CoordinatorHandler
func NewCoordinatorHandler(coordSvc service.CoordinatorService) *CoordinatorHandler {
	return &CoordinatorHandler{coordSvc: coordSvc}
}

// Assign
// POST /api/v1/coordinators
func (h *CoordinatorHandler) Assign(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	result, err := h.coordSvc.Assign(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCoordinatorError(c, err)
		return
	}
	response.Created(c, result)
}

// List assignments of a period
// GET /api/v1/coordinators
func (h *CoordinatorHandler) List(c *gin.Context) {
	var req dto.CoordinatorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Falta el parámetro period_id")
		return
	}

	list, err := h.coordSvc.List(c.Request.Context(), req.PeriodID)
	if err != nil {
		h.handleCoordinatorError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Revoke
// DELETE /api/v1/coordinators/:id
func (h *CoordinatorHandler) Revoke(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.coordSvc.Revoke(c.Request.Context(), id); err != nil {
		h.handleCoordinatorError(c, err)
		return
	}
	response.OK(c, nil)
}

// Mine caller's active assignments
// GET /api/v1/coordinators/me
func (h *CoordinatorHandler) Mine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.coordSvc.Mine(c.Request.Context(), userID)
	if err != nil {
		h.handleCoordinatorError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleCoordinatorError maps coordinator service errors to HTTP responses
func (h *CoordinatorHandler) handleCoordinatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 17001, err.Error())
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 17002, err.Error())
	case errors.Is(err, service.ErrNotCoordinator):
		response.BadRequest(c, 17003, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrCareerNotFound):
		response.NotFound(c, 13002, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13001, err.Error())
	default:
		response.InternalError(c)
	}
}
