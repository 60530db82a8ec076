package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// CatalogHandler read-only institute reference data
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListPeriods newest first
// GET /api/v1/periods
func (h *CatalogHandler) ListPeriods(c *gin.Context) {
	periods, err := h.catalogSvc.ListPeriods(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": periods})
}

// GetPeriod
// GET /api/v1/periods/:id
func (h *CatalogHandler) GetPeriod(c *gin.Context) {
	period, err := h.catalogSvc.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, period)
}

// ListCareers optionally only active ones (?active=true)
// GET /api/v1/careers
func (h *CatalogHandler) ListCareers(c *gin.Context) {
	var req dto.CareerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	careers, err := h.catalogSvc.ListCareers(c.Request.Context(), req.ActiveOnly)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": careers})
}

// GetCareer
// GET /api/v1/careers/:id
func (h *CatalogHandler) GetCareer(c *gin.Context) {
	career, err := h.catalogSvc.GetCareer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, career)
}

// ListTeachers roster of a career in a period
// GET /api/v1/careers/:id/periods/:periodId/teachers
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	roster, err := h.catalogSvc.Roster(c.Request.Context(), c.Param("id"), c.Param("periodId"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": roster})
}

// handleCatalogError maps catalog service errors to HTTP responses
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrCareerNotFound):
		response.NotFound(c, 13002, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}
