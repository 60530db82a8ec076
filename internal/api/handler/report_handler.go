package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// ReportHandler career result reports
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// CareerReport downloads the results document of a career in a period.
// ?start=N sets the first office number, ?format=docx|xlsx|pdf (default docx).
// GET /api/v1/reports/careers/:careerId/periods/:periodId
func (h *ReportHandler) CareerReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.CareerReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos: start debe ser mayor a 0 y format docx, xlsx o pdf")
		return
	}

	file, err := h.reportSvc.GenerateCareerReport(c.Request.Context(), c.Param("careerId"), c.Param("periodId"), &req, userID, role)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// CareerResults aggregated rows as JSON
// GET /api/v1/reports/careers/:careerId/periods/:periodId/results
func (h *ReportHandler) CareerResults(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.CareerResults(c.Request.Context(), c.Param("careerId"), c.Param("periodId"), userID, role)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, result)
}

// MyResults the calling teacher's own scores
// GET /api/v1/reports/me?period_id=
func (h *ReportHandler) MyResults(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.TeacherResultsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Falta el parámetro period_id")
		return
	}

	result, err := h.reportSvc.TeacherResults(c.Request.Context(), teacherID, req.PeriodID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, result)
}

// handleReportError maps report errors to HTTP responses
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFormat):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, report.ErrInvalidArgument):
		response.BadRequest(c, 10001, "La carrera y el período son obligatorios")
	case errors.Is(err, service.ErrReportForbidden):
		response.Forbidden(c, 16002, err.Error())
	case errors.Is(err, pkgerrors.ErrEmptyRoster):
		response.NotFound(c, 16003, "No hay docentes asignados a la carrera en el período")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 16004, "Carrera o período no encontrado")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 13003, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, pkgerrors.ErrRenderFailure):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 16005, "No se pudo generar el documento", "plantilla ausente o con formato incorrecto")
	default:
		response.InternalError(c)
	}
}
