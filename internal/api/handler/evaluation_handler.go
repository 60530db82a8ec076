package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// EvaluationHandler evaluation lifecycle endpoints
type EvaluationHandler struct {
	evalSvc service.EvaluationService
}

// NewEvaluationHandler creates an EvaluationHandler
func NewEvaluationHandler(evalSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// Generate creates the pending self and hetero evaluations of a period
// POST /api/v1/evaluations/generate
func (h *EvaluationHandler) Generate(c *gin.Context) {
	var req dto.GenerateEvaluationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	result, err := h.evalSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, result)
}

// Create single evaluation, typically a co-evaluation
// POST /api/v1/evaluations
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	eval, err := h.evalSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.Created(c, eval)
}

// ListPending caller's pending evaluations
// GET /api/v1/evaluations/pending
func (h *EvaluationHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	list, err := h.evalSvc.ListPending(c.Request.Context(), userID, req.PeriodID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get evaluation with its questions and answers
// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.evalSvc.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, detail)
}

// Submit answers every question and completes the evaluation
// POST /api/v1/evaluations/:id/submit
func (h *EvaluationHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Respuestas no válidas")
		return
	}

	if err := h.evalSvc.Submit(c.Request.Context(), id, userID, &req); err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, nil)
}

// RecordAuthority authority grade for a teacher in a period
// POST /api/v1/authority-evaluations
func (h *EvaluationHandler) RecordAuthority(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AuthorityEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	result, err := h.evalSvc.RecordAuthority(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, result)
}

// Progress completion counts per form type
// GET /api/v1/evaluations/progress
func (h *EvaluationHandler) Progress(c *gin.Context) {
	var req dto.ProgressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Falta el parámetro period_id")
		return
	}

	result, err := h.evalSvc.Progress(c.Request.Context(), req.PeriodID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, result)
}

// handleEvaluationError maps evaluation service errors to HTTP responses
func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrEvaluationCompleted):
		response.Conflict(c, 15002, err.Error())
	case errors.Is(err, service.ErrEvaluationForbidden):
		response.Forbidden(c, 15003, err.Error())
	case errors.Is(err, service.ErrEvaluationExists):
		response.Conflict(c, 15004, err.Error())
	case errors.Is(err, service.ErrInvalidAnswers):
		response.BadRequest(c, 15005, err.Error())
	case errors.Is(err, service.ErrNoActiveForms):
		response.BadRequest(c, 15006, err.Error())
	case errors.Is(err, service.ErrFormInactive):
		response.BadRequest(c, 15007, err.Error())
	case errors.Is(err, service.ErrDistributivoNotFound):
		response.NotFound(c, 15008, err.Error())
	case errors.Is(err, service.ErrDistributivoPeriod):
		response.BadRequest(c, 15009, err.Error())
	case errors.Is(err, service.ErrEvaluatorNotFound):
		response.NotFound(c, 15010, err.Error())
	case errors.Is(err, service.ErrEvaluatorIsEvaluated):
		response.BadRequest(c, 15011, err.Error())
	case errors.Is(err, service.ErrInvalidGrade):
		response.BadRequest(c, 15012, err.Error())
	case errors.Is(err, service.ErrFormNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}
