package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/response"
)

// FormHandler questionnaires and their questions
type FormHandler struct {
	formSvc service.FormService
}

// NewFormHandler creates a FormHandler
func NewFormHandler(formSvc service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// ListForms filtered by period and type
// GET /api/v1/forms
func (h *FormHandler) ListForms(c *gin.Context) {
	var req dto.FormListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	forms, err := h.formSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, gin.H{"list": forms})
}

// GetForm form with its questions in display order
// GET /api/v1/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	form, err := h.formSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, form)
}

// CreateForm
// POST /api/v1/forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req dto.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	form, err := h.formSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.Created(c, form)
}

// UpdateForm
// PUT /api/v1/forms/:id
func (h *FormHandler) UpdateForm(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	form, err := h.formSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, form)
}

// DeleteForm
// DELETE /api/v1/forms/:id
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.formSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddQuestion
// POST /api/v1/forms/:id/questions
func (h *FormHandler) AddQuestion(c *gin.Context) {
	formID, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	q, err := h.formSvc.AddQuestion(c.Request.Context(), formID, &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.Created(c, q)
}

// UpdateQuestion
// PUT /api/v1/questions/:id
func (h *FormHandler) UpdateQuestion(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros no válidos")
		return
	}

	q, err := h.formSvc.UpdateQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, q)
}

// DeleteQuestion
// DELETE /api/v1/questions/:id
func (h *FormHandler) DeleteQuestion(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.formSvc.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleFormError maps form service errors to HTTP responses
func (h *FormHandler) handleFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrQuestionNotFound):
		response.NotFound(c, 14002, err.Error())
	case errors.Is(err, service.ErrFormInUse):
		response.Conflict(c, 14003, err.Error())
	case errors.Is(err, service.ErrInvalidFormType):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13001, err.Error())
	default:
		response.InternalError(c)
	}
}
