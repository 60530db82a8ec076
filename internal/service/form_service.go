package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
)

// ── Form errors ──

var (
	ErrFormNotFound     = errors.New("formulario no encontrado")
	ErrQuestionNotFound = errors.New("pregunta no encontrada")
	ErrFormInUse        = errors.New("el formulario ya tiene evaluaciones completadas")
	ErrInvalidFormType  = errors.New("tipo de formulario no válido")
)

// FormService questionnaires and their questions
type FormService interface {
	Create(ctx context.Context, req *dto.CreateFormRequest) (*dto.FormResponse, error)
	List(ctx context.Context, req *dto.FormListRequest) ([]dto.FormResponse, error)
	Get(ctx context.Context, id uint) (*dto.FormResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateFormRequest) (*dto.FormResponse, error)
	Delete(ctx context.Context, id uint) error
	AddQuestion(ctx context.Context, formID uint, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id uint, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type formService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFormService creates a FormService
func NewFormService(repo *repository.Repository, logger *zap.Logger) FormService {
	return &formService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *formService) Create(ctx context.Context, req *dto.CreateFormRequest) (*dto.FormResponse, error) {
	if !model.ValidFormType(req.Type) {
		return nil, ErrInvalidFormType
	}
	if _, err := s.repo.Catalog.GetPeriod(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}

	form := &model.Form{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		PeriodID:    req.PeriodID,
		Active:      true,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Form.Create(ctx, form); err != nil {
			return err
		}
		for i, q := range req.Questions {
			question := &model.Question{
				FormID: form.FormID,
				Text:   strings.TrimSpace(q.Text),
				Type:   q.Type,
				Order:  questionOrder(q.Order, i),
			}
			if err := tx.Question.Create(ctx, question); err != nil {
				return err
			}
			form.Questions = append(form.Questions, *question)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create form", zap.Error(err))
		return nil, err
	}

	s.logger.Info("form created", zap.Uint("form_id", form.FormID), zap.String("type", form.Type))
	return toFormResponse(form), nil
}

// ────────────────────── List / Get ──────────────────────

func (s *formService) List(ctx context.Context, req *dto.FormListRequest) ([]dto.FormResponse, error) {
	forms, err := s.repo.Form.List(ctx, repository.FormFilter{PeriodID: req.PeriodID, Type: req.Type})
	if err != nil {
		s.logger.Error("failed to list forms", zap.Error(err))
		return nil, err
	}
	list := make([]dto.FormResponse, 0, len(forms))
	for i := range forms {
		list = append(list, *toFormResponse(&forms[i]))
	}
	return list, nil
}

func (s *formService) Get(ctx context.Context, id uint) (*dto.FormResponse, error) {
	form, err := s.repo.Form.GetWithQuestions(ctx, id)
	if err != nil {
		return nil, s.formErr(err, id)
	}
	return toFormResponse(form), nil
}

// ────────────────────── Update ──────────────────────

func (s *formService) Update(ctx context.Context, id uint, req *dto.UpdateFormRequest) (*dto.FormResponse, error) {
	form, err := s.repo.Form.GetByID(ctx, id)
	if err != nil {
		return nil, s.formErr(err, id)
	}

	if req.Name != nil {
		form.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		form.Description = req.Description
	}
	if req.Active != nil {
		form.Active = *req.Active
	}

	if err := s.repo.Form.Update(ctx, form); err != nil {
		s.logger.Error("failed to update form", zap.Uint("form_id", id), zap.Error(err))
		return nil, err
	}
	return toFormResponse(form), nil
}

// ────────────────────── Delete ──────────────────────

func (s *formService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Form.GetByID(ctx, id); err != nil {
		return s.formErr(err, id)
	}
	if err := s.ensureEditable(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Form.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete form", zap.Uint("form_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Questions ──────────────────────

func (s *formService) AddQuestion(ctx context.Context, formID uint, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if _, err := s.repo.Form.GetByID(ctx, formID); err != nil {
		return nil, s.formErr(err, formID)
	}
	if err := s.ensureEditable(ctx, formID); err != nil {
		return nil, err
	}

	order := req.Order
	if order == 0 {
		existing, err := s.repo.Question.ListByForm(ctx, formID)
		if err != nil {
			return nil, err
		}
		order = len(existing) + 1
	}

	q := &model.Question{FormID: formID, Text: strings.TrimSpace(req.Text), Type: req.Type, Order: order}
	if err := s.repo.Question.Create(ctx, q); err != nil {
		s.logger.Error("failed to create question", zap.Uint("form_id", formID), zap.Error(err))
		return nil, err
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *formService) UpdateQuestion(ctx context.Context, id uint, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	q, err := s.loadQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	// wording and order may change after answers exist; the answer type may not
	if req.Type != nil && *req.Type != q.Type {
		if err := s.ensureEditable(ctx, q.FormID); err != nil {
			return nil, err
		}
		q.Type = *req.Type
	}
	if req.Text != nil {
		q.Text = strings.TrimSpace(*req.Text)
	}
	if req.Order != nil {
		q.Order = *req.Order
	}

	if err := s.repo.Question.Update(ctx, q); err != nil {
		s.logger.Error("failed to update question", zap.Uint("question_id", id), zap.Error(err))
		return nil, err
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *formService) DeleteQuestion(ctx context.Context, id uint) error {
	q, err := s.loadQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureEditable(ctx, q.FormID); err != nil {
		return err
	}
	if err := s.repo.Question.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete question", zap.Uint("question_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *formService) ensureEditable(ctx context.Context, formID uint) error {
	n, err := s.repo.Form.CountCompletedEvaluations(ctx, formID)
	if err != nil {
		s.logger.Error("failed to count evaluations", zap.Uint("form_id", formID), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrFormInUse
	}
	return nil
}

func (s *formService) loadQuestion(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.repo.Question.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		s.logger.Error("failed to load question", zap.Uint("question_id", id), zap.Error(err))
		return nil, err
	}
	return q, nil
}

func (s *formService) formErr(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFormNotFound
	}
	s.logger.Error("failed to load form", zap.Uint("form_id", id), zap.Error(err))
	return err
}

// questionOrder explicit order, or position in the request (1-based)
func questionOrder(order, index int) int {
	if order > 0 {
		return order
	}
	return index + 1
}

func toFormResponse(f *model.Form) *dto.FormResponse {
	resp := &dto.FormResponse{
		ID:       f.FormID,
		Name:     f.Name,
		Type:     f.Type,
		PeriodID: f.PeriodID,
		Active:   f.Active,
	}
	if f.Description != nil {
		resp.Description = *f.Description
	}
	for i := range f.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&f.Questions[i]))
	}
	return resp
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	return dto.QuestionResponse{ID: q.QuestionID, FormID: q.FormID, Text: q.Text, Type: q.Type, Order: q.Order}
}
