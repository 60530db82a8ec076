package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
)

// ── Evaluation errors ──

var (
	ErrEvaluationNotFound   = errors.New("evaluación no encontrada")
	ErrEvaluationCompleted  = errors.New("la evaluación ya fue completada")
	ErrEvaluationForbidden  = errors.New("la evaluación pertenece a otro evaluador")
	ErrEvaluationExists     = errors.New("la evaluación ya existe")
	ErrInvalidAnswers       = errors.New("respuestas incompletas o fuera de rango")
	ErrNoActiveForms        = errors.New("no hay formularios activos de autoevaluación ni heteroevaluación para el período")
	ErrFormInactive         = errors.New("el formulario no está activo")
	ErrDistributivoNotFound = errors.New("asignación docente (distributivo) no encontrada")
	ErrDistributivoPeriod   = errors.New("el distributivo no pertenece al período del formulario")
	ErrEvaluatorNotFound    = errors.New("evaluador no encontrado o inactivo")
	ErrEvaluatorIsEvaluated = errors.New("un docente no puede coevaluarse a sí mismo")
	ErrInvalidGrade         = errors.New("la calificación debe estar entre 0 y 100")
)

// EvaluationService evaluation lifecycle: generation, answering and progress
type EvaluationService interface {
	// Generate creates the pending self and hetero evaluations of a period. Safe to re-run.
	Generate(ctx context.Context, req *dto.GenerateEvaluationsRequest) (*dto.GenerateEvaluationsResponse, error)
	Create(ctx context.Context, req *dto.CreateEvaluationRequest) (*dto.EvaluationResponse, error)
	ListPending(ctx context.Context, evaluatorID uint, periodID string) ([]dto.EvaluationResponse, error)
	Get(ctx context.Context, id uint, callerID uint, callerRole string) (*dto.EvaluationDetailResponse, error)
	Submit(ctx context.Context, id uint, callerID uint, req *dto.SubmitEvaluationRequest) error
	RecordAuthority(ctx context.Context, req *dto.AuthorityEvaluationRequest, authorityID uint) (*dto.AuthorityEvaluationResponse, error)
	Progress(ctx context.Context, periodID string) (*dto.ProgressResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEvaluationService creates an EvaluationService
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Generate ──────────────────────

func (s *evaluationService) Generate(ctx context.Context, req *dto.GenerateEvaluationsRequest) (*dto.GenerateEvaluationsResponse, error) {
	if _, err := s.repo.Catalog.GetPeriod(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}

	selfForm, err := s.activeForm(ctx, req.PeriodID, model.FormTypeSelf)
	if err != nil {
		return nil, err
	}
	heteroForm, err := s.activeForm(ctx, req.PeriodID, model.FormTypeHetero)
	if err != nil {
		return nil, err
	}
	if selfForm == nil && heteroForm == nil {
		return nil, ErrNoActiveForms
	}

	distributivos, err := s.repo.Catalog.DistributivosByPeriod(ctx, req.PeriodID)
	if err != nil {
		s.logger.Error("failed to load distributivos", zap.String("period_id", req.PeriodID), zap.Error(err))
		return nil, err
	}
	teacherOf := make(map[string]string, len(distributivos))
	teacherIDs := make([]string, 0, len(distributivos))
	for _, d := range distributivos {
		teacherOf[d.DistributivoID] = d.TeacherID
		teacherIDs = append(teacherIDs, d.TeacherID)
	}

	resp := &dto.GenerateEvaluationsResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if selfForm != nil {
			teachers, err := tx.User.ByTeacherIDs(ctx, teacherIDs)
			if err != nil {
				return err
			}
			for _, d := range distributivos {
				user, ok := teachers[d.TeacherID]
				if !ok {
					resp.SkippedNoUser++
					continue
				}
				created, err := tx.Evaluation.CreateIfAbsent(ctx, s.pending(selfForm, d.DistributivoID, d.TeacherID, user.UserID))
				if err != nil {
					return err
				}
				count(resp, created, &resp.SelfCreated)
			}
		}

		if heteroForm != nil {
			enrollments, err := s.repo.Catalog.EnrollmentsByPeriod(ctx, req.PeriodID)
			if err != nil {
				return err
			}
			studentIDs := make([]string, 0, len(enrollments))
			for _, e := range enrollments {
				studentIDs = append(studentIDs, e.StudentID)
			}
			students, err := tx.User.ByStudentIDs(ctx, studentIDs)
			if err != nil {
				return err
			}
			for _, e := range enrollments {
				teacherID, ok := teacherOf[e.DistributivoID]
				if !ok {
					continue
				}
				user, ok := students[e.StudentID]
				if !ok {
					resp.SkippedNoUser++
					continue
				}
				created, err := tx.Evaluation.CreateIfAbsent(ctx, s.pending(heteroForm, e.DistributivoID, teacherID, user.UserID))
				if err != nil {
					return err
				}
				count(resp, created, &resp.HeteroCreated)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to generate evaluations", zap.String("period_id", req.PeriodID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("evaluations generated",
		zap.String("period_id", req.PeriodID),
		zap.Int("created", resp.Created),
		zap.Int("existing", resp.Existing),
		zap.Int("skipped_no_user", resp.SkippedNoUser),
	)
	return resp, nil
}

func count(resp *dto.GenerateEvaluationsResponse, created bool, perType *int) {
	if created {
		resp.Created++
		*perType++
		return
	}
	resp.Existing++
}

func (s *evaluationService) pending(form *model.Form, distributivoID, teacherID string, evaluatorID uint) *model.Evaluation {
	return &model.Evaluation{
		FormID:           form.FormID,
		PeriodID:         form.PeriodID,
		DistributivoID:   distributivoID,
		EvaluatedTeacher: teacherID,
		EvaluatorID:      evaluatorID,
		Status:           model.EvaluationPending,
	}
}

// activeForm nil when the period has no active form of that type
func (s *evaluationService) activeForm(ctx context.Context, periodID, formType string) (*model.Form, error) {
	form, err := s.repo.Form.ActiveFor(ctx, periodID, formType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to load active form", zap.String("period_id", periodID), zap.String("type", formType), zap.Error(err))
		return nil, err
	}
	return form, nil
}

// ────────────────────── Create ──────────────────────

func (s *evaluationService) Create(ctx context.Context, req *dto.CreateEvaluationRequest) (*dto.EvaluationResponse, error) {
	form, err := s.repo.Form.GetByID(ctx, req.FormID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if !form.Active {
		return nil, ErrFormInactive
	}

	d, err := s.repo.Catalog.GetDistributivo(ctx, req.DistributivoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistributivoNotFound
		}
		return nil, err
	}
	if d.PeriodID != form.PeriodID {
		return nil, ErrDistributivoPeriod
	}

	evaluator, err := s.repo.User.GetByID(ctx, req.EvaluatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluatorNotFound
		}
		return nil, err
	}
	if !evaluator.Active {
		return nil, ErrEvaluatorNotFound
	}
	if form.Type == model.FormTypeCo && evaluator.TeacherRef() == d.TeacherID {
		return nil, ErrEvaluatorIsEvaluated
	}

	e := s.pending(form, d.DistributivoID, d.TeacherID, evaluator.UserID)
	created, err := s.repo.Evaluation.CreateIfAbsent(ctx, e)
	if err != nil {
		s.logger.Error("failed to create evaluation", zap.Error(err))
		return nil, err
	}
	if !created {
		return nil, ErrEvaluationExists
	}

	e.Form = form
	resp := toEvaluationResponse(e)
	return &resp, nil
}

// ────────────────────── ListPending ──────────────────────

func (s *evaluationService) ListPending(ctx context.Context, evaluatorID uint, periodID string) ([]dto.EvaluationResponse, error) {
	list, err := s.repo.Evaluation.ListPending(ctx, evaluatorID, periodID)
	if err != nil {
		s.logger.Error("failed to list pending evaluations", zap.Uint("evaluator_id", evaluatorID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.EvaluationResponse, 0, len(list))
	for i := range list {
		out = append(out, toEvaluationResponse(&list[i]))
	}
	return out, nil
}

// ────────────────────── Get ──────────────────────

func (s *evaluationService) Get(ctx context.Context, id uint, callerID uint, callerRole string) (*dto.EvaluationDetailResponse, error) {
	e, err := s.repo.Evaluation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		s.logger.Error("failed to load evaluation", zap.Uint("evaluation_id", id), zap.Error(err))
		return nil, err
	}
	if e.EvaluatorID != callerID && callerRole != model.RoleAdmin && callerRole != model.RoleCoordinator {
		return nil, ErrEvaluationForbidden
	}

	resp := &dto.EvaluationDetailResponse{
		EvaluationResponse: toEvaluationResponse(e),
		Questions:          []dto.QuestionResponse{},
	}
	if e.Form != nil {
		for i := range e.Form.Questions {
			resp.Questions = append(resp.Questions, toQuestionResponse(&e.Form.Questions[i]))
		}
	}
	for _, a := range e.Answers {
		resp.Answers = append(resp.Answers, dto.AnswerResponse{QuestionID: a.QuestionID, Value: a.Value, Text: a.Text})
	}
	return resp, nil
}

// ────────────────────── Submit ──────────────────────

func (s *evaluationService) Submit(ctx context.Context, id uint, callerID uint, req *dto.SubmitEvaluationRequest) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		e, err := tx.Evaluation.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEvaluationNotFound
			}
			return err
		}
		if e.EvaluatorID != callerID {
			return ErrEvaluationForbidden
		}
		if e.Completed() {
			return ErrEvaluationCompleted
		}

		questions, err := tx.Question.ListByForm(ctx, e.FormID)
		if err != nil {
			return err
		}
		answers, err := buildAnswers(e.EvaluationID, questions, req.Answers)
		if err != nil {
			return err
		}

		if err := tx.Evaluation.CreateAnswers(ctx, answers); err != nil {
			return err
		}
		return tx.Evaluation.MarkCompleted(ctx, e.EvaluationID, s.now())
	})
	if err != nil {
		if !isEvaluationDomainErr(err) {
			s.logger.Error("failed to submit evaluation", zap.Uint("evaluation_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("evaluation submitted", zap.Uint("evaluation_id", id), zap.Uint("evaluator_id", callerID))
	return nil
}

// buildAnswers every question answered exactly once: scale questions with a 0–5 value, open ones with text
func buildAnswers(evaluationID uint, questions []model.Question, in []dto.AnswerRequest) ([]model.Answer, error) {
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.QuestionID] = q
	}

	answered := make(map[uint]bool, len(in))
	out := make([]model.Answer, 0, len(in))
	for _, a := range in {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: la pregunta %d no pertenece al formulario", ErrInvalidAnswers, a.QuestionID)
		}
		if answered[a.QuestionID] {
			return nil, fmt.Errorf("%w: la pregunta %d está repetida", ErrInvalidAnswers, a.QuestionID)
		}
		answered[a.QuestionID] = true

		ans := model.Answer{EvaluationID: evaluationID, QuestionID: a.QuestionID}
		switch q.Type {
		case model.QuestionScale:
			if a.Value == nil || *a.Value < 0 || *a.Value > model.MaxScaleValue {
				return nil, fmt.Errorf("%w: la pregunta %d requiere un valor entre 0 y %d", ErrInvalidAnswers, a.QuestionID, model.MaxScaleValue)
			}
			v := *a.Value
			ans.Value = &v
		default:
			if a.Text == nil || strings.TrimSpace(*a.Text) == "" {
				return nil, fmt.Errorf("%w: la pregunta %d requiere una respuesta escrita", ErrInvalidAnswers, a.QuestionID)
			}
			t := strings.TrimSpace(*a.Text)
			ans.Text = &t
		}
		out = append(out, ans)
	}

	if len(answered) != len(questions) {
		return nil, fmt.Errorf("%w: se respondieron %d de %d preguntas", ErrInvalidAnswers, len(answered), len(questions))
	}
	return out, nil
}

func isEvaluationDomainErr(err error) bool {
	for _, target := range []error{ErrEvaluationNotFound, ErrEvaluationForbidden, ErrEvaluationCompleted, ErrInvalidAnswers} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ────────────────────── RecordAuthority ──────────────────────

func (s *evaluationService) RecordAuthority(ctx context.Context, req *dto.AuthorityEvaluationRequest, authorityID uint) (*dto.AuthorityEvaluationResponse, error) {
	if req.Grade == nil || math.IsNaN(*req.Grade) || *req.Grade < 0 || *req.Grade > 100 {
		return nil, ErrInvalidGrade
	}
	if _, err := s.repo.Catalog.GetPeriod(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Catalog.GetTeacher(ctx, req.TeacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	e := &model.AuthorityEvaluation{
		TeacherID:   req.TeacherID,
		PeriodID:    req.PeriodID,
		AuthorityID: authorityID,
		Grade:       *req.Grade,
		Note:        req.Note,
		Status:      model.EvaluationCompleted,
	}
	if err := s.repo.Authority.Upsert(ctx, e); err != nil {
		s.logger.Error("failed to record authority evaluation", zap.String("teacher_id", req.TeacherID), zap.Error(err))
		return nil, err
	}

	resp := &dto.AuthorityEvaluationResponse{
		ID:          e.AuthorityEvaluationID,
		TeacherID:   e.TeacherID,
		PeriodID:    e.PeriodID,
		AuthorityID: e.AuthorityID,
		Grade:       e.Grade,
	}
	if e.Note != nil {
		resp.Note = *e.Note
	}
	return resp, nil
}

// ────────────────────── Progress ──────────────────────

func (s *evaluationService) Progress(ctx context.Context, periodID string) (*dto.ProgressResponse, error) {
	rows, err := s.repo.Evaluation.Progress(ctx, periodID)
	if err != nil {
		s.logger.Error("failed to load progress", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProgressResponse{PeriodID: periodID, ByType: []dto.ProgressByTypeResponse{}}
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.FormType]
		if !ok {
			i = len(resp.ByType)
			index[r.FormType] = i
			resp.ByType = append(resp.ByType, dto.ProgressByTypeResponse{FormType: r.FormType})
		}
		switch r.Status {
		case model.EvaluationCompleted:
			resp.ByType[i].Completed += r.Total
			resp.Completed += r.Total
		default:
			resp.ByType[i].Pending += r.Total
			resp.Pending += r.Total
		}
	}
	for i := range resp.ByType {
		t := &resp.ByType[i]
		if total := t.Pending + t.Completed; total > 0 {
			t.Percent = math.Round(float64(t.Completed)/float64(total)*10000) / 100
		}
	}
	return resp, nil
}

func toEvaluationResponse(e *model.Evaluation) dto.EvaluationResponse {
	resp := dto.EvaluationResponse{
		ID:             e.EvaluationID,
		FormID:         e.FormID,
		PeriodID:       e.PeriodID,
		DistributivoID: e.DistributivoID,
		TeacherID:      e.EvaluatedTeacher,
		EvaluatorID:    e.EvaluatorID,
		Status:         e.Status,
	}
	if e.Form != nil {
		resp.FormName = e.Form.Name
		resp.FormType = e.Form.Type
	}
	if e.CompletedAt != nil {
		resp.CompletedAt = e.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
