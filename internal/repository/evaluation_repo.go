package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// ProgressRow evaluation count per form type and status
type ProgressRow struct {
	FormType string `gorm:"column:form_type"`
	Status   string `gorm:"column:status"`
	Total    int64  `gorm:"column:total"`
}

// EvaluationRepository evaluation and answer data access
type EvaluationRepository interface {
	Create(ctx context.Context, e *model.Evaluation) error
	// CreateIfAbsent inserts unless the form/distributivo/evaluator triple exists; reports whether a row was added
	CreateIfAbsent(ctx context.Context, e *model.Evaluation) (bool, error)
	GetByID(ctx context.Context, id uint) (*model.Evaluation, error)
	// GetForUpdate locks the row for the rest of the transaction
	GetForUpdate(ctx context.Context, id uint) (*model.Evaluation, error)
	ListPending(ctx context.Context, evaluatorID uint, periodID string) ([]model.Evaluation, error)
	MarkCompleted(ctx context.Context, id uint, at time.Time) error
	CreateAnswers(ctx context.Context, answers []model.Answer) error
	Progress(ctx context.Context, periodID string) ([]ProgressRow, error)
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo creates an EvaluationRepository
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, e *model.Evaluation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *evaluationRepo) CreateIfAbsent(ctx context.Context, e *model.Evaluation) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *evaluationRepo) GetByID(ctx context.Context, id uint) (*model.Evaluation, error) {
	var e model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Form").
		Preload("Form.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC, id_pregunta ASC")
		}).
		Preload("Answers").
		Where("id_evaluacion = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *evaluationRepo) GetForUpdate(ctx context.Context, id uint) (*model.Evaluation, error) {
	var e model.Evaluation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_evaluacion = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *evaluationRepo) ListPending(ctx context.Context, evaluatorID uint, periodID string) ([]model.Evaluation, error) {
	var list []model.Evaluation
	db := r.db.WithContext(ctx).
		Preload("Form").
		Where("id_evaluador = ? AND estado = ?", evaluatorID, model.EvaluationPending)
	if periodID != "" {
		db = db.Where("id_periodo = ?", periodID)
	}
	err := db.Order("id_evaluacion ASC").Find(&list).Error
	return list, err
}

func (r *evaluationRepo) MarkCompleted(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Evaluation{}).
		Where("id_evaluacion = ?", id).
		Updates(map[string]any{
			"estado":           model.EvaluationCompleted,
			"fecha_completada": at,
		}).Error
}

func (r *evaluationRepo) CreateAnswers(ctx context.Context, answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&answers).Error
}

func (r *evaluationRepo) Progress(ctx context.Context, periodID string) ([]ProgressRow, error) {
	var rows []ProgressRow
	err := r.db.WithContext(ctx).
		Table("evaluaciones e").
		Select("f.tipo AS form_type, e.estado AS status, COUNT(*) AS total").
		Joins("JOIN formularios f ON f.id_formulario = e.id_formulario").
		Where("e.id_periodo = ?", periodID).
		Group("f.tipo, e.estado").
		Order("f.tipo, e.estado").
		Scan(&rows).Error
	return rows, err
}
