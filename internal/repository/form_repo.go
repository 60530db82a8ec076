package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// FormFilter optional list filters
type FormFilter struct {
	PeriodID string
	Type     string
}

// FormRepository questionnaire data access
type FormRepository interface {
	Create(ctx context.Context, form *model.Form) error
	GetByID(ctx context.Context, id uint) (*model.Form, error)
	// GetWithQuestions loads the form and its questions in display order
	GetWithQuestions(ctx context.Context, id uint) (*model.Form, error)
	// ActiveFor the active form of a type in a period
	ActiveFor(ctx context.Context, periodID, formType string) (*model.Form, error)
	List(ctx context.Context, filter FormFilter) ([]model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	Delete(ctx context.Context, id uint) error
	CountCompletedEvaluations(ctx context.Context, id uint) (int64, error)
}

type formRepo struct {
	db *gorm.DB
}

// NewFormRepo creates a FormRepository
func NewFormRepo(db *gorm.DB) FormRepository {
	return &formRepo{db: db}
}

func (r *formRepo) Create(ctx context.Context, form *model.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepo) GetByID(ctx context.Context, id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Where("id_formulario = ?", id).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) GetWithQuestions(ctx context.Context, id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC, id_pregunta ASC")
		}).
		Where("id_formulario = ?", id).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) ActiveFor(ctx context.Context, periodID, formType string) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Where("id_periodo = ? AND tipo = ? AND activo = ?", periodID, formType, true).
		Order("id_formulario DESC").
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) List(ctx context.Context, filter FormFilter) ([]model.Form, error) {
	var forms []model.Form
	db := r.db.WithContext(ctx)
	if filter.PeriodID != "" {
		db = db.Where("id_periodo = ?", filter.PeriodID)
	}
	if filter.Type != "" {
		db = db.Where("tipo = ?", filter.Type)
	}
	err := db.Order("id_formulario DESC").Find(&forms).Error
	return forms, err
}

func (r *formRepo) Update(ctx context.Context, form *model.Form) error {
	return r.db.WithContext(ctx).Omit("Questions").Save(form).Error
}

// Delete removes the form; questions go with it through the foreign key cascade
func (r *formRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id_formulario = ?", id).
		Delete(&model.Form{}).Error
}

func (r *formRepo) CountCompletedEvaluations(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Evaluation{}).
		Where("id_formulario = ? AND estado = ?", id, model.EvaluationCompleted).
		Count(&count).Error
	return count, err
}
