package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// QuestionRepository form item data access
type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, id uint) (*model.Question, error)
	ListByForm(ctx context.Context, formID uint) ([]model.Question, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uint) error
}

type questionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo creates a QuestionRepository
func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) Create(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionRepo) GetByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).
		Where("id_pregunta = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) ListByForm(ctx context.Context, formID uint) ([]model.Question, error) {
	var list []model.Question
	err := r.db.WithContext(ctx).
		Where("id_formulario = ?", formID).
		Order("orden ASC, id_pregunta ASC").
		Find(&list).Error
	return list, err
}

func (r *questionRepo) Update(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *questionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id_pregunta = ?", id).
		Delete(&model.Question{}).Error
}
