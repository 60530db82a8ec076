package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// AuthorityEvaluationRepository authority grade data access
type AuthorityEvaluationRepository interface {
	// Upsert records the grade; a second grade by the same authority for the same teacher and period replaces the first
	Upsert(ctx context.Context, e *model.AuthorityEvaluation) error
	ListByPeriod(ctx context.Context, periodID, teacherID string) ([]model.AuthorityEvaluation, error)
}

type authorityEvaluationRepo struct {
	db *gorm.DB
}

// NewAuthorityEvaluationRepo creates an AuthorityEvaluationRepository
func NewAuthorityEvaluationRepo(db *gorm.DB) AuthorityEvaluationRepository {
	return &authorityEvaluationRepo{db: db}
}

func (r *authorityEvaluationRepo) Upsert(ctx context.Context, e *model.AuthorityEvaluation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id_docente"}, {Name: "id_periodo"}, {Name: "id_autoridad"}},
			DoUpdates: clause.AssignmentColumns([]string{"calificacion", "observacion", "estado", "updated_at"}),
		}).
		Create(e).Error
}

func (r *authorityEvaluationRepo) ListByPeriod(ctx context.Context, periodID, teacherID string) ([]model.AuthorityEvaluation, error) {
	var list []model.AuthorityEvaluation
	db := r.db.WithContext(ctx).Where("id_periodo = ?", periodID)
	if teacherID != "" {
		db = db.Where("id_docente = ?", teacherID)
	}
	err := db.Order("id_evaluacion_autoridad ASC").Find(&list).Error
	return list, err
}
