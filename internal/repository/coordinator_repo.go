package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// CoordinatorRepository coordinator assignment data access
type CoordinatorRepository interface {
	Create(ctx context.Context, a *model.CoordinatorAssignment) error
	GetByID(ctx context.Context, id uint) (*model.CoordinatorAssignment, error)
	// Find any assignment, active or not, of the user to the career in the period
	Find(ctx context.Context, userID uint, careerID, periodID string) (*model.CoordinatorAssignment, error)
	Update(ctx context.Context, a *model.CoordinatorAssignment) error
	ListByPeriod(ctx context.Context, periodID string) ([]model.CoordinatorAssignment, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]model.CoordinatorAssignment, error)
	HasActive(ctx context.Context, userID uint, careerID, periodID string) (bool, error)
}

type coordinatorRepo struct {
	db *gorm.DB
}

// NewCoordinatorRepo creates a CoordinatorRepository
func NewCoordinatorRepo(db *gorm.DB) CoordinatorRepository {
	return &coordinatorRepo{db: db}
}

func (r *coordinatorRepo) Create(ctx context.Context, a *model.CoordinatorAssignment) error {
	return r.db.WithContext(ctx).Omit("User").Create(a).Error
}

func (r *coordinatorRepo) GetByID(ctx context.Context, id uint) (*model.CoordinatorAssignment, error) {
	var a model.CoordinatorAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id_asignacion = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *coordinatorRepo) Find(ctx context.Context, userID uint, careerID, periodID string) (*model.CoordinatorAssignment, error) {
	var a model.CoordinatorAssignment
	err := r.db.WithContext(ctx).
		Where("id_usuario = ? AND id_carrera = ? AND id_periodo = ?", userID, careerID, periodID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *coordinatorRepo) Update(ctx context.Context, a *model.CoordinatorAssignment) error {
	return r.db.WithContext(ctx).Omit("User").Save(a).Error
}

func (r *coordinatorRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.CoordinatorAssignment, error) {
	var list []model.CoordinatorAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id_periodo = ? AND activo = ?", periodID, true).
		Order("id_carrera ASC, id_asignacion ASC").
		Find(&list).Error
	return list, err
}

func (r *coordinatorRepo) ListActiveByUser(ctx context.Context, userID uint) ([]model.CoordinatorAssignment, error) {
	var list []model.CoordinatorAssignment
	err := r.db.WithContext(ctx).
		Where("id_usuario = ? AND activo = ?", userID, true).
		Order("id_periodo DESC, id_carrera ASC").
		Find(&list).Error
	return list, err
}

func (r *coordinatorRepo) HasActive(ctx context.Context, userID uint, careerID, periodID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CoordinatorAssignment{}).
		Where("id_usuario = ? AND id_carrera = ? AND id_periodo = ? AND activo = ?", userID, careerID, periodID, true).
		Count(&count).Error
	return count > 0, err
}
