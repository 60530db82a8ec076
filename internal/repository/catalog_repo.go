package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// RosterRow one assignment of a teacher in a career and period
type RosterRow struct {
	AssignmentID string `gorm:"column:assignment_id"`
	TeacherID    string `gorm:"column:teacher_id"`
	FullName     string `gorm:"column:full_name"`
}

// CatalogRepository read-only access to the institute store
type CatalogRepository interface {
	GetCareer(ctx context.Context, id string) (*model.Career, error)
	GetPeriod(ctx context.Context, id string) (*model.Period, error)
	ListCareers(ctx context.Context, activeOnly bool) ([]model.Career, error)
	ListPeriods(ctx context.Context) ([]model.Period, error)
	// Roster every assignment row of the career and period; deduplication is left to the caller
	Roster(ctx context.Context, careerID, periodID string) ([]RosterRow, error)
	GetTeacher(ctx context.Context, id string) (*model.Teacher, error)
	GetDistributivo(ctx context.Context, id string) (*model.Distributivo, error)
	DistributivosByPeriod(ctx context.Context, periodID string) ([]model.Distributivo, error)
	DistributivosByTeacher(ctx context.Context, teacherID, periodID string) ([]model.Distributivo, error)
	EnrollmentsByPeriod(ctx context.Context, periodID string) ([]model.Enrollment, error)
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo creates a CatalogRepository over the institute connection
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) GetCareer(ctx context.Context, id string) (*model.Career, error) {
	var career model.Career
	err := r.db.WithContext(ctx).
		Where("id_carrera = ?", id).
		First(&career).Error
	if err != nil {
		return nil, err
	}
	return &career, nil
}

func (r *catalogRepo) GetPeriod(ctx context.Context, id string) (*model.Period, error) {
	var period model.Period
	err := r.db.WithContext(ctx).
		Where("id_periodo = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *catalogRepo) ListCareers(ctx context.Context, activeOnly bool) ([]model.Career, error) {
	var careers []model.Career
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("estado = ?", model.CareerActive)
	}
	err := db.Order("nombre ASC").Find(&careers).Error
	return careers, err
}

func (r *catalogRepo) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Order("fecha_inicio DESC").
		Find(&periods).Error
	return periods, err
}

const rosterQuery = `
SELECT d.id_distributivo AS assignment_id,
       d.id_docente AS teacher_id,
       CONCAT_WS(' ', doc.primer_apellido, doc.segundo_apellido, doc.primer_nombre, doc.segundo_nombre) AS full_name
FROM distributivo d
JOIN docentes doc ON doc.id_docente = d.id_docente
WHERE d.id_carrera = ? AND d.id_periodo = ?
ORDER BY full_name ASC, d.id_distributivo ASC`

func (r *catalogRepo) Roster(ctx context.Context, careerID, periodID string) ([]RosterRow, error) {
	var rows []RosterRow
	err := r.db.WithContext(ctx).
		Raw(rosterQuery, careerID, periodID).
		Scan(&rows).Error
	return rows, err
}

func (r *catalogRepo) GetTeacher(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("id_docente = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *catalogRepo) GetDistributivo(ctx context.Context, id string) (*model.Distributivo, error) {
	var d model.Distributivo
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("id_distributivo = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *catalogRepo) DistributivosByPeriod(ctx context.Context, periodID string) ([]model.Distributivo, error) {
	var list []model.Distributivo
	err := r.db.WithContext(ctx).
		Where("id_periodo = ?", periodID).
		Order("id_distributivo ASC").
		Find(&list).Error
	return list, err
}

func (r *catalogRepo) DistributivosByTeacher(ctx context.Context, teacherID, periodID string) ([]model.Distributivo, error) {
	var list []model.Distributivo
	err := r.db.WithContext(ctx).
		Where("id_docente = ? AND id_periodo = ?", teacherID, periodID).
		Order("id_distributivo ASC").
		Find(&list).Error
	return list, err
}

func (r *catalogRepo) EnrollmentsByPeriod(ctx context.Context, periodID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("id_periodo = ?", periodID).
		Order("id_matricula ASC").
		Find(&list).Error
	return list, err
}
