package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
)

// ScoreRepository averages over completed evaluations, on a 0–100 scale.
// A nil result means nothing was completed.
type ScoreRepository interface {
	FormAverage(ctx context.Context, distributivoID, periodID, formType string) (*float64, error)
	AuthorityAverage(ctx context.Context, teacherID, periodID string) (*float64, error)
}

type scoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo creates a ScoreRepository
func NewScoreRepo(db *gorm.DB) ScoreRepository {
	return &scoreRepo{db: db}
}

// answers are 0–5; the first argument scales them to 0–100
const formAverageQuery = `
SELECT AVG(r.valor) * ?
FROM respuestas r
JOIN evaluaciones e ON e.id_evaluacion = r.id_evaluacion
JOIN formularios f ON f.id_formulario = e.id_formulario
WHERE e.id_distributivo = ? AND e.id_periodo = ? AND e.estado = ? AND f.tipo = ? AND r.valor IS NOT NULL`

const authorityAverageQuery = `
SELECT AVG(a.calificacion)
FROM evaluaciones_autoridad a
WHERE a.id_docente = ? AND a.id_periodo = ? AND a.estado = ?`

func (r *scoreRepo) FormAverage(ctx context.Context, distributivoID, periodID, formType string) (*float64, error) {
	return r.average(ctx, formAverageQuery, report.ScaleFactor, distributivoID, periodID, model.EvaluationCompleted, formType)
}

func (r *scoreRepo) AuthorityAverage(ctx context.Context, teacherID, periodID string) (*float64, error) {
	return r.average(ctx, authorityAverageQuery, teacherID, periodID, model.EvaluationCompleted)
}

func (r *scoreRepo) average(ctx context.Context, query string, args ...any) (*float64, error) {
	var avg sql.NullFloat64
	if err := r.db.WithContext(ctx).Raw(query, args...).Row().Scan(&avg); err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
