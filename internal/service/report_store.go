package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

// reportStore adapts the repositories to the report engine's read and score ports
type reportStore struct {
	repo *repository.Repository
}

// newReportStore report.ReadStore and report.ScoreStore over the repository aggregate
func newReportStore(repo *repository.Repository) *reportStore {
	return &reportStore{repo: repo}
}

func (s *reportStore) Career(ctx context.Context, careerID string) (*report.Career, error) {
	c, err := s.repo.Catalog.GetCareer(ctx, careerID)
	if err != nil {
		return nil, notFound("career", careerID, err)
	}
	return &report.Career{ID: c.CareerID, Name: c.Name, Active: c.Active()}, nil
}

func (s *reportStore) Period(ctx context.Context, periodID string) (*report.Period, error) {
	p, err := s.repo.Catalog.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, notFound("period", periodID, err)
	}
	return &report.Period{ID: p.PeriodID, Label: p.Name}, nil
}

func (s *reportStore) Roster(ctx context.Context, careerID, periodID string) ([]report.RosterEntry, error) {
	rows, err := s.repo.Catalog.Roster(ctx, careerID, periodID)
	if err != nil {
		return nil, err
	}
	return toRosterEntries(rows), nil
}

func (s *reportStore) FormAverage(ctx context.Context, assignmentID, periodID string, form report.FormType) (*float64, error) {
	return s.repo.Score.FormAverage(ctx, assignmentID, periodID, string(form))
}

func (s *reportStore) AuthorityAverage(ctx context.Context, teacherID, periodID string) (*float64, error) {
	return s.repo.Score.AuthorityAverage(ctx, teacherID, periodID)
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, pkgerrors.ErrNotFound)
	}
	return err
}
