package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
)

var (
	ErrPeriodNotFound  = errors.New("período no encontrado")
	ErrCareerNotFound  = errors.New("carrera no encontrada")
	ErrTeacherNotFound = errors.New("docente no encontrado")
)

const (
	cacheKeyPeriods       = "catalog:periods"
	cacheKeyCareers       = "catalog:careers:all"
	cacheKeyActiveCareers = "catalog:careers:active"
)

// CatalogService read-only institute reference data
type CatalogService interface {
	ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error)
	ListCareers(ctx context.Context, activeOnly bool) ([]dto.CareerResponse, error)
	GetCareer(ctx context.Context, id string) (*dto.CareerResponse, error)
	// Roster distinct teachers of a career in a period, one representative assignment each
	Roster(ctx context.Context, careerID, periodID string) ([]dto.RosterTeacherResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil; lists are then read on every call.
func NewCatalogService(repo *repository.Repository, cache Cache, ttl time.Duration, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *catalogService) ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error) {
	var cached []dto.PeriodResponse
	if s.fromCache(ctx, cacheKeyPeriods, &cached) {
		return cached, nil
	}

	periods, err := s.repo.Catalog.ListPeriods(ctx)
	if err != nil {
		s.logger.Error("failed to list periods", zap.Error(err))
		return nil, err
	}
	list := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		list = append(list, toPeriodResponse(&periods[i]))
	}

	s.toCache(ctx, cacheKeyPeriods, list)
	return list, nil
}

func (s *catalogService) GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Catalog.GetPeriod(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("failed to load period", zap.String("period_id", id), zap.Error(err))
		return nil, err
	}
	resp := toPeriodResponse(period)
	return &resp, nil
}

func (s *catalogService) ListCareers(ctx context.Context, activeOnly bool) ([]dto.CareerResponse, error) {
	key := cacheKeyCareers
	if activeOnly {
		key = cacheKeyActiveCareers
	}
	var cached []dto.CareerResponse
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	careers, err := s.repo.Catalog.ListCareers(ctx, activeOnly)
	if err != nil {
		s.logger.Error("failed to list careers", zap.Error(err))
		return nil, err
	}
	list := make([]dto.CareerResponse, 0, len(careers))
	for i := range careers {
		list = append(list, toCareerResponse(&careers[i]))
	}

	s.toCache(ctx, key, list)
	return list, nil
}

func (s *catalogService) GetCareer(ctx context.Context, id string) (*dto.CareerResponse, error) {
	career, err := s.repo.Catalog.GetCareer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCareerNotFound
		}
		s.logger.Error("failed to load career", zap.String("career_id", id), zap.Error(err))
		return nil, err
	}
	resp := toCareerResponse(career)
	return &resp, nil
}

func (s *catalogService) Roster(ctx context.Context, careerID, periodID string) ([]dto.RosterTeacherResponse, error) {
	if _, err := s.GetCareer(ctx, careerID); err != nil {
		return nil, err
	}
	if _, err := s.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	rows, err := s.repo.Catalog.Roster(ctx, careerID, periodID)
	if err != nil {
		s.logger.Error("failed to load roster", zap.String("career_id", careerID), zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}

	entries := report.ResolveRoster(toRosterEntries(rows))
	list := make([]dto.RosterTeacherResponse, 0, len(entries))
	for _, e := range entries {
		list = append(list, dto.RosterTeacherResponse{
			AssignmentID: e.AssignmentID,
			TeacherID:    e.TeacherID,
			FullName:     e.FullName,
		})
	}
	return list, nil
}

// ── cache helpers: failures degrade to a database read ──

func (s *catalogService) fromCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(ctx, key, dest); err != nil {
		return false
	}
	return true
}

func (s *catalogService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("failed to cache catalog list", zap.String("key", key), zap.Error(err))
	}
}

// ── mapping ──

func toPeriodResponse(p *model.Period) dto.PeriodResponse {
	resp := dto.PeriodResponse{ID: p.PeriodID, Name: p.Name, Status: p.Status}
	if p.StartDate != nil {
		resp.StartDate = p.StartDate.Format(time.DateOnly)
	}
	if p.EndDate != nil {
		resp.EndDate = p.EndDate.Format(time.DateOnly)
	}
	return resp
}

func toCareerResponse(c *model.Career) dto.CareerResponse {
	return dto.CareerResponse{ID: c.CareerID, Name: c.Name, Active: c.Active()}
}

func toRosterEntries(rows []repository.RosterRow) []report.RosterEntry {
	entries := make([]report.RosterEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, report.RosterEntry{
			AssignmentID: r.AssignmentID,
			TeacherID:    r.TeacherID,
			FullName:     r.FullName,
		})
	}
	return entries
}
