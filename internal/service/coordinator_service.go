package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
)

var (
	ErrAssignmentNotFound = errors.New("asignación de coordinador no encontrada")
	ErrAssignmentExists   = errors.New("el coordinador ya está asignado a la carrera en el período")
	ErrNotCoordinator     = errors.New("el usuario no tiene rol de coordinador")
	ErrReportForbidden    = errors.New("sin permiso para consultar los resultados de esta carrera")
)

// CoordinatorService career coordinator assignments and the report permission derived from them
type CoordinatorService interface {
	Assign(ctx context.Context, req *dto.AssignCoordinatorRequest, callerID uint) (*dto.CoordinatorAssignmentResponse, error)
	List(ctx context.Context, periodID string) ([]dto.CoordinatorAssignmentResponse, error)
	Revoke(ctx context.Context, id uint) error
	Mine(ctx context.Context, userID uint) ([]dto.CoordinatorAssignmentResponse, error)
	// CanReport admins always; coordinators only for careers they actively coordinate in the period
	CanReport(ctx context.Context, userID uint, role, careerID, periodID string) error
}

type coordinatorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCoordinatorService creates a CoordinatorService
func NewCoordinatorService(repo *repository.Repository, logger *zap.Logger) CoordinatorService {
	return &coordinatorService{repo: repo, logger: logger}
}

func (s *coordinatorService) Assign(ctx context.Context, req *dto.AssignCoordinatorRequest, callerID uint) (*dto.CoordinatorAssignmentResponse, error) {
	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleCoordinator || !user.Active {
		return nil, ErrNotCoordinator
	}

	if _, err := s.repo.Catalog.GetCareer(ctx, req.CareerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCareerNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Catalog.GetPeriod(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}

	existing, err := s.repo.Coordinator.Find(ctx, req.UserID, req.CareerID, req.PeriodID)
	switch {
	case err == nil && existing.Active:
		return nil, ErrAssignmentExists
	case err == nil:
		// revoked earlier: reactivate instead of inserting a duplicate
		existing.Active = true
		existing.CreatedBy = &callerID
		if err := s.repo.Coordinator.Update(ctx, existing); err != nil {
			s.logger.Error("failed to reactivate coordinator assignment", zap.Uint("assignment_id", existing.AssignmentID), zap.Error(err))
			return nil, err
		}
		existing.User = user
		resp := toAssignmentResponse(existing)
		return &resp, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	a := &model.CoordinatorAssignment{
		UserID:    req.UserID,
		CareerID:  req.CareerID,
		PeriodID:  req.PeriodID,
		Active:    true,
		CreatedBy: &callerID,
	}
	if err := s.repo.Coordinator.Create(ctx, a); err != nil {
		s.logger.Error("failed to create coordinator assignment", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("coordinator assigned",
		zap.Uint("user_id", req.UserID),
		zap.String("career_id", req.CareerID),
		zap.String("period_id", req.PeriodID),
	)
	a.User = user
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *coordinatorService) List(ctx context.Context, periodID string) ([]dto.CoordinatorAssignmentResponse, error) {
	list, err := s.repo.Coordinator.ListByPeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("failed to list coordinator assignments", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

func (s *coordinatorService) Revoke(ctx context.Context, id uint) error {
	a, err := s.repo.Coordinator.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !a.Active {
		return nil
	}
	a.Active = false
	if err := s.repo.Coordinator.Update(ctx, a); err != nil {
		s.logger.Error("failed to revoke coordinator assignment", zap.Uint("assignment_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("coordinator assignment revoked", zap.Uint("assignment_id", id))
	return nil
}

func (s *coordinatorService) Mine(ctx context.Context, userID uint) ([]dto.CoordinatorAssignmentResponse, error) {
	list, err := s.repo.Coordinator.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

func (s *coordinatorService) CanReport(ctx context.Context, userID uint, role, careerID, periodID string) error {
	switch role {
	case model.RoleAdmin:
		return nil
	case model.RoleCoordinator:
		ok, err := s.repo.Coordinator.HasActive(ctx, userID, careerID, periodID)
		if err != nil {
			s.logger.Error("failed to check coordinator assignment", zap.Uint("user_id", userID), zap.Error(err))
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrReportForbidden
}

func toAssignmentResponses(list []model.CoordinatorAssignment) []dto.CoordinatorAssignmentResponse {
	out := make([]dto.CoordinatorAssignmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toAssignmentResponse(&list[i]))
	}
	return out
}

func toAssignmentResponse(a *model.CoordinatorAssignment) dto.CoordinatorAssignmentResponse {
	resp := dto.CoordinatorAssignmentResponse{
		ID:       a.AssignmentID,
		UserID:   a.UserID,
		CareerID: a.CareerID,
		PeriodID: a.PeriodID,
		Active:   a.Active,
	}
	if a.User != nil {
		resp.UserName = a.User.Name
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
