package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/document"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/jwt"
)

// TokenBlacklist revoked token store (Redis in production)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	// ClaimToken revokes jti and reports whether this call was the one that did it
	ClaimToken(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Cache JSON value cache (Redis in production)
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service aggregate entry point for every service
type Service struct {
	Auth        AuthService
	User        UserService
	Catalog     CatalogService
	Form        FormService
	Evaluation  EvaluationService
	Coordinator CoordinatorService
	Report      ReportService
}

// Deps infrastructure shared by the services
type Deps struct {
	Blacklist TokenBlacklist
	Cache     Cache
	Renderers document.Set
}

// NewService creates the service aggregate
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	coordinator := NewCoordinatorService(repo, logger)
	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, deps.Blacklist, logger),
		User:        NewUserService(repo, logger),
		Catalog:     NewCatalogService(repo, deps.Cache, cfg.Cache.CatalogTTL, logger),
		Form:        NewFormService(repo, logger),
		Evaluation:  NewEvaluationService(repo, logger),
		Coordinator: coordinator,
		Report:      NewReportService(&cfg.Report, repo, coordinator, deps.Renderers, logger),
	}
}
