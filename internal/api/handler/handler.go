package handler

import (
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
)

// Handler aggregate entry point for every handler
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Catalog     *CatalogHandler
	Form        *FormHandler
	Evaluation  *EvaluationHandler
	Coordinator *CoordinatorHandler
	Report      *ReportHandler
}

// NewHandler creates the handler aggregate
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, &cfg.Auth),
		User:        NewUserHandler(svc.User),
		Catalog:     NewCatalogHandler(svc.Catalog),
		Form:        NewFormHandler(svc.Form),
		Evaluation:  NewEvaluationHandler(svc.Evaluation),
		Coordinator: NewCoordinatorHandler(svc.Coordinator),
		Report:      NewReportHandler(svc.Report),
	}
}
