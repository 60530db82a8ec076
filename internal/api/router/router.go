package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/api/handler"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/api/middleware"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/jwt"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/redis"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/sanitize"
)

// password fields are never rewritten by the sanitizer
var sanitizeSkipKeys = []string{"password", "current_password", "new_password", "refresh_token"}

// Setup builds the gin engine. rdb may be nil: rate limiting and token revocation are then skipped.
// stores are pinged by /health.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, stores map[string]*gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		limiter   middleware.Limiter
		blacklist middleware.Blacklist
	)
	if rdb != nil {
		limiter = rdb
		blacklist = rdb
	}
	loginLimiter := limiter
	if !cfg.RateLimit.Enabled {
		loginLimiter = nil
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.Sanitize(sanitize.New(sanitizeSkipKeys...)))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// ── health ──
	r.GET("/health", healthHandler(stores))

	admin := middleware.RoleAuth(model.RoleAdmin)
	adminOrCoordinator := middleware.RoleAuth(model.RoleAdmin, model.RoleCoordinator)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(loginLimiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// users
			users := authorized.Group("/users", admin)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.POST("/import", h.User.ImportUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
				users.PUT("/:id/role", h.User.AssignRole)
			}

			// catalog
			authorized.GET("/periods", h.Catalog.ListPeriods)
			authorized.GET("/periods/:id", h.Catalog.GetPeriod)
			authorized.GET("/careers", h.Catalog.ListCareers)
			authorized.GET("/careers/:id", h.Catalog.GetCareer)
			authorized.GET("/careers/:id/periods/:periodId/teachers", h.Catalog.ListTeachers)

			// forms
			forms := authorized.Group("/forms")
			{
				forms.GET("", h.Form.ListForms)
				forms.GET("/:id", h.Form.GetForm)
				forms.POST("", admin, h.Form.CreateForm)
				forms.PUT("/:id", admin, h.Form.UpdateForm)
				forms.DELETE("/:id", admin, h.Form.DeleteForm)
				forms.POST("/:id/questions", admin, h.Form.AddQuestion)
			}
			authorized.PUT("/questions/:id", admin, h.Form.UpdateQuestion)
			authorized.DELETE("/questions/:id", admin, h.Form.DeleteQuestion)

			// evaluations
			evaluations := authorized.Group("/evaluations")
			{
				evaluations.GET("/pending", h.Evaluation.ListPending)
				evaluations.GET("/progress", adminOrCoordinator, h.Evaluation.Progress)
				evaluations.POST("/generate", adminOrCoordinator, h.Evaluation.Generate)
				evaluations.POST("", adminOrCoordinator, h.Evaluation.Create)
				evaluations.GET("/:id", h.Evaluation.Get)
				evaluations.POST("/:id/submit", h.Evaluation.Submit)
			}
			authorized.POST("/authority-evaluations", middleware.RoleAuth(model.RoleAdmin, model.RoleAuthority), h.Evaluation.RecordAuthority)

			// coordinators
			coordinators := authorized.Group("/coordinators")
			{
				coordinators.GET("/me", middleware.RoleAuth(model.RoleCoordinator), h.Coordinator.Mine)
				coordinators.GET("", admin, h.Coordinator.List)
				coordinators.POST("", admin, h.Coordinator.Assign)
				coordinators.DELETE("/:id", admin, h.Coordinator.Revoke)
			}

			// reports
			reports := authorized.Group("/reports")
			{
				reports.GET("/me", middleware.RoleAuth(model.RoleTeacher), h.Report.MyResults)
				reports.GET("/careers/:careerId/periods/:periodId", adminOrCoordinator, h.Report.CareerReport)
				reports.GET("/careers/:careerId/periods/:periodId/results", adminOrCoordinator, h.Report.CareerResults)
			}
		}
	}

	return r
}

func healthHandler(stores map[string]*gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(gin.H, len(stores))
		for name, db := range stores {
			checks[name] = "ok"
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				checks[name] = "down"
				status = http.StatusServiceUnavailable
			}
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
