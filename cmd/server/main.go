package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/api/handler"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/api/router"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/document"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/database"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/jwt"
	applogger "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/logger"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ./config/config.yaml)")
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load(".env")

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. databases: institute (read-only) and local (read/write)
	instituteDB, err := database.NewDB("institute", &cfg.InstituteDB, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("institute database connection failed", zap.Error(err))
	}
	defer database.Close(instituteDB)

	localDB, err := database.NewDB("local", &cfg.LocalDB, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("local database connection failed", zap.Error(err))
	}
	defer database.Close(localDB)

	// 3.1 migrations (local store only)
	sqlDB, err := localDB.DB()
	if err != nil {
		logger.Fatal("get local sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Redis is optional: without it rate limiting, token revocation and the catalog cache are off
	var deps service.Deps
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without rate limiting, token blacklist and cache", zap.Error(err))
		rdb = nil
	} else {
		deps.Blacklist = rdb
		deps.Cache = rdb
		defer rdb.Close()
	}

	// 5. JWT and document renderers
	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps.Renderers = document.NewSet(cfg.Report.TemplatePath)

	// 6. wiring: Repository → Service → Handler
	repo := repository.NewRepository(instituteDB, localDB)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)
	h := handler.NewHandler(cfg, svc)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, rdb, map[string]*gorm.DB{
		"institute_db": instituteDB,
		"local_db":     localDB,
	}, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // report rendering
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
