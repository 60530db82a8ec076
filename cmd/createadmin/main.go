// Command createadmin bootstraps the first administrator account and prints its temporary password.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/service"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/database"
	applogger "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	idNumber := flag.String("cedula", "", "cédula of the administrator")
	name := flag.String("name", "", "full name")
	email := flag.String("email", "", "e-mail address")
	flag.Parse()

	if *idNumber == "" || *name == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	localDB, err := database.NewDB("local", &cfg.LocalDB, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("local database connection failed", zap.Error(err))
	}
	defer database.Close(localDB)

	sqlDB, err := localDB.DB()
	if err != nil {
		logger.Fatal("get local sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// account creation never reads the institute store
	repo := repository.NewRepository(nil, localDB)
	users := service.NewUserService(repo, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := users.CreateUser(ctx, &dto.CreateUserRequest{
		IDNumber: *idNumber,
		Name:     *name,
		Email:    *email,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		logger.Fatal("create administrator failed", zap.Error(err))
	}

	fmt.Printf("administrator %s created (id %d)\ntemporary password: %s\n",
		result.User.Email, result.User.ID, result.TempPassword)
}
