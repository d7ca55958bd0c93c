package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pulsefit/pulsefit-backend/internal/clients/openai"
	"github.com/pulsefit/pulsefit-backend/internal/db"
	"github.com/pulsefit/pulsefit-backend/internal/handlers"
	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/server"
	"github.com/pulsefit/pulsefit-backend/internal/services"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

// App owns the process-wide dependency graph and the HTTP server.
type App struct {
	log      *logger.Logger
	postgres *db.PostgresService
	server   *http.Server
}

func New(log *logger.Logger) (*App, error) {
	postgres, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(postgres.DB); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	aiClient, err := openai.NewClient(log)
	if err != nil {
		return nil, err
	}

	userRepo := repos.NewUserRepo(postgres.DB, log)
	tokenRepo := repos.NewUserTokenRepo(postgres.DB, log)
	profileRepo := repos.NewFitnessProfileRepo(postgres.DB, log)
	exerciseRepo := repos.NewAvailableExerciseRepo(postgres.DB, log)
	equipmentRepo := repos.NewAvailableEquipmentRepo(postgres.DB, log)
	planRepo := repos.NewWorkoutPlanRepo(postgres.DB, log)
	workoutRepo := repos.NewWorkoutRepo(postgres.DB, log)
	aiLogRepo := repos.NewAICallLogRepo(postgres.DB, log)

	authService := services.NewAuthService(postgres.DB, userRepo, tokenRepo, log)
	userService := services.NewUserService(postgres.DB, userRepo, profileRepo, exerciseRepo, equipmentRepo, log)
	generationService := services.NewWorkoutGenerationService(
		postgres.DB, aiClient, userRepo, profileRepo, exerciseRepo, planRepo, workoutRepo, aiLogRepo, log,
	)
	queryService := services.NewWorkoutQueryService(postgres.DB, planRepo, workoutRepo, log)

	router := server.NewRouter(server.RouterDeps{
		Auth:        handlers.NewAuthHandler(authService, log),
		Users:       handlers.NewUserHandler(userService, log),
		Workouts:    handlers.NewWorkoutHandler(generationService, queryService, log),
		Healthcheck: handlers.NewHealthcheckHandler(postgres.DB),
		AuthService: authService,
		Log:         log,
	})

	addr := ":" + utils.GetEnv("PORT", "8080", log)
	return &App{
		log:      log,
		postgres: postgres,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (a *App) Run() error {
	a.log.Info("server listening", "addr", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down")
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return a.postgres.Close()
}
