package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/minesafe-service/internal/api/http"
	"github.com/spec-kit/minesafe-service/internal/api/http/handlers"
	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/config"
	"github.com/spec-kit/minesafe-service/internal/events"
	"github.com/spec-kit/minesafe-service/internal/observability"
	"github.com/spec-kit/minesafe-service/internal/persistence"
	"github.com/spec-kit/minesafe-service/internal/repository"
	"github.com/spec-kit/minesafe-service/internal/service"
	"github.com/spec-kit/minesafe-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	incidentRepo := repository.NewIncidentRepository(pool)
	moduleRepo := repository.NewModuleRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	completionRepo := repository.NewCompletionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	incidentService := service.NewIncidentService(incidentRepo, dispatcher, logger)
	rosterService := service.NewRosterService(*cfg, userRepo, logger)
	streakService := service.NewStreakService(completionRepo, userRepo, redis.Client, logger)
	trainingService := service.NewTrainingService(moduleRepo, questionRepo, completionRepo, streakService, logger)
	statsService := service.NewStatsService(userRepo, incidentRepo, moduleRepo, completionRepo, logger)
	alertService := service.NewAlertService(dispatcher, logger, cfg.Alert)

	worker.StartAlertWorker(alertService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Emergencies:    handlers.NewEmergenciesHandler(incidentService),
		Miners:         handlers.NewMinersHandler(rosterService),
		Modules:        handlers.NewModulesHandler(trainingService, streakService),
		Dashboard:      handlers.NewDashboardHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
