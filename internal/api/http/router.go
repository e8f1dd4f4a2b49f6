package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/minesafe-service/internal/api/http/handlers"
	"github.com/spec-kit/minesafe-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Emergencies    *handlers.EmergenciesHandler
	Miners         *handlers.MinersHandler
	Modules        *handlers.ModulesHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/signup", cfg.Auth.Signup)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)

	protected.Get("/miners", cfg.Miners.List)
	protected.Post("/miners", cfg.Miners.Create)
	protected.Get("/miners/:id", cfg.Miners.Get)
	protected.Put("/miners/:id", cfg.Miners.Update)
	protected.Delete("/miners/:id", cfg.Miners.Delete)

	protected.Post("/emergencies", cfg.Emergencies.Create)
	protected.Get("/emergencies", cfg.Emergencies.List)
	protected.Get("/emergencies/:id", cfg.Emergencies.Get)
	protected.Put("/emergencies/:id/status", cfg.Emergencies.UpdateStatus)
	protected.Put("/emergencies/:id/media", cfg.Emergencies.UpdateMedia)

	// "star" before ":id" so the literal path wins.
	protected.Get("/modules/star", cfg.Modules.GetStarred)
	protected.Get("/modules", cfg.Modules.List)
	protected.Post("/modules", cfg.Modules.Create)
	protected.Post("/modules/questions", cfg.Modules.CreateQuestion)
	protected.Post("/modules/submit", cfg.Modules.SubmitAnswers)
	protected.Get("/modules/:id", cfg.Modules.Get)
	protected.Post("/modules/:id/star", cfg.Modules.Star)
	protected.Get("/modules/:id/questions", cfg.Modules.ListQuestions)

	protected.Get("/streaks", cfg.Modules.Leaderboard)
	protected.Get("/streak/me", cfg.Modules.MyStreak)
	protected.Get("/completions/me", cfg.Modules.MyCompletions)

	protected.Get("/dashboard/stats", cfg.Dashboard.Stats)
}
