package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/service"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// DashboardHandler exposes supervisor dashboard statistics.
type DashboardHandler struct {
	stats *service.StatsService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(statsService *service.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: statsService}
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.stats.Dashboard(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
