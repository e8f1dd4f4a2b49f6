package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/minesafe-service/internal/api/dto"
	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/service"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// MinersHandler manages miner roster endpoints (supervisor-only, enforced
// by the service).
type MinersHandler struct {
	roster *service.RosterService
}

// NewMinersHandler constructs handler.
func NewMinersHandler(rosterService *service.RosterService) *MinersHandler {
	return &MinersHandler{roster: rosterService}
}

// Create POST /api/miners.
func (h *MinersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateMinerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	miner, err := h.roster.CreateMiner(c.UserContext(), principal.User, service.MinerInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		MiningSite: req.MiningSite,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(miner))
}

// List GET /api/miners.
func (h *MinersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	miners, err := h.roster.ListMiners(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(miners))
	for i := range miners {
		items = append(items, dto.NewUserResponse(&miners[i]))
	}
	return c.JSON(items)
}

// Get GET /api/miners/:id.
func (h *MinersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	miner, err := h.roster.GetMiner(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(miner))
}

// Update PUT /api/miners/:id.
func (h *MinersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateMinerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	miner, err := h.roster.UpdateMiner(c.UserContext(), principal.User, c.Params("id"), service.MinerInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		MiningSite: req.MiningSite,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(miner))
}

// Delete DELETE /api/miners/:id.
func (h *MinersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.roster.DeleteMiner(c.UserContext(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
