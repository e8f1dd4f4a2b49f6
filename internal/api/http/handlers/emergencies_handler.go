package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/minesafe-service/internal/api/dto"
	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/service"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// EmergenciesHandler manages incident endpoints.
type EmergenciesHandler struct {
	incidents *service.IncidentService
}

// NewEmergenciesHandler constructs handler.
func NewEmergenciesHandler(incidentService *service.IncidentService) *EmergenciesHandler {
	return &EmergenciesHandler{incidents: incidentService}
}

// Create POST /api/emergencies. Status is forced to PENDING and the
// reporter to the caller.
func (h *EmergenciesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateEmergencyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	incident, err := h.incidents.Report(c.UserContext(), principal.User, service.ReportInput{
		EmergencyID: req.EmergencyID,
		Severity:    req.Severity,
		Issue:       req.Issue,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewIncidentResponse(incident))
}

// List GET /api/emergencies.
func (h *EmergenciesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := service.IncidentListFilter{
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.IncidentStatus(statusStr)
		filter.Status = &status
	}
	if userID := c.Query("user_id"); userID != "" {
		filter.ReporterID = &userID
	}

	incidents, err := h.incidents.List(c.UserContext(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		items = append(items, dto.NewIncidentResponse(&incidents[i]))
	}
	return c.JSON(items)
}

// Get GET /api/emergencies/:id.
func (h *EmergenciesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	incident, err := h.incidents.Get(c.UserContext(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentResponse(incident))
}

// UpdateStatus PUT /api/emergencies/:id/status.
func (h *EmergenciesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	incident, err := h.incidents.Transition(c.UserContext(), principal.User, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentResponse(incident))
}

// UpdateMedia PUT /api/emergencies/:id/media.
func (h *EmergenciesHandler) UpdateMedia(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMediaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MediaURL == "" {
		return apperrors.NewValidationError("media_url required", nil)
	}

	incident, err := h.incidents.UpdateMedia(c.UserContext(), principal.User, id, req.MediaURL, req.MediaStatus)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentResponse(incident))
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
