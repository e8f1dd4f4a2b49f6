package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/minesafe-service/internal/api/dto"
	"github.com/spec-kit/minesafe-service/internal/auth"
	"github.com/spec-kit/minesafe-service/internal/service"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// ModulesHandler manages training module endpoints.
type ModulesHandler struct {
	training *service.TrainingService
	streaks  *service.StreakService
}

// NewModulesHandler constructs handler.
func NewModulesHandler(trainingService *service.TrainingService, streakService *service.StreakService) *ModulesHandler {
	return &ModulesHandler{training: trainingService, streaks: streakService}
}

// Create POST /api/modules.
func (h *ModulesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	module, err := h.training.CreateModule(c.UserContext(), principal.User, service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewModuleResponse(module))
}

// List GET /api/modules.
func (h *ModulesHandler) List(c *fiber.Ctx) error {
	modules, err := h.training.ListModules(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		items = append(items, dto.NewModuleResponse(&modules[i]))
	}
	return c.JSON(items)
}

// Get GET /api/modules/:id.
func (h *ModulesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	module, err := h.training.GetModule(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewModuleResponse(module))
}

// Star POST /api/modules/:id/star.
func (h *ModulesHandler) Star(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.training.StarModule(c.UserContext(), principal.User, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "starred"})
}

// GetStarred GET /api/modules/star.
func (h *ModulesHandler) GetStarred(c *fiber.Ctx) error {
	module, err := h.training.StarredModule(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewModuleResponse(module))
}

// ListQuestions GET /api/modules/:id/questions.
func (h *ModulesHandler) ListQuestions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	questions, err := h.training.ListQuestions(c.UserContext(), principal.User, id)
	if err != nil {
		return err
	}
	items := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, dto.QuestionResponse{
			ID:       q.ID,
			ModuleID: q.ModuleID,
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	return c.JSON(items)
}

// CreateQuestion POST /api/modules/questions.
func (h *ModulesHandler) CreateQuestion(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	question, err := h.training.CreateQuestion(c.UserContext(), principal.User, service.QuestionInput{
		ModuleID: req.VideoID,
		Question: req.Question,
		Options:  req.Options,
		Answer:   req.Answer,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.QuestionResponse{
		ID:       question.ID,
		ModuleID: question.ModuleID,
		Question: question.Question,
		Options:  question.Options,
		Answer:   question.Answer,
	})
}

// SubmitAnswers POST /api/modules/submit.
func (h *ModulesHandler) SubmitAnswers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	completion, err := h.training.SubmitAnswers(c.UserContext(), principal.User, req.VideoID, req.Answers)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CompletionResponse{
		ID:          completion.ID,
		UserID:      completion.UserID,
		ModuleID:    completion.ModuleID,
		Score:       completion.Score,
		CompletedAt: completion.CompletedAt,
	})
}

// MyStreak GET /api/streak/me.
func (h *ModulesHandler) MyStreak(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	streak, err := h.streaks.StreakForUser(c.UserContext(), principal.User.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.StreakResponse{
		UserID:          streak.UserID,
		CurrentStreak:   streak.CurrentStreak,
		LongestStreak:   streak.LongestStreak,
		LastCompletedAt: streak.LastCompletedAt,
	})
}

// Leaderboard GET /api/streaks.
func (h *ModulesHandler) Leaderboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.streaks.Leaderboard(c.UserContext(), principal.User, parseInt(c.Query("limit"), 20))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// MyCompletions GET /api/completions/me.
func (h *ModulesHandler) MyCompletions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	completions, err := h.training.CompletionsForUser(c.UserContext(), principal.User.UserID)
	if err != nil {
		return err
	}
	items := make([]dto.CompletionResponse, 0, len(completions))
	for _, completion := range completions {
		items = append(items, dto.CompletionResponse{
			ID:          completion.ID,
			UserID:      completion.UserID,
			ModuleID:    completion.ModuleID,
			Score:       completion.Score,
			CompletedAt: completion.CompletedAt,
		})
	}
	return c.JSON(items)
}
