package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/authz"
	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/repository"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

// TrainingService manages the module catalog, quiz questions and answer
// submission. Catalog reads are open to any authenticated user; writes and
// starring are supervisor-only per the guard table.
type TrainingService struct {
	modules     repository.ModuleRepository
	questions   repository.QuestionRepository
	completions repository.CompletionRepository
	streaks     *StreakService
	logger      *zap.Logger
}

// NewTrainingService constructs the service.
func NewTrainingService(
	modules repository.ModuleRepository,
	questions repository.QuestionRepository,
	completions repository.CompletionRepository,
	streaks *StreakService,
	logger *zap.Logger,
) *TrainingService {
	return &TrainingService{
		modules:     modules,
		questions:   questions,
		completions: completions,
		streaks:     streaks,
		logger:      logger,
	}
}

// ModuleInput describes module creation payload.
type ModuleInput struct {
	Title       string
	Description string
	VideoURL    string
	Duration    int
	Category    string
	Thumbnail   string
}

// QuestionInput describes quiz question creation payload.
type QuestionInput struct {
	ModuleID int64
	Question string
	Options  []string
	Answer   int
}

// CreateModule adds a catalog entry (supervisor-only).
func (s *TrainingService) CreateModule(ctx context.Context, caller *domain.User, input ModuleInput) (*domain.TrainingModule, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageModules); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageModules, decision)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.VideoURL) == "" {
		return nil, apperrors.NewValidationError("title and video_url required", nil)
	}

	module := &domain.TrainingModule{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		VideoURL:    input.VideoURL,
		Duration:    input.Duration,
		Category:    input.Category,
		Thumbnail:   input.Thumbnail,
		CreatedBy:   caller.UserID,
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return module, nil
}

// ListModules returns the full catalog.
func (s *TrainingService) ListModules(ctx context.Context) ([]domain.TrainingModule, error) {
	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return modules, nil
}

// GetModule fetches one catalog entry.
func (s *TrainingService) GetModule(ctx context.Context, id int64) (*domain.TrainingModule, error) {
	module, err := s.modules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("module", map[string]any{"id": id})
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return module, nil
}

// StarModule marks a module as the featured one (supervisor-only). A
// single module is starred at a time; the previous star is cleared.
func (s *TrainingService) StarModule(ctx context.Context, caller *domain.User, id int64) error {
	if decision := authz.Authorize(caller.Role, authz.ActionStarModule); !decision.Allowed {
		return denied(s.logger, caller, authz.ActionStarModule, decision)
	}
	if err := s.modules.SetStar(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("module", map[string]any{"id": id})
		}
		return apperrors.NewUnavailable(err)
	}
	return nil
}

// StarredModule returns the currently featured module, if any.
func (s *TrainingService) StarredModule(ctx context.Context) (*domain.TrainingModule, error) {
	module, err := s.modules.GetStarred(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("starred module", nil)
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return module, nil
}

// CreateQuestion attaches a quiz question to a module (supervisor-only).
func (s *TrainingService) CreateQuestion(ctx context.Context, caller *domain.User, input QuestionInput) (*domain.ModuleQuestion, error) {
	if decision := authz.Authorize(caller.Role, authz.ActionManageModules); !decision.Allowed {
		return nil, denied(s.logger, caller, authz.ActionManageModules, decision)
	}
	if len(input.Options) < 2 {
		return nil, apperrors.NewValidationError("at least two options required", nil)
	}
	if input.Answer < 0 || input.Answer >= len(input.Options) {
		return nil, apperrors.NewValidationError("answer index out of range", nil)
	}
	if _, err := s.GetModule(ctx, input.ModuleID); err != nil {
		return nil, err
	}

	question := &domain.ModuleQuestion{
		ModuleID: input.ModuleID,
		Question: strings.TrimSpace(input.Question),
		Options:  input.Options,
		Answer:   input.Answer,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return question, nil
}

// ListQuestions returns a module's quiz. The correct-answer index is
// blanked for miners so the quiz cannot be read off the wire.
func (s *TrainingService) ListQuestions(ctx context.Context, caller *domain.User, moduleID int64) ([]domain.ModuleQuestion, error) {
	questions, err := s.questions.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	if caller.Role == domain.RoleMiner {
		for i := range questions {
			questions[i].Answer = -1
		}
	}
	return questions, nil
}

// SubmitAnswers grades a quiz submission, records the completion and
// advances the caller's learning streak.
func (s *TrainingService) SubmitAnswers(ctx context.Context, caller *domain.User, moduleID int64, answers []int) (*domain.ModuleCompletion, error) {
	questions, err := s.questions.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	if len(questions) == 0 {
		return nil, apperrors.NewNotFound("module quiz", map[string]any{"module_id": moduleID})
	}
	if len(answers) != len(questions) {
		return nil, apperrors.NewValidationError("answer count mismatch", map[string]any{
			"expected": len(questions),
			"got":      len(answers),
		})
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.Answer {
			correct++
		}
	}
	score := correct * 100 / len(questions)

	completion := &domain.ModuleCompletion{
		UserID:      caller.UserID,
		ModuleID:    moduleID,
		Score:       score,
		CompletedAt: time.Now(),
	}
	if err := s.completions.Create(ctx, completion); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	if s.streaks != nil {
		if err := s.streaks.RecordCompletion(ctx, caller.UserID, completion.CompletedAt); err != nil {
			s.logger.Warn("streak update failed", zap.String("user_id", caller.UserID), zap.Error(err))
		}
	}
	return completion, nil
}

// CompletionsForUser returns the caller's completion history.
func (s *TrainingService) CompletionsForUser(ctx context.Context, userID string) ([]domain.ModuleCompletion, error) {
	completions, err := s.completions.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return completions, nil
}
