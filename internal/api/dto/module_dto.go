package dto

import (
	"time"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// CreateModuleRequest payload.
type CreateModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
	Category    string `json:"category"`
	Thumbnail   string `json:"thumbnail"`
}

// ModuleResponse is the wire representation of a training module.
type ModuleResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	Duration    int       `json:"duration"`
	Category    string    `json:"category"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedBy   string    `json:"created_by"`
	Starred     bool      `json:"starred"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewModuleResponse maps a domain module.
func NewModuleResponse(module *domain.TrainingModule) ModuleResponse {
	return ModuleResponse{
		ID:          module.ID,
		Title:       module.Title,
		Description: module.Description,
		VideoURL:    module.VideoURL,
		Duration:    module.Duration,
		Category:    module.Category,
		Thumbnail:   module.Thumbnail,
		CreatedBy:   module.CreatedBy,
		Starred:     module.Starred,
		CreatedAt:   module.CreatedAt,
		UpdatedAt:   module.UpdatedAt,
	}
}

// CreateQuestionRequest payload.
type CreateQuestionRequest struct {
	VideoID  int64    `json:"video_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// QuestionResponse is one quiz question. Answer is -1 when withheld.
type QuestionResponse struct {
	ID       int64    `json:"id"`
	ModuleID int64    `json:"module_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// SubmitAnswersRequest payload.
type SubmitAnswersRequest struct {
	VideoID int64 `json:"video_id"`
	Answers []int `json:"answers"`
}

// CompletionResponse records one graded quiz submission.
type CompletionResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ModuleID    int64     `json:"module_id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// StreakResponse is the caller's streak state.
type StreakResponse struct {
	UserID          string     `json:"user_id"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}
