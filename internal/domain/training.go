package domain

import "time"

// TrainingModule is a catalog entry for a safety training video.
type TrainingModule struct {
	ID          int64
	Title       string
	Description string
	VideoURL    string
	Duration    int
	Category    string
	Thumbnail   string
	CreatedBy   string
	Starred     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ModuleQuestion is a multiple-choice question attached to a module.
// Answer is the index into Options of the correct choice.
type ModuleQuestion struct {
	ID       int64
	ModuleID int64
	Question string
	Options  []string
	Answer   int
}

// ModuleCompletion records a miner finishing a module's quiz.
type ModuleCompletion struct {
	ID          int64
	UserID      string
	ModuleID    int64
	Score       int
	CompletedAt time.Time
}

// LearningStreak tracks consecutive days with at least one completion.
type LearningStreak struct {
	UserID          string
	CurrentStreak   int
	LongestStreak   int
	LastCompletedAt *time.Time
}
