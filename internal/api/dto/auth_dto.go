package dto

import (
	"time"

	"github.com/spec-kit/minesafe-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest payload for supervisor self-registration.
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	MiningSite string `json:"mining_site"`
	Location   string `json:"location"`
}

// UserResponse is the public user representation.
type UserResponse struct {
	ID           int64       `json:"id"`
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        *string     `json:"phone,omitempty"`
	Role         domain.Role `json:"role"`
	MiningSite   *string     `json:"mining_site,omitempty"`
	Location     *string     `json:"location,omitempty"`
	SupervisorID *string     `json:"supervisor_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// AuthResponse carries a session token and its owner.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		UserID:       user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		MiningSite:   user.MiningSite,
		Location:     user.Location,
		SupervisorID: user.SupervisorID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
