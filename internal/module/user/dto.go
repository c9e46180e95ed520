package user

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Bio      string      `json:"bio"`
	Stack    []StackItem `json:"stack"`
}

// LoginRequest represents an email/password login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name  *string     `json:"name,omitempty"`
	Bio   *string     `json:"bio,omitempty"`
	Stack []StackItem `json:"stack,omitempty"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	IsActive  bool        `json:"is_active"`
	Name      string      `json:"name"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Bio       string      `json:"bio"`
	Stack     []StackItem `json:"stack"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		IsActive:  u.IsActive,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Stack:     u.Stack,
		CreatedAt: u.CreatedAt,
	}
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
