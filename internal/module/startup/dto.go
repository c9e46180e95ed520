package startup

import (
	"time"

	"github.com/google/uuid"
)

// CreateStartupRequest is the payload for registering a startup.
type CreateStartupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"required,max=2000"`
}

// UpdateStartupRequest is the payload for editing a startup.
type UpdateStartupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// RemoveMembersRequest lists member emails to drop from a startup.
type RemoveMembersRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

// MemberResponse is the API representation of a startup member.
type MemberResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// StartupResponse is the API representation of a startup.
type StartupResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Members     []MemberResponse `json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ListStartupsResponse is a paged list of startups.
type ListStartupsResponse struct {
	Startups []StartupResponse `json:"startups"`
	Total    int64             `json:"total"`
}

// ToResponse converts a startup to its API representation.
func (s *Startup) ToResponse() StartupResponse {
	members := make([]MemberResponse, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, MemberResponse{UserID: m.UserID, Role: m.Role})
	}
	return StartupResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Members:     members,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
