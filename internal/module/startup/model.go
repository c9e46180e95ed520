package startup

import (
	"time"

	"github.com/google/uuid"
)

// Role is the responsibility a member holds inside a startup.
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleDesign    Role = "DESIGN"
	RoleDeveloper Role = "DEVELOPER"
	RoleDevOps    Role = "DEVOPS"
)

// IsValid checks if the role is a known responsibility.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleDesign, RoleDeveloper, RoleDevOps:
		return true
	default:
		return false
	}
}

// Startup represents a startup organization.
type Startup struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"not null"`

	Members []Member `json:"members" gorm:"foreignKey:StartupID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Startup) TableName() string {
	return "startups"
}

// OwnerID returns the user id of the OWNER member, or uuid.Nil when the
// member list was not loaded.
func (s *Startup) OwnerID() uuid.UUID {
	for _, m := range s.Members {
		if m.Role == RoleOwner {
			return m.UserID
		}
	}
	return uuid.Nil
}

// HasMember reports whether userID is in the member list.
func (s *Startup) HasMember(userID uuid.UUID) bool {
	for _, m := range s.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Member is a (user, role) pair attached to a startup.
type Member struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StartupID uuid.UUID `json:"startup_id" gorm:"type:uuid;not null;uniqueIndex:ux_startup_member;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:ux_startup_member;index"`
	Role      Role      `json:"role" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Member) TableName() string {
	return "startup_members"
}
