package user

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBio is assigned to new accounts that do not provide one.
const DefaultBio = "Hi! I'm using St4cksUP!"

// User represents a registered platform user.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	IsActive bool      `json:"is_active" gorm:"not null;default:false"`
	Name     string    `json:"name" gorm:"not null"`
	Username string    `json:"username" gorm:"uniqueIndex;not null"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Password string    `json:"-" gorm:"not null"` // bcrypt hash

	Bio   string      `json:"bio" gorm:"not null"`
	Stack []StackItem `json:"stack" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// StackItem is a technology the user lists on their profile.
type StackItem struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Connection is a single edge between two users. The pair is stored once in
// canonical order and queried from both sides, so the relation is symmetric
// by construction.
type Connection struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserAID   uuid.UUID `json:"user_a_id" gorm:"type:uuid;not null;uniqueIndex:ux_connection_pair;index"`
	UserBID   uuid.UUID `json:"user_b_id" gorm:"type:uuid;not null;uniqueIndex:ux_connection_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Connection) TableName() string {
	return "connections"
}

// PeerOf returns the other side of the edge relative to id.
func (c *Connection) PeerOf(id uuid.UUID) uuid.UUID {
	if c.UserAID == id {
		return c.UserBID
	}
	return c.UserAID
}

// Involves reports whether id is one of the edge's endpoints.
func (c *Connection) Involves(id uuid.UUID) bool {
	return c.UserAID == id || c.UserBID == id
}

// NormalizePair orders a pair of user ids canonically so the same edge always
// maps to the same row regardless of which side initiated it.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
