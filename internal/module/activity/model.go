package activity

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies an activity record.
type Kind string

const (
	// KindRequest marks an actionable pending request in the feed.
	KindRequest Kind = "REQUEST"
	// KindAlert is an informational notice.
	KindAlert Kind = "ALERT"
	// KindSuccess reports a positive outcome.
	KindSuccess Kind = "SUCCESS"
	// KindFailure reports a negative outcome.
	KindFailure Kind = "FAILURE"
)

// IsValid checks if the kind is a known classification.
func (k Kind) IsValid() bool {
	switch k {
	case KindRequest, KindAlert, KindSuccess, KindFailure:
		return true
	default:
		return false
	}
}

// Activity is an entry in a user's activity feed. RequestID links the
// entry to a pending workflow request and is uuid.Nil for plain notices.
type Activity struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Kind        Kind      `json:"kind" gorm:"not null"`
	Message     string    `json:"message" gorm:"not null"`
	RequestID   uuid.UUID `json:"request_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Activity) TableName() string {
	return "activities"
}
