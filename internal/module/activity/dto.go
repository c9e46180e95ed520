package activity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityResponse is the API representation of a feed entry.
type ActivityResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      Kind       `json:"kind"`
	Message   string     `json:"message"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListFeedResponse is a recipient's feed.
type ListFeedResponse struct {
	Activities []ActivityResponse `json:"activities"`
}

// ToResponse converts an activity to its API representation.
func (a *Activity) ToResponse() ActivityResponse {
	resp := ActivityResponse{
		ID:        a.ID,
		Kind:      a.Kind,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
	if a.RequestID != uuid.Nil {
		id := a.RequestID
		resp.RequestID = &id
	}
	return resp
}
