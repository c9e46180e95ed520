package network

import (
	"time"

	"github.com/google/uuid"
)

// RaiseRequestRequest is the payload for opening a workflow request.
type RaiseRequestRequest struct {
	Kind      RequestKind `json:"kind" binding:"required"`
	TargetID  uuid.UUID   `json:"target_id" binding:"required"`
	StartupID *uuid.UUID  `json:"startup_id"`
	Role      string      `json:"role"`
}

// BatchInviteRequest lists the addresses to invite.
type BatchInviteRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,max=50,dive,email"`
	Role   string   `json:"role"`
}

// RequestResponse is the API representation of a pending request.
type RequestResponse struct {
	ID          uuid.UUID   `json:"id"`
	Kind        RequestKind `json:"kind"`
	RequesterID uuid.UUID   `json:"requester_id"`
	TargetID    uuid.UUID   `json:"target_id"`
	StartupID   *uuid.UUID  `json:"startup_id,omitempty"`
	Role        string      `json:"role,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ListRequestsResponse is the caller's pending request list.
type ListRequestsResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// BatchInviteResponse carries the positional per-address outcomes.
type BatchInviteResponse struct {
	Results []InviteResult `json:"results"`
}

// ToResponse converts a request to its API representation.
func (r *Request) ToResponse() RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		Kind:        r.Kind,
		RequesterID: r.RequesterID,
		TargetID:    r.TargetID,
		Role:        r.Role,
		CreatedAt:   r.CreatedAt,
	}
	if r.StartupID != uuid.Nil {
		id := r.StartupID
		resp.StartupID = &id
	}
	return resp
}
