package network

import (
	"time"

	"github.com/google/uuid"
)

// RequestKind is the closed set of workflow request kinds.
type RequestKind string

const (
	// KindConnection asks the target to join the requester's network.
	KindConnection RequestKind = "CONNECTION"
	// KindStartupMembership asks the target to join a startup.
	KindStartupMembership RequestKind = "STARTUP_MEMBERSHIP"

	// KindProjectMembership and KindTaskMembership are reserved for the
	// project and task workflows. Raising them fails until those land.
	KindProjectMembership RequestKind = "PROJECT_MEMBERSHIP"
	KindTaskMembership    RequestKind = "TASK_MEMBERSHIP"
)

// IsKnown checks if the kind is part of the closed set.
func (k RequestKind) IsKnown() bool {
	switch k {
	case KindConnection, KindStartupMembership, KindProjectMembership, KindTaskMembership:
		return true
	default:
		return false
	}
}

// IsImplemented checks if the kind has a working accept path.
func (k RequestKind) IsImplemented() bool {
	return k == KindConnection || k == KindStartupMembership
}

// Request is a pending workflow request awaiting the target's decision.
// StartupID is uuid.Nil for kinds that carry no organization. The
// composite unique index keeps at most one pending request per
// (kind, requester, target, startup) tuple.
type Request struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Kind        RequestKind `json:"kind" gorm:"not null;uniqueIndex:ux_pending_request"`
	RequesterID uuid.UUID   `json:"requester_id" gorm:"type:uuid;not null;uniqueIndex:ux_pending_request"`
	TargetID    uuid.UUID   `json:"target_id" gorm:"type:uuid;not null;uniqueIndex:ux_pending_request;index"`
	StartupID   uuid.UUID   `json:"startup_id,omitempty" gorm:"type:uuid;uniqueIndex:ux_pending_request"`
	// Role is the responsibility granted on acceptance of a startup
	// membership request. Empty for other kinds.
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Request) TableName() string {
	return "network_requests"
}
