package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/module/activity"
	"github.com/st4cksup/server/internal/module/startup"
	"github.com/st4cksup/server/internal/module/user"
	"github.com/st4cksup/server/internal/utils/metrics"
)

// UserStore is the slice of the user repository the engine needs.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	AddConnection(ctx context.Context, a, b uuid.UUID) error
	Connected(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// StartupStore is the slice of the startup repository the engine needs.
type StartupStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*startup.Startup, error)
	AddMember(ctx context.Context, m *startup.Member) error
}

// ActivityLog records and clears feed entries as requests move through
// the workflow.
type ActivityLog interface {
	Record(ctx context.Context, a *activity.Activity) error
	DeleteByRequest(ctx context.Context, recipientID, requestID uuid.UUID) error
	InvalidateFeed(ctx context.Context, recipientID uuid.UUID)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the relationship workflow engine. It owns the lifecycle of
// pending requests: raising them, resolving them atomically, and keeping
// the activity feeds in step.
type Service struct {
	repo       Repository
	users      UserStore
	startups   StartupStore
	activities ActivityLog
	tx         TxRunner
	mailer     Mailer
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewService creates the workflow engine.
func NewService(
	repo Repository,
	users UserStore,
	startups StartupStore,
	activities ActivityLog,
	tx TxRunner,
	mailer Mailer,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if mailer == nil {
		mailer = NopMailer{}
	}
	return &Service{
		repo:       repo,
		users:      users,
		startups:   startups,
		activities: activities,
		tx:         tx,
		mailer:     mailer,
		metrics:    m,
		logger:     logger,
	}
}

// RaiseRequest opens a pending request of the given kind against the
// target. StartupID is required for startup membership and must be
// uuid.Nil otherwise. At most one request per (kind, requester, target,
// startup) tuple may be pending at a time.
func (s *Service) RaiseRequest(ctx context.Context, requesterID uuid.UUID, kind RequestKind, targetID, startupID uuid.UUID, role string) (*Request, error) {
	if !kind.IsKnown() {
		return nil, ErrUnknownKind
	}
	if !kind.IsImplemented() {
		return nil, ErrKindNotImplemented
	}
	if requesterID == targetID {
		return nil, ErrSelfRequest
	}

	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Kind:        kind,
		RequesterID: requesterID,
		TargetID:    targetID,
	}
	var message string

	switch kind {
	case KindConnection:
		if startupID != uuid.Nil {
			return nil, ErrStartupNotAllowed
		}
		connected, err := s.users.Connected(ctx, requesterID, targetID)
		if err != nil {
			return nil, err
		}
		if connected {
			return nil, user.ErrAlreadyConnected
		}
		message = fmt.Sprintf("%s wants to join your network.", requester.Name)

	case KindStartupMembership:
		if startupID == uuid.Nil {
			return nil, ErrStartupRequired
		}
		st, err := s.startups.FindByID(ctx, startupID)
		if err != nil {
			return nil, err
		}
		if !st.HasMember(requesterID) {
			return nil, ErrNotStartupMember
		}
		if st.HasMember(targetID) {
			return nil, startup.ErrAlreadyMember
		}
		if role == "" {
			role = string(startup.RoleDeveloper)
		}
		r := startup.Role(role)
		if !r.IsValid() || r == startup.RoleOwner {
			return nil, startup.ErrInvalidRole
		}
		req.StartupID = startupID
		req.Role = role
		message = fmt.Sprintf("%s invited you to join %s.", requester.Name, st.Name)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}
		return s.activities.Record(ctx, &activity.Activity{
			RecipientID: target.ID,
			Kind:        activity.KindRequest,
			Message:     message,
			RequestID:   req.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.activities.InvalidateFeed(ctx, target.ID)

	if s.metrics != nil {
		s.metrics.RequestsRaisedTotal.WithLabelValues(string(kind)).Inc()
	}
	s.logger.Info("request raised",
		zap.String("request_id", req.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("requester_id", requesterID.String()),
		zap.String("target_id", targetID.String()),
	)
	return req, nil
}

// Accept resolves a pending request positively. Only the target may
// accept. The ledger delete, relationship write, and feed updates commit
// together, so of two concurrent accepts exactly one succeeds.
func (s *Service) Accept(ctx context.Context, userID, requestID uuid.UUID) error {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TargetID != userID {
		return ErrNotTarget
	}

	target, err := s.users.FindByID(ctx, req.TargetID)
	if err != nil {
		return err
	}

	var successMsg string
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteByID(ctx, requestID); err != nil {
			return err
		}

		switch req.Kind {
		case KindConnection:
			err := s.users.AddConnection(ctx, req.RequesterID, req.TargetID)
			if err != nil && !errors.Is(err, user.ErrAlreadyConnected) {
				return err
			}
			successMsg = fmt.Sprintf("%s joined your network!", target.Name)

		case KindStartupMembership:
			st, err := s.startups.FindByID(ctx, req.StartupID)
			if err != nil {
				return err
			}
			role := startup.Role(req.Role)
			if !role.IsValid() || role == startup.RoleOwner {
				role = startup.RoleDeveloper
			}
			err = s.startups.AddMember(ctx, &startup.Member{
				StartupID: req.StartupID,
				UserID:    req.TargetID,
				Role:      role,
			})
			if err != nil && !errors.Is(err, startup.ErrAlreadyMember) {
				return err
			}
			successMsg = fmt.Sprintf("%s joined %s!", target.Name, st.Name)

		default:
			return ErrKindNotImplemented
		}

		if err := s.activities.DeleteByRequest(ctx, req.TargetID, requestID); err != nil {
			return err
		}
		return s.activities.Record(ctx, &activity.Activity{
			RecipientID: req.RequesterID,
			Kind:        activity.KindSuccess,
			Message:     successMsg,
		})
	})
	if err != nil {
		return err
	}
	// Invalidate after commit. Doing it inside the transaction lets a
	// concurrent reader repopulate the cache from pre-commit state.
	s.activities.InvalidateFeed(ctx, req.TargetID)
	s.activities.InvalidateFeed(ctx, req.RequesterID)

	if s.metrics != nil {
		s.metrics.RequestsResolvedTotal.WithLabelValues(string(req.Kind), "accepted").Inc()
	}
	s.logger.Info("request accepted",
		zap.String("request_id", requestID.String()),
		zap.String("kind", string(req.Kind)),
	)
	return nil
}

// Reject resolves a pending request negatively. Only the target may
// reject; rejecting a request that no longer exists reports
// ErrRequestNotFound.
func (s *Service) Reject(ctx context.Context, userID, requestID uuid.UUID) error {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TargetID != userID {
		return ErrNotTarget
	}

	target, err := s.users.FindByID(ctx, req.TargetID)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteByID(ctx, requestID); err != nil {
			return err
		}
		if err := s.activities.DeleteByRequest(ctx, req.TargetID, requestID); err != nil {
			return err
		}
		return s.activities.Record(ctx, &activity.Activity{
			RecipientID: req.RequesterID,
			Kind:        activity.KindFailure,
			Message:     fmt.Sprintf("%s declined your request.", target.Name),
		})
	})
	if err != nil {
		return err
	}
	s.activities.InvalidateFeed(ctx, req.TargetID)
	s.activities.InvalidateFeed(ctx, req.RequesterID)

	if s.metrics != nil {
		s.metrics.RequestsResolvedTotal.WithLabelValues(string(req.Kind), "rejected").Inc()
	}
	s.logger.Info("request rejected",
		zap.String("request_id", requestID.String()),
		zap.String("kind", string(req.Kind)),
	)
	return nil
}

// ListPending returns the requests awaiting the user's decision.
func (s *Service) ListPending(ctx context.Context, userID uuid.UUID) ([]Request, error) {
	return s.repo.ListForTarget(ctx, userID)
}

// Invite outcome statuses.
const (
	InviteStatusRequested = "REQUESTED"
	InviteStatusInvited   = "INVITED"
	InviteStatusFailed    = "FAILED"
)

// InviteResult is the per-address outcome of a batch invitation.
type InviteResult struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchInvite processes a list of email addresses concurrently. A
// registered address gets a pending request raised against it; an
// unregistered one gets an invitation email. Results are positional:
// results[i] always describes emails[i], and a dead mail relay marks
// individual addresses FAILED without failing the batch.
func (s *Service) BatchInvite(ctx context.Context, inviterID uuid.UUID, emails []string, startupID uuid.UUID, role string) ([]InviteResult, error) {
	inviter, err := s.users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	var startupName string
	if startupID != uuid.Nil {
		st, err := s.startups.FindByID(ctx, startupID)
		if err != nil {
			return nil, err
		}
		if !st.HasMember(inviterID) {
			return nil, ErrNotStartupMember
		}
		startupName = st.Name
	}

	results := make([]InviteResult, len(emails))
	var wg sync.WaitGroup
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			results[i] = s.inviteOne(ctx, inviter, email, startupID, startupName, role)
		}(i, email)
	}
	wg.Wait()

	if s.metrics != nil {
		for _, r := range results {
			s.metrics.InviteEmailsTotal.WithLabelValues(r.Status).Inc()
		}
	}
	return results, nil
}

func (s *Service) inviteOne(ctx context.Context, inviter *user.User, email string, startupID uuid.UUID, startupName, role string) InviteResult {
	email = strings.ToLower(strings.TrimSpace(email))
	result := InviteResult{Email: email}

	target, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		kind := KindConnection
		if startupID != uuid.Nil {
			kind = KindStartupMembership
		}
		if _, err := s.RaiseRequest(ctx, inviter.ID, kind, target.ID, startupID, role); err != nil {
			result.Status = InviteStatusFailed
			result.Error = err.Error()
			return result
		}
		result.Status = InviteStatusRequested
		// Registered invitees still get the email notification. The
		// request stands either way; a dispatch failure only surfaces
		// in the result's error field.
		if err := s.mailer.SendInvite(ctx, email, inviter.Name, startupName); err != nil {
			s.logger.Warn("invite dispatch failed",
				zap.String("email", email),
				zap.Error(err),
			)
			result.Error = "invitation email could not be sent"
		}
		return result

	case errors.Is(err, user.ErrUserNotFound):
		if err := s.mailer.SendInvite(ctx, email, inviter.Name, startupName); err != nil {
			s.logger.Warn("invite dispatch failed",
				zap.String("email", email),
				zap.Error(err),
			)
			result.Status = InviteStatusFailed
			result.Error = "invitation email could not be sent"
			return result
		}
		result.Status = InviteStatusInvited
		return result

	default:
		result.Status = InviteStatusFailed
		result.Error = err.Error()
		return result
	}
}
