package startup

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/module/user"
)

// UserDirectory resolves users when managing members by email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service handles startup business logic.
type Service struct {
	repo   Repository
	users  UserDirectory
	tx     TxRunner
	logger *zap.Logger
}

// NewService creates a startup service.
func NewService(repo Repository, users UserDirectory, tx TxRunner, logger *zap.Logger) *Service {
	return &Service{repo: repo, users: users, tx: tx, logger: logger}
}

// Create registers a new startup and makes the creator its owner. The
// startup row and the owner membership commit together, so no startup
// can exist without an owner.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, name, description string) (*Startup, error) {
	st := &Startup{
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	owner := &Member{
		UserID: creatorID,
		Role:   RoleOwner,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, st); err != nil {
			return err
		}
		owner.StartupID = st.ID
		if err := s.repo.AddMember(ctx, owner); err != nil {
			return fmt.Errorf("add owner member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	st.Members = []Member{*owner}

	s.logger.Info("startup created",
		zap.String("startup_id", st.ID.String()),
		zap.String("owner_id", creatorID.String()),
	)
	return st, nil
}

// Get returns a startup with its member list.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Startup, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of startups.
func (s *Service) List(ctx context.Context, offset, limit int) ([]Startup, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// ListForUser returns the startups a user is a member of.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Startup, error) {
	return s.repo.ListForMember(ctx, userID)
}

// Update changes a startup's name or description. Only the owner may update.
func (s *Service) Update(ctx context.Context, requesterID, id uuid.UUID, name, description *string) (*Startup, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.OwnerID() != requesterID {
		return nil, ErrNotOwner
	}
	if name != nil {
		st.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		st.Description = *description
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a startup and its member list. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if st.OwnerID() != requesterID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("startup deleted", zap.String("startup_id", id.String()))
	return nil
}

// RemoveMembers removes members identified by email. The owner entry is
// protected and unknown emails are skipped.
func (s *Service) RemoveMembers(ctx context.Context, requesterID, startupID uuid.UUID, emails []string) (*Startup, error) {
	st, err := s.repo.FindByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	ownerID := st.OwnerID()
	if ownerID != requesterID {
		return nil, ErrNotOwner
	}
	for _, email := range emails {
		u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			continue
		}
		if u.ID == ownerID {
			return nil, ErrCannotRemoveOwner
		}
		if err := s.repo.RemoveMember(ctx, startupID, u.ID); err != nil && err != ErrMemberNotFound {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, startupID)
}
