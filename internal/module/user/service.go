package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/st4cksup/server/internal/module/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provides user management operations.
type Service struct {
	repo   Repository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, jwt *auth.JWTManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		jwt:    jwt,
		logger: logger,
	}
}

// Register creates a new, inactive user account.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check uniqueness up front for precise errors
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if err != ErrUserNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if err != ErrUserNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	bio := req.Bio
	if bio == "" {
		bio = DefaultBio
	}

	u := &User{
		ID:       uuid.New(),
		IsActive: false,
		Name:     req.Name,
		Username: req.Username,
		Email:    email,
		Password: string(hash),
		Bio:      bio,
		Stack:    req.Stack,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
	)

	return u, nil
}

// Activate marks an account as active so it can sign in.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if u.IsActive {
		return ErrAlreadyActive
	}

	u.IsActive = true
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// Authenticate verifies credentials and issues an access token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if !u.IsActive {
		return nil, "", ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return u, token, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile updates a user's profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Stack != nil {
		u.Stack = req.Stack
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}

// DeleteUser removes a user account.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListConnections resolves the users on the other end of every connection
// edge that involves userID.
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID) ([]*User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListConnections(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		peers = append(peers, e.PeerOf(userID))
	}

	return s.repo.FindByIDs(ctx, peers)
}
