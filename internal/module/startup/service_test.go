package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/module/user"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *Startup) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Startup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Startup), args.Error(1)
}

func (m *MockRepository) FindByName(ctx context.Context, name string) (*Startup, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Startup), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, offset, limit int) ([]Startup, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]Startup), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, s *Startup) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AddMember(ctx context.Context, mem *Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockRepository) FindMember(ctx context.Context, startupID, userID uuid.UUID) (*Member, error) {
	args := m.Called(ctx, startupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) RemoveMember(ctx context.Context, startupID, userID uuid.UUID) error {
	args := m.Called(ctx, startupID, userID)
	return args.Error(0)
}

func (m *MockRepository) ListForMember(ctx context.Context, userID uuid.UUID) ([]Startup, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Startup), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// passthroughTx runs the function directly without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// countingTx records how many transactions were opened.
type countingTx struct {
	calls int
}

func (c *countingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	creator := uuid.New()

	t.Run("creator becomes owner", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*startup.Startup")).Return(nil)
		repo.On("AddMember", ctx, mock.MatchedBy(func(m *Member) bool {
			return m.UserID == creator && m.Role == RoleOwner
		})).Return(nil)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		st, err := svc.Create(ctx, creator, "  Rocketry  ", "builds rockets")

		assert.NoError(t, err)
		assert.Equal(t, "Rocketry", st.Name)
		assert.Equal(t, creator, st.OwnerID())
		repo.AssertExpectations(t)
	})

	t.Run("startup row and owner member share one transaction", func(t *testing.T) {
		repo := new(MockRepository)
		tx := &countingTx{}
		repo.On("Create", ctx, mock.Anything).Return(nil)
		repo.On("AddMember", ctx, mock.Anything).Return(nil)

		svc := NewService(repo, new(MockUserDirectory), tx, logger)
		_, err := svc.Create(ctx, creator, "Rocketry", "builds rockets")

		assert.NoError(t, err)
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("owner member failure rolls back the create", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		repo.On("AddMember", ctx, mock.Anything).Return(errors.New("db down"))

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		_, err := svc.Create(ctx, creator, "Rocketry", "builds rockets")

		assert.Error(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrNameTaken)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		_, err := svc.Create(ctx, creator, "Rocketry", "dup")

		assert.ErrorIs(t, err, ErrNameTaken)
		repo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()
	id := uuid.New()

	existing := func() *Startup {
		return &Startup{
			ID:          id,
			Name:        "Rocketry",
			Description: "old",
			Members:     []Member{{UserID: owner, Role: RoleOwner}},
		}
	}

	t.Run("owner updates description", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(existing(), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(s *Startup) bool {
			return s.Description == "new"
		})).Return(nil)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		desc := "new"
		st, err := svc.Update(ctx, owner, id, nil, &desc)

		assert.NoError(t, err)
		assert.Equal(t, "new", st.Description)
		assert.Equal(t, "Rocketry", st.Name)
	})

	t.Run("non owner rejected", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(existing(), nil)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		name := "Takeover"
		_, err := svc.Update(ctx, other, id, &name, nil)

		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	st := &Startup{ID: id, Members: []Member{{UserID: owner, Role: RoleOwner}}}

	t.Run("owner deletes", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(st, nil)
		repo.On("Delete", ctx, id).Return(nil)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		assert.NoError(t, svc.Delete(ctx, owner, id))
		repo.AssertExpectations(t)
	})

	t.Run("missing startup", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(nil, ErrStartupNotFound)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		assert.ErrorIs(t, svc.Delete(ctx, owner, id), ErrStartupNotFound)
	})
}

func TestService_RemoveMembers(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := uuid.New()
	dev := uuid.New()
	id := uuid.New()

	withMembers := func(members ...Member) *Startup {
		return &Startup{ID: id, Name: "Rocketry", Members: members}
	}

	t.Run("removes member by email", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserDirectory)
		before := withMembers(
			Member{UserID: owner, Role: RoleOwner},
			Member{UserID: dev, Role: RoleDeveloper},
		)
		after := withMembers(Member{UserID: owner, Role: RoleOwner})

		repo.On("FindByID", ctx, id).Return(before, nil).Once()
		users.On("FindByEmail", ctx, "dev@st4cksup.io").Return(&user.User{ID: dev}, nil)
		repo.On("RemoveMember", ctx, id, dev).Return(nil)
		repo.On("FindByID", ctx, id).Return(after, nil).Once()

		svc := NewService(repo, users, passthroughTx{}, logger)
		st, err := svc.RemoveMembers(ctx, owner, id, []string{"Dev@St4cksUP.io "})

		assert.NoError(t, err)
		assert.Len(t, st.Members, 1)
		repo.AssertExpectations(t)
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserDirectory)
		repo.On("FindByID", ctx, id).Return(withMembers(Member{UserID: owner, Role: RoleOwner}), nil)
		users.On("FindByEmail", ctx, "boss@st4cksup.io").Return(&user.User{ID: owner}, nil)

		svc := NewService(repo, users, passthroughTx{}, logger)
		_, err := svc.RemoveMembers(ctx, owner, id, []string{"boss@st4cksup.io"})

		assert.ErrorIs(t, err, ErrCannotRemoveOwner)
		repo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email skipped", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserDirectory)
		st := withMembers(Member{UserID: owner, Role: RoleOwner})
		repo.On("FindByID", ctx, id).Return(st, nil)
		users.On("FindByEmail", ctx, "ghost@st4cksup.io").Return(nil, user.ErrUserNotFound)

		svc := NewService(repo, users, passthroughTx{}, logger)
		got, err := svc.RemoveMembers(ctx, owner, id, []string{"ghost@st4cksup.io"})

		assert.NoError(t, err)
		assert.Len(t, got.Members, 1)
	})

	t.Run("non owner rejected", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(withMembers(Member{UserID: owner, Role: RoleOwner}), nil)

		svc := NewService(repo, new(MockUserDirectory), passthroughTx{}, logger)
		_, err := svc.RemoveMembers(ctx, dev, id, []string{"dev@st4cksup.io"})

		assert.ErrorIs(t, err, ErrNotOwner)
	})
}
