package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/st4cksup/server/internal/shared/database"
	"gorm.io/gorm"
)

// Repository defines the interface for user data access.
type Repository interface {
	// User operations
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Connection edge operations
	AddConnection(ctx context.Context, a, b uuid.UUID) error
	Connected(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// conn resolves the active transaction from ctx, falling back to the pooled
// connection. Keeps multi-store mutations inside one transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

// --- User Operations ---

func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.conn(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return classifyDuplicate(r.emailTaken(ctx, user.Email, uuid.Nil))
	}
	return err
}

// classifyDuplicate maps an insert collision to the column it fired on.
// The translated error carries no constraint name, so check the existing
// rows: an email hit means the email index, otherwise the username index.
func classifyDuplicate(emailTaken func() (bool, error)) error {
	taken, err := emailTaken()
	if err == nil && !taken {
		return ErrUsernameAlreadyExists
	}
	return ErrEmailAlreadyExists
}

// emailTaken reports whether another row already holds the email,
// excluding the given id when non-nil.
func (r *repository) emailTaken(ctx context.Context, email string, excludeID uuid.UUID) func() (bool, error) {
	return func() (bool, error) {
		q := r.conn(ctx).Model(&User{}).Where("email = ?", email)
		if excludeID != uuid.Nil {
			q = q.Where("id <> ?", excludeID)
		}
		var count int64
		err := q.Count(&count).Error
		return count > 0, err
	}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.conn(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.conn(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.conn(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*User
	if err := r.conn(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) List(ctx context.Context) ([]*User, error) {
	var users []*User
	if err := r.conn(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	err := r.conn(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return classifyDuplicate(r.emailTaken(ctx, user.Email, user.ID))
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Where("id = ?", id).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// --- Connection Edge Operations ---

func (r *repository) AddConnection(ctx context.Context, a, b uuid.UUID) error {
	if a == b {
		return ErrSelfConnection
	}
	first, second := NormalizePair(a, b)

	edge := &Connection{
		ID:      uuid.New(),
		UserAID: first,
		UserBID: second,
	}

	err := r.conn(ctx).Create(edge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyConnected
	}
	return err
}

func (r *repository) Connected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	first, second := NormalizePair(a, b)

	var count int64
	err := r.conn(ctx).
		Model(&Connection{}).
		Where("user_a_id = ? AND user_b_id = ?", first, second).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	var edges []*Connection
	err := r.conn(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}
