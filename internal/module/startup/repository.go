package startup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/st4cksup/server/internal/shared/database"
)

// Repository defines the data access interface for startups and members.
type Repository interface {
	Create(ctx context.Context, s *Startup) error
	FindByID(ctx context.Context, id uuid.UUID) (*Startup, error)
	FindByName(ctx context.Context, name string) (*Startup, error)
	List(ctx context.Context, offset, limit int) ([]Startup, int64, error)
	Update(ctx context.Context, s *Startup) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *Member) error
	FindMember(ctx context.Context, startupID, userID uuid.UUID) (*Member, error)
	RemoveMember(ctx context.Context, startupID, userID uuid.UUID) error
	ListForMember(ctx context.Context, userID uuid.UUID) ([]Startup, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a startup repository backed by gorm.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, s *Startup) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := r.conn(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNameTaken
		}
		return fmt.Errorf("create startup: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Startup, error) {
	var s Startup
	err := r.conn(ctx).Preload("Members").First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStartupNotFound
		}
		return nil, fmt.Errorf("find startup by id: %w", err)
	}
	return &s, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*Startup, error) {
	var s Startup
	err := r.conn(ctx).Preload("Members").First(&s, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStartupNotFound
		}
		return nil, fmt.Errorf("find startup by name: %w", err)
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, offset, limit int) ([]Startup, int64, error) {
	var (
		startups []Startup
		total    int64
	)
	db := r.conn(ctx)
	if err := db.Model(&Startup{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count startups: %w", err)
	}
	err := db.Preload("Members").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&startups).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list startups: %w", err)
	}
	return startups, total, nil
}

func (r *repository) Update(ctx context.Context, s *Startup) error {
	if err := r.conn(ctx).Omit("Members").Save(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNameTaken
		}
		return fmt.Errorf("update startup: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.conn(ctx)
	if err := db.Where("startup_id = ?", id).Delete(&Member{}).Error; err != nil {
		return fmt.Errorf("delete startup members: %w", err)
	}
	result := db.Delete(&Startup{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete startup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStartupNotFound
	}
	return nil
}

func (r *repository) AddMember(ctx context.Context, m *Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.conn(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *repository) FindMember(ctx context.Context, startupID, userID uuid.UUID) (*Member, error) {
	var m Member
	err := r.conn(ctx).
		First(&m, "startup_id = ? AND user_id = ?", startupID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

func (r *repository) RemoveMember(ctx context.Context, startupID, userID uuid.UUID) error {
	result := r.conn(ctx).
		Where("startup_id = ? AND user_id = ?", startupID, userID).
		Delete(&Member{})
	if result.Error != nil {
		return fmt.Errorf("remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) ListForMember(ctx context.Context, userID uuid.UUID) ([]Startup, error) {
	var startups []Startup
	err := r.conn(ctx).
		Joins("JOIN startup_members ON startup_members.startup_id = startups.id").
		Where("startup_members.user_id = ?", userID).
		Preload("Members").
		Order("startups.created_at DESC").
		Find(&startups).Error
	if err != nil {
		return nil, fmt.Errorf("list startups for member: %w", err)
	}
	return startups, nil
}
