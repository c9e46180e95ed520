package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/st4cksup/server/internal/shared/database"
)

// Repository defines the data access interface for pending requests.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// DeleteByID removes the request and reports ErrRequestNotFound when
	// it was already gone. Resolution hinges on this being conditional:
	// of two concurrent accepts, exactly one observes the deleted row.
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ListForTarget(ctx context.Context, targetID uuid.UUID) ([]Request, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a request repository backed by gorm.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if err := r.conn(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request by id: %w", err)
	}
	return &req, nil
}

func (r *repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&Request{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *repository) ListForTarget(ctx context.Context, targetID uuid.UUID) ([]Request, error) {
	var requests []Request
	err := r.conn(ctx).
		Where("target_id = ?", targetID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("list requests for target: %w", err)
	}
	return requests, nil
}
