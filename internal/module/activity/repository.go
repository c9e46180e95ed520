package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/st4cksup/server/internal/shared/database"
)

// Repository defines the data access interface for activity records.
type Repository interface {
	Record(ctx context.Context, a *Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, filter string) ([]Activity, error)
	DeleteByRequest(ctx context.Context, requestID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates an activity repository backed by gorm.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

func (r *repository) Record(ctx context.Context, a *Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.conn(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	var a Activity
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity by id: %w", err)
	}
	return &a, nil
}

// ListForRecipient returns the recipient's feed newest first. The filter,
// when non-empty, is a case-sensitive substring match on the message.
func (r *repository) ListForRecipient(ctx context.Context, recipientID uuid.UUID, filter string) ([]Activity, error) {
	var activities []Activity
	q := r.conn(ctx).Where("recipient_id = ?", recipientID)
	if filter != "" {
		q = q.Where("message LIKE ?", "%"+escapeLike(filter)+"%")
	}
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// DeleteByRequest removes every feed entry linked to a request. Deleting
// for an unknown request is not an error.
func (r *repository) DeleteByRequest(ctx context.Context, requestID uuid.UUID) error {
	err := r.conn(ctx).
		Where("request_id = ?", requestID).
		Delete(&Activity{}).Error
	if err != nil {
		return fmt.Errorf("delete activities by request: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
