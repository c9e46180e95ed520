package activity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/utils/metrics"
)

const cacheName = "activity_feed"

// Service handles activity feed business logic. The cache and metrics
// are optional; a nil cache disables feed caching.
type Service struct {
	repo    Repository
	cache   *FeedCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates an activity service.
func NewService(repo Repository, cache *FeedCache, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, metrics: m, logger: logger}
}

// Record appends an entry to a recipient's feed and drops their cached
// feed.
func (s *Service) Record(ctx context.Context, a *Activity) error {
	if !a.Kind.IsValid() {
		return ErrInvalidKind
	}
	if err := s.repo.Record(ctx, a); err != nil {
		return err
	}
	s.invalidate(ctx, a.RecipientID)
	return nil
}

// DeleteByRequest removes feed entries linked to a request for the given
// recipient.
func (s *Service) DeleteByRequest(ctx context.Context, recipientID, requestID uuid.UUID) error {
	if err := s.repo.DeleteByRequest(ctx, requestID); err != nil {
		return err
	}
	s.invalidate(ctx, recipientID)
	return nil
}

// ListFeed returns the recipient's own feed, newest first. The filter is
// a case-sensitive substring match on messages; filtered listings bypass
// the cache.
func (s *Service) ListFeed(ctx context.Context, recipientID uuid.UUID, filter string) ([]Activity, error) {
	if filter == "" && s.cache != nil {
		cached, err := s.cache.Get(ctx, recipientID)
		if err != nil {
			s.logger.Warn("feed cache read failed", zap.Error(err))
		} else if cached != nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit(cacheName)
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss(cacheName)
		}
	}

	activities, err := s.repo.ListForRecipient(ctx, recipientID, filter)
	if err != nil {
		return nil, err
	}
	if filter == "" && s.cache != nil {
		if err := s.cache.Set(ctx, recipientID, activities); err != nil {
			s.logger.Warn("feed cache write failed", zap.Error(err))
		}
	}
	return activities, nil
}

// InvalidateFeed drops the recipient's cached feed. Write paths that run
// inside a transaction call this again after commit: the in-transaction
// invalidation races concurrent readers, who can repopulate the cache
// from pre-commit state.
func (s *Service) InvalidateFeed(ctx context.Context, recipientID uuid.UUID) {
	s.invalidate(ctx, recipientID)
}

func (s *Service) invalidate(ctx context.Context, recipientID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, recipientID); err != nil {
		s.logger.Warn("feed cache invalidation failed",
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err),
		)
	}
}
