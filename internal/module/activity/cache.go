package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const feedKeyPrefix = "feed:"

// FeedCache caches a recipient's unfiltered feed in redis.
type FeedCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewFeedCache creates a feed cache with the given entry TTL.
func NewFeedCache(client redis.UniversalClient, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(recipientID uuid.UUID) string {
	return feedKeyPrefix + recipientID.String()
}

// Get returns the cached feed, or (nil, nil) on a miss.
func (c *FeedCache) Get(ctx context.Context, recipientID uuid.UUID) ([]Activity, error) {
	data, err := c.client.Get(ctx, feedKey(recipientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feed from cache: %w", err)
	}
	var activities []Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("unmarshal cached feed: %w", err)
	}
	return activities, nil
}

// Set stores a recipient's feed.
func (c *FeedCache) Set(ctx context.Context, recipientID uuid.UUID, activities []Activity) error {
	data, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	if err := c.client.Set(ctx, feedKey(recipientID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set feed in cache: %w", err)
	}
	return nil
}

// Invalidate drops a recipient's cached feed.
func (c *FeedCache) Invalidate(ctx context.Context, recipientID uuid.UUID) error {
	if err := c.client.Del(ctx, feedKey(recipientID)).Err(); err != nil {
		return fmt.Errorf("invalidate feed cache: %w", err)
	}
	return nil
}
