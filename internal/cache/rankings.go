package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/commently/comment-service/internal/comment"
	"github.com/redis/go-redis/v9"
)

const rankingsKey = "comments:rankings"

// RankingsCache keeps the rankings payload in Redis as JSON with a short TTL.
// Rankings are eventually consistent with recent writes anyway, so serving a
// slightly stale copy is fine and spares the aggregation scan.
type RankingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRankingsCache(client *redis.Client, ttl time.Duration) *RankingsCache {
	return &RankingsCache{client: client, ttl: ttl}
}

// Get returns the cached rankings, or nil on a miss. A decode failure is
// treated as a miss, not an error.
func (c *RankingsCache) Get(ctx context.Context) (*comment.Rankings, error) {
	b, err := c.client.Get(ctx, rankingsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var r comment.Rankings
	if err := json.Unmarshal(b, &r); err != nil {
		_ = c.client.Del(ctx, rankingsKey).Err()
		return nil, nil
	}
	return &r, nil
}

func (c *RankingsCache) Set(ctx context.Context, r *comment.Rankings) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rankingsKey, b, c.ttl).Err()
}
