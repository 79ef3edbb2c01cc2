package genai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"idea-workers/internal/common/database"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

// CachedSuggester memoizes suggestions per corpus in Redis. Cache failures
// are logged and bypassed; only the wrapped suggester's errors surface.
type CachedSuggester struct {
	next   Suggester
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSuggester(next Suggester, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSuggester {
	return &CachedSuggester{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedSuggester) SuggestPriorities(ctx context.Context, corpus string) ([]models.PriorityTag, error) {
	key := cacheKey(corpus)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var tags []models.PriorityTag
		if jsonErr := json.Unmarshal([]byte(cached), &tags); jsonErr == nil {
			return tags, nil
		}
		c.logger.Warn("discarding malformed cached suggestion", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("suggestion cache read failed", map[string]interface{}{"error": err.Error()})
	}

	tags, err := c.next.SuggestPriorities(ctx, corpus)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(tags); jsonErr == nil {
		if setErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("suggestion cache write failed", map[string]interface{}{"error": setErr.Error()})
		}
	}
	return tags, nil
}

func cacheKey(corpus string) string {
	sum := sha256.Sum256([]byte(corpus))
	return database.SuggestionCacheKey(hex.EncodeToString(sum[:]))
}
