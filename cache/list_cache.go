package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"query-hub/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix       = "queryhub:"
	DefaultCacheTTL = 5 * time.Minute
)

// ListCache caches listing results per collection in Redis. Writes bump a
// per-collection version so stale entries are never read again and simply
// expire.
type ListCache struct {
	redis  redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewListCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *ListCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ListCache{redis: client, ttl: ttl, logger: logger}
}

// Get returns the cached listing, if any, together with the collection
// version it looked under. Callers pass that version back to SetAsync so a
// listing read before a write is never stored under the post-write version.
// The version is -1 when it could not be read.
func (lc *ListCache) Get(ctx context.Context, collection string, params models.ListParams) ([]models.Document, int64, bool) {
	version, err := lc.version(ctx, collection)
	if err != nil {
		lc.logger.Debug("list cache version lookup failed", zap.String("collection", collection), zap.Error(err))
		return nil, -1, false
	}

	raw, err := lc.redis.Get(ctx, ListKey(collection, version, params)).Bytes()
	if err != nil {
		return nil, version, false
	}

	var docs []models.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		lc.logger.Warn("failed to unmarshal cached listing", zap.String("collection", collection), zap.Error(err))
		return nil, version, false
	}
	return docs, version, true
}

// SetAsync stores a listing under version in the background.
func (lc *ListCache) SetAsync(collection string, version int64, params models.ListParams, docs []models.Document) {
	if version < 0 {
		return
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		lc.logger.Warn("failed to marshal listing for cache", zap.String("collection", collection), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := lc.redis.Set(ctx, ListKey(collection, version, params), payload, lc.ttl).Err(); err != nil {
			lc.logger.Warn("failed to cache listing", zap.String("collection", collection), zap.Error(err))
		}
	}()
}

// Invalidate bumps the collection version.
func (lc *ListCache) Invalidate(ctx context.Context, collection string) error {
	if _, err := lc.redis.Incr(ctx, VersionKey(collection)).Result(); err != nil {
		return fmt.Errorf("failed to invalidate %s listings: %w", collection, err)
	}
	return nil
}

func (lc *ListCache) version(ctx context.Context, collection string) (int64, error) {
	v, err := lc.redis.Get(ctx, VersionKey(collection)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// VersionKey is the Redis key holding the listing version of a collection.
func VersionKey(collection string) string {
	return keyPrefix + collection + ":version"
}

// ListKey is the Redis key of one cached listing.
func ListKey(collection string, version int64, params models.ListParams) string {
	return fmt.Sprintf("%s%s:v:%d:s:%q:f:%q:o:%q", keyPrefix, collection, version, params.Search, params.Filter, params.Sort)
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
