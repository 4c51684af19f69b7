package templates

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/metrics"
)

// CachedSource is a read-through Redis cache in front of another Source.
// A Redis outage degrades to direct reads; misses are not cached.
type CachedSource struct {
	next   Source
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, rdb redis.Cmdable, prefix string, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		logger: log.Named("template-cache"),
	}
}

func (c *CachedSource) key(id string) string {
	return c.prefix + id
}

func (c *CachedSource) Get(ctx context.Context, id string) (*Template, error) {
	if t, ok := c.lookup(ctx, id); ok {
		return t, nil
	}

	t, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, t)
	return t, nil
}

func (c *CachedSource) lookup(ctx context.Context, id string) (*Template, bool) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
	case stderrors.Is(err, redis.Nil):
		metrics.TemplateCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		metrics.TemplateCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("template cache read failed", map[string]interface{}{
			"templateId": id,
			"error":      err,
		})
		return nil, false
	}

	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		metrics.TemplateCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{
			"templateId": id,
			"error":      err,
		})
		return nil, false
	}
	metrics.TemplateCacheLookups.WithLabelValues("hit").Inc()
	return &t, true
}

func (c *CachedSource) store(ctx context.Context, t *Template) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(t.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("template cache write failed", map[string]interface{}{
			"templateId": t.ID,
			"error":      err,
		})
	}
}

// Invalidate drops cached entries so the next Get reads through.
func (c *CachedSource) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// List is never cached.
func (c *CachedSource) List(ctx context.Context) ([]Template, error) {
	if lister, ok := c.next.(Lister); ok {
		return lister.List(ctx)
	}
	return nil, nil
}
