package templates

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"correspondence-workers/internal/common/logger"
)

// Store is the production lookup chain: Redis-cached Postgres templates, then
// the built-in letters. Writes go to Postgres and evict the cache entry.
type Store struct {
	*ChainSource
	db     *PostgresSource
	cache  *CachedSource
	logger logger.Logger
}

func NewStore(db *sql.DB, rdb redis.Cmdable, keyPrefix string, ttl time.Duration, log logger.Logger) *Store {
	pg := NewPostgresSource(db)
	cache := NewCachedSource(pg, rdb, keyPrefix, ttl, log)
	return &Store{
		ChainSource: NewChainSource(cache, NewBuiltinSource()),
		db:          pg,
		cache:       cache,
		logger:      log.Named("template-store"),
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.db.EnsureSchema(ctx)
}

// Save upserts t. A failed eviction is logged; the entry expires with its TTL.
func (s *Store) Save(ctx context.Context, t *Template) error {
	if err := s.db.Upsert(ctx, t); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, t.ID); err != nil {
		s.logger.Warn("cache eviction failed", map[string]interface{}{
			"templateId": t.ID,
			"error":      err,
		})
	}
	s.logger.Info("template saved", map[string]interface{}{
		"templateId": t.ID,
		"version":    t.Version,
	})
	return nil
}
