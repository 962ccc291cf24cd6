package storage

import (
	"context"
	"time"

	"studio-finder/models"
	"studio-finder/utils"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "studio_rows:"

// CachedSource keeps the rows of another source in redis for ttl. Cache
// errors never fail a fetch; they fall through to the wrapped source.
type CachedSource struct {
	next   RowSource
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *utils.Logger
}

// NewCachedSource wraps next with a redis cache
func NewCachedSource(next RowSource, rdb redis.Cmdable, ttl time.Duration, logger *utils.Logger) *CachedSource {
	return &CachedSource{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *CachedSource) Name() string { return "cached:" + s.next.Name() }

func (s *CachedSource) key() string { return cacheKeyPrefix + s.next.Name() }

// FetchRows serves from cache when possible and refills it on a miss
func (s *CachedSource) FetchRows(ctx context.Context) ([]models.RawRow, error) {
	val, err := s.rdb.Get(ctx, s.key()).Bytes()
	switch {
	case err == nil:
		var rows []models.RawRow
		if jerr := json.Unmarshal(val, &rows); jerr == nil {
			s.logger.Debug("Cache hit for %s (%d rows)", s.next.Name(), len(rows))
			return rows, nil
		}
		s.logger.Warn("Discarding unreadable cache entry for %s", s.next.Name())
	case err != redis.Nil:
		s.logger.Warn("Cache read failed for %s: %v", s.next.Name(), err)
	}

	rows, err := s.next.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(rows)
	if err == nil {
		err = s.rdb.Set(ctx, s.key(), b, s.ttl).Err()
	}
	if err != nil {
		s.logger.Warn("Cache write failed for %s: %v", s.next.Name(), err)
	}
	return rows, nil
}

// Invalidate drops the cached rows, e.g. after an import
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key()).Err()
}

// ConnectRedis creates a client and checks the connection
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
