package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder persists decision counters in Redis hashes: a cumulative
// total, optional per-minute buckets (with TTL) and optional per-route
// fields. Suitable when several instances share protection state worth
// aggregating.
type RedisRecorder struct {
	rdb *redis.Client

	prefix string
	// ttl applies only to time-bucketed keys; the total is cumulative and
	// never expires.
	ttl time.Duration

	bucket string // "minute" (default) or "none"

	trackRoutes bool
}

type RedisOption func(*RedisRecorder)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisRecorder) { s.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisRecorder) { s.ttl = d }
}

func WithBucket(bucket string) RedisOption {
	return func(s *RedisRecorder) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithTrackRoutes(track bool) RedisOption {
	return func(s *RedisRecorder) { s.trackRoutes = track }
}

func NewRedisRecorder(rdb *redis.Client, opts ...RedisOption) *RedisRecorder {
	s := &RedisRecorder{
		rdb:    rdb,
		prefix: "csrf:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisRecorder) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()

	totalKey := s.prefix + ":total"
	pipe.HIncrBy(ctx, totalKey, field, 1)
	if ev.EntryPoint {
		pipe.HIncrBy(ctx, totalKey, "bypassed", 1)
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackRoutes {
		routeField := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
		if routeField != "" {
			pipe.HIncrBy(ctx, s.prefix+":route", routeField+":"+field, 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
