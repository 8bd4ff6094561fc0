package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"trend-radar/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const trendCacheTTL = 60 * time.Second

type TrendStore interface {
	GetRecentTrends(ctx context.Context, windowHours float64, limit int) ([]domain.TrendSummary, error)
	GetStats24h(ctx context.Context) (domain.TrendStats, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// QueryService serves the dashboard read side, caching window queries in
// Redis so a polling UI does not hammer Postgres.
type QueryService struct {
	tracer trace.Tracer
	store  TrendStore
	redis  RedisClient
	limit  int
}

func NewQueryService(tracer trace.Tracer, store TrendStore, redisClient RedisClient, limit int) *QueryService {
	if limit <= 0 {
		limit = 20
	}
	return &QueryService{tracer: tracer, store: store, redis: redisClient, limit: limit}
}

// RecentTrends returns the top aggregated words over the trailing window.
// cacheKey distinguishes timeframes; pass the symbolic timeframe name.
func (s *QueryService) RecentTrends(ctx context.Context, cacheKey string, windowHours float64) ([]domain.TrendSummary, error) {
	_, span := s.tracer.Start(ctx, "query-service.recent-trends")
	defer span.End()

	key := "trends:recent:" + cacheKey
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var cached []domain.TrendSummary
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Printf("redis cache read error: %v", err)
		}
	}

	trends, err := s.store.GetRecentTrends(ctx, windowHours, s.limit)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(trends); err == nil {
			if err := s.redis.Set(ctx, key, payload, trendCacheTTL).Err(); err != nil {
				log.Printf("redis cache write error: %v", err)
			}
		}
	}
	return trends, nil
}

// Stats24h returns the trailing-24h record, word and alert totals. Not
// cached; the dashboard polls it rarely and the query is cheap.
func (s *QueryService) Stats24h(ctx context.Context) (domain.TrendStats, error) {
	_, span := s.tracer.Start(ctx, "query-service.stats-24h")
	defer span.End()
	return s.store.GetStats24h(ctx)
}
