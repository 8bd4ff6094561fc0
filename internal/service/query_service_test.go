package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"trend-radar/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeTrendStore struct {
	trends     []domain.TrendSummary
	stats      domain.TrendStats
	trendsErr  error
	statsErr   error
	trendCalls int
}

func (f *fakeTrendStore) GetRecentTrends(ctx context.Context, windowHours float64, limit int) ([]domain.TrendSummary, error) {
	f.trendCalls++
	if f.trendsErr != nil {
		return nil, f.trendsErr
	}
	return f.trends, nil
}

func (f *fakeTrendStore) GetStats24h(ctx context.Context) (domain.TrendStats, error) {
	if f.statsErr != nil {
		return domain.TrendStats{}, f.statsErr
	}
	return f.stats, nil
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestRecentTrendsCacheMissQueriesStore(t *testing.T) {
	store := &fakeTrendStore{trends: []domain.TrendSummary{{Word: "rocket", Count: 12, Source: "reddit"}}}
	cache := newFakeRedis()
	svc := NewQueryService(testTracer, store, cache, 20)

	got, err := svc.RecentTrends(context.Background(), "1hour", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Word != "rocket" {
		t.Fatalf("unexpected trends: %v", got)
	}
	if store.trendCalls != 1 {
		t.Fatalf("expected one store query, got %d", store.trendCalls)
	}
	if _, ok := cache.data["trends:recent:1hour"]; !ok {
		t.Fatal("result not cached")
	}
}

func TestRecentTrendsServedFromCache(t *testing.T) {
	store := &fakeTrendStore{trends: []domain.TrendSummary{{Word: "fresh", Count: 1}}}
	cache := newFakeRedis()
	cached, _ := json.Marshal([]domain.TrendSummary{{Word: "cached", Count: 9, Source: "reddit"}})
	_ = cache.Set(context.Background(), "trends:recent:1hour", cached, 0)

	svc := NewQueryService(testTracer, store, cache, 20)
	got, err := svc.RecentTrends(context.Background(), "1hour", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Word != "cached" {
		t.Fatalf("expected cached result, got %v", got)
	}
	if store.trendCalls != 0 {
		t.Fatalf("store should not be queried on cache hit, got %d calls", store.trendCalls)
	}
}

func TestRecentTrendsTimeframesCacheIndependently(t *testing.T) {
	store := &fakeTrendStore{}
	cache := newFakeRedis()
	svc := NewQueryService(testTracer, store, cache, 20)

	if _, err := svc.RecentTrends(context.Background(), "10min", 0.17); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecentTrends(context.Background(), "24hour", 24); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.trendCalls != 2 {
		t.Fatalf("distinct timeframes must each hit the store, got %d calls", store.trendCalls)
	}
}

func TestRecentTrendsWorksWithoutRedis(t *testing.T) {
	store := &fakeTrendStore{trends: []domain.TrendSummary{{Word: "rocket", Count: 3}}}
	svc := NewQueryService(testTracer, store, nil, 20)
	got, err := svc.RecentTrends(context.Background(), "1hour", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected trends: %v", got)
	}
}

func TestRecentTrendsStoreError(t *testing.T) {
	store := &fakeTrendStore{trendsErr: errors.New("db down")}
	svc := NewQueryService(testTracer, store, newFakeRedis(), 20)
	if _, err := svc.RecentTrends(context.Background(), "1hour", 1); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestStats24hPassesThrough(t *testing.T) {
	store := &fakeTrendStore{stats: domain.TrendStats{TotalRecords: 100, UniqueWords: 40, AlertsCount: 7}}
	svc := NewQueryService(testTracer, store, nil, 20)
	got, err := svc.Stats24h(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != store.stats {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
