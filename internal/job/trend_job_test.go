package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"trend-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type trendRunnerStub struct {
	calls   int
	results []error
}

func (s *trendRunnerStub) RunTrendCycle(ctx context.Context) (domain.TrendRunResult, error) {
	var err error
	if s.calls < len(s.results) {
		err = s.results[s.calls]
	}
	s.calls++
	return domain.TrendRunResult{}, err
}

func TestTrendJobRunsCyclesAndUsesPollInterval(t *testing.T) {
	runner := &trendRunnerStub{}
	j := NewTrendJob(trace.NewNoopTracerProvider().Tracer("test"), runner, 10*time.Minute, time.Minute)

	var slept []time.Duration
	j.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		if len(slept) == 3 {
			return context.Canceled
		}
		return nil
	}

	j.Start(context.Background())

	if runner.calls != 3 {
		t.Fatalf("expected 3 cycles, got %d", runner.calls)
	}
	for _, d := range slept {
		if d != 10*time.Minute {
			t.Fatalf("expected poll interval between cycles, got %v", d)
		}
	}
}

func TestTrendJobBacksOffAfterCycleError(t *testing.T) {
	runner := &trendRunnerStub{results: []error{errors.New("persist failed"), nil}}
	j := NewTrendJob(trace.NewNoopTracerProvider().Tracer("test"), runner, 10*time.Minute, time.Minute)

	var slept []time.Duration
	j.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		if len(slept) == 2 {
			return context.Canceled
		}
		return nil
	}

	j.Start(context.Background())

	if len(slept) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(slept))
	}
	if slept[0] != time.Minute {
		t.Fatalf("expected backoff after failed cycle, got %v", slept[0])
	}
	if slept[1] != 10*time.Minute {
		t.Fatalf("expected poll interval after recovery, got %v", slept[1])
	}
}

func TestTrendJobStopsOnlyBetweenCycles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &trendRunnerStub{}
	j := NewTrendJob(trace.NewNoopTracerProvider().Tracer("test"), runner, time.Minute, time.Minute)

	j.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	j.Start(ctx)

	// The in-flight cycle completed before the stop was honored.
	if runner.calls != 1 {
		t.Fatalf("expected exactly one completed cycle, got %d", runner.calls)
	}
}

func TestTrendJobDefaults(t *testing.T) {
	j := NewTrendJob(trace.NewNoopTracerProvider().Tracer("test"), nil, 0, 0)
	if j.pollInterval != 10*time.Minute {
		t.Fatalf("expected default poll interval, got %v", j.pollInterval)
	}
	if j.backoff != time.Minute {
		t.Fatalf("expected default backoff, got %v", j.backoff)
	}
}

func TestTrendJobWithoutRunnerWaitsForStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j := NewTrendJob(trace.NewNoopTracerProvider().Tracer("test"), nil, time.Minute, time.Minute)

	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job without runner should exit on cancel")
	}
}
