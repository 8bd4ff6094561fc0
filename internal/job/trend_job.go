package job

import (
	"context"
	"log"
	"time"

	"trend-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type TrendRunner interface {
	RunTrendCycle(ctx context.Context) (domain.TrendRunResult, error)
}

// TrendJob runs monitoring cycles back to back: each interval is measured
// from the end of the previous cycle, and a cycle always runs to completion
// before cancellation is honored. A failed cycle shortens the pause to the
// backoff interval instead of terminating anything.
type TrendJob struct {
	tracer       trace.Tracer
	runner       TrendRunner
	pollInterval time.Duration
	backoff      time.Duration

	// sleep is swappable so tests can drive the schedule without wall-clock
	// delays.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewTrendJob(tracer trace.Tracer, runner TrendRunner, pollInterval, backoff time.Duration) *TrendJob {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Minute
	}
	if backoff <= 0 {
		backoff = time.Minute
	}
	return &TrendJob{
		tracer:       tracer,
		runner:       runner,
		pollInterval: pollInterval,
		backoff:      backoff,
		sleep:        sleepCtx,
	}
}

// Start blocks until ctx is cancelled. Cancellation takes effect between
// cycles only.
func (j *TrendJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Trend job disabled: no runner")
		<-ctx.Done()
		return
	}
	log.Println("Trend job starting...")

	for {
		wait := j.pollInterval
		if err := j.runOnce(ctx); err != nil {
			wait = j.backoff
		}
		if err := j.sleep(ctx, wait); err != nil {
			log.Println("Trend job stopped")
			return
		}
	}
}

func (j *TrendJob) runOnce(ctx context.Context) error {
	_, span := j.tracer.Start(ctx, "trend-job.run-once")
	defer span.End()

	result, err := j.runner.RunTrendCycle(ctx)
	if err != nil {
		log.Printf("Trend cycle error: %v", err)
		return err
	}
	if result.Skipped {
		log.Printf("Trend cycle skipped fetch_errors=%d", len(result.Errors))
		return nil
	}
	log.Printf(
		"Trend cycle complete docs=%d tokens=%d records=%d alerts=%d warnings=%d",
		result.DocsFetched,
		result.TokensSeen,
		result.RecordsWritten,
		result.AlertsWritten,
		len(result.Errors),
	)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
