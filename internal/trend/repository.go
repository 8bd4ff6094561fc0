package trend

import (
	"context"
	"fmt"
	"time"

	"trend-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createTrendTables = `
CREATE TABLE IF NOT EXISTS trend_records (
    id          BIGSERIAL PRIMARY KEY,
    word        TEXT        NOT NULL,
    count       INTEGER     NOT NULL,
    source      TEXT        NOT NULL DEFAULT 'reddit',
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trend_records_recorded_at
    ON trend_records (recorded_at DESC);

CREATE TABLE IF NOT EXISTS trend_alerts (
    id             BIGSERIAL PRIMARY KEY,
    word           TEXT             NOT NULL,
    count          INTEGER          NOT NULL,
    change_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    alert_type     TEXT             NOT NULL,
    recorded_at    TIMESTAMPTZ      NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trend_alerts_recorded_at
    ON trend_alerts (recorded_at DESC);
`

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository persists per-cycle trend records and alerts to Postgres and
// serves the read-side window queries for the dashboard API.
type Repository struct {
	pool   pool
	tracer trace.Tracer
}

func NewRepository(pool pool, tracer trace.Tracer) *Repository {
	return &Repository{pool: pool, tracer: tracer}
}

func (r *Repository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "trend-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createTrendTables)
	return err
}

// PersistCycle writes a cycle's records and alerts in one transaction so a
// partial cycle never reaches the read-side queries.
func (r *Repository) PersistCycle(ctx context.Context, records []domain.TrendRecord, alerts []domain.Alert) error {
	if len(records) == 0 && len(alerts) == 0 {
		return nil
	}
	_, span := r.tracer.Start(ctx, "trend-repo.persist-cycle")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := execBatch(ctx, tx, recordsBatch(records), len(records)); err != nil {
		return fmt.Errorf("insert trend records: %w", err)
	}
	if err := execBatch(ctx, tx, alertsBatch(alerts), len(alerts)); err != nil {
		return fmt.Errorf("insert alerts: %w", err)
	}
	return tx.Commit(ctx)
}

func recordsBatch(records []domain.TrendRecord) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO trend_records (word, count, source, recorded_at)
			 VALUES ($1, $2, $3, $4)`,
			rec.Word, rec.Count, rec.Source, rec.RecordedAt.UTC(),
		)
	}
	return batch
}

func alertsBatch(alerts []domain.Alert) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, a := range alerts {
		batch.Queue(
			`INSERT INTO trend_alerts (word, count, change_percent, alert_type, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.Word, a.Count, a.ChangePercent, string(a.Kind), a.RecordedAt.UTC(),
		)
	}
	return batch
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, n int) error {
	if n == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

// GetRecentTrends aggregates counts per word and source over the trailing
// window and returns the top rows by summed count.
func (r *Repository) GetRecentTrends(ctx context.Context, windowHours float64, limit int) ([]domain.TrendSummary, error) {
	_, span := r.tracer.Start(ctx, "trend-repo.get-recent-trends")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().UTC().Add(-time.Duration(windowHours * float64(time.Hour)))

	rows, err := r.pool.Query(ctx,
		`SELECT word, SUM(count) AS total_count, source
		 FROM trend_records
		 WHERE recorded_at > $1
		 GROUP BY word, source
		 ORDER BY total_count DESC
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TrendSummary
	for rows.Next() {
		var s domain.TrendSummary
		if err := rows.Scan(&s.Word, &s.Count, &s.Source); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStats24h returns record, distinct-word and alert totals for the
// trailing 24 hours.
func (r *Repository) GetStats24h(ctx context.Context) (domain.TrendStats, error) {
	_, span := r.tracer.Start(ctx, "trend-repo.get-stats-24h")
	defer span.End()

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	var stats domain.TrendStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT word)
		 FROM trend_records
		 WHERE recorded_at > $1`,
		cutoff,
	).Scan(&stats.TotalRecords, &stats.UniqueWords)
	if err != nil {
		return domain.TrendStats{}, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM trend_alerts
		 WHERE recorded_at > $1`,
		cutoff,
	).Scan(&stats.AlertsCount)
	if err != nil {
		return domain.TrendStats{}, err
	}
	return stats, nil
}
