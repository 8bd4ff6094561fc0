package trend

import (
	"context"
	"fmt"
	"log"
	"time"

	"trend-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type SourceReader interface {
	FetchHot(ctx context.Context, subreddit string, limit int) ([]domain.Document, error)
}

type Store interface {
	PersistCycle(ctx context.Context, records []domain.TrendRecord, alerts []domain.Alert) error
}

// Pacer blocks between source fetches to respect upstream rate limits.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Notifier receives the cycle's alerts after they were persisted.
type Notifier interface {
	AnnounceAlerts(alerts []domain.Alert)
}

type Config struct {
	Subreddits []string
	PostLimit  int
}

// Service drives one monitoring cycle end to end: fetch hot posts per
// subreddit, tokenize, aggregate, classify against the previous cycle's
// baseline, persist, and only then commit the new baseline.
type Service struct {
	tracer     trace.Tracer
	source     SourceReader
	store      Store
	classifier *Classifier
	pacer      Pacer
	notifier   Notifier
	cfg        Config
}

func NewService(
	tracer trace.Tracer,
	source SourceReader,
	store Store,
	classifier *Classifier,
	pacer Pacer,
	notifier Notifier,
	cfg Config,
) *Service {
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = append([]string(nil), domain.DefaultSubreddits...)
	}
	if cfg.PostLimit <= 0 {
		cfg.PostLimit = 25
	}
	if classifier == nil {
		classifier = NewClassifier(ClassifierConfig{})
	}
	return &Service{
		tracer:     tracer,
		source:     source,
		store:      store,
		classifier: classifier,
		pacer:      pacer,
		notifier:   notifier,
		cfg:        cfg,
	}
}

func (s *Service) RunCycle(ctx context.Context, now time.Time) (domain.TrendRunResult, error) {
	_, span := s.tracer.Start(ctx, "trend.run-cycle")
	defer span.End()

	if s.source == nil || s.store == nil {
		return domain.TrendRunResult{}, fmt.Errorf("trend service dependencies are not initialized")
	}

	now = now.UTC()
	result := domain.TrendRunResult{}

	var tokens []string
	fetched := 0
	for i, subreddit := range s.cfg.Subreddits {
		if i > 0 && s.pacer != nil {
			if err := s.pacer.Wait(ctx); err != nil {
				return result, err
			}
		}
		docs, err := s.source.FetchHot(ctx, subreddit, s.cfg.PostLimit)
		if err != nil {
			result.Errors = append(result.Errors, "fetch:"+subreddit+": "+err.Error())
			continue
		}
		fetched++
		result.DocsFetched += len(docs)
		for _, doc := range docs {
			tokens = append(tokens, Tokenize(doc.Title+" "+doc.Body)...)
		}
	}
	if fetched == 0 {
		// Every source failed: skip the cycle, keep the baseline untouched.
		result.Skipped = true
		log.Printf("trend cycle skipped, all sources failed: %v", result.Errors)
		return result, nil
	}
	result.TokensSeen = len(tokens)
	if len(tokens) == 0 {
		// Nothing to count: committing here would wipe the baseline and
		// make steady words look New next cycle.
		result.Skipped = true
		log.Println("trend cycle skipped, no tokens collected")
		return result, nil
	}

	table := Aggregate(tokens)
	ranked := table.Rank(s.classifier.ClassifyTop())
	alerts, nextState := s.classifier.Classify(ranked, table, now)

	records := make([]domain.TrendRecord, 0, table.Len())
	for _, row := range table.Rank(0) {
		records = append(records, domain.TrendRecord{
			Word:       row.Word,
			Count:      row.Count,
			Source:     domain.SourceReddit,
			RecordedAt: now,
		})
	}

	if err := s.store.PersistCycle(ctx, records, alerts); err != nil {
		return result, fmt.Errorf("persist cycle: %w", err)
	}
	result.RecordsWritten = len(records)
	result.AlertsWritten = len(alerts)

	// Baseline commits only after a fully persisted cycle.
	s.classifier.Commit(nextState)

	s.logAlerts(alerts)
	if s.notifier != nil && len(alerts) > 0 {
		s.notifier.AnnounceAlerts(alerts)
	}

	return result, nil
}

func (s *Service) logAlerts(alerts []domain.Alert) {
	if len(alerts) == 0 {
		log.Println("no significant trends detected")
		return
	}
	log.Println("trending words:")
	top := alerts
	if len(top) > 10 {
		top = top[:10]
	}
	for _, a := range top {
		if a.Kind == domain.AlertNew {
			log.Printf("  %s - %d mentions (NEW)", a.Word, a.Count)
			continue
		}
		log.Printf("  %s - %d mentions (+%.0f%%)", a.Word, a.Count, a.ChangePercent)
	}
}
