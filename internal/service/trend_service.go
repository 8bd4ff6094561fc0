package service

import (
	"context"
	"time"

	"trend-radar/internal/domain"
	"trend-radar/internal/trend"

	"go.opentelemetry.io/otel/trace"
)

// TrendMonitorService adapts the trend cycle orchestrator to the job and
// handler interfaces.
type TrendMonitorService struct {
	tracer trace.Tracer
	svc    *trend.Service
}

func NewTrendMonitorService(tracer trace.Tracer, svc *trend.Service) *TrendMonitorService {
	return &TrendMonitorService{tracer: tracer, svc: svc}
}

func (s *TrendMonitorService) RunTrendCycle(ctx context.Context) (domain.TrendRunResult, error) {
	_, span := s.tracer.Start(ctx, "trend-service.run")
	defer span.End()
	if s == nil || s.svc == nil {
		// No orchestrator (usually no database): surface the cycle as
		// skipped rather than a successful empty run.
		return domain.TrendRunResult{Skipped: true}, nil
	}
	return s.svc.RunCycle(ctx, time.Now().UTC())
}
