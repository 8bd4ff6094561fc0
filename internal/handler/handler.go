package handler

import (
	"context"

	"trend-radar/internal/domain"
	"trend-radar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type TrendRunner interface {
	RunTrendCycle(ctx context.Context) (domain.TrendRunResult, error)
}

type Handler struct {
	tracer      trace.Tracer
	queries     *service.QueryService
	trendRunner TrendRunner
	apiKey      string
}

func New(tracer trace.Tracer, queries *service.QueryService, trendRunner TrendRunner, apiKey string) *Handler {
	return &Handler{
		tracer:      tracer,
		queries:     queries,
		trendRunner: trendRunner,
		apiKey:      apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/trends/:timeframe", h.GetTrends)
	r.GET("/api/stats", h.GetStats)
	r.POST("/api/monitor/run", APIKeyAuth(h.apiKey), h.TriggerRun)
}
