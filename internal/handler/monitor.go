package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerRun godoc
// @Summary      Trigger one trend monitoring cycle manually
// @Description  Runs a fetch/tokenize/classify/persist cycle and returns its counters
// @Tags         monitor
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/monitor/run [post]
func (h *Handler) TriggerRun(c *gin.Context) {
	if h.trendRunner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trend monitor unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-trend-run")
	defer span.End()

	result, err := h.trendRunner.RunTrendCycle(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"docs_fetched":    result.DocsFetched,
		"tokens_seen":     result.TokensSeen,
		"records_written": result.RecordsWritten,
		"alerts_written":  result.AlertsWritten,
		"skipped":         result.Skipped,
		"errors":          result.Errors,
	})
}
