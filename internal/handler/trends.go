package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// timeframeHours maps the dashboard's symbolic timeframes to window sizes.
var timeframeHours = map[string]float64{
	"10min":  0.17,
	"1hour":  1,
	"6hour":  6,
	"24hour": 24,
}

const hotCountThreshold = 10

type trendItem struct {
	Word   string `json:"word"`
	Count  int64  `json:"count"`
	Source string `json:"source"`
	Hot    bool   `json:"hot"`
}

// GetTrends godoc
// @Summary      Top trending words for a timeframe
// @Description  Returns the top words by aggregated count over the window (10min, 1hour, 6hour or 24hour)
// @Tags         trends
// @Produce      json
// @Param        timeframe  path  string  true  "Timeframe"  Enums(10min, 1hour, 6hour, 24hour)
// @Success      200  {array}   trendItem
// @Failure      503  {object}  map[string]string
// @Router       /api/trends/{timeframe} [get]
func (h *Handler) GetTrends(c *gin.Context) {
	if h.queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trend queries unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-trends")
	defer span.End()

	timeframe := c.Param("timeframe")
	hours, ok := timeframeHours[timeframe]
	if !ok {
		timeframe = "1hour"
		hours = timeframeHours[timeframe]
	}

	trends, err := h.queries.RecentTrends(ctx, timeframe, hours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]trendItem, 0, len(trends))
	for _, t := range trends {
		items = append(items, trendItem{
			Word:   t.Word,
			Count:  t.Count,
			Source: t.Source,
			Hot:    t.Count > hotCountThreshold,
		})
	}
	c.JSON(http.StatusOK, items)
}
