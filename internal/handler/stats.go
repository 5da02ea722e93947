package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/service"
)

type StatsHandler struct {
	stats service.StatsServicer
}

func NewStatsHandler(stats service.StatsServicer) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
