package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/services"
)

type StatisticsHandler struct {
	stats services.StatisticsService
	loc   *time.Location
}

func NewStatisticsHandler(stats services.StatisticsService, loc *time.Location) *StatisticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StatisticsHandler{stats: stats, loc: loc}
}

// GET /api/statistics?status=&wardId=&from=&to=&period=week|month|quarter|year
func (h *StatisticsHandler) Get(c *gin.Context) {
	f, err := queryFilter(c, h.loc)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	// the dashboard search box does not apply to statistics
	f.Query = ""
	stats, err := h.stats.Statistics(c.Request.Context(), services.StatsQuery{Filter: f, Period: c.Query("period")})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"statistics": stats})
}
