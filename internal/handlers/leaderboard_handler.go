package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelens/assessment-service/internal/services"
	"github.com/hirelens/assessment-service/internal/utils"
)

type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(
	leaderboardService services.LeaderboardService,
	logger utils.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard returns the ranked leaderboard for a job
// @Summary Get leaderboard
// @Tags leaderboard
// @Produce json
// @Param job_id path uint true "Job ID"
// @Success 200 {array} services.LeaderboardEntry
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{job_id}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	jobID := parseUintParam(c, "id")
	if jobID == 0 {
		return
	}

	entries, err := h.leaderboardService.Get(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ExportLeaderboard downloads the leaderboard as an xlsx file
// @Summary Export leaderboard
// @Tags leaderboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param job_id path uint true "Job ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{job_id}/leaderboard/export [get]
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	jobID := parseUintParam(c, "id")
	if jobID == 0 {
		return
	}

	h.LogRequest(c, "Exporting leaderboard", "job_id", jobID)

	data, err := h.leaderboardService.ExportXLSX(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard-job-%d.xlsx", jobID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
