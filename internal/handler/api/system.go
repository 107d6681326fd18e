package api

import (
	"net/http"

	"entrypass-engine/internal/handler/middleware"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	systemQueries  queries.SystemQueries
	systemCommands commands.SystemCommands
}

func NewSystemHandler(systemQueries queries.SystemQueries, systemCommands commands.SystemCommands) *SystemHandler {
	return &SystemHandler{
		systemQueries:  systemQueries,
		systemCommands: systemCommands,
	}
}

// @Summary Engine diagnostics
// @Description Cache hit rates, sweeper counters and pending warning count
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SystemStatsResponse
// @Failure 401 {object} map[string]string
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	stats, err := h.systemQueries.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Clear the caller's cache
// @Description Drops cached traveler data and entry records; used on logout
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /system/cache/clear [post]
func (h *SystemHandler) ClearCache(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.systemCommands.ClearUserCache(userID)
	c.Status(http.StatusNoContent)
}

// @Summary Reset cache counters
// @Description Zeroes hit/miss/invalidation counters for a fresh window
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /system/stats/reset [post]
func (h *SystemHandler) ResetStats(c *gin.Context) {
	h.systemCommands.ResetCacheStats()
	c.Status(http.StatusNoContent)
}
