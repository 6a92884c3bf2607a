package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/services"
)

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the dashboard statistics
// @Summary     Dashboard statistics
// @Description Content counts and recent activity, served from cache when fresh
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardStats "Statistics"
// @Failure     401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// ClearCache drops the cached statistics
// @Summary     Clear dashboard cache
// @Description Drop cached statistics so the next request recomputes them
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} middleware.SuccessResponse "Cache cleared"
// @Failure     401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /dashboard/cache/clear [post]
func (h *DashboardHandler) ClearCache(c *gin.Context) {
	if err := h.dashboardService.ClearCache(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}
