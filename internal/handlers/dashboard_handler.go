package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetDashboardStats returns teacher and review queue counters
// @Summary Get dashboard statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardStatsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 502 {object} ErrorResponse "Database unavailable"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetActivityTrends returns submitted and reviewed works per day
// @Summary Get activity trends
// @Tags dashboard
// @Produce json
// @Param days query int false "Number of days (default: 7, max: 90)"
// @Success 200 {array} services.ActivityTrendResponse
// @Failure 400 {object} ErrorResponse "Bad request - invalid days"
// @Router /dashboard/activity-trends [get]
func (h *DashboardHandler) GetActivityTrends(c *gin.Context) {
	h.LogRequest(c, "Getting activity trends")

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid days parameter",
			Details: "days must be a positive number",
		})
		return
	}

	trends, err := h.service.GetActivityTrends(c.Request.Context(), days)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GetRecentActivities returns the latest submissions and reviews
// @Summary Get recent activities
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of activities to return (default: 10, max: 50)"
// @Success 200 {array} services.RecentActivityResponse
// @Router /dashboard/recent-activities [get]
func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	h.LogRequest(c, "Getting recent activities")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	activities, err := h.service.GetRecentActivities(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}
