package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"civic-feedback-server/models"
	"civic-feedback-server/services"
	"civic-feedback-server/utils"
)

// dashboardQueryParams is the query string accepted by every official read endpoint
type dashboardQueryParams struct {
	models.FilterParams
	Sort      string `form:"sort"`
	Direction string `form:"direction"`
	Page      string `form:"page"`
}

// OfficialHandler serves the official analytics endpoints
type OfficialHandler struct {
	dashboard *services.DashboardService
}

// RegisterOfficialRoutes registers the read-only analytics routes
func RegisterOfficialRoutes(router *gin.RouterGroup, dashboard *services.DashboardService) {
	h := &OfficialHandler{dashboard: dashboard}

	official := router.Group("/official")
	{
		// Full dashboard: stats, table, both charts and the map
		official.GET("/dashboard", h.getDashboard)

		// Table page only
		official.GET("/feedback", h.getFeedbackTable)

		official.GET("/stats", h.getStats)
		official.GET("/charts/sentiment", h.getSentimentChart)
		official.GET("/charts/services", h.getServiceChart)
		official.GET("/map", h.getLocationMap)
	}
}

// parseDashboardQuery validates the query string into a DashboardQuery
func (h *OfficialHandler) parseDashboardQuery(c *gin.Context) (services.DashboardQuery, error) {
	var params dashboardQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return services.DashboardQuery{}, err
	}

	criteria, err := models.ParseFilterCriteria(params.FilterParams)
	if err != nil {
		return services.DashboardQuery{}, err
	}

	table := h.dashboard.DefaultTable()
	if table.SortField, err = models.ParseSortField(params.Sort); err != nil {
		return services.DashboardQuery{}, err
	}
	if table.SortDirection, err = models.ParseSortDirection(params.Direction); err != nil {
		return services.DashboardQuery{}, err
	}
	if p := strings.TrimSpace(params.Page); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return services.DashboardQuery{}, models.ErrInvalidPage
		}
		// Out-of-range pages are clamped on render
		table = table.WithPage(page)
	}

	return services.DashboardQuery{Criteria: criteria, Table: table}, nil
}

// buildDashboard parses the query and builds the dashboard, attaching any
// error to the context
func (h *OfficialHandler) buildDashboard(c *gin.Context) (models.Dashboard, bool) {
	query, err := h.parseDashboardQuery(c)
	if err != nil {
		_ = c.Error(utils.BadRequest(err))
		return models.Dashboard{}, false
	}

	dashboard, err := h.dashboard.Build(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(utils.Internal("Failed to build dashboard", err))
		return models.Dashboard{}, false
	}
	return dashboard, true
}

// getDashboard returns every view of the filtered feedback
func (h *OfficialHandler) getDashboard(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}

func (h *OfficialHandler) getFeedbackTable(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard.Table,
	})
}

// getStats returns the summary statistics plus the display values of the
// stat cards
func (h *OfficialHandler) getStats(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	stats := dashboard.Stats
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats":                  stats,
			"average_rating_display": services.FormatRating(stats.AverageRating),
			"trend":                  stats.Trend,
			"latest_report_display":  services.FormatLatestReport(stats.LatestTimestamp),
			"unique_locations":       stats.UniqueLocations,
		},
	})
}

func (h *OfficialHandler) getSentimentChart(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard.SentimentChart,
	})
}

func (h *OfficialHandler) getServiceChart(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard.ServiceChart,
	})
}

func (h *OfficialHandler) getLocationMap(c *gin.Context) {
	dashboard, ok := h.buildDashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard.LocationMap,
	})
}
