package controllers

import (
	"net/http"

	"eataliano-backend/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *services.DashboardService
	Reports   *services.ReportService
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	overview, err := dc.Dashboard.Overview(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetReportAnalytics returns month, quarter and year revenue with growth against the previous period
func (dc *DashboardController) GetReportAnalytics(c *gin.Context) {
	summary, err := dc.Reports.Analytics(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
