package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvc
}

// registerAnalyticsRoutes registers the admin dashboard route.
func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvc) {
	h := &analyticsHandler{analyticsService: analyticsService}
	rg.GET("/analytics", h.getAnalytics)
}

// getAnalytics godoc
// @Summary Admin dashboard figures
// @Description Revenue, sales, clients and trends over a period. Admin only.
// @Tags analytics
// @Produce json
// @Param period query string false "Look-back window" Enums(day, week, month, quarter, year, all) default(month)
// @Success 200 {object} dto.Response{data=domain.Analytics}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /analytics [get]
func (h *analyticsHandler) getAnalytics(c *gin.Context) {
	var params dto.AnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	analytics, err := h.analyticsService.GetAnalytics(c.Request.Context(), caller(c), params.Period)
	if err != nil {
		respondError(c, err, "Failed to compute analytics")
		return
	}
	c.JSON(http.StatusOK, dto.OK(analytics))
}
