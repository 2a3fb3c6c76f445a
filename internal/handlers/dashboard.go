package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/services"
)

type DashboardHandler struct {
	log              *logger.Logger
	dashboardService services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:              log.With("handler", "DashboardHandler"),
		dashboardService: dashboardService,
	}
}

func (dh *DashboardHandler) Counts(c *gin.Context) {
	counts, err := dh.dashboardService.Counts(c.Request.Context())
	if err != nil {
		dh.log.Error("Dashboard counts failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_dashboard_failed", err)
		return
	}
	RespondOK(c, gin.H{"counts": counts})
}
