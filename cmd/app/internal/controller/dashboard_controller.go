package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/service"
	"study-buddy/utilities"
)

type DashboardController struct {
	DashboardService service.DashboardService
	log              *slog.Logger
}

func NewDashboardController(dashboardService service.DashboardService, log *slog.Logger) *DashboardController {
	return &DashboardController{DashboardService: dashboardService, log: log}
}

// GetDashboard handles GET / and GET /dashboard
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	dash, err := dc.DashboardService.GetDashboard(uid)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Health handles GET /health
func Health(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
