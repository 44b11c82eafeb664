package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Dhrutik-Patel/CodeChat/internal/configuration"
	"github.com/Dhrutik-Patel/CodeChat/internal/handler"
	"github.com/Dhrutik-Patel/CodeChat/internal/hub"
)

// MonitorRouters sets up monitoring API routes
func MonitorRouters(router *gin.Engine, container *configuration.Container) {
	monitorService := hub.NewMonitorService(container.Hub)
	monitorHandler := handler.NewMonitorHandler(monitorService)

	monitorGroup := router.Group("/api/monitor")
	{
		// GET /api/monitor/stats - Get hub statistics
		monitorGroup.GET("/stats", monitorHandler.GetHubStats)
	}
}
