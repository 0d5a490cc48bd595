package routes

import (
	"killprocess/internal/controllers"
	"killprocess/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterMetricsRoutes(r *gin.Engine, m *services.Metrics) {
	if m == nil {
		return
	}
	r.GET("/metrics", controllers.GetMetrics(m))
}
