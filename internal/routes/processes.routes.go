package routes

import (
	"killprocess/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterProcessRoutes(r *gin.Engine, pc *controllers.ProcessController) {
	processes := r.Group("/processes")
	{
		processes.GET("/", pc.Search)
		processes.GET("/status", pc.GetProcessStatus)
	}
}
