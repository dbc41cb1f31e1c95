package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
)

func DetectionRoutes(r *gin.Engine, h *controllers.Handler) {
	r.POST("/detect/vehicle", h.DetectVehicle)
	r.GET("/models", h.ListModels)

	runs := r.Group("/runs")
	{
		runs.POST("", h.StartRun)
		runs.POST("/:run_id/end", h.EndRun)
	}
}
