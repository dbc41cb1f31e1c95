package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
)

func LotRoutes(r *gin.Engine, h *controllers.Handler) {
	lots := r.Group("/lots/:lot_id")
	{
		lots.GET("/spots", h.ListSpots)
		lots.GET("/spots/:id", h.GetSpot)
		lots.POST("/events", h.RecordEvent)
	}
}
