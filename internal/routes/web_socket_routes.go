package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, h *controllers.Handler) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/lots/:lot_id", h.HandleLotWebSocket)
	}
}
