package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
)

func RecommendRoutes(r *gin.Engine, h *controllers.Handler) {
	r.POST("/recommend", h.Recommend)
	r.POST("/recommend/nl", h.RecommendNL)
	r.POST("/chat", h.Chat)
}
