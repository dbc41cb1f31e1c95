package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
)

func AuthRoutes(r *gin.Engine, h *controllers.Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/token", h.IssueToken)
	}
}
