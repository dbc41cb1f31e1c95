package routes

import (
	"github.com/gin-gonic/gin"

	"parking_recommender/internal/controllers"
	"parking_recommender/internal/middleware"
)

func AdminRoutes(r *gin.Engine, h *controllers.Handler, auth *middleware.Auth) {
	admin := r.Group("/admin")
	admin.Use(auth.RequireAuthWithRole(middleware.RoleOperator))
	{
		admin.POST("/lots/:lot_id/load", h.LoadLot)
	}
}
