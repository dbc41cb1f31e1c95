package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/controllers"
	"parking_recommender/internal/metrics"
	"parking_recommender/internal/middleware"
)

// SetupRouter builds the engine; the caller decides how to serve it.
func SetupRouter(h *controllers.Handler, auth *middleware.Auth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(
		ginlog.WithUTC(true),
		ginlog.WithWriter(logrus.StandardLogger().Out),
		ginlog.WithSkipPath([]string{"/healthz", "/metrics"}),
	))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.GET("/healthz", h.Health)
	r.GET("/metrics", metrics.Handler())

	LotRoutes(r, h)
	RecommendRoutes(r, h)
	DetectionRoutes(r, h)
	AuthRoutes(r, h)
	AdminRoutes(r, h, auth)
	WebSocketRoutes(r, h)

	return r
}
