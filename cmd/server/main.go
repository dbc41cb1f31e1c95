package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/cache"
	"parking_recommender/internal/config"
	"parking_recommender/internal/controllers"
	"parking_recommender/internal/loader"
	"parking_recommender/internal/logger"
	"parking_recommender/internal/middleware"
	"parking_recommender/internal/repository"
	"parking_recommender/internal/routes"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	gin.SetMode(gin.ReleaseMode)

	// Connect to the database
	db, err := config.OpenDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Database migration failed")
	}
	logrus.Info("Database connected and migrated")

	scope, err := loader.ParseScope(cfg.AdjacencyScope)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid ADJACENCY_SCOPE")
	}

	rc := config.OpenRedis(cfg)
	spotCache := cache.NewSpotCache(rc, cfg.CacheTTL)
	repo := repository.New(db)
	hub := controllers.NewLotHub()
	defer hub.Close()
	auth := middleware.NewAuth(cfg.JWTSecret)

	h := controllers.NewHandler(controllers.Options{
		Store:        repo,
		Cache:        spotCache,
		Hub:          hub,
		Loader:       loader.New(repo, loader.WithScope(scope), loader.WithInvalidator(spotCache)),
		Auth:         auth,
		OperatorUser: cfg.OperatorUser,
		OperatorHash: cfg.OperatorPasswordHash,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.SetupRouter(h, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server running at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	if rc != nil {
		_ = rc.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
