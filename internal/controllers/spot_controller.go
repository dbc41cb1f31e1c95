package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/recommend"
	"parking_recommender/internal/repository"
)

// lotSpots serves the listing from cache when possible.
func (h *Handler) lotSpots(ctx context.Context, lotID string) ([]recommend.Spot, error) {
	if spots, ok := h.cache.Get(ctx, lotID); ok {
		return spots, nil
	}
	spots, err := h.store.LotSpots(ctx, lotID)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, lotID, spots)
	return spots, nil
}

// ListSpots returns every stall of a lot with features, neighbors and occupancy.
func (h *Handler) ListSpots(c *gin.Context) {
	lotID := c.Param("lot_id")
	spots, err := h.lotSpots(c.Request.Context(), lotID)
	if err != nil {
		logrus.WithError(err).WithField("lot_id", lotID).Error("Failed to list spots")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list spots"})
		return
	}
	c.JSON(http.StatusOK, spots)
}

func (h *Handler) GetSpot(c *gin.Context) {
	lotID, id := c.Param("lot_id"), c.Param("id")
	spot, err := h.store.Spot(c.Request.Context(), lotID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{"lot_id": lotID, "stall_id": id}).Error("Failed to fetch spot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch spot"})
		return
	}
	c.JSON(http.StatusOK, spot)
}
