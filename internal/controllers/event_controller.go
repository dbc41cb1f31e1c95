package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/metrics"
	"parking_recommender/internal/models"
	"parking_recommender/internal/repository"
)

type eventInput struct {
	StallID   string  `json:"stall_id" binding:"required"`
	EventType string  `json:"event_type" binding:"required,oneof=occupy vacate"`
	RunID     *string `json:"run_id"`
	TsMs      *int64  `json:"ts_ms"`
}

// RecordEvent stores an occupancy change, drops the lot's cached listing and
// notifies WebSocket subscribers.
func (h *Handler) RecordEvent(c *gin.Context) {
	lotID := c.Param("lot_id")
	var input eventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (input.RunID == nil) != (input.TsMs == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id and ts_ms must be given together"})
		return
	}

	ev := &models.Event{StallID: input.StallID, EventType: input.EventType}
	var status *models.SpotStatus
	if input.RunID != nil {
		state := models.SpotFree
		if input.EventType == models.EventOccupy {
			state = models.SpotTaken
		}
		status = &models.SpotStatus{RunID: *input.RunID, TsMs: *input.TsMs, SpotID: input.StallID, State: state}
	}

	ctx := c.Request.Context()
	if err := h.store.RecordEvent(ctx, lotID, ev, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "spot status already recorded for this run and timestamp"})
		default:
			logrus.WithError(err).WithFields(logrus.Fields{"lot_id": lotID, "stall_id": input.StallID}).Error("Failed to record event")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record event"})
		}
		return
	}

	metrics.EventsTotal.WithLabelValues(ev.EventType).Inc()
	if err := h.cache.InvalidateLot(ctx, lotID); err != nil {
		logrus.WithError(err).WithField("lot_id", lotID).Warn("Spot cache invalidation failed")
	}
	h.hub.Publish(OccupancyMessage{
		LotID:     lotID,
		StallID:   ev.StallID,
		EventType: ev.EventType,
		Occupied:  ev.EventType == models.EventOccupy,
		Ts:        ev.Ts,
	})
	c.JSON(http.StatusCreated, ev)
}
