package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/models"
	"parking_recommender/internal/repository"
)

// stubDetection is what the placeholder detector reports for every frame.
var stubDetection = models.Detection{X1: 100, Y1: 200, X2: 300, Y2: 400, Conf: 0.95, Cls: "car"}

type detectInput struct {
	RunID *string `json:"run_id"`
	TsMs  int64   `json:"ts_ms"`
}

// DetectVehicle returns the stub detection. With a run_id the detection is
// also stored against that run.
func (h *Handler) DetectVehicle(c *gin.Context) {
	var input detectInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	det := stubDetection
	det.TsMs = input.TsMs
	if input.RunID != nil {
		ctx := c.Request.Context()
		ok, err := h.store.RunExists(ctx, *input.RunID)
		if err != nil {
			logrus.WithError(err).Error("Failed to look up run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up run"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		det.RunID = input.RunID
		if err := h.store.CreateDetections(ctx, []models.Detection{det}); err != nil {
			logrus.WithError(err).WithField("run_id", *input.RunID).Error("Failed to store detections")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store detections"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"detections": []models.Detection{det}})
}

type runInput struct {
	LotID     string `json:"lot_id"`
	VideoPath string `json:"video_path"`
}

func (h *Handler) StartRun(c *gin.Context) {
	var input runInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.LotID == "" {
		input.LotID = models.DefaultLotID
	}

	run := &models.Run{
		RunID:     uuid.NewString(),
		LotID:     input.LotID,
		VideoPath: input.VideoPath,
		StartedAt: time.Now().UTC(),
	}
	if err := h.store.CreateRun(c.Request.Context(), run); err != nil {
		logrus.WithError(err).Error("Failed to create run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create run"})
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (h *Handler) EndRun(c *gin.Context) {
	runID := c.Param("run_id")
	run, err := h.store.EndRun(c.Request.Context(), runID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		case errors.Is(err, repository.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "run already ended"})
		default:
			logrus.WithError(err).WithField("run_id", runID).Error("Failed to end run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not end run"})
		}
		return
	}
	c.JSON(http.StatusOK, run)
}
