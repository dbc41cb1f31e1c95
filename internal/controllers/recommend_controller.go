package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/models"
	"parking_recommender/internal/nlp"
	"parking_recommender/internal/recommend"
	"parking_recommender/internal/repository"
)

type carInput struct {
	Make  string `json:"make" binding:"required"`
	Model string `json:"model" binding:"required"`
	Year  int    `json:"year" binding:"required"`
}

type recommendInput struct {
	LotID   string      `json:"lot_id"`
	Text    string      `json:"text"`
	Filters nlp.Filters `json:"filters"`
	Car     *carInput   `json:"car"`
	Limit   int         `json:"limit"`
}

type textInput struct {
	Text  string `json:"text" binding:"required"`
	LotID string `json:"lot_id"`
}

// Recommend ranks free stalls of a lot. Filters parsed from text are merged
// over the structured ones; a known car fills in the size class.
func (h *Handler) Recommend(c *gin.Context) {
	var input recommendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.LotID == "" {
		input.LotID = models.DefaultLotID
	}
	filters := input.Filters
	if input.Text != "" {
		filters = filters.Merge(nlp.ParseRequest(input.Text))
	}

	ctx := c.Request.Context()
	if input.Car != nil && filters.Size == "" {
		spec, err := h.store.CarSpec(ctx, input.Car.Make, input.Car.Model, input.Car.Year)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown car make/model/year"})
			return
		case err != nil:
			logrus.WithError(err).Error("Failed to look up car spec")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up car"})
			return
		}
		filters.Size = spec.SizeClass
	}

	spots, err := h.lotSpots(ctx, input.LotID)
	if err != nil {
		logrus.WithError(err).WithField("lot_id", input.LotID).Error("Failed to load spots for recommendation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load spots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lot_id":    input.LotID,
		"filters":   filters,
		"top_spots": recommend.Rank(spots, filters, input.Limit),
	})
}

// RecommendNL only parses; it does not touch storage.
func (h *Handler) RecommendNL(c *gin.Context) {
	var input textInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parsed": nlp.ParseRequest(input.Text)})
}

// Chat answers with a one-line summary of the best match.
func (h *Handler) Chat(c *gin.Context) {
	var input textInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.LotID == "" {
		input.LotID = models.DefaultLotID
	}
	filters := nlp.ParseRequest(input.Text)

	spots, err := h.lotSpots(c.Request.Context(), input.LotID)
	if err != nil {
		logrus.WithError(err).WithField("lot_id", input.LotID).Error("Failed to load spots for chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load spots"})
		return
	}
	recs := recommend.Rank(spots, filters, 1)
	c.JSON(http.StatusOK, gin.H{
		"query":  input.Text,
		"parsed": filters,
		"reply":  chatReply(recs),
	})
}

func chatReply(recs []recommend.Recommendation) string {
	if len(recs) == 0 {
		return "Sorry, no free spot matches that request right now."
	}
	return fmt.Sprintf("Best match is %s (%s).", recs[0].ID, recs[0].Reason)
}
