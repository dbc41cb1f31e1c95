package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/geometry"
	"parking_recommender/internal/repository"
)

const maxSurveyBytes = 32 << 20

// LoadLot replaces a lot's stalls with the GeoJSON survey in the body.
func (h *Handler) LoadLot(c *gin.Context) {
	lotID := c.Param("lot_id")
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxSurveyBytes)

	res, err := h.loader.Load(c.Request.Context(), body, lotID)
	if err != nil {
		var missing *geometry.MissingEntranceError
		var invalid *geometry.InvalidGeometryError
		switch {
		case errors.Is(err, geometry.ErrMalformedDocument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &missing), errors.As(err, &invalid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).WithField("lot_id", lotID).Error("Lot load failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lot load failed"})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}
