package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) ListModels(c *gin.Context) {
	list, err := h.store.ListModels(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list models")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list models"})
		return
	}
	c.JSON(http.StatusOK, list)
}
