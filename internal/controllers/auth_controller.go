package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"parking_recommender/internal/middleware"
)

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueToken exchanges the operator's credentials for a JWT.
func (h *Handler) IssueToken(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.operatorHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator login is not configured"})
		return
	}

	if body.Username != h.operatorUser || !checkPasswordHash(body.Password, h.operatorHash) {
		logrus.WithField("username", body.Username).Warn("Rejected operator login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.auth.GenerateToken(body.Username, middleware.RoleOperator)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": middleware.RoleOperator})
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
