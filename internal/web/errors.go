package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
)

// respondError maps err onto a status code. Store failures are reported as
// "Failed to <intent>" without their detail.
func respondError(c *gin.Context, intent string, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case apperrors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.Is(err, apperrors.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Handler failed", "intent", intent, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + intent})
	}
}

// bind decodes the JSON body into v, answering 400 on malformed input.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
