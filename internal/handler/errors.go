package handler

import (
	"context"
	"errors"
	"net/http"

	"voice-todo/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Upstream failures
// keep the vendor status in the body so clients can tell 401 from 429.
func respondError(c *gin.Context, err error) {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, service.ErrNoAudio):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSpeechKeyMissing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Error(), "upstream_status": apiErr.Status})
	case errors.Is(err, service.ErrInvalidReply):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
