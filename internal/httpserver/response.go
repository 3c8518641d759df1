package httpserver

import (
	"errors"
	"log"
	"net/http"

	"auraz-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": true, "message": msg})
}

// respondServiceError maps repository and service sentinels onto the envelope.
// entity names the resource in not-found and conflict messages.
func respondServiceError(c *gin.Context, logger *log.Logger, entity string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusBadRequest, entity+" already exists")
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Printf("http: %s %s request_id=%s error=%v", c.Request.Method, c.FullPath(), requestIDFrom(c), err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
