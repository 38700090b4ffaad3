package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

// pathID parses an int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeServiceError maps service and store sentinels onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body; the detail goes to
// the log, not the client.
func writeServiceError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDisabled):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "truth checking disabled"})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoEligibleMessages):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no eligible messages"})
	case errors.Is(err, service.ErrAnalysisInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "analysis already in flight"})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}
