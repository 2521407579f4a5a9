package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, matching.ErrUnknownPolicy), errors.Is(err, matching.ErrInvalidParticipant):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoAssignment):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, matching.ErrInsufficientParticipants), errors.Is(err, matching.ErrDerangementExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged and not echoed.
func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		slog.Error(message, "error", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
