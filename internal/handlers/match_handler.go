package handlers

import (
	"net/http"

	"github.com/ArowuTest/secret-santa-backend/internal/middleware"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchHandler handles match run HTTP requests
type MatchHandler struct {
	matchService services.MatchService
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// RunMatching handles POST /matching/runs
func (h *MatchHandler) RunMatching(c *gin.Context) {
	var req models.RunMatchingRequest
	// An empty body runs with the configured policy
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	run, err := h.matchService.RunMatching(c.Request.Context(), req.Policy, c.GetString(middleware.ContextIdentifier))
	if err != nil {
		if run != nil {
			// The failed run carries the execution log
			_ = c.Error(err)
			c.JSON(statusFor(err), gin.H{"error": err.Error(), "run": run})
			return
		}
		respondError(c, err, "Failed to run matching")
		return
	}
	c.JSON(http.StatusCreated, run)
}

// ListRuns handles GET /matching/runs
func (h *MatchHandler) ListRuns(c *gin.Context) {
	runs, err := h.matchService.ListRuns(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list match runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun handles GET /matching/runs/:id
func (h *MatchHandler) GetRun(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	run, err := h.matchService.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve match run")
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunPairs handles GET /matching/runs/:id/pairs
func (h *MatchHandler) GetRunPairs(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	pairs, err := h.matchService.GetRunPairs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve pairs")
		return
	}
	c.JSON(http.StatusOK, pairs)
}

// NotifyAssignments handles POST /matching/notify
func (h *MatchHandler) NotifyAssignments(c *gin.Context) {
	sent, failed, err := h.matchService.NotifyAssignments(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to notify givers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failed})
}

// GetMyAssignment handles GET /me/assignment
func (h *MatchHandler) GetMyAssignment(c *gin.Context) {
	details, err := h.matchService.GetAssignmentForGiver(c.Request.Context(), c.GetString(middleware.ContextIdentifier))
	if err != nil {
		respondError(c, err, "Failed to retrieve assignment")
		return
	}
	c.JSON(http.StatusOK, details)
}
