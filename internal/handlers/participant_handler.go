package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/ArowuTest/secret-santa-backend/internal/middleware"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/ArowuTest/secret-santa-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds CSV uploads
const maxImportSize = 5 << 20

// ParticipantHandler handles participant-related HTTP requests
type ParticipantHandler struct {
	participantService services.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
	}
}

// GetMyProfile handles GET /me/profile
func (h *ParticipantHandler) GetMyProfile(c *gin.Context) {
	participant, err := h.participantService.GetProfile(c.Request.Context(), c.GetString(middleware.ContextIdentifier))
	if err != nil {
		respondError(c, err, "Failed to get profile")
		return
	}
	c.JSON(http.StatusOK, participant)
}

// SaveMyProfile handles PUT /me/profile
func (h *ParticipantHandler) SaveMyProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// The profile email is the address the session was verified with
	sessionEmail := c.GetString(middleware.ContextEmail)
	if req.Email != "" && utils.NormalizeEmail(req.Email) != utils.NormalizeEmail(sessionEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email must match the address you logged in with"})
		return
	}
	req.Email = sessionEmail

	participant, created, err := h.participantService.SaveProfile(c.Request.Context(), c.GetString(middleware.ContextIdentifier), &req)
	if err != nil {
		respondError(c, err, "Failed to save profile")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, participant)
}

// SaveMyWishlist handles PUT /me/wishlist
func (h *ParticipantHandler) SaveMyWishlist(c *gin.Context) {
	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, err := h.participantService.SaveWishlist(c.Request.Context(), c.GetString(middleware.ContextIdentifier), req.Items)
	if err != nil {
		respondError(c, err, "Failed to save wishlist")
		return
	}
	c.JSON(http.StatusOK, participant)
}

// ListParticipants handles GET /participants
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	participants, err := h.participantService.ListParticipants(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get participants")
		return
	}
	c.JSON(http.StatusOK, participants)
}

// AddParticipant handles POST /participants
func (h *ParticipantHandler) AddParticipant(c *gin.Context) {
	var req models.AdminParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, created, err := h.participantService.AddParticipant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to add participant")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, participant)
}

// DeleteParticipant handles DELETE /participants/:identifier
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	if err := h.participantService.DeleteParticipant(c.Request.Context(), c.Param("identifier")); err != nil {
		respondError(c, err, "Failed to delete participant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted successfully"})
}

// ImportParticipants handles POST /participants/import. The CSV is read from
// the multipart field "file" or from a text/csv body.
func (h *ParticipantHandler) ImportParticipants(c *gin.Context) {
	var r io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required in field 'file'"})
			return
		}
		if fileHeader.Size > maxImportSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "CSV file is too large"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer file.Close()
		r = file
	} else {
		r = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	}

	summary, err := h.participantService.ImportCSV(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "Failed to import participants")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GeneratePINs handles POST /participants/pins
func (h *ParticipantHandler) GeneratePINs(c *gin.Context) {
	pins, err := h.participantService.GeneratePINs(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to generate PINs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pins": pins})
}

// ClearWishlists handles DELETE /participants/wishlists
func (h *ParticipantHandler) ClearWishlists(c *gin.Context) {
	if err := h.participantService.ClearWishlists(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear wishlists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wishlists cleared"})
}

// ClearAll handles DELETE /participants
func (h *ParticipantHandler) ClearAll(c *gin.Context) {
	if err := h.participantService.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear participants")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All participants and assignments cleared"})
}

// Stats handles GET /stats
func (h *ParticipantHandler) Stats(c *gin.Context) {
	stats, err := h.participantService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
