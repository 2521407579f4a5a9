package handlers

import (
	"net/http"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RequestMagicLink handles POST /auth/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req models.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to send magic link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Magic link sent"})
}

// VerifyMagicLink handles POST /auth/verify
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req models.VerifyMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authService.VerifyMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err, "Failed to verify magic link")
		return
	}
	c.JSON(http.StatusOK, session)
}

// PINLogin handles POST /auth/pin-login
func (h *AuthHandler) PINLogin(c *gin.Context) {
	var req models.PINLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authService.LoginWithPIN(c.Request.Context(), req.Identifier, req.PIN)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, session)
}
