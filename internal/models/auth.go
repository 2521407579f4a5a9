package models

import "time"

// Session roles
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

// MagicLinkRequest asks for a login link by email
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyMagicLinkRequest exchanges a magic-link token for a session
type VerifyMagicLinkRequest struct {
	Token string `json:"token" binding:"required"`
}

// PINLoginRequest logs a participant in with the PIN handed out by an admin
type PINLoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	PIN        string `json:"pin" binding:"required,len=4,numeric"`
}

// Session is returned after a successful login
type Session struct {
	Token      string    `json:"token"`
	Identifier string    `json:"identifier"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
