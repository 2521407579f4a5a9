package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem is one gift idea. The URL is optional.
type WishlistItem struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

// Participant represents a member of the gift exchange
type Participant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Identifier     string             `bson:"identifier" json:"identifier"` // email address or display name, unique
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Tier           string             `bson:"tier" json:"tier"` // kid/adult or junior/mid/senior
	LinkedInURL    string             `bson:"linkedinUrl,omitempty" json:"linkedinUrl,omitempty"`
	WebsiteURL     string             `bson:"websiteUrl,omitempty" json:"websiteUrl,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Pledge         string             `bson:"pledge,omitempty" json:"pledge,omitempty"`
	Wishlist       []WishlistItem     `bson:"wishlist" json:"wishlist"`
	PINHash        string             `bson:"pinHash,omitempty" json:"-"`
	PINGeneratedAt time.Time          `bson:"pinGeneratedAt,omitempty" json:"pinGeneratedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasWishlist reports whether the participant entered at least one gift idea
func (p *Participant) HasWishlist() bool {
	return len(p.Wishlist) > 0
}

// HasPIN reports whether a reveal PIN was generated for the participant
func (p *Participant) HasPIN() bool {
	return p.PINHash != ""
}

// ProfileRequest is the body of a profile create or update
type ProfileRequest struct {
	Name        string         `json:"name" binding:"required"`
	Email       string         `json:"email" binding:"omitempty,email"`
	Tier        string         `json:"tier"`
	LinkedInURL string         `json:"linkedinUrl"`
	WebsiteURL  string         `json:"websiteUrl"`
	Bio         string         `json:"bio" binding:"max=300"`
	Address     string         `json:"address"`
	Pledge      string         `json:"pledge"`
	Wishlist    []WishlistItem `json:"wishlist"`
}

// AdminParticipantRequest is used by admins to register someone directly
type AdminParticipantRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	ProfileRequest
}

// WishlistRequest replaces a participant's wishlist
type WishlistRequest struct {
	Items []WishlistItem `json:"items"`
}

// ParticipantStats summarizes the exchange for the admin dashboard
type ParticipantStats struct {
	Total             int            `json:"total"`
	ByTier            map[string]int `json:"byTier"`
	WishlistsComplete int            `json:"wishlistsComplete"`
	PINsGenerated     int            `json:"pinsGenerated"`
	Assignments       int            `json:"assignments"`
	CurrentRunID      string         `json:"currentRunId,omitempty"`
}

// ImportSummary reports the outcome of a CSV participant import
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
