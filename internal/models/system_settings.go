package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemSettings represents exchange-wide settings editable by admins
type SystemSettings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MatchingPolicy string             `bson:"matchingPolicy" json:"matchingPolicy"` // hard_partition, priority_pass
	EmailGateway   string             `bson:"emailGateway" json:"emailGateway"`     // RESEND, MOCK
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy      string             `bson:"updatedBy" json:"updatedBy"`
}

// UpdateSettingsRequest is the body of PUT /settings. Empty fields are left unchanged.
type UpdateSettingsRequest struct {
	MatchingPolicy string `json:"matchingPolicy"`
	EmailGateway   string `json:"emailGateway"`
}
