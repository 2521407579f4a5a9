package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeMagicLink  = "MAGIC_LINK"
	NotificationTypeAssignment = "ASSIGNMENT"
)

// Notification statuses
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Notification represents an email sent to a participant
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Recipient    string             `bson:"recipient" json:"recipient"`
	Subject      string             `bson:"subject" json:"subject"`
	Content      string             `bson:"content" json:"-"`
	Type         string             `bson:"type" json:"type"`     // MAGIC_LINK, ASSIGNMENT
	Status       string             `bson:"status" json:"status"` // PENDING, SENT, FAILED
	SentDate     time.Time          `bson:"sentDate,omitempty" json:"sentDate,omitempty"`
	Gateway      string             `bson:"gateway" json:"gateway"` // RESEND, MOCK
	MessageID    string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	ErrorMessage string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
