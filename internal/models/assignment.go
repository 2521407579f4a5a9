package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatusPending is the status of a freshly stored pair
const AssignmentStatusPending = "PENDING"

// Assignment is one giver -> receiver pair produced by a match run
type Assignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RunID     primitive.ObjectID `bson:"runId" json:"runId"`
	Giver     string             `bson:"giver" json:"giver"`
	Receiver  string             `bson:"receiver" json:"receiver"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// AssignmentDetails is what a giver sees when revealing their match
type AssignmentDetails struct {
	RunID        primitive.ObjectID `json:"runId"`
	Giver        string             `json:"giver"`
	Receiver     string             `json:"receiver"`
	ReceiverName string             `json:"receiverName"`
	Bio          string             `json:"bio,omitempty"`
	Address      string             `json:"address,omitempty"`
	Wishlist     []WishlistItem     `json:"wishlist"`
}
