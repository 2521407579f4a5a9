package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchRunStatus represents the status of a matching run
type MatchRunStatus string

const (
	MatchRunStatusExecuting MatchRunStatus = "EXECUTING"
	MatchRunStatusCompleted MatchRunStatus = "COMPLETED"
	MatchRunStatusFailed    MatchRunStatus = "FAILED"
)

// MatchRun records one execution of the assignment engine
type MatchRun struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Policy             string             `bson:"policy" json:"policy"`
	Status             MatchRunStatus     `bson:"status" json:"status"`
	TriggeredBy        string             `bson:"triggeredBy" json:"triggeredBy"`
	TotalParticipants  int                `bson:"totalParticipants" json:"totalParticipants"`
	PairCount          int                `bson:"pairCount" json:"pairCount"`
	PriorityPairs      int                `bson:"priorityPairs" json:"priorityPairs"` // senior -> junior pairs
	Attempts           int                `bson:"attempts" json:"attempts"`
	ExecutionStartTime time.Time          `bson:"executionStartTime,omitempty" json:"executionStartTime,omitempty"`
	ExecutionEndTime   time.Time          `bson:"executionEndTime,omitempty" json:"executionEndTime,omitempty"`
	ExecutionLog       []string           `bson:"executionLog,omitempty" json:"executionLog,omitempty"`
	ErrorMessage       string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RunMatchingRequest triggers a new run. An empty policy uses the system setting.
type RunMatchingRequest struct {
	Policy string `json:"policy"`
}
