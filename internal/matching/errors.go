package matching

import "errors"

// Sentinel errors returned by the assignment engine.
var (
	// ErrInsufficientParticipants is returned when fewer than two people take part,
	// or when a hard partition holds exactly one member.
	ErrInsufficientParticipants = errors.New("insufficient participants")

	// ErrDerangementExhausted is returned when the randomized search ran out of
	// attempts without finding a fixed-point-free pairing.
	ErrDerangementExhausted = errors.New("derangement search exhausted")

	// ErrInvalidParticipant is returned for an empty or duplicated identifier.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrUnknownPolicy is returned for a partition policy the engine does not support.
	ErrUnknownPolicy = errors.New("unknown partition policy")

	// ErrInvalidAssignment is returned by Verify when a mapping breaks an invariant.
	ErrInvalidAssignment = errors.New("invalid assignment")
)
