package matching

import "fmt"

// Verify checks that pairs is a complete, fixed-point-free bijection over
// participants. Under PolicyHardPartition it also checks that nobody gives
// across the kids/adults boundary.
func Verify(participants []Participant, policy Policy, pairs Assignment) error {
	tiers := make(map[string]string, len(participants))
	for _, p := range participants {
		tiers[p.ID] = p.Tier
	}
	if len(pairs) != len(tiers) {
		return fmt.Errorf("%w: %d pairs for %d participants", ErrInvalidAssignment, len(pairs), len(tiers))
	}

	received := make(map[string]string, len(pairs))
	for giver, receiver := range pairs {
		giverTier, ok := tiers[giver]
		if !ok {
			return fmt.Errorf("%w: unknown giver %q", ErrInvalidAssignment, giver)
		}
		receiverTier, ok := tiers[receiver]
		if !ok {
			return fmt.Errorf("%w: unknown receiver %q", ErrInvalidAssignment, receiver)
		}
		if giver == receiver {
			return fmt.Errorf("%w: %q gives to themselves", ErrInvalidAssignment, giver)
		}
		if other, dup := received[receiver]; dup {
			return fmt.Errorf("%w: %q receives from both %q and %q", ErrInvalidAssignment, receiver, other, giver)
		}
		received[receiver] = giver
		if policy == PolicyHardPartition && IsKid(giverTier) != IsKid(receiverTier) {
			return fmt.Errorf("%w: %q and %q are in different groups", ErrInvalidAssignment, giver, receiver)
		}
	}

	return nil
}
