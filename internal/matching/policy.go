package matching

import (
	"fmt"
	"strings"
)

// Policy selects how participants are partitioned before pairing.
type Policy string

const (
	// PolicyHardPartition splits kids and adults into two groups and deranges
	// each group on its own. Nobody gives across groups.
	PolicyHardPartition Policy = "hard_partition"

	// PolicyPriorityPass pairs seniors with juniors first, then deranges
	// everyone left over as a single pool.
	PolicyPriorityPass Policy = "priority_pass"
)

// Valid reports whether p is a policy the engine supports.
func (p Policy) Valid() bool {
	return p == PolicyHardPartition || p == PolicyPriorityPass
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return p, nil
}

// Tier is an expertise level folded from a participant's tier label.
type Tier string

const (
	TierJunior Tier = "junior"
	TierMid    Tier = "mid"
	TierSenior Tier = "senior"
)

// Participant is the engine's view of one person: a unique identifier and an
// optional tier label.
type Participant struct {
	ID   string
	Tier string
}

// Assignment maps a giver identifier to the receiver identifier they buy for.
type Assignment map[string]string

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// IsKid reports whether a tier label puts a participant in the kids group of a
// hard partition. Every other label, including an empty one, means adult.
func IsKid(label string) bool {
	switch normalizeLabel(label) {
	case "kid", "kids", "child":
		return true
	default:
		return false
	}
}

// ExpertiseTier folds a label into junior, mid or senior. Unrecognized or
// missing labels count as mid.
func ExpertiseTier(label string) Tier {
	switch normalizeLabel(label) {
	case "junior":
		return TierJunior
	case "senior":
		return TierSenior
	default:
		return TierMid
	}
}
