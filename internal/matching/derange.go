package matching

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

var errPoolMismatch = errors.New("giver and receiver pools differ in size")

// derange pairs givers[i] with a shuffled copy of receivers by position and
// accepts the first shuffle in which nobody is paired with themselves. It
// returns the accepted pairing and the number of shuffles it took.
//
// A lone person who would have to give to themselves is rejected up front:
// no shuffle can fix that.
func derange(rng *rand.Rand, givers, receivers []string, maxAttempts int) (Assignment, int, error) {
	if len(givers) != len(receivers) {
		return nil, 0, fmt.Errorf("%w: %d givers, %d receivers", errPoolMismatch, len(givers), len(receivers))
	}
	if len(givers) == 0 {
		return Assignment{}, 0, nil
	}
	if len(givers) == 1 && givers[0] == receivers[0] {
		return nil, 0, fmt.Errorf("%w: %q cannot be paired with anyone else", ErrInsufficientParticipants, givers[0])
	}

	shuffled := slices.Clone(receivers)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if !hasFixedPoint(givers, shuffled) {
			pairs := make(Assignment, len(givers))
			for i, g := range givers {
				pairs[g] = shuffled[i]
			}
			return pairs, attempt, nil
		}
	}

	return nil, maxAttempts, fmt.Errorf("%w after %d attempts", ErrDerangementExhausted, maxAttempts)
}

func hasFixedPoint(givers, receivers []string) bool {
	for i := range givers {
		if givers[i] == receivers[i] {
			return true
		}
	}
	return false
}
