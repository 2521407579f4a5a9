// Package matching computes Secret Santa assignments.
//
// An assignment is a derangement relative to group structure: every
// participant gives exactly once, receives exactly once, and never draws
// themselves. Two partition policies are supported:
//
//   - PolicyHardPartition: kids and adults are deranged independently.
//   - PolicyPriorityPass: seniors are paired with juniors first, then the
//     remaining givers and receivers are deranged as one pool.
//
// The search is bounded rejection sampling. An Engine keeps no state between
// calls; each Compute seeds its own random source.
package matching

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

const (
	// DefaultPartitionAttempts bounds the derangement of each hard partition group.
	DefaultPartitionAttempts = 1000

	// DefaultRemainderAttempts bounds the derangement of the pool left after the
	// priority pass.
	DefaultRemainderAttempts = 100
)

// SeedSource yields the seed for one Compute call.
type SeedSource func() (int64, error)

// CryptoSeed reads a seed from crypto/rand.
func CryptoSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Result is a successful assignment together with how it was found.
type Result struct {
	Policy Policy
	Pairs  Assignment
	// Attempts is the total number of shuffles tried across all derangements.
	Attempts int
	// PriorityPairs counts senior to junior pairs made by the priority pass.
	PriorityPairs int
}

// Engine computes assignments.
type Engine struct {
	seed              SeedSource
	partitionAttempts int
	remainderAttempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeedSource replaces the default crypto/rand seed source. Tests use it to
// make runs reproducible.
func WithSeedSource(src SeedSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.seed = src
		}
	}
}

// WithPartitionAttempts overrides DefaultPartitionAttempts. Values below 1 are ignored.
func WithPartitionAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.partitionAttempts = n
		}
	}
}

// WithRemainderAttempts overrides DefaultRemainderAttempts. Values below 1 are ignored.
func WithRemainderAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.remainderAttempts = n
		}
	}
}

// NewEngine creates an Engine with the default retry bounds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		seed:              CryptoSeed,
		partitionAttempts: DefaultPartitionAttempts,
		remainderAttempts: DefaultRemainderAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeAssignment runs a default Engine and returns only the mapping.
func ComputeAssignment(participants []Participant, policy Policy) (Assignment, error) {
	res, err := NewEngine().Compute(participants, policy)
	if err != nil {
		return nil, err
	}
	return res.Pairs, nil
}

// Compute builds one assignment for participants under policy.
//
// On success every participant appears exactly once as a giver and once as a
// receiver and nobody gives to themselves. On failure no mapping is returned;
// the error wraps ErrInsufficientParticipants, ErrDerangementExhausted,
// ErrInvalidParticipant or ErrUnknownPolicy.
func (e *Engine) Compute(participants []Participant, policy Policy) (*Result, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientParticipants, len(participants))
	}

	seed, err := e.seed()
	if err != nil {
		return nil, fmt.Errorf("seed random source: %w", err)
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- fairness, not secrecy

	if policy == PolicyHardPartition {
		return e.hardPartition(rng, participants)
	}
	return e.priorityPass(rng, participants)
}

func validateParticipants(participants []Participant) error {
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d has an empty identifier", ErrInvalidParticipant, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate identifier %q", ErrInvalidParticipant, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

type group struct {
	name    string
	members []string
}

func (e *Engine) hardPartition(rng *rand.Rand, participants []Participant) (*Result, error) {
	kids := group{name: "kids"}
	adults := group{name: "adults"}
	for _, p := range participants {
		if IsKid(p.Tier) {
			kids.members = append(kids.members, p.ID)
		} else {
			adults.members = append(adults.members, p.ID)
		}
	}

	groups := []group{kids, adults}
	for _, g := range groups {
		if len(g.members) == 1 {
			return nil, fmt.Errorf("%w: the %s group has a single member", ErrInsufficientParticipants, g.name)
		}
	}

	res := &Result{Policy: PolicyHardPartition, Pairs: make(Assignment, len(participants))}
	for _, g := range groups {
		if len(g.members) == 0 {
			continue
		}
		pairs, attempts, err := derange(rng, g.members, g.members, e.partitionAttempts)
		res.Attempts += attempts
		if err != nil {
			return nil, fmt.Errorf("%s group: %w", g.name, err)
		}
		for giver, receiver := range pairs {
			res.Pairs[giver] = receiver
		}
	}

	return res, nil
}

func (e *Engine) priorityPass(rng *rand.Rand, participants []Participant) (*Result, error) {
	var seniors, juniors []string
	for _, p := range participants {
		switch ExpertiseTier(p.Tier) {
		case TierSenior:
			seniors = append(seniors, p.ID)
		case TierJunior:
			juniors = append(juniors, p.ID)
		}
	}
	rng.Shuffle(len(seniors), func(i, j int) { seniors[i], seniors[j] = seniors[j], seniors[i] })
	rng.Shuffle(len(juniors), func(i, j int) { juniors[i], juniors[j] = juniors[j], juniors[i] })

	res := &Result{Policy: PolicyPriorityPass, Pairs: make(Assignment, len(participants))}
	gave := make(map[string]bool, len(participants))
	received := make(map[string]bool, len(participants))

	res.PriorityPairs = min(len(seniors), len(juniors))
	for i := 0; i < res.PriorityPairs; i++ {
		res.Pairs[seniors[i]] = juniors[i]
		gave[seniors[i]] = true
		received[juniors[i]] = true
	}

	var givers, receivers []string
	for _, p := range participants {
		if !gave[p.ID] {
			givers = append(givers, p.ID)
		}
		if !received[p.ID] {
			receivers = append(receivers, p.ID)
		}
	}

	rest, attempts, err := derange(rng, givers, receivers, e.remainderAttempts)
	res.Attempts = attempts
	if err != nil {
		return nil, fmt.Errorf("remainder pass: %w", err)
	}
	for giver, receiver := range rest {
		res.Pairs[giver] = receiver
	}

	return res, nil
}
