package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories/memory"
	"github.com/ArowuTest/secret-santa-backend/pkg/mailgateway"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubGateway struct {
	name string
	err  error

	mu   sync.Mutex
	sent []mailgateway.Message
}

func (g *stubGateway) Name() string { return g.name }

func (g *stubGateway) SendEmail(ctx context.Context, msg mailgateway.Message) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msg)
	return g.name + "-id", nil
}

func (g *stubGateway) messages() []mailgateway.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]mailgateway.Message(nil), g.sent...)
}

func newStore(policy matching.Policy) *memory.Store {
	return memory.NewStore(models.SystemSettings{MatchingPolicy: string(policy), EmailGateway: mailgateway.GatewayMock})
}

func seedEngine(seed int64) *matching.Engine {
	return matching.NewEngine(matching.WithSeedSource(func() (int64, error) { return seed, nil }))
}

func testRules() ParticipantRules {
	return ParticipantRules{PledgeMinLength: 20, WishlistMaxItems: 3, PINCost: bcrypt.MinCost}
}

func addPeople(t *testing.T, store *memory.Store, tier string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := store.Participants.Upsert(context.Background(), &models.Participant{Identifier: id, Name: id, Tier: tier})
		require.NoError(t, err)
	}
}

// flakyParticipants fails identifier lookups for the listed participants
type flakyParticipants struct {
	*memory.ParticipantRepository
	broken map[string]bool
}

func (r *flakyParticipants) FindByIdentifier(ctx context.Context, identifier string) (*models.Participant, error) {
	if r.broken[identifier] {
		return nil, errors.New("connection reset")
	}
	return r.ParticipantRepository.FindByIdentifier(ctx, identifier)
}

// ctxBoundRuns refuses updates once the caller's context is done
type ctxBoundRuns struct {
	*memory.MatchRunRepository
}

func (r *ctxBoundRuns) Update(ctx context.Context, run *models.MatchRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.MatchRunRepository.Update(ctx, run)
}
