package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const pledge = "A one hour technical SEO audit of your site"

func TestParticipantService_SaveProfile(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyPriorityPass)
	svc := NewParticipantService(store.Participants, store.Assignments, store.MatchRuns, testRules())

	t.Run("creates then updates", func(t *testing.T) {
		p, created, err := svc.SaveProfile(ctx, "ana@example.com", &models.ProfileRequest{
			Name:     " Ana ",
			Tier:     "Senior",
			Pledge:   pledge,
			Wishlist: []models.WishlistItem{{Name: "book", URL: "https://example.com/book"}, {Name: " "}},
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, "Ana", p.Name)
		require.Equal(t, "ana@example.com", p.Email)
		require.Equal(t, "senior", p.Tier)
		require.Equal(t, []models.WishlistItem{{Name: "book", URL: "https://example.com/book"}}, p.Wishlist)

		p, created, err = svc.SaveProfile(ctx, "ana@example.com", &models.ProfileRequest{Name: "Ana B", Pledge: pledge})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "Ana B", p.Name)
		require.Len(t, p.Wishlist, 1, "a nil wishlist keeps the stored one")
	})

	cases := map[string]*models.ProfileRequest{
		"missing name":  {Name: "  ", Pledge: pledge},
		"short pledge":  {Name: "Bora", Pledge: "a mug"},
		"bad website":   {Name: "Bora", Pledge: pledge, WebsiteURL: "example.com"},
		"bad wishlist":  {Name: "Bora", Pledge: pledge, Wishlist: []models.WishlistItem{{Name: "x", URL: "ftp://x"}}},
		"long wishlist": {Name: "Bora", Pledge: pledge, Wishlist: []models.WishlistItem{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}},
		"bad email":     {Name: "Bora", Pledge: pledge, Email: "bora"},
		"bio too long":  {Name: "Bora", Pledge: pledge, Bio: strings.Repeat("x", 301)},
		"taken email":   {Name: "Bora", Pledge: pledge, Email: "ANA@example.com"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.SaveProfile(ctx, "bora", req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	t.Run("admin registration skips the pledge", func(t *testing.T) {
		p, created, err := svc.AddParticipant(ctx, &models.AdminParticipantRequest{
			Identifier:     "Lua",
			ProfileRequest: models.ProfileRequest{Name: "Lua", Tier: "kid"},
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Empty(t, p.Email)
	})

	t.Run("own email can be saved again", func(t *testing.T) {
		p, _, err := svc.SaveProfile(ctx, "ana@example.com", &models.ProfileRequest{Name: "Ana", Email: "ana@example.com", Pledge: pledge})
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", p.Email)
	})

	t.Run("email of another identifier is taken", func(t *testing.T) {
		_, _, err := svc.AddParticipant(ctx, &models.AdminParticipantRequest{
			Identifier:     "Lua",
			ProfileRequest: models.ProfileRequest{Name: "Lua", Email: "ana@example.com"},
		})
		require.ErrorIs(t, err, ErrValidation)

		lua, err := svc.GetProfile(ctx, "Lua")
		require.NoError(t, err)
		require.Empty(t, lua.Email)
	})

	t.Run("resubmission without email keeps the stored one", func(t *testing.T) {
		_, _, err := svc.AddParticipant(ctx, &models.AdminParticipantRequest{
			Identifier:     "Mia",
			ProfileRequest: models.ProfileRequest{Name: "Mia", Email: "mia@example.com"},
		})
		require.NoError(t, err)

		p, created, err := svc.AddParticipant(ctx, &models.AdminParticipantRequest{
			Identifier:     "Mia",
			ProfileRequest: models.ProfileRequest{Name: "Mia R", Tier: "kid"},
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "mia@example.com", p.Email)
	})

	t.Run("empty identifier", func(t *testing.T) {
		_, _, err := svc.AddParticipant(ctx, &models.AdminParticipantRequest{ProfileRequest: models.ProfileRequest{Name: "x"}})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestParticipantService_SaveWishlist(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyPriorityPass)
	svc := NewParticipantService(store.Participants, store.Assignments, store.MatchRuns, testRules())

	_, err := svc.SaveWishlist(ctx, "ghost", []models.WishlistItem{{Name: "x"}})
	require.ErrorIs(t, err, ErrNotFound)

	addPeople(t, store, "mid", "bora")
	p, err := svc.SaveWishlist(ctx, "bora", []models.WishlistItem{{Name: "socks"}, {Name: ""}, {Name: "tea", URL: "http://tea.example.com"}})
	require.NoError(t, err)
	require.Len(t, p.Wishlist, 2)

	stored, err := svc.GetProfile(ctx, "bora")
	require.NoError(t, err)
	require.True(t, stored.HasWishlist())

	require.NoError(t, svc.ClearWishlists(ctx))
	stored, err = svc.GetProfile(ctx, "bora")
	require.NoError(t, err)
	require.False(t, stored.HasWishlist())
}

func TestParticipantService_GeneratePINs(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyHardPartition)
	svc := NewParticipantService(store.Participants, store.Assignments, store.MatchRuns, testRules())
	addPeople(t, store, "kid", "Aria", "Lua")
	addPeople(t, store, "adult", "Ana")

	pins, err := svc.GeneratePINs(ctx)

	require.NoError(t, err)
	require.Len(t, pins, 3)
	seen := map[string]bool{}
	for identifier, pin := range pins {
		require.False(t, seen[pin])
		seen[pin] = true

		p, err := store.Participants.FindByIdentifier(ctx, identifier)
		require.NoError(t, err)
		require.NotEqual(t, pin, p.PINHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(pin)))
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.PINsGenerated)
}

func TestParticipantService_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyHardPartition)
	svc := NewParticipantService(store.Participants, store.Assignments, store.MatchRuns, testRules())
	addPeople(t, store, "kid", "Aria", "Lua")
	addPeople(t, store, "", "Ana", "Bora")
	_, err := svc.SaveWishlist(ctx, "Ana", []models.WishlistItem{{Name: "tea"}})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, map[string]int{"kid": 2, "unspecified": 2}, stats.ByTier)
	require.Equal(t, 1, stats.WishlistsComplete)
	require.Zero(t, stats.Assignments)
	require.Empty(t, stats.CurrentRunID)

	matcher := NewMatchService(store.Participants, store.Assignments, store.MatchRuns, store.Settings, nil, nil, nil, "")
	run, err := matcher.RunMatching(ctx, "", "admin")
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Assignments)
	require.Equal(t, run.ID.Hex(), stats.CurrentRunID)

	require.NoError(t, svc.DeleteParticipant(ctx, "Bora"))
	require.ErrorIs(t, svc.DeleteParticipant(ctx, "Bora"), ErrNotFound)

	require.NoError(t, svc.ClearAll(ctx))
	all, err := svc.ListParticipants(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	_, err = matcher.GetAssignmentForGiver(ctx, "Ana")
	require.ErrorIs(t, err, ErrNoAssignment)
}

func TestParticipantService_ImportCSV(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyHardPartition)
	svc := NewParticipantService(store.Participants, store.Assignments, store.MatchRuns, testRules())
	_, _, err := svc.SaveProfile(ctx, "ana@example.com", &models.ProfileRequest{Name: "Ana", Pledge: pledge, Tier: "adult", Wishlist: []models.WishlistItem{{Name: "tea"}}})
	require.NoError(t, err)

	csv := "identifier,name,email,tier\n" +
		"ana@example.com,Ana Imported,,\n" +
		"Lua,Lua,,kid\n" +
		"Pau,,,Kid\n" +
		",,,\n" +
		"Ivo,Ivo,ana@example.com,kid\n"

	summary, err := svc.ImportCSV(ctx, strings.NewReader(csv))

	require.NoError(t, err)
	require.Equal(t, 2, summary.Created)
	require.Equal(t, 1, summary.Updated)
	require.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Errors, 2)
	require.Contains(t, summary.Errors[1], "Row 6")
	require.Contains(t, summary.Errors[1], "already used")

	_, err = svc.GetProfile(ctx, "Ivo")
	require.ErrorIs(t, err, ErrNotFound)

	ana, err := svc.GetProfile(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "Ana Imported", ana.Name)
	require.Equal(t, "adult", ana.Tier)
	require.Equal(t, pledge, ana.Pledge)
	require.True(t, ana.HasWishlist())

	pau, err := svc.GetProfile(ctx, "Pau")
	require.NoError(t, err)
	require.Equal(t, "kid", pau.Tier)

	_, err = svc.ImportCSV(ctx, strings.NewReader(""))
	require.ErrorIs(t, err, ErrValidation)
}
