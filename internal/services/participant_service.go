package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"github.com/ArowuTest/secret-santa-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const maxBioLength = 300

// ParticipantRules are the exchange rules enforced on profiles
type ParticipantRules struct {
	PledgeMinLength  int
	WishlistMaxItems int
	// PINCost is the bcrypt cost for PIN hashes; zero means bcrypt.DefaultCost
	PINCost int
}

// Compile-time check to ensure ParticipantServiceImpl implements ParticipantService
var _ ParticipantService = (*ParticipantServiceImpl)(nil)

// ParticipantServiceImpl handles participant-related business logic
type ParticipantServiceImpl struct {
	participantRepo repositories.ParticipantRepository
	assignmentRepo  repositories.AssignmentRepository
	runRepo         repositories.MatchRunRepository
	rules           ParticipantRules
}

// NewParticipantService creates a new ParticipantServiceImpl
func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	assignmentRepo repositories.AssignmentRepository,
	runRepo repositories.MatchRunRepository,
	rules ParticipantRules,
) *ParticipantServiceImpl {
	if rules.WishlistMaxItems < 1 {
		rules.WishlistMaxItems = 3
	}
	if rules.PINCost == 0 {
		rules.PINCost = bcrypt.DefaultCost
	}
	return &ParticipantServiceImpl{
		participantRepo: participantRepo,
		assignmentRepo:  assignmentRepo,
		runRepo:         runRepo,
		rules:           rules,
	}
}

// SaveProfile creates or updates the caller's own profile. The pledge rule applies.
func (s *ParticipantServiceImpl) SaveProfile(ctx context.Context, identifier string, req *models.ProfileRequest) (*models.Participant, bool, error) {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Pledge)); n < s.rules.PledgeMinLength {
		return nil, false, validationError("pledge must be at least %d characters, got %d", s.rules.PledgeMinLength, n)
	}
	return s.save(ctx, identifier, req)
}

// AddParticipant registers someone on their behalf, e.g. a kid without an email address
func (s *ParticipantServiceImpl) AddParticipant(ctx context.Context, req *models.AdminParticipantRequest) (*models.Participant, bool, error) {
	return s.save(ctx, req.Identifier, &req.ProfileRequest)
}

func (s *ParticipantServiceImpl) save(ctx context.Context, identifier string, req *models.ProfileRequest) (*models.Participant, bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, false, validationError("identifier is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, validationError("name is required")
	}
	if utf8.RuneCountInString(req.Bio) > maxBioLength {
		return nil, false, validationError("bio must be at most %d characters", maxBioLength)
	}
	for field, value := range map[string]string{"linkedinUrl": req.LinkedInURL, "websiteUrl": req.WebsiteURL} {
		if value != "" && !utils.IsHTTPURL(value) {
			return nil, false, validationError("%s must be an http(s) URL", field)
		}
	}

	email := ""
	if req.Email != "" {
		if email = utils.NormalizeEmail(req.Email); email == "" {
			return nil, false, validationError("invalid email %q", req.Email)
		}
	}

	participant := &models.Participant{Wishlist: []models.WishlistItem{}}
	existing, err := s.participantRepo.FindByIdentifier(ctx, identifier)
	switch {
	case err == nil:
		participant = existing
		if email == "" {
			email = existing.Email
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, fmt.Errorf("failed to load participant: %w", err)
	}
	if email == "" {
		email = utils.NormalizeEmail(identifier)
	}
	if err := s.checkEmailFree(ctx, identifier, email); err != nil {
		return nil, false, err
	}

	if req.Wishlist != nil {
		wishlist, err := s.cleanWishlist(req.Wishlist)
		if err != nil {
			return nil, false, err
		}
		participant.Wishlist = wishlist
	}
	participant.Identifier = identifier
	participant.Name = name
	participant.Email = email
	participant.Tier = strings.ToLower(strings.TrimSpace(req.Tier))
	participant.LinkedInURL = strings.TrimSpace(req.LinkedInURL)
	participant.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	participant.Bio = strings.TrimSpace(req.Bio)
	participant.Address = strings.TrimSpace(req.Address)
	participant.Pledge = strings.TrimSpace(req.Pledge)

	created, err := s.participantRepo.Upsert(ctx, participant)
	if err != nil {
		slog.Error("Failed to save participant", "error", err, "identifier", identifier)
		return nil, false, fmt.Errorf("failed to save participant: %w", err)
	}
	slog.Info("Participant saved", "identifier", identifier, "created", created)
	return participant, created, nil
}

// checkEmailFree rejects an email that already logs in another participant,
// either as their email or as their identifier.
func (s *ParticipantServiceImpl) checkEmailFree(ctx context.Context, identifier, email string) error {
	if email == "" {
		return nil
	}
	other, err := s.participantRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case other.Identifier != identifier:
		return validationError("email %q is already used by another participant", email)
	}
	return nil
}

// cleanWishlist drops items without a name and validates the rest
func (s *ParticipantServiceImpl) cleanWishlist(items []models.WishlistItem) ([]models.WishlistItem, error) {
	out := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.URL = strings.TrimSpace(item.URL)
		if item.Name == "" {
			continue
		}
		if item.URL != "" && !utils.IsHTTPURL(item.URL) {
			return nil, validationError("wishlist URL %q must be an http(s) URL", item.URL)
		}
		out = append(out, item)
	}
	if len(out) > s.rules.WishlistMaxItems {
		return nil, validationError("wishlist has %d items, at most %d allowed", len(out), s.rules.WishlistMaxItems)
	}
	return out, nil
}

// SaveWishlist replaces the wishlist of an existing participant
func (s *ParticipantServiceImpl) SaveWishlist(ctx context.Context, identifier string, items []models.WishlistItem) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	wishlist, err := s.cleanWishlist(items)
	if err != nil {
		return nil, err
	}
	participant.Wishlist = wishlist
	if _, err := s.participantRepo.Upsert(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to save wishlist: %w", err)
	}
	return participant, nil
}

// GetProfile retrieves a participant by identifier
func (s *ParticipantServiceImpl) GetProfile(ctx context.Context, identifier string) (*models.Participant, error) {
	return s.participantRepo.FindByIdentifier(ctx, identifier)
}

// ListParticipants returns every participant in registration order
func (s *ParticipantServiceImpl) ListParticipants(ctx context.Context) ([]*models.Participant, error) {
	return s.participantRepo.FindAll(ctx)
}

// DeleteParticipant removes a participant. Stored runs are left untouched.
func (s *ParticipantServiceImpl) DeleteParticipant(ctx context.Context, identifier string) error {
	if err := s.participantRepo.Delete(ctx, identifier); err != nil {
		return err
	}
	slog.Info("Participant deleted", "identifier", identifier)
	return nil
}

// GeneratePINs gives every participant a fresh unique PIN
func (s *ParticipantServiceImpl) GeneratePINs(ctx context.Context) (map[string]string, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	pins, err := utils.GenerateUniquePINs(len(participants))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make(map[string]string, len(participants))
	for i, p := range participants {
		hash, err := bcrypt.GenerateFromPassword([]byte(pins[i]), s.rules.PINCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		if err := s.participantRepo.SetPINHash(ctx, p.Identifier, string(hash), now); err != nil {
			return nil, fmt.Errorf("failed to store PIN for %s: %w", p.Identifier, err)
		}
		out[p.Identifier] = pins[i]
	}
	slog.Info("PINs generated", "count", len(out))
	return out, nil
}

// ClearWishlists empties all wishlists
func (s *ParticipantServiceImpl) ClearWishlists(ctx context.Context) error {
	return s.participantRepo.ClearWishlists(ctx)
}

// ClearAll removes participants, assignments and run history
func (s *ParticipantServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.assignmentRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := s.runRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear match runs: %w", err)
	}
	if err := s.participantRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	slog.Warn("All exchange data cleared")
	return nil
}

// Stats summarizes registrations and the current run
func (s *ParticipantServiceImpl) Stats(ctx context.Context) (*models.ParticipantStats, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	stats := &models.ParticipantStats{Total: len(participants), ByTier: map[string]int{}}
	for _, p := range participants {
		tier := p.Tier
		if tier == "" {
			tier = "unspecified"
		}
		stats.ByTier[tier]++
		if p.HasWishlist() {
			stats.WishlistsComplete++
		}
		if p.HasPIN() {
			stats.PINsGenerated++
		}
	}

	run, err := s.runRepo.FindLatestByStatus(ctx, models.MatchRunStatusCompleted)
	switch {
	case err == nil:
		count, err := s.assignmentRepo.CountByRunID(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count assignments: %w", err)
		}
		stats.Assignments = int(count)
		stats.CurrentRunID = run.ID.Hex()
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to load current run: %w", err)
	}
	return stats, nil
}

// ImportCSV creates or updates participants from CSV rows. Existing
// profiles keep their wishlist, pledge and PIN.
func (s *ParticipantServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportSummary, error) {
	rows, rowErrors, err := utils.ParseParticipantsCSV(r)
	if err != nil {
		return nil, validationError("%v", err)
	}

	summary := &models.ImportSummary{Skipped: len(rowErrors), Errors: rowErrors}
	for _, row := range rows {
		participant := &models.Participant{Wishlist: []models.WishlistItem{}}
		existing, err := s.participantRepo.FindByIdentifier(ctx, row.Identifier)
		switch {
		case err == nil:
			participant = existing
		case !errors.Is(err, repositories.ErrNotFound):
			return summary, fmt.Errorf("failed to load participant %s: %w", row.Identifier, err)
		}

		participant.Identifier = row.Identifier
		participant.Name = row.Name
		if row.Email != "" {
			participant.Email = row.Email
		} else if participant.Email == "" {
			participant.Email = utils.NormalizeEmail(row.Identifier)
		}
		if row.Tier != "" || existing == nil {
			participant.Tier = strings.ToLower(row.Tier)
		}
		if err := s.checkEmailFree(ctx, row.Identifier, participant.Email); err != nil {
			if !errors.Is(err, ErrValidation) {
				return summary, err
			}
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}

		created, err := s.participantRepo.Upsert(ctx, participant)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	slog.Info("Participants imported", "created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}
