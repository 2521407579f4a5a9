package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SystemSettingsServiceImpl implements SystemSettingsService
var _ SystemSettingsService = (*SystemSettingsServiceImpl)(nil)

// SystemSettingsServiceImpl implements SystemSettingsService
type SystemSettingsServiceImpl struct {
	settingsRepo repositories.SystemSettingsRepository
	gateways     map[string]struct{}
}

// NewSystemSettingsService creates a new SystemSettingsService. gateways are
// the email gateway names an admin may select.
func NewSystemSettingsService(settingsRepo repositories.SystemSettingsRepository, gateways []string) *SystemSettingsServiceImpl {
	known := make(map[string]struct{}, len(gateways))
	for _, g := range gateways {
		known[g] = struct{}{}
	}
	return &SystemSettingsServiceImpl{
		settingsRepo: settingsRepo,
		gateways:     known,
	}
}

// GetSettings retrieves the current system settings
func (s *SystemSettingsServiceImpl) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

// UpdateSettings applies the non-empty fields of req
func (s *SystemSettingsServiceImpl) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.SystemSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.MatchingPolicy != "" {
		policy, err := matching.ParsePolicy(req.MatchingPolicy)
		if err != nil {
			return nil, validationError("%v", err)
		}
		settings.MatchingPolicy = string(policy)
	}
	if req.EmailGateway != "" {
		gateway := strings.ToUpper(strings.TrimSpace(req.EmailGateway))
		if _, ok := s.gateways[gateway]; !ok {
			return nil, validationError("unknown email gateway %q", req.EmailGateway)
		}
		settings.EmailGateway = gateway
	}
	settings.UpdatedBy = updatedBy

	if err := s.settingsRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	slog.Info("System settings updated", "policy", settings.MatchingPolicy, "gateway", settings.EmailGateway, "updatedBy", updatedBy)
	return settings, nil
}
