package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.NewSettingsResponse(current), nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	saved, err := s.settingsRepo.Upsert(ctx, req.ToSettings())
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	slog.Info("Settings updated",
		"office_start_time", saved.OfficeStartTime.String(),
		"office_end_time", saved.OfficeEndTime.String(),
		"grace_time_minutes", saved.GraceTimeMinutes,
	)
	return settings.NewSettingsResponse(saved), nil
}
