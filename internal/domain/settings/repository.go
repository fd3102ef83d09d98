package settings

import "context"

// SettingsRepository stores the single system settings row.
type SettingsRepository interface {
	// Get returns the saved settings, or Default() when none were saved.
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, s Settings) (Settings, error)
}
