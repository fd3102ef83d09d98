package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
)

type settingsRepository struct {
	store *Store
}

func NewSettingsRepository(store *Store) settings.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	s := settings.Default()
	err := r.store.view(ctx, func(t *tables) error {
		if t.settings != nil {
			s = *t.settings
		}
		return nil
	})
	return s, err
}

func (r *settingsRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	err := r.store.view(ctx, func(t *tables) error {
		s.UpdatedAt = r.store.now()
		saved := s
		t.settings = &saved
		return nil
	})
	return s, err
}
