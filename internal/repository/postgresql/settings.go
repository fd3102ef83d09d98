package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

func scanSettings(row pgx.Row) (settings.Settings, error) {
	var s settings.Settings
	var start, end string
	err := row.Scan(&start, &end, &s.GraceTimeMinutes, &s.HalfDayThresholdHours, &s.FullDayHours, &s.UpdatedAt)
	if err != nil {
		return settings.Settings{}, err
	}
	if s.OfficeStartTime, err = shift.ParseClock(start); err != nil {
		return settings.Settings{}, err
	}
	if s.OfficeEndTime, err = shift.ParseClock(end); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSettings(q.QueryRow(ctx, `
		SELECT to_char(office_start_time, 'HH24:MI'), to_char(office_end_time, 'HH24:MI'),
			   grace_time_minutes, half_day_threshold_hours::float8, full_day_hours::float8, updated_at
		FROM system_settings
		WHERE id = 1
	`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Default(), nil
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	saved, err := scanSettings(q.QueryRow(ctx, `
		INSERT INTO system_settings (id, office_start_time, office_end_time, grace_time_minutes, half_day_threshold_hours, full_day_hours)
		VALUES (1, $1::time, $2::time, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET office_start_time = EXCLUDED.office_start_time,
			office_end_time = EXCLUDED.office_end_time,
			grace_time_minutes = EXCLUDED.grace_time_minutes,
			half_day_threshold_hours = EXCLUDED.half_day_threshold_hours,
			full_day_hours = EXCLUDED.full_day_hours,
			updated_at = NOW()
		RETURNING to_char(office_start_time, 'HH24:MI'), to_char(office_end_time, 'HH24:MI'),
			grace_time_minutes, half_day_threshold_hours::float8, full_day_hours::float8, updated_at
	`, s.OfficeStartTime.String(), s.OfficeEndTime.String(), s.GraceTimeMinutes, s.HalfDayThresholdHours, s.FullDayHours))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return saved, nil
}
