package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/redis/go-redis/v9"
)

// settingsVersionKey is bumped on every save. Cached values live under a
// key carrying the version that was current before the row was read, so a
// read that raced a save can only fill a key nobody looks up any more.
const settingsVersionKey = "hris:settings:version"

func settingsKey(version int64) string {
	return fmt.Sprintf("hris:settings:v%d", version)
}

// Client is the part of the redis client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type settingsCache struct {
	next   settings.SettingsRepository
	client Client
	ttl    time.Duration
}

// NewSettingsRepository wraps next with a read-through redis cache. Redis
// failures are logged and the call falls through to next.
func NewSettingsRepository(next settings.SettingsRepository, client Client, ttl time.Duration) settings.SettingsRepository {
	return &settingsCache{next: next, client: client, ttl: ttl}
}

type cachedSettings struct {
	OfficeStartTime       string    `json:"office_start_time"`
	OfficeEndTime         string    `json:"office_end_time"`
	GraceTimeMinutes      int       `json:"grace_time_minutes"`
	HalfDayThresholdHours float64   `json:"half_day_threshold_hours"`
	FullDayHours          float64   `json:"full_day_hours"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func encodeSettings(s settings.Settings) ([]byte, error) {
	return json.Marshal(cachedSettings{
		OfficeStartTime:       s.OfficeStartTime.String(),
		OfficeEndTime:         s.OfficeEndTime.String(),
		GraceTimeMinutes:      s.GraceTimeMinutes,
		HalfDayThresholdHours: s.HalfDayThresholdHours,
		FullDayHours:          s.FullDayHours,
		UpdatedAt:             s.UpdatedAt,
	})
}

func decodeSettings(data []byte) (settings.Settings, error) {
	var c cachedSettings
	if err := json.Unmarshal(data, &c); err != nil {
		return settings.Settings{}, err
	}
	s := settings.Settings{
		GraceTimeMinutes:      c.GraceTimeMinutes,
		HalfDayThresholdHours: c.HalfDayThresholdHours,
		FullDayHours:          c.FullDayHours,
		UpdatedAt:             c.UpdatedAt,
	}
	if err := s.OfficeStartTime.UnmarshalText([]byte(c.OfficeStartTime)); err != nil {
		return settings.Settings{}, err
	}
	if err := s.OfficeEndTime.UnmarshalText([]byte(c.OfficeEndTime)); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

func (c *settingsCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, settingsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get implements settings.SettingsRepository.
func (c *settingsCache) Get(ctx context.Context) (settings.Settings, error) {
	version, err := c.version(ctx)
	if err != nil {
		slog.Warn("Settings cache read failed", "error", err)
		return c.next.Get(ctx)
	}
	key := settingsKey(version)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		s, decodeErr := decodeSettings(data)
		if decodeErr == nil {
			return s, nil
		}
		slog.Warn("Discarding unreadable cached settings", "error", decodeErr)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Settings cache read failed", "error", err)
	}

	s, err := c.next.Get(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	if data, err := encodeSettings(s); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("Settings cache write failed", "error", err)
		}
	}
	return s, nil
}

// Upsert implements settings.SettingsRepository. A successful save moves
// readers to a new version key; the old entry expires with its TTL.
func (c *settingsCache) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	saved, err := c.next.Upsert(ctx, s)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := c.client.Incr(ctx, settingsVersionKey).Err(); err != nil {
		slog.Warn("Settings cache invalidation failed", "error", err)
	}
	return saved, nil
}
