package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "noon", cfg.Attendance.DatePolicy)
	assert.Equal(t, 16*time.Hour, cfg.Attendance.StaleSessionAfter)
	assert.Equal(t, 5*time.Minute, cfg.Redis.SettingsTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ATTENDANCE_DATE_POLICY", "window")
	t.Setenv("ATTENDANCE_WINDOW_BUFFER", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", cfg.App.Location.String())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "window", cfg.Attendance.DatePolicy)
	assert.Equal(t, 90*time.Minute, cfg.Attendance.WindowBuffer)
	assert.Equal(t, "postgres://postgres:pw@db:5432/hris_attendance?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"STORAGE_DRIVER": "memory"}},
		{"missing db password", map[string]string{"STORAGE_DRIVER": "postgres", "JWT_SECRET_KEY": "s"}},
		{"unknown storage", map[string]string{"STORAGE_DRIVER": "sqlite", "JWT_SECRET_KEY": "s"}},
		{"bad port", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "APP_PORT": "http"}},
		{"bad timezone", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "APP_TIMEZONE": "Mars/Olympus"}},
		{"bad stale hours", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "ATTENDANCE_STALE_SESSION_HOURS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("JWT_SECRET_KEY", "")
			t.Setenv("DB_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
