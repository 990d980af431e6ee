package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "moodtunes.db", cfg.Storage.DSN)
	assert.Equal(t, 10, cfg.Session.HistorySize)
	assert.Equal(t, "vector", cfg.Recommend.Strategy)
	assert.Equal(t, 1000, cfg.Playback.TickIntervalMs)
	assert.Equal(t, 75, cfg.Playback.Volume())
	assert.Equal(t, 2000, cfg.Export.ExternalDelayMs)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			yaml: `
storage:
  driver: memory
session:
  history_size: 20
recommend:
  strategy: seeded
  seed: 7
`,
			wantErr: false,
		},
		{
			name:    "unknown storage driver",
			yaml:    "storage:\n  driver: postgres\n",
			wantErr: true,
			errMsg:  "Driver",
		},
		{
			name:    "history size too large",
			yaml:    "session:\n  history_size: 1000\n",
			wantErr: true,
			errMsg:  "HistorySize",
		},
		{
			name:    "unknown recommend strategy",
			yaml:    "recommend:\n  strategy: neural\n",
			wantErr: true,
			errMsg:  "Strategy",
		},
		{
			name:    "volume out of range",
			yaml:    "playback:\n  default_volume: 150\n",
			wantErr: true,
			errMsg:  "DefaultVolume",
		},
		{
			name:    "invalid retention",
			yaml:    "export:\n  retention: forever\n",
			wantErr: true,
			errMsg:  "retention",
		},
		{
			name:    "invalid share url",
			yaml:    "export:\n  share_base_url: not a url\n",
			wantErr: true,
			errMsg:  "ShareBaseURL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestParse_ExplicitZeroVolume(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{name: "unset uses default", yaml: "{}", want: 75},
		{name: "explicit zero is kept", yaml: "playback:\n  default_volume: 0\n", want: 0},
		{name: "explicit value", yaml: "playback:\n  default_volume: 30\n", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Playback.Volume())
		})
	}

	assert.Equal(t, 75, PlaybackConfig{}.Volume())
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: sqlite\n  dsn: file.db\n"), 0o600))

	t.Setenv("MOODTUNES_STORAGE_DRIVER", "memory")
	t.Setenv("MOODTUNES_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "file.db", cfg.Storage.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Filters(t *testing.T) {
	cfg, err := Parse([]byte(`
recommend:
  filters:
    duration_limit_filter:
      enabled: true
      settings:
        max_minutes: 5
    exclude_filter:
      enabled: false
`))
	require.NoError(t, err)

	assert.True(t, cfg.IsFilterEnabled("duration_limit_filter"))
	assert.False(t, cfg.IsFilterEnabled("exclude_filter"))
	assert.False(t, cfg.IsFilterEnabled("unknown"))
	assert.Equal(t, 5, cfg.FilterSettings("duration_limit_filter")["max_minutes"])
}
