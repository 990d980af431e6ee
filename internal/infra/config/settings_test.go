package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSettings struct {
	Limit   int    `mapstructure:"limit" default:"5" validate:"gte=1,lte=10"`
	Mode    string `mapstructure:"mode" default:"fast" validate:"oneof=fast slow"`
	Verbose bool   `mapstructure:"verbose"`
}

func TestDecodeSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     sampleSettings
		wantErr  bool
	}{
		{
			name:     "nil applies defaults",
			settings: nil,
			want:     sampleSettings{Limit: 5, Mode: "fast"},
		},
		{
			name:     "weakly typed values",
			settings: map[string]any{"limit": "7", "verbose": "true"},
			want:     sampleSettings{Limit: 7, Mode: "fast", Verbose: true},
		},
		{
			name:     "undecodable value",
			settings: map[string]any{"verbose": "not-a-bool"},
			wantErr:  true,
		},
		{
			name:     "out of range",
			settings: map[string]any{"limit": 99},
			wantErr:  true,
		},
		{
			name:     "unknown mode",
			settings: map[string]any{"mode": "warp"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sampleSettings
			err := DecodeSettings(tt.settings, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSettings), "sentinel must be visible to the standard errors package")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
