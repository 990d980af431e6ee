package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// DurationLimitConfig represents the configuration for DurationLimitFilter.
type DurationLimitConfig struct {
	MinMinutes float64 `yaml:"min_minutes" mapstructure:"min_minutes" validate:"gte=0"`
	MaxMinutes float64 `yaml:"max_minutes" mapstructure:"max_minutes" validate:"gte=0"`
}

// DurationLimitFilter checks if track duration is within allowed limits.
type DurationLimitFilter struct {
	config *DurationLimitConfig
}

// NewDurationLimitFilter creates a new duration limit filter.
func NewDurationLimitFilter() *DurationLimitFilter {
	return &DurationLimitFilter{}
}

func (f *DurationLimitFilter) Name() string {
	return "duration_limit_filter"
}

func (f *DurationLimitFilter) Description() string {
	return "Checks if track duration is within allowed limits"
}

func (f *DurationLimitFilter) ReturnCodes() []string {
	return []string{"duration_limit_exceeded"}
}

func (f *DurationLimitFilter) ValidateConfig(settings map[string]any) error {
	var cfg DurationLimitConfig
	if err := config.DecodeSettings(settings, &cfg); err != nil {
		return err
	}

	// min_minutes cannot be greater than max_minutes (0 means no upper limit)
	if cfg.MaxMinutes > 0 && cfg.MinMinutes > cfg.MaxMinutes {
		return errors.New("min_minutes cannot be greater than max_minutes")
	}
	f.config = &cfg
	zlog.Info().Msgf("duration limit filter config: %+v", cfg)
	return nil
}

func (f *DurationLimitFilter) Check(ctx context.Context, t track.Track) Result {
	// If config is not set, accept all tracks
	if f.config == nil {
		return Accept()
	}

	durationMinutes := t.Duration().Minutes()

	if durationMinutes < f.config.MinMinutes {
		return Reject("duration_limit_exceeded")
	}

	if f.config.MaxMinutes > 0 && durationMinutes > f.config.MaxMinutes {
		return Reject("duration_limit_exceeded")
	}

	return Accept()
}

func init() {
	Register("duration_limit_filter", func() Filter {
		return &DurationLimitFilter{}
	})
}
