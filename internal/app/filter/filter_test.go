package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

func TestGenreFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		filterGenres []string
		trackGenres  []string
		wantAccepted bool
	}{
		{
			name:         "no filter",
			filterGenres: nil,
			trackGenres:  []string{"pop"},
			wantAccepted: true,
		},
		{
			name:         "intersecting genres",
			filterGenres: []string{"folk", "dance"},
			trackGenres:  []string{"pop", "dance"},
			wantAccepted: true,
		},
		{
			name:         "disjoint genres",
			filterGenres: []string{"metal"},
			trackGenres:  []string{"pop", "dance"},
			wantAccepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewGenreFilter(tt.filterGenres)
			result := f.Check(context.Background(), track.Track{ID: "t", Genres: tt.trackGenres})

			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "genre_mismatch", result.Code)
			}
		})
	}
}

func TestExcludeFilter_Check(t *testing.T) {
	excluded := []track.Track{
		{ID: "track-1", Title: "Sunshine State of Mind", Artist: "The Happy Collective"},
	}

	tests := []struct {
		name         string
		candidate    track.Track
		wantAccepted bool
	}{
		{
			name:         "same id",
			candidate:    track.Track{ID: "track-1", Title: "Sunshine State of Mind", Artist: "The Happy Collective"},
			wantAccepted: false,
		},
		{
			name:         "remaster of excluded track",
			candidate:    track.Track{ID: "track-1r", Title: "Sunshine State of Mind - 2024 Remaster", Artist: "The Happy Collective"},
			wantAccepted: false,
		},
		{
			name:         "bracketed qualifier",
			candidate:    track.Track{ID: "track-1l", Title: "Sunshine State of Mind (Live)", Artist: "the happy collective"},
			wantAccepted: false,
		},
		{
			name:         "cover by another artist",
			candidate:    track.Track{ID: "cover", Title: "Sunshine State of Mind", Artist: "Someone Else"},
			wantAccepted: true,
		},
		{
			name:         "unrelated track",
			candidate:    track.Track{ID: "track-2", Title: "Electric Dreams", Artist: "Neon Nights"},
			wantAccepted: true,
		},
	}

	f := NewExcludeFilter(excluded)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Check(context.Background(), tt.candidate)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
		})
	}
}

func TestExcludeFilter_ValidateConfig(t *testing.T) {
	f := NewExcludeFilter(nil)
	require.NoError(t, f.ValidateConfig(map[string]any{
		"track_ids": []any{"track-9"},
		"artists":   []any{"Loose Wires"},
	}))

	assert.False(t, f.Check(context.Background(), track.Track{ID: "track-9"}).Accepted)
	assert.False(t, f.Check(context.Background(), track.Track{ID: "track-12", Artist: "Loose Wires"}).Accepted)
	assert.True(t, f.Check(context.Background(), track.Track{ID: "track-1", Artist: "The Happy Collective"}).Accepted)
}

func TestChain_Execute(t *testing.T) {
	duration := NewDurationLimitFilter()
	require.NoError(t, duration.ValidateConfig(map[string]any{"max_minutes": 4}))

	chain := NewChain(NewGenreFilter([]string{"pop"}), duration)

	tests := []struct {
		name     string
		track    track.Track
		wantCode string
	}{
		{name: "accepted", track: track.Track{Genres: []string{"pop"}, DurationSeconds: 200}},
		{name: "first filter rejects", track: track.Track{Genres: []string{"rock"}, DurationSeconds: 500}, wantCode: "genre_mismatch"},
		{name: "second filter rejects", track: track.Track{Genres: []string{"pop"}, DurationSeconds: 500}, wantCode: "duration_limit_exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := chain.Execute(context.Background(), tt.track)
			if tt.wantCode == "" {
				assert.True(t, result.Accepted)
			} else {
				assert.False(t, result.Accepted)
				assert.Equal(t, tt.wantCode, result.Code)
			}
		})
	}
}

func TestChain_ApplyAndWith(t *testing.T) {
	tracks := []track.Track{
		{ID: "a", Genres: []string{"pop"}},
		{ID: "b", Genres: []string{"rock"}},
		{ID: "c", Genres: []string{"pop", "rock"}},
	}

	base := NewChain()
	withGenre := base.With(NewGenreFilter([]string{"rock"}))

	assert.Len(t, base.Filters(), 0, "With must not modify the receiver")
	assert.Len(t, base.Apply(context.Background(), tracks), 3)

	got := withGenre.Apply(context.Background(), tracks)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestNewChainFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		filters     map[string]config.FilterConfig
		wantFilters int
		wantErr     bool
	}{
		{name: "no filters", filters: nil, wantFilters: 0},
		{
			name: "enabled and disabled",
			filters: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: true, Settings: map[string]any{"max_minutes": 5}},
				"exclude_filter":        {Enabled: false},
			},
			wantFilters: 1,
		},
		{
			name:    "unknown filter",
			filters: map[string]config.FilterConfig{"tempo_filter": {Enabled: true}},
			wantErr: true,
		},
		{
			name: "invalid settings",
			filters: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_minutes": 9, "max_minutes": 2}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Recommend: config.RecommendConfig{Filters: tt.filters}}
			chain, err := NewChainFromConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, chain.Filters(), tt.wantFilters)
		})
	}
}

func TestRegisteredNames(t *testing.T) {
	assert.Equal(t, []string{"duration_limit_filter", "exclude_filter", "genre_filter"}, RegisteredNames())
}
