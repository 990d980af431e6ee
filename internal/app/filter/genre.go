package filter

import (
	"context"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// GenreConfig represents the configuration for GenreFilter.
type GenreConfig struct {
	Genres []string `mapstructure:"genres"`
}

// GenreFilter keeps tracks sharing at least one genre with the filter set.
// An empty set keeps everything.
type GenreFilter struct {
	genres []string
}

// NewGenreFilter creates a genre filter for the given set.
func NewGenreFilter(genres []string) *GenreFilter {
	return &GenreFilter{genres: append([]string(nil), genres...)}
}

func (f *GenreFilter) Name() string {
	return "genre_filter"
}

func (f *GenreFilter) Description() string {
	return "Keeps tracks that share at least one genre with the selection"
}

func (f *GenreFilter) ReturnCodes() []string {
	return []string{"genre_mismatch"}
}

func (f *GenreFilter) ValidateConfig(settings map[string]any) error {
	var cfg GenreConfig
	if err := config.DecodeSettings(settings, &cfg); err != nil {
		return err
	}
	f.genres = cfg.Genres
	return nil
}

func (f *GenreFilter) Check(ctx context.Context, t track.Track) Result {
	if t.HasAnyGenre(f.genres) {
		return Accept()
	}
	return Reject("genre_mismatch")
}

func init() {
	Register("genre_filter", func() Filter {
		return &GenreFilter{}
	})
}
