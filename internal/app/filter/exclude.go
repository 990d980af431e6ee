package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// ExcludeConfig represents the configuration for ExcludeFilter.
type ExcludeConfig struct {
	TrackIDs []string `mapstructure:"track_ids"`
	Artists  []string `mapstructure:"artists"`
}

// ExcludeFilter drops explicitly excluded tracks and artists, and tracks
// whose normalized title and artist match an excluded track (remasters, edits).
type ExcludeFilter struct {
	ids     map[string]bool
	artists map[string]bool
	titles  map[string]bool // normalized "title|artist"
}

// NewExcludeFilter creates a filter excluding the given tracks.
func NewExcludeFilter(excluded []track.Track) *ExcludeFilter {
	f := &ExcludeFilter{
		ids:     make(map[string]bool),
		artists: make(map[string]bool),
		titles:  make(map[string]bool),
	}
	for _, t := range excluded {
		f.ids[t.ID] = true
		f.titles[titleKey(t)] = true
	}
	return f
}

func (f *ExcludeFilter) Name() string {
	return "exclude_filter"
}

func (f *ExcludeFilter) Description() string {
	return "Drops excluded tracks (including remasters of them) and excluded artists"
}

func (f *ExcludeFilter) ReturnCodes() []string {
	return []string{"excluded"}
}

func (f *ExcludeFilter) ValidateConfig(settings map[string]any) error {
	var cfg ExcludeConfig
	if err := config.DecodeSettings(settings, &cfg); err != nil {
		return err
	}
	if f.ids == nil {
		*f = *NewExcludeFilter(nil)
	}
	for _, id := range cfg.TrackIDs {
		f.ids[id] = true
	}
	for _, a := range cfg.Artists {
		f.artists[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return nil
}

func (f *ExcludeFilter) Check(ctx context.Context, t track.Track) Result {
	if f.ids[t.ID] {
		return Reject("excluded")
	}
	if f.artists[strings.ToLower(strings.TrimSpace(t.Artist))] {
		return Reject("excluded")
	}
	if f.titles[titleKey(t)] {
		return Reject("excluded")
	}
	return Accept()
}

var (
	bracketPattern = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)
	suffixPattern  = regexp.MustCompile(`(?i)\s+-\s+.*(remaster|version|edit|mix|live).*$`)
)

// normalizeTitle strips bracketed qualifiers and remaster suffixes.
func normalizeTitle(title string) string {
	title = bracketPattern.ReplaceAllString(title, "")
	title = suffixPattern.ReplaceAllString(title, "")
	return strings.ToLower(strings.TrimSpace(title))
}

func titleKey(t track.Track) string {
	return normalizeTitle(t.Title) + "|" + strings.ToLower(strings.TrimSpace(t.Artist))
}

func init() {
	Register("exclude_filter", func() Filter {
		return NewExcludeFilter(nil)
	})
}
