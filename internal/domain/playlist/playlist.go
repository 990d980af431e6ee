// Package playlist provides the Playlist domain entity.
package playlist

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/track"
)

// SchemaVersion is the version written into stored playlist documents.
const SchemaVersion = 1

// ErrNotFound is returned for unknown playlist IDs.
var ErrNotFound = errors.New("playlist not found")

// Playlist is a user-curated ordered list of track IDs.
type Playlist struct {
	SchemaVersion int             `json:"schema_version"`
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Mood          mood.Label      `json:"mood"` // Label at creation time
	Tracks        []string        `json:"tracks"`
	CreatedAt     time.Time       `json:"created_at"`
	LastPlayedAt  *time.Time      `json:"last_played_at,omitempty"`
	ExportedFlags []export.Target `json:"exported_flags,omitempty"`
}

// TrackCount returns the number of tracks.
func (p *Playlist) TrackCount() int {
	return len(p.Tracks)
}

// Contains reports whether trackID is in the playlist.
func (p *Playlist) Contains(trackID string) bool {
	return p.IndexOf(trackID) >= 0
}

// IndexOf returns the position of trackID or -1.
func (p *Playlist) IndexOf(trackID string) int {
	for i, id := range p.Tracks {
		if id == trackID {
			return i
		}
	}
	return -1
}

// IsExported reports whether target is in the exported flags.
func (p *Playlist) IsExported(target export.Target) bool {
	for _, t := range p.ExportedFlags {
		if t == target {
			return true
		}
	}
	return false
}

// MarkExported adds target to the exported flags once.
func (p *Playlist) MarkExported(target export.Target) {
	if !p.IsExported(target) {
		p.ExportedFlags = append(p.ExportedFlags, target)
	}
}

// Clone returns a deep copy.
func (p *Playlist) Clone() *Playlist {
	c := *p
	c.Tracks = append([]string{}, p.Tracks...)
	if p.ExportedFlags != nil {
		c.ExportedFlags = append([]export.Target{}, p.ExportedFlags...)
	}
	if p.LastPlayedAt != nil {
		t := *p.LastPlayedAt
		c.LastPlayedAt = &t
	}
	return &c
}

// View is a playlist with its derived fields computed from the catalog.
type View struct {
	*Playlist
	TrackCount      int `json:"track_count"`
	DurationSeconds int `json:"duration_seconds"`
}

// NewView derives the computed fields of p.
func NewView(p *Playlist, catalog track.Catalog) View {
	return View{
		Playlist:        p,
		TrackCount:      p.TrackCount(),
		DurationSeconds: track.TotalDurationSeconds(catalog, p.Tracks),
	}
}

// Move returns a copy of seq with the element at from moved to to.
// Both indexes are clamped to the valid range; an empty seq is returned unchanged.
func Move(seq []string, from, to int) []string {
	out := append([]string{}, seq...)
	if len(out) == 0 {
		return out
	}
	from = clamp(from, 0, len(out)-1)
	to = clamp(to, 0, len(out)-1)
	if from == to {
		return out
	}

	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{item}, out[to:]...)...)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Repository persists playlists.
type Repository interface {
	Get(ctx context.Context, id string) (*Playlist, error)
	Save(ctx context.Context, p *Playlist) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Playlist, error)
}
