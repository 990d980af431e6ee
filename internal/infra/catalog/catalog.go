// Package catalog provides the canonical static track fixture.
package catalog

import (
	"sort"

	"github.com/osa030/moodtunes/internal/domain/track"
)

// Static is an immutable in-memory catalog.
type Static struct {
	tracks []track.Track
	byID   map[string]track.Track
}

// New creates a catalog from tracks. Later duplicates of an ID are ignored.
func New(tracks []track.Track) *Static {
	c := &Static{
		tracks: make([]track.Track, 0, len(tracks)),
		byID:   make(map[string]track.Track, len(tracks)),
	}
	for _, t := range tracks {
		if _, exists := c.byID[t.ID]; exists {
			continue
		}
		c.tracks = append(c.tracks, t)
		c.byID[t.ID] = t
	}
	return c
}

// Default returns the built-in fixture.
func Default() *Static {
	return New(fixture)
}

// Get returns the track with the given ID.
func (c *Static) Get(id string) (track.Track, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// All returns every track in catalog order.
func (c *Static) All() []track.Track {
	out := make([]track.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Genres returns the sorted set of genres present in the catalog.
func (c *Static) Genres() []string {
	seen := make(map[string]struct{})
	for _, t := range c.tracks {
		for _, g := range t.Genres {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

var fixture = []track.Track{
	{ID: "track-1", Title: "Sunshine State of Mind", Artist: "The Happy Collective", Album: "Positive Vibes", DurationSeconds: 245, Genres: []string{"pop", "dance"}, ArtworkRef: "artwork/track-1.jpg", Energy: 0.78, Valence: 0.92},
	{ID: "track-2", Title: "Electric Dreams", Artist: "Neon Nights", Album: "Digital Emotions", DurationSeconds: 198, Genres: []string{"electronic", "dance"}, ArtworkRef: "artwork/track-2.jpg", Energy: 0.91, Valence: 0.70},
	{ID: "track-3", Title: "Feel Good Anthem", Artist: "Upbeat Orchestra", Album: "Mood Lifters", DurationSeconds: 267, Genres: []string{"pop", "funk"}, ArtworkRef: "artwork/track-3.jpg", Energy: 0.83, Valence: 0.88},
	{ID: "track-4", Title: "Joyful Journey", Artist: "Melody Makers", Album: "Happy Trails", DurationSeconds: 223, Genres: []string{"indie", "pop"}, ArtworkRef: "artwork/track-4.jpg", Energy: 0.64, Valence: 0.81},
	{ID: "track-5", Title: "Bright Side", Artist: "Optimistic Souls", Album: "Silver Linings", DurationSeconds: 189, Genres: []string{"acoustic", "folk"}, ArtworkRef: "artwork/track-5.jpg", Energy: 0.42, Valence: 0.74},
	{ID: "track-6", Title: "Dancing in the Light", Artist: "Rhythm & Joy", Album: "Celebration", DurationSeconds: 234, Genres: []string{"dance", "reggae"}, ArtworkRef: "artwork/track-6.jpg", Energy: 0.72, Valence: 0.86},
	{ID: "track-7", Title: "Quiet Harbor", Artist: "Still Waters", Album: "Low Tide", DurationSeconds: 276, Genres: []string{"ambient", "acoustic"}, ArtworkRef: "artwork/track-7.jpg", Energy: 0.18, Valence: 0.55},
	{ID: "track-8", Title: "Rain on Glass", Artist: "Grey Avenue", Album: "Overcast", DurationSeconds: 251, Genres: []string{"indie", "folk"}, ArtworkRef: "artwork/track-8.jpg", Energy: 0.25, Valence: 0.20},
	{ID: "track-9", Title: "Iron Pulse", Artist: "Steel Horizon", Album: "Pressure", DurationSeconds: 212, Genres: []string{"rock", "metal"}, ArtworkRef: "artwork/track-9.jpg", Energy: 0.95, Valence: 0.22},
	{ID: "track-10", Title: "Candlelight Waltz", Artist: "Velvet Strings", Album: "Evening Letters", DurationSeconds: 238, Genres: []string{"jazz", "soul"}, ArtworkRef: "artwork/track-10.jpg", Energy: 0.35, Valence: 0.68},
	{ID: "track-11", Title: "Polaroid Summers", Artist: "The Rewinds", Album: "Back Then", DurationSeconds: 219, Genres: []string{"indie", "rock"}, ArtworkRef: "artwork/track-11.jpg", Energy: 0.48, Valence: 0.45},
	{ID: "track-12", Title: "Static Nerves", Artist: "Loose Wires", Album: "Tension", DurationSeconds: 187, Genres: []string{"electronic", "rock"}, ArtworkRef: "artwork/track-12.jpg", Energy: 0.80, Valence: 0.30},
}
