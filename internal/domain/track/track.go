// Package track provides the Track domain entity.
package track

import (
	"cmp"
	"strings"
	"time"
)

// Track represents an immutable catalog entry.
type Track struct {
	ID              string   `json:"id"`               // Catalog track ID
	Title           string   `json:"title"`            // Track title
	Artist          string   `json:"artist"`           // Artist name
	Album           string   `json:"album"`            // Album name
	DurationSeconds int      `json:"duration_seconds"` // Track length
	Genres          []string `json:"genres"`           // Genre ids
	ArtworkRef      string   `json:"artwork_ref"`      // Artwork reference (URL or asset key)
	Energy          float64  `json:"energy"`           // Catalog-assigned energy (0-1)
	Valence         float64  `json:"valence"`          // Catalog-assigned valence (0-1)
}

// RankedTrack is a track scored against a mood sample.
type RankedTrack struct {
	Track          Track   `json:"track"`
	MoodMatchScore float64 `json:"mood_match_score"` // 0-100
}

// Catalog provides read access to reference track data.
type Catalog interface {
	// Get returns the track with the given ID.
	Get(id string) (Track, bool)
	// All returns every track in catalog order.
	All() []Track
}

// Duration returns the track length as a time.Duration.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// HasAnyGenre reports whether the track shares at least one genre with genres.
// An empty genres set matches every track.
func (t Track) HasAnyGenre(genres []string) bool {
	if len(genres) == 0 {
		return true
	}
	for _, want := range genres {
		for _, g := range t.Genres {
			if g == want {
				return true
			}
		}
	}
	return false
}

// TotalDurationSeconds sums the durations of the given track IDs.
// IDs missing from the catalog contribute nothing.
func TotalDurationSeconds(c Catalog, ids []string) int {
	total := 0
	for _, id := range ids {
		if t, ok := c.Get(id); ok {
			total += t.DurationSeconds
		}
	}
	return total
}

// CompareIDs orders track IDs with digit runs compared numerically, so
// "track-2" sorts before "track-10". It returns -1, 0 or +1.
func CompareIDs(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[si:i], "0")
			nb := strings.TrimLeft(b[sj:j], "0")
			if len(na) != len(nb) {
				return cmp.Compare(len(na), len(nb))
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		if a[i] != b[j] {
			return cmp.Compare(a[i], b[j])
		}
		i++
		j++
	}
	if c := cmp.Compare(len(a)-i, len(b)-j); c != 0 {
		return c
	}
	// equal up to leading zeros
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
