package playlist

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/track"
)

// RecentWindow bounds the recent activity count.
const RecentWindow = 7 * 24 * time.Hour

// Stats summarizes the library.
type Stats struct {
	TotalPlaylists       int                `json:"total_playlists"`
	TotalTracks          int                `json:"total_tracks"`
	TotalDurationSeconds int                `json:"total_duration_seconds"`
	ExportedCount        int                `json:"exported_count"`
	MoodDistribution     map[mood.Label]int `json:"mood_distribution"`
	TopMood              mood.Label         `json:"top_mood,omitempty"`
	RecentActivity       int                `json:"recent_activity"` // created or played within RecentWindow
	AverageTracks        float64            `json:"average_tracks"`
}

// Stats computes library statistics as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to list playlists")
	}

	st := Stats{
		TotalPlaylists:   len(all),
		MoodDistribution: make(map[mood.Label]int),
	}
	if len(all) == 0 {
		return st, nil
	}

	counts := make([]float64, 0, len(all))
	cutoff := now.Add(-RecentWindow)
	for _, p := range all {
		st.TotalTracks += len(p.Tracks)
		st.TotalDurationSeconds += track.TotalDurationSeconds(s.catalog, p.Tracks)
		if len(p.ExportedFlags) > 0 {
			st.ExportedCount++
		}
		st.MoodDistribution[p.Mood]++
		if p.CreatedAt.After(cutoff) || (p.LastPlayedAt != nil && p.LastPlayedAt.After(cutoff)) {
			st.RecentActivity++
		}
		counts = append(counts, float64(len(p.Tracks)))
	}
	st.AverageTracks = stat.Mean(counts, nil)

	// ties resolve to the label declared first in the vocabulary
	best := 0
	for _, label := range mood.Vocabulary() {
		if n := st.MoodDistribution[label]; n > best {
			best = n
			st.TopMood = label
		}
	}
	return st, nil
}
