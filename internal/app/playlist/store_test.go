package playlist

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/infra/catalog"
	"github.com/osa030/moodtunes/internal/infra/store/memory"
)

func newTestStore() *Store {
	return NewStore(memory.NewPlaylistRepository(), catalog.Default())
}

func TestStore_CreateThenRemoveTracks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	created, err := s.Create(ctx, "Test", "", mood.Happy, []string{"track-1", "track-2"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 2, created.TrackCount)
	assert.Equal(t, 245+198, created.DurationSeconds)

	updated, err := s.RemoveTracks(ctx, created.ID, []string{"track-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TrackCount)
	assert.Equal(t, 198, updated.DurationSeconds)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"track-2"}, got.Tracks)
}

func TestStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		plName      string
		description string
		mood        mood.Label
		tracks      []string
	}{
		{name: "empty name", plName: "   ", mood: mood.Happy},
		{name: "name too long", plName: strings.Repeat("x", 101), mood: mood.Happy},
		{name: "description too long", plName: "ok", description: strings.Repeat("d", 501), mood: mood.Happy},
		{name: "unknown mood", plName: "ok", mood: "bored"},
		{name: "unknown track", plName: "ok", mood: mood.Calm, tracks: []string{"nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestStore().Create(context.Background(), tt.plName, tt.description, tt.mood, tt.tracks)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	_, err = s.AddTracks(ctx, "missing", []string{"track-1"})
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	_, err = s.RemoveTracks(ctx, "missing", []string{"track-1"})
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	_, err = s.Reorder(ctx, "missing", "track-1", 0)
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), playlist.ErrNotFound)
}

func TestStore_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		trackID  string
		newIndex int
		want     []string
	}{
		{name: "move forward", trackID: "track-1", newIndex: 2, want: []string{"track-2", "track-3", "track-1"}},
		{name: "index beyond end clamps", trackID: "track-1", newIndex: 99, want: []string{"track-2", "track-3", "track-1"}},
		{name: "negative index clamps", trackID: "track-3", newIndex: -5, want: []string{"track-3", "track-1", "track-2"}},
		{name: "unknown track is a no-op", trackID: "track-9", newIndex: 0, want: []string{"track-1", "track-2", "track-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore()
			p, err := s.Create(ctx, "Order", "", mood.Calm, []string{"track-1", "track-2", "track-3"})
			require.NoError(t, err)

			got, err := s.Reorder(ctx, p.ID, tt.trackID, tt.newIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Tracks)
		})
	}
}

func TestStore_AddTracksIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	p, err := s.Create(ctx, "Mix", "", mood.Energetic, []string{"track-2"})
	require.NoError(t, err)

	got, err := s.AddTracks(ctx, p.ID, []string{"track-2", "track-9", "track-9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"track-2", "track-9"}, got.Tracks)

	_, err = s.AddTracks(ctx, p.ID, []string{"ghost"})
	assert.ErrorIs(t, err, ErrValidation)
	unchanged, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"track-2", "track-9"}, unchanged.Tracks, "failed mutation leaves no partial update")
}

func TestStore_RenameAndDescription(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	p, err := s.Create(ctx, "Old", "desc", mood.Sad, nil)
	require.NoError(t, err)

	got, err := s.Rename(ctx, p.ID, "  New  ")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	_, err = s.Rename(ctx, p.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	got, err = s.UpdateDescription(ctx, p.ID, "rainy days")
	require.NoError(t, err)
	assert.Equal(t, "rainy days", got.Description)
	assert.Equal(t, "New", got.Name)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	create := func(name string, m mood.Label, tracks []string, offset time.Duration) string {
		s.now = func() time.Time { return base.Add(offset) }
		p, err := s.Create(ctx, name, "", m, tracks)
		require.NoError(t, err)
		return p.ID
	}
	workout := create("Workout", mood.Energetic, []string{"track-2", "track-9", "track-12"}, 0)
	evening := create("evening calm", mood.Calm, []string{"track-7"}, time.Hour)
	sunday := create("Sunday", mood.Happy, []string{"track-1", "track-3"}, 2*time.Hour)

	ids := func(views []playlist.View) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "default is recent", query: Query{}, want: []string{sunday, evening, workout}},
		{name: "by name", query: Query{Sort: SortName}, want: []string{evening, sunday, workout}},
		{name: "by track count", query: Query{Sort: SortTrackCount}, want: []string{workout, sunday, evening}},
		{name: "by duration", query: Query{Sort: SortDuration}, want: []string{workout, sunday, evening}},
		{name: "mood filter", query: Query{Mood: "calm"}, want: []string{evening}},
		{name: "mood all", query: Query{Mood: "all", Sort: SortName}, want: []string{evening, sunday, workout}},
		{name: "search by name", query: Query{Search: "SUN"}, want: []string{sunday}},
		{name: "search by mood", query: Query{Search: "energ"}, want: []string{workout}},
		{name: "no match", query: Query{Search: "polka"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := s.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(views))
		})
	}

	_, err := s.List(ctx, Query{Sort: "popularity"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStore_BulkDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	a, err := s.Create(ctx, "A", "", mood.Happy, nil)
	require.NoError(t, err)
	b, err := s.Create(ctx, "B", "", mood.Happy, nil)
	require.NoError(t, err)

	_, err = s.BulkDelete(ctx, []string{a.ID, "missing"})
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	_, err = s.Get(ctx, a.ID)
	require.NoError(t, err, "nothing is deleted when an id is unknown")

	n, err := s.BulkDelete(ctx, []string{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	views, err := s.List(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestStore_MarkExportedAndPlayed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	p, err := s.Create(ctx, "Road trip", "", mood.Excited, []string{"track-6"})
	require.NoError(t, err)

	_, err = s.MarkExported(ctx, p.ID, export.TargetExternalService)
	require.NoError(t, err)
	got, err := s.MarkExported(ctx, p.ID, export.TargetExternalService)
	require.NoError(t, err)
	assert.Equal(t, []export.Target{export.TargetExternalService}, got.ExportedFlags)

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	got, err = s.MarkPlayed(ctx, p.ID, at)
	require.NoError(t, err)
	require.NotNil(t, got.LastPlayedAt)
	assert.True(t, at.Equal(*got.LastPlayedAt))
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	empty, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalPlaylists)
	assert.Empty(t, empty.TopMood)

	s.now = func() time.Time { return now.Add(-30 * 24 * time.Hour) }
	old, err := s.Create(ctx, "Old", "", mood.Calm, []string{"track-7"})
	require.NoError(t, err)
	_, err = s.MarkExported(ctx, old.ID, export.TargetShareLink)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(-time.Hour) }
	_, err = s.Create(ctx, "New", "", mood.Happy, []string{"track-1", "track-3"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Newer", "", mood.Happy, []string{"track-4", "track-5", "track-6"})
	require.NoError(t, err)

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalPlaylists)
	assert.Equal(t, 6, st.TotalTracks)
	assert.Equal(t, 276+245+267+223+189+234, st.TotalDurationSeconds)
	assert.Equal(t, 1, st.ExportedCount)
	assert.Equal(t, map[mood.Label]int{mood.Calm: 1, mood.Happy: 2}, st.MoodDistribution)
	assert.Equal(t, mood.Happy, st.TopMood)
	assert.Equal(t, 2, st.RecentActivity)
	assert.InDelta(t, 2.0, st.AverageTracks, 1e-9)
}
