package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
)

func TestPlaylistRepository(t *testing.T) {
	ctx := context.Background()
	r := NewPlaylistRepository()

	_, err := r.Get(ctx, "p1")
	assert.ErrorIs(t, err, playlist.ErrNotFound)

	p := &playlist.Playlist{ID: "p1", Name: "Morning", Tracks: []string{"track-1"}}
	require.NoError(t, r.Save(ctx, p))

	p.Tracks[0] = "mutated"
	got, err := r.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"track-1"}, got.Tracks, "stored copy is isolated from the caller")

	require.NoError(t, r.Save(ctx, &playlist.Playlist{ID: "p0"}))
	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p0", all[0].ID)

	require.NoError(t, r.Delete(ctx, "p1"))
	assert.ErrorIs(t, r.Delete(ctx, "p1"), playlist.ErrNotFound)
}

func TestJobRepository(t *testing.T) {
	ctx := context.Background()
	r := NewJobRepository()

	now := time.Now()
	require.NoError(t, r.Save(ctx, &export.Job{ID: "b", StartedAt: now}))
	require.NoError(t, r.Save(ctx, &export.Job{ID: "a", StartedAt: now.Add(time.Second)}))

	jobs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].ID)

	_, err = r.Get(ctx, "zzz")
	assert.ErrorIs(t, err, export.ErrJobNotFound)

	require.NoError(t, r.Delete(ctx, "a"))
	assert.ErrorIs(t, r.Delete(ctx, "a"), export.ErrJobNotFound)
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", []byte(`{"a":1}`)))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, _ = kv.Get(ctx, "k")
	assert.False(t, ok)
}
