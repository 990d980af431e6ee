package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	domain "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/catalog"
	"github.com/osa030/moodtunes/internal/infra/metrics"
	"github.com/osa030/moodtunes/internal/infra/store/memory"
)

// gateExporter blocks every export until released.
type gateExporter struct {
	target  domain.Target
	release chan struct{}
	fail    error
}

func newGateExporter(target domain.Target) *gateExporter {
	return &gateExporter{target: target, release: make(chan struct{})}
}

func (g *gateExporter) Target() domain.Target { return g.target }

func (g *gateExporter) ValidateOptions(map[string]any) error { return nil }

func (g *gateExporter) Export(ctx context.Context, req Request) (domain.Result, error) {
	select {
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	case <-g.release:
	}
	if g.fail != nil {
		return domain.Result{}, g.fail
	}
	return domain.Result{URL: "https://example.test/" + req.Playlist.ID}, nil
}

type fixture struct {
	store *playlistapp.Store
	coord *Coordinator
	id    string
}

func newFixture(t *testing.T, exporters ...Exporter) fixture {
	t.Helper()
	cat := catalog.Default()
	store := playlistapp.NewStore(memory.NewPlaylistRepository(), cat)
	p, err := store.Create(context.Background(), "Export me", "", mood.Happy, []string{"track-1", "track-2"})
	require.NoError(t, err)

	coord := NewCoordinator(store, cat, memory.NewJobRepository(), metrics.New(prometheus.NewRegistry()), exporters...)
	t.Cleanup(coord.Close)
	return fixture{store: store, coord: coord, id: p.ID}
}

func TestCoordinator_AlreadyRunningThenSuccess(t *testing.T) {
	ctx := context.Background()
	gate := newGateExporter(domain.TargetExternalService)
	f := newFixture(t, gate)

	first, err := f.coord.Start(ctx, f.id, domain.TargetExternalService, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, first.Status)

	_, err = f.coord.Start(ctx, f.id, domain.TargetExternalService, nil)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(gate.release)
	done, err := f.coord.Wait(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, done.Status)
	require.NotNil(t, done.FinishedAt)
	require.NotNil(t, done.Result)

	p, err := f.store.Get(ctx, f.id)
	require.NoError(t, err)
	assert.True(t, p.IsExported(domain.TargetExternalService))

	third, err := f.coord.Run(ctx, f.id, domain.TargetExternalService, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, third.Status)
}

func TestCoordinator_DifferentTargetsRunConcurrently(t *testing.T) {
	ctx := context.Background()
	ext := newGateExporter(domain.TargetExternalService)
	share := newGateExporter(domain.TargetShareLink)
	f := newFixture(t, ext, share)

	_, err := f.coord.Start(ctx, f.id, domain.TargetExternalService, nil)
	require.NoError(t, err)
	_, err = f.coord.Start(ctx, f.id, domain.TargetShareLink, nil)
	require.NoError(t, err)

	close(ext.release)
	close(share.release)
}

func TestCoordinator_Failure(t *testing.T) {
	ctx := context.Background()
	gate := newGateExporter(domain.TargetExternalService)
	gate.fail = errors.New("service unavailable")
	close(gate.release)
	f := newFixture(t, gate)

	job, err := f.coord.Run(ctx, f.id, domain.TargetExternalService, nil)
	assert.ErrorIs(t, err, ErrExportFailed)
	require.NotNil(t, job)
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Contains(t, job.Error, "service unavailable")

	p, err := f.store.Get(ctx, f.id)
	require.NoError(t, err)
	assert.False(t, p.IsExported(domain.TargetExternalService), "failed export sets no flag")

	_, err = f.coord.Start(ctx, f.id, domain.TargetExternalService, nil)
	assert.NoError(t, err, "retry is allowed after failure")
}

func TestCoordinator_StartErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, M3UExporter{})

	_, err := f.coord.Start(ctx, "missing", domain.TargetFileM3U, nil)
	assert.ErrorIs(t, err, playlist.ErrNotFound)

	_, err = f.coord.Start(ctx, f.id, domain.TargetShareLink, nil)
	assert.ErrorIs(t, err, ErrUnsupportedTarget)

	_, err = f.coord.Start(ctx, f.id, domain.TargetFileM3U, map[string]any{"include_metadata": "not-a-bool"})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestCoordinator_FileExportsDoNotSetFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, M3UExporter{}, NewJSONExporter())

	job, err := f.coord.Run(ctx, f.id, domain.TargetFileM3U, map[string]any{"include_metadata": true})
	require.NoError(t, err)
	assert.Equal(t, "audio/x-mpegurl", job.Result.ContentType)

	_, err = f.coord.Run(ctx, f.id, domain.TargetFileJSON, nil)
	require.NoError(t, err)

	p, err := f.store.Get(ctx, f.id)
	require.NoError(t, err)
	assert.Empty(t, p.ExportedFlags)
}

func TestCoordinator_StartManyAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, M3UExporter{})
	other, err := f.store.Create(ctx, "Other", "", mood.Calm, []string{"track-7"})
	require.NoError(t, err)

	jobs, err := f.coord.StartMany(ctx, []string{f.id, other.ID, "missing"}, domain.TargetFileM3U, nil)
	assert.ErrorIs(t, err, playlist.ErrNotFound)
	require.Len(t, jobs, 2)

	for _, j := range jobs {
		_, err := f.coord.Wait(ctx, j.ID)
		require.NoError(t, err)
	}

	all, err := f.coord.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.coord.List(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, other.ID, mine[0].PlaylistID)
}

func TestCoordinator_Prune(t *testing.T) {
	ctx := context.Background()
	gate := newGateExporter(domain.TargetShareLink)
	f := newFixture(t, M3UExporter{}, gate)

	finished, err := f.coord.Run(ctx, f.id, domain.TargetFileM3U, nil)
	require.NoError(t, err)
	running, err := f.coord.Start(ctx, f.id, domain.TargetShareLink, nil)
	require.NoError(t, err)

	n, err := f.coord.Prune(ctx, finished.FinishedAt.Add(-time.Second))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.coord.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.coord.Get(ctx, finished.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	_, err = f.coord.Get(ctx, running.ID)
	assert.NoError(t, err, "running jobs are never pruned")

	close(gate.release)
}

func TestCoordinator_WaitCancelled(t *testing.T) {
	gate := newGateExporter(domain.TargetExternalService)
	f := newFixture(t, gate)

	job, err := f.coord.Start(context.Background(), f.id, domain.TargetExternalService, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.coord.Wait(ctx, job.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(gate.release)
}

func TestExporters(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	t1, _ := cat.Get("track-1")
	t2, _ := cat.Get("track-2")
	p := &playlist.Playlist{ID: "p1", Name: "Sunny", Mood: mood.Happy, Tracks: []string{"track-1", "track-2"}}
	req := Request{Playlist: playlist.NewView(p, cat), Tracks: []track.Track{t1, t2}}

	t.Run("external service", func(t *testing.T) {
		res, err := NewExternalServiceExporter("https://open.example/playlist/", 0).Export(ctx, req)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URL, "https://open.example/playlist/"))
		assert.NotContains(t, strings.TrimPrefix(res.URL, "https://open.example/playlist/"), "-")
	})

	t.Run("external service honours cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewExternalServiceExporter("https://open.example", time.Hour).Export(cctx, req)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("share link", func(t *testing.T) {
		res, err := NewShareLinkExporter("https://share.example").Export(ctx, req)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URL, "https://share.example/"))
		assert.Contains(t, string(res.Content), "A mood-based playlist featuring 2 tracks")
		assert.Contains(t, string(res.Content), `"title":"Sunny"`)
	})

	t.Run("m3u", func(t *testing.T) {
		res, err := M3UExporter{}.Export(ctx, Request{Playlist: req.Playlist, Tracks: req.Tracks, Options: map[string]any{"include_metadata": true}})
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(res.Content)), "\n")
		assert.Equal(t, []string{
			"#EXTM3U",
			"#PLAYLIST:Sunny",
			"#EXTINF:245,The Happy Collective - Sunshine State of Mind",
			"moodtunes:track:track-1",
			"#EXTINF:198,Neon Nights - Electric Dreams",
			"moodtunes:track:track-2",
		}, lines)

		plain, err := M3UExporter{}.Export(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "#EXTM3U\nmoodtunes:track:track-1\nmoodtunes:track:track-2\n", string(plain.Content))
	})

	t.Run("json", func(t *testing.T) {
		e := NewJSONExporter()
		e.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

		res, err := e.Export(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, string(res.Content), `"exported_at": "2025-01-02T03:04:05Z"`)
		assert.Contains(t, string(res.Content), `"track_ids": [`)
		assert.Contains(t, string(res.Content), `"duration_seconds": 443`)
	})
}
