package export

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	domain "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
	"github.com/osa030/moodtunes/internal/infra/metrics"
)

// Errors
var (
	ErrAlreadyRunning    = errors.New("export already running")
	ErrExportFailed      = errors.New("export failed")
	ErrUnsupportedTarget = errors.New("unsupported export target")
)

// Playlists is the playlist API the coordinator reads from and writes export flags through.
type Playlists interface {
	Get(ctx context.Context, id string) (playlist.View, error)
	MarkExported(ctx context.Context, id string, target domain.Target) (playlist.View, error)
}

// Coordinator runs at most one export per (playlist, target) pair at a time.
type Coordinator struct {
	mu sync.Mutex

	playlists Playlists
	catalog   track.Catalog
	jobs      domain.Repository
	exporters map[domain.Target]Exporter
	metrics   *metrics.Metrics

	running map[string]string        // job key -> running job ID
	done    map[string]chan struct{} // job ID -> closed when the job finishes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewCoordinator creates a coordinator with the given exporters.
func NewCoordinator(playlists Playlists, catalog track.Catalog, jobs domain.Repository, m *metrics.Metrics, exporters ...Exporter) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		playlists: playlists,
		catalog:   catalog,
		jobs:      jobs,
		exporters: make(map[domain.Target]Exporter, len(exporters)),
		metrics:   m,
		running:   make(map[string]string),
		done:      make(map[string]chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
	for _, e := range exporters {
		c.exporters[e.Target()] = e
	}
	return c
}

// DefaultExporters builds the exporters for every target from config.
func DefaultExporters(cfg *config.Config) []Exporter {
	return []Exporter{
		NewExternalServiceExporter(cfg.Export.ExternalBaseURL, time.Duration(cfg.Export.ExternalDelayMs)*time.Millisecond),
		NewShareLinkExporter(cfg.Export.ShareBaseURL),
		M3UExporter{},
		NewJSONExporter(),
	}
}

// Start creates a job for (playlistID, target) and runs it in the background.
// The returned job is already running.
func (c *Coordinator) Start(ctx context.Context, playlistID string, target domain.Target, options map[string]any) (*domain.Job, error) {
	exporter, ok := c.exporters[target]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedTarget, "target %s", target)
	}
	if err := exporter.ValidateOptions(options); err != nil {
		return nil, err
	}

	view, err := c.playlists.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:         uuid.New().String(),
		PlaylistID: playlistID,
		Target:     target,
		Status:     domain.StatusPending,
		StartedAt:  c.now(),
	}

	c.mu.Lock()
	if running, busy := c.running[job.Key()]; busy {
		c.mu.Unlock()
		return nil, errors.Wrapf(ErrAlreadyRunning, "playlist %s target %s job %s", playlistID, target, running)
	}
	if err := c.jobs.Save(ctx, job); err != nil {
		c.mu.Unlock()
		return nil, errors.Wrap(err, "failed to save export job")
	}
	job.Status = domain.StatusRunning
	if err := c.jobs.Save(ctx, job); err != nil {
		c.mu.Unlock()
		return nil, errors.Wrap(err, "failed to save export job")
	}
	c.running[job.Key()] = job.ID
	c.done[job.ID] = make(chan struct{})
	c.wg.Add(1)
	c.mu.Unlock()

	c.metrics.ExportStarted()
	zlog.Info().Msgf("export: started job=%s playlist=%s target=%s", job.ID, playlistID, target)

	req := Request{
		Playlist: view,
		Tracks:   c.resolveTracks(view.Tracks),
		Options:  options,
	}
	go c.run(job.Clone(), exporter, req)

	return job, nil
}

// Run starts an export and waits for it to finish.
// A failed job is returned together with ErrExportFailed.
func (c *Coordinator) Run(ctx context.Context, playlistID string, target domain.Target, options map[string]any) (*domain.Job, error) {
	job, err := c.Start(ctx, playlistID, target, options)
	if err != nil {
		return nil, err
	}
	job, err = c.Wait(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if job.Status == domain.StatusFailed {
		return job, errors.Wrapf(ErrExportFailed, "job %s: %s", job.ID, job.Error)
	}
	return job, nil
}

// StartMany starts one export per playlist. Playlists that cannot be started
// are reported in the combined error; the others still run.
func (c *Coordinator) StartMany(ctx context.Context, playlistIDs []string, target domain.Target, options map[string]any) ([]*domain.Job, error) {
	jobs := make([]*domain.Job, 0, len(playlistIDs))
	var combined error
	for _, id := range playlistIDs {
		job, err := c.Start(ctx, id, target, options)
		if err != nil {
			combined = errors.CombineErrors(combined, errors.Wrapf(err, "playlist %s", id))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, combined
}

// Wait blocks until the job has finished or ctx is done.
func (c *Coordinator) Wait(ctx context.Context, jobID string) (*domain.Job, error) {
	c.mu.Lock()
	ch := c.done[jobID]
	c.mu.Unlock()

	if ch != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
	return c.Get(ctx, jobID)
}

// Get returns a job.
func (c *Coordinator) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return c.jobs.Get(ctx, jobID)
}

// List returns the jobs of a playlist, or all jobs when playlistID is empty.
func (c *Coordinator) List(ctx context.Context, playlistID string) ([]*domain.Job, error) {
	all, err := c.jobs.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list export jobs")
	}
	if playlistID == "" {
		return all, nil
	}
	out := make([]*domain.Job, 0, len(all))
	for _, j := range all {
		if j.PlaylistID == playlistID {
			out = append(out, j)
		}
	}
	return out, nil
}

// Prune deletes finished jobs that finished before the cutoff.
func (c *Coordinator) Prune(ctx context.Context, before time.Time) (int, error) {
	all, err := c.jobs.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list export jobs")
	}

	pruned := 0
	for _, j := range all {
		if !j.Status.IsFinished() || j.FinishedAt == nil || !j.FinishedAt.Before(before) {
			continue
		}
		if err := c.jobs.Delete(ctx, j.ID); err != nil && !errors.Is(err, domain.ErrJobNotFound) {
			return pruned, errors.Wrapf(err, "failed to delete job %s", j.ID)
		}
		pruned++
	}
	if pruned > 0 {
		zlog.Info().Msgf("export: pruned %d finished jobs", pruned)
	}
	return pruned, nil
}

// Close cancels running exports and waits for them to finish.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}

// run executes the exporter and records the outcome.
func (c *Coordinator) run(job *domain.Job, exporter Exporter, req Request) {
	defer c.wg.Done()

	result, err := exporter.Export(c.ctx, req)
	if err == nil && job.Target == domain.TargetExternalService {
		// the flag is written before the running slot is released
		if _, markErr := c.playlists.MarkExported(c.ctx, job.PlaylistID, job.Target); markErr != nil {
			err = errors.Wrap(markErr, "failed to mark playlist exported")
		}
	}

	finished := c.now()
	job.FinishedAt = &finished
	if err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
		zlog.Warn().Msgf("export: job=%s playlist=%s target=%s failed: %v", job.ID, job.PlaylistID, job.Target, err)
	} else {
		job.Status = domain.StatusSuccess
		job.Result = &result
		zlog.Info().Msgf("export: job=%s playlist=%s target=%s succeeded", job.ID, job.PlaylistID, job.Target)
	}

	c.mu.Lock()
	if saveErr := c.jobs.Save(context.Background(), job); saveErr != nil {
		zlog.Error().Msgf("export: failed to save job %s: %v", job.ID, saveErr)
	}
	delete(c.running, job.Key())
	if ch, ok := c.done[job.ID]; ok {
		close(ch)
		delete(c.done, job.ID)
	}
	c.mu.Unlock()

	c.metrics.ExportFinished(string(job.Target), string(job.Status), finished.Sub(job.StartedAt))
}

func (c *Coordinator) resolveTracks(ids []string) []track.Track {
	out := make([]track.Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.catalog.Get(id); ok {
			out = append(out, t)
		}
	}
	return out
}
