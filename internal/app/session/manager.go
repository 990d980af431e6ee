// Package session provides the session manager that drives the mood pipeline
// of the single signed-in user.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/app/auth"
	"github.com/osa030/moodtunes/internal/app/classifier"
	"github.com/osa030/moodtunes/internal/app/export"
	"github.com/osa030/moodtunes/internal/app/notification"
	"github.com/osa030/moodtunes/internal/app/playback"
	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	"github.com/osa030/moodtunes/internal/app/recommend"
	"github.com/osa030/moodtunes/internal/app/sessionlog"
	"github.com/osa030/moodtunes/internal/app/settings"
	domainexport "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/domain/user"
	"github.com/osa030/moodtunes/internal/infra/metrics"
)

var (
	ErrSuperseded        = errors.New("superseded by a newer request")
	ErrNoMood            = errors.New("no mood detected yet")
	ErrNoRecommendations = errors.New("no recommendations to play")
	ErrEmptyPlaylist     = errors.New("playlist has no tracks")
	ErrClosed            = errors.New("session is closed")
)

// DefaultClassificationTimeout bounds one classification.
const DefaultClassificationTimeout = 10 * time.Second

// Accounts is the auth provider plus the login operations the session drives.
type Accounts interface {
	auth.Provider
	Login(ctx context.Context, email, name string) (*user.User, error)
	Logout(ctx context.Context) error
}

// Deps are the components the manager orchestrates.
type Deps struct {
	Classifiers *classifier.Set
	Recommender *recommend.Engine
	Playback    *playback.Controller
	Playlists   *playlistapp.Store
	Exports     *export.Coordinator
	Hub         *notification.Manager
	Settings    *settings.Service
	Accounts    Accounts
	Metrics     *metrics.Metrics
}

// Options tune the manager.
type Options struct {
	HistorySize           int
	ClassificationTimeout time.Duration
}

// MoodDetected is the payload of mood.detected and navigate.recommendations.
type MoodDetected struct {
	Mood    mood.Sample   `json:"mood"`
	History []mood.Sample `json:"history"`
}

// PlaylistCreated is the payload of navigate.playlists.
type PlaylistCreated struct {
	NewPlaylist playlist.View `json:"new_playlist"`
}

// PlaybackChanged is the payload of playback.* events.
type PlaybackChanged struct {
	TrackID string `json:"track_id,omitempty"`
	State   string `json:"state"`
	Volume  int    `json:"volume"`
}

// Manager manages the single logical session.
type Manager struct {
	mu sync.Mutex

	// Components
	classifiers *classifier.Set
	recommender *recommend.Engine
	playback    *playback.Controller
	playlists   *playlistapp.Store
	exports     *export.Coordinator
	hub         *notification.Manager
	settings    *settings.Service
	accounts    Accounts
	metrics     *metrics.Metrics

	log                   *sessionlog.Log
	classificationTimeout time.Duration

	// In-flight requests, last write wins
	classifying  inflight
	recommending inflight

	recommendations []track.RankedTrack
	now             func() time.Time

	// Channels
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewManager creates a new session manager.
func NewManager(deps Deps, opts Options) (*Manager, error) {
	switch {
	case deps.Classifiers == nil:
		return nil, errors.New("session: classifiers are required")
	case deps.Recommender == nil:
		return nil, errors.New("session: recommender is required")
	case deps.Playback == nil:
		return nil, errors.New("session: playback is required")
	case deps.Playlists == nil:
		return nil, errors.New("session: playlist store is required")
	case deps.Hub == nil:
		return nil, errors.New("session: event hub is required")
	case deps.Settings == nil:
		return nil, errors.New("session: settings are required")
	case deps.Accounts == nil:
		return nil, errors.New("session: accounts are required")
	}

	if opts.HistorySize <= 0 {
		opts.HistorySize = sessionlog.DefaultCapacity
	}
	if opts.ClassificationTimeout <= 0 {
		opts.ClassificationTimeout = DefaultClassificationTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		classifiers:           deps.Classifiers,
		recommender:           deps.Recommender,
		playback:              deps.Playback,
		playlists:             deps.Playlists,
		exports:               deps.Exports,
		hub:                   deps.Hub,
		settings:              deps.Settings,
		accounts:              deps.Accounts,
		metrics:               deps.Metrics,
		log:                   sessionlog.New(opts.HistorySize),
		classificationTimeout: opts.ClassificationTimeout,
		now:                   time.Now,
		ctx:                   ctx,
		cancel:                cancel,
	}, nil
}

// Start starts the playback event loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.playbackLoop()
	}()
	zlog.Info().Msg("session: started")
}

// Close cancels in-flight work and stops the event loop.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.classifying.stop()
	m.recommending.stop()
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	zlog.Info().Msg("session: closed")
}

// DetectMood classifies one input and appends the sample to the session log.
// A newer call cancels this one, which then fails with ErrSuperseded.
func (m *Manager) DetectMood(ctx context.Context, in classifier.Input) (mood.Sample, error) {
	modality := string(in.Modality)

	if in.Modality == mood.ModalityCamera && !m.settings.AllowFacialRecognition(ctx) {
		m.metrics.ObserveClassification(modality, "unavailable")
		return mood.Sample{}, errors.Wrap(classifier.ErrClassificationUnavailable, "facial recognition is turned off")
	}

	ctx, cancel := context.WithTimeout(ctx, m.classificationTimeout)
	defer cancel()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return mood.Sample{}, ErrClosed
	}
	gen := m.classifying.begin(cancel)
	m.mu.Unlock()

	sample, err := m.classifiers.Classify(ctx, in)

	m.mu.Lock()
	if !m.classifying.current(gen) {
		m.mu.Unlock()
		m.metrics.ObserveClassification(modality, "superseded")
		zlog.Debug().Msgf("session: classification superseded modality=%s", modality)
		return mood.Sample{}, ErrSuperseded
	}
	m.classifying.finish(gen)
	if err != nil {
		m.mu.Unlock()
		m.metrics.ObserveClassification(modality, "error")
		return mood.Sample{}, err
	}
	m.log.Append(sample)
	history := m.log.Entries()
	m.mu.Unlock()

	m.metrics.ObserveClassification(modality, "ok")
	zlog.Info().Msgf("session: mood detected label=%s modality=%s confidence=%.2f", sample.Label, sample.Modality, sample.Confidence)

	payload := MoodDetected{Mood: sample, History: history}
	m.hub.Publish(notification.EventMoodDetected, payload)
	m.hub.Publish(notification.EventNavigateRecommendations, payload)
	return sample, nil
}

// Recommend ranks tracks for the latest detected mood.
func (m *Manager) Recommend(ctx context.Context, genres []string) ([]track.RankedTrack, error) {
	sample, ok := m.log.Latest()
	if !ok {
		return nil, ErrNoMood
	}
	return m.RecommendFor(ctx, sample, genres)
}

// RecommendFor ranks tracks for sample. A newer call cancels this one,
// which then fails with ErrSuperseded.
func (m *Manager) RecommendFor(ctx context.Context, sample mood.Sample, genres []string) ([]track.RankedTrack, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	gen := m.recommending.begin(cancel)
	m.mu.Unlock()

	started := m.now()
	ranked, err := m.recommender.Recommend(ctx, sample, genres)

	m.mu.Lock()
	if !m.recommending.current(gen) {
		m.mu.Unlock()
		m.metrics.ObserveRecommendation("superseded", time.Since(started))
		return nil, ErrSuperseded
	}
	m.recommending.finish(gen)
	if err != nil {
		m.mu.Unlock()
		m.metrics.ObserveRecommendation("error", time.Since(started))
		return nil, err
	}
	m.recommendations = ranked
	m.mu.Unlock()

	m.metrics.ObserveRecommendation("ok", time.Since(started))
	zlog.Info().Msgf("session: recommended mood=%s genres=%v count=%d", sample.Label, genres, len(ranked))
	return ranked, nil
}

// Recommendations returns the latest successful recommendation list.
func (m *Manager) Recommendations() []track.RankedTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]track.RankedTrack, len(m.recommendations))
	copy(out, m.recommendations)
	return out
}

// SaveAsPlaylist creates a playlist for the latest mood. Without track ids the
// latest recommendations are saved.
func (m *Manager) SaveAsPlaylist(ctx context.Context, name, description string, trackIDs []string) (playlist.View, error) {
	sample, ok := m.log.Latest()
	if !ok {
		return playlist.View{}, ErrNoMood
	}
	if len(trackIDs) == 0 {
		trackIDs = rankedIDs(m.Recommendations())
	}

	view, err := m.playlists.Create(ctx, name, description, sample.Label, trackIDs)
	if err != nil {
		return playlist.View{}, err
	}

	m.hub.Publish(notification.EventNavigatePlaylists, PlaylistCreated{NewPlaylist: view})
	return view, nil
}

// PlayRecommendations queues the latest recommendations and plays startTrackID,
// or the top track when it is empty.
func (m *Manager) PlayRecommendations(ctx context.Context, startTrackID string) (playback.Snapshot, error) {
	ids := rankedIDs(m.Recommendations())
	if len(ids) == 0 {
		return playback.Snapshot{}, ErrNoRecommendations
	}
	return m.playQueue(ids, startTrackID)
}

// PlayPlaylist queues a playlist, plays its first track and records the play.
func (m *Manager) PlayPlaylist(ctx context.Context, playlistID string) (playback.Snapshot, error) {
	view, err := m.playlists.Get(ctx, playlistID)
	if err != nil {
		return playback.Snapshot{}, err
	}
	if view.TrackCount == 0 {
		return playback.Snapshot{}, errors.Wrapf(ErrEmptyPlaylist, "playlist %s", playlistID)
	}

	snap, err := m.playQueue(view.Tracks, "")
	if err != nil {
		return playback.Snapshot{}, err
	}
	if _, err := m.playlists.MarkPlayed(ctx, playlistID, m.now()); err != nil {
		zlog.Warn().Msgf("session: failed to record play of playlist %s: %v", playlistID, err)
	}
	return snap, nil
}

func (m *Manager) playQueue(ids []string, start string) (playback.Snapshot, error) {
	if n := m.playback.SetQueue(ids); n == 0 {
		return playback.Snapshot{}, ErrNoRecommendations
	}
	if start == "" {
		start = m.playback.Snapshot().Queue[0]
	}
	if err := m.playback.Play(start); err != nil {
		return playback.Snapshot{}, err
	}
	return m.playback.Snapshot(), nil
}

// StartExport starts an export and announces its outcome on the hub.
func (m *Manager) StartExport(ctx context.Context, playlistID string, target domainexport.Target, options map[string]any) (*domainexport.Job, error) {
	if m.exports == nil {
		return nil, errors.Wrap(export.ErrUnsupportedTarget, "exports are not configured")
	}
	job, err := m.exports.Start(ctx, playlistID, target, options)
	if err != nil {
		return nil, err
	}
	m.announceExport(job.ID)
	return job, nil
}

// StartExports starts one export per playlist. Jobs that started are
// returned together with the combined error of those that did not.
func (m *Manager) StartExports(ctx context.Context, playlistIDs []string, target domainexport.Target, options map[string]any) ([]*domainexport.Job, error) {
	if m.exports == nil {
		return nil, errors.Wrap(export.ErrUnsupportedTarget, "exports are not configured")
	}
	jobs, err := m.exports.StartMany(ctx, playlistIDs, target, options)
	for _, job := range jobs {
		m.announceExport(job.ID)
	}
	return jobs, err
}

// announceExport publishes export.finished once the job has finished.
func (m *Manager) announceExport(jobID string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		finished, err := m.exports.Wait(m.ctx, jobID)
		if err != nil {
			return
		}
		m.hub.Publish(notification.EventExportFinished, finished)
	}()
}

// Login signs the user in.
func (m *Manager) Login(ctx context.Context, email, name string) (*user.User, error) {
	u, err := m.accounts.Login(ctx, email, name)
	if err != nil {
		return nil, err
	}
	m.hub.Publish(notification.EventLoggedIn, u)
	return u, nil
}

// Logout signs the user out, clears the mood log and stops playback.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.accounts.Logout(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.classifying.stop()
	m.recommending.stop()
	m.log.Clear()
	m.recommendations = nil
	m.mu.Unlock()

	m.playback.Clear()
	m.hub.Publish(notification.EventLoggedOut, nil)
	zlog.Info().Msg("session: logged out, session state cleared")
	return nil
}

// CurrentUser returns the signed-in user.
func (m *Manager) CurrentUser(ctx context.Context) (*user.User, bool) {
	return m.accounts.CurrentUser(ctx)
}

// History returns the session mood log, newest first.
func (m *Manager) History() []mood.Sample {
	return m.log.Entries()
}

// LatestMood returns the most recent sample.
func (m *Manager) LatestMood() (mood.Sample, bool) {
	return m.log.Latest()
}

// Stats summarizes the session mood log.
func (m *Manager) Stats() sessionlog.Stats {
	return m.log.Stats(m.now())
}

// Done is closed when the manager is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Playback returns the playback controller.
func (m *Manager) Playback() *playback.Controller {
	return m.playback
}

// Hub returns the event hub.
func (m *Manager) Hub() *notification.Manager {
	return m.hub
}

// playbackLoop republishes playback events on the hub.
func (m *Manager) playbackLoop() {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("playback loop panicked: %v", r)
			// Restart loop to keep events flowing
			zlog.Info().Msg("restarting playback loop")
			m.wg.Add(1)
			go func() {
				defer m.wg.Done()
				m.playbackLoop()
			}()
		}
	}()

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-m.playback.Events():
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		}
	}
}

func (m *Manager) handlePlaybackEvent(event playback.Event) {
	name := event.Type.String()
	zlog.Debug().Msgf("playback event: type=%s track_id=%s state=%s", name, event.TrackID, event.State)

	m.metrics.ObservePlaybackEvent(name)
	m.hub.Publish(notification.EventPlaybackPrefix+name, PlaybackChanged{
		TrackID: event.TrackID,
		State:   event.State.String(),
		Volume:  event.Volume,
	})
}

func rankedIDs(ranked []track.RankedTrack) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Track.ID
	}
	return ids
}
