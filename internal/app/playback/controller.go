package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/track"
)

// Errors
var (
	ErrUnknownTrack = errors.New("unknown track")
	ErrClosed       = errors.New("playback controller closed")
)

// Config holds controller configuration.
type Config struct {
	TickInterval  time.Duration // Interval of the position ticker while playing (0 disables it)
	DefaultVolume int           // Initial volume (0-100)
}

// Controller is the playback session: current track, queue, position and volume.
// Non-play operations on an idle session are no-ops.
type Controller struct {
	mu sync.RWMutex

	catalog track.Catalog

	// Queue management
	queue   []string // Ordered track IDs
	current int      // Index of the current track in queue, -1 when idle

	// Current track state
	state    State
	position time.Duration
	volume   int

	// Ticker
	tickCancel func() // Cancel function for the position ticker
	tickGen    uint64 // Incremented on every ticker start; stale ticks are dropped

	// Configuration
	config Config

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a new playback controller over catalog.
func NewController(catalog track.Catalog, config Config) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		catalog: catalog,
		queue:   make([]string, 0),
		current: -1,
		state:   StateIdle,
		volume:  clampVolume(config.DefaultVolume),
		config:  config,
		eventCh: make(chan Event, 10),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Play makes trackID the current track at position 0 and starts playing.
// The track is appended to the queue if absent. Valid from every state.
func (c *Controller) Play(trackID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if _, ok := c.catalog.Get(trackID); !ok {
		return errors.Wrapf(ErrUnknownTrack, "track %s", trackID)
	}

	idx := c.indexLocked(trackID)
	if idx < 0 {
		c.queue = append(c.queue, trackID)
		idx = len(c.queue) - 1
	}

	c.current = idx
	c.setStateLocked(StatePlaying)
	c.startTrackLocked(idx)
	return nil
}

// Pause pauses playback. No-op unless playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePlaying {
		return
	}
	c.setStateLocked(StatePaused)
}

// Resume resumes paused playback. No-op unless paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return
	}
	c.setStateLocked(StatePlaying)
}

// Tick advances the position by dt while playing. Reaching the end of the
// current track moves to the next one.
func (c *Controller) Tick(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickLocked(dt)
}

func (c *Controller) tickLocked(dt time.Duration) {
	if c.state != StatePlaying || dt <= 0 {
		return
	}

	c.position += dt
	if c.position < c.currentDurationLocked() {
		return
	}

	ended := c.queue[c.current]
	zlog.Debug().Msgf("playback: track ended: track=%s", ended)
	c.sendEventLocked(Event{
		Type:    EventTrackEnded,
		TrackID: ended,
		State:   c.state,
		Volume:  c.volume,
	})
	c.nextLocked()
}

// Next moves to the next track in the queue, wrapping to the start.
// A single-track queue replays the track from position 0.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return
	}
	c.nextLocked()
}

// Previous moves to the previous track in the queue, wrapping to the end.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return
	}
	if len(c.queue) == 0 {
		c.idleLocked()
		return
	}
	c.startTrackLocked((c.current - 1 + len(c.queue)) % len(c.queue))
}

// Seek moves the position to seconds, clamped to [0, duration].
// No-op when idle.
func (c *Controller) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return
	}

	pos := time.Duration(seconds * float64(time.Second))
	duration := c.currentDurationLocked()
	switch {
	case pos < 0:
		pos = 0
	case pos > duration:
		pos = duration
	}
	c.position = pos
}

// SetVolume sets the volume, clamped to [0,100]. Valid in every state.
// Returns the applied volume.
func (c *Controller) SetVolume(v int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	v = clampVolume(v)
	if v == c.volume {
		return v
	}
	c.volume = v
	c.sendEventLocked(Event{
		Type:    EventVolumeChanged,
		TrackID: c.currentIDLocked(),
		State:   c.state,
		Volume:  c.volume,
	})
	return v
}

// SetQueue replaces the queue with ids. Unknown and duplicate ids are skipped.
// The current track keeps playing if it is part of the new queue; otherwise
// the session becomes idle. Returns the number of queued tracks.
func (c *Controller) SetQueue(ids []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentID := c.currentIDLocked()

	queue := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := c.catalog.Get(id); !ok {
			zlog.Warn().Msgf("playback: skipping unknown track in queue: %s", id)
			continue
		}
		seen[id] = true
		queue = append(queue, id)
	}
	c.queue = queue

	if currentID != "" {
		c.current = c.indexLocked(currentID)
		if c.current < 0 {
			c.idleLocked()
		}
	}
	if len(c.queue) == 0 {
		c.sendEventLocked(Event{Type: EventQueueEmpty, State: c.state, Volume: c.volume})
	}
	return len(c.queue)
}

// Remove drops trackID from the queue. Removing the current track moves to
// the track that took its place; an emptied queue makes the session idle.
func (c *Controller) Remove(trackID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(trackID)
	if idx < 0 {
		return
	}
	c.queue = append(c.queue[:idx], c.queue[idx+1:]...)

	switch {
	case c.current < 0:
		// idle, nothing to adjust
	case idx < c.current:
		c.current--
	case idx == c.current:
		if len(c.queue) == 0 {
			c.idleLocked()
			c.sendEventLocked(Event{Type: EventQueueEmpty, State: c.state, Volume: c.volume})
			return
		}
		c.startTrackLocked(idx % len(c.queue))
	}
}

// Stop stops playback completely. The queue is kept.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.idleLocked()
}

// Clear stops playback and empties the queue.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.idleLocked()
	c.queue = make([]string, 0)
}

// GetState returns the current playback state.
func (c *Controller) GetState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot returns a copy of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	queue := make([]string, len(c.queue))
	copy(queue, c.queue)
	return Snapshot{
		State:           c.state,
		CurrentTrackID:  c.currentIDLocked(),
		Queue:           queue,
		PositionSeconds: c.position.Seconds(),
		DurationSeconds: int(c.currentDurationLocked() / time.Second),
		IsPlaying:       c.state == StatePlaying,
		Volume:          c.volume,
	}
}

// Close closes the controller and releases resources.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancel()
	c.stopTickerLocked()
	c.closed = true
	close(c.eventCh)
}

// nextLocked advances to the next track with wraparound.
// Must be called with lock held.
func (c *Controller) nextLocked() {
	if len(c.queue) == 0 {
		c.idleLocked()
		c.sendEventLocked(Event{Type: EventQueueEmpty, State: c.state, Volume: c.volume})
		return
	}
	c.startTrackLocked((c.current + 1) % len(c.queue))
}

// startTrackLocked makes queue[idx] current at position 0.
// Must be called with lock held.
func (c *Controller) startTrackLocked(idx int) {
	c.current = idx
	c.position = 0

	if c.state == StatePlaying {
		// restart the ticker so the new track gets a full first interval
		c.stopTickerLocked()
		c.startTickerLocked()
	}

	zlog.Debug().Msgf("playback: track started: track=%s state=%s", c.queue[idx], c.state)
	c.sendEventLocked(Event{
		Type:    EventTrackStarted,
		TrackID: c.queue[idx],
		State:   c.state,
		Volume:  c.volume,
	})
}

// idleLocked clears the current track and stops the ticker.
// Must be called with lock held.
func (c *Controller) idleLocked() {
	c.current = -1
	c.position = 0
	c.setStateLocked(StateIdle)
}

// setStateLocked applies a state transition, driving the ticker.
// Must be called with lock held.
func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s

	if s == StatePlaying {
		c.startTickerLocked()
	} else {
		c.stopTickerLocked()
	}

	c.sendEventLocked(Event{
		Type:    EventStateChanged,
		TrackID: c.currentIDLocked(),
		State:   c.state,
		Volume:  c.volume,
	})
}

func (c *Controller) currentIDLocked() string {
	if c.current < 0 || c.current >= len(c.queue) {
		return ""
	}
	return c.queue[c.current]
}

func (c *Controller) currentDurationLocked() time.Duration {
	t, ok := c.catalog.Get(c.currentIDLocked())
	if !ok {
		return 0
	}
	return t.Duration()
}

func (c *Controller) indexLocked(trackID string) int {
	for i, id := range c.queue {
		if id == trackID {
			return i
		}
	}
	return -1
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.closed {
		return
	}
	select {
	case c.eventCh <- e:
		// Successfully sent
	case <-c.ctx.Done():
		// Context cancelled, don't send
	default:
		// Channel full, drop event
		zlog.Warn().Msgf("playback: event channel full, dropping %s", e.Type)
	}
}

// startTickerLocked starts the position ticker if configured and not running.
// Must be called with lock held.
func (c *Controller) startTickerLocked() {
	if c.config.TickInterval <= 0 || c.tickCancel != nil || c.closed {
		return
	}
	c.tickGen++
	gen := c.tickGen
	interval := c.config.TickInterval

	ctx, cancel := context.WithCancel(c.ctx)
	c.tickCancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				if gen == c.tickGen && c.tickCancel != nil {
					c.tickLocked(interval)
				}
				c.mu.Unlock()
			}
		}
	}()
}

// stopTickerLocked cancels the position ticker.
// Must be called with lock held.
func (c *Controller) stopTickerLocked() {
	if c.tickCancel != nil {
		c.tickCancel()
		c.tickCancel = nil
	}
}

// ticking reports whether the position ticker is running.
func (c *Controller) ticking() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickCancel != nil
}

func clampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
