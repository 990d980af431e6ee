package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/catalog"
)

func newTestController(t *testing.T, cfg Config) *Controller {
	t.Helper()
	c := NewController(catalog.New([]track.Track{
		{ID: "a", DurationSeconds: 10},
		{ID: "b", DurationSeconds: 20},
		{ID: "c", DurationSeconds: 30},
	}), cfg)
	t.Cleanup(c.Close)
	return c
}

func drain(c *Controller) []EventType {
	var types []EventType
	for {
		select {
		case e := <-c.Events():
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestController_IdleOperationsAreNoOps(t *testing.T) {
	c := newTestController(t, Config{DefaultVolume: 50})

	c.Pause()
	c.Resume()
	c.Next()
	c.Previous()
	c.Seek(5)
	c.Tick(time.Second)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.CurrentTrackID)
	assert.Zero(t, snap.PositionSeconds)
	assert.Empty(t, drain(c))
}

func TestController_SingleTrackWraparound(t *testing.T) {
	c := newTestController(t, Config{})

	require.NoError(t, c.Play("a"))
	c.Tick(4 * time.Second)
	c.Next()

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, "a", snap.CurrentTrackID)
	assert.Equal(t, []string{"a"}, snap.Queue)
	assert.Zero(t, snap.PositionSeconds)

	c.Tick(3 * time.Second)
	c.Previous()
	assert.Equal(t, "a", c.Snapshot().CurrentTrackID)
	assert.Zero(t, c.Snapshot().PositionSeconds)
}

func TestController_Play(t *testing.T) {
	c := newTestController(t, Config{})

	require.NoError(t, c.Play("a"))
	require.NoError(t, c.Play("b"))
	require.NoError(t, c.Play("a"))

	snap := c.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.Queue, "play appends only absent tracks")
	assert.Equal(t, "a", snap.CurrentTrackID)
	assert.True(t, snap.IsPlaying)

	err := c.Play("missing")
	assert.ErrorIs(t, err, ErrUnknownTrack)
}

func TestController_PauseResume(t *testing.T) {
	c := newTestController(t, Config{})
	require.NoError(t, c.Play("b"))
	drain(c)

	c.Pause()
	assert.Equal(t, StatePaused, c.GetState())
	c.Tick(5 * time.Second)
	assert.Zero(t, c.Snapshot().PositionSeconds, "ticks are ignored while paused")

	c.Resume()
	assert.Equal(t, StatePlaying, c.GetState())
	c.Tick(5 * time.Second)
	assert.Equal(t, 5.0, c.Snapshot().PositionSeconds)

	assert.Equal(t, []EventType{EventStateChanged, EventStateChanged}, drain(c))
}

func TestController_TickAdvancesToNext(t *testing.T) {
	c := newTestController(t, Config{})
	assert.Equal(t, 3, c.SetQueue([]string{"a", "b", "c"}))
	require.NoError(t, c.Play("a"))
	drain(c)

	c.Tick(9 * time.Second)
	assert.Equal(t, "a", c.Snapshot().CurrentTrackID)

	c.Tick(time.Second)
	snap := c.Snapshot()
	assert.Equal(t, "b", snap.CurrentTrackID)
	assert.Zero(t, snap.PositionSeconds)
	assert.Equal(t, []EventType{EventTrackEnded, EventTrackStarted}, drain(c))
}

func TestController_NextPreviousWrap(t *testing.T) {
	c := newTestController(t, Config{})
	c.SetQueue([]string{"a", "b", "c"})
	require.NoError(t, c.Play("c"))

	c.Next()
	assert.Equal(t, "a", c.Snapshot().CurrentTrackID)
	c.Previous()
	assert.Equal(t, "c", c.Snapshot().CurrentTrackID)
	c.Previous()
	assert.Equal(t, "b", c.Snapshot().CurrentTrackID)
}

func TestController_Seek(t *testing.T) {
	tests := []struct {
		name string
		seek float64
		want float64
	}{
		{name: "within range", seek: 12.5, want: 12.5},
		{name: "negative", seek: -3, want: 0},
		{name: "past end", seek: 99, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, Config{})
			require.NoError(t, c.Play("b"))
			c.Pause()

			c.Seek(tt.seek)
			assert.Equal(t, tt.want, c.Snapshot().PositionSeconds)
		})
	}
}

func TestController_SetVolume(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "in range", in: 40, want: 40},
		{name: "below range", in: -10, want: 0},
		{name: "above range", in: 150, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, Config{DefaultVolume: 75})
			assert.Equal(t, tt.want, c.SetVolume(tt.in))
			assert.Equal(t, tt.want, c.Snapshot().Volume)
			assert.Equal(t, StateIdle, c.GetState())
		})
	}
}

func TestController_SetQueue(t *testing.T) {
	c := newTestController(t, Config{})
	require.NoError(t, c.Play("b"))

	n := c.SetQueue([]string{"c", "b", "b", "missing"})
	assert.Equal(t, 2, n)
	snap := c.Snapshot()
	assert.Equal(t, []string{"c", "b"}, snap.Queue)
	assert.Equal(t, "b", snap.CurrentTrackID, "current track kept when still queued")

	c.SetQueue([]string{"a"})
	assert.Equal(t, StateIdle, c.GetState())
	assert.Empty(t, c.Snapshot().CurrentTrackID)
}

func TestController_Remove(t *testing.T) {
	c := newTestController(t, Config{})
	c.SetQueue([]string{"a", "b", "c"})
	require.NoError(t, c.Play("b"))

	c.Remove("a")
	assert.Equal(t, "b", c.Snapshot().CurrentTrackID)

	c.Remove("b")
	snap := c.Snapshot()
	assert.Equal(t, []string{"c"}, snap.Queue)
	assert.Equal(t, "c", snap.CurrentTrackID)

	c.Remove("c")
	assert.Equal(t, StateIdle, c.GetState())
	assert.Empty(t, c.Snapshot().Queue)

	c.Remove("nothing")
	assert.Equal(t, StateIdle, c.GetState())
}

func TestController_StopAndClear(t *testing.T) {
	c := newTestController(t, Config{})
	c.SetQueue([]string{"a", "b"})
	require.NoError(t, c.Play("a"))

	c.Stop()
	assert.Equal(t, StateIdle, c.GetState())
	assert.Len(t, c.Snapshot().Queue, 2)

	c.Clear()
	assert.Empty(t, c.Snapshot().Queue)
}

func TestController_TickerRunsOnlyWhilePlaying(t *testing.T) {
	c := newTestController(t, Config{TickInterval: 10 * time.Millisecond})

	assert.False(t, c.ticking())
	require.NoError(t, c.Play("c"))
	assert.True(t, c.ticking())

	require.Eventually(t, func() bool {
		return c.Snapshot().PositionSeconds > 0
	}, time.Second, 5*time.Millisecond)

	c.Pause()
	assert.False(t, c.ticking())
	pos := c.Snapshot().PositionSeconds
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, pos, c.Snapshot().PositionSeconds)

	c.Resume()
	assert.True(t, c.ticking())
	c.Stop()
	assert.False(t, c.ticking())
}

func TestController_Close(t *testing.T) {
	c := NewController(catalog.Default(), Config{TickInterval: time.Millisecond})
	require.NoError(t, c.Play("track-1"))
	c.Close()
	c.Close()

	assert.False(t, c.ticking())
	assert.ErrorIs(t, c.Play("track-1"), ErrClosed)
}

func TestStateAndEventStrings(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "track_started", EventTrackStarted.String())
	assert.Equal(t, "volume_changed", EventVolumeChanged.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestState_Text(t *testing.T) {
	text, err := StatePlaying.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "playing", string(text))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("paused")))
	assert.Equal(t, StatePaused, s)
	assert.Error(t, s.UnmarshalText([]byte("rewinding")))
}
