package playback

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted  EventType = iota // Track started playing
	EventTrackEnded                     // Track reached its end
	EventStateChanged                   // Playback state changed (play/pause/stop)
	EventQueueEmpty                     // Queue became empty
	EventVolumeChanged                  // Volume changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventStateChanged:
		return "state_changed"
	case EventQueueEmpty:
		return "queue_empty"
	case EventVolumeChanged:
		return "volume_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type    EventType
	TrackID string // Current track (empty for some events)
	State   State  // Current playback state
	Volume  int
}
