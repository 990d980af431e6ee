// Package playback provides the playback session state machine and its tick driver.
package playback

import "github.com/cockroachdb/errors"

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No current track
	StatePlaying              // Current track is playing
	StatePaused               // Current track is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "playing":
		*s = StatePlaying
	case "paused":
		*s = StatePaused
	default:
		return errors.Newf("unknown playback state %q", text)
	}
	return nil
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State           State    `json:"state"`
	CurrentTrackID  string   `json:"current_track_id,omitempty"`
	Queue           []string `json:"queue"`
	PositionSeconds float64  `json:"position_seconds"`
	DurationSeconds int      `json:"duration_seconds"`
	IsPlaying       bool     `json:"is_playing"`
	Volume          int      `json:"volume"`
}
