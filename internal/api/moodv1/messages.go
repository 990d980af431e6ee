// Package moodv1 contains the request and response messages of the
// moodtunes.v1 RPC services.
package moodv1

import (
	"github.com/osa030/moodtunes/internal/app/classifier"
	"github.com/osa030/moodtunes/internal/app/feedback"
	"github.com/osa030/moodtunes/internal/app/playback"
	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	"github.com/osa030/moodtunes/internal/app/sessionlog"
	"github.com/osa030/moodtunes/internal/app/settings"
	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/domain/user"
)

// Empty is the message of parameterless calls.
type Empty struct{}

// MoodService

type DetectMoodRequest struct {
	Modality mood.Modality `json:"modality"`
	Text     string        `json:"text,omitempty"`
	Emoji    string        `json:"emoji,omitempty"`
	Category string        `json:"category,omitempty"`
	Frame    []byte        `json:"frame,omitempty"`
}

type DetectMoodResponse struct {
	Mood    mood.Sample   `json:"mood"`
	History []mood.Sample `json:"history"`
}

type GetHistoryResponse struct {
	Entries []mood.Sample    `json:"entries"`
	Stats   sessionlog.Stats `json:"stats"`
}

type GetPaletteResponse struct {
	Categories []classifier.EmojiCategory `json:"categories"`
	Modalities []mood.Modality            `json:"modalities"`
}

// RecommendRequest ranks tracks. Mood overrides the latest detected mood
// when set.
type RecommendRequest struct {
	Genres []string     `json:"genres,omitempty"`
	Mood   *mood.Sample `json:"mood,omitempty"`
}

type RecommendResponse struct {
	Tracks []track.RankedTrack `json:"tracks"`
}

type ListGenresResponse struct {
	Genres []string `json:"genres"`
}

// PlaybackService

type PlayRequest struct {
	TrackID string `json:"track_id"`
}

type PlayRecommendationsRequest struct {
	StartTrackID string `json:"start_track_id,omitempty"`
}

type PlayPlaylistRequest struct {
	PlaylistID string `json:"playlist_id"`
}

type SeekRequest struct {
	Seconds float64 `json:"seconds"`
}

type SetVolumeRequest struct {
	Volume int `json:"volume"`
}

type RemoveFromQueueRequest struct {
	TrackID string `json:"track_id"`
}

type PlaybackStateResponse struct {
	Playback playback.Snapshot `json:"playback"`
}

// PlaylistService

// CreatePlaylistRequest creates a playlist. An empty Mood uses the latest
// detected mood; empty TrackIDs use the latest recommendations.
type CreatePlaylistRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Mood        mood.Label `json:"mood,omitempty"`
	TrackIDs    []string   `json:"track_ids,omitempty"`
}

type PlaylistRequest struct {
	ID string `json:"id"`
}

type ListPlaylistsRequest struct {
	Mood   string `json:"mood,omitempty"`
	Search string `json:"search,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

type RenamePlaylistRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateDescriptionRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type PlaylistTracksRequest struct {
	ID       string   `json:"id"`
	TrackIDs []string `json:"track_ids"`
}

type ReorderRequest struct {
	ID       string `json:"id"`
	TrackID  string `json:"track_id"`
	NewIndex int    `json:"new_index"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type PlaylistResponse struct {
	Playlist playlist.View `json:"playlist"`
}

type ListPlaylistsResponse struct {
	Playlists []playlist.View `json:"playlists"`
}

type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

type PlaylistStatsResponse struct {
	Stats playlistapp.Stats `json:"stats"`
}

// ExportService

type StartExportRequest struct {
	PlaylistID string         `json:"playlist_id"`
	Target     export.Target  `json:"target"`
	Options    map[string]any `json:"options,omitempty"`
}

type StartBulkExportRequest struct {
	PlaylistIDs []string       `json:"playlist_ids"`
	Target      export.Target  `json:"target"`
	Options     map[string]any `json:"options,omitempty"`
}

type ExportJobRequest struct {
	JobID string `json:"job_id"`
}

type ListExportsRequest struct {
	PlaylistID string `json:"playlist_id,omitempty"`
}

type ExportJobResponse struct {
	Job *export.Job `json:"job"`
}

type ExportJobsResponse struct {
	Jobs []*export.Job `json:"jobs"`
}

// AccountService

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type UserResponse struct {
	User *user.User `json:"user"`
}

type SettingsRequest struct {
	Settings settings.Settings `json:"settings"`
}

type SettingsResponse struct {
	Settings settings.Settings `json:"settings"`
}

type SubmitFeedbackRequest struct {
	TrackID string     `json:"track_id"`
	Mood    mood.Label `json:"mood,omitempty"`
	Rating  int        `json:"rating"`
	Comment string     `json:"comment,omitempty"`
}

type FeedbackResponse struct {
	Feedback feedback.Feedback `json:"feedback"`
	Label    string            `json:"label"`
}

type ListFeedbackResponse struct {
	Feedback []feedback.Feedback `json:"feedback"`
}

// Event is one event of the WatchEvents stream.
type Event struct {
	SequenceNo uint64 `json:"sequence_no"`
	Type       string `json:"type"`
	At         string `json:"at"`
	Payload    any    `json:"payload,omitempty"`
}
