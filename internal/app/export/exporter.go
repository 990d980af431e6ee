// Package export runs playlist exports to external targets.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	domain "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// ErrInvalidOptions is returned for export options that fail validation.
var ErrInvalidOptions = errors.New("invalid export options")

// Request is everything an exporter needs for one run.
type Request struct {
	Playlist playlist.View
	Tracks   []track.Track // resolved in playlist order
	Options  map[string]any
}

// Exporter writes a playlist to one target.
type Exporter interface {
	// Target returns the target this exporter serves.
	Target() domain.Target
	// ValidateOptions checks options before a job is created.
	ValidateOptions(options map[string]any) error
	// Export performs the export.
	Export(ctx context.Context, req Request) (domain.Result, error)
}

// ExternalOptions are the options of the external service export.
type ExternalOptions struct {
	Public          bool `mapstructure:"public"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
}

// ExternalServiceExporter is a mock streaming-service export: a delay, then a playlist URL.
type ExternalServiceExporter struct {
	baseURL string
	delay   time.Duration
}

// NewExternalServiceExporter creates the mock external service exporter.
func NewExternalServiceExporter(baseURL string, delay time.Duration) *ExternalServiceExporter {
	return &ExternalServiceExporter{baseURL: strings.TrimRight(baseURL, "/"), delay: delay}
}

func (e *ExternalServiceExporter) Target() domain.Target {
	return domain.TargetExternalService
}

func (e *ExternalServiceExporter) ValidateOptions(options map[string]any) error {
	var opts ExternalOptions
	return decodeOptions(options, &opts)
}

func (e *ExternalServiceExporter) Export(ctx context.Context, req Request) (domain.Result, error) {
	var opts ExternalOptions
	if err := decodeOptions(req.Options, &opts); err != nil {
		return domain.Result{}, err
	}
	if len(req.Tracks) == 0 {
		return domain.Result{}, errors.New("playlist has no tracks")
	}

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return domain.Result{URL: e.baseURL + "/" + id}, nil
}

// ShareOptions are the share link settings.
type ShareOptions struct {
	Title         string `mapstructure:"title" json:"title" validate:"max=100"`
	Description   string `mapstructure:"description" json:"description" validate:"max=500"`
	AllowComments bool   `mapstructure:"allow_comments" json:"allow_comments"`
	AllowDownload bool   `mapstructure:"allow_download" json:"allow_download"`
}

// ShareLinkExporter creates a shareable link.
type ShareLinkExporter struct {
	baseURL string
}

// NewShareLinkExporter creates a share link exporter.
func NewShareLinkExporter(baseURL string) *ShareLinkExporter {
	return &ShareLinkExporter{baseURL: strings.TrimRight(baseURL, "/")}
}

func (e *ShareLinkExporter) Target() domain.Target {
	return domain.TargetShareLink
}

func (e *ShareLinkExporter) ValidateOptions(options map[string]any) error {
	var opts ShareOptions
	return decodeOptions(options, &opts)
}

func (e *ShareLinkExporter) Export(ctx context.Context, req Request) (domain.Result, error) {
	var opts ShareOptions
	if err := decodeOptions(req.Options, &opts); err != nil {
		return domain.Result{}, err
	}
	if opts.Title == "" {
		opts.Title = req.Playlist.Name
	}
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("A mood-based playlist featuring %d tracks", req.Playlist.TrackCount)
	}

	body, err := json.Marshal(opts)
	if err != nil {
		return domain.Result{}, errors.Wrap(err, "failed to encode share settings")
	}
	return domain.Result{
		URL:         e.baseURL + "/" + uuid.New().String(),
		ContentType: "application/json",
		Content:     body,
	}, nil
}

// FileOptions are the options of the file exports.
type FileOptions struct {
	IncludeMetadata bool `mapstructure:"include_metadata"`
}

// M3UExporter renders an extended M3U playlist.
type M3UExporter struct{}

func (M3UExporter) Target() domain.Target {
	return domain.TargetFileM3U
}

func (M3UExporter) ValidateOptions(options map[string]any) error {
	var opts FileOptions
	return decodeOptions(options, &opts)
}

func (M3UExporter) Export(ctx context.Context, req Request) (domain.Result, error) {
	var opts FileOptions
	if err := decodeOptions(req.Options, &opts); err != nil {
		return domain.Result{}, err
	}

	var buf bytes.Buffer
	buf.WriteString("#EXTM3U\n")
	if opts.IncludeMetadata {
		fmt.Fprintf(&buf, "#PLAYLIST:%s\n", req.Playlist.Name)
	}
	for _, t := range req.Tracks {
		if opts.IncludeMetadata {
			fmt.Fprintf(&buf, "#EXTINF:%d,%s - %s\n", t.DurationSeconds, t.Artist, t.Title)
		}
		fmt.Fprintf(&buf, "moodtunes:track:%s\n", t.ID)
	}
	return domain.Result{ContentType: "audio/x-mpegurl", Content: buf.Bytes()}, nil
}

// JSONExporter renders the playlist and its resolved tracks as a JSON document.
type JSONExporter struct {
	now func() time.Time
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{now: time.Now}
}

type jsonDocument struct {
	SchemaVersion int           `json:"schema_version"`
	ExportedAt    time.Time     `json:"exported_at"`
	Playlist      playlist.View `json:"playlist"`
	Tracks        []track.Track `json:"tracks,omitempty"`
	TrackIDs      []string      `json:"track_ids,omitempty"`
}

func (e *JSONExporter) Target() domain.Target {
	return domain.TargetFileJSON
}

func (e *JSONExporter) ValidateOptions(options map[string]any) error {
	var opts FileOptions
	return decodeOptions(options, &opts)
}

func (e *JSONExporter) Export(ctx context.Context, req Request) (domain.Result, error) {
	var opts FileOptions
	if err := decodeOptions(req.Options, &opts); err != nil {
		return domain.Result{}, err
	}

	doc := jsonDocument{
		SchemaVersion: playlist.SchemaVersion,
		ExportedAt:    e.now().UTC(),
		Playlist:      req.Playlist,
	}
	if opts.IncludeMetadata {
		doc.Tracks = req.Tracks
	} else {
		for _, t := range req.Tracks {
			doc.TrackIDs = append(doc.TrackIDs, t.ID)
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domain.Result{}, errors.Wrap(err, "failed to encode playlist")
	}
	return domain.Result{ContentType: "application/json", Content: body}, nil
}

// decodeOptions decodes options into out, applies defaults and validates.
func decodeOptions(options map[string]any, out any) error {
	if err := config.DecodeSettings(options, out); err != nil {
		return errors.Wrapf(ErrInvalidOptions, "%v", err)
	}
	return nil
}
