package connect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
)

// Services bundles the RPC service implementations.
type Services struct {
	Mood     *MoodService
	Playback *PlaybackService
	Playlist *PlaylistService
	Export   *ExportService
	Account  *AccountService
}

// MountFunc mounts a handler under a path prefix, such as
// (*http.ServeMux).Handle or chi.Router.Mount.
type MountFunc func(prefix string, handler http.Handler)

// Register mounts every service. Requests are authenticated by the
// interceptors in opts.
func Register(mount MountFunc, s Services, opts ...connect.HandlerOption) {
	mount(moodv1connect.NewMoodServiceHandler(s.Mood, opts...))
	mount(moodv1connect.NewPlaybackServiceHandler(s.Playback, opts...))
	mount(moodv1connect.NewPlaylistServiceHandler(s.Playlist, opts...))
	mount(moodv1connect.NewExportServiceHandler(s.Export, opts...))
	mount(moodv1connect.NewAccountServiceHandler(s.Account, opts...))
}
