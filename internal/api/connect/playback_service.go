package connect

import (
	"context"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/playback"
	"github.com/osa030/moodtunes/internal/app/session"
)

// PlaybackService implements the PlaybackService RPC. Every call answers
// with the playback snapshot after the operation.
type PlaybackService struct {
	session *session.Manager
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(s *session.Manager) *PlaybackService {
	return &PlaybackService{session: s}
}

var _ moodv1connect.PlaybackServiceHandler = (*PlaybackService)(nil)

func (s *PlaybackService) snapshot() *connect.Response[moodv1.PlaybackStateResponse] {
	return connect.NewResponse(&moodv1.PlaybackStateResponse{Playback: s.session.Playback().Snapshot()})
}

// apply runs a controller operation that cannot fail.
func (s *PlaybackService) apply(fn func(c *playback.Controller)) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	fn(s.session.Playback())
	return s.snapshot(), nil
}

func (s *PlaybackService) Play(
	ctx context.Context,
	req *connect.Request[moodv1.PlayRequest],
) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	if err := s.session.Playback().Play(req.Msg.TrackID); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return s.snapshot(), nil
}

func (s *PlaybackService) PlayRecommendations(
	ctx context.Context,
	req *connect.Request[moodv1.PlayRecommendationsRequest],
) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	snap, err := s.session.PlayRecommendations(ctx, req.Msg.StartTrackID)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.PlaybackStateResponse{Playback: snap}), nil
}

func (s *PlaybackService) PlayPlaylist(
	ctx context.Context,
	req *connect.Request[moodv1.PlayPlaylistRequest],
) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	snap, err := s.session.PlayPlaylist(ctx, req.Msg.PlaylistID)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.PlaybackStateResponse{Playback: snap}), nil
}

func (s *PlaybackService) Pause(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply((*playback.Controller).Pause)
}

func (s *PlaybackService) Resume(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply((*playback.Controller).Resume)
}

func (s *PlaybackService) Next(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply((*playback.Controller).Next)
}

func (s *PlaybackService) Previous(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply((*playback.Controller).Previous)
}

func (s *PlaybackService) Stop(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply((*playback.Controller).Stop)
}

func (s *PlaybackService) GetState(ctx context.Context, req *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.snapshot(), nil
}

func (s *PlaybackService) Seek(ctx context.Context, req *connect.Request[moodv1.SeekRequest]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply(func(c *playback.Controller) { c.Seek(req.Msg.Seconds) })
}

func (s *PlaybackService) SetVolume(ctx context.Context, req *connect.Request[moodv1.SetVolumeRequest]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply(func(c *playback.Controller) { c.SetVolume(req.Msg.Volume) })
}

func (s *PlaybackService) RemoveFromQueue(ctx context.Context, req *connect.Request[moodv1.RemoveFromQueueRequest]) (*connect.Response[moodv1.PlaybackStateResponse], error) {
	return s.apply(func(c *playback.Controller) { c.Remove(req.Msg.TrackID) })
}
