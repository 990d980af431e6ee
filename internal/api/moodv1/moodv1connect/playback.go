package moodv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

type playbackResponse = connect.Response[moodv1.PlaybackStateResponse]

// PlaybackServiceHandler is implemented by the server side of PlaybackService.
type PlaybackServiceHandler interface {
	Play(context.Context, *connect.Request[moodv1.PlayRequest]) (*playbackResponse, error)
	PlayRecommendations(context.Context, *connect.Request[moodv1.PlayRecommendationsRequest]) (*playbackResponse, error)
	PlayPlaylist(context.Context, *connect.Request[moodv1.PlayPlaylistRequest]) (*playbackResponse, error)
	Pause(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
	Resume(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
	Next(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
	Previous(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
	Seek(context.Context, *connect.Request[moodv1.SeekRequest]) (*playbackResponse, error)
	SetVolume(context.Context, *connect.Request[moodv1.SetVolumeRequest]) (*playbackResponse, error)
	RemoveFromQueue(context.Context, *connect.Request[moodv1.RemoveFromQueueRequest]) (*playbackResponse, error)
	Stop(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
	GetState(context.Context, *connect.Request[moodv1.Empty]) (*playbackResponse, error)
}

// NewPlaybackServiceHandler returns the mount path and handler of PlaybackService.
func NewPlaybackServiceHandler(svc PlaybackServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := router{}
	unary(r, PlaybackServicePlayProcedure, svc.Play, opts)
	unary(r, PlaybackServicePlayRecommendationsProcedure, svc.PlayRecommendations, opts)
	unary(r, PlaybackServicePlayPlaylistProcedure, svc.PlayPlaylist, opts)
	unary(r, PlaybackServicePauseProcedure, svc.Pause, opts)
	unary(r, PlaybackServiceResumeProcedure, svc.Resume, opts)
	unary(r, PlaybackServiceNextProcedure, svc.Next, opts)
	unary(r, PlaybackServicePreviousProcedure, svc.Previous, opts)
	unary(r, PlaybackServiceSeekProcedure, svc.Seek, opts)
	unary(r, PlaybackServiceSetVolumeProcedure, svc.SetVolume, opts)
	unary(r, PlaybackServiceRemoveFromQueueProcedure, svc.RemoveFromQueue, opts)
	unary(r, PlaybackServiceStopProcedure, svc.Stop, opts)
	unary(r, PlaybackServiceGetStateProcedure, svc.GetState, opts)
	return servicePath(PlaybackServiceName), r
}

// PlaybackServiceClient is a client for PlaybackService.
type PlaybackServiceClient struct {
	play                *connect.Client[moodv1.PlayRequest, moodv1.PlaybackStateResponse]
	playRecommendations *connect.Client[moodv1.PlayRecommendationsRequest, moodv1.PlaybackStateResponse]
	playPlaylist        *connect.Client[moodv1.PlayPlaylistRequest, moodv1.PlaybackStateResponse]
	pause               *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
	resume              *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
	next                *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
	previous            *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
	seek                *connect.Client[moodv1.SeekRequest, moodv1.PlaybackStateResponse]
	setVolume           *connect.Client[moodv1.SetVolumeRequest, moodv1.PlaybackStateResponse]
	removeFromQueue     *connect.Client[moodv1.RemoveFromQueueRequest, moodv1.PlaybackStateResponse]
	stop                *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
	getState            *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse]
}

// NewPlaybackServiceClient creates a PlaybackService client for the server at baseURL.
func NewPlaybackServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlaybackServiceClient {
	empty := func(procedure string) *connect.Client[moodv1.Empty, moodv1.PlaybackStateResponse] {
		return newClient[moodv1.Empty, moodv1.PlaybackStateResponse](httpClient, baseURL, procedure, opts)
	}
	return &PlaybackServiceClient{
		play:                newClient[moodv1.PlayRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServicePlayProcedure, opts),
		playRecommendations: newClient[moodv1.PlayRecommendationsRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServicePlayRecommendationsProcedure, opts),
		playPlaylist:        newClient[moodv1.PlayPlaylistRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServicePlayPlaylistProcedure, opts),
		pause:               empty(PlaybackServicePauseProcedure),
		resume:              empty(PlaybackServiceResumeProcedure),
		next:                empty(PlaybackServiceNextProcedure),
		previous:            empty(PlaybackServicePreviousProcedure),
		seek:                newClient[moodv1.SeekRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServiceSeekProcedure, opts),
		setVolume:           newClient[moodv1.SetVolumeRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServiceSetVolumeProcedure, opts),
		removeFromQueue:     newClient[moodv1.RemoveFromQueueRequest, moodv1.PlaybackStateResponse](httpClient, baseURL, PlaybackServiceRemoveFromQueueProcedure, opts),
		stop:                empty(PlaybackServiceStopProcedure),
		getState:            empty(PlaybackServiceGetStateProcedure),
	}
}

func (c *PlaybackServiceClient) Play(ctx context.Context, trackID string) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.play, &moodv1.PlayRequest{TrackID: trackID})
}

func (c *PlaybackServiceClient) PlayRecommendations(ctx context.Context, startTrackID string) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.playRecommendations, &moodv1.PlayRecommendationsRequest{StartTrackID: startTrackID})
}

func (c *PlaybackServiceClient) PlayPlaylist(ctx context.Context, playlistID string) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.playPlaylist, &moodv1.PlayPlaylistRequest{PlaylistID: playlistID})
}

func (c *PlaybackServiceClient) Pause(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.pause, &moodv1.Empty{})
}

func (c *PlaybackServiceClient) Resume(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.resume, &moodv1.Empty{})
}

func (c *PlaybackServiceClient) Next(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.next, &moodv1.Empty{})
}

func (c *PlaybackServiceClient) Previous(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.previous, &moodv1.Empty{})
}

func (c *PlaybackServiceClient) Seek(ctx context.Context, seconds float64) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.seek, &moodv1.SeekRequest{Seconds: seconds})
}

func (c *PlaybackServiceClient) SetVolume(ctx context.Context, volume int) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.setVolume, &moodv1.SetVolumeRequest{Volume: volume})
}

func (c *PlaybackServiceClient) RemoveFromQueue(ctx context.Context, trackID string) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.removeFromQueue, &moodv1.RemoveFromQueueRequest{TrackID: trackID})
}

func (c *PlaybackServiceClient) Stop(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.stop, &moodv1.Empty{})
}

func (c *PlaybackServiceClient) GetState(ctx context.Context) (*moodv1.PlaybackStateResponse, error) {
	return call(ctx, c.getState, &moodv1.Empty{})
}
