package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	"github.com/osa030/moodtunes/internal/app/session"
	"github.com/osa030/moodtunes/internal/domain/playlist"
)

// PlaylistService implements the PlaylistService RPC.
type PlaylistService struct {
	session *session.Manager
	store   *playlistapp.Store
	now     func() time.Time
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(s *session.Manager, store *playlistapp.Store) *PlaylistService {
	return &PlaylistService{
		session: s,
		store:   store,
		now:     time.Now,
	}
}

var _ moodv1connect.PlaylistServiceHandler = (*PlaylistService)(nil)

func playlistResponse(view playlist.View, err error, procedure string) (*connect.Response[moodv1.PlaylistResponse], error) {
	if err != nil {
		return nil, toConnectError(procedure, err)
	}
	return connect.NewResponse(&moodv1.PlaylistResponse{Playlist: view}), nil
}

// Create saves a playlist. Without a mood the playlist is saved through the
// session, which tags it with the latest detected mood.
func (s *PlaylistService) Create(
	ctx context.Context,
	req *connect.Request[moodv1.CreatePlaylistRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	msg := req.Msg
	if msg.Mood == "" {
		view, err := s.session.SaveAsPlaylist(ctx, msg.Name, msg.Description, msg.TrackIDs)
		return playlistResponse(view, err, req.Spec().Procedure)
	}
	view, err := s.store.Create(ctx, msg.Name, msg.Description, msg.Mood, msg.TrackIDs)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) Get(
	ctx context.Context,
	req *connect.Request[moodv1.PlaylistRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.Get(ctx, req.Msg.ID)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) List(
	ctx context.Context,
	req *connect.Request[moodv1.ListPlaylistsRequest],
) (*connect.Response[moodv1.ListPlaylistsResponse], error) {
	views, err := s.store.List(ctx, playlistapp.Query{
		Mood:   req.Msg.Mood,
		Search: req.Msg.Search,
		Sort:   req.Msg.Sort,
	})
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ListPlaylistsResponse{Playlists: views}), nil
}

func (s *PlaylistService) Rename(
	ctx context.Context,
	req *connect.Request[moodv1.RenamePlaylistRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.Rename(ctx, req.Msg.ID, req.Msg.Name)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) UpdateDescription(
	ctx context.Context,
	req *connect.Request[moodv1.UpdateDescriptionRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.UpdateDescription(ctx, req.Msg.ID, req.Msg.Description)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) AddTracks(
	ctx context.Context,
	req *connect.Request[moodv1.PlaylistTracksRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.AddTracks(ctx, req.Msg.ID, req.Msg.TrackIDs)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) RemoveTracks(
	ctx context.Context,
	req *connect.Request[moodv1.PlaylistTracksRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.RemoveTracks(ctx, req.Msg.ID, req.Msg.TrackIDs)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) Reorder(
	ctx context.Context,
	req *connect.Request[moodv1.ReorderRequest],
) (*connect.Response[moodv1.PlaylistResponse], error) {
	view, err := s.store.Reorder(ctx, req.Msg.ID, req.Msg.TrackID, req.Msg.NewIndex)
	return playlistResponse(view, err, req.Spec().Procedure)
}

func (s *PlaylistService) Delete(
	ctx context.Context,
	req *connect.Request[moodv1.PlaylistRequest],
) (*connect.Response[moodv1.DeleteResponse], error) {
	if err := s.store.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.DeleteResponse{Deleted: 1}), nil
}

func (s *PlaylistService) BulkDelete(
	ctx context.Context,
	req *connect.Request[moodv1.BulkDeleteRequest],
) (*connect.Response[moodv1.DeleteResponse], error) {
	n, err := s.store.BulkDelete(ctx, req.Msg.IDs)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.DeleteResponse{Deleted: n}), nil
}

func (s *PlaylistService) Stats(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.PlaylistStatsResponse], error) {
	stats, err := s.store.Stats(ctx, s.now())
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.PlaylistStatsResponse{Stats: stats}), nil
}
