package moodv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

type playlistResponse = connect.Response[moodv1.PlaylistResponse]

// PlaylistServiceHandler is implemented by the server side of PlaylistService.
type PlaylistServiceHandler interface {
	Create(context.Context, *connect.Request[moodv1.CreatePlaylistRequest]) (*playlistResponse, error)
	Get(context.Context, *connect.Request[moodv1.PlaylistRequest]) (*playlistResponse, error)
	List(context.Context, *connect.Request[moodv1.ListPlaylistsRequest]) (*connect.Response[moodv1.ListPlaylistsResponse], error)
	Rename(context.Context, *connect.Request[moodv1.RenamePlaylistRequest]) (*playlistResponse, error)
	UpdateDescription(context.Context, *connect.Request[moodv1.UpdateDescriptionRequest]) (*playlistResponse, error)
	AddTracks(context.Context, *connect.Request[moodv1.PlaylistTracksRequest]) (*playlistResponse, error)
	RemoveTracks(context.Context, *connect.Request[moodv1.PlaylistTracksRequest]) (*playlistResponse, error)
	Reorder(context.Context, *connect.Request[moodv1.ReorderRequest]) (*playlistResponse, error)
	Delete(context.Context, *connect.Request[moodv1.PlaylistRequest]) (*connect.Response[moodv1.DeleteResponse], error)
	BulkDelete(context.Context, *connect.Request[moodv1.BulkDeleteRequest]) (*connect.Response[moodv1.DeleteResponse], error)
	Stats(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.PlaylistStatsResponse], error)
}

// NewPlaylistServiceHandler returns the mount path and handler of PlaylistService.
func NewPlaylistServiceHandler(svc PlaylistServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := router{}
	unary(r, PlaylistServiceCreateProcedure, svc.Create, opts)
	unary(r, PlaylistServiceGetProcedure, svc.Get, opts)
	unary(r, PlaylistServiceListProcedure, svc.List, opts)
	unary(r, PlaylistServiceRenameProcedure, svc.Rename, opts)
	unary(r, PlaylistServiceUpdateDescriptionProcedure, svc.UpdateDescription, opts)
	unary(r, PlaylistServiceAddTracksProcedure, svc.AddTracks, opts)
	unary(r, PlaylistServiceRemoveTracksProcedure, svc.RemoveTracks, opts)
	unary(r, PlaylistServiceReorderProcedure, svc.Reorder, opts)
	unary(r, PlaylistServiceDeleteProcedure, svc.Delete, opts)
	unary(r, PlaylistServiceBulkDeleteProcedure, svc.BulkDelete, opts)
	unary(r, PlaylistServiceStatsProcedure, svc.Stats, opts)
	return servicePath(PlaylistServiceName), r
}

// PlaylistServiceClient is a client for PlaylistService.
type PlaylistServiceClient struct {
	create            *connect.Client[moodv1.CreatePlaylistRequest, moodv1.PlaylistResponse]
	get               *connect.Client[moodv1.PlaylistRequest, moodv1.PlaylistResponse]
	list              *connect.Client[moodv1.ListPlaylistsRequest, moodv1.ListPlaylistsResponse]
	rename            *connect.Client[moodv1.RenamePlaylistRequest, moodv1.PlaylistResponse]
	updateDescription *connect.Client[moodv1.UpdateDescriptionRequest, moodv1.PlaylistResponse]
	addTracks         *connect.Client[moodv1.PlaylistTracksRequest, moodv1.PlaylistResponse]
	removeTracks      *connect.Client[moodv1.PlaylistTracksRequest, moodv1.PlaylistResponse]
	reorder           *connect.Client[moodv1.ReorderRequest, moodv1.PlaylistResponse]
	delete            *connect.Client[moodv1.PlaylistRequest, moodv1.DeleteResponse]
	bulkDelete        *connect.Client[moodv1.BulkDeleteRequest, moodv1.DeleteResponse]
	stats             *connect.Client[moodv1.Empty, moodv1.PlaylistStatsResponse]
}

// NewPlaylistServiceClient creates a PlaylistService client for the server at baseURL.
func NewPlaylistServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlaylistServiceClient {
	return &PlaylistServiceClient{
		create:            newClient[moodv1.CreatePlaylistRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceCreateProcedure, opts),
		get:               newClient[moodv1.PlaylistRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceGetProcedure, opts),
		list:              newClient[moodv1.ListPlaylistsRequest, moodv1.ListPlaylistsResponse](httpClient, baseURL, PlaylistServiceListProcedure, opts),
		rename:            newClient[moodv1.RenamePlaylistRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceRenameProcedure, opts),
		updateDescription: newClient[moodv1.UpdateDescriptionRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceUpdateDescriptionProcedure, opts),
		addTracks:         newClient[moodv1.PlaylistTracksRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceAddTracksProcedure, opts),
		removeTracks:      newClient[moodv1.PlaylistTracksRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceRemoveTracksProcedure, opts),
		reorder:           newClient[moodv1.ReorderRequest, moodv1.PlaylistResponse](httpClient, baseURL, PlaylistServiceReorderProcedure, opts),
		delete:            newClient[moodv1.PlaylistRequest, moodv1.DeleteResponse](httpClient, baseURL, PlaylistServiceDeleteProcedure, opts),
		bulkDelete:        newClient[moodv1.BulkDeleteRequest, moodv1.DeleteResponse](httpClient, baseURL, PlaylistServiceBulkDeleteProcedure, opts),
		stats:             newClient[moodv1.Empty, moodv1.PlaylistStatsResponse](httpClient, baseURL, PlaylistServiceStatsProcedure, opts),
	}
}

func (c *PlaylistServiceClient) Create(ctx context.Context, req *moodv1.CreatePlaylistRequest) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.create, req)
}

func (c *PlaylistServiceClient) Get(ctx context.Context, id string) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.get, &moodv1.PlaylistRequest{ID: id})
}

func (c *PlaylistServiceClient) List(ctx context.Context, req *moodv1.ListPlaylistsRequest) (*moodv1.ListPlaylistsResponse, error) {
	return call(ctx, c.list, req)
}

func (c *PlaylistServiceClient) Rename(ctx context.Context, id, name string) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.rename, &moodv1.RenamePlaylistRequest{ID: id, Name: name})
}

func (c *PlaylistServiceClient) UpdateDescription(ctx context.Context, id, description string) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.updateDescription, &moodv1.UpdateDescriptionRequest{ID: id, Description: description})
}

func (c *PlaylistServiceClient) AddTracks(ctx context.Context, id string, trackIDs []string) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.addTracks, &moodv1.PlaylistTracksRequest{ID: id, TrackIDs: trackIDs})
}

func (c *PlaylistServiceClient) RemoveTracks(ctx context.Context, id string, trackIDs []string) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.removeTracks, &moodv1.PlaylistTracksRequest{ID: id, TrackIDs: trackIDs})
}

func (c *PlaylistServiceClient) Reorder(ctx context.Context, id, trackID string, newIndex int) (*moodv1.PlaylistResponse, error) {
	return call(ctx, c.reorder, &moodv1.ReorderRequest{ID: id, TrackID: trackID, NewIndex: newIndex})
}

func (c *PlaylistServiceClient) Delete(ctx context.Context, id string) (*moodv1.DeleteResponse, error) {
	return call(ctx, c.delete, &moodv1.PlaylistRequest{ID: id})
}

func (c *PlaylistServiceClient) BulkDelete(ctx context.Context, ids []string) (*moodv1.DeleteResponse, error) {
	return call(ctx, c.bulkDelete, &moodv1.BulkDeleteRequest{IDs: ids})
}

func (c *PlaylistServiceClient) Stats(ctx context.Context) (*moodv1.PlaylistStatsResponse, error) {
	return call(ctx, c.stats, &moodv1.Empty{})
}
