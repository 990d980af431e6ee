// Package moodv1connect wires the moodtunes.v1 services to Connect handlers
// and clients using the JSON codec.
package moodv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

// Service names
const (
	MoodServiceName     = "moodtunes.v1.MoodService"
	PlaybackServiceName = "moodtunes.v1.PlaybackService"
	PlaylistServiceName = "moodtunes.v1.PlaylistService"
	ExportServiceName   = "moodtunes.v1.ExportService"
	AccountServiceName  = "moodtunes.v1.AccountService"
)

// MoodService procedures
const (
	MoodServiceDetectMoodProcedure = "/" + MoodServiceName + "/DetectMood"
	MoodServiceGetHistoryProcedure = "/" + MoodServiceName + "/GetHistory"
	MoodServiceGetPaletteProcedure = "/" + MoodServiceName + "/GetPalette"
	MoodServiceRecommendProcedure  = "/" + MoodServiceName + "/Recommend"
	MoodServiceListGenresProcedure = "/" + MoodServiceName + "/ListGenres"
)

// PlaybackService procedures
const (
	PlaybackServicePlayProcedure                = "/" + PlaybackServiceName + "/Play"
	PlaybackServicePlayRecommendationsProcedure = "/" + PlaybackServiceName + "/PlayRecommendations"
	PlaybackServicePlayPlaylistProcedure        = "/" + PlaybackServiceName + "/PlayPlaylist"
	PlaybackServicePauseProcedure               = "/" + PlaybackServiceName + "/Pause"
	PlaybackServiceResumeProcedure              = "/" + PlaybackServiceName + "/Resume"
	PlaybackServiceNextProcedure                = "/" + PlaybackServiceName + "/Next"
	PlaybackServicePreviousProcedure            = "/" + PlaybackServiceName + "/Previous"
	PlaybackServiceSeekProcedure                = "/" + PlaybackServiceName + "/Seek"
	PlaybackServiceSetVolumeProcedure           = "/" + PlaybackServiceName + "/SetVolume"
	PlaybackServiceRemoveFromQueueProcedure     = "/" + PlaybackServiceName + "/RemoveFromQueue"
	PlaybackServiceStopProcedure                = "/" + PlaybackServiceName + "/Stop"
	PlaybackServiceGetStateProcedure            = "/" + PlaybackServiceName + "/GetState"
)

// PlaylistService procedures
const (
	PlaylistServiceCreateProcedure            = "/" + PlaylistServiceName + "/Create"
	PlaylistServiceGetProcedure               = "/" + PlaylistServiceName + "/Get"
	PlaylistServiceListProcedure              = "/" + PlaylistServiceName + "/List"
	PlaylistServiceRenameProcedure            = "/" + PlaylistServiceName + "/Rename"
	PlaylistServiceUpdateDescriptionProcedure = "/" + PlaylistServiceName + "/UpdateDescription"
	PlaylistServiceAddTracksProcedure         = "/" + PlaylistServiceName + "/AddTracks"
	PlaylistServiceRemoveTracksProcedure      = "/" + PlaylistServiceName + "/RemoveTracks"
	PlaylistServiceReorderProcedure           = "/" + PlaylistServiceName + "/Reorder"
	PlaylistServiceDeleteProcedure            = "/" + PlaylistServiceName + "/Delete"
	PlaylistServiceBulkDeleteProcedure        = "/" + PlaylistServiceName + "/BulkDelete"
	PlaylistServiceStatsProcedure             = "/" + PlaylistServiceName + "/Stats"
)

// ExportService procedures
const (
	ExportServiceStartExportProcedure     = "/" + ExportServiceName + "/StartExport"
	ExportServiceStartBulkExportProcedure = "/" + ExportServiceName + "/StartBulkExport"
	ExportServiceGetExportProcedure       = "/" + ExportServiceName + "/GetExport"
	ExportServiceWaitExportProcedure      = "/" + ExportServiceName + "/WaitExport"
	ExportServiceListExportsProcedure     = "/" + ExportServiceName + "/ListExports"
)

// AccountService procedures
const (
	AccountServiceLoginProcedure          = "/" + AccountServiceName + "/Login"
	AccountServiceLogoutProcedure         = "/" + AccountServiceName + "/Logout"
	AccountServiceCurrentUserProcedure    = "/" + AccountServiceName + "/CurrentUser"
	AccountServiceGetSettingsProcedure    = "/" + AccountServiceName + "/GetSettings"
	AccountServiceSaveSettingsProcedure   = "/" + AccountServiceName + "/SaveSettings"
	AccountServiceResetSettingsProcedure  = "/" + AccountServiceName + "/ResetSettings"
	AccountServiceSubmitFeedbackProcedure = "/" + AccountServiceName + "/SubmitFeedback"
	AccountServiceListFeedbackProcedure   = "/" + AccountServiceName + "/ListFeedback"
	AccountServiceWatchEventsProcedure    = "/" + AccountServiceName + "/WatchEvents"
)

// codecOption installs the JSON codec on handlers and clients.
var codecOption = connect.WithCodec(moodv1.Codec{})

// router dispatches requests of one service to its procedure handlers.
type router map[string]http.Handler

func (r router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h, ok := r[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	h.ServeHTTP(w, req)
}

func unary[Req, Res any](r router, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	r[procedure] = connect.NewUnaryHandler(procedure, fn, append([]connect.HandlerOption{codecOption}, opts...)...)
}

func servicePath(name string) string {
	return "/" + name + "/"
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](
		httpClient,
		strings.TrimRight(baseURL, "/")+procedure,
		append([]connect.ClientOption{codecOption}, opts...)...,
	)
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
