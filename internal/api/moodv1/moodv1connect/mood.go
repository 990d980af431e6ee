package moodv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

// MoodServiceHandler is implemented by the server side of MoodService.
type MoodServiceHandler interface {
	DetectMood(context.Context, *connect.Request[moodv1.DetectMoodRequest]) (*connect.Response[moodv1.DetectMoodResponse], error)
	GetHistory(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.GetHistoryResponse], error)
	GetPalette(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.GetPaletteResponse], error)
	Recommend(context.Context, *connect.Request[moodv1.RecommendRequest]) (*connect.Response[moodv1.RecommendResponse], error)
	ListGenres(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.ListGenresResponse], error)
}

// NewMoodServiceHandler returns the mount path and handler of MoodService.
func NewMoodServiceHandler(svc MoodServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := router{}
	unary(r, MoodServiceDetectMoodProcedure, svc.DetectMood, opts)
	unary(r, MoodServiceGetHistoryProcedure, svc.GetHistory, opts)
	unary(r, MoodServiceGetPaletteProcedure, svc.GetPalette, opts)
	unary(r, MoodServiceRecommendProcedure, svc.Recommend, opts)
	unary(r, MoodServiceListGenresProcedure, svc.ListGenres, opts)
	return servicePath(MoodServiceName), r
}

// MoodServiceClient is a client for MoodService.
type MoodServiceClient struct {
	detectMood *connect.Client[moodv1.DetectMoodRequest, moodv1.DetectMoodResponse]
	getHistory *connect.Client[moodv1.Empty, moodv1.GetHistoryResponse]
	getPalette *connect.Client[moodv1.Empty, moodv1.GetPaletteResponse]
	recommend  *connect.Client[moodv1.RecommendRequest, moodv1.RecommendResponse]
	listGenres *connect.Client[moodv1.Empty, moodv1.ListGenresResponse]
}

// NewMoodServiceClient creates a MoodService client for the server at baseURL.
func NewMoodServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MoodServiceClient {
	return &MoodServiceClient{
		detectMood: newClient[moodv1.DetectMoodRequest, moodv1.DetectMoodResponse](httpClient, baseURL, MoodServiceDetectMoodProcedure, opts),
		getHistory: newClient[moodv1.Empty, moodv1.GetHistoryResponse](httpClient, baseURL, MoodServiceGetHistoryProcedure, opts),
		getPalette: newClient[moodv1.Empty, moodv1.GetPaletteResponse](httpClient, baseURL, MoodServiceGetPaletteProcedure, opts),
		recommend:  newClient[moodv1.RecommendRequest, moodv1.RecommendResponse](httpClient, baseURL, MoodServiceRecommendProcedure, opts),
		listGenres: newClient[moodv1.Empty, moodv1.ListGenresResponse](httpClient, baseURL, MoodServiceListGenresProcedure, opts),
	}
}

func (c *MoodServiceClient) DetectMood(ctx context.Context, req *moodv1.DetectMoodRequest) (*moodv1.DetectMoodResponse, error) {
	return call(ctx, c.detectMood, req)
}

func (c *MoodServiceClient) GetHistory(ctx context.Context) (*moodv1.GetHistoryResponse, error) {
	return call(ctx, c.getHistory, &moodv1.Empty{})
}

func (c *MoodServiceClient) GetPalette(ctx context.Context) (*moodv1.GetPaletteResponse, error) {
	return call(ctx, c.getPalette, &moodv1.Empty{})
}

func (c *MoodServiceClient) Recommend(ctx context.Context, req *moodv1.RecommendRequest) (*moodv1.RecommendResponse, error) {
	return call(ctx, c.recommend, req)
}

func (c *MoodServiceClient) ListGenres(ctx context.Context) (*moodv1.ListGenresResponse, error) {
	return call(ctx, c.listGenres, &moodv1.Empty{})
}
