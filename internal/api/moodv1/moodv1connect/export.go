package moodv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

// ExportServiceHandler is implemented by the server side of ExportService.
type ExportServiceHandler interface {
	StartExport(context.Context, *connect.Request[moodv1.StartExportRequest]) (*connect.Response[moodv1.ExportJobResponse], error)
	StartBulkExport(context.Context, *connect.Request[moodv1.StartBulkExportRequest]) (*connect.Response[moodv1.ExportJobsResponse], error)
	GetExport(context.Context, *connect.Request[moodv1.ExportJobRequest]) (*connect.Response[moodv1.ExportJobResponse], error)
	WaitExport(context.Context, *connect.Request[moodv1.ExportJobRequest]) (*connect.Response[moodv1.ExportJobResponse], error)
	ListExports(context.Context, *connect.Request[moodv1.ListExportsRequest]) (*connect.Response[moodv1.ExportJobsResponse], error)
}

// NewExportServiceHandler returns the mount path and handler of ExportService.
func NewExportServiceHandler(svc ExportServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := router{}
	unary(r, ExportServiceStartExportProcedure, svc.StartExport, opts)
	unary(r, ExportServiceStartBulkExportProcedure, svc.StartBulkExport, opts)
	unary(r, ExportServiceGetExportProcedure, svc.GetExport, opts)
	unary(r, ExportServiceWaitExportProcedure, svc.WaitExport, opts)
	unary(r, ExportServiceListExportsProcedure, svc.ListExports, opts)
	return servicePath(ExportServiceName), r
}

// ExportServiceClient is a client for ExportService.
type ExportServiceClient struct {
	startExport     *connect.Client[moodv1.StartExportRequest, moodv1.ExportJobResponse]
	startBulkExport *connect.Client[moodv1.StartBulkExportRequest, moodv1.ExportJobsResponse]
	getExport       *connect.Client[moodv1.ExportJobRequest, moodv1.ExportJobResponse]
	waitExport      *connect.Client[moodv1.ExportJobRequest, moodv1.ExportJobResponse]
	listExports     *connect.Client[moodv1.ListExportsRequest, moodv1.ExportJobsResponse]
}

// NewExportServiceClient creates an ExportService client for the server at baseURL.
func NewExportServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExportServiceClient {
	return &ExportServiceClient{
		startExport:     newClient[moodv1.StartExportRequest, moodv1.ExportJobResponse](httpClient, baseURL, ExportServiceStartExportProcedure, opts),
		startBulkExport: newClient[moodv1.StartBulkExportRequest, moodv1.ExportJobsResponse](httpClient, baseURL, ExportServiceStartBulkExportProcedure, opts),
		getExport:       newClient[moodv1.ExportJobRequest, moodv1.ExportJobResponse](httpClient, baseURL, ExportServiceGetExportProcedure, opts),
		waitExport:      newClient[moodv1.ExportJobRequest, moodv1.ExportJobResponse](httpClient, baseURL, ExportServiceWaitExportProcedure, opts),
		listExports:     newClient[moodv1.ListExportsRequest, moodv1.ExportJobsResponse](httpClient, baseURL, ExportServiceListExportsProcedure, opts),
	}
}

func (c *ExportServiceClient) StartExport(ctx context.Context, req *moodv1.StartExportRequest) (*moodv1.ExportJobResponse, error) {
	return call(ctx, c.startExport, req)
}

func (c *ExportServiceClient) StartBulkExport(ctx context.Context, req *moodv1.StartBulkExportRequest) (*moodv1.ExportJobsResponse, error) {
	return call(ctx, c.startBulkExport, req)
}

func (c *ExportServiceClient) GetExport(ctx context.Context, jobID string) (*moodv1.ExportJobResponse, error) {
	return call(ctx, c.getExport, &moodv1.ExportJobRequest{JobID: jobID})
}

func (c *ExportServiceClient) WaitExport(ctx context.Context, jobID string) (*moodv1.ExportJobResponse, error) {
	return call(ctx, c.waitExport, &moodv1.ExportJobRequest{JobID: jobID})
}

func (c *ExportServiceClient) ListExports(ctx context.Context, playlistID string) (*moodv1.ExportJobsResponse, error) {
	return call(ctx, c.listExports, &moodv1.ListExportsRequest{PlaylistID: playlistID})
}
