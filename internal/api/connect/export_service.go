package connect

import (
	"context"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/export"
	"github.com/osa030/moodtunes/internal/app/session"
)

// ExportService implements the ExportService RPC.
type ExportService struct {
	session *session.Manager
	exports *export.Coordinator
}

// NewExportService creates a new ExportService.
func NewExportService(s *session.Manager, exports *export.Coordinator) *ExportService {
	return &ExportService{
		session: s,
		exports: exports,
	}
}

var _ moodv1connect.ExportServiceHandler = (*ExportService)(nil)

// StartExport starts an export job and returns it while it is still running.
func (s *ExportService) StartExport(
	ctx context.Context,
	req *connect.Request[moodv1.StartExportRequest],
) (*connect.Response[moodv1.ExportJobResponse], error) {
	job, err := s.session.StartExport(ctx, req.Msg.PlaylistID, req.Msg.Target, req.Msg.Options)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ExportJobResponse{Job: job}), nil
}

// StartBulkExport starts one job per playlist. The call fails only when no
// job could be started.
func (s *ExportService) StartBulkExport(
	ctx context.Context,
	req *connect.Request[moodv1.StartBulkExportRequest],
) (*connect.Response[moodv1.ExportJobsResponse], error) {
	jobs, err := s.session.StartExports(ctx, req.Msg.PlaylistIDs, req.Msg.Target, req.Msg.Options)
	if err != nil {
		if len(jobs) == 0 {
			return nil, toConnectError(req.Spec().Procedure, err)
		}
		zlog.Warn().Msgf("connect: bulk export partially started: %v", err)
	}
	return connect.NewResponse(&moodv1.ExportJobsResponse{Jobs: jobs}), nil
}

func (s *ExportService) GetExport(
	ctx context.Context,
	req *connect.Request[moodv1.ExportJobRequest],
) (*connect.Response[moodv1.ExportJobResponse], error) {
	job, err := s.exports.Get(ctx, req.Msg.JobID)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ExportJobResponse{Job: job}), nil
}

// WaitExport blocks until the job has finished or the call is cancelled.
func (s *ExportService) WaitExport(
	ctx context.Context,
	req *connect.Request[moodv1.ExportJobRequest],
) (*connect.Response[moodv1.ExportJobResponse], error) {
	job, err := s.exports.Wait(ctx, req.Msg.JobID)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ExportJobResponse{Job: job}), nil
}

func (s *ExportService) ListExports(
	ctx context.Context,
	req *connect.Request[moodv1.ListExportsRequest],
) (*connect.Response[moodv1.ExportJobsResponse], error) {
	jobs, err := s.exports.List(ctx, req.Msg.PlaylistID)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ExportJobsResponse{Jobs: jobs}), nil
}
