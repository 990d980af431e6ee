// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/app/auth"
	"github.com/osa030/moodtunes/internal/app/classifier"
	"github.com/osa030/moodtunes/internal/app/export"
	"github.com/osa030/moodtunes/internal/app/feedback"
	"github.com/osa030/moodtunes/internal/app/playback"
	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	"github.com/osa030/moodtunes/internal/app/session"
	"github.com/osa030/moodtunes/internal/app/settings"
	domainexport "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
)

// codeMapping lists sentinel errors by the Connect code they surface as.
// The first match wins.
var codeMapping = []struct {
	code connect.Code
	errs []error
}{
	{connect.CodeCanceled, []error{session.ErrSuperseded, context.Canceled}},
	{connect.CodeDeadlineExceeded, []error{context.DeadlineExceeded}},
	{connect.CodeUnauthenticated, []error{auth.ErrNotAuthenticated}},
	{connect.CodeNotFound, []error{playlist.ErrNotFound, domainexport.ErrJobNotFound}},
	{connect.CodeInvalidArgument, []error{
		playlistapp.ErrValidation,
		classifier.ErrUnknownEmoji,
		classifier.ErrInputTooLong,
		classifier.ErrUnsupportedModality,
		export.ErrInvalidOptions,
		export.ErrUnsupportedTarget,
		settings.ErrInvalid,
		feedback.ErrInvalid,
		auth.ErrInvalidCredentials,
		mood.ErrUnknownLabel,
		playback.ErrUnknownTrack,
	}},
	{connect.CodeAlreadyExists, []error{export.ErrAlreadyRunning}},
	{connect.CodeUnavailable, []error{classifier.ErrClassificationUnavailable, session.ErrClosed, playback.ErrClosed}},
	{connect.CodeFailedPrecondition, []error{
		classifier.ErrUnclassified,
		session.ErrNoMood,
		session.ErrNoRecommendations,
		session.ErrEmptyPlaylist,
	}},
	{connect.CodeAborted, []error{export.ErrExportFailed}},
}

// toConnectError converts an application error into a *connect.Error.
// Unmapped errors become CodeInternal and are logged.
func toConnectError(procedure string, err error) error {
	if err == nil {
		return nil
	}
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr
	}
	for _, m := range codeMapping {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				return connect.NewError(m.code, err)
			}
		}
	}
	zlog.Error().Msgf("connect: %s failed: %+v", procedure, err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}
