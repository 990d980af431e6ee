package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/auth"
)

// publicProcedures can be called without a signed-in user.
var publicProcedures = map[string]bool{
	moodv1connect.AccountServiceLoginProcedure:       true,
	moodv1connect.AccountServiceCurrentUserProcedure: true,
}

type authInterceptor struct {
	provider auth.Provider
}

// NewAuthInterceptor creates an interceptor that rejects calls to non-public
// procedures while no user is signed in.
func NewAuthInterceptor(provider auth.Provider) connect.Interceptor {
	return &authInterceptor{provider: provider}
}

func (i *authInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := i.check(ctx, req.Spec().Procedure); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *authInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *authInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if err := i.check(ctx, conn.Spec().Procedure); err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

func (i *authInterceptor) check(ctx context.Context, procedure string) error {
	if publicProcedures[procedure] {
		return nil
	}
	if !i.provider.IsAuthenticated(ctx) {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrNotAuthenticated)
	}
	return nil
}
