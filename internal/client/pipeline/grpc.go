package pipeline

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/common"
	"github.com/dmitrijs2005/activityhub/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationMetadataKey, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// ConnectivityInterceptor is the gRPC form of ConnectivityGate.
func ConnectivityInterceptor(checker connectivity.Checker, log logging.Logger) grpc.UnaryClientInterceptor {
	log = orNop(log)
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if !checker.Reachable(ctx) {
			log.Debug(ctx, "call rejected: offline", "method", method)
			return fmt.Errorf("%s: %w", method, client.ErrNoConnectivity)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// AuthInterceptor is the gRPC form of AuthInjector. codes.Unauthenticated
// plays the role of HTTP 401.
func AuthInterceptor(tokens TokenSource, onUnauthorized UnauthorizedHandler, log logging.Logger) grpc.UnaryClientInterceptor {
	log = orNop(log)
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		tok, err := tokens.CurrentToken(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", client.ErrCredentials, err)
		}

		callCtx := ctx
		if tok.Valid {
			callCtx = withBearer(ctx, tok.String)
		}

		err = invoker(callCtx, method, req, reply, cc, opts...)
		if status.Code(err) == codes.Unauthenticated && tok.Valid && onUnauthorized != nil {
			log.Warn(ctx, "token rejected by server, forcing logout", "method", method)
			onUnauthorized.HandleUnauthorized(ctx)
		}
		return err
	}
}

// UnaryInterceptors returns the pipeline stages in their fixed order.
func UnaryInterceptors(o Options) []grpc.UnaryClientInterceptor {
	log := o.logger()
	return []grpc.UnaryClientInterceptor{
		ConnectivityInterceptor(o.checker(), log),
		AuthInterceptor(o.Tokens, o.OnUnauthorized, log),
	}
}

// Dial creates a client connection whose unary calls run through the
// pipeline. Transport credentials must be supplied in opts.
func Dial(target string, o Options, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	all := append([]grpc.DialOption{grpc.WithChainUnaryInterceptor(UnaryInterceptors(o)...)}, opts...)
	conn, err := grpc.NewClient(target, all...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", target, err)
	}
	return conn, nil
}
