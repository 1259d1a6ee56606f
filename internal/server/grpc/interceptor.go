package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerIDKey ctxKey = "callerID"

// protected lists the methods that act on behalf of a caller.
var protected = map[string]bool{
	api.MethodRequestRecordDecryption:       true,
	api.MethodRequestTopicCounterDecryption: true,
	api.MethodResetCounters:                 true,
	api.MethodCancelRequest:                 true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protected[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		callerID, err := auth.GetCallerIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, toStatus(err)
		}

		ctx = context.WithValue(ctx, callerIDKey, callerID)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.metrics == nil {
		return handler(ctx, req)
	}
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.ObserveRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
	return resp, err
}

// callerFromContext returns the caller id stored by accessTokenInterceptor.
func callerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}
