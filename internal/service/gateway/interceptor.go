package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/easy-scpi/internal/logger"
)

// requestLogger tags every call with a request id and logs its outcome.
func requestLogger(baseCtx context.Context) grpc.UnaryServerInterceptor {
	base := logger.FromContext(baseCtx)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx = logger.ToContext(ctx, base)
		ctx = logger.WithFields(ctx, "request_id", uuid.NewString(), "method", info.FullMethod)

		started := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		if err != nil {
			logger.WarnKV(ctx, "Call failed", "code", code.String(), "duration", time.Since(started), "error", err)
		} else {
			logger.DebugKV(ctx, "Call served", "code", code.String(), "duration", time.Since(started))
		}

		return resp, err
	}
}
