package middleware

import (
	"context"

	"go.uber.org/zap"
)

// Recovery guards a scheduled tick so a panic inside it is logged instead of
// taking down the process.
func Recovery(logger *zap.Logger) func(func(context.Context)) func(context.Context) {
	return func(next func(context.Context)) func(context.Context) {
		return func(ctx context.Context) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.String("trace_id", GetTraceID(ctx)),
						zap.Any("error", err),
					)
				}
			}()

			next(ctx)
		}
	}
}
