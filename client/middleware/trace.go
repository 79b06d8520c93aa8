package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const TraceIDKey contextKey = "trace_id"

const TraceHeader = "X-Trace-ID"

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TraceID stamps every outgoing request with a trace id, taken from the
// request context when present and generated otherwise.
func TraceID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = GetTraceID(r.Context())
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}

		req := r.Clone(WithTraceID(r.Context(), traceID))
		req.Header.Set(TraceHeader, traceID)

		return next.RoundTrip(req)
	})
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
