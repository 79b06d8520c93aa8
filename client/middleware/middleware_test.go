package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func TestTraceID_GeneratesHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(TraceHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: TraceID(http.DefaultTransport)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("Expected uuid trace id, got %q", got)
	}
}

func TestTraceID_UsesContextValue(t *testing.T) {
	traceID := uuid.New().String()
	var got string

	next := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get(TraceHeader)
		if GetTraceID(r.Context()) != traceID {
			t.Errorf("Expected trace id on context")
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/api/status/t1", nil)
	req = req.WithContext(WithTraceID(req.Context(), traceID))

	if _, err := TraceID(next).RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if got != traceID {
		t.Errorf("Expected header %s, got %s", traceID, got)
	}
	if req.Header.Get(TraceHeader) != "" {
		t.Error("Expected original request to be left untouched")
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	logger := zaptest.NewLogger(t)
	next := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusTeapot, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/api/status/t1", nil)
	resp, err := Logging(logger)(next).RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", resp.StatusCode)
	}
}

func TestRecovery_SwallowsPanic(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ran := false

	tick := Recovery(logger)(func(ctx context.Context) {
		ran = true
		panic("boom")
	})
	tick(context.Background())

	if !ran {
		t.Error("Expected wrapped tick to run")
	}
}
