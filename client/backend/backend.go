package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"colorAverager/client/dto"
	"colorAverager/client/middleware"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMissingTaskID    = errors.New("response did not include a task id")
)

// Backend is the part of the processing service the task controller drives.
type Backend interface {
	Submit(ctx context.Context, req *dto.JobRequest) (string, error)
	Status(ctx context.Context, taskID string) (*dto.StatusSnapshot, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	transport := middleware.TraceID(middleware.Logging(logger)(http.DefaultTransport))

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

func (c *HTTPClient) Submit(ctx context.Context, req *dto.JobRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode job request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(ProcessPath), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp dto.SubmitResponse
	if err := c.do(httpReq, &resp); err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}
	if resp.TaskID == "" {
		return "", ErrMissingTaskID
	}

	return resp.TaskID, nil
}

func (c *HTTPClient) Status(ctx context.Context, taskID string) (*dto.StatusSnapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(StatusRef(taskID)), nil)
	if err != nil {
		return nil, err
	}

	var snapshot dto.StatusSnapshot
	if err := c.do(httpReq, &snapshot); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return &snapshot, nil
}

// Fetch streams the resource behind an image or download reference into w.
func (c *HTTPClient) Fetch(ctx context.Context, ref string, w io.Writer) (int64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(ref), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return 0, fmt.Errorf("fetch %s: %w", ref, err)
	}

	return io.Copy(w, resp.Body)
}

// URL resolves a server-relative reference against the backend base URL.
func (c *HTTPClient) URL(ref string) string {
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *HTTPClient) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		c.logger.Warn("Backend rejected request",
			zap.String("path", resp.Request.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", body.Error),
		)
	}

	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
}
