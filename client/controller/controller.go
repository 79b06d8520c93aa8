package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorAverager/client/backend"
	"colorAverager/client/dto"
	"colorAverager/client/kafka"
	"colorAverager/client/middleware"
	"colorAverager/client/models"
	"colorAverager/client/schedule"
	"colorAverager/client/validation"
	"colorAverager/client/view"
)

const (
	DefaultPollInterval = time.Second
	publishTimeout      = 5 * time.Second
)

// Controller drives one processing task at a time from submission to its
// rendered outcome. A new submission or Reset invalidates whatever task was
// current before it.
type Controller struct {
	backend   backend.Backend
	view      view.View
	ticker    *schedule.Ticker
	publisher kafka.Publisher
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	generation uint64
	taskID     string
	traceID    string
	state      view.State
	closed     bool
}

type Option func(*Controller)

func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.ticker = schedule.NewTicker(d)
	}
}

func WithPublisher(p kafka.Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

func New(b backend.Backend, v view.View, logger *zap.Logger, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		backend: b,
		view:    v,
		ticker:  schedule.NewTicker(DefaultPollInterval),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		state:   view.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit validates the form, starts a job and begins polling it. Invalid
// input is rejected before anything is shown. Backend failures are rendered
// and returned as a *Failure.
func (c *Controller) Submit(ctx context.Context, in validation.FormInput) (string, error) {
	req, err := validation.ParseForm(in)
	if err != nil {
		return "", err
	}

	traceID := middleware.GetTraceID(ctx)
	if traceID == "" {
		traceID = uuid.New().String()
		ctx = middleware.WithTraceID(ctx, traceID)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	c.ticker.Stop()
	c.generation++
	gen := c.generation
	c.taskID = ""
	c.traceID = traceID
	c.state = view.StateSubmitting
	c.view.Submitting()
	c.mu.Unlock()

	c.logger.Info("Submitting job",
		zap.String("trace_id", traceID),
		zap.String("url", req.URL),
		zap.Int("frame_interval", req.FrameInterval),
		zap.String("quality", req.Quality),
	)

	taskID, err := c.backend.Submit(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Info("Discarding superseded submission",
			zap.String("trace_id", traceID),
			zap.String("task_id", taskID),
		)
		return "", ErrStale
	}

	if err != nil {
		f := &Failure{Kind: SubmissionFailed, Message: msgSubmissionFailed, Err: err}
		c.fail(f)
		return "", f
	}

	c.taskID = taskID
	c.state = view.StateProgress

	c.logger.Info("Job accepted",
		zap.String("trace_id", traceID),
		zap.String("task_id", taskID),
		zap.Duration("poll_interval", c.ticker.Interval()),
	)

	pollCtx := middleware.WithTraceID(c.ctx, traceID)
	c.ticker.Start(pollCtx, middleware.Recovery(c.logger)(func(ctx context.Context) {
		c.poll(ctx, gen, taskID)
	}))

	return taskID, nil
}

// poll runs one status check for taskID. It does nothing when the task is no
// longer current, and drops a response that arrives after the task stopped
// being current.
func (c *Controller) poll(ctx context.Context, gen uint64, taskID string) {
	if !c.isCurrent(gen, taskID) {
		return
	}

	snapshot, err := c.backend.Status(ctx, taskID)

	c.mu.Lock()
	if ctx.Err() != nil || gen != c.generation || taskID != c.taskID {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale status", zap.String("task_id", taskID))
		return
	}

	event := c.apply(taskID, snapshot, err)
	c.mu.Unlock()

	if event != nil {
		c.publish(event)
	}
}

func (c *Controller) isCurrent(gen uint64, taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return taskID != "" && gen == c.generation && taskID == c.taskID
}

// apply renders one status response. Callers hold c.mu.
func (c *Controller) apply(taskID string, snapshot *dto.StatusSnapshot, err error) *kafka.TaskEvent {
	if err != nil {
		return c.fail(&Failure{Kind: StatusUnavailable, TaskID: taskID, Message: msgStatusUnavailable, Err: err})
	}

	c.view.Progress(snapshot.Progress, snapshot.Message)

	switch models.ParseState(snapshot.Status) {
	case models.StateCompleted:
		if snapshot.Results == nil {
			return c.fail(&Failure{Kind: StatusUnavailable, TaskID: taskID, Message: msgMissingResults})
		}
		return c.complete(taskID, snapshot.Results)
	case models.StateError:
		return c.fail(&Failure{Kind: ServerReportedError, TaskID: taskID, Message: snapshot.Message})
	default:
		return nil
	}
}

func (c *Controller) complete(taskID string, results *dto.ResultPayload) *kafka.TaskEvent {
	c.ticker.Stop()
	c.taskID = ""
	c.state = view.StateResults

	c.renderResults(taskID, results)
	c.view.Idle()

	c.logger.Info("Task completed",
		zap.String("trace_id", c.traceID),
		zap.String("task_id", taskID),
		zap.String("overall_color", results.OverallColorHex),
		zap.Int("total_frames", results.TotalFrames),
	)

	return &kafka.TaskEvent{
		TaskID:          taskID,
		TraceID:         c.traceID,
		State:           string(models.StateCompleted),
		OverallColorHex: results.OverallColorHex,
		TotalFrames:     results.TotalFrames,
		OccurredAt:      time.Now(),
	}
}

func (c *Controller) fail(f *Failure) *kafka.TaskEvent {
	c.ticker.Stop()
	c.taskID = ""
	c.state = view.StateError

	c.renderError(f.Message)
	c.view.Idle()

	c.logger.Error("Task failed",
		zap.String("trace_id", c.traceID),
		zap.String("task_id", f.TaskID),
		zap.String("kind", string(f.Kind)),
		zap.String("message", f.Message),
		zap.Error(f.Err),
	)

	if f.TaskID == "" {
		return nil
	}
	return &kafka.TaskEvent{
		TaskID:     f.TaskID,
		TraceID:    c.traceID,
		State:      string(models.StateError),
		Message:    f.Message,
		OccurredAt: time.Now(),
	}
}

func (c *Controller) renderResults(taskID string, results *dto.ResultPayload) {
	c.view.Results(view.NewResults(taskID, results))
}

func (c *Controller) renderError(message string) {
	c.view.Error(message)
}

func (c *Controller) publish(event *kafka.TaskEvent) {
	if c.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, publishTimeout)
	defer cancel()

	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish task event",
			zap.String("task_id", event.TaskID),
			zap.String("state", event.State),
			zap.Error(err),
		)
	}
}

// Reset hides every panel, forgets the current task and stops polling. It
// is safe to call in any state, any number of times.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticker.Stop()
	c.generation++
	c.taskID = ""
	c.traceID = ""
	c.state = view.StateIdle
	c.view.Reset()
}

// Close resets the controller and waits for the poller to exit. Later
// submissions fail with ErrClosed.
func (c *Controller) Close() {
	c.Reset()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.ticker.Wait()
}

func (c *Controller) TaskID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taskID
}

func (c *Controller) State() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Polling reports whether a status poller is scheduled.
func (c *Controller) Polling() bool {
	return c.ticker.Active()
}
