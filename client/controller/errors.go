package controller

import "errors"

type FailureKind string

const (
	SubmissionFailed    FailureKind = "submission_failed"
	StatusUnavailable   FailureKind = "status_unavailable"
	ServerReportedError FailureKind = "server_reported_error"
)

const (
	msgSubmissionFailed  = "Failed to start processing"
	msgStatusUnavailable = "Failed to get status"
	msgMissingResults    = "Completed task returned no results"
)

// ErrStale is returned by Submit when a reset or newer submission took over
// while the request was in flight.
var ErrStale = errors.New("submission superseded")

var ErrClosed = errors.New("controller closed")

// Failure ends a task. Message is shown to the user as is.
type Failure struct {
	Kind    FailureKind
	TaskID  string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}
