package models

type TaskState string

const (
	StateRunning   TaskState = "running"
	StateCompleted TaskState = "completed"
	StateError     TaskState = "error"
)

// ParseState maps a backend status string onto a TaskState. Intermediate
// phases such as "downloading" or "finalizing" count as running.
func ParseState(status string) TaskState {
	switch TaskState(status) {
	case StateCompleted:
		return StateCompleted
	case StateError:
		return StateError
	default:
		return StateRunning
	}
}

func (s TaskState) IsTerminal() bool {
	return s == StateCompleted || s == StateError
}
