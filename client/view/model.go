package view

import (
	"context"
	"sync"
)

// Snapshot is a copy of everything a Model currently displays.
type Snapshot struct {
	State        State
	SubmitBusy   bool
	SubmitText   string
	ProgressBar  float64
	ProgressText string
	Results      *Results
	ErrorText    string
}

func (s Snapshot) ProgressVisible() bool {
	return s.State == StateSubmitting || s.State == StateProgress
}

func (s Snapshot) ResultsVisible() bool {
	return s.State == StateResults
}

func (s Snapshot) ErrorVisible() bool {
	return s.State == StateError
}

// Model is an in-memory View. It backs headless use of the controller and
// lets callers wait for a given display state.
type Model struct {
	mu      sync.Mutex
	snap    Snapshot
	history []State
	changed chan struct{}
}

func NewModel() *Model {
	return &Model{
		snap:    Snapshot{State: StateIdle, SubmitText: SubmitLabel},
		history: []State{StateIdle},
		changed: make(chan struct{}),
	}
}

func (m *Model) Submitting() {
	m.update(func(s *Snapshot) {
		s.State = StateSubmitting
		s.SubmitBusy = true
		s.SubmitText = BusyLabel
		s.ProgressBar = 0
		s.ProgressText = ""
		s.Results = nil
		s.ErrorText = ""
	})
}

func (m *Model) Progress(percent float64, message string) {
	m.update(func(s *Snapshot) {
		s.State = StateProgress
		s.ProgressBar = percent
		s.ProgressText = message
	})
}

func (m *Model) Results(r Results) {
	m.update(func(s *Snapshot) {
		s.State = StateResults
		s.Results = &r
	})
}

func (m *Model) Error(message string) {
	m.update(func(s *Snapshot) {
		s.State = StateError
		s.ErrorText = message
	})
}

func (m *Model) Idle() {
	m.update(func(s *Snapshot) {
		s.SubmitBusy = false
		s.SubmitText = SubmitLabel
	})
}

func (m *Model) Reset() {
	m.update(func(s *Snapshot) {
		s.State = StateIdle
		s.SubmitBusy = false
		s.SubmitText = SubmitLabel
	})
}

func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// History returns every state the model has entered, consecutive repeats
// collapsed.
func (m *Model) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]State(nil), m.history...)
}

// Await blocks until match accepts the current snapshot or ctx is done.
func (m *Model) Await(ctx context.Context, match func(Snapshot) bool) (Snapshot, error) {
	for {
		m.mu.Lock()
		snap, changed := m.snap, m.changed
		m.mu.Unlock()

		if match(snap) {
			return snap, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Settled reports whether the model shows a terminal panel with the submit
// control restored.
func Settled(s Snapshot) bool {
	return (s.State == StateResults || s.State == StateError) && !s.SubmitBusy
}

func (m *Model) update(fn func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.snap)
	if m.history[len(m.history)-1] != m.snap.State {
		m.history = append(m.history, m.snap.State)
	}

	close(m.changed)
	m.changed = make(chan struct{})
}
