package schedule

import (
	"context"
	"sync"
	"time"
)

// Ticker runs at most one periodic task. Starting a task cancels the one
// before it, so two tasks never tick concurrently.
type Ticker struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
	wg     sync.WaitGroup
}

func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start schedules fn every interval, first after one full interval. The
// context passed to fn is cancelled when the task is replaced or stopped.
// Ticks run sequentially; a tick that would fire while fn is still running
// is dropped.
func (t *Ticker) Start(ctx context.Context, fn func(context.Context)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	taskCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.seq++
	seq := t.seq

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.release(seq, cancel)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-taskCtx.Done():
				return
			case <-ticker.C:
				if taskCtx.Err() != nil {
					return
				}
				fn(taskCtx)
			}
		}
	}()
}

// release clears the current task when its goroutine exits on its own, for
// instance because the parent context ended.
func (t *Ticker) release(seq uint64, cancel context.CancelFunc) {
	cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq == seq && t.cancel != nil {
		t.cancel = nil
	}
}

// Stop cancels the current task. It does not wait for a running tick, so it
// is safe to call from inside one.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Wait blocks until every task goroutine has returned.
func (t *Ticker) Wait() {
	t.wg.Wait()
}
