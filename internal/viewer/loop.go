package viewer

import (
	"context"
	"errors"
	"fmt"
)

// ErrLoopStopped is returned by Post and Call after the loop has shut down.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop is the viewer's event loop: a single goroutine that owns the Viewer
// and executes posted closures in arrival order. It is the only place
// viewer state may be touched; socket handlers and tools interact with the
// viewer exclusively through Post and Call.
type Loop struct {
	viewer *Viewer
	tasks  chan task
	done   chan struct{}
}

type task struct {
	fn    func(*Viewer) (any, error)
	reply chan<- taskResult // nil for fire-and-forget posts
}

type taskResult struct {
	value any
	err   error
}

// NewLoop wraps a viewer in an event loop. Call Start before posting.
func NewLoop(v *Viewer) *Loop {
	return &Loop{
		viewer: v,
		tasks:  make(chan task, 64),
		done:   make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	go l.run()
}

// Stop shuts the loop down. Tasks already queued may be dropped; pending
// Call waiters receive ErrLoopStopped.
func (l *Loop) Stop() {
	close(l.done)
}

func (l *Loop) run() {
	for {
		select {
		case t := <-l.tasks:
			value, err := runTask(t.fn, l.viewer)
			if t.reply != nil {
				t.reply <- taskResult{value: value, err: err}
			}
		case <-l.done:
			return
		}
	}
}

// runTask executes one posted closure, converting a panic into an error so
// a misbehaving command cannot take the loop down.
func runTask(fn func(*Viewer) (any, error), v *Viewer) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return fn(v)
}

// Post schedules fn without waiting for it to run.
func (l *Loop) Post(fn func(*Viewer)) error {
	if l.stopped() {
		return ErrLoopStopped
	}
	t := task{fn: func(v *Viewer) (any, error) { fn(v); return nil, nil }}
	select {
	case l.tasks <- t:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// stopped reports whether Stop has been called. The task channel is
// buffered, so without this check a send could still succeed after
// shutdown and the task would silently never run.
func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Call schedules fn and waits for its result. The context bounds both the
// wait for a queue slot and the wait for completion.
func (l *Loop) Call(ctx context.Context, fn func(*Viewer) (any, error)) (any, error) {
	if l.stopped() {
		return nil, ErrLoopStopped
	}
	reply := make(chan taskResult, 1)
	select {
	case l.tasks <- task{fn: fn, reply: reply}:
	case <-l.done:
		return nil, ErrLoopStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.value, res.err
	case <-l.done:
		return nil, ErrLoopStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
