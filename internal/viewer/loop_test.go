package viewer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(New())
	l.Start()
	t.Cleanup(l.Stop)
	return l
}

func TestCallReturnsResult(t *testing.T) {
	l := startLoop(t)
	got, err := l.Call(context.Background(), func(v *Viewer) (any, error) {
		return v.Theme, nil
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != "dark" {
		t.Errorf("got %v, want dark", got)
	}
}

func TestTasksRunInPostOrder(t *testing.T) {
	l := startLoop(t)
	for i := 0; i < 10; i++ {
		n := i
		if err := l.Post(func(v *Viewer) { v.Dims.Timestep = n }); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	got, err := l.Call(context.Background(), func(v *Viewer) (any, error) {
		return v.Dims.Timestep, nil
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != 9 {
		t.Errorf("posts applied out of order: final timestep %v, want 9", got)
	}
}

func TestConcurrentCallsSerialize(t *testing.T) {
	l := startLoop(t)

	// Interleaved read-modify-write increments would lose updates if two
	// tasks ever ran at once.
	var wg sync.WaitGroup
	const n = 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Call(context.Background(), func(v *Viewer) (any, error) {
				step := v.Dims.Timestep
				time.Sleep(time.Microsecond)
				v.Dims.Timestep = step + 1
				return nil, nil
			})
			if err != nil {
				t.Errorf("Call failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := l.Call(context.Background(), func(v *Viewer) (any, error) {
		return v.Dims.Timestep, nil
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != n {
		t.Errorf("lost updates: timestep %v, want %d", got, n)
	}
}

func TestPanicBecomesError(t *testing.T) {
	l := startLoop(t)
	_, err := l.Call(context.Background(), func(v *Viewer) (any, error) {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected an error from a panicking task")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry the panic value, got %v", err)
	}

	// The loop must survive.
	if _, err := l.Call(context.Background(), func(v *Viewer) (any, error) { return nil, nil }); err != nil {
		t.Errorf("loop dead after panic: %v", err)
	}
}

func TestCallHonorsContext(t *testing.T) {
	l := startLoop(t)
	block := make(chan struct{})
	defer close(block)

	go l.Call(context.Background(), func(v *Viewer) (any, error) {
		<-block
		return nil, nil
	})
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := l.Call(ctx, func(v *Viewer) (any, error) { return nil, nil })
	if err != context.DeadlineExceeded {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestStoppedLoopRejectsWork(t *testing.T) {
	l := NewLoop(New())
	l.Start()
	l.Stop()

	if err := l.Post(func(v *Viewer) {}); err != ErrLoopStopped {
		t.Errorf("Post after Stop: got %v, want ErrLoopStopped", err)
	}
	if _, err := l.Call(context.Background(), func(v *Viewer) (any, error) { return nil, nil }); err != ErrLoopStopped {
		t.Errorf("Call after Stop: got %v, want ErrLoopStopped", err)
	}
}
