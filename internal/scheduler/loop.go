package scheduler

import (
	"context"
	"sync"
	"time"
)

// loop runs a cycle function on a fixed interval until stopped.
type loop struct {
	interval  time.Duration
	immediate bool
	cycle     func(ctx context.Context)

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// Start launches background polling. Calling Start on a running poller is a no-op.
func (l *loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)
	go l.run(runCtx)
}

// Stop cancels polling and waits for the in-flight cycle to return.
func (l *loop) Stop() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *loop) run(ctx context.Context) {
	defer l.wg.Done()

	if l.immediate {
		l.cycle(ctx)
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cycle(ctx)
		}
	}
}
