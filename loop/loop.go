// Package loop provides the single logical event thread every core component
// runs on. Components never lock: they only touch state from callbacks the
// Scheduler runs.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

type Timer interface {
	// Stop prevents the callback from running. Returns false if it already
	// ran or was stopped.
	Stop() bool
}

type Scheduler interface {
	Now() time.Time
	// Post queues fn to run on the loop after everything queued before it.
	Post(fn func())
	// AfterFunc posts fn once d elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop runs posted callbacks on one goroutine. Post is safe from any
// goroutine; AfterFunc and Stop must be called from the loop.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wakeup chan struct{}
}

func New() *Loop {
	return &Loop{wakeup: make(chan struct{}, 1)}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

type loopTimer struct {
	t       *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.t.Stop()
	return true
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.stopped {
				return
			}
			lt.fired = true
			fn()
		})
	})
	return lt
}

// Run blocks running callbacks until ctx is done. Callbacks still queued at
// that point are dropped.
func (l *Loop) Run(ctx context.Context) {
	glog.Info("event loop: enter")
	defer glog.Info("event loop: exit")

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return
			}
			fn()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wakeup:
		}
	}
}

// Call runs fn on the loop and waits for it to return. It must not be called
// from the loop itself.
func Call(ctx context.Context, s Scheduler, fn func()) error {
	done := make(chan struct{})
	s.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
