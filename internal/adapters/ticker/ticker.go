// Package ticker drives timer-based game mechanics at a fixed rate.
package ticker

import (
	"context"
	"sync"
	"time"
)

// TickFunc is called on every tick. Returning false ends the loop.
type TickFunc func(now time.Time) bool

// Loop calls a TickFunc at a fixed period on its own goroutine. After Stop
// returns no further call is made.
type Loop struct {
	period time.Duration
	fn     TickFunc

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start launches a loop. It ends when ctx is done, fn returns false or Stop
// is called.
func Start(ctx context.Context, period time.Duration, fn TickFunc) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{
		period: period,
		fn:     fn,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	t := time.NewTicker(l.period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			// Stop may have raced with the tick.
			if ctx.Err() != nil {
				return
			}
			if !l.fn(now) {
				return
			}
		}
	}
}

// Stop cancels the loop and waits for its goroutine to exit. It is safe to
// call more than once and from several goroutines, but not from inside fn.
func (l *Loop) Stop() {
	l.once.Do(l.cancel)
	<-l.done
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }
