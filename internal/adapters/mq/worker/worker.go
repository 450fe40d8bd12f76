// Package worker applies queued rewards to the progression engine. A single
// worker is the only consumer, so queued XP grants land in enqueue order.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/netninja/internal/adapters/mq/queue"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// Reward abstracts what the worker reads off the queue.
type Reward = queue.Reward

// Awarder grants XP.
type Awarder interface {
	AwardXP(ctx context.Context, amount int) (progression.Outcome, error)
}

// Queue defines how the worker receives rewards.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Reward
}

// Worker processes rewards until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is
	// closed and drained.
	Run(ctx context.Context)

	// Shutdown closes the queue when it can, waits for buffered rewards to
	// be applied, and gives up when ctx expires.
	Shutdown(ctx context.Context) error
}

// RewardWorker implements Worker.
type RewardWorker struct {
	queue     Queue
	awarder   Awarder
	name      string
	onApplied func(Reward, progression.Outcome)

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewRewardWorker creates a worker reading q and writing to a.
func NewRewardWorker(q Queue, a Awarder, opts ...Option) *RewardWorker {
	w := &RewardWorker{
		queue:   q,
		awarder: a,
		name:    "reward-worker",
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *RewardWorker) Run(ctx context.Context) {
	defer close(w.done)

	rewards := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case r, ok := <-rewards:
			if !ok {
				return
			}
			if err := w.process(ctx, r); err != nil {
				w.logger.Error(ctx, "error applying reward", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *RewardWorker) Shutdown(ctx context.Context) error {
	if closer, ok := w.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			w.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.stopOnce.Do(func() { close(w.stop) })
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Deliver queues r for Run. When the queue is full or already closed the
// reward is applied on the caller's goroutine instead, so earned XP is never
// dropped.
func (w *RewardWorker) Deliver(ctx context.Context, r Reward) error {
	if q, ok := w.queue.(interface {
		Enqueue(context.Context, Reward) error
	}); ok {
		err := q.Enqueue(ctx, r)
		if err == nil {
			return nil
		}
		w.logger.Warn(ctx, "reward not queued, applying directly",
			logger.String("reward_id", r.ID),
			logger.Error(err),
		)
	}
	return w.process(context.WithoutCancel(ctx), r)
}

// Done is closed when Run returns.
func (w *RewardWorker) Done() <-chan struct{} { return w.done }

func (w *RewardWorker) process(ctx context.Context, r Reward) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	out, err := w.awarder.AwardXP(ctx, r.Amount)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("reward %s from %s: %w", r.ID, r.Source, err)
	}
	metrics.RecordXPAwarded(r.Source, r.Amount)
	w.logger.Debug(ctx, "reward applied",
		logger.String("reward_id", r.ID),
		logger.String("source", r.Source),
		logger.Int("amount", r.Amount),
		logger.Int("xp", out.Stats.XP),
	)
	if w.onApplied != nil {
		w.onApplied(r, out)
	}
	return nil
}
