package worker

import (
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/pkg/logger"
)

// Option applies a configuration option to the RewardWorker.
type Option func(*RewardWorker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *RewardWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *RewardWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnApplied registers a callback run after each reward is applied.
func WithOnApplied(fn func(Reward, progression.Outcome)) Option {
	return func(w *RewardWorker) {
		w.onApplied = fn
	}
}
