package queue

import "errors"

// Enqueue failures.
var (
	ErrClosed = errors.New("reward queue closed")
	ErrFull   = errors.New("reward queue full")
)
