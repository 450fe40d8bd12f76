package tracer

import "errors"

var (
	// ErrRoundOver is returned when a finished or stopped round is mutated.
	ErrRoundOver = errors.New("tracer round is over")
	// ErrUnknownOption is returned when a selection names no offered route.
	ErrUnknownOption = errors.New("unknown route option")
	// ErrNotCleared is returned by Next before the current level is delivered.
	ErrNotCleared = errors.New("level not cleared")
)
