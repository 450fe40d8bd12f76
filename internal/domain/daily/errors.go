package daily

import "errors"

var (
	// ErrAlreadyCompleted is returned once today's challenge has been counted.
	ErrAlreadyCompleted = errors.New("daily challenge already completed today")
	// ErrWrongAnswer is returned for an incorrect stage answer; the stage can
	// be retried at once.
	ErrWrongAnswer = errors.New("wrong answer")
	// ErrFinished is returned when submitting to a session that is done.
	ErrFinished = errors.New("daily session finished")
)
