package progression

import "errors"

var (
	// ErrNotFound is what a Store returns for a key it does not hold. Any
	// other Get error is treated as the backend being unavailable.
	ErrNotFound = errors.New("key not found")
	// ErrNegativeAmount is returned by AwardXP for amounts below zero.
	ErrNegativeAmount = errors.New("xp amount must not be negative")
	// ErrStorageParse marks a saved record that could not be decoded.
	ErrStorageParse = errors.New("stored stats could not be parsed")
	// ErrAlreadyRecorded is returned when the daily completion for today was
	// already counted.
	ErrAlreadyRecorded = errors.New("daily completion already recorded today")
)
