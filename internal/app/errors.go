package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownGame = errors.New("unknown game")
)
