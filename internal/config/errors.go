package config

import "errors"

// ErrInvalidConfig marks a field out of range; ErrLoadConfig marks a file or
// environment source that could not be read.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
