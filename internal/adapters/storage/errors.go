package storage

import (
	"errors"

	"github.com/okian/netninja/internal/domain/progression"
)

// Sentinel kinds for storage errors.
var (
	ErrNotFound      = progression.ErrNotFound
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrCorrupt       = errors.New("storage file is corrupt")
)
