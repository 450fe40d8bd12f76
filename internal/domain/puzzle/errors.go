package puzzle

import (
	"errors"
	"fmt"

	"github.com/okian/netninja/internal/domain/netmath"
)

// Sentinel errors. ErrInvalidFormat also matches netmath.ErrInvalidFormat.
var (
	ErrInvalidFormat = fmt.Errorf("answer: %w", netmath.ErrInvalidFormat)
	ErrUnknownPuzzle = errors.New("unknown puzzle")
	ErrUnknownKind   = errors.New("unknown puzzle kind")
)
