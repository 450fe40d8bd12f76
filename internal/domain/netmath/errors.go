package netmath

import "errors"

// Sentinel kinds for address arithmetic errors.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidCIDR   = errors.New("cidr out of range")
)
