package shop

import "errors"

// Shop errors.
var (
	ErrInsufficientFunds = errors.New("not enough xp")
	ErrNotOwned          = errors.New("item not owned")
	ErrNotEquippable     = errors.New("item cannot be equipped")
	ErrUnknownItem       = errors.New("unknown item")

	errOwned = errors.New("already owned")
)
