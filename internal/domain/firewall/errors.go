package firewall

import "errors"

// Sentinel errors for round operations.
var (
	ErrRoundOver         = errors.New("firewall round is over")
	ErrUnknownPacket     = errors.New("unknown packet")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
