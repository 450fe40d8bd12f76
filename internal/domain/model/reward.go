// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward sources, used as metric labels.
const (
	SourceBinary   = "binary"
	SourceHex      = "hex"
	SourceSubnet   = "subnet"
	SourceTracer   = "tracer"
	SourceFirewall = "firewall"
	SourcePhishing = "phishing"
	SourceDaily    = "daily"
)

// Reward is an XP grant produced by a game and applied asynchronously.
type Reward struct {
	ID     string    // unique id, for log correlation
	Source string    // game that produced it
	Amount int       // XP, never negative
	TS     time.Time // when it was earned
}

// NewReward stamps a reward with a fresh id and the current time.
func NewReward(source string, amount int) Reward {
	return Reward{
		ID:     uuid.NewString(),
		Source: source,
		Amount: amount,
		TS:     time.Now(),
	}
}
