// Package tracer runs the packet tracer mini-game: route a packet through a
// chain of routers before its integrity decays to zero.
package tracer

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/okian/netninja/internal/domain/puzzle"
)

const (
	startIntegrity = 100.0
	decayNormal    = 0.15
	decayDilated   = 0.05

	corruptedMessage = "PACKET CORRUPTED. Integrity check failed. Route faster next time."
)

// State is the lifecycle of a level attempt.
type State string

// Round states.
const (
	StatePlanning State = "planning"
	StateSuccess  State = "success"
	StateFailure  State = "failure"
	StateStopped  State = "stopped"
)

// RewardFunc receives XP earned by routing.
type RewardFunc func(xp int)

// Option configures a Round.
type Option func(*Round)

// WithTimeDilation slows integrity decay, as granted by the time_dilation
// upgrade.
func WithTimeDilation(on bool) Option {
	return func(r *Round) {
		r.dilated = on
	}
}

// WithReward sets the sink for hop and delivery rewards.
func WithReward(fn RewardFunc) Option {
	return func(r *Round) {
		if fn != nil {
			r.reward = fn
		}
	}
}

// Snapshot is a copy of the round state safe to hand out.
type Snapshot struct {
	State       State    `json:"state"`
	Level       int      `json:"level"`
	Destination string   `json:"destination"`
	Router      string   `json:"router"`
	Hop         int      `json:"hop"`
	Hops        int      `json:"hops"`
	Options     []string `json:"options"`
	Integrity   float64  `json:"integrity"`
	Feedback    string   `json:"feedback,omitempty"`
}

// Result describes the outcome of one selection.
type Result struct {
	Correct   bool   `json:"correct"`
	Delivered bool   `json:"delivered"`
	XP        int    `json:"xp"`
	Feedback  string `json:"feedback,omitempty"`
}

// Round is a packet tracer session. It is safe for concurrent use.
type Round struct {
	mu sync.Mutex

	rng     *rand.Rand
	reward  RewardFunc
	dilated bool

	table     puzzle.RouteTable
	hop       int
	integrity float64
	state     State
	feedback  string
}

// NewRound builds the route table for level and starts planning.
func NewRound(rng *rand.Rand, level int, opts ...Option) *Round {
	r := &Round{rng: rng, reward: func(int) {}}
	for _, opt := range opts {
		opt(r)
	}
	r.generate(max(1, level))
	return r
}

// generate must be called with r.mu held.
func (r *Round) generate(level int) {
	r.table = puzzle.NewRouteTable(r.rng, level)
	r.hop = 0
	r.integrity = startIntegrity
	r.state = StatePlanning
	r.feedback = ""
}

// DecayRate is the integrity lost per tick.
func (r *Round) DecayRate() float64 {
	if r.dilated {
		return decayDilated
	}
	return decayNormal
}

// Tick decays integrity by one step. Reaching zero fails the level.
func (r *Round) Tick() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlanning {
		return ErrRoundOver
	}
	r.integrity = max(0, r.integrity-r.DecayRate())
	if r.integrity <= 0 {
		r.state = StateFailure
		r.feedback = corruptedMessage
	}
	return nil
}

// Select routes the packet through the option named by input, either its
// "network/cidr" literal or its 1-based position. A wrong route drops the
// packet; the right one advances to the next router or delivers it.
func (r *Round) Select(input string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlanning {
		return Result{}, ErrRoundOver
	}

	hop := r.table.Hops[r.hop]
	v, err := puzzle.Check(hop, input)
	if err != nil {
		if errors.Is(err, puzzle.ErrInvalidFormat) {
			return Result{}, fmt.Errorf("%w: %v", ErrUnknownOption, err)
		}
		return Result{}, err
	}

	if !v.Correct {
		r.state = StateFailure
		r.feedback = v.Explanation
		return Result{Feedback: v.Explanation}, nil
	}

	if r.hop < len(r.table.Hops)-1 {
		r.hop++
		r.reward(v.XP)
		return Result{Correct: true, XP: v.XP, Feedback: v.Explanation}, nil
	}

	xp := puzzle.RouteSuccessXP(r.table.Level, r.integrity)
	r.state = StateSuccess
	r.feedback = fmt.Sprintf("Packet delivered to %s.", r.table.Destination)
	r.reward(xp)
	return Result{Correct: true, Delivered: true, XP: xp, Feedback: r.feedback}, nil
}

// Next moves to a fresh table one level up. Only a delivered level can be
// left this way.
func (r *Round) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateStopped:
		return ErrRoundOver
	case StateSuccess:
		r.generate(r.table.Level + 1)
		return nil
	}
	return ErrNotCleared
}

// Retry regenerates the table at the current level.
func (r *Round) Retry() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateStopped {
		return ErrRoundOver
	}
	r.generate(r.table.Level)
	return nil
}

// Stop ends the session; every later call is refused.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateStopped
}

// Snapshot returns a copy of the current state.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		State:       r.state,
		Level:       r.table.Level,
		Destination: r.table.Destination,
		Hop:         r.hop,
		Hops:        len(r.table.Hops),
		Integrity:   r.integrity,
		Feedback:    r.feedback,
	}
	if hop := r.table.Hops[r.hop]; hop != nil {
		s.Router = hop.Router
		s.Options = hop.Choices()
	}
	return s
}

// Current returns the hop awaiting a decision.
func (r *Round) Current() *puzzle.RouteHop {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.Hops[r.hop]
}
