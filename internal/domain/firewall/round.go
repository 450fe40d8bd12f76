package firewall

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// State is the lifecycle of a round.
type State string

// Round states.
const (
	StatePlaying  State = "playing"
	StateGameOver State = "gameover"
	StateStopped  State = "stopped"
)

// RewardFunc receives the XP earned by a correct block.
type RewardFunc func(xp int)

// Option configures a Round.
type Option func(*Round)

// WithReward sets the sink for block rewards.
func WithReward(fn RewardFunc) Option {
	return func(r *Round) {
		if fn != nil {
			r.reward = fn
		}
	}
}

// Snapshot is a copy of the round state safe to hand out.
type Snapshot struct {
	State      State    `json:"state"`
	Difficulty string   `json:"difficulty"`
	Rule       Rule     `json:"rule"`
	Wave       int      `json:"wave"`
	Health     int      `json:"health"`
	Score      int      `json:"score"`
	Packets    []Packet `json:"packets"`
}

// ClickResult describes what a click did.
type ClickResult struct {
	Destroyed bool `json:"destroyed"`
	Correct   bool `json:"correct"`
	Points    int  `json:"points"`
	XP        int  `json:"xp"`
	Damage    int  `json:"damage"`
}

// Round is one play session. All methods are safe for concurrent use; once
// the round is over or stopped every mutation returns ErrRoundOver.
type Round struct {
	mu sync.Mutex

	rng    *rand.Rand
	diff   Difficulty
	reward RewardFunc

	rule    Rule
	wave    int
	health  int
	score   int
	packets []*Packet
	nextID  int
	state   State

	lastSpawn  time.Time
	lastRotate time.Time
}

// NewRound starts a round at wave 1 with full health.
func NewRound(rng *rand.Rand, d Difficulty, now time.Time, opts ...Option) *Round {
	r := &Round{
		rng:        rng,
		diff:       d,
		reward:     func(int) {},
		wave:       1,
		health:     startingHealth,
		state:      StatePlaying,
		lastSpawn:  now,
		lastRotate: now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rule = NewRule(rng, r.wave)
	return r
}

// Tick advances the simulation to now: spawns on schedule, rotates the rule
// every 12 seconds, moves packets and applies server damage.
func (r *Round) Tick(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return ErrRoundOver
	}

	if now.Sub(r.lastSpawn) > r.diff.SpawnInterval(r.wave) {
		r.nextID++
		p := NewPacket(r.rng, r.nextID, r.wave, r.diff)
		r.packets = append(r.packets, &p)
		r.lastSpawn = now
	}

	if now.Sub(r.lastRotate) > ruleRotateEvery {
		r.wave = min(maxWave, r.wave+1)
		r.rule = NewRule(r.rng, r.wave)
		r.lastRotate = now
	}

	damage := 0
	kept := r.packets[:0]
	for _, p := range r.packets {
		p.advance()
		if p.X > ServerBoundary {
			if r.rule.Blocks(*p) {
				damage += r.diff.Damage
			}
			continue
		}
		kept = append(kept, p)
	}
	r.packets = kept

	if damage > 0 {
		r.hurt(damage)
	}
	return nil
}

// Click judges packet id under the active rule. A trojan absorbs its first
// click. Destroying a packet the rule blocks scores points and XP; destroying
// one it allows costs health.
func (r *Round) Click(id int) (ClickResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return ClickResult{}, ErrRoundOver
	}

	idx := -1
	for i, p := range r.packets {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ClickResult{}, fmt.Errorf("%w: %d", ErrUnknownPacket, id)
	}

	p := r.packets[idx]
	if p.Hits > 1 {
		p.Hits--
		return ClickResult{}, nil
	}

	r.packets = append(r.packets[:idx], r.packets[idx+1:]...)
	if r.rule.Blocks(*p) {
		res := ClickResult{Destroyed: true, Correct: true, Points: p.Points(), XP: r.diff.HitXP()}
		r.score += res.Points
		r.reward(res.XP)
		return res, nil
	}

	r.hurt(r.diff.Damage)
	return ClickResult{Destroyed: true, Damage: r.diff.Damage}, nil
}

// Stop ends the round; later ticks and clicks are refused.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StatePlaying {
		r.state = StateStopped
	}
}

// Snapshot returns a copy of the current state.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		State:      r.state,
		Difficulty: r.diff.Name,
		Rule:       r.rule,
		Wave:       r.wave,
		Health:     r.health,
		Score:      r.score,
		Packets:    make([]Packet, 0, len(r.packets)),
	}
	for _, p := range r.packets {
		s.Packets = append(s.Packets, *p)
	}
	return s
}

// hurt must be called with r.mu held.
func (r *Round) hurt(n int) {
	r.health -= n
	if r.health <= 0 {
		r.health = 0
		r.state = StateGameOver
	}
}
