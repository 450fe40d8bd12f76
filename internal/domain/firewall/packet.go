package firewall

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Variant modifies a packet's speed or toughness.
type Variant string

// Packet variants.
const (
	VariantStandard Variant = "standard"
	VariantWorm     Variant = "worm"
	VariantTrojan   Variant = "trojan"
	VariantStealth  Variant = "stealth"
)

// ServerBoundary is the x position at which a packet reaches the server.
const ServerBoundary = 90.0

const (
	spawnStep       = 150 * time.Millisecond
	wormAmplitude   = 15.0
	wormFrequency   = 0.2
	stealthSpeedup  = 1.5
	trojanSlowdown  = 0.6
	trojanHits      = 2
	baseHitXP       = 10
	pointsStandard  = 100
	pointsWorm      = 150
	pointsTrojan    = 250
	startingHealth  = 100
	maxWave         = 20
	ruleRotateEvery = 12 * time.Second
)

// Difficulty tunes speed, spawn pressure, damage and XP.
type Difficulty struct {
	Name       string
	SpeedBase  float64
	SpeedMulti float64
	SpawnBase  time.Duration
	SpawnMin   time.Duration
	Damage     int
	XPMulti    float64
}

// Difficulty presets.
var (
	Recruit = Difficulty{Name: "recruit", SpeedBase: 0.1, SpeedMulti: 0.02, SpawnBase: 2500 * time.Millisecond, SpawnMin: 800 * time.Millisecond, Damage: 5, XPMulti: 0.5}
	Agent   = Difficulty{Name: "agent", SpeedBase: 0.2, SpeedMulti: 0.04, SpawnBase: 2000 * time.Millisecond, SpawnMin: 500 * time.Millisecond, Damage: 10, XPMulti: 1.0}
	SpecOps = Difficulty{Name: "specops", SpeedBase: 0.35, SpeedMulti: 0.06, SpawnBase: 1200 * time.Millisecond, SpawnMin: 250 * time.Millisecond, Damage: 20, XPMulti: 2.0}
)

// DifficultyByName resolves a preset, case-insensitively.
func DifficultyByName(name string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Recruit.Name:
		return Recruit, nil
	case Agent.Name, "":
		return Agent, nil
	case SpecOps.Name:
		return SpecOps, nil
	}
	return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// SpawnInterval is max(SpawnMin, SpawnBase - wave*150ms).
func (d Difficulty) SpawnInterval(wave int) time.Duration {
	iv := d.SpawnBase - time.Duration(wave)*spawnStep
	if iv < d.SpawnMin {
		return d.SpawnMin
	}
	return iv
}

// HitXP is the XP granted for a correct block.
func (d Difficulty) HitXP() int {
	return int(math.Floor(baseHitXP * d.XPMulti))
}

// Packet is one in-flight unit of traffic.
type Packet struct {
	ID       int      `json:"id"`
	Port     int      `json:"port"`
	Service  string   `json:"service"`
	Protocol Protocol `json:"protocol"`
	Origin   string   `json:"origin"`
	Content  Content  `json:"content"`
	Variant  Variant  `json:"variant"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Speed    float64  `json:"speed"`
	Hits     int      `json:"hits"`
}

// Points is the score for destroying the packet correctly.
func (p Packet) Points() int {
	switch p.Variant {
	case VariantTrojan:
		return pointsTrojan
	case VariantWorm:
		return pointsWorm
	}
	return pointsStandard
}

// advance moves the packet one step.
func (p *Packet) advance() {
	p.X += p.Speed
	if p.Variant == VariantWorm {
		p.Y = math.Sin(p.X*wormFrequency) * wormAmplitude
	}
}

// pickVariant applies the wave-gated rolls in order; later rolls override.
func pickVariant(rng *rand.Rand, wave int) Variant {
	v := VariantStandard
	if wave > 3 && rng.Float64() > 0.8 {
		v = VariantWorm
	}
	if wave > 5 && rng.Float64() > 0.85 {
		v = VariantTrojan
	}
	if wave > 7 && rng.Float64() > 0.85 {
		v = VariantStealth
	}
	return v
}

// NewPacket spawns a packet at the left edge.
func NewPacket(rng *rand.Rand, id, wave int, d Difficulty) Packet {
	svc := Services[rng.Intn(len(Services))]
	proto := UDP
	if rng.Intn(2) == 0 {
		proto = TCP
	}
	p := Packet{
		ID:       id,
		Port:     svc.Port,
		Service:  svc.Name,
		Protocol: proto,
		Origin:   Origins[rng.Intn(len(Origins))],
		Content:  Contents[rng.Intn(len(Contents))],
		Variant:  pickVariant(rng, wave),
		Hits:     1,
	}

	p.Speed = d.SpeedBase + float64(wave)*d.SpeedMulti
	switch p.Variant {
	case VariantStealth:
		p.Speed *= stealthSpeedup
	case VariantTrojan:
		p.Speed *= trojanSlowdown
		p.Hits = trojanHits
	}
	return p
}
