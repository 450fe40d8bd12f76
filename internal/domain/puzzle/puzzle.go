// Package puzzle generates the mini-game questions and validates answers.
//
// Puzzle is a closed set: only the types in this package implement it, and
// Check switches over every one of them.
package puzzle

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind names a puzzle variant.
type Kind string

// Puzzle kinds.
const (
	KindBinaryBuilder     Kind = "binary_builder"
	KindBinaryDecoder     Kind = "binary_decoder"
	KindBinaryBitwise     Kind = "binary_bitwise"
	KindHexMatch          Kind = "hex_match"
	KindHexTranslate      Kind = "hex_translate"
	KindSubnetConceptual  Kind = "subnet_conceptual"
	KindSubnetCalculation Kind = "subnet_calculation"
	KindRouteHop          Kind = "route_hop"
	KindFirewall          Kind = "firewall_judgement"
	KindPhishing          Kind = "phishing_email"
)

var kinds = []Kind{
	KindBinaryBuilder, KindBinaryDecoder, KindBinaryBitwise,
	KindHexMatch, KindHexTranslate,
	KindSubnetConceptual, KindSubnetCalculation,
	KindRouteHop, KindFirewall, KindPhishing,
}

// Kinds lists every puzzle kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Puzzle is one generated question together with its answer.
type Puzzle interface {
	Kind() Kind
	// Prompt is the question as shown to the player.
	Prompt() string
	// Choices lists the options of multiple-choice puzzles; nil for free text.
	Choices() []string

	sealed()
}

// Verdict is the outcome of checking an answer.
type Verdict struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
	XP          int    `json:"xp"`
}

// View is the answer-free projection of a puzzle.
type View struct {
	Kind    Kind     `json:"kind"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

// Describe builds the View of p.
func Describe(p Puzzle) View {
	return View{Kind: p.Kind(), Prompt: p.Prompt(), Choices: p.Choices()}
}

// XP rewards.
const (
	XPBinaryBuilder      = 50
	XPBinaryDecoder      = 75
	XPBinaryBitwise      = 125
	XPHardBonus          = 25
	XPHexMatch           = 75
	XPHexTranslate       = 100
	XPSubnetConceptual   = 50
	XPSubnetCalculation  = 125
	XPRouteHop           = 10
	XPFirewallBlock      = 10
	XPPhishingBase       = 50
	xpPhishingStreakStep = 10
	xpRouteBase          = 100
	xpRoutePerLevel      = 20
)

// PhishingXP is the reward for a correct call with streak prior correct calls.
func PhishingXP(streak int) int {
	return XPPhishingBase + streak*xpPhishingStreakStep
}

// RouteSuccessXP is the bonus for delivering a packet at level with the
// remaining integrity.
func RouteSuccessXP(level int, integrity float64) int {
	return xpRouteBase + level*xpRoutePerLevel + int(math.Floor(integrity))
}

// Params tunes generation. Zero values mean level 1 and wave 1.
type Params struct {
	Hard  bool
	Level int
	Wave  int
}

// Generate dispatches to the generator for kind.
func Generate(rng *rand.Rand, kind Kind, p Params) (Puzzle, error) {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Wave < 1 {
		p.Wave = 1
	}
	switch kind {
	case KindBinaryBuilder:
		return NewBinaryBuilder(rng, p.Hard), nil
	case KindBinaryDecoder:
		return NewBinaryDecoder(rng, p.Hard), nil
	case KindBinaryBitwise:
		return NewBinaryBitwise(rng, p.Hard), nil
	case KindHexMatch:
		return NewHexMatch(rng), nil
	case KindHexTranslate:
		return NewHexTranslate(rng), nil
	case KindSubnetConceptual:
		return NewSubnetConceptual(rng), nil
	case KindSubnetCalculation:
		return NewSubnetCalculation(rng), nil
	case KindRouteHop:
		return NewRouteTable(rng, p.Level).Hops[0], nil
	case KindFirewall:
		return NewFirewallJudgement(rng, p.Wave), nil
	case KindPhishing:
		return NewPhishingEmail(rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// uniqueShuffled pads opts with fill() until it holds n distinct values, then
// shuffles. opts[0] is always kept.
func uniqueShuffled(rng *rand.Rand, opts []string, n int, fill func() string) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	add := func(s string) {
		if _, dup := seen[s]; dup || len(out) >= n {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, o := range opts {
		add(o)
	}
	for len(out) < n {
		add(fill())
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
