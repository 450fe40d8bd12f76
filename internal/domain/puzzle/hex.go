package puzzle

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/okian/netninja/internal/domain/netmath"
)

// Direction is a hex translation direction.
type Direction string

// Translation directions.
const (
	HexToBin Direction = "hex2bin"
	BinToHex Direction = "bin2hex"
	HexToDec Direction = "hex2dec"
	DecToHex Direction = "dec2hex"
)

var directions = []Direction{HexToBin, BinToHex, HexToDec, DecToHex}

const (
	hexChoices     = 4
	hexNeighborMax = 10
)

// HexMatch asks which of four hex strings equals a decimal target.
type HexMatch struct {
	Target  int
	Options []string
}

// HexTranslate asks for a free-text conversion of Target.
type HexTranslate struct {
	Direction Direction
	Target    int
}

// NewHexMatch draws a target in [0,254] with the correct option, a lower and
// an upper neighbor and one random value, all distinct and shuffled.
func NewHexMatch(rng *rand.Rand) *HexMatch {
	t := rng.Intn(255)
	lower := max(0, t-(rng.Intn(hexNeighborMax)+1))
	upper := t + rng.Intn(hexNeighborMax) + 1
	opts := []string{netmath.Hex(t), netmath.Hex(lower), netmath.Hex(upper), netmath.Hex(rng.Intn(255))}
	return &HexMatch{
		Target: t,
		Options: uniqueShuffled(rng, opts, hexChoices, func() string {
			return netmath.Hex(rng.Intn(255))
		}),
	}
}

// NewHexTranslate draws a direction and a target in [0,254].
func NewHexTranslate(rng *rand.Rand) *HexTranslate {
	return &HexTranslate{Direction: directions[rng.Intn(len(directions))], Target: rng.Intn(255)}
}

func (*HexMatch) Kind() Kind     { return KindHexMatch }
func (*HexTranslate) Kind() Kind { return KindHexTranslate }

func (p *HexMatch) Prompt() string {
	return fmt.Sprintf("Which hex value equals %d?", p.Target)
}

func (p *HexTranslate) Prompt() string {
	hex := netmath.Hex(p.Target)
	switch p.Direction {
	case HexToBin:
		return fmt.Sprintf("Convert 0x%s to Binary", hex)
	case BinToHex:
		b := netmath.Byte8(p.Target)
		return fmt.Sprintf("Convert %s %s to Hex", b[:4], b[4:])
	case HexToDec:
		return fmt.Sprintf("Convert 0x%s to Decimal", hex)
	default:
		return fmt.Sprintf("Convert %d to Hex", p.Target)
	}
}

func (p *HexMatch) Choices() []string {
	out := make([]string, len(p.Options))
	copy(out, p.Options)
	return out
}

func (*HexTranslate) Choices() []string { return nil }

func (*HexMatch) sealed()     {}
func (*HexTranslate) sealed() {}

// HexBreakdown explains hex as its nibble arithmetic.
func HexBreakdown(hex string, dec int) string {
	switch len(hex) {
	case 1:
		return fmt.Sprintf("Digit %s equals %d. Simple!", hex, dec)
	case 2:
		first, _ := strconv.ParseInt(hex[:1], 16, 8)
		second, _ := strconv.ParseInt(hex[1:], 16, 8)
		return fmt.Sprintf("(First digit '%c' × 16) + (Second digit '%c') = (%d × 16) + %d = %d.",
			hex[0], hex[1], first, second, dec)
	}
	return fmt.Sprintf("Hex %s is Base-16 for decimal %d.", hex, dec)
}
