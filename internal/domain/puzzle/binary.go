package puzzle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/okian/netninja/internal/domain/netmath"
)

// Operator is a bitwise operator.
type Operator string

// Bitwise operators.
const (
	OpAND Operator = "AND"
	OpOR  Operator = "OR"
	OpXOR Operator = "XOR"
)

var operators = []Operator{OpAND, OpOR, OpXOR}

// Apply evaluates a op b.
func (o Operator) Apply(a, b int) int {
	switch o {
	case OpAND:
		return a & b
	case OpOR:
		return a | b
	case OpXOR:
		return a ^ b
	}
	return 0
}

// Rule is the one-line truth table of the operator.
func (o Operator) Rule() string {
	switch o {
	case OpAND:
		return "AND Rule: Result is 1 only if BOTH top and bottom bits are 1."
	case OpOR:
		return "OR Rule: Result is 1 if EITHER the top OR bottom bit is 1."
	case OpXOR:
		return "XOR Rule: Result is 1 only if the bits are DIFFERENT (one is 1, one is 0)."
	}
	return ""
}

// BinaryBuilder asks for the 8-bit pattern of a decimal target.
type BinaryBuilder struct {
	Target int
	Hard   bool
}

// BinaryDecoder asks for the decimal value of an 8-bit pattern.
type BinaryDecoder struct {
	Target int
	Hard   bool
}

// BinaryBitwise asks for the 8-bit result of A op B.
type BinaryBitwise struct {
	Op     Operator
	A, B   int
	Result int
	Hard   bool
}

// NewBinaryBuilder draws a target in [1,255].
func NewBinaryBuilder(rng *rand.Rand, hard bool) *BinaryBuilder {
	return &BinaryBuilder{Target: rng.Intn(255) + 1, Hard: hard}
}

// NewBinaryDecoder draws a target in [1,255].
func NewBinaryDecoder(rng *rand.Rand, hard bool) *BinaryDecoder {
	return &BinaryDecoder{Target: rng.Intn(255) + 1, Hard: hard}
}

// NewBinaryBitwise draws an operator and two operands in [0,254].
func NewBinaryBitwise(rng *rand.Rand, hard bool) *BinaryBitwise {
	op := operators[rng.Intn(len(operators))]
	a, b := rng.Intn(255), rng.Intn(255)
	return &BinaryBitwise{Op: op, A: a, B: b, Result: op.Apply(a, b), Hard: hard}
}

func (*BinaryBuilder) Kind() Kind { return KindBinaryBuilder }
func (*BinaryDecoder) Kind() Kind { return KindBinaryDecoder }
func (*BinaryBitwise) Kind() Kind { return KindBinaryBitwise }

func (p *BinaryBuilder) Prompt() string {
	return fmt.Sprintf("Set the bits to make %d", p.Target)
}

func (p *BinaryDecoder) Prompt() string {
	return fmt.Sprintf("Convert %s to Decimal", netmath.Byte8(p.Target))
}

func (p *BinaryBitwise) Prompt() string {
	return fmt.Sprintf("%s %s %s = ?", netmath.Byte8(p.A), p.Op, netmath.Byte8(p.B))
}

func (*BinaryBuilder) Choices() []string { return nil }
func (*BinaryDecoder) Choices() []string { return nil }
func (*BinaryBitwise) Choices() []string { return nil }

func (*BinaryBuilder) sealed() {}
func (*BinaryDecoder) sealed() {}
func (*BinaryBitwise) sealed() {}

// BitBreakdown explains v as the sum of its ON bit values.
func BitBreakdown(v int) string {
	var on []string
	for bit := 7; bit >= 0; bit-- {
		if v&(1<<bit) != 0 {
			on = append(on, strconv.Itoa(1<<bit))
		}
	}
	if len(on) == 0 {
		return "Since all bits are 0, the total is 0."
	}
	return fmt.Sprintf("You get %d by adding the ON bits: %s = %d.", v, strings.Join(on, " + "), v)
}

func binaryXP(base int, hard bool) int {
	if hard {
		return base + XPHardBonus
	}
	return base
}
