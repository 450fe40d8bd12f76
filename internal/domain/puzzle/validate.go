package puzzle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/netninja/internal/domain/netmath"
)

const maxByte = 255

var (
	bitsPattern    = regexp.MustCompile(`^[01\s]+$`)
	decimalPattern = regexp.MustCompile(`^\d+$`)
	hexPattern     = regexp.MustCompile(`^[0-9A-Fa-f]+$`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Check validates input against p. Malformed input yields ErrInvalidFormat
// and no verdict; a well-formed wrong answer yields Correct=false.
func Check(p Puzzle, input string) (Verdict, error) {
	switch q := p.(type) {
	case *BinaryBuilder:
		v, err := parseBits(input)
		if err != nil {
			return Verdict{}, err
		}
		return judge(v == q.Target, BitBreakdown(q.Target), binaryXP(XPBinaryBuilder, q.Hard)), nil

	case *BinaryDecoder:
		v, err := parseDecimal(input)
		if err != nil {
			return Verdict{}, err
		}
		if v > maxByte {
			return Verdict{}, fmt.Errorf("%w: max value is 255 (8-bit)", ErrInvalidFormat)
		}
		return judge(v == q.Target, BitBreakdown(q.Target), binaryXP(XPBinaryDecoder, q.Hard)), nil

	case *BinaryBitwise:
		v, err := parseBits(input)
		if err != nil {
			return Verdict{}, err
		}
		return judge(v == q.Result, q.Op.Rule(), binaryXP(XPBinaryBitwise, q.Hard)), nil

	case *HexMatch:
		h, err := normalizeHex(input)
		if err != nil {
			return Verdict{}, err
		}
		want := netmath.Hex(q.Target)
		return judge(h == want, HexBreakdown(want, q.Target), XPHexMatch), nil

	case *HexTranslate:
		return checkTranslate(q, input)

	case *SubnetConceptual:
		a := strings.TrimSpace(input)
		if a == "" {
			return Verdict{}, fmt.Errorf("%w: empty answer", ErrInvalidFormat)
		}
		return judge(a == q.Answer, q.explain(), XPSubnetConceptual), nil

	case *SubnetCalculation:
		a := strings.TrimSpace(input)
		if _, err := netmath.ParseIP(a); err != nil {
			return Verdict{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return judge(a == q.Answer, q.explain(), XPSubnetCalculation), nil

	case *RouteHop:
		idx, err := routeChoice(q, input)
		if err != nil {
			return Verdict{}, err
		}
		opt := q.Options[idx]
		if idx != q.Correct {
			return Verdict{Explanation: q.DropMessage(opt)}, nil
		}
		return Verdict{
			Correct:     true,
			Explanation: fmt.Sprintf("%s fits in %s (%s).", q.Destination, opt, opt.Range()),
			XP:          XPRouteHop,
		}, nil

	case *FirewallJudgement:
		a := strings.ToLower(strings.TrimSpace(input))
		if a != AnswerBlock && a != AnswerAllow {
			return Verdict{}, fmt.Errorf("%w: answer %q or %q", ErrInvalidFormat, AnswerBlock, AnswerAllow)
		}
		return judge((a == AnswerBlock) == q.Rule.Blocks(q.Packet), q.explain(), XPFirewallBlock), nil

	case *PhishingEmail:
		a := strings.ToLower(strings.TrimSpace(input))
		if a != AnswerSafe && a != AnswerPhish {
			return Verdict{}, fmt.Errorf("%w: answer %q or %q", ErrInvalidFormat, AnswerSafe, AnswerPhish)
		}
		v := judge((a == AnswerPhish) == q.Phishing, q.Reason, XPPhishingBase)
		v.Explanation = q.Reason
		return v, nil
	}
	return Verdict{}, fmt.Errorf("%w: %T", ErrUnknownKind, p)
}

// judge hides the explanation and XP of wrong answers.
func judge(correct bool, explanation string, xp int) Verdict {
	if !correct {
		return Verdict{}
	}
	return Verdict{Correct: true, Explanation: explanation, XP: xp}
}

func checkTranslate(q *HexTranslate, input string) (Verdict, error) {
	raw := strings.TrimSpace(input)
	var correct bool
	switch q.Direction {
	case HexToBin:
		v, err := parseBits(raw)
		if err != nil {
			return Verdict{}, err
		}
		correct = v == q.Target
	case HexToDec:
		v, err := parseDecimal(raw)
		if err != nil {
			return Verdict{}, err
		}
		correct = v == q.Target
	default:
		h, err := normalizeHex(raw)
		if err != nil {
			return Verdict{}, err
		}
		correct = h == netmath.Hex(q.Target)
	}
	return judge(correct, HexBreakdown(netmath.Hex(q.Target), q.Target), XPHexTranslate), nil
}

func parseBits(input string) (int, error) {
	if !bitsPattern.MatchString(input) {
		return 0, fmt.Errorf("%w: binary only (0s and 1s)", ErrInvalidFormat)
	}
	v, err := strconv.ParseUint(whitespace.ReplaceAllString(input, ""), 2, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return int(v), nil
}

func parseDecimal(input string) (int, error) {
	s := strings.TrimSpace(input)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: decimal digits only (0-9)", ErrInvalidFormat)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return v, nil
}

func normalizeHex(input string) (string, error) {
	s := whitespace.ReplaceAllString(input, "")
	if !hexPattern.MatchString(s) {
		return "", fmt.Errorf("%w: hex characters only (0-9, A-F)", ErrInvalidFormat)
	}
	return strings.ToUpper(s), nil
}

// routeChoice accepts either the literal "network/cidr" of an option or its
// 1-based position.
func routeChoice(h *RouteHop, input string) (int, error) {
	a := strings.TrimSpace(input)
	for i, o := range h.Options {
		if a == o.String() {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(a); err == nil && n >= 1 && n <= len(h.Options) {
		return n - 1, nil
	}
	return 0, fmt.Errorf("%w: %q is not one of the offered routes", ErrInvalidFormat, a)
}
