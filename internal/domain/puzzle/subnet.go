package puzzle

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/okian/netninja/internal/domain/netmath"
)

// ConceptKind is a multiple-choice subnet question.
type ConceptKind string

// Conceptual sub-kinds.
const (
	CIDRToMask  ConceptKind = "cidr_to_mask"
	MaskToCIDR  ConceptKind = "mask_to_cidr"
	UsableCount ConceptKind = "usable_count"
)

// CalcKind is a free-text subnet address question.
type CalcKind string

// Calculation sub-kinds.
const (
	NetworkAddr   CalcKind = "network"
	BroadcastAddr CalcKind = "broadcast"
	FirstHostAddr CalcKind = "first_host"
	LastHostAddr  CalcKind = "last_host"
)

var (
	conceptKinds = []ConceptKind{CIDRToMask, MaskToCIDR, UsableCount}
	calcKinds    = []CalcKind{NetworkAddr, BroadcastAddr, FirstHostAddr, LastHostAddr}
)

const (
	subnetChoices = 4
	// /30 would leave only two distinct mask distractors.
	conceptMinCIDR  = 24
	conceptMaxCIDR  = 29
	calcMinCIDR     = 24
	calcMaxCIDR     = 30
	decoyMinCIDR    = 8
	decoyMaxCIDR    = 30
	decoySpread     = 2
	decoyMinHostExp = 2
	decoyMaxHostExp = 12
)

// SubnetConceptual is a multiple-choice mask, prefix or host-count question.
type SubnetConceptual struct {
	Sub     ConceptKind
	IP      string // the mask for MaskToCIDR
	CIDR    int
	Answer  string
	Options []string
}

// SubnetCalculation asks for one derived address of IP/CIDR.
type SubnetCalculation struct {
	Sub    CalcKind
	IP     string
	CIDR   int
	Answer string
}

func randomLabIP(rng *rand.Rand) string {
	return fmt.Sprintf("192.168.%d.%d", rng.Intn(10), rng.Intn(256))
}

func clampCIDR(c int) int {
	return min(decoyMaxCIDR, max(decoyMinCIDR, c))
}

// NewSubnetConceptual draws a sub-kind and a prefix in [24,29] and builds
// four distinct options.
func NewSubnetConceptual(rng *rand.Rand) *SubnetConceptual {
	q := &SubnetConceptual{
		Sub:  conceptKinds[rng.Intn(len(conceptKinds))],
		IP:   randomLabIP(rng),
		CIDR: rng.Intn(conceptMaxCIDR-conceptMinCIDR+1) + conceptMinCIDR,
	}

	var fill func() string
	switch q.Sub {
	case CIDRToMask:
		q.Answer = netmath.MaskString(q.CIDR)
		fill = func() string {
			return netmath.MaskString(clampCIDR(q.CIDR + rng.Intn(2*decoySpread+1) - decoySpread))
		}
	case MaskToCIDR:
		q.IP = netmath.MaskString(q.CIDR)
		q.Answer = "/" + strconv.Itoa(q.CIDR)
		fill = func() string {
			return "/" + strconv.Itoa(clampCIDR(q.CIDR+rng.Intn(2*decoySpread+1)-decoySpread))
		}
	default:
		q.Answer = strconv.Itoa(netmath.UsableHosts(q.CIDR))
		fill = func() string {
			n := rng.Intn(decoyMaxHostExp-decoyMinHostExp+1) + decoyMinHostExp
			if rng.Intn(2) == 0 {
				return strconv.Itoa(1 << n)
			}
			return strconv.Itoa(1<<n - 2)
		}
	}
	q.Options = uniqueShuffled(rng, []string{q.Answer}, subnetChoices, fill)
	return q
}

// NewSubnetCalculation draws 192.168.{0-9}.{0-255}/{24..30} and a sub-kind.
func NewSubnetCalculation(rng *rand.Rand) *SubnetCalculation {
	q := &SubnetCalculation{
		IP:   randomLabIP(rng),
		CIDR: rng.Intn(calcMaxCIDR-calcMinCIDR+1) + calcMinCIDR,
		Sub:  calcKinds[rng.Intn(len(calcKinds))],
	}
	ip, _ := netmath.ParseIP(q.IP)
	var addr uint32
	switch q.Sub {
	case NetworkAddr:
		addr = netmath.Network(ip, q.CIDR)
	case BroadcastAddr:
		addr = netmath.Broadcast(ip, q.CIDR)
	case FirstHostAddr:
		addr = netmath.FirstHost(ip, q.CIDR)
	default:
		addr = netmath.LastHost(ip, q.CIDR)
	}
	q.Answer = netmath.FormatIP(addr)
	return q
}

func (*SubnetConceptual) Kind() Kind  { return KindSubnetConceptual }
func (*SubnetCalculation) Kind() Kind { return KindSubnetCalculation }

func (q *SubnetConceptual) Prompt() string {
	switch q.Sub {
	case CIDRToMask:
		return fmt.Sprintf("Subnet Mask for /%d?", q.CIDR)
	case MaskToCIDR:
		return fmt.Sprintf("CIDR Notation for %s?", q.IP)
	default:
		return fmt.Sprintf("Usable Hosts in /%d?", q.CIDR)
	}
}

func (q *SubnetCalculation) Prompt() string {
	var what string
	switch q.Sub {
	case NetworkAddr:
		what = "Network Address"
	case BroadcastAddr:
		what = "Broadcast Address"
	case FirstHostAddr:
		what = "First Usable Host"
	default:
		what = "Last Usable Host"
	}
	return fmt.Sprintf("%s of %s/%d?", what, q.IP, q.CIDR)
}

func (q *SubnetConceptual) Choices() []string {
	out := make([]string, len(q.Options))
	copy(out, q.Options)
	return out
}

func (*SubnetCalculation) Choices() []string { return nil }

func (*SubnetConceptual) sealed()  {}
func (*SubnetCalculation) sealed() {}

func (q *SubnetConceptual) explain() string {
	switch q.Sub {
	case UsableCount:
		hostBits := netmath.MaxCIDR - q.CIDR
		return fmt.Sprintf("A /%d mask leaves %d bits for hosts. The formula is 2^%d - 2 (subtracting Network & Broadcast).",
			q.CIDR, hostBits, hostBits)
	case CIDRToMask:
		return fmt.Sprintf("/%d means the first %d bits are ON (1). Converting that binary to decimal gives %s.",
			q.CIDR, q.CIDR, q.Answer)
	default:
		return fmt.Sprintf("%s has %d leading ON bits, so the prefix is /%d.", q.IP, q.CIDR, q.CIDR)
	}
}

func (q *SubnetCalculation) explain() string {
	switch q.Sub {
	case NetworkAddr:
		return "The Network ID is found by setting all host bits to 0."
	case BroadcastAddr:
		return "The Broadcast Address is found by setting all host bits to 1."
	default:
		return fmt.Sprintf("Correct! You successfully calculated the %s address based on the /%d mask.", q.Sub, q.CIDR)
	}
}
