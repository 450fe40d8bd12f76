// Package daily builds the three-stage daily challenge and counts its
// completion once per calendar day.
package daily

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/okian/netninja/internal/domain/netmath"
)

// StageType names a daily stage.
type StageType string

// Stage types in challenge order.
const (
	StageBinary StageType = "binary"
	StageHex    StageType = "hex"
	StageSubnet StageType = "subnet"
)

// StageCount is the number of stages in a challenge.
const StageCount = 3

var subnetCIDRs = []int{24, 25, 26, 27, 28}

// Stage is one question with its exact answer.
type Stage struct {
	Type     StageType `json:"type"`
	Question string    `json:"question"`
	Answer   string    `json:"-"`
	Hint     string    `json:"hint"`
}

// Challenge is the ordered stage list.
type Challenge struct {
	Stages []Stage `json:"stages"`
}

// Generate draws a fresh challenge: binary to decimal, hex to decimal and a
// usable host count.
func Generate(rng *rand.Rand) Challenge {
	bin := rng.Intn(255) + 1
	hex := rng.Intn(255) + 1
	cidr := subnetCIDRs[rng.Intn(len(subnetCIDRs))]

	return Challenge{Stages: []Stage{
		{
			Type:     StageBinary,
			Question: fmt.Sprintf("Convert %s to Decimal", netmath.Byte8(bin)),
			Answer:   strconv.Itoa(bin),
			Hint:     "Sum the powers of 2 (128, 64, 32...)",
		},
		{
			Type:     StageHex,
			Question: fmt.Sprintf("Convert 0x%s to Decimal", netmath.Hex(hex)),
			Answer:   strconv.Itoa(hex),
			Hint:     "Multiply first digit by 16, add the second.",
		},
		{
			Type:     StageSubnet,
			Question: fmt.Sprintf("Usable hosts in a /%d subnet?", cidr),
			Answer:   strconv.Itoa(netmath.UsableHosts(cidr)),
			Hint:     fmt.Sprintf("2^(32-%d) - 2", cidr),
		},
	}}
}
