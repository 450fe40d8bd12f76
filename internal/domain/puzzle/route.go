package puzzle

import (
	"fmt"
	"math/rand"

	"github.com/okian/netninja/internal/domain/netmath"
)

const (
	minHops        = 3
	maxHops        = 5
	routeMinCIDR   = 16
	routeMaxCIDR   = 30 // exclusive
	routeDecoys    = 2
	routerNameBase = 'A'
)

// RouteOption is one candidate next-hop subnet.
type RouteOption struct {
	Network string `json:"network"`
	CIDR    int    `json:"cidr"`
}

func (o RouteOption) String() string {
	return fmt.Sprintf("%s/%d", o.Network, o.CIDR)
}

// RouteHop asks which of three routes contains Destination.
type RouteHop struct {
	Destination string
	Router      string
	Options     []RouteOption
	Correct     int
}

// RouteTable is the full path of one packet tracer level.
type RouteTable struct {
	Level       int
	Destination string
	Hops        []*RouteHop
}

// HopCount is min(5, 3 + level/2).
func HopCount(level int) int {
	return min(maxHops, minHops+level/2)
}

// randomHostIP draws [1,223].[0,254].[0,254].[1,254].
func randomHostIP(rng *rand.Rand) uint32 {
	a := uint32(rng.Intn(223) + 1)
	b := uint32(rng.Intn(255))
	c := uint32(rng.Intn(255))
	d := uint32(rng.Intn(254) + 1)
	return a<<24 | b<<16 | c<<8 | d
}

// NewRouteTable builds the hops for level. Every hop offers the subnet that
// contains the destination and two same-length decoys that do not.
func NewRouteTable(rng *rand.Rand, level int) RouteTable {
	dest := randomHostIP(rng)
	t := RouteTable{Level: level, Destination: netmath.FormatIP(dest)}

	for i := 0; i < HopCount(level); i++ {
		cidr := rng.Intn(routeMaxCIDR-routeMinCIDR) + routeMinCIDR
		correct := netmath.Network(dest, cidr)
		options := []RouteOption{{Network: netmath.FormatIP(correct), CIDR: cidr}}

		used := map[uint32]bool{correct: true}
		for len(options) < 1+routeDecoys {
			decoy := netmath.Network(randomHostIP(rng), cidr)
			if used[decoy] || netmath.Contains(dest, decoy, cidr) {
				continue
			}
			used[decoy] = true
			options = append(options, RouteOption{Network: netmath.FormatIP(decoy), CIDR: cidr})
		}

		correctNet := options[0].Network
		rng.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })
		hop := &RouteHop{
			Destination: t.Destination,
			Router:      fmt.Sprintf("Router-%c", routerNameBase+i),
			Options:     options,
		}
		for j, o := range options {
			if o.Network == correctNet {
				hop.Correct = j
			}
		}
		t.Hops = append(t.Hops, hop)
	}
	return t
}

func (*RouteHop) Kind() Kind { return KindRouteHop }

func (h *RouteHop) Prompt() string {
	return fmt.Sprintf("%s: which route reaches %s?", h.Router, h.Destination)
}

func (h *RouteHop) Choices() []string {
	out := make([]string, len(h.Options))
	for i, o := range h.Options {
		out[i] = o.String()
	}
	return out
}

func (*RouteHop) sealed() {}

// Range renders the first and last address of the option's subnet.
func (o RouteOption) Range() string {
	net, err := netmath.ParseIP(o.Network)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s - %s", o.Network, netmath.FormatIP(netmath.Broadcast(net, o.CIDR)))
}

// DropMessage is the failure text for routing into opt.
func (h *RouteHop) DropMessage(opt RouteOption) string {
	return fmt.Sprintf("Packet Dropped! %s does not fit in %s/%d", h.Destination, opt.Network, opt.CIDR)
}
