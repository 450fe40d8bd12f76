// Package firewall implements the firewall frenzy rules, packet stream and
// round state machine.
package firewall

import (
	"fmt"
	"math/rand"
)

// Protocol is the transport of a packet.
type Protocol string

// Transport protocols.
const (
	TCP Protocol = "TCP"
	UDP Protocol = "UDP"
)

// Content is the payload class of a packet.
type Content string

// Payload classes.
const (
	ContentData  Content = "DATA"
	ContentMedia Content = "MEDIA"
	ContentExe   Content = "EXE"
)

// Dimension is the packet attribute a rule inspects.
type Dimension string

// Rule dimensions, in unlock order.
const (
	DimensionPort     Dimension = "port"
	DimensionProtocol Dimension = "protocol"
	DimensionOrigin   Dimension = "origin"
	DimensionContent  Dimension = "content"
)

// Service is a well known port.
type Service struct {
	Port int    `json:"port"`
	Name string `json:"name"`
}

// Services lists the ports packets are drawn from.
var Services = []Service{
	{Port: 80, Name: "HTTP"},
	{Port: 443, Name: "HTTPS"},
	{Port: 21, Name: "FTP"},
	{Port: 22, Name: "SSH"},
	{Port: 53, Name: "DNS"},
	{Port: 3389, Name: "RDP"},
}

// Origins lists the country codes packets come from.
var Origins = []string{"US", "CN", "RU", "DE", "BR"}

// Contents lists the payload classes.
var Contents = []Content{ContentData, ContentMedia, ContentExe}

// Rule is the active firewall policy. With Block set the rule blocks packets
// matching the target; otherwise it allows only matching packets and blocks
// the rest.
type Rule struct {
	Dimension   Dimension `json:"dimension"`
	Block       bool      `json:"block"`
	Port        int       `json:"port,omitempty"`
	Protocol    Protocol  `json:"protocol,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Content     Content   `json:"content,omitempty"`
	Description string    `json:"description"`
}

// Blocks reports whether p must be stopped under r.
func (r Rule) Blocks(p Packet) bool {
	var match bool
	switch r.Dimension {
	case DimensionPort:
		match = p.Port == r.Port
	case DimensionProtocol:
		match = p.Protocol == r.Protocol
	case DimensionOrigin:
		match = p.Origin == r.Origin
	case DimensionContent:
		match = p.Content == r.Content
	}
	if r.Block {
		return match
	}
	return !match
}

// Dimensions returns the rule dimensions unlocked at wave.
func Dimensions(wave int) []Dimension {
	dims := []Dimension{DimensionPort}
	if wave > 2 {
		dims = append(dims, DimensionProtocol)
	}
	if wave > 4 {
		dims = append(dims, DimensionOrigin)
	}
	if wave > 6 {
		dims = append(dims, DimensionContent)
	}
	return dims
}

// NewRule draws a rule for wave: an unlocked dimension and a uniform polarity.
func NewRule(rng *rand.Rand, wave int) Rule {
	dims := Dimensions(wave)
	r := Rule{
		Dimension: dims[rng.Intn(len(dims))],
		Block:     rng.Intn(2) == 0,
	}

	switch r.Dimension {
	case DimensionOrigin:
		r.Origin = Origins[rng.Intn(len(Origins))]
		if r.Block {
			r.Description = fmt.Sprintf("BLOCK Traffic from %s", r.Origin)
		} else {
			r.Description = fmt.Sprintf("ALLOW ONLY Traffic from %s", r.Origin)
		}
	case DimensionContent:
		r.Content = Contents[rng.Intn(len(Contents))]
		if r.Block {
			r.Description = fmt.Sprintf("BLOCK %s Content", r.Content)
		} else {
			r.Description = fmt.Sprintf("ALLOW ONLY %s Content", r.Content)
		}
	case DimensionProtocol:
		r.Protocol = TCP
		if rng.Intn(2) == 0 {
			r.Protocol = UDP
		}
		if r.Block {
			r.Description = fmt.Sprintf("BLOCK All %s", r.Protocol)
		} else {
			r.Description = fmt.Sprintf("ALLOW ONLY %s", r.Protocol)
		}
	default:
		svc := Services[rng.Intn(len(Services))]
		r.Port = svc.Port
		if r.Block {
			r.Description = fmt.Sprintf("BLOCK Port %d (%s)", svc.Port, svc.Name)
		} else {
			r.Description = fmt.Sprintf("ALLOW ONLY Port %d", svc.Port)
		}
	}
	return r
}
