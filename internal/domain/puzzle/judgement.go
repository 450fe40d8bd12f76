package puzzle

import (
	"fmt"
	"math/rand"

	"github.com/okian/netninja/internal/domain/firewall"
)

// Firewall answers.
const (
	AnswerBlock = "block"
	AnswerAllow = "allow"
)

// FirewallJudgement asks whether one packet must be blocked under a rule.
type FirewallJudgement struct {
	Rule   firewall.Rule
	Packet firewall.Packet
}

// NewFirewallJudgement draws a rule for wave and one packet.
func NewFirewallJudgement(rng *rand.Rand, wave int) *FirewallJudgement {
	rule := firewall.NewRule(rng, wave)
	return &FirewallJudgement{Rule: rule, Packet: firewall.NewPacket(rng, 1, wave, firewall.Agent)}
}

func (*FirewallJudgement) Kind() Kind { return KindFirewall }

func (j *FirewallJudgement) Prompt() string {
	p := j.Packet
	return fmt.Sprintf("Rule: %s. Packet: port %d (%s) %s from %s carrying %s. Block or allow?",
		j.Rule.Description, p.Port, p.Service, p.Protocol, p.Origin, p.Content)
}

func (*FirewallJudgement) Choices() []string { return []string{AnswerBlock, AnswerAllow} }

func (*FirewallJudgement) sealed() {}

func (j *FirewallJudgement) explain() string {
	if j.Rule.Blocks(j.Packet) {
		return fmt.Sprintf("%q stops this packet.", j.Rule.Description)
	}
	return fmt.Sprintf("%q lets this packet through.", j.Rule.Description)
}
