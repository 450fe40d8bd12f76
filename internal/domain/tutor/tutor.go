// Package tutor answers hint and chat requests from a local table. Requests
// take a simulated round trip and give up when their context is cancelled.
package tutor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/netninja/internal/domain/netmath"
	"github.com/okian/netninja/pkg/logger"
)

// OfflineReply is the only chat answer.
const OfflineReply = "NetBot Offline: I am currently in static mode. Please use the Tutorial or Field Manual modules for assistance."

const defaultDelay = 600 * time.Millisecond

// Option configures a Tutor.
type Option func(*Tutor)

// WithDelay sets the simulated round trip. Zero answers immediately.
func WithDelay(d time.Duration) Option {
	return func(t *Tutor) {
		if d >= 0 {
			t.delay = d
		}
	}
}

// WithRand sets the source used to pick hints.
func WithRand(rng *rand.Rand) Option {
	return func(t *Tutor) {
		if rng != nil {
			t.rng = rng
		}
	}
}

// WithLogger sets the tutor logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tutor) {
		if l != nil {
			t.log = l
		}
	}
}

// Tutor serves canned hints.
type Tutor struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
	log   logger.Logger
}

// New creates a Tutor.
func New(opts ...Option) *Tutor {
	t := &Tutor{delay: defaultDelay}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if t.log == nil {
		t.log = logger.Named("tutor")
	}
	return t
}

// wait blocks for the simulated round trip or until ctx is done.
func (t *Tutor) wait(ctx context.Context) error {
	if t.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Hint returns a random hint for the topic concept and detail classify to.
func (t *Tutor) Hint(ctx context.Context, concept, detail string) (string, error) {
	if err := t.wait(ctx); err != nil {
		t.log.Debug(ctx, "hint request abandoned", logger.Error(err))
		return "", err
	}
	hints := hintDB[Classify(concept, detail)]

	t.mu.Lock()
	h := hints[t.rng.Intn(len(hints))]
	t.mu.Unlock()
	return h, nil
}

// Chat replies to message. The tutor runs offline, so the reply is fixed.
func (t *Tutor) Chat(ctx context.Context, _ string, _ []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return OfflineReply, nil
}

// SubnetBreakdown explains ip/cidr step by step.
func (t *Tutor) SubnetBreakdown(ctx context.Context, ip string, cidr int) (string, error) {
	addr, err := netmath.ParseIP(ip)
	if err != nil {
		return "", err
	}
	if !netmath.ValidCIDR(cidr) {
		return "", fmt.Errorf("%w: /%d", netmath.ErrInvalidCIDR, cidr)
	}
	if err := t.wait(ctx); err != nil {
		return "", err
	}
	return SubnetBreakdown(addr, cidr), nil
}

// SubnetBreakdown renders the analysis of addr/cidr.
func SubnetBreakdown(addr uint32, cidr int) string {
	return fmt.Sprintf(`Analysis for %s/%d:
• CIDR /%d means %d Network bits and %d Host bits.
• Subnet Mask: %s
  in binary:  %s
• Network Address: %s (First IP)
• Broadcast Address: %s (Last IP)
• Usable Hosts: %d IPs (%s - %s)`,
		netmath.FormatIP(addr), cidr,
		cidr, cidr, netmath.MaxCIDR-cidr,
		netmath.MaskString(cidr),
		netmath.DottedBinary(netmath.Mask(cidr)),
		netmath.FormatIP(netmath.Network(addr, cidr)),
		netmath.FormatIP(netmath.Broadcast(addr, cidr)),
		netmath.UsableHosts(cidr),
		netmath.FormatIP(netmath.FirstHost(addr, cidr)),
		netmath.FormatIP(netmath.LastHost(addr, cidr)),
	)
}
