// Package session implements the request/response correlation engine
// (spec.md §4.3): a fixed pool of 255 correlation slots, lock-free
// try-activate acquisition, and deadline-bounded waiting for a reply.
//
// Grounded in the original connector's block_manager.rs: the slot pool
// is sized and offset exactly as BLOCK_COUNT/BLOCK_OFFSET there (255
// slots, ids 1..=255), and Block.wait's timeout/error-frame handling
// maps onto Slot.Wait here.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/wire"
)

// SlotCount is the number of concurrent correlation ids the wire format
// supports (spec.md §3: CorrelationId 1..255).
const SlotCount = 255

// SlotOffset is the correlation id of slots[0].
const SlotOffset = 1

// DefaultTimeout is the default deadline for Slot.Wait, per spec.md §4.3.
const DefaultTimeout = 3 * time.Second

// Correlator owns the fixed pool of 255 correlation slots and routes
// replies arriving from the receiver task back to the waiting caller.
type Correlator struct {
	slots   [SlotCount]*slotInner
	timeout time.Duration
}

type slotInner struct {
	id     byte
	active atomic.Bool
	mu     sync.Mutex
	ch     chan *wire.Packet
}

// NewCorrelator builds a Correlator with the default 3-second reply
// deadline. Use NewCorrelatorWithTimeout to override it.
func NewCorrelator() *Correlator {
	return NewCorrelatorWithTimeout(DefaultTimeout)
}

// NewCorrelatorWithTimeout builds a Correlator with a custom reply deadline.
func NewCorrelatorWithTimeout(timeout time.Duration) *Correlator {
	c := &Correlator{timeout: timeout}
	for i := range c.slots {
		c.slots[i] = &slotInner{id: byte(i + SlotOffset)}
	}
	return c
}

// Acquire tries to activate a free slot. It returns gameerror
// KindSessionsExhausted if all 255 slots are currently active.
func (c *Correlator) Acquire() (*Slot, error) {
	for _, inner := range c.slots {
		if inner.active.CompareAndSwap(false, true) {
			inner.mu.Lock()
			inner.ch = make(chan *wire.Packet, 1)
			inner.mu.Unlock()
			return &Slot{inner: inner, correlator: c, timestamp: time.Now()}, nil
		}
	}
	return nil, &gameerror.Error{Kind: gameerror.KindSessionsExhausted}
}

// Deliver routes a server reply to the slot matching packet.Correlation.
// If no slot is currently awaiting that id, the packet is dropped; the
// caller (receiver task) should log this per spec.md invariant 1.
func (c *Correlator) Deliver(p *wire.Packet) (delivered bool) {
	if p.Correlation == 0 {
		return false
	}
	idx := int(p.Correlation) - SlotOffset
	if idx < 0 || idx >= SlotCount {
		return false
	}
	inner := c.slots[idx]
	if !inner.active.Load() {
		return false
	}

	inner.mu.Lock()
	ch := inner.ch
	inner.mu.Unlock()
	if ch == nil {
		return false
	}

	select {
	case ch <- p:
		return true
	default:
		// A reply is already buffered and unconsumed for this slot. The
		// ordering contract (spec.md §4.3) says the server never reorders
		// replies on one correlation id, so the first reply is
		// authoritative; a second one here is dropped.
		return false
	}
}

// Active reports how many of the 255 slots are currently acquired.
func (c *Correlator) Active() int {
	n := 0
	for _, inner := range c.slots {
		if inner.active.Load() {
			n++
		}
	}
	return n
}

// Slot is a single acquired correlation slot. Exactly one caller holds a
// Slot between Acquire and Release (spec.md invariant, §8).
type Slot struct {
	inner      *slotInner
	correlator *Correlator
	timestamp  time.Time
	released   atomic.Bool
}

// ID returns the wire correlation byte for this slot.
func (s *Slot) ID() byte { return s.inner.id }

// Wait blocks until a reply is delivered, the correlator's deadline
// elapses, or ctx is cancelled. It always releases the slot before
// returning, on every exit path, matching block_manager.rs's
// `impl Drop for Block`.
func (s *Slot) Wait(ctx context.Context) (*wire.Packet, error) {
	defer s.Release()

	timer := time.NewTimer(s.correlator.timeout)
	defer timer.Stop()

	select {
	case p := <-s.inner.ch:
		return interpretReply(p)
	case <-timer.C:
		return nil, &gameerror.Error{Kind: gameerror.KindTimeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// interpretReply decodes a 0xFF error-command reply into a *gameerror.Error,
// per spec.md §4.3 ("command 0xFF is a server-side error frame").
func interpretReply(p *wire.Packet) (*wire.Packet, error) {
	if p.Command != wire.ErrorCommand {
		return p, nil
	}
	r := p.Reader()
	code, err := r.ReadByte()
	if err != nil {
		return nil, &gameerror.Error{Kind: gameerror.KindUnknown}
	}
	context, ok, _ := r.ReadNullableByte()
	return nil, gameerror.FromWireCode(code, context, ok)
}

// Release returns the slot to the Free state. Dropping a pending request
// (cancellation) releases the slot even if a reply arrives later; any
// such late reply is simply dropped since the channel is abandoned.
// Calling Release more than once is a no-op.
func (s *Slot) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.inner.mu.Lock()
	s.inner.ch = nil
	s.inner.mu.Unlock()
	s.inner.active.Store(false)
}
