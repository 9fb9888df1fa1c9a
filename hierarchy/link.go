package hierarchy

import (
	"context"

	"github.com/flattiverse/connector-go/session"
	"github.com/flattiverse/connector-go/wire"
)

// FrameSender is the slice of *transport.Transport a replicated entity
// needs to issue a request: enqueueing an encoded frame. Accepting the
// interface rather than the concrete type keeps this package free of a
// dependency on gorilla/websocket and lets tests substitute a fake sender.
type FrameSender interface {
	Send(frame []byte) error
}

// Link bundles what every command-issuing entity (Controllable, Player,
// Team) needs to turn a local call into a correlated wire request: a
// slot from the session correlator and somewhere to enqueue the frame.
// Factoring this out of Controllable avoids repeating the acquire/
// encode/send/wait sequence on every entity that can issue a command.
type Link struct {
	Correlator *session.Correlator
	Sender     FrameSender
}

// Request builds a packet for command with the given path addressing
// and payload, sends it, and waits for the correlated reply. player
// addresses a unicast target, ship a controllable, and sub a team
// (spec.md §6's indexing fields repurposed as command path addressing).
func (l *Link) Request(ctx context.Context, command byte, player uint16, ship, sub byte, payload []byte) (*wire.Packet, error) {
	slot, err := l.Correlator.Acquire()
	if err != nil {
		return nil, err
	}

	p := &wire.Packet{Command: command, Correlation: slot.ID(), Player: player, Ship: ship, Sub: sub, Payload: payload}
	frame, err := p.Encode()
	if err != nil {
		slot.Release()
		return nil, err
	}
	if err := l.Sender.Send(frame); err != nil {
		slot.Release()
		return nil, err
	}

	return slot.Wait(ctx)
}
