package connector

import (
	"encoding/binary"
	"time"
)

// keepAliveInterval is the period between application-level pings
// (spec.md §4.8).
const keepAliveInterval = 1 * time.Second

// pinger owns the sender-task half of C8: it writes a websocket ping
// every keepAliveInterval carrying the current millisecond clock as an
// 8-byte big-endian payload, and the receiver-task half installs the
// pong handler that turns the echo into a PingMeasured event.
type pinger struct {
	sender FrameSenderPing
	events *eventQueue
	stop   chan struct{}
	done   chan struct{}
}

// FrameSenderPing is the slice of *transport.Transport the keep-alive
// component needs.
type FrameSenderPing interface {
	SendPing(payload []byte) error
}

func newPinger(sender FrameSenderPing, events *eventQueue) *pinger {
	return &pinger{sender: sender, events: events, stop: make(chan struct{}), done: make(chan struct{})}
}

// run is the sender-task loop; call it in its own goroutine.
func (p *pinger) run() {
	defer close(p.done)
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			var payload [8]byte
			binary.BigEndian.PutUint64(payload[:], uint64(time.Now().UnixMilli()))
			_ = p.sender.SendPing(payload[:])
		case <-p.stop:
			return
		}
	}
}

// onPong is installed as the websocket pong handler (receiver task side,
// spec.md §4.8): it decodes the echoed millisecond timestamp and
// publishes a PingMeasured event.
func (p *pinger) onPong(payload string) error {
	if len(payload) != 8 {
		return nil
	}
	sentMillis := binary.BigEndian.Uint64([]byte(payload))
	elapsed := time.Duration(uint64(time.Now().UnixMilli())-sentMillis) * time.Millisecond
	p.events.Push(Event{Kind: EventPingMeasured, Duration: elapsed})
	return nil
}

// Stop terminates the ping loop and waits for it to exit.
func (p *pinger) Stop() {
	close(p.stop)
	<-p.done
}
