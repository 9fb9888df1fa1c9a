package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/wire"
)

func TestAcquireExhaustion(t *testing.T) {
	c := NewCorrelator()
	var slots []*Slot
	for i := 0; i < SlotCount; i++ {
		s, err := c.Acquire()
		if err != nil {
			t.Fatalf("Acquire() #%d: %v", i, err)
		}
		slots = append(slots, s)
	}

	if _, err := c.Acquire(); !errors.Is(err, gameerror.Sentinel(gameerror.KindSessionsExhausted)) {
		t.Fatalf("expected SessionsExhausted on the 256th acquire, got %v", err)
	}

	if c.Active() != SlotCount {
		t.Fatalf("Active() = %d, want %d", c.Active(), SlotCount)
	}

	// releasing one slot frees exactly one acquire.
	slots[0].Release()
	if _, err := c.Acquire(); err != nil {
		t.Fatalf("expected Acquire to succeed after a release: %v", err)
	}
}

func TestWaitDeliversReply(t *testing.T) {
	c := NewCorrelator()
	slot, err := c.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	reply := &wire.Packet{Command: 0x20, Correlation: slot.ID()}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if !c.Deliver(reply) {
			t.Errorf("Deliver should have matched the waiting slot")
		}
	}()

	got, err := slot.Wait(context.Background())
	<-done
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got.Command != 0x20 {
		t.Fatalf("got command %#x, want 0x20", got.Command)
	}
}

func TestWaitTimesOutAndReleasesSlot(t *testing.T) {
	c := NewCorrelatorWithTimeout(20 * time.Millisecond)
	slot, err := c.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	_, err = slot.Wait(context.Background())
	if !errors.Is(err, gameerror.Sentinel(gameerror.KindTimeout)) {
		t.Fatalf("expected Timeout, got %v", err)
	}

	if c.Active() != 0 {
		t.Fatalf("expected slot to be released after timeout, Active() = %d", c.Active())
	}

	// a later legitimate request succeeds.
	if _, err := c.Acquire(); err != nil {
		t.Fatalf("expected Acquire to succeed after timeout release: %v", err)
	}
}

func TestWaitDecodesServerErrorFrame(t *testing.T) {
	c := NewCorrelator()
	slot, err := c.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	errPacket := &wire.Packet{Command: wire.ErrorCommand, Correlation: slot.ID(), Payload: []byte{0x10}}
	go c.Deliver(errPacket)

	_, err = slot.Wait(context.Background())
	var ge *gameerror.Error
	if !errors.As(err, &ge) || ge.Kind != gameerror.KindSpecifiedElementNotFound {
		t.Fatalf("expected SpecifiedElementNotFound, got %v", err)
	}
}

func TestDeliverDropsUnknownCorrelation(t *testing.T) {
	c := NewCorrelator()
	if c.Deliver(&wire.Packet{Command: 0x20, Correlation: 17}) {
		t.Fatalf("expected Deliver to report no waiting slot for an unacquired id")
	}
}

func TestCancelReleasesSlotAndDropsLateReply(t *testing.T) {
	c := NewCorrelator()
	slot, err := c.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = slot.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.Active() != 0 {
		t.Fatalf("expected slot released on cancellation, Active() = %d", c.Active())
	}

	// a reply that arrives after cancellation is dropped, not delivered.
	if c.Deliver(&wire.Packet{Command: 0x20, Correlation: slot.ID()}) {
		t.Fatalf("expected late reply on a released slot to be dropped")
	}
}
