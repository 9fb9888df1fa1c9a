package connector

import (
	"context"
	"testing"
	"time"
)

func TestEventQueueOrdersFIFO(t *testing.T) {
	q := newEventQueue()
	q.Push(Event{Kind: EventTickCompleted, PlayerID: 1})
	q.Push(Event{Kind: EventTickCompleted, PlayerID: 2})
	q.Push(Event{Kind: EventTickCompleted, PlayerID: 3})

	for _, want := range []int{1, 2, 3} {
		e, ok := q.TryPop()
		if !ok || e.PlayerID != want {
			t.Fatalf("TryPop() = (%v, %v), want PlayerID %d", e, ok, want)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("expected queue empty")
	}
}

func TestEventQueuePopBlocksUntilPush(t *testing.T) {
	q := newEventQueue()
	done := make(chan Event, 1)
	go func() {
		e, ok, err := q.Pop(context.Background())
		if err != nil || !ok {
			return
		}
		done <- e
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(Event{Kind: EventTickCompleted, PlayerID: 42})

	select {
	case e := <-done:
		if e.PlayerID != 42 {
			t.Fatalf("PlayerID = %d, want 42", e.PlayerID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop did not unblock after Push")
	}
}

func TestEventQueuePopRespectsContextCancellation(t *testing.T) {
	q := newEventQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := q.Pop(ctx)
	if ok || err == nil {
		t.Fatalf("expected Pop to return with a context error, got ok=%v err=%v", ok, err)
	}
}

func TestEventQueueCloseUnblocksPop(t *testing.T) {
	q := newEventQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok, _ := q.Pop(context.Background())
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected Pop to report ok=false after Close")
		}
	case <-time.After(time.Second):
		t.Fatalf("Close did not unblock Pop")
	}
}
