package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/session"
	"github.com/flattiverse/connector-go/wire"
)

func TestPlayerDeactivateResetsPing(t *testing.T) {
	p := NewPlayer(1, PlayerKindPlayer, 0, "kirk")
	p.SetPing(42)

	p.Deactivate()

	if p.Active() {
		t.Fatalf("expected Active() == false after Deactivate")
	}
	if p.Ping() != -1 {
		t.Fatalf("Ping() = %d, want -1 after Deactivate", p.Ping())
	}
}

func TestPlayerChatRejectsEmptyMessage(t *testing.T) {
	p := NewPlayer(1, PlayerKindPlayer, 0, "kirk")
	p.BindLink(&Link{Correlator: session.NewCorrelator(), Sender: &fakeSender{}})

	err := p.Chat(context.Background(), "")
	var ge *gameerror.Error
	if !errors.As(err, &ge) || ge.Kind != gameerror.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument for empty message, got %v", err)
	}
}

func TestPlayerChatRejectsOverlongMessage(t *testing.T) {
	p := NewPlayer(1, PlayerKindPlayer, 0, "kirk")
	p.BindLink(&Link{Correlator: session.NewCorrelator(), Sender: &fakeSender{}})

	long := make([]byte, ChatMessageMaxLength+1)
	for i := range long {
		long[i] = 'a'
	}

	err := p.Chat(context.Background(), string(long))
	var ge *gameerror.Error
	if !errors.As(err, &ge) || ge.Kind != gameerror.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument for overlong message, got %v", err)
	}
}

func TestPlayerChatRejectsWithoutLink(t *testing.T) {
	p := NewPlayer(1, PlayerKindPlayer, 0, "kirk")

	err := p.Chat(context.Background(), "hello")
	var ge *gameerror.Error
	if !errors.As(err, &ge) || ge.Kind != gameerror.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument when unattached, got %v", err)
	}
}

func TestPlayerChatSendsUnicastFrame(t *testing.T) {
	corr := session.NewCorrelator()
	sender := &fakeSender{corr: corr, replyWith: func(correlation byte) *wire.Packet {
		return &wire.Packet{Command: CommandChatUnicast, Correlation: correlation}
	}}
	p := NewPlayer(7, PlayerKindPlayer, 0, "spock")
	p.BindLink(&Link{Correlator: corr, Sender: sender})

	if err := p.Chat(context.Background(), "live long"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	packets, err := wire.SplitFrame(sender.lastFrame, wire.DefaultMaxPacketSize)
	if err != nil || len(packets) != 1 {
		t.Fatalf("SplitFrame: %v, %d packets", err, len(packets))
	}
	if packets[0].Command != CommandChatUnicast {
		t.Fatalf("Command = %#x, want %#x", packets[0].Command, CommandChatUnicast)
	}
	if packets[0].Player != 7 {
		t.Fatalf("Player = %d, want 7", packets[0].Player)
	}
}
