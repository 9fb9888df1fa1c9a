package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/session"
	"github.com/flattiverse/connector-go/wire"
)

func TestTeamMemberCount(t *testing.T) {
	tm := NewTeam(3, "Klingons", Color{R: 200})
	tm.SetMemberCount(5)

	if tm.MemberCount() != 5 {
		t.Fatalf("MemberCount() = %d, want 5", tm.MemberCount())
	}
}

func TestTeamChatRejectsWithoutLink(t *testing.T) {
	tm := NewTeam(3, "Klingons", Color{})

	err := tm.Chat(context.Background(), "qapla'")
	var ge *gameerror.Error
	if !errors.As(err, &ge) || ge.Kind != gameerror.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument when unattached, got %v", err)
	}
}

func TestTeamChatSendsTeamcastFrame(t *testing.T) {
	corr := session.NewCorrelator()
	sender := &fakeSender{corr: corr, replyWith: func(correlation byte) *wire.Packet {
		return &wire.Packet{Command: CommandChatTeamcast, Correlation: correlation}
	}}
	tm := NewTeam(3, "Klingons", Color{})
	tm.BindLink(&Link{Correlator: corr, Sender: sender})

	if err := tm.Chat(context.Background(), "qapla'"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	packets, err := wire.SplitFrame(sender.lastFrame, wire.DefaultMaxPacketSize)
	if err != nil || len(packets) != 1 {
		t.Fatalf("SplitFrame: %v, %d packets", err, len(packets))
	}
	if packets[0].Command != CommandChatTeamcast {
		t.Fatalf("Command = %#x, want %#x", packets[0].Command, CommandChatTeamcast)
	}
	if packets[0].Sub != 3 {
		t.Fatalf("Sub = %d, want 3", packets[0].Sub)
	}
}
