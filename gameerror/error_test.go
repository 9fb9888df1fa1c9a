package gameerror

import (
	"errors"
	"testing"
)

func TestFromWireCode(t *testing.T) {
	tests := []struct {
		name       string
		code       byte
		context    byte
		hasContext bool
		wantKind   Kind
	}{
		{"cant connect", 0x01, 0, false, KindCantConnect},
		{"invalid protocol version", 0x02, 0, false, KindInvalidProtocolVersion},
		{"auth failed", 0x03, 0, false, KindAuthFailed},
		{"wrong account state with context", 0x04, byte(AccountStateBanned), true, KindWrongAccountState},
		{"invalid or missing team", 0x05, 0, false, KindInvalidOrMissingTeam},
		{"server full with context", 0x08, byte(PlayerKindAdmin), true, KindServerFullOfPlayerKind},
		{"sessions exhausted", 0x0C, 0, false, KindSessionsExhausted},
		{"connection terminated", 0x0F, 0, false, KindConnectionTerminated},
		{"specified element not found", 0x10, 0, false, KindSpecifiedElementNotFound},
		{"cant call concurrent", 0x11, 0, false, KindCantCallConcurrent},
		{"unknown code preserved", 0x42, 0, false, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromWireCode(tt.code, tt.context, tt.hasContext)
			if err.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if tt.wantKind == KindUnknown && err.UnknownCode != tt.code {
				t.Fatalf("UnknownCode = %#x, want %#x", err.UnknownCode, tt.code)
			}
		})
	}
}

func TestFromWireCodeContextPreserved(t *testing.T) {
	err := FromWireCode(0x04, byte(AccountStateBanned), true)
	if !err.HasAccount || err.AccountState != AccountStateBanned {
		t.Fatalf("expected account state Banned preserved, got %+v", err)
	}
}

func TestFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantKind Kind
	}{
		{401, KindAuthFailed},
		{409, KindInvalidProtocolVersion},
		{412, KindAlreadyOnline},
		{415, KindInvalidOrMissingTeam},
		{417, KindServerFullOfPlayerKind},
		{502, KindServerOffline},
		{999, KindCantConnect},
	}
	for _, tt := range tests {
		if got := FromHTTPStatus(tt.status).Kind; got != tt.wantKind {
			t.Errorf("FromHTTPStatus(%d) = %v, want %v", tt.status, got, tt.wantKind)
		}
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := FromWireCode(0x0C, 0, false)
	if !errors.Is(err, Sentinel(KindSessionsExhausted)) {
		t.Fatalf("expected errors.Is to match KindSessionsExhausted sentinel")
	}
	if errors.Is(err, Sentinel(KindTimeout)) {
		t.Fatalf("did not expect errors.Is to match KindTimeout sentinel")
	}
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("ticks", "must be within [3,140]")
	if err.Kind != KindInvalidArgument {
		t.Fatalf("Kind = %v, want KindInvalidArgument", err.Kind)
	}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
}
