// Package gameerror defines the closed set of error kinds the connector
// surfaces to application code, per spec.md §7 and §6's wire error codes.
package gameerror

import "fmt"

// AccountState is the context byte carried alongside WrongAccountState.
type AccountState byte

const (
	AccountStateUnknown AccountState = iota
	AccountStateOptIn
	AccountStateReOptIn
	AccountStateUser
	AccountStateBanned
	AccountStateDeleted
)

func (s AccountState) String() string {
	switch s {
	case AccountStateOptIn:
		return "OptIn"
	case AccountStateReOptIn:
		return "ReOptIn"
	case AccountStateUser:
		return "User"
	case AccountStateBanned:
		return "Banned"
	case AccountStateDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// PlayerKind is the context byte carried alongside ServerFullOfPlayerKind.
type PlayerKind byte

const (
	PlayerKindPlayer PlayerKind = iota
	PlayerKindSpectator
	PlayerKindAdmin
	PlayerKindUnknown
)

func (k PlayerKind) String() string {
	switch k {
	case PlayerKindPlayer:
		return "Player"
	case PlayerKindSpectator:
		return "Spectator"
	case PlayerKindAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Kind is the closed set of error kinds from spec.md §7.
type Kind int

const (
	KindCantConnect Kind = iota
	KindInvalidProtocolVersion
	KindAuthFailed
	KindWrongAccountState
	KindInvalidOrMissingTeam
	KindServerFullOfPlayerKind
	KindSessionsExhausted
	KindConnectionTerminated
	KindSpecifiedElementNotFound
	KindCantCallConcurrent
	KindInvalidArgument
	KindTimeout
	KindYouNeedToContinueFirst
	KindAlreadyAlive

	// KindAlreadyOnline corresponds to HTTP 412 on the connect upgrade:
	// the account is already logged in elsewhere. Grounded in the
	// original connector's GameErrorKind::AlreadyOnline.
	KindAlreadyOnline

	// KindServerOffline corresponds to HTTP 502 on the connect upgrade:
	// the reverse proxy is reachable but the galaxy behind it is not.
	KindServerOffline

	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindCantConnect:
		return "CantConnect"
	case KindInvalidProtocolVersion:
		return "InvalidProtocolVersion"
	case KindAuthFailed:
		return "AuthFailed"
	case KindWrongAccountState:
		return "WrongAccountState"
	case KindInvalidOrMissingTeam:
		return "InvalidOrMissingTeam"
	case KindServerFullOfPlayerKind:
		return "ServerFullOfPlayerKind"
	case KindSessionsExhausted:
		return "SessionsExhausted"
	case KindConnectionTerminated:
		return "ConnectionTerminated"
	case KindSpecifiedElementNotFound:
		return "SpecifiedElementNotFound"
	case KindCantCallConcurrent:
		return "CantCallConcurrent"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindTimeout:
		return "Timeout"
	case KindYouNeedToContinueFirst:
		return "YouNeedToContinueFirst"
	case KindAlreadyAlive:
		return "AlreadyAlive"
	case KindAlreadyOnline:
		return "AlreadyOnline"
	case KindServerOffline:
		return "ServerOffline"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned to application code. Which of
// the optional fields below is meaningful depends on Kind.
type Error struct {
	Kind Kind

	// UnknownCode carries the raw wire byte when Kind == KindUnknown, so a
	// caller debugging a protocol mismatch still has the original code.
	UnknownCode byte

	AccountState  AccountState
	HasAccount    bool
	PlayerKind    PlayerKind
	HasPlayerKind bool

	// Reason/Param are set for KindInvalidArgument.
	Reason string
	Param  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindWrongAccountState:
		if e.HasAccount {
			return fmt.Sprintf("[0x04] wrong account state: %s", e.AccountState)
		}
		return "[0x04] wrong account state"
	case KindServerFullOfPlayerKind:
		if e.HasPlayerKind {
			return fmt.Sprintf("[0x08] server full of %s", e.PlayerKind)
		}
		return "[0x08] server full"
	case KindInvalidArgument:
		return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Reason)
	case KindUnknown:
		return fmt.Sprintf("[0x%02X] unknown server error code", e.UnknownCode)
	default:
		return "[" + e.Kind.String() + "]"
	}
}

// Is supports errors.Is comparisons against sentinel Kind values wrapped
// in a bare *Error{Kind: k}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel constructs a comparable *Error carrying only a Kind, suitable
// for use with errors.Is.
func Sentinel(k Kind) *Error { return &Error{Kind: k} }

// FromWireCode decodes the 0xFF server-error-frame error code (and
// optional context byte) into an *Error, per spec.md §6.
func FromWireCode(code byte, context byte, hasContext bool) *Error {
	switch code {
	case 0x01:
		return &Error{Kind: KindCantConnect}
	case 0x02:
		return &Error{Kind: KindInvalidProtocolVersion}
	case 0x03:
		return &Error{Kind: KindAuthFailed}
	case 0x04:
		e := &Error{Kind: KindWrongAccountState}
		if hasContext {
			e.AccountState = AccountState(context)
			e.HasAccount = true
		}
		return e
	case 0x05:
		return &Error{Kind: KindInvalidOrMissingTeam}
	case 0x08:
		e := &Error{Kind: KindServerFullOfPlayerKind}
		if hasContext {
			e.PlayerKind = PlayerKind(context)
			e.HasPlayerKind = true
		}
		return e
	case 0x0C:
		return &Error{Kind: KindSessionsExhausted}
	case 0x0F:
		return &Error{Kind: KindConnectionTerminated}
	case 0x10:
		return &Error{Kind: KindSpecifiedElementNotFound}
	case 0x11:
		return &Error{Kind: KindCantCallConcurrent}
	default:
		return &Error{Kind: KindUnknown, UnknownCode: code}
	}
}

// FromHTTPStatus decodes the HTTP upgrade status codes from spec.md §4.1/§6.
func FromHTTPStatus(status int) *Error {
	switch status {
	case 401:
		return &Error{Kind: KindAuthFailed}
	case 409:
		return &Error{Kind: KindInvalidProtocolVersion}
	case 412:
		return &Error{Kind: KindAlreadyOnline}
	case 415:
		return &Error{Kind: KindInvalidOrMissingTeam}
	case 417:
		return &Error{Kind: KindServerFullOfPlayerKind}
	case 502:
		return &Error{Kind: KindServerOffline}
	default:
		return &Error{Kind: KindCantConnect}
	}
}

// InvalidArgument builds a local validation error that never touches the
// wire, per spec.md §4.7/§7.
func InvalidArgument(param, reason string) *Error {
	return &Error{Kind: KindInvalidArgument, Param: param, Reason: reason}
}
