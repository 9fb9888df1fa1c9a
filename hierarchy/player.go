package hierarchy

import (
	"bytes"
	"context"
	"sync"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/wire"
)

// ChatMessageMaxLength bounds a chat message's length (spec.md §4.7).
const ChatMessageMaxLength = 200

// PlayerCapacity is the fixed size of the players holder (spec.md §3/§4.5):
// ids 0..192, plus the 193 sentinel spec.md §3 reserves for "spectator".
const PlayerCapacity = 194

// PlayerKind is the closed set of player roles (spec.md §3).
// PlayerKindUnknown stands for any role byte this client doesn't
// recognize; the raw wire byte itself is not kept.
type PlayerKind int

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

// Player is a replicated player record (spec.md §3). Ping is the one hot
// field updated every tick by the receiver task; name/kind/team are
// structural and set once at announcement, mirroring the teacher's split
// between immutable identity fields and the mutex-guarded mutable ones
// on game.Player.
type Player struct {
	mu sync.RWMutex

	id     int
	kind   PlayerKind
	teamID byte
	name   string

	ping   int
	active bool

	link *Link
}

// NewPlayer constructs a player from a server announcement.
func NewPlayer(id int, kind PlayerKind, teamID byte, name string) *Player {
	return &Player{id: id, kind: kind, teamID: teamID, name: name, active: true}
}

// BindLink attaches the request link this player's commands issue through.
// Called once by the event dispatch after a fresh announcement, mirroring
// how Controllable receives its link at construction; Player's link is
// bound later since the player record exists before a Galaxy connection's
// link is available to the dispatcher that builds it from a wire frame.
func (p *Player) BindLink(l *Link) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.link = l
}

func (p *Player) ID() int        { return p.id }
func (p *Player) Kind() PlayerKind { return p.kind }
func (p *Player) TeamID() byte   { return p.teamID }
func (p *Player) Name() string   { return p.name }

// Ping returns the last measured round-trip time in milliseconds, or -1
// if the player has left (spec.md §3).
func (p *Player) Ping() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ping
}

// SetPing updates the player's ping, as observed from a server announcement
// of another player's round trip (distinct from this connection's own
// keep-alive measurement, C8).
func (p *Player) SetPing(ms int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ping = ms
}

// Active reports whether the player is still present in the galaxy.
func (p *Player) Active() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// Deactivate marks the player as having left: ping is reset to -1 and
// active becomes false (spec.md §3). This does not remove the player
// from its holder; the holder removal is the event fan-out's job so
// that stale id references can still observe "removed", per invariant 2.
func (p *Player) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.ping = -1
}

// Chat sends a unicast message to this player (spec.md §6's
// Player::chat(msg)). msg must be non-empty and no longer than
// ChatMessageMaxLength; both are validated locally before the frame is
// ever encoded, the same pattern Controllable's command methods use.
func (p *Player) Chat(ctx context.Context, msg string) error {
	p.mu.RLock()
	link, id := p.link, p.id
	p.mu.RUnlock()

	if msg == "" {
		return gameerror.InvalidArgument("msg", "chat message must not be empty")
	}
	if len(msg) > ChatMessageMaxLength {
		return gameerror.InvalidArgument("msg", "chat message exceeds maximum length")
	}
	if link == nil {
		return gameerror.InvalidArgument("player", "player is not attached to a connection")
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := w.WriteString(msg); err != nil {
		return err
	}
	_, err := link.Request(ctx, CommandChatUnicast, uint16(id), 0, 0, w.Bytes())
	return err
}
