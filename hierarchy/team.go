package hierarchy

import (
	"bytes"
	"context"
	"sync"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/wire"
)

// SpectatorTeamID is the reserved team index always present after login
// (spec.md §3).
const SpectatorTeamID = 32

// TeamCapacity is the fixed size of the teams holder (spec.md §4.5):
// ids 0..31 plus the spectator team at 32.
const TeamCapacity = 33

// Color is the RGB color a team displays as.
type Color struct {
	R, G, B byte
}

// Team mirrors the teacher's Player{mu sync.RWMutex; ...} shape: mutable
// fields (MemberCount) are guarded by mu; structural fields (ID, Name,
// Color) are set once at construction and never mutated.
type Team struct {
	mu sync.RWMutex

	id    byte
	name  string
	color Color

	memberCount int

	link *Link
}

// NewTeam constructs a team announced by the server.
func NewTeam(id byte, name string, color Color) *Team {
	return &Team{id: id, name: name, color: color}
}

// BindLink attaches the request link this team's commands issue through,
// the same deferred-binding shape as Player.BindLink.
func (t *Team) BindLink(l *Link) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.link = l
}

func (t *Team) ID() byte      { return t.id }
func (t *Team) Name() string  { return t.name }
func (t *Team) Color() Color  { return t.color }

// MemberCount returns the team's current member count.
func (t *Team) MemberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.memberCount
}

// SetMemberCount updates the member count from a server announcement.
func (t *Team) SetMemberCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.memberCount = n
}

// Chat sends a teamcast message to this team's members (spec.md §6's
// Team::chat(msg)), subject to the same local validation as
// Player.Chat.
func (t *Team) Chat(ctx context.Context, msg string) error {
	t.mu.RLock()
	link, id := t.link, t.id
	t.mu.RUnlock()

	if msg == "" {
		return gameerror.InvalidArgument("msg", "chat message must not be empty")
	}
	if len(msg) > ChatMessageMaxLength {
		return gameerror.InvalidArgument("msg", "chat message exceeds maximum length")
	}
	if link == nil {
		return gameerror.InvalidArgument("team", "team is not attached to a connection")
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := w.WriteString(msg); err != nil {
		return err
	}
	_, err := link.Request(ctx, CommandChatTeamcast, 0, 0, id, w.Bytes())
	return err
}
