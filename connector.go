// Package connector is the client-side connector for a galaxy server: it
// composes the transport, packet codec, session correlator, replicated
// hierarchy, and controllable command surface into a single facade,
// Connect, and exposes the resulting event stream and command API.
//
// Grounded in the teacher's main.go/server.Server composition shape
// (build the dependencies, wire them together, run the accept loop) but
// inverted to the dial side: Connect opens one outbound session and
// starts the two background tasks (sender/receiver) spec.md §5 describes.
package connector

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/hierarchy"
	"github.com/flattiverse/connector-go/session"
	"github.com/flattiverse/connector-go/transport"
	"github.com/flattiverse/connector-go/wire"
)

// AnonymousAuth is the 64-character all-zero key spec.md §6 reserves for
// anonymous auth.
const AnonymousAuth = "0000000000000000000000000000000000000000000000000000000000000000"

// Config controls how Connect dials and correlates.
type Config struct {
	Auth string
	Team string

	MaxPacketSize   uint32
	CorrelatorTimeout time.Duration
	DialTimeout     time.Duration
	ProxyURL        *url.URL
}

// Option mutates a Config, following the teacher's preference for
// constructing with sane defaults (NewServer()) generalized here to a
// functional-options configurator since this is a library entry point
// rather than a single fixed server construction.
type Option func(*Config)

// WithTeam requests joining the named team at login.
func WithTeam(team string) Option {
	return func(c *Config) { c.Team = team }
}

// WithMaxPacketSize overrides the default maximum decoded payload size.
func WithMaxPacketSize(n uint32) Option {
	return func(c *Config) { c.MaxPacketSize = n }
}

// WithCorrelatorTimeout overrides the default 3-second reply deadline.
func WithCorrelatorTimeout(d time.Duration) Option {
	return func(c *Config) { c.CorrelatorTimeout = d }
}

// WithDialTimeout overrides the default websocket handshake timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Config) { c.DialTimeout = d }
}

// WithProxyURL overrides the http_proxy environment variable.
func WithProxyURL(u *url.URL) Option {
	return func(c *Config) { c.ProxyURL = u }
}

func defaultConfig() Config {
	return Config{
		Auth:              AnonymousAuth,
		MaxPacketSize:     wire.DefaultMaxPacketSize,
		CorrelatorTimeout: session.DefaultTimeout,
		DialTimeout:       transport.DefaultDialTimeout,
	}
}

// Galaxy is the C10 facade: one connected session, composing C1-C9 and
// exposing the event stream plus the command surfaces.
type Galaxy struct {
	galaxy     *hierarchy.Galaxy
	transport  *transport.Transport
	correlator *session.Correlator
	link       *hierarchy.Link
	events     *eventQueue
	pinger     *pinger

	cfg Config

	mu            sync.Mutex
	loginComplete bool

	controllablesMu sync.Mutex
	controllables   map[int]*hierarchy.Holder[hierarchy.Controllable]

	closeOnce sync.Once
}

// Connect dials host/path (spec.md §6's
// wss://{host}/api/universes/{universe_name}.ws endpoint shape), logs in,
// and starts the sender and receiver background tasks. The returned
// Galaxy is ready for NextEvent/PollEvent once login completes.
func Connect(ctx context.Context, host, universeName string, opts ...Option) (*Galaxy, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	query := url.Values{}
	query.Set("auth", cfg.Auth)
	if cfg.Team != "" {
		query.Set("team", cfg.Team)
	}

	path := "/api/universes/" + universeName + ".ws"
	t, err := transport.Dial(ctx, host, path, query, transport.Config{
		DialTimeout: cfg.DialTimeout,
		ProxyURL:    cfg.ProxyURL,
	})
	if err != nil {
		return nil, err
	}

	g := &Galaxy{
		galaxy:        hierarchy.NewGalaxy(),
		transport:     t,
		correlator:    session.NewCorrelatorWithTimeout(cfg.CorrelatorTimeout),
		events:        newEventQueue(),
		cfg:           cfg,
		controllables: make(map[int]*hierarchy.Holder[hierarchy.Controllable]),
	}
	g.link = &hierarchy.Link{Correlator: g.correlator, Sender: t}
	g.pinger = newPinger(t, g.events)

	t.SetPongHandler(g.pinger.onPong)
	t.SetPingHandler(func(payload string) error {
		return t.SendPong([]byte(payload))
	})

	// Spectators team is always present after login (spec.md §3).
	spectators := hierarchy.NewTeam(hierarchy.SpectatorTeamID, "Spectators", hierarchy.Color{})
	spectators.BindLink(g.link)
	g.galaxy.Teams.Set(hierarchy.SpectatorTeamID, spectators)

	go g.pinger.run()
	go g.receiveLoop()

	return g, nil
}

// receiveLoop is the receiver task (spec.md §5): it reads frames, splits
// them into packets, and routes each either to the correlator or to the
// event fan-out, in the order they arrived (invariant 4).
func (g *Galaxy) receiveLoop() {
	for {
		frame, err := g.transport.ReceiveFrame()
		if err != nil {
			g.terminate(err)
			return
		}
		packets, err := wire.SplitFrame(frame, g.cfg.MaxPacketSize)
		if err != nil {
			g.terminate(err)
			return
		}
		for _, p := range packets {
			if p.Correlation != 0 {
				if !g.correlator.Deliver(p) {
					log.Printf("connector: dropping reply for unawaited correlation id %d", p.Correlation)
				}
				continue
			}
			g.dispatchEvent(p)
		}
	}
}

func (g *Galaxy) terminate(cause error) {
	g.closeOnce.Do(func() {
		ge, ok := cause.(*gameerror.Error)
		if !ok {
			ge = &gameerror.Error{Kind: gameerror.KindConnectionTerminated}
		}
		g.events.Push(Event{Kind: EventClosed, Reason: ge})
		g.events.Close()
		g.pinger.Stop()
		_ = g.transport.Close()
	})
}

// Close terminates the session from the application side.
func (g *Galaxy) Close() error {
	g.terminate(&gameerror.Error{Kind: gameerror.KindConnectionTerminated})
	return nil
}

// NextEvent blocks for the next event, matching spec.md §4.4's
// next_event().
func (g *Galaxy) NextEvent(ctx context.Context) (Event, error) {
	e, ok, err := g.events.Pop(ctx)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, &gameerror.Error{Kind: gameerror.KindConnectionTerminated}
	}
	return e, nil
}

// PollEvent returns immediately, matching spec.md §4.4's poll_next_event().
func (g *Galaxy) PollEvent() (Event, bool) {
	return g.events.TryPop()
}

// Name, GameMode, Description, MaxPlayers, Maintenance expose the
// replicated galaxy-info fields.
func (g *Galaxy) Name() string        { return g.galaxy.Name() }
func (g *Galaxy) GameMode() string    { return g.galaxy.GameMode() }
func (g *Galaxy) Description() string { return g.galaxy.Description() }
func (g *Galaxy) MaxPlayers() int     { return g.galaxy.MaxPlayers() }
func (g *Galaxy) Maintenance() bool   { return g.galaxy.Maintenance() }

// Team looks up a team by id (spec.md §6's "indexing by TeamId").
func (g *Galaxy) Team(id int) *hierarchy.Team { return g.galaxy.Teams.Get(id) }

// Player looks up a player by id (spec.md §6's "indexing by PlayerId").
func (g *Galaxy) Player(id int) *hierarchy.Player { return g.galaxy.Players.Get(id) }

// Cluster looks up a cluster by id.
func (g *Galaxy) Cluster(id int) *hierarchy.Cluster { return g.galaxy.Clusters.Get(id) }

// OwnPlayer returns the connecting player's own record, once login has
// completed far enough to know its id.
func (g *Galaxy) OwnPlayer() *hierarchy.Player { return g.galaxy.OwnPlayer() }

// controllable looks up a player's controllable by id (spec.md §6's
// "indexing by ControllableId"). It returns nil when the player has no
// controllable holder yet; holders are created by registerControllable.
func (g *Galaxy) controllable(playerID int, controllableID byte) *hierarchy.Controllable {
	g.controllablesMu.Lock()
	h, ok := g.controllables[playerID]
	if !ok {
		g.controllablesMu.Unlock()
		return nil
	}
	g.controllablesMu.Unlock()
	return h.Get(int(controllableID))
}

// registerControllable is called by the new-controllable event handler
// (applyNewControllable) when a new controllable is announced for a
// player, creating that player's holder on first use.
func (g *Galaxy) registerControllable(playerID int, controllableID byte, name string, clusterID byte) *hierarchy.Controllable {
	g.controllablesMu.Lock()
	h, ok := g.controllables[playerID]
	if !ok {
		h = hierarchy.NewHolder[hierarchy.Controllable](hierarchy.ControllablesPerPlayer)
		g.controllables[playerID] = h
	}
	g.controllablesMu.Unlock()

	c := hierarchy.NewControllable(controllableID, name, clusterID, g.link)
	h.Set(int(controllableID), c)
	return c
}

// applyOwnPlayerAnnounced handles the dedicated own-player login frame
// (cmdOwnPlayer): the server tells the client its own PlayerId once the
// login handshake has placed it in the players holder, completing the
// Authenticating→Running transition (spec.md §4.9).
func (g *Galaxy) applyOwnPlayerAnnounced(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.galaxy.SetOwnPlayerID(id)
	g.loginComplete = true
}

// Broadcast sends a galaxy-wide chat message (spec.md §6), validated the
// same way Player.Chat/Team.Chat validate theirs.
func (g *Galaxy) Broadcast(ctx context.Context, msg string) error {
	if msg == "" {
		return gameerror.InvalidArgument("msg", "chat message must not be empty")
	}
	if len(msg) > hierarchy.ChatMessageMaxLength {
		return gameerror.InvalidArgument("msg", "chat message exceeds maximum length")
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := w.WriteString(msg); err != nil {
		return err
	}
	_, err := g.link.Request(ctx, hierarchy.CommandChatBroadcast, 0, 0, 0, w.Bytes())
	return err
}

// String implements fmt.Stringer for debugging.
func (g *Galaxy) String() string {
	return fmt.Sprintf("Galaxy{name=%q}", g.Name())
}
