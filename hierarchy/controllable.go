package hierarchy

import (
	"bytes"
	"context"
	"sync"

	"github.com/flattiverse/connector-go/gameerror"
	"github.com/flattiverse/connector-go/wire"
)

// ControllablesPerPlayer is the fixed per-player capacity of the
// controllable_info holder (spec.md §4.5).
const ControllablesPerPlayer = 32

// Command bytes for the controllable operations (spec.md §4.7/§6). Only
// the info commands 0x10-0x16/0x20/0xFF are named "stable" by spec.md
// §6; the operation commands below are this connector's own allocation
// in the unused 0x30-0x3F range, documented as an implementation
// decision (see DESIGN.md) since spec.md leaves the exact bytes open.
const (
	CommandControllableMove     = 0x30
	CommandControllableShoot    = 0x31
	CommandControllableContinue = 0x32
	CommandControllableSuicide  = 0x33
	CommandControllableDispose  = 0x34
	CommandChatUnicast          = 0x35
	CommandChatTeamcast         = 0x36
	CommandChatBroadcast        = 0x37
)

// Shoot parameter bounds (spec.md §4.7).
const (
	ShootTicksMin  = 3
	ShootTicksMax  = 140
	ShootLoadMin   = 3.0
	ShootLoadMax   = 25.0
	ShootDamageMin = 0.1
	ShootDamageMax = 3.0
)

// Controllable is a player-owned mobile unit the client issues commands
// to (spec.md §3/GLOSSARY). Its command methods map 1:1 onto request
// packets correlated via the session package, the way the spec's C7
// maps onto C3.
type Controllable struct {
	mu sync.RWMutex

	id        byte
	name      string
	clusterID byte

	position wire.Vector
	movement wire.Vector

	hull    float64
	shields float64
	energy  float64
	ion     float64

	active bool
	alive  bool

	link *Link
}

// NewControllable constructs a controllable from a server announcement.
// It starts active and alive; the caller applies subsequent updates via
// ApplyUpdate.
func NewControllable(id byte, name string, clusterID byte, link *Link) *Controllable {
	return &Controllable{
		id:        id,
		name:      name,
		clusterID: clusterID,
		active:    true,
		alive:     true,
		link:      link,
	}
}

func (c *Controllable) ID() byte        { return c.id }
func (c *Controllable) Name() string    { return c.name }
func (c *Controllable) ClusterID() byte { return c.clusterID }

// Position returns the controllable's last replicated position.
func (c *Controllable) Position() wire.Vector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

// Active reports whether the controllable has not been permanently
// disposed (spec.md §3: "Active = not yet disposed").
func (c *Controllable) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Alive reports whether hull > 0 (spec.md §3).
func (c *Controllable) Alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alive
}

// Hull, Shields, Energy, Ion return the last replicated combat fields.
func (c *Controllable) Hull() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hull
}

func (c *Controllable) Shields() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shields
}

func (c *Controllable) Energy() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.energy
}

func (c *Controllable) Ion() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ion
}

// ApplyUpdate is invoked by the receiver task (C4) on a controllable-update
// frame for this controllable. alive is recomputed from hull per
// invariant 3: "Controllable.alive implies Controllable.active".
func (c *Controllable) ApplyUpdate(position, movement wire.Vector, hull, shields, energy, ion float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.movement = movement
	c.hull = hull
	c.shields = shields
	c.energy = energy
	c.ion = ion
	c.alive = c.active && hull > 0
}

// markDisposed sets active permanently false, per spec.md §4.7: "on
// success, set active=false permanently".
func (c *Controllable) markDisposed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.alive = false
}

// markDead flips alive false without touching active, per invariant 3
// (death does not dispose the controllable; continue can revive it).
func (c *Controllable) markDead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

// markAlive flips alive true, used after a successful Continue.
func (c *Controllable) markAlive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = true
}

func (c *Controllable) snapshot() (active, alive bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.alive
}

// sendCorrelated issues a request packet carrying the given command and
// ship path field, and waits for the correlated reply.
func (c *Controllable) sendCorrelated(ctx context.Context, command byte, payload []byte) (*wire.Packet, error) {
	return c.link.Request(ctx, command, 0, c.id, 0, payload)
}

// Continue resumes a dead-but-active controllable (spec.md §4.7).
func (c *Controllable) Continue(ctx context.Context) error {
	active, alive := c.snapshot()
	if alive || !active {
		return gameerror.InvalidArgument("controllable", "continue requires !alive && active")
	}
	if _, err := c.sendCorrelated(ctx, CommandControllableContinue, nil); err != nil {
		return err
	}
	c.markAlive()
	return nil
}

// Suicide destroys an alive, active controllable (spec.md §4.7).
func (c *Controllable) Suicide(ctx context.Context) error {
	active, alive := c.snapshot()
	if !alive || !active {
		return gameerror.InvalidArgument("controllable", "suicide requires alive && active")
	}
	if _, err := c.sendCorrelated(ctx, CommandControllableSuicide, nil); err != nil {
		return err
	}
	c.markDead()
	return nil
}

// Dispose permanently retires the controllable (spec.md §4.7).
func (c *Controllable) Dispose(ctx context.Context) error {
	active, _ := c.snapshot()
	if !active {
		return gameerror.InvalidArgument("controllable", "dispose requires active")
	}
	if _, err := c.sendCorrelated(ctx, CommandControllableDispose, nil); err != nil {
		return err
	}
	c.markDisposed()
	return nil
}

// Move issues a movement command toward v (spec.md §4.7).
func (c *Controllable) Move(ctx context.Context, v wire.Vector) error {
	active, alive := c.snapshot()
	if !alive || !active {
		return gameerror.InvalidArgument("controllable", "move requires alive && active")
	}
	if !v.IsFinite() {
		return gameerror.InvalidArgument("v", "movement vector must be finite")
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	_ = w.Write4S(v.X, 1000)
	_ = w.Write4S(v.Y, 1000)
	_, err := c.sendCorrelated(ctx, CommandControllableMove, w.Bytes())
	return err
}

// Shoot fires in direction dir for ticks simulation steps at the given
// load and damage (spec.md §4.7).
func (c *Controllable) Shoot(ctx context.Context, dir wire.Vector, ticks int, load, damage float64) error {
	active, alive := c.snapshot()
	if !alive || !active {
		return gameerror.InvalidArgument("controllable", "shoot requires alive && active")
	}
	if !dir.IsFinite() {
		return gameerror.InvalidArgument("dir", "shoot direction must be finite")
	}
	if ticks < ShootTicksMin || ticks > ShootTicksMax {
		return gameerror.InvalidArgument("ticks", "ticks must be in [3,140]")
	}
	if load < ShootLoadMin || load > ShootLoadMax {
		return gameerror.InvalidArgument("load", "load must be in [3,25]")
	}
	if damage < ShootDamageMin || damage > ShootDamageMax {
		return gameerror.InvalidArgument("damage", "damage must be in [0.1,3]")
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	_ = w.Write4S(dir.X, 1000)
	_ = w.Write4S(dir.Y, 1000)
	_ = w.WriteUint16(uint16(ticks))
	_ = w.Write2U(load, 100)
	_ = w.Write2U(damage, 100)
	_, err := c.sendCorrelated(ctx, CommandControllableShoot, w.Bytes())
	return err
}
