// Package unit implements the tagged variant of scene units described in
// spec.md §3/§4.6/§9: celestial bodies, harvestables, shots, explosions,
// and player-controllables, each with kind-specific fields but a common
// interface for position, radius, gravity, and the masking/solid/
// mobility flags that drive scans and collision.
//
// Grounded in spec.md §9's explicit guidance: "Prefer a tagged variant
// (enum Unit) with a small set of per-variant methods ... over open
// polymorphism" — mirrored here as a Go interface implemented by one
// concrete struct per kind, the idiomatic equivalent of a closed Rust enum.
package unit

import "github.com/flattiverse/connector-go/wire"

// Mobility describes how gravity and tractor forces affect a unit
// (spec.md §4.6/GLOSSARY).
type Mobility int

const (
	// MobilityStill units never move (suns, planets).
	MobilityStill Mobility = iota
	// MobilitySteady units move under gravity but are not self-propelled.
	MobilitySteady
	// MobilityMobile units are self-propelled (shots, player units).
	MobilityMobile
)

func (m Mobility) String() string {
	switch m {
	case MobilityStill:
		return "Still"
	case MobilitySteady:
		return "Steady"
	default:
		return "Mobile"
	}
}

// Kind identifies which concrete variant a Unit is.
type Kind int

const (
	KindSun Kind = iota
	KindBlackHole
	KindPlanet
	KindMoon
	KindMeteoroid
	KindBuoy
	KindShot
	KindExplosion
	KindPlayerUnit
)

func (k Kind) String() string {
	switch k {
	case KindSun:
		return "Sun"
	case KindBlackHole:
		return "BlackHole"
	case KindPlanet:
		return "Planet"
	case KindMoon:
		return "Moon"
	case KindMeteoroid:
		return "Meteoroid"
	case KindBuoy:
		return "Buoy"
	case KindShot:
		return "Shot"
	case KindExplosion:
		return "Explosion"
	default:
		return "PlayerUnit"
	}
}

// TeamRef is an optional team reference; Present is false for neutral units.
type TeamRef struct {
	ID      byte
	Present bool
}

// Base holds the fields common to every unit variant (spec.md §3). Each
// concrete kind embeds Base and adds its own kind-specific fields, per
// the variant list in spec.md §3.
type Base struct {
	name      string
	clusterID byte
	position  wire.Vector
	movement  wire.Vector
	radius    float64
	gravity   float64
	team      TeamRef
}

// NewBase constructs the fields shared by every unit variant.
func NewBase(name string, clusterID byte, position, movement wire.Vector, radius, gravity float64, team TeamRef) Base {
	return Base{
		name:      name,
		clusterID: clusterID,
		position:  position,
		movement:  movement,
		radius:    radius,
		gravity:   gravity,
		team:      team,
	}
}

func (b *Base) Name() string          { return b.name }
func (b *Base) ClusterID() byte       { return b.clusterID }
func (b *Base) Position() wire.Vector { return b.position }
func (b *Base) Movement() wire.Vector { return b.movement }
func (b *Base) Radius() float64       { return b.radius }
func (b *Base) Gravity() float64      { return b.gravity }
func (b *Base) Team() TeamRef         { return b.team }

// ApplyMovementUpdate overwrites the transient fields a movement-update
// server frame carries (spec.md §4.6): position and movement. Kind-
// specific transient fields are applied by each concrete variant's own
// ApplyMovementUpdate.
func (b *Base) ApplyMovementUpdate(position, movement wire.Vector) {
	b.position = position
	b.movement = movement
}

// BasePositionUpdater is implemented by the unit kinds whose movement
// update carries only position/movement and no kind-specific trailing
// fields (spec.md §4.6): Sun, BlackHole, Planet, Moon, Meteoroid, Buoy.
// Shot, Explosion, and PlayerUnit each declare their own wider
// ApplyMovementUpdate overload, which shadows Base's promoted method and
// so excludes them from this interface, letting a type assertion tell
// the two groups apart.
type BasePositionUpdater interface {
	ApplyMovementUpdate(position, movement wire.Vector)
}

// Unit is the common interface every concrete variant implements.
type Unit interface {
	Kind() Kind
	Name() string
	ClusterID() byte
	Position() wire.Vector
	Movement() wire.Vector
	Radius() float64
	Gravity() float64
	Team() TeamRef

	// IsMasking reports whether the unit blocks scan line-of-sight.
	IsMasking() bool
	// IsSolid reports whether colliding with the unit is lethal.
	IsSolid() bool
	// Mobility reports how gravity/tractor forces affect the unit.
	Mobility() Mobility
}
