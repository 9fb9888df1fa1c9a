package unit

import "github.com/flattiverse/connector-go/wire"

// Sun is a Still, masking, solid celestial body with harvestable sections
// (spec.md §4.6).
type Sun struct {
	Base
	Sections uint16
}

func NewSun(base Base, sections uint16) *Sun { return &Sun{Base: base, Sections: sections} }

func (s *Sun) Kind() Kind         { return KindSun }
func (s *Sun) IsMasking() bool    { return true }
func (s *Sun) IsSolid() bool      { return true }
func (s *Sun) Mobility() Mobility { return MobilityStill }

// BlackHole is Still, non-masking (it doesn't block scans, it distorts
// them), and solid.
type BlackHole struct {
	Base
}

func NewBlackHole(base Base) *BlackHole { return &BlackHole{Base: base} }

func (b *BlackHole) Kind() Kind         { return KindBlackHole }
func (b *BlackHole) IsMasking() bool    { return false }
func (b *BlackHole) IsSolid() bool      { return true }
func (b *BlackHole) Mobility() Mobility { return MobilityStill }

// Planet is Still, masking, solid, and carries the harvestable sections a
// full update describes (spec.md §4.6).
type Planet struct {
	Base
	Sections uint16
}

func NewPlanet(base Base, sections uint16) *Planet { return &Planet{Base: base, Sections: sections} }

func (p *Planet) Kind() Kind         { return KindPlanet }
func (p *Planet) IsMasking() bool    { return true }
func (p *Planet) IsSolid() bool      { return true }
func (p *Planet) Mobility() Mobility { return MobilityStill }

// Moon is Steady (orbits its parent under gravity, not self-propelled),
// masking, and solid.
type Moon struct {
	Base
	Sections uint16
}

func NewMoon(base Base, sections uint16) *Moon { return &Moon{Base: base, Sections: sections} }

func (m *Moon) Kind() Kind         { return KindMoon }
func (m *Moon) IsMasking() bool    { return true }
func (m *Moon) IsSolid() bool      { return true }
func (m *Moon) Mobility() Mobility { return MobilitySteady }

// Meteoroid is Mobile (drifts under its own movement vector), non-masking,
// non-solid, and exposes the harvestable sections remaining.
type Meteoroid struct {
	Base
	Sections uint16
}

func NewMeteoroid(base Base, sections uint16) *Meteoroid {
	return &Meteoroid{Base: base, Sections: sections}
}

func (m *Meteoroid) Kind() Kind         { return KindMeteoroid }
func (m *Meteoroid) IsMasking() bool    { return false }
func (m *Meteoroid) IsSolid() bool      { return false }
func (m *Meteoroid) Mobility() Mobility { return MobilityMobile }

// Buoy is Still, non-masking, non-solid: a stationary marker unit.
type Buoy struct {
	Base
}

func NewBuoy(base Base) *Buoy { return &Buoy{Base: base} }

func (b *Buoy) Kind() Kind         { return KindBuoy }
func (b *Buoy) IsMasking() bool    { return false }
func (b *Buoy) IsSolid() bool      { return false }
func (b *Buoy) Mobility() Mobility { return MobilityStill }

// Shot is Mobile, non-masking, and solid (lethal on contact); it carries the transient fields a movement update refreshes each tick
// (spec.md §4.6).
type Shot struct {
	Base
	TicksRemaining uint16
	Load           float64
	Damage         float64
}

func NewShot(base Base, ticksRemaining uint16, load, damage float64) *Shot {
	return &Shot{Base: base, TicksRemaining: ticksRemaining, Load: load, Damage: damage}
}

func (s *Shot) Kind() Kind         { return KindShot }
func (s *Shot) IsMasking() bool    { return false }
func (s *Shot) IsSolid() bool      { return true }
func (s *Shot) Mobility() Mobility { return MobilityMobile }

// ApplyMovementUpdate refreshes position, movement, and the ticks
// remaining before the shot expires.
func (s *Shot) ApplyMovementUpdate(position, movement wire.Vector, ticksRemaining uint16) {
	s.Base.ApplyMovementUpdate(position, movement)
	s.TicksRemaining = ticksRemaining
}

// ExplosionPhase distinguishes the two stages a server movement update
// can carry for an Explosion (spec.md §4.6).
type ExplosionPhase int

const (
	ExplosionPhaseDamage ExplosionPhase = iota
	ExplosionPhaseShockwave
)

func (p ExplosionPhase) String() string {
	if p == ExplosionPhaseShockwave {
		return "Shockwave"
	}
	return "Damage"
}

// Explosion is Mobile (its shockwave expands outward via Movement),
// non-masking, solid during the damage phase, and non-solid once it
// transitions to the shockwave phase per a movement-update flag.
type Explosion struct {
	Base
	Phase ExplosionPhase
}

func NewExplosion(base Base) *Explosion { return &Explosion{Base: base, Phase: ExplosionPhaseDamage} }

func (e *Explosion) Kind() Kind         { return KindExplosion }
func (e *Explosion) IsMasking() bool    { return false }
func (e *Explosion) IsSolid() bool      { return e.Phase == ExplosionPhaseDamage }
func (e *Explosion) Mobility() Mobility { return MobilityMobile }

// ApplyMovementUpdate refreshes position/movement and transitions the
// phase when the server signals the damage-to-shockwave flip.
func (e *Explosion) ApplyMovementUpdate(position, movement wire.Vector, shockwave bool) {
	e.Base.ApplyMovementUpdate(position, movement)
	if shockwave {
		e.Phase = ExplosionPhaseShockwave
	}
}

// PlayerUnit is the unit record backing a Controllable: Mobile,
// non-masking, solid, carrying the transient combat fields a movement
// update refreshes each tick.
type PlayerUnit struct {
	Base
	Hull    float64
	Shields float64
	Energy  float64
	Ion     float64
}

func NewPlayerUnit(base Base, hull, shields, energy, ion float64) *PlayerUnit {
	return &PlayerUnit{Base: base, Hull: hull, Shields: shields, Energy: energy, Ion: ion}
}

func (p *PlayerUnit) Kind() Kind         { return KindPlayerUnit }
func (p *PlayerUnit) IsMasking() bool    { return false }
func (p *PlayerUnit) IsSolid() bool      { return true }
func (p *PlayerUnit) Mobility() Mobility { return MobilityMobile }

// ApplyMovementUpdate refreshes position, movement, and the transient
// combat fields a server movement update carries for a PlayerUnit.
func (p *PlayerUnit) ApplyMovementUpdate(position, movement wire.Vector, hull, shields, energy, ion float64) {
	p.Base.ApplyMovementUpdate(position, movement)
	p.Hull = hull
	p.Shields = shields
	p.Energy = energy
	p.Ion = ion
}
