package connector

import (
	"log"

	"github.com/flattiverse/connector-go/hierarchy"
	"github.com/flattiverse/connector-go/unit"
	"github.com/flattiverse/connector-go/wire"
)

// Command bytes named "stable" by spec.md §6.
const (
	cmdGalaxyInfo      = 0x10
	cmdClusterInfo     = 0x11
	cmdRegionInfo      = 0x12
	cmdTeamInfo        = 0x13
	cmdShipDesignInfo  = 0x14
	cmdUpgradeInfo     = 0x15
	cmdNewPlayer       = 0x16
	cmdTickCompleted   = 0x20
)

// Additional command bytes this connector allocates beyond spec.md's
// stable subset, covering events §4.6's "two server commands matter"
// (full/movement unit updates), player removal, and chat (spec.md §3's
// Event variants). Documented in DESIGN.md as an implementation decision.
const (
	cmdRemovedPlayer      = 0x17
	cmdPlayerPing         = 0x18
	cmdOwnPlayer          = 0x19
	cmdNewControllable    = 0x1A
	cmdUnitFullUpdate     = 0x40
	cmdUnitMovementUpdate = 0x41
	cmdControllableUpdate = 0x42
)

// dispatchEvent decodes one correlation-id-0 frame (spec.md §4.4) into a
// hierarchy/unit delta and, where the delta itself is user-observable,
// an Event pushed to the application queue. Unknown command bytes and
// references to unknown ids are dropped with a log line, per spec.md
// §4.5's "unknown-id references cause a logged drop, not a crash."
func (g *Galaxy) dispatchEvent(p *wire.Packet) {
	switch p.Command {
	case cmdGalaxyInfo:
		g.applyGalaxyInfo(p)
	case cmdTeamInfo:
		g.applyTeamInfo(p)
	case cmdClusterInfo:
		g.applyClusterInfo(p)
	case cmdRegionInfo:
		g.applyRegionInfo(p)
	case cmdNewPlayer:
		g.applyNewPlayer(p)
	case cmdRemovedPlayer:
		g.applyRemovedPlayer(p)
	case cmdPlayerPing:
		g.applyPlayerPing(p)
	case cmdOwnPlayer:
		g.applyOwnPlayerFrame(p)
	case cmdNewControllable:
		g.applyNewControllable(p)
	case cmdUnitFullUpdate:
		g.applyUnitFullUpdate(p)
	case cmdUnitMovementUpdate:
		g.applyUnitMovementUpdate(p)
	case cmdControllableUpdate:
		g.applyControllableUpdate(p)
	case cmdTickCompleted:
		g.events.Push(Event{Kind: EventTickCompleted})
	case hierarchy.CommandChatUnicast:
		g.applyChatUnicast(p)
	case hierarchy.CommandChatTeamcast:
		g.applyChatTeamcast(p)
	case hierarchy.CommandChatBroadcast:
		g.applyChatBroadcast(p)
	default:
		log.Printf("connector: dropping event frame with unknown command %#x", p.Command)
	}
}

func (g *Galaxy) applyGalaxyInfo(p *wire.Packet) {
	r := p.Reader()
	name, err := r.ReadString()
	if err != nil {
		log.Printf("connector: malformed galaxy info frame: %v", err)
		return
	}
	gameMode, _ := r.ReadString()
	description, _ := r.ReadString()
	maxPlayers, _ := r.ReadUint16()
	maintenance, _ := r.ReadBoolean()
	g.galaxy.SetInfo(name, gameMode, description, int(maxPlayers), maintenance)
}

func (g *Galaxy) applyTeamInfo(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadByte()
	if err != nil {
		return
	}
	name, _ := r.ReadString()
	red, _ := r.ReadByte()
	green, _ := r.ReadByte()
	blue, _ := r.ReadByte()
	team := hierarchy.NewTeam(id, name, hierarchy.Color{R: red, G: green, B: blue})
	team.BindLink(g.link)
	g.galaxy.Teams.Set(int(id), team)
}

func (g *Galaxy) applyClusterInfo(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadByte()
	if err != nil {
		return
	}
	name, _ := r.ReadString()
	g.galaxy.Clusters.Set(int(id), hierarchy.NewCluster(id, name))
}

func (g *Galaxy) applyRegionInfo(p *wire.Packet) {
	r := p.Reader()
	clusterID, err := r.ReadByte()
	if err != nil {
		return
	}
	regionID, _ := r.ReadByte()
	name, _ := r.ReadString()

	cluster := g.galaxy.Clusters.Get(int(clusterID))
	if cluster == nil {
		log.Printf("connector: region info for unknown cluster %d dropped", clusterID)
		return
	}
	cluster.SetRegion(&hierarchy.Region{ID: regionID, Name: name})
}

func (g *Galaxy) applyNewPlayer(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadUint16()
	if err != nil {
		return
	}
	kindByte, _ := r.ReadByte()
	teamID, _ := r.ReadByte()
	name, _ := r.ReadString()

	kind := hierarchy.PlayerKindUnknown
	switch kindByte {
	case 0:
		kind = hierarchy.PlayerKindPlayer
	case 1:
		kind = hierarchy.PlayerKindSpectator
	case 2:
		kind = hierarchy.PlayerKindAdmin
	}

	player := hierarchy.NewPlayer(int(id), kind, teamID, name)
	player.BindLink(g.link)
	g.galaxy.Players.Set(int(id), player)
	g.events.Push(Event{Kind: EventPlayerFullUpdate, PlayerID: int(id)})
}

// applyOwnPlayerFrame decodes the dedicated login-completion frame
// (cmdOwnPlayer) carrying the connecting client's own PlayerId.
func (g *Galaxy) applyOwnPlayerFrame(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadUint16()
	if err != nil {
		return
	}
	g.applyOwnPlayerAnnounced(int(id))
}

// applyNewControllable registers a controllable announced for a player
// (spec.md §3/§4.7).
func (g *Galaxy) applyNewControllable(p *wire.Packet) {
	r := p.Reader()
	ownerID, err := r.ReadUint16()
	if err != nil {
		return
	}
	controllableID, _ := r.ReadByte()
	clusterID, _ := r.ReadByte()
	name, _ := r.ReadString()
	g.registerControllable(int(ownerID), controllableID, name, clusterID)
}

func (g *Galaxy) applyRemovedPlayer(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadUint16()
	if err != nil {
		return
	}
	player := g.galaxy.Players.Get(int(id))
	if player == nil {
		// Idempotence (spec.md §8): a duplicated RemovedPlayer leaves the
		// holder unchanged after the first, so a second removal of an
		// already-absent id is simply a no-op, not a logged drop.
		return
	}
	player.Deactivate()
	g.galaxy.Players.Remove(int(id))
	g.events.Push(Event{Kind: EventRemovedPlayer, PlayerID: int(id)})
}

func (g *Galaxy) applyPlayerPing(p *wire.Packet) {
	r := p.Reader()
	id, err := r.ReadUint16()
	if err != nil {
		return
	}
	ms, _ := r.ReadUint16()
	player := g.galaxy.Players.Get(int(id))
	if player == nil {
		log.Printf("connector: ping update for unknown player %d dropped", id)
		return
	}
	player.SetPing(int(ms))
	g.events.Push(Event{Kind: EventPlayerPartialUpdate, PlayerID: int(id)})
}

func (g *Galaxy) applyUnitFullUpdate(p *wire.Packet) {
	r := p.Reader()
	clusterID, err := r.ReadByte()
	if err != nil {
		return
	}
	kindByte, _ := r.ReadByte()
	name, _ := r.ReadString()
	x, _ := r.Read4S(1000)
	y, _ := r.Read4S(1000)
	radius, _ := r.Read2U(1)
	gravity, _ := r.Read2U(1000)
	teamID, teamOK, _ := r.ReadNullableByte()

	cluster := g.galaxy.Clusters.Get(int(clusterID))
	if cluster == nil {
		log.Printf("connector: unit full update for unknown cluster %d dropped", clusterID)
		return
	}

	base := unit.NewBase(name, clusterID, wire.NewVector(x, y), wire.NewVector(0, 0), radius, gravity,
		unit.TeamRef{ID: teamID, Present: teamOK})

	var u unit.Unit
	switch unit.Kind(kindByte) {
	case unit.KindSun:
		sections, _ := r.ReadUint16()
		u = unit.NewSun(base, sections)
	case unit.KindBlackHole:
		u = unit.NewBlackHole(base)
	case unit.KindPlanet:
		sections, _ := r.ReadUint16()
		u = unit.NewPlanet(base, sections)
	case unit.KindMoon:
		sections, _ := r.ReadUint16()
		u = unit.NewMoon(base, sections)
	case unit.KindMeteoroid:
		sections, _ := r.ReadUint16()
		u = unit.NewMeteoroid(base, sections)
	case unit.KindBuoy:
		u = unit.NewBuoy(base)
	case unit.KindShot:
		ticks, _ := r.ReadUint16()
		load, _ := r.Read2U(100)
		damage, _ := r.Read2U(100)
		u = unit.NewShot(base, ticks, load, damage)
	case unit.KindExplosion:
		u = unit.NewExplosion(base)
	case unit.KindPlayerUnit:
		hull, _ := r.Read4U(1)
		shields, _ := r.Read4U(1)
		energy, _ := r.Read4U(1)
		ion, _ := r.Read2U(1)
		u = unit.NewPlayerUnit(base, hull, shields, energy, ion)
	default:
		log.Printf("connector: unit full update with unknown kind %d dropped", kindByte)
		return
	}

	cluster.SetUnit(name, u)
}

func (g *Galaxy) applyUnitMovementUpdate(p *wire.Packet) {
	r := p.Reader()
	clusterID, err := r.ReadByte()
	if err != nil {
		return
	}
	name, _ := r.ReadString()
	x, _ := r.Read4S(1000)
	y, _ := r.Read4S(1000)
	mx, _ := r.Read4S(1000)
	my, _ := r.Read4S(1000)

	cluster := g.galaxy.Clusters.Get(int(clusterID))
	if cluster == nil {
		log.Printf("connector: movement update for unknown cluster %d dropped", clusterID)
		return
	}
	u, ok := cluster.Unit(name)
	if !ok {
		// spec.md §4.6: "Movement updates to unknown names are dropped with a log."
		log.Printf("connector: movement update for unknown unit %q dropped", name)
		return
	}

	position := wire.NewVector(x, y)
	movement := wire.NewVector(mx, my)

	switch v := u.(type) {
	case *unit.Shot:
		ticksRemaining, _ := r.ReadUint16()
		v.ApplyMovementUpdate(position, movement, ticksRemaining)
	case *unit.Explosion:
		shockwave, _ := r.ReadBoolean()
		v.ApplyMovementUpdate(position, movement, shockwave)
	case *unit.PlayerUnit:
		hull, _ := r.Read4U(1)
		shields, _ := r.Read4U(1)
		energy, _ := r.Read4U(1)
		ion, _ := r.Read2U(1)
		v.ApplyMovementUpdate(position, movement, hull, shields, energy, ion)
	default:
		// Sun/BlackHole/Planet/Moon/Meteoroid/Buoy carry no kind-specific
		// trailing fields on a movement update (spec.md §4.6); they still
		// need position/movement applied, including Moon (Steady) and
		// Meteoroid (Mobile), which do move.
		if bu, ok := u.(unit.BasePositionUpdater); ok {
			bu.ApplyMovementUpdate(position, movement)
		} else {
			log.Printf("connector: movement update for unit %q of unhandled kind dropped", name)
		}
	}
}

func (g *Galaxy) applyControllableUpdate(p *wire.Packet) {
	r := p.Reader()
	ownerID, err := r.ReadUint16()
	if err != nil {
		return
	}
	controllableID, _ := r.ReadByte()
	x, _ := r.Read4S(1000)
	y, _ := r.Read4S(1000)
	mx, _ := r.Read4S(1000)
	my, _ := r.Read4S(1000)
	hull, _ := r.Read4U(1)
	shields, _ := r.Read4U(1)
	energy, _ := r.Read4U(1)
	ion, _ := r.Read2U(1)

	c := g.controllable(int(ownerID), controllableID)
	if c == nil {
		log.Printf("connector: controllable update for unknown id (%d,%d) dropped", ownerID, controllableID)
		return
	}
	c.ApplyUpdate(wire.NewVector(x, y), wire.NewVector(mx, my), hull, shields, energy, ion)
	g.events.Push(Event{Kind: EventUpdatedControllable, ControllableID: controllableID})
}

func (g *Galaxy) applyChatUnicast(p *wire.Packet) {
	r := p.Reader()
	src, err := r.ReadUint16()
	if err != nil {
		return
	}
	msg, _ := r.ReadString()
	g.events.Push(Event{Kind: EventChatUnicast, SourcePlayerID: int(src), Message: msg})
}

func (g *Galaxy) applyChatTeamcast(p *wire.Packet) {
	r := p.Reader()
	src, err := r.ReadUint16()
	if err != nil {
		return
	}
	team, _ := r.ReadByte()
	msg, _ := r.ReadString()
	g.events.Push(Event{Kind: EventChatTeamcast, SourcePlayerID: int(src), TeamID: team, Message: msg})
}

func (g *Galaxy) applyChatBroadcast(p *wire.Packet) {
	r := p.Reader()
	src, err := r.ReadUint16()
	if err != nil {
		return
	}
	msg, _ := r.ReadString()
	g.events.Push(Event{Kind: EventChatBroadcast, SourcePlayerID: int(src), Message: msg})
}
