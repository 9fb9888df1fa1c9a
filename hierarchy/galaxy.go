package hierarchy

import "sync"

// Galaxy is the replicated root of the hierarchy (spec.md §3): one
// logical server instance the client has joined, holding the team,
// cluster, and player tables plus the caps and identity the login
// sequence announces.
type Galaxy struct {
	mu sync.RWMutex

	name        string
	gameMode    string
	description string
	maintenance bool

	maxPlayers int

	ownPlayerID    int
	hasOwnPlayerID bool

	Teams   *Holder[Team]
	Clusters *Holder[Cluster]
	Players *Holder[Player]
}

// NewGalaxy constructs an empty galaxy; the login sequence populates its
// fields and tables as server announcements arrive (spec.md §4.5).
func NewGalaxy() *Galaxy {
	return &Galaxy{
		Teams:    NewHolder[Team](TeamCapacity),
		Clusters: NewHolder[Cluster](ClusterCapacity),
		Players:  NewHolder[Player](PlayerCapacity),
	}
}

// SetInfo applies the galaxy-info announcement (command 0x10, spec.md §6).
func (g *Galaxy) SetInfo(name, gameMode, description string, maxPlayers int, maintenance bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
	g.gameMode = gameMode
	g.description = description
	g.maxPlayers = maxPlayers
	g.maintenance = maintenance
}

func (g *Galaxy) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

func (g *Galaxy) GameMode() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gameMode
}

func (g *Galaxy) Description() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.description
}

func (g *Galaxy) MaxPlayers() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxPlayers
}

func (g *Galaxy) Maintenance() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maintenance
}

// SetOwnPlayerID records the connecting player's own id, observed once
// during login (spec.md §4.5: "The login sequence populates own_player_id").
func (g *Galaxy) SetOwnPlayerID(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ownPlayerID = id
	g.hasOwnPlayerID = true
}

// OwnPlayerID returns the connecting player's own id, and whether login
// has completed far enough to know it.
func (g *Galaxy) OwnPlayerID() (id int, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ownPlayerID, g.hasOwnPlayerID
}

// OwnPlayer returns the connecting player's own Player record, or nil if
// login hasn't populated it yet or the holder slot is empty.
func (g *Galaxy) OwnPlayer() *Player {
	id, ok := g.OwnPlayerID()
	if !ok {
		return nil
	}
	return g.Players.Get(id)
}
