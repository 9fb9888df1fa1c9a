package hierarchy

import (
	"sync"

	"github.com/flattiverse/connector-go/unit"
)

// ClusterCapacity is the fixed size of the clusters holder (spec.md §4.5).
const ClusterCapacity = 64

// Region is a named sub-area within a cluster (spec.md §3).
type Region struct {
	ID   byte
	Name string
}

// Cluster is a spatial subdivision of the galaxy holding units
// (spec.md §3/GLOSSARY). It owns its units by name in its own map, so the
// cluster can look a unit up without the event fan-out needing a
// separate cluster→unit index.
type Cluster struct {
	mu sync.RWMutex

	id      byte
	name    string
	regions map[byte]*Region
	units   map[string]unit.Unit
}

// NewCluster constructs a cluster announced by the server.
func NewCluster(id byte, name string) *Cluster {
	return &Cluster{id: id, name: name, regions: make(map[byte]*Region), units: make(map[string]unit.Unit)}
}

func (c *Cluster) ID() byte     { return c.id }
func (c *Cluster) Name() string { return c.name }

// SetRegion inserts or replaces a region announcement.
func (c *Cluster) SetRegion(r *Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[r.ID] = r
}

// Region looks up a region by id.
func (c *Cluster) Region(id byte) *Region {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.regions[id]
}

// SetUnit inserts or replaces the unit record named name (spec.md §4.6:
// "either insert or replace the unit record").
func (c *Cluster) SetUnit(name string, u unit.Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[name] = u
}

// Unit looks up a unit by name, returning (nil, false) if absent.
func (c *Cluster) Unit(name string) (unit.Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.units[name]
	return u, ok
}

// RemoveUnit deletes the unit named name and reports whether it was present.
func (c *Cluster) RemoveUnit(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.units[name]; !ok {
		return false
	}
	delete(c.units, name)
	return true
}

// EachUnit calls fn for every live unit in the cluster. fn must not call
// back into the cluster.
func (c *Cluster) EachUnit(fn func(name string, u unit.Unit)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, u := range c.units {
		fn(name, u)
	}
}
