// Package board implements the Board facade (spec.md §2 component I,
// SPEC_FULL §2 component J): arenas for components, pins, nets, and
// connections, the reader-writer lock guarding them and the shared
// navgrid.Grid (SPEC_FULL §5), JSON persistence, and the
// minimum-spanning-tree auto-connection builder (SPEC_FULL §8).
package board

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/rtree"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// Board owns every Component, Pin, Net, and Connection arena plus the
// navgrid.Grid they route onto, guarded by a single reader-writer
// lock (SPEC_FULL §5: read-locked for A*, write-locked for any track
// or flag/counter mutation).
type Board struct {
	mu sync.RWMutex

	Grid       *navgrid.Grid
	LayoutArea geom.Bbox
	Config     RouterConfig
	Logger     *logrus.Logger

	components map[string]*track.Component
	pins       map[string]*track.Pin
	nets       map[string]*track.Net
	connections map[string]*track.Connection

	// index maps every pin's 2D bounding box to its ID, pruning
	// candidate pairs for the MST auto-connection builder and serving
	// "what's near this point" board-edit queries (SPEC_FULL §7,
	// tidwall/rtree).
	index *rtree.RTree
}

// New creates an empty Board over grid, ready for components/pins/
// nets/connections to be added (directly, or via LoadJSON).
func New(grid *navgrid.Grid, layoutArea geom.Bbox, cfg RouterConfig, logger *logrus.Logger) *Board {
	if logger == nil {
		logger = logrus.New()
	}
	return &Board{
		Grid:        grid,
		LayoutArea:  layoutArea,
		Config:      cfg,
		Logger:      logger,
		components:  make(map[string]*track.Component),
		pins:        make(map[string]*track.Pin),
		nets:        make(map[string]*track.Net),
		connections: make(map[string]*track.Connection),
		index:       &rtree.RTree{},
	}
}

// newID returns id if non-empty, else a fresh UUID — the same
// "ID from input, else generate" rule topology.go's UnmarshalJSON
// uses for link IDs, generalized from a counter to uuid.NewString
// since board IDs must stay stable across independent edit sessions.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func pinBbox(p *track.Pin) ([2]float64, [2]float64) {
	b := p.Shape.Bbox()
	return [2]float64{b.Min.X, b.Min.Y}, [2]float64{b.Max.X, b.Max.Y}
}

// addPin registers p under id (generating one if empty), indexing its
// footprint bbox for spatial queries. Callers must hold the write
// lock.
func (b *Board) addPin(p *track.Pin) {
	if p.ID == "" {
		p.ID = newID("")
	}
	b.pins[p.ID] = p
	min, max := pinBbox(p)
	b.index.Insert(min, max, p.ID)
}

// removePin unindexes and drops p. Callers must hold the write lock.
func (b *Board) removePin(p *track.Pin) {
	min, max := pinBbox(p)
	b.index.Delete(min, max, p.ID)
	delete(b.pins, p.ID)
}

// Component returns the component registered under id, or nil.
func (b *Board) Component(id string) *track.Component {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.components[id]
}

// Pin returns the pin registered under id, or nil.
func (b *Board) Pin(id string) *track.Pin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pins[id]
}

// Net returns the net registered under id, or nil.
func (b *Board) Net(id string) *track.Net {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nets[id]
}

// Connection returns the connection registered under id, or nil.
func (b *Board) Connection(id string) *track.Connection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connections[id]
}

// Nets returns every net on the board, in no particular order.
func (b *Board) Nets() []*track.Net {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*track.Net, 0, len(b.nets))
	for _, n := range b.nets {
		out = append(out, n)
	}
	return out
}

// Connections returns every connection on the board, in no particular
// order.
func (b *Board) Connections() []*track.Connection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*track.Connection, 0, len(b.connections))
	for _, c := range b.connections {
		out = append(out, c)
	}
	return out
}

// nearPins returns the IDs of every pin whose bbox intersects the box
// [min,max], excluding self.
func (b *Board) nearPins(min, max [2]float64, self string) []string {
	var out []string
	b.index.Search(min, max, func(_, _ [2]float64, value interface{}) bool {
		id := value.(string)
		if id != self {
			out = append(out, id)
		}
		return true
	})
	return out
}
