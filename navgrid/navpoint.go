package navgrid

// Flags is the 16-bit per-cell flag set.
type Flags uint16

const (
	BlockedPermanent Flags = 1 << iota
	BlockedTemporary
	InsidePin
	InsideComponent
	PinTrackClearance
	PinViaClearance
	RouteTrackClearance
	RouteViaClearance
	Source
	Target
	NoVias
	RouteGuard
)

// Blocking reports whether any flag in f makes the cell illegal to
// route a track center through, independent of keep-out counters.
func (f Flags) Blocking() bool {
	return f&(BlockedPermanent|BlockedTemporary|InsidePin|InsideComponent) != 0
}

// openBit marks a cell as present on A*'s open list; it lives in the
// high bit of the 16-bit open-epoch field, leaving 15 bits for the
// epoch value itself (see Grid.NextSearchSeq).
const openBit uint16 = 0x8000

// NavPoint is a single navigation grid cell.
type NavPoint struct {
	Flags Flags

	// Keep-out counters. Incremented/decremented in lockstep by
	// rasterization; a cell is free for a track iff RouteTracks +
	// PinTracks == 0 (RouteVias + PinVias == 0 for vias).
	PinTracks, PinVias     uint16
	RouteTracks, RouteVias uint16
	User                   [2]uint16

	// Cost is the per-cell cost multiplier from the overlaid cost map
	// (SetCostMap); default 1.0.
	Cost float32

	// A* scratch fields. Score is g+h at the time this entry was
	// opened; BackDir is the direction walked *to* reach this cell
	// from its predecessor during the reverse search (so
	// reconstruction walks forward along BackDir.Opposite()).
	Score   float32
	BackDir GridDirection

	// openEpoch/closedEpoch are 15-bit search epochs (high bit of
	// openEpoch is the "on open list" flag); writeEpoch is the 16-bit
	// rasterization epoch. All three avoid O(N) per-search/per-raster
	// resets: a cell's epoch value is only meaningful when it matches
	// the grid's current counter.
	openEpoch   uint16
	closedEpoch uint16
	writeEpoch  uint16

	// saveSlot holds the pre-marking flags during endpoint setup, so
	// initEndPoint/finiEndPoint can restore them afterward.
	saveSlot Flags

	// edgeMask is the precomputed static edge-availability bitmask
	// (10 bits, one per GridDirection) — whether the neighbor in that
	// direction exists inside the grid bounds at all. Dynamic
	// obstacles are tested separately via Flags.
	edgeMask uint16
}

// HasEdge reports whether the neighbor in direction d exists within
// the grid bounds.
func (p *NavPoint) HasEdge(d GridDirection) bool {
	return p.edgeMask&d.Mask() != 0
}

func (p *NavPoint) setEdge(d GridDirection, ok bool) {
	if ok {
		p.edgeMask |= d.Mask()
	} else {
		p.edgeMask &^= d.Mask()
	}
}

// IsOpen reports whether the cell is currently on the open list for
// search epoch seq.
func (p *NavPoint) IsOpen(seq uint16) bool {
	return p.openEpoch == (seq|openBit) && p.openEpoch&openBit != 0
}

// IsClosed reports whether the cell has been closed during search
// epoch seq.
func (p *NavPoint) IsClosed(seq uint16) bool {
	return p.closedEpoch == seq
}

// Open marks the cell open for search epoch seq with the given
// score/back-direction, superseding any previous open/closed state
// for an older epoch — or, within the same epoch, any previous entry
// with a worse score (callers are expected to check Score first; Open
// unconditionally overwrites).
func (p *NavPoint) Open(seq uint16, score float32, back GridDirection) {
	p.openEpoch = seq | openBit
	p.Score = score
	p.BackDir = back
}

// Close marks the cell closed for search epoch seq.
func (p *NavPoint) Close(seq uint16) {
	p.closedEpoch = seq
	p.openEpoch = seq // clears the open bit
}

// freeForTrack reports whether the cell is free of blocking flags and
// track keep-out for the connection currently being routed.
func (p *NavPoint) freeForTrack() bool {
	return !p.Flags.Blocking() && p.RouteTracks+p.PinTracks == 0
}

// freeForVia reports whether the cell is free of blocking flags and
// via keep-out.
func (p *NavPoint) freeForVia() bool {
	return !p.Flags.Blocking() && p.Flags&NoVias == 0 && p.RouteVias+p.PinVias == 0
}

// FreeForTrack is freeForTrack exported for package astar's search loop.
func (p *NavPoint) FreeForTrack() bool { return p.freeForTrack() }

// FreeForVia is freeForVia exported for package astar's search loop.
func (p *NavPoint) FreeForVia() bool { return p.freeForVia() }
