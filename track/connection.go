package track

import "github.com/chrisbmr/pcbroute/geom"

// Connection is a 2-terminal routing demand between two pins (or
// pin-less points) belonging to the same Net.
type Connection struct {
	ID     string
	NetID  string
	Source Point
	Target Point

	Rules     DesignRules
	LayerMask uint32

	Tracks []*Track

	IsRouted bool
	Locked   bool

	Color string
}

// Point pairs a declared 2.5D endpoint with the Pin it belongs to, if
// any (an endpoint may be a bare point with no pin — e.g. the
// temporary connection AStarToPoint builds).
type Point struct {
	Pos geom.Point25
	Pin *Pin
}

// NewConnection creates an unrouted Connection between source and
// target, inheriting rules and an all-layers mask.
func NewConnection(id, netID string, source, target Point) *Connection {
	return &Connection{
		ID:        id,
		NetID:     netID,
		Source:    source,
		Target:    target,
		LayerMask: ^uint32(0),
	}
}

// LayerLegal reports whether layer z is selected in the connection's
// LayerMask.
func (c *Connection) LayerLegal(z int) bool {
	if z < 0 || z >= 32 {
		return false
	}
	return c.LayerMask&(1<<uint(z)) != 0
}

// NumTracks returns the number of tracks currently held. A routed
// connection must have at most one.
func (c *Connection) NumTracks() int {
	return len(c.Tracks)
}

// AppendTrack adds t to the connection's track list.
func (c *Connection) AppendTrack(t *Track) {
	c.Tracks = append(c.Tracks, t)
}

// ClearTracks drops every track reference (callers are responsible
// for unrasterizing them from the grid first).
func (c *Connection) ClearTracks() {
	c.Tracks = nil
	c.IsRouted = false
}

// SetSingleTrack replaces the connection's track list with exactly t
// and marks it routed.
func (c *Connection) SetSingleTrack(t *Track) {
	c.Tracks = []*Track{t}
	c.IsRouted = true
}

// ValidateInvariant reports whether the connection's current state
// satisfies the routed-connection invariant from the data model: if
// IsRouted, there must be exactly one track, its start must match
// Source.XY() on a legal layer, and its end must match Target.XY() on
// a legal layer.
func (c *Connection) ValidateInvariant(tol float64) bool {
	if !c.IsRouted {
		return true
	}
	if len(c.Tracks) != 1 {
		return false
	}
	t := c.Tracks[0]
	if !c.LayerLegal(t.Start.Z) || !c.LayerLegal(t.End.Z) {
		return false
	}
	if !t.Start.XY().ApproxEq(c.Source.Pos.XY(), tol) {
		return false
	}
	if !t.End.XY().ApproxEq(c.Target.Pos.XY(), tol) {
		return false
	}
	return true
}
