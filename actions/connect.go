package actions

import (
	"context"

	"github.com/chrisbmr/pcbroute/astar"
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// Endpoint selects which end of a Connection an action operates
// relative to.
type Endpoint int

const (
	EndpointSource Endpoint = iota
	EndpointTarget
)

// AStarConnect routes conn end to end with a single A* search and
// rasterizes the result, replacing any track conn already held.
// Returns ErrLocked if conn is locked.
func AStarConnect(ctx context.Context, g *navgrid.Grid, conn *track.Connection, pf *astar.Pathfinder) (bool, error) {
	if conn.Locked {
		return false, ErrLocked
	}
	if conn.IsRouted {
		if err := Unroute(g, conn); err != nil {
			return false, err
		}
	}

	src := astar.Endpoint{Pin: conn.Source.Pin, Pos: conn.Source.Pos}
	dst := astar.Endpoint{Pin: conn.Target.Pin, Pos: conn.Target.Pos}
	trk, err := pf.FindPath(ctx, src, dst, conn.Rules)
	if err == astar.ErrUnroutable || err == astar.ErrTrapped {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := RasterizeTrack(g, trk, conn.Rules.Clearance); err != nil {
		return false, err
	}
	conn.SetSingleTrack(trk)
	return true, nil
}

// AStarToPoint searches from one of conn's existing track ends (or,
// if conn holds no track yet, its Source) to an arbitrary point p1 on
// layer z, appending a new track piece onto the connection rather
// than replacing it — used for interactive incremental routing, where
// the user drags the open end of a partially-routed connection.
func AStarToPoint(ctx context.Context, g *navgrid.Grid, conn *track.Connection, p1 geom.Point25, pf *astar.Pathfinder) (bool, error) {
	if conn.Locked {
		return false, ErrLocked
	}

	var p0 geom.Point25
	var fromPin *track.Pin
	if len(conn.Tracks) > 0 {
		last := conn.Tracks[len(conn.Tracks)-1]
		p0 = last.End
	} else {
		p0 = conn.Source.Pos
		fromPin = conn.Source.Pin
	}

	src := astar.Endpoint{Pin: fromPin, Pos: p0}
	dst := astar.Endpoint{Pin: nil, Pos: p1}
	trk, err := pf.FindPath(ctx, src, dst, conn.Rules)
	if err == astar.ErrUnroutable || err == astar.ErrTrapped {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := RasterizeTrack(g, trk, conn.Rules.Clearance); err != nil {
		return false, err
	}
	if len(conn.Tracks) > 0 {
		trk.Contact = track.DetectContactType(conn.Tracks[len(conn.Tracks)-1], trk, g.Edge/1024)
	}
	conn.AppendTrack(trk)
	return true, nil
}

// Unroute unrasterizes and drops every track held by conn.
func Unroute(g *navgrid.Grid, conn *track.Connection) error {
	if !conn.IsRouted && len(conn.Tracks) == 0 {
		return ErrNotRouted
	}
	for _, t := range conn.Tracks {
		if t.IsRasterized() {
			if err := UnrasterizeTrack(g, t, conn.Rules.Clearance); err != nil {
				return err
			}
		}
	}
	conn.ClearTracks()
	return nil
}

// UnrouteSegment trims one piece (segment or via) from conn's track
// list at the given end: EndpointSource pops the first piece of the
// first track, EndpointTarget pops the last piece of the last track.
// A track left empty by the trim is dropped from the connection. The
// affected track is unrasterized and re-rasterized around the trim
// rather than requiring the caller to do a full Unroute/AStarConnect
// round trip.
func UnrouteSegment(g *navgrid.Grid, conn *track.Connection, end Endpoint) error {
	if len(conn.Tracks) == 0 {
		return ErrNotRouted
	}

	idx := 0
	if end == EndpointTarget {
		idx = len(conn.Tracks) - 1
	}
	t := conn.Tracks[idx]

	if t.IsRasterized() {
		if err := UnrasterizeTrack(g, t, conn.Rules.Clearance); err != nil {
			return err
		}
	}

	var popped bool
	if end == EndpointSource {
		popped = t.PopFront()
	} else {
		popped = t.PopSafe()
	}
	if !popped {
		return ErrEmptyTrim
	}

	if t.Empty() {
		conn.Tracks = append(conn.Tracks[:idx], conn.Tracks[idx+1:]...)
		conn.IsRouted = false
		return nil
	}

	if err := RasterizeTrack(g, t, conn.Rules.Clearance); err != nil {
		return err
	}
	conn.IsRouted = len(conn.Tracks) == 1
	return nil
}
