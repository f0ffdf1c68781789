package actions

import (
	"context"
	"testing"

	"github.com/chrisbmr/pcbroute/astar"
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

func unitCosts() navgrid.AStarCosts {
	return navgrid.AStarCosts{MaskedLayer: 1, Via: 1, Violation: 1, TurnPer45Degrees: 0, WrongDirection: 1}
}

func newTestGrid(w, h, d int) *navgrid.Grid {
	g := navgrid.New(w, h, d, 1, geom.Point2{})
	g.SetSpacings(navgrid.NavSpacings{Clearance: 0, TrackWidthHalf: 0.5, ViaRadius: 0.5})
	return g
}

func TestAStarConnectRoutesAndRasterizes(t *testing.T) {
	g := newTestGrid(10, 10, 1)
	rules := track.DesignRules{Clearance: 0, TraceWidth: 1, ViaDiameter: 1}
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 9.5, Y: 0.5, Z: 0}},
	)
	conn.Rules = rules

	pf := astar.New(g, unitCosts(), 1, 1)
	ok, err := AStarConnect(context.Background(), g, conn, pf)
	if err != nil {
		t.Fatalf("AStarConnect: %v", err)
	}
	if !ok {
		t.Fatalf("expected route to succeed")
	}
	if !conn.IsRouted || len(conn.Tracks) != 1 {
		t.Fatalf("expected connection routed with one track")
	}
	if !conn.Tracks[0].IsRasterized() {
		t.Fatalf("expected track to be rasterized")
	}
}

func TestUnrouteRestoresGrid(t *testing.T) {
	g := newTestGrid(10, 10, 1)
	rules := track.DesignRules{Clearance: 0, TraceWidth: 1, ViaDiameter: 1}
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 9.5, Y: 0.5, Z: 0}},
	)
	conn.Rules = rules
	pf := astar.New(g, unitCosts(), 1, 1)
	if _, err := AStarConnect(context.Background(), g, conn, pf); err != nil {
		t.Fatalf("AStarConnect: %v", err)
	}

	if err := Unroute(g, conn); err != nil {
		t.Fatalf("Unroute: %v", err)
	}
	if conn.IsRouted || len(conn.Tracks) != 0 {
		t.Fatalf("expected connection cleared")
	}
	for i := 0; i < g.W; i++ {
		p := g.Point(i, 0, 0)
		if p.RouteTracks != 0 || p.RouteVias != 0 {
			t.Fatalf("expected keep-out cleared at cell %d, got tracks=%d vias=%d", i, p.RouteTracks, p.RouteVias)
		}
	}
}

func TestSegmentToPointRejectsLayerChangeWithoutVia(t *testing.T) {
	g := newTestGrid(10, 10, 2)
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 1}},
	)
	conn.Rules = track.DesignRules{TraceWidth: 1, ViaDiameter: 1}

	_, err := SegmentToPoint(g, conn,
		geom.Point25{X: 0.5, Y: 0.5, Z: 0}, geom.Point25{X: 0.5, Y: 0.5, Z: 1},
		0.5, ViaLocationNone)
	if err != ErrLayerChangeNeedsVia {
		t.Fatalf("want ErrLayerChangeNeedsVia, got %v", err)
	}
}

func TestSegmentToPointBuildsViaOnLayerChange(t *testing.T) {
	g := newTestGrid(10, 10, 2)
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 1}},
	)
	conn.Rules = track.DesignRules{TraceWidth: 1, ViaDiameter: 1}

	ok, err := SegmentToPoint(g, conn,
		geom.Point25{X: 0.5, Y: 0.5, Z: 0}, geom.Point25{X: 0.5, Y: 0.5, Z: 1},
		0.5, ViaLocationStart)
	if err != nil {
		t.Fatalf("SegmentToPoint: %v", err)
	}
	if !ok {
		t.Fatalf("expected success")
	}
	if len(conn.Tracks) != 1 || conn.Tracks[0].NumVias() != 1 {
		t.Fatalf("expected one track with one via")
	}
}

func TestUnrouteSegmentDropsEmptiedTrack(t *testing.T) {
	g := newTestGrid(10, 10, 1)
	// A bent path (dx != dy forces a genuine corner) so the built
	// track has two segment pieces: trimming one from the end must
	// leave the track (and connection) non-empty.
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 4.5, Y: 2.5, Z: 0}},
	)
	conn.Rules = track.DesignRules{TraceWidth: 1, ViaDiameter: 1}

	ok, err := SegmentToPoint(g, conn,
		geom.Point25{X: 0.5, Y: 0.5, Z: 0}, geom.Point25{X: 4.5, Y: 2.5, Z: 0},
		0.5, ViaLocationNone)
	if err != nil || !ok {
		t.Fatalf("SegmentToPoint: ok=%v err=%v", ok, err)
	}
	if conn.Tracks[0].NumSegments() != 2 {
		t.Fatalf("expected a two-segment bent track, got %d segments", conn.Tracks[0].NumSegments())
	}

	if err := UnrouteSegment(g, conn, EndpointTarget); err != nil {
		t.Fatalf("UnrouteSegment: %v", err)
	}
	if len(conn.Tracks) != 1 {
		t.Fatalf("expected track to remain after one pop, got %d tracks", len(conn.Tracks))
	}

	if err := UnrouteSegment(g, conn, EndpointTarget); err != nil {
		t.Fatalf("second UnrouteSegment: %v", err)
	}
	if len(conn.Tracks) != 0 {
		t.Fatalf("expected track dropped once emptied, got %d tracks", len(conn.Tracks))
	}
}

// TestScenarioS3LShapeAroundObstacle is spec scenario S3: an 11x11x1
// grid with a component blocking cells (4..6, 4..6), a connection from
// (0,0,0) to (10,10,0) with all layers allowed and layer 0's preferred
// direction 'x'. Expected: routed, length >= 20, and no segment passes
// through a cell flagged InsideComponent.
func TestScenarioS3LShapeAroundObstacle(t *testing.T) {
	g := navgrid.New(11, 11, 1, 1, geom.Point2{})
	g.SetSpacings(navgrid.NavSpacings{Clearance: 0, TrackWidthHalf: 0.5, ViaRadius: 0.5})
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			g.Point(x, y, 0).Flags |= navgrid.InsideComponent
		}
	}

	rules := track.DesignRules{Clearance: 0, TraceWidth: 1, ViaDiameter: 1}
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 0.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 10.5, Y: 10.5, Z: 0}},
	)
	conn.Rules = rules

	costs := unitCosts()
	costs.PreferredDirections = []byte{'x'}
	pf := astar.New(g, costs, ^uint32(0), 1)

	ok, err := AStarConnect(context.Background(), g, conn, pf)
	if err != nil {
		t.Fatalf("AStarConnect: %v", err)
	}
	if !ok {
		t.Fatalf("expected the obstacle to be routable around")
	}
	trk := conn.Tracks[0]
	if trk.Length() < 20 {
		t.Fatalf("want length >= 20 routing around the obstacle, got %v", trk.Length())
	}
	for _, s := range trk.Segments() {
		for _, pos := range cellsAlongSegment(g, s) {
			if np := g.PointAt(pos); np != nil && np.Flags&navgrid.InsideComponent != 0 {
				t.Fatalf("segment %v..%v passes through blocked cell %v", s.P0, s.P1, pos)
			}
		}
	}
}

// cellsAlongSegment walks a straight (axis or 45°) wide-segment cell
// by cell, matching how the A* search itself only ever steps between
// unit-edge-adjacent cells.
func cellsAlongSegment(g *navgrid.Grid, s geom.WideSegment25) []navgrid.GridPos {
	from := g.GridPosAtXY(s.P0.XY(), s.P0.Z)
	to := g.GridPosAtXY(s.P1.XY(), s.P1.Z)
	dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)

	var out []navgrid.GridPos
	cur := from
	for {
		out = append(out, cur)
		if cur == to {
			break
		}
		cur = navgrid.GridPos{X: cur.X + dx, Y: cur.Y + dy, Z: cur.Z}
	}
	return out
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func TestValidateTrackFlagsAreaAndRules(t *testing.T) {
	trk := track.NewTrack(1, 1)
	trk.Start = geom.Point25{X: 0, Y: 0, Z: 0}
	trk.End = geom.Point25{X: 5, Y: 0, Z: 0}
	trk.AppendSegment(geom.WideSegment25{P0: trk.Start, P1: trk.End, HalfW: 0.5})

	conn := track.NewConnection("c1", "n1", track.Point{Pos: trk.Start}, track.Point{Pos: trk.End})
	conn.Rules = track.DesignRules{TraceWidth: 1, ViaDiameter: 1}

	inArea := geom.Bbox{Min: geom.Point2{X: -1, Y: -1}, Max: geom.Point2{X: 10, Y: 10}}
	flags := ValidateTrack(trk, conn, inArea)
	if flags&ValidLegalArea == 0 {
		t.Fatalf("expected ValidLegalArea set")
	}
	if flags&ValidLegalRules == 0 {
		t.Fatalf("expected ValidLegalRules set")
	}

	tooSmall := geom.Bbox{Min: geom.Point2{X: 0, Y: 0}, Max: geom.Point2{X: 1, Y: 1}}
	flags = ValidateTrack(trk, conn, tooSmall)
	if flags&ValidLegalArea != 0 {
		t.Fatalf("expected ValidLegalArea unset for an out-of-area track")
	}
}
