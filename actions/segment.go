package actions

import (
	"math"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// ViaLocation tells SegmentToPoint where to place the via it must
// insert when p0 and p1 sit on different layers.
type ViaLocation int

const (
	// ViaLocationNone is only valid when p0 and p1 share a layer.
	ViaLocationNone ViaLocation = iota
	ViaLocationStart
	ViaLocationEnd
)

func signOf(x float64) int {
	const eps = 1e-9
	switch {
	case x > eps:
		return 1
	case x < -eps:
		return -1
	default:
		return 0
	}
}

func minMaxZ(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// computeBendPoint returns the corner a 45°-first-then-axial (or
// axial-first-then-45°) two-segment path between a and b bends at.
// bendLocation 0 produces the diagonal-first corner (travel at 45°
// away from a as far as the shorter axis allows, then straight into
// b); bendLocation 1 produces the axial-first corner (straight out of
// a, then 45° into b); values between interpolate linearly between
// the two candidate corners, matching how the original's manual
// segment tool lets the user drag the bend between those extremes.
func computeBendPoint(a, b geom.Point2, bendLocation float64) geom.Point2 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	m := math.Min(math.Abs(dx), math.Abs(dy))
	sx, sy := float64(signOf(dx)), float64(signOf(dy))

	diagFirst := geom.Point2{X: a.X + sx*m, Y: a.Y + sy*m}
	axialFirst := geom.Point2{X: b.X - sx*m, Y: b.Y - sy*m}

	t := math.Max(0, math.Min(1, bendLocation))
	return geom.Point2{
		X: diagFirst.X + (axialFirst.X-diagFirst.X)*t,
		Y: diagFirst.Y + (axialFirst.Y-diagFirst.Y)*t,
	}
}

func appendPlanarRun(trk *track.Track, a, b geom.Point25, bendLocation, halfW float64) {
	if a.XY().ApproxEq(b.XY(), 1e-9) {
		return
	}
	bend := computeBendPoint(a.XY(), b.XY(), bendLocation)
	mid := geom.Point25{X: bend.X, Y: bend.Y, Z: a.Z}
	if bend.ApproxEq(a.XY(), 1e-9) || bend.ApproxEq(b.XY(), 1e-9) {
		trk.AppendSegment(geom.WideSegment25{P0: a, P1: b, HalfW: halfW})
		return
	}
	trk.AppendSegment(geom.WideSegment25{P0: a, P1: mid, HalfW: halfW})
	trk.AppendSegment(geom.WideSegment25{P0: mid, P1: b, HalfW: halfW})
}

// SegmentToPoint builds a manual (non-searched) track from p0 to p1,
// bending at most once between 45° and axial travel per bendLocation,
// and appends it onto conn (as AStarToPoint does for searched
// segments). If p0 and p1 sit on different layers, viaLoc selects
// whether the via sits at the p0 or p1 end of the planar run.
func SegmentToPoint(g *navgrid.Grid, conn *track.Connection, p0, p1 geom.Point25, bendLocation float64, viaLoc ViaLocation) (bool, error) {
	if conn.Locked {
		return false, ErrLocked
	}
	if p0.Z != p1.Z && viaLoc == ViaLocationNone {
		return false, ErrLayerChangeNeedsVia
	}

	trk := track.NewTrack(conn.Rules.TraceWidth, conn.Rules.ViaDiameter)
	trk.Start = p0
	trk.End = p1
	halfW := conn.Rules.TraceWidthHalf()

	switch {
	case p0.Z == p1.Z:
		appendPlanarRun(trk, p0, p1, bendLocation, halfW)
	case viaLoc == ViaLocationStart:
		zmin, zmax := minMaxZ(p0.Z, p1.Z)
		trk.AppendVia(track.Via{Center: p0.XY(), ZMin: zmin, ZMax: zmax, R: conn.Rules.ViaRadius()})
		appendPlanarRun(trk, geom.Point25{X: p0.X, Y: p0.Y, Z: p1.Z}, p1, bendLocation, halfW)
	default: // ViaLocationEnd
		zmin, zmax := minMaxZ(p0.Z, p1.Z)
		appendPlanarRun(trk, p0, geom.Point25{X: p1.X, Y: p1.Y, Z: p0.Z}, bendLocation, halfW)
		trk.AppendVia(track.Via{Center: p1.XY(), ZMin: zmin, ZMax: zmax, R: conn.Rules.ViaRadius()})
	}

	if trk.Empty() {
		return false, track.ErrEmptyTrack
	}
	if err := trk.AutocreateVias(); err != nil {
		return false, err
	}

	recordViolations(g, conn, trk)

	if err := RasterizeTrack(g, trk, conn.Rules.Clearance); err != nil {
		return false, err
	}
	if len(conn.Tracks) > 0 {
		trk.Contact = track.DetectContactType(conn.Tracks[len(conn.Tracks)-1], trk, g.Edge/1024)
	}
	conn.AppendTrack(trk)
	return true, nil
}

// recordViolations flags any segment or via in trk that overlaps
// existing route clearance, for later UI display — mirrors astar's
// buildTrack, which records the same thing along a searched path, but
// has no grid-cell path to walk here, so it checks each whole piece's
// footprint via CountClearanceViolations instead.
func recordViolations(g *navgrid.Grid, conn *track.Connection, trk *track.Track) {
	sp := g.Spacings()
	mask := navgrid.RouteTrackClearance | navgrid.RouteViaClearance
	var violations []geom.Point25

	for _, seg := range trk.Segments() {
		shape := geom.NewWideSegmentShape(seg)
		if g.CountClearanceViolations(shape, seg.P0.Z, seg.P0.Z, sp.GetExpansionForTracks(conn.Rules.Clearance), mask) > 0 {
			violations = append(violations, seg.P0, seg.P1)
		}
	}
	for _, v := range trk.Vias() {
		shape := geom.NewCircleShape(geom.Circle{Center: v.Center, R: v.R})
		if g.CountClearanceViolations(shape, v.ZMin, v.ZMax, sp.GetExpansionForVias(conn.Rules.Clearance), mask) > 0 {
			violations = append(violations, geom.Point25{X: v.Center.X, Y: v.Center.Y, Z: v.ZMin})
		}
	}
	trk.Violations = violations
}
