package track

import "github.com/chrisbmr/pcbroute/geom"

// ContactType describes how a track attaches to another track or
// connection endpoint when two pieces are merged (AStarToPoint,
// SegmentToPoint): which end of each piece coincides.
type ContactType int

const (
	ContactNone ContactType = iota
	ContactEndToStart
	ContactEndToEnd
	ContactStartToEnd
	ContactStartToStart
)

// Via is a plated hole connecting layers [ZMin, ZMax] at Center.
type Via struct {
	Center geom.Point2
	ZMin   int
	ZMax   int
	R      float64
}

// piece tags each element of a track's body as either a segment or a
// via, in the order they were appended, so Track can maintain a
// single ordered sequence the way the original's mSegments/mVias
// pair does logically (kept here as one slice of tagged piece values,
// rather than two slices or one slice of an interface).
type pieceKind int

const (
	pieceSegment pieceKind = iota
	pieceVia
)

type piece struct {
	kind    pieceKind
	segment geom.WideSegment25
	via     Via
}

// Track is a contiguous sequence of wide segments and vias realizing
// (part of) a Connection.
type Track struct {
	Start, End geom.Point25
	Width      float64
	ViaDiameter float64

	pieces []piece

	rasterizedCount int
	cachedBbox      geom.Bbox
	cacheDirty      bool

	// Violations records grid cells visited at a finite (non-infinite)
	// clearance-violation cost during A* reconstruction, for later UI
	// display.
	Violations []geom.Point25

	// Contact records how this track's Start attaches to the end of
	// whatever track precedes it on the same Connection, when the
	// action that produced it (AStarToPoint, SegmentToPoint) spliced
	// it onto an existing one. ContactNone otherwise.
	Contact ContactType
}

// DetectContactType reports how prev and next touch, within tol, for
// actions that append next onto a connection already ending in prev.
func DetectContactType(prev, next *Track, tol float64) ContactType {
	switch {
	case prev.End.ApproxEq(next.Start, tol):
		return ContactEndToStart
	case prev.End.ApproxEq(next.End, tol):
		return ContactEndToEnd
	case prev.Start.ApproxEq(next.End, tol):
		return ContactStartToEnd
	case prev.Start.ApproxEq(next.Start, tol):
		return ContactStartToStart
	default:
		return ContactNone
	}
}

// NewTrack creates an empty track with the given default width and
// via diameter.
func NewTrack(width, viaDiameter float64) *Track {
	return &Track{Width: width, ViaDiameter: viaDiameter, cacheDirty: true}
}

// NumSegments returns the number of wide segments in the track.
func (t *Track) NumSegments() int {
	n := 0
	for _, p := range t.pieces {
		if p.kind == pieceSegment {
			n++
		}
	}
	return n
}

// NumVias returns the number of vias in the track.
func (t *Track) NumVias() int {
	n := 0
	for _, p := range t.pieces {
		if p.kind == pieceVia {
			n++
		}
	}
	return n
}

// Segments returns the track's wide segments in order.
func (t *Track) Segments() []geom.WideSegment25 {
	var out []geom.WideSegment25
	for _, p := range t.pieces {
		if p.kind == pieceSegment {
			out = append(out, p.segment)
		}
	}
	return out
}

// Vias returns the track's vias in order.
func (t *Track) Vias() []Via {
	var out []Via
	for _, p := range t.pieces {
		if p.kind == pieceVia {
			out = append(out, p.via)
		}
	}
	return out
}

// Empty reports whether the track has no segments or vias.
func (t *Track) Empty() bool {
	return len(t.pieces) == 0
}

// appendSegment is the low-level append primitive behind
// AppendSegment; like every mutation it marks the bbox cache dirty.
func (t *Track) appendSegment(s geom.WideSegment25) {
	t.pieces = append(t.pieces, piece{kind: pieceSegment, segment: s})
	t.cacheDirty = true
}

func (t *Track) appendVia(v Via) {
	t.pieces = append(t.pieces, piece{kind: pieceVia, via: v})
	t.cacheDirty = true
}

// AppendSegment appends a wide segment to the end of the track.
func (t *Track) AppendSegment(s geom.WideSegment25) {
	t.appendSegment(s)
}

// AppendVia appends a via to the end of the track.
func (t *Track) AppendVia(v Via) {
	t.appendVia(v)
}

// PrependSegment inserts a wide segment at the start of the track.
func (t *Track) PrependSegment(s geom.WideSegment25) {
	t.pieces = append([]piece{{kind: pieceSegment, segment: s}}, t.pieces...)
	t.cacheDirty = true
}

// PrependVia inserts a via at the start of the track.
func (t *Track) PrependVia(v Via) {
	t.pieces = append([]piece{{kind: pieceVia, via: v}}, t.pieces...)
	t.cacheDirty = true
}

// PopSegment removes and returns the last segment, if the track's
// last piece is a segment.
func (t *Track) PopSegment() (geom.WideSegment25, bool) {
	if len(t.pieces) == 0 || t.pieces[len(t.pieces)-1].kind != pieceSegment {
		return geom.WideSegment25{}, false
	}
	p := t.pieces[len(t.pieces)-1]
	t.pieces = t.pieces[:len(t.pieces)-1]
	t.cacheDirty = true
	return p.segment, true
}

// PopVia removes and returns the last via, if the track's last piece
// is a via.
func (t *Track) PopVia() (Via, bool) {
	if len(t.pieces) == 0 || t.pieces[len(t.pieces)-1].kind != pieceVia {
		return Via{}, false
	}
	p := t.pieces[len(t.pieces)-1]
	t.pieces = t.pieces[:len(t.pieces)-1]
	t.cacheDirty = true
	return p.via, true
}

// PopSafe removes the last piece (segment or via) regardless of kind,
// for callers that only need to shrink the track by one piece without
// caring which kind it is (e.g. UnrouteSegment).
func (t *Track) PopSafe() bool {
	if len(t.pieces) == 0 {
		return false
	}
	t.pieces = t.pieces[:len(t.pieces)-1]
	t.cacheDirty = true
	return true
}

// PopFront removes the first piece (segment or via) regardless of
// kind, mirroring PopSafe at the other end — used by UnrouteSegment
// when trimming from a connection's source side.
func (t *Track) PopFront() bool {
	if len(t.pieces) == 0 {
		return false
	}
	t.pieces = t.pieces[1:]
	t.cacheDirty = true
	return true
}

// StartsOnVia reports whether the track's first piece is a via.
func (t *Track) StartsOnVia() bool {
	return len(t.pieces) > 0 && t.pieces[0].kind == pieceVia
}

// EndsOnVia reports whether the track's last piece is a via.
func (t *Track) EndsOnVia() bool {
	return len(t.pieces) > 0 && t.pieces[len(t.pieces)-1].kind == pieceVia
}

// StartsOnViaCenter reports whether the track starts on a via whose
// center coincides with Start.
func (t *Track) StartsOnViaCenter() bool {
	if !t.StartsOnVia() {
		return false
	}
	v := t.pieces[0].via
	return v.Center.ApproxEq(t.Start.XY(), 1e-9)
}

// EndsOnViaCenter reports whether the track ends on a via whose
// center coincides with End.
func (t *Track) EndsOnViaCenter() bool {
	if !t.EndsOnVia() {
		return false
	}
	v := t.pieces[len(t.pieces)-1].via
	return v.Center.ApproxEq(t.End.XY(), 1e-9)
}

// Length returns the track's total 2D segment length (vias contribute
// no length).
func (t *Track) Length() float64 {
	var total float64
	for _, p := range t.pieces {
		if p.kind == pieceSegment {
			total += p.segment.Length()
		}
	}
	return total
}

// Bbox returns the track's bounding box, computed lazily and cached
// until the next mutation.
func (t *Track) Bbox() geom.Bbox {
	if !t.cacheDirty {
		return t.cachedBbox
	}
	b := geom.EmptyBbox()
	for _, p := range t.pieces {
		switch p.kind {
		case pieceSegment:
			b = b.UnionBbox(p.segment.Bbox())
		case pieceVia:
			r := p.via.R
			b = b.UnionBbox(geom.Bbox{
				Min: geom.Point2{X: p.via.Center.X - r, Y: p.via.Center.Y - r},
				Max: geom.Point2{X: p.via.Center.X + r, Y: p.via.Center.Y + r},
			})
		}
	}
	t.cachedBbox = b
	t.cacheDirty = false
	return b
}

// IsRasterized reports whether the track is currently counted as
// rasterized in the grid.
func (t *Track) IsRasterized() bool {
	return t.rasterizedCount == 1
}

// AddRasterizedCount marks the track rasterized. Returns
// ErrAlreadyRasterized if it already was.
func (t *Track) AddRasterizedCount() error {
	if t.rasterizedCount != 0 {
		return ErrAlreadyRasterized
	}
	t.rasterizedCount = 1
	return nil
}

// RemoveRasterizedCount marks the track no longer rasterized. Returns
// ErrNotRasterized if it wasn't.
func (t *Track) RemoveRasterizedCount() error {
	if t.rasterizedCount != 1 {
		return ErrNotRasterized
	}
	t.rasterizedCount = 0
	return nil
}

// HasValidEnds reports whether Start/End match the track's first/last
// piece endpoints within tol, consecutive segments share endpoints,
// layer changes occur only at a via spanning the adjacent layers, and
// a via's center matches the adjoining segment endpoint.
func (t *Track) HasValidEnds(tol float64) bool {
	if t.Empty() {
		return false
	}
	first := t.pieces[0]
	last := t.pieces[len(t.pieces)-1]

	if !pieceStart(first).ApproxEq(t.Start, tol) {
		return false
	}
	if !pieceEnd(last).ApproxEq(t.End, tol) {
		return false
	}
	return t.isContiguousTol(tol)
}

// IsContiguous reports whether consecutive pieces share endpoints and
// every layer change happens at a via whose span covers both
// adjoining layers.
func (t *Track) IsContiguous() bool {
	return t.isContiguousTol(1e-9)
}

func (t *Track) isContiguousTol(tol float64) bool {
	spans := func(p piece, z0, z1 int) bool {
		return p.kind == pieceVia && p.via.ZMin <= min(z0, z1) && p.via.ZMax >= max(z0, z1)
	}
	for i := 0; i+1 < len(t.pieces); i++ {
		a, b := t.pieces[i], t.pieces[i+1]
		ea, sb := pieceEnd(a), pieceStart(b)
		if !ea.XY().ApproxEq(sb.XY(), tol) {
			return false
		}
		if ea.Z != sb.Z {
			// A layer change must happen at a via spanning both layers.
			if !spans(a, ea.Z, sb.Z) && !spans(b, ea.Z, sb.Z) {
				return false
			}
		}
	}
	return true
}

func pieceStart(p piece) geom.Point25 {
	if p.kind == pieceSegment {
		return p.segment.P0
	}
	return geom.Point25{X: p.via.Center.X, Y: p.via.Center.Y, Z: p.via.ZMin}
}

func pieceEnd(p piece) geom.Point25 {
	if p.kind == pieceSegment {
		return p.segment.P1
	}
	return geom.Point25{X: p.via.Center.X, Y: p.via.Center.Y, Z: p.via.ZMax}
}

// SnapToStart moves Start (and, if the first piece touches it, the
// first piece's matching endpoint) to p, provided p is within
// tol of the track's current start — used to finalize an A*-produced
// track whose grid-quantized end is close to, but not exactly at, the
// connection's declared endpoint.
func (t *Track) SnapToStart(p geom.Point25, tol float64) bool {
	if t.Empty() || !pieceStart(t.pieces[0]).ApproxEq(p, tol) {
		return false
	}
	t.Start = p
	switch first := &t.pieces[0]; first.kind {
	case pieceSegment:
		first.segment.P0 = p
	case pieceVia:
		first.via.Center = p.XY()
	}
	t.cacheDirty = true
	return true
}

// SnapToEnd is SnapToStart's mirror for the track's end.
func (t *Track) SnapToEnd(p geom.Point25, tol float64) bool {
	if t.Empty() || !pieceEnd(t.pieces[len(t.pieces)-1]).ApproxEq(p, tol) {
		return false
	}
	t.End = p
	switch last := &t.pieces[len(t.pieces)-1]; last.kind {
	case pieceSegment:
		last.segment.P1 = p
	case pieceVia:
		last.via.Center = p.XY()
	}
	t.cacheDirty = true
	return true
}

// SnapToEndpoint snaps both ends of the track to source/target if
// they're within tol, i.e. forceRouted in the original design: a path
// whose grid-quantized ends are merely close to the declared endpoints
// is treated as reaching them exactly.
func (t *Track) SnapToEndpoint(source, target geom.Point25, tol float64) {
	t.SnapToStart(source, tol)
	t.SnapToEnd(target, tol)
}

// AutocreateVias scans the piece sequence for adjacent pieces whose
// layers differ without an intervening via (which can arise from pin
// layer-range extension during reconstruction) and inserts a
// zero-length via spanning the gap.
func (t *Track) AutocreateVias() error {
	if t.Empty() {
		return ErrEmptyTrack
	}
	var out []piece
	for i, p := range t.pieces {
		out = append(out, p)
		if i+1 >= len(t.pieces) {
			continue
		}
		next := t.pieces[i+1]
		az, bz := pieceEnd(p).Z, pieceStart(next).Z
		if az != bz && p.kind != pieceVia && next.kind != pieceVia {
			zmin, zmax := az, bz
			if zmin > zmax {
				zmin, zmax = zmax, zmin
			}
			out = append(out, piece{
				kind: pieceVia,
				via:  Via{Center: pieceEnd(p).XY(), ZMin: zmin, ZMax: zmax, R: t.ViaDiameter / 2},
			})
		}
	}
	t.pieces = out
	t.cacheDirty = true
	return nil
}
