package rasterize

import "github.com/chrisbmr/pcbroute/geom"

// CapMask controls which ends of a wide segment are drawn out to the
// endpoint when rasterizing a Track: interior joints between segments
// suppress the end on the side that's covered by a wider adjoining
// segment, or by a via, so the joint isn't double-counted.
type CapMask uint8

const (
	CapStart CapMask = 1 << iota
	CapEnd
)

// FillWideSegment rasterizes a wide segment on its own layer, dilated
// by expansion, dispatching to the horizontal/vertical/diagonal
// algorithm depending on its orientation. caps controls whether the
// segment's own start/end caps are drawn; axis-aligned segments
// already draw a rectangular body that includes both ends, so caps
// only matters for diagonal segments, whose suppressed ends are
// shortened (see fillDSegmentCapped).
func (r Rasterizer) FillWideSegment(op WriteOp, s geom.WideSegment25, expansion float64, caps CapMask) {
	switch {
	case s.IsHorizontal():
		r.FillHSegment(op, s, expansion)
	case s.IsVertical():
		r.FillVSegment(op, s, expansion)
	default:
		r.fillDSegmentCapped(op, s, expansion, caps)
	}
}

// fillDSegmentCapped is FillDSegment with the ability to shorten the
// segment by HalfW+expansion at a suppressed end, used when an
// adjoining, wider segment (or a via) already covers that joint.
func (r Rasterizer) fillDSegmentCapped(op WriteOp, s geom.WideSegment25, expansion float64, caps CapMask) {
	if caps == CapStart|CapEnd {
		r.FillDSegment(op, s, expansion)
		return
	}
	// Shrink the segment's modeled length by HalfW+expansion at the
	// suppressed end so the shared joint cell is only written once by
	// the wider/via-bearing neighbor. The body of the capsule between
	// the (adjusted) endpoints is unaffected.
	adjusted := s
	shrink := s.HalfW + expansion
	dir := s.P1.XY().Sub(s.P0.XY())
	l := dir.Length()
	if l == 0 {
		r.FillDSegment(op, s, expansion)
		return
	}
	unit := dir.Mul(1 / l)
	if caps&CapStart == 0 {
		p := s.P0.XY().Add(unit.Mul(shrink))
		adjusted.P0 = geom.Point25{X: p.X, Y: p.Y, Z: s.P0.Z}
	}
	if caps&CapEnd == 0 {
		p := s.P1.XY().Sub(unit.Mul(shrink))
		adjusted.P1 = geom.Point25{X: p.X, Y: p.Y, Z: s.P1.Z}
	}
	r.FillDSegment(op, adjusted, expansion)
}
