package navgrid

import (
	"math"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/rasterize"
)

// rasterizer returns a rasterize.Rasterizer configured for this grid.
func (g *Grid) rasterizer() rasterize.Rasterizer {
	return rasterize.Rasterizer{Edge: g.Edge, Origin: g.Origin}
}

// cellRanges returns every cell-index range shape covers, dilated by
// expansion, on layers [z0,z1] — the common first step of every
// Grid rasterization entry point below.
func (g *Grid) cellRanges(shape geom.Shape, z0, z1 int, expansion float64) []rasterize.IndexRange {
	rec := &rasterize.RecordOp{}
	r := g.rasterizer()
	switch shape.Kind {
	case geom.ShapeCircle:
		r.FillCircle(rec, shape.Circle, z0, z1, expansion)
	case geom.ShapeRect:
		b := shape.Bbox()
		r.FillBbox(rec, b, z0, z1, expansion)
	case geom.ShapeRectIso:
		r.FillBbox(rec, shape.Bbox(), z0, z1, expansion)
	case geom.ShapeWideSegment:
		r.FillWideSegment(rec, shape.WideSegment, expansion, rasterize.CapStart|rasterize.CapEnd)
	case geom.ShapePolygon:
		r.FillPolygon(rec, shape.Polygon, z0, z1, expansion)
	}
	return rec.Ranges
}

func clampRange(r rasterize.IndexRange, w, h, d int) (rasterize.IndexRange, bool) {
	if r.X1 < 0 || r.Y1 < 0 || r.Z1 < 0 || r.X0 >= w || r.Y0 >= h || r.Z0 >= d {
		return r, false
	}
	if r.X0 < 0 {
		r.X0 = 0
	}
	if r.Y0 < 0 {
		r.Y0 = 0
	}
	if r.Z0 < 0 {
		r.Z0 = 0
	}
	if r.X1 >= w {
		r.X1 = w - 1
	}
	if r.Y1 >= h {
		r.Y1 = h - 1
	}
	if r.Z1 >= d {
		r.Z1 = d - 1
	}
	return r, true
}

// forEachCell calls fn for every cell index covered by shape, dilated
// by expansion, on layers [z0,z1], clamped to the grid bounds.
func (g *Grid) forEachCell(shape geom.Shape, z0, z1 int, expansion float64, fn func(idx int)) {
	for _, rng := range g.cellRanges(shape, z0, z1, expansion) {
		rng, ok := clampRange(rng, g.W, g.H, g.D)
		if !ok {
			continue
		}
		for z := rng.Z0; z <= rng.Z1; z++ {
			for y := rng.Y0; y <= rng.Y1; y++ {
				base := z*g.W*g.H + y*g.W
				for x := rng.X0; x <= rng.X1; x++ {
					fn(base + x)
				}
			}
		}
	}
}

// AdjustKeepout increments (delta=+1) or decrements (delta=-1) the
// given keep-out counter field over every cell shape covers, dilated
// by expansion, on layers [z0,z1]. field selects which counter:
// KeepoutPinTrack, KeepoutPinVia, KeepoutRouteTrack, KeepoutRouteVia.
// Each rasterization call uses a fresh write epoch so a cell covered
// by overlapping ranges within the same call (e.g. a segment body and
// its own cap) is only adjusted once.
func (g *Grid) AdjustKeepout(shape geom.Shape, z0, z1 int, expansion float64, field KeepoutField, delta int16) {
	seq := g.NextRasterSeq()
	g.forEachCell(shape, z0, z1, expansion, func(idx int) {
		if g.WrittenThisEpoch(idx, seq) {
			return
		}
		p := &g.points[idx]
		switch field {
		case KeepoutPinTrack:
			p.PinTracks = addU16(p.PinTracks, delta)
			setFlagFromCounter(&p.Flags, PinTrackClearance, p.PinTracks)
		case KeepoutPinVia:
			p.PinVias = addU16(p.PinVias, delta)
			setFlagFromCounter(&p.Flags, PinViaClearance, p.PinVias)
		case KeepoutRouteTrack:
			p.RouteTracks = addU16(p.RouteTracks, delta)
			setFlagFromCounter(&p.Flags, RouteTrackClearance, p.RouteTracks)
		case KeepoutRouteVia:
			p.RouteVias = addU16(p.RouteVias, delta)
			setFlagFromCounter(&p.Flags, RouteViaClearance, p.RouteVias)
		}
	})
}

// setFlagFromCounter keeps a cell's cached clearance Flags bit in sync
// with its keep-out counter, so A*'s cost function (cost.go) can test
// a single bit instead of a counter on every edge, and so
// CountClearanceViolations can answer "is this area occupied" without
// re-deriving it from the counters.
func setFlagFromCounter(flags *Flags, bit Flags, counter uint16) {
	if counter > 0 {
		*flags |= bit
	} else {
		*flags &^= bit
	}
}

func addU16(v uint16, delta int16) uint16 {
	if delta >= 0 {
		return v + uint16(delta)
	}
	if v == 0 {
		return 0
	}
	return v - uint16(-delta)
}

// KeepoutField selects which per-cell keep-out counter AdjustKeepout
// operates on.
type KeepoutField int

const (
	KeepoutPinTrack KeepoutField = iota
	KeepoutPinVia
	KeepoutRouteTrack
	KeepoutRouteVia
)

// StampFlags ORs flag into every cell shape covers, dilated by
// expansion, on layers [z0,z1].
func (g *Grid) StampFlags(shape geom.Shape, z0, z1 int, expansion float64, flag Flags) {
	g.forEachCell(shape, z0, z1, expansion, func(idx int) {
		g.points[idx].Flags |= flag
	})
}

// MarkEndpoint ORs flag (Source or Target) onto every cell of shape
// (normally a pin's footprint), saving each touched cell's prior
// flags into its save slot first, and clearing the clearance flags so
// the pin's own footprint doesn't block the search from entering it.
// Returns the touched cell indices so RestoreEndpoint can undo this
// exactly.
func (g *Grid) MarkEndpoint(shape geom.Shape, z0, z1 int, flag Flags) []int {
	var touched []int
	g.forEachCell(shape, z0, z1, 0, func(idx int) {
		p := &g.points[idx]
		p.saveSlot = p.Flags
		p.Flags = (p.Flags &^ (PinTrackClearance | PinViaClearance | RouteTrackClearance | RouteViaClearance)) | flag
		touched = append(touched, idx)
	})
	return touched
}

// RestoreEndpoint restores the pre-MarkEndpoint flags for every cell
// index in touched.
func (g *Grid) RestoreEndpoint(touched []int) {
	for _, idx := range touched {
		g.points[idx].Flags = g.points[idx].saveSlot
	}
}

// ClearFlags ANDs flag out of every cell shape covers, dilated by
// expansion, on layers [z0,z1] — SetRouteGuard's "clear" mode is the
// primary caller.
func (g *Grid) ClearFlags(shape geom.Shape, z0, z1 int, expansion float64, flag Flags) {
	g.forEachCell(shape, z0, z1, expansion, func(idx int) {
		g.points[idx].Flags &^= flag
	})
}

// CountClearanceViolations returns how many cells shape covers,
// dilated by expansion, on layers [z0,z1], already carry any flag in
// flagMask — the "temporary rasterization pass" SegmentToPoint uses to
// size a candidate track's violation area before committing it.
func (g *Grid) CountClearanceViolations(shape geom.Shape, z0, z1 int, expansion float64, flagMask Flags) int {
	count := 0
	g.forEachCell(shape, z0, z1, expansion, func(idx int) {
		if g.points[idx].Flags&flagMask != 0 {
			count++
		}
	})
	return count
}

// SetCostBox overlays cost onto every cell in the inclusive box
// [x0,x1]x[y0,y1]x[z0,z1], clamped to the grid bounds.
func (g *Grid) SetCostBox(x0, y0, z0, x1, y1, z1 int, cost float32) {
	r, ok := clampRange(rasterize.IndexRange{Z0: z0, Z1: z1, Y0: y0, Y1: y1, X0: x0, X1: x1}, g.W, g.H, g.D)
	if !ok {
		return
	}
	for z := r.Z0; z <= r.Z1; z++ {
		for y := r.Y0; y <= r.Y1; y++ {
			base := z*g.W*g.H + y*g.W
			for x := r.X0; x <= r.X1; x++ {
				g.points[base+x].Cost = cost
			}
		}
	}
}

// SetCostAll overlays cost onto every cell in the grid.
func (g *Grid) SetCostAll(cost float32) {
	g.SetCostBox(0, 0, 0, g.W-1, g.H-1, g.D-1, cost)
}

// SetCostPoint overlays cost onto the single cell at p, if p is
// within the grid.
func (g *Grid) SetCostPoint(p GridPos, cost float32) {
	if np := g.PointAt(p); np != nil {
		np.Cost = cost
	}
}

// AdjustUserKeepout is the RRR agent's own rasterization pass,
// grounded on RRRAgent.cpp's PathfinderROP: unlike AdjustKeepout (the
// strict, never-overlapping RouteTrack/RouteVia counters every other
// caller respects), it deliberately tolerates temporary overlaps while
// rip-up-and-reroute iterates, tracking them in NavPoint.User[0]
// (overlap count) and NavPoint.User[1] (history cost, which biases
// future searches away from cells that have overlapped repeatedly).
// It returns how many distinct cells ended this call with User[0] > 1
// (the original's OverlapCount). When updateHistory is true, delta is
// positive and a cell's post-delta count exceeds 1, its history cost
// User[1] is incremented by one, up to histMaxIncrements. Every
// touched cell's Cost is
// refreshed to (1 + User[1]*histIncrementSize) * (User[0] + 1).
func (g *Grid) AdjustUserKeepout(shape geom.Shape, z0, z1 int, expansion float64, delta int16, updateHistory bool, histIncrementSize float32, histMaxIncrements uint16) int {
	seq := g.NextRasterSeq()
	overlaps := 0
	g.forEachCell(shape, z0, z1, expansion, func(idx int) {
		if g.WrittenThisEpoch(idx, seq) {
			return
		}
		p := &g.points[idx]
		p.User[0] = addU16(p.User[0], delta)
		if p.User[0] > 1 {
			overlaps++
		}
		if delta > 0 && p.User[0] > 1 && updateHistory {
			if p.User[1] < histMaxIncrements {
				p.User[1]++
			}
		}
		p.Cost = (1 + float32(p.User[1])*histIncrementSize) * float32(p.User[0]+1)
	})
	return overlaps
}

// DecayHistoryCosts scales every cell's history-cost counter
// (NavPoint.User[1]) by factor, rounding up — RRRAgent.cpp's
// decayHistoryCosts, run once per RRR iteration so cells that
// overlapped early in the search aren't penalized forever.
func (g *Grid) DecayHistoryCosts(factor float32) {
	if factor == 1 {
		return
	}
	for i := range g.points {
		h := float32(g.points[i].User[1])
		g.points[i].User[1] = uint16(math.Ceil(float64(h * factor)))
	}
}

// ResetUserKeepouts zeroes every cell's RRR-specific overlap counter
// and history cost and resets its cost multiplier to 1 — run once
// entering the postroute stage, after which tracks are rasterized via
// the strict AdjustKeepout path instead.
func (g *Grid) ResetUserKeepouts() {
	for i := range g.points {
		g.points[i].User[0] = 0
		g.points[i].User[1] = 0
		g.points[i].Cost = 1
	}
}
