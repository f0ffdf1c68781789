package rasterize

import (
	"math"

	"github.com/chrisbmr/pcbroute/geom"
)

// Rasterizer converts board-space shapes into grid cell-index ranges
// for a grid of the given cell edge length and origin (the board-space
// position of cell (0,0)'s low corner).
type Rasterizer struct {
	Edge   float64
	Origin geom.Point2
}

// eps is the float tolerance used throughout the midpoint-rule
// algorithms below to absorb drift from parse-time floating point
// input; edge/1024 matches the original implementation.
func (r Rasterizer) eps() float64 { return r.Edge / 1024 }

func (r Rasterizer) xIndex(x float64) int {
	return int(math.Floor((x - r.Origin.X) / r.Edge))
}

func (r Rasterizer) yIndex(y float64) int {
	return int(math.Floor((y - r.Origin.Y) / r.Edge))
}

func (r Rasterizer) midpointX(i int) float64 {
	return r.Origin.X + (float64(i)+0.5)*r.Edge
}

func (r Rasterizer) midpointY(i int) float64 {
	return r.Origin.Y + (float64(i)+0.5)*r.Edge
}

// FillBbox rasterizes an axis-aligned rectangle dilated by expansion,
// on layers [z0,z1].
func (r Rasterizer) FillBbox(op WriteOp, b geom.Bbox, z0, z1 int, expansion float64) {
	halfEdge := r.Edge / 2
	clamp := expansion - halfEdge - r.eps()

	x0 := r.xIndex(b.Min.X - clamp)
	x1 := r.xIndex(b.Max.X + clamp)
	y0 := r.yIndex(b.Min.Y - clamp)
	y1 := r.yIndex(b.Max.Y + clamp)

	// A shape smaller than one cell must still draw its enclosing
	// cell.
	if x1 < x0 {
		x0 = r.xIndex((b.Min.X + b.Max.X) / 2)
		x1 = x0
	}
	if y1 < y0 {
		y0 = r.yIndex((b.Min.Y + b.Max.Y) / 2)
		y1 = y0
	}

	WriteRangeYX(op, z0, y0, y1, x0, x1)
	for z := z0 + 1; z <= z1; z++ {
		WriteRangeYX(op, z, y0, y1, x0, x1)
	}
}

// FillCircle rasterizes a circle of radius c.R centered at c.Center,
// dilated by expansion, on layers [z0,z1], via horizontal scanlines.
func (r Rasterizer) FillCircle(op WriteOp, c geom.Circle, z0, z1 int, expansion float64) {
	radius := c.R + expansion
	eps := r.eps()

	y0 := r.yIndex(c.Center.Y - radius)
	y1 := r.yIndex(c.Center.Y + radius)

	for y := y0; y <= y1; y++ {
		cY := r.midpointY(y) - c.Center.Y
		rem := radius*radius - cY*cY
		if rem < 0 {
			rem = 0
		}
		cX := math.Sqrt(rem) + eps

		x0 := r.xIndex(c.Center.X - cX)
		x1 := r.xIndex(c.Center.X + cX)
		if x1 < x0 {
			x0, x1 = r.xIndex(c.Center.X), r.xIndex(c.Center.X)
		}
		for z := z0; z <= z1; z++ {
			WriteRangeX(op, z, y, x0, x1)
		}
	}
}

// FillHSegment rasterizes a horizontal wide segment (P0.Y == P1.Y) on
// its own layer, dilated by expansion.
func (r Rasterizer) FillHSegment(op WriteOp, s geom.WideSegment25, expansion float64) {
	halfEdge := r.Edge / 2
	eps := r.eps()
	z := s.P0.Z

	x0v, x1v := s.P0.X, s.P1.X
	if x1v < x0v {
		x0v, x1v = x1v, x0v
	}
	halfLen := (x1v - x0v) / 2
	axialClamp := math.Max(0.5-eps, halfLen/r.Edge) * r.Edge
	cx := (x0v + x1v) / 2

	x0 := r.xIndex(cx - axialClamp)
	x1 := r.xIndex(cx + axialClamp)

	perpClamp := s.HalfW + expansion - halfEdge - eps
	y0 := r.yIndex(s.P0.Y - perpClamp)
	y1 := r.yIndex(s.P0.Y + perpClamp)
	if y1 < y0 {
		y1 = y0
	}

	WriteRangeYX(op, z, y0, y1, x0, x1)
}

// FillVSegment rasterizes a vertical wide segment (P0.X == P1.X) on
// its own layer, dilated by expansion.
func (r Rasterizer) FillVSegment(op WriteOp, s geom.WideSegment25, expansion float64) {
	halfEdge := r.Edge / 2
	eps := r.eps()
	z := s.P0.Z

	y0v, y1v := s.P0.Y, s.P1.Y
	if y1v < y0v {
		y0v, y1v = y1v, y0v
	}
	halfLen := (y1v - y0v) / 2
	axialClamp := math.Max(0.5-eps, halfLen/r.Edge) * r.Edge
	cy := (y0v + y1v) / 2

	y0 := r.yIndex(cy - axialClamp)
	y1 := r.yIndex(cy + axialClamp)

	perpClamp := s.HalfW + expansion - halfEdge - eps
	x0 := r.xIndex(s.P0.X - perpClamp)
	x1 := r.xIndex(s.P0.X + perpClamp)
	if x1 < x0 {
		x1 = x0
	}

	WriteRangeYX(op, z, y0, y1, x0, x1)
}

// diagonalForbiddenAngle is the threshold (radians, measured from the
// X axis) below which a diagonal segment is too close to horizontal
// for the scanline formulation to stay numerically stable; such
// segments must be rotated into FillHSegment/FillVSegment territory or
// rejected by the caller.
const diagonalForbiddenAngle = 0x1p-7 // 2^-7

// FillDSegment rasterizes a non-axis-aligned wide segment by scanning
// rows between the two perpendicular-offset boundary lines. Its ends
// are flat, cut by the perpendicular lines through each endpoint; no
// end cap is drawn beyond them.
func (r Rasterizer) FillDSegment(op WriteOp, s geom.WideSegment25, expansion float64) {
	angle := s.Angle()
	if angle < diagonalForbiddenAngle || (math.Pi/2-angle) < diagonalForbiddenAngle {
		// Too close to axis-aligned for this formulation; caller
		// should have dispatched to FillHSegment/FillVSegment instead.
		return
	}

	z := s.P0.Z
	halfW := s.HalfW + expansion
	perp := s.PerpUnit()

	p0 := s.P0.XY()
	p1 := s.P1.XY()

	// The dilated capsule is the polygon formed by offsetting the
	// centerline by ±perp*halfW and capping with the perpendicular
	// lines through each endpoint (a true rounded cap is not modeled;
	// boards route capsule-as-hexagon obstacles the same way the
	// original restricts diagonal segments to their forbidden-angle
	// guard to keep this approximation acceptable).
	poly := []geom.Point2{
		p0.Add(perp.Mul(halfW)),
		p1.Add(perp.Mul(halfW)),
		p1.Add(perp.Mul(-halfW)),
		p0.Add(perp.Mul(-halfW)),
	}

	bbox := geom.EmptyBbox()
	for _, v := range poly {
		bbox = bbox.Union(v)
	}

	y0 := r.yIndex(bbox.Min.Y)
	y1 := r.yIndex(bbox.Max.Y)

	for y := y0; y <= y1; y++ {
		cy := r.midpointY(y)
		x0, x1, ok := scanlineXRange(poly, cy)
		if !ok {
			continue
		}
		ix0 := r.xIndex(x0)
		ix1 := r.xIndex(x1)
		if ix1 < ix0 {
			continue
		}
		WriteRangeX(op, z, y, ix0, ix1)
	}
}

// FillPolygon rasterizes a (possibly non-convex, simple) polygon
// dilated by expansion, on layers [z0,z1], scanning from both X
// extremes inward on each row via HasOnUnboundedSide.
func (r Rasterizer) FillPolygon(op WriteOp, poly geom.Polygon, z0, z1 int, expansion float64) {
	verts := dilatePolygon(poly.Vertices, expansion)

	bbox := geom.EmptyBbox()
	for _, v := range verts {
		bbox = bbox.Union(v)
	}

	y0 := r.yIndex(bbox.Min.Y)
	y1 := r.yIndex(bbox.Max.Y)

	for y := y0; y <= y1; y++ {
		cy := r.midpointY(y)
		x0, x1, ok := scanlineXRange(verts, cy)
		if !ok {
			continue
		}
		ix0 := r.xIndex(x0)
		ix1 := r.xIndex(x1)
		if ix1 < ix0 {
			continue
		}
		for z := z0; z <= z1; z++ {
			WriteRangeX(op, z, y, ix0, ix1)
		}
	}
}

// scanlineXRange walks inward from both X extremes of poly at height
// y, returning the [x0,x1] interval inside the polygon at that height.
// ok is false if the scanline misses the polygon entirely.
func scanlineXRange(poly []geom.Point2, y float64) (x0, x1 float64, ok bool) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, v := range poly {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
	}
	if minX > maxX {
		return 0, 0, false
	}

	const steps = 256
	step := (maxX - minX) / steps
	if step <= 0 {
		p := geom.Point2{X: minX, Y: y}
		if !geom.HasOnUnboundedSide(poly, p) {
			return minX, minX, true
		}
		return 0, 0, false
	}

	found := false
	for i := 0; i <= steps; i++ {
		x := minX + float64(i)*step
		if !geom.HasOnUnboundedSide(poly, geom.Point2{X: x, Y: y}) {
			if !found {
				x0 = x
				found = true
			}
			x1 = x
		}
	}
	return x0, x1, found
}

// dilatePolygon grows poly outward by d via a simple per-vertex
// outward offset along its averaged adjacent edge normals. This is
// not an exact Minkowski sum but is sufficient for the small,
// near-convex footprint/keep-out polygons this router rasterizes.
func dilatePolygon(verts []geom.Point2, d float64) []geom.Point2 {
	if d == 0 || len(verts) < 3 {
		return verts
	}
	n := len(verts)
	out := make([]geom.Point2, n)
	for i, v := range verts {
		prev := verts[(i-1+n)%n]
		next := verts[(i+1)%n]
		n1 := edgeNormal(prev, v)
		n2 := edgeNormal(v, next)
		avg := n1.Add(n2)
		l := avg.Length()
		if l == 0 {
			out[i] = v
			continue
		}
		out[i] = v.Add(avg.Mul(d / l))
	}
	return out
}

func edgeNormal(a, b geom.Point2) geom.Point2 {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return geom.Point2{}
	}
	return geom.Point2{X: d.Y / l, Y: -d.X / l}
}
