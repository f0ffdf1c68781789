// Package geom provides the 2D/2.5D geometric primitives the
// navigation grid, rasterizer, and A* pathfinder operate on: points,
// wide segments, bounding boxes, and a tagged-union shape type.
//
// Coordinates use float64 (the original design's "Real") rather than
// the float32 used for A* scores and costs (see internal/f32):
// board geometry is parsed from external units and needs the extra
// precision, while grid cost arithmetic does not.
package geom

import "math"

// Point2 is a 2D point in board units.
type Point2 struct {
	X, Y float64
}

// Add returns p+q.
func (p Point2) Add(q Point2) Point2 {
	return Point2{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point2) Sub(q Point2) Point2 {
	return Point2{p.X - q.X, p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point2) Mul(s float64) Point2 {
	return Point2{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point2) Dot(q Point2) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the Euclidean length of p as a vector from the origin.
func (p Point2) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// ApproxEq reports whether p and q are within eps of each other on
// both axes.
func (p Point2) ApproxEq(q Point2, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Point25 is a 2.5D point: a 2D position plus an integer layer index.
type Point25 struct {
	X, Y float64
	Z    int
}

// XY returns the 2D projection of p, dropping the layer.
func (p Point25) XY() Point2 {
	return Point2{p.X, p.Y}
}

// ApproxEq reports whether p and q are within eps on X/Y and share a
// layer.
func (p Point25) ApproxEq(q Point25, eps float64) bool {
	return p.Z == q.Z && p.XY().ApproxEq(q.XY(), eps)
}

// Dist45 returns the 45°-metric ("octile") distance between a and b:
// the cost of a path that may move diagonally, where a diagonal step
// costs sqrt(2) times an axial step.
func Dist45(a, b Point2) float64 {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)
	if dx < dy {
		dx, dy = dy, dx
	}
	return dx + (math.Sqrt2-1)*dy
}

// Bbox is an axis-aligned 2D bounding box.
type Bbox struct {
	Min, Max Point2
}

// EmptyBbox returns a Bbox with Min/Max inverted such that Union with
// any point grows it to exactly that point.
func EmptyBbox() Bbox {
	return Bbox{
		Min: Point2{math.Inf(1), math.Inf(1)},
		Max: Point2{math.Inf(-1), math.Inf(-1)},
	}
}

// Union returns the smallest Bbox containing both b and p.
func (b Bbox) Union(p Point2) Bbox {
	return Bbox{
		Min: Point2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Point2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// UnionBbox returns the smallest Bbox containing both a and b.
func (a Bbox) UnionBbox(b Bbox) Bbox {
	return a.Union(b.Min).Union(b.Max)
}

// Expand returns b dilated by d on every side.
func (b Bbox) Expand(d float64) Bbox {
	return Bbox{
		Min: Point2{b.Min.X - d, b.Min.Y - d},
		Max: Point2{b.Max.X + d, b.Max.Y + d},
	}
}

// Width returns the X extent of b.
func (b Bbox) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent of b.
func (b Bbox) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies within b, inclusive of the
// boundary.
func (b Bbox) Contains(p Point2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
