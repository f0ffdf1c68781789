package geom

import "math"

// Segment25 is a straight line segment on a single layer.
type Segment25 struct {
	P0, P1 Point25
}

// WideSegment25 is a Segment25 with a half-width, i.e. a capsule —
// the shape a Track body actually occupies.
type WideSegment25 struct {
	P0, P1 Point25
	HalfW  float64
}

// Length returns the 2D length of the segment's centerline.
func (s WideSegment25) Length() float64 {
	return s.P0.XY().Sub(s.P1.XY()).Length()
}

// IsHorizontal reports whether the segment runs along the X axis.
func (s WideSegment25) IsHorizontal() bool {
	return s.P0.Y == s.P1.Y
}

// IsVertical reports whether the segment runs along the Y axis.
func (s WideSegment25) IsVertical() bool {
	return s.P0.X == s.P1.X
}

// IsAxisAligned reports whether the segment is horizontal or
// vertical (as opposed to diagonal).
func (s WideSegment25) IsAxisAligned() bool {
	return s.IsHorizontal() || s.IsVertical()
}

// Angle returns the angle, in radians within [0, pi/2], between the
// segment and the X axis — used to forbid near-horizontal diagonal
// segments in the rasterizer (see rasterize.Rasterizer.FillDSegment).
func (s WideSegment25) Angle() float64 {
	dx := s.P1.X - s.P0.X
	dy := s.P1.Y - s.P0.Y
	return math.Atan2(math.Abs(dy), math.Abs(dx))
}

// Bbox returns the 2D bounding box of the segment's centerline,
// excluding the half-width.
func (s WideSegment25) Bbox() Bbox {
	return EmptyBbox().Union(s.P0.XY()).Union(s.P1.XY())
}

// Perp returns the unit perpendicular vector to the segment,
// scaled by s.HalfW, pointing to one side (rotate 90° CCW).
func (s WideSegment25) Perp() Point2 {
	return s.PerpUnit().Mul(s.HalfW)
}

// PerpUnit returns the unit perpendicular vector to the segment,
// rotated 90° CCW from its direction.
func (s WideSegment25) PerpUnit() Point2 {
	d := s.P1.XY().Sub(s.P0.XY())
	l := d.Length()
	if l == 0 {
		return Point2{}
	}
	return Point2{X: -d.Y / l, Y: d.X / l}
}
