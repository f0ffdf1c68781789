package geom

// ShapeKind tags the concrete type held by a Shape.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
	ShapeRectIso
	ShapeWideSegment
	ShapePolygon
)

// Circle is a disc of radius R centered at Center.
type Circle struct {
	Center Point2
	R      float64
}

// Rect is an axis-aligned rectangle, W wide and H tall, centered at
// Center.
type Rect struct {
	Center Point2
	W, H   float64
}

// RectIso is a rectangle given directly by its low/high corners —
// used when a footprint is parsed already axis-aligned rather than as
// a center+extent pair.
type RectIso struct {
	Lo, Hi Point2
}

// Polygon is a closed polygon given by its vertices in order. The
// first vertex is not repeated at the end.
type Polygon struct {
	Vertices []Point2
}

// Shape is a tagged union over the footprint/pad shapes the
// rasterizer understands: Circle, Rect, RectIso, WideSegment, or
// Polygon. Exactly one of the typed fields is meaningful, selected by
// Kind. Adding a new shape means adding a new Kind value, a new typed
// field, and a new rasterizer arm — there is no further dispatch
// indirection to keep in sync.
type Shape struct {
	Kind        ShapeKind
	Circle      Circle
	Rect        Rect
	RectIso     RectIso
	WideSegment WideSegment25
	Polygon     Polygon
}

// NewCircleShape wraps c as a Shape.
func NewCircleShape(c Circle) Shape { return Shape{Kind: ShapeCircle, Circle: c} }

// NewRectShape wraps r as a Shape.
func NewRectShape(r Rect) Shape { return Shape{Kind: ShapeRect, Rect: r} }

// NewRectIsoShape wraps r as a Shape.
func NewRectIsoShape(r RectIso) Shape { return Shape{Kind: ShapeRectIso, RectIso: r} }

// NewWideSegmentShape wraps w as a Shape.
func NewWideSegmentShape(w WideSegment25) Shape {
	return Shape{Kind: ShapeWideSegment, WideSegment: w}
}

// NewPolygonShape wraps p as a Shape.
func NewPolygonShape(p Polygon) Shape { return Shape{Kind: ShapePolygon, Polygon: p} }

// Bbox returns the 2D bounding box of the shape, ignoring layer.
func (s Shape) Bbox() Bbox {
	switch s.Kind {
	case ShapeCircle:
		return Bbox{
			Min: Point2{s.Circle.Center.X - s.Circle.R, s.Circle.Center.Y - s.Circle.R},
			Max: Point2{s.Circle.Center.X + s.Circle.R, s.Circle.Center.Y + s.Circle.R},
		}
	case ShapeRect:
		hw, hh := s.Rect.W/2, s.Rect.H/2
		return Bbox{
			Min: Point2{s.Rect.Center.X - hw, s.Rect.Center.Y - hh},
			Max: Point2{s.Rect.Center.X + hw, s.Rect.Center.Y + hh},
		}
	case ShapeRectIso:
		return Bbox{Min: s.RectIso.Lo, Max: s.RectIso.Hi}
	case ShapeWideSegment:
		b := s.WideSegment.Bbox()
		return b.Expand(s.WideSegment.HalfW)
	case ShapePolygon:
		b := EmptyBbox()
		for _, v := range s.Polygon.Vertices {
			b = b.Union(v)
		}
		return b
	}
	return EmptyBbox()
}

// HasOnUnboundedSide reports whether p lies strictly outside the
// (convex or simple) polygon poly, tested via the standard even-odd
// ray-casting rule. Named after the CGAL predicate the original
// rasterizer uses for the same cap/edge tests.
func HasOnUnboundedSide(poly []Point2, p Point2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return !inside
}
