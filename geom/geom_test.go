package geom

import (
	"math"
	"testing"
)

func TestPoint2Arithmetic(t *testing.T) {
	a := Point2{X: 1, Y: 2}
	b := Point2{X: 3, Y: -1}
	if got := a.Add(b); got != (Point2{X: 4, Y: 1}) {
		t.Errorf("Add = %v, want {4 1}", got)
	}
	if got := a.Sub(b); got != (Point2{X: -2, Y: 3}) {
		t.Errorf("Sub = %v, want {-2 3}", got)
	}
	if got := a.Mul(2); got != (Point2{X: 2, Y: 4}) {
		t.Errorf("Mul = %v, want {2 4}", got)
	}
	if got := a.Dot(b); got != 1 {
		t.Errorf("Dot = %v, want 1", got)
	}
	if got := (Point2{X: 3, Y: 4}).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestPoint2ApproxEq(t *testing.T) {
	a := Point2{X: 1, Y: 1}
	b := Point2{X: 1.0005, Y: 0.9995}
	if !a.ApproxEq(b, 0.001) {
		t.Error("want points within eps to compare approx-equal")
	}
	if a.ApproxEq(b, 0.0001) {
		t.Error("want points beyond eps to compare approx-unequal")
	}
}

func TestPoint25ApproxEqRequiresSameLayer(t *testing.T) {
	a := Point25{X: 1, Y: 1, Z: 0}
	b := Point25{X: 1, Y: 1, Z: 1}
	if a.ApproxEq(b, 1e-9) {
		t.Error("want points on different layers to never compare approx-equal")
	}
	if !a.ApproxEq(Point25{X: 1, Y: 1, Z: 0}, 1e-9) {
		t.Error("want identical points on the same layer to compare approx-equal")
	}
}

func TestDist45(t *testing.T) {
	// Pure axial distance: no diagonal component.
	if got := Dist45(Point2{}, Point2{X: 5, Y: 0}); got != 5 {
		t.Errorf("axial Dist45 = %v, want 5", got)
	}
	// Pure diagonal distance: n steps of sqrt(2) each.
	want := 3 * math.Sqrt2
	if got := Dist45(Point2{}, Point2{X: 3, Y: 3}); math.Abs(got-want) > 1e-9 {
		t.Errorf("diagonal Dist45 = %v, want %v", got, want)
	}
	// Mixed: longer axis walked straight, shorter axis walked diagonally.
	want = 4 + (math.Sqrt2-1)*3
	if got := Dist45(Point2{}, Point2{X: 4, Y: 3}); math.Abs(got-want) > 1e-9 {
		t.Errorf("mixed Dist45 = %v, want %v", got, want)
	}
	// Symmetric regardless of argument order.
	if Dist45(Point2{X: 1, Y: 5}, Point2{X: 8, Y: 2}) != Dist45(Point2{X: 8, Y: 2}, Point2{X: 1, Y: 5}) {
		t.Error("want Dist45 symmetric in its arguments")
	}
}

func TestBboxUnionAndExpand(t *testing.T) {
	b := EmptyBbox()
	b = b.Union(Point2{X: 1, Y: 2})
	b = b.Union(Point2{X: -1, Y: 5})
	if b.Min != (Point2{X: -1, Y: 2}) || b.Max != (Point2{X: 1, Y: 5}) {
		t.Errorf("Union = %+v, want Min{-1 2} Max{1 5}", b)
	}
	if got := b.Width(); got != 2 {
		t.Errorf("Width = %v, want 2", got)
	}
	if got := b.Height(); got != 3 {
		t.Errorf("Height = %v, want 3", got)
	}

	e := b.Expand(1)
	if e.Min != (Point2{X: -2, Y: 1}) || e.Max != (Point2{X: 2, Y: 6}) {
		t.Errorf("Expand = %+v, want Min{-2 1} Max{2 6}", e)
	}
}

func TestBboxUnionBbox(t *testing.T) {
	a := Bbox{Min: Point2{X: 0, Y: 0}, Max: Point2{X: 2, Y: 2}}
	b := Bbox{Min: Point2{X: 1, Y: -1}, Max: Point2{X: 5, Y: 1}}
	u := a.UnionBbox(b)
	if u.Min != (Point2{X: 0, Y: -1}) || u.Max != (Point2{X: 5, Y: 2}) {
		t.Errorf("UnionBbox = %+v, want Min{0 -1} Max{5 2}", u)
	}
}

func TestBboxContains(t *testing.T) {
	b := Bbox{Min: Point2{X: 0, Y: 0}, Max: Point2{X: 10, Y: 10}}
	if !b.Contains(Point2{X: 0, Y: 0}) {
		t.Error("want the boundary included")
	}
	if !b.Contains(Point2{X: 10, Y: 10}) {
		t.Error("want the far boundary included")
	}
	if b.Contains(Point2{X: 10.1, Y: 5}) {
		t.Error("want a point outside the box excluded")
	}
}

func TestWideSegment25Orientation(t *testing.T) {
	h := WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 5, Y: 0}}
	if !h.IsHorizontal() || h.IsVertical() || !h.IsAxisAligned() {
		t.Error("want a same-Y segment classified horizontal and axis-aligned")
	}
	v := WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 0, Y: 5}}
	if !v.IsVertical() || v.IsHorizontal() || !v.IsAxisAligned() {
		t.Error("want a same-X segment classified vertical and axis-aligned")
	}
	d := WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 5, Y: 5}}
	if d.IsAxisAligned() {
		t.Error("want a 45-degree segment not classified axis-aligned")
	}
}

func TestWideSegment25Length(t *testing.T) {
	s := WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 3, Y: 4}}
	if got := s.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestWideSegment25PerpUnitIsOrthogonalAndUnit(t *testing.T) {
	s := WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 4, Y: 0}, HalfW: 1}
	perp := s.PerpUnit()
	dir := s.P1.XY().Sub(s.P0.XY())
	if math.Abs(perp.Dot(dir)) > 1e-9 {
		t.Error("want PerpUnit orthogonal to the segment direction")
	}
	if math.Abs(perp.Length()-1) > 1e-9 {
		t.Errorf("want PerpUnit a unit vector, got length %v", perp.Length())
	}
	if got := s.Perp().Length(); math.Abs(got-s.HalfW) > 1e-9 {
		t.Errorf("want Perp scaled to HalfW, got length %v", got)
	}
}

func TestShapeBboxCircle(t *testing.T) {
	s := NewCircleShape(Circle{Center: Point2{X: 5, Y: 5}, R: 2})
	b := s.Bbox()
	if b.Min != (Point2{X: 3, Y: 3}) || b.Max != (Point2{X: 7, Y: 7}) {
		t.Errorf("circle Bbox = %+v, want Min{3 3} Max{7 7}", b)
	}
}

func TestShapeBboxRect(t *testing.T) {
	s := NewRectShape(Rect{Center: Point2{X: 0, Y: 0}, W: 4, H: 2})
	b := s.Bbox()
	if b.Min != (Point2{X: -2, Y: -1}) || b.Max != (Point2{X: 2, Y: 1}) {
		t.Errorf("rect Bbox = %+v, want Min{-2 -1} Max{2 1}", b)
	}
}

func TestShapeBboxRectIso(t *testing.T) {
	s := NewRectIsoShape(RectIso{Lo: Point2{X: 1, Y: 1}, Hi: Point2{X: 9, Y: 4}})
	b := s.Bbox()
	if b.Min != (Point2{X: 1, Y: 1}) || b.Max != (Point2{X: 9, Y: 4}) {
		t.Errorf("rect-iso Bbox = %+v, want the corners verbatim", b)
	}
}

func TestShapeBboxWideSegmentIncludesHalfWidth(t *testing.T) {
	s := NewWideSegmentShape(WideSegment25{P0: Point25{X: 0, Y: 0}, P1: Point25{X: 10, Y: 0}, HalfW: 1})
	b := s.Bbox()
	if b.Min != (Point2{X: -1, Y: -1}) || b.Max != (Point2{X: 11, Y: 1}) {
		t.Errorf("wide-segment Bbox = %+v, want the centerline expanded by HalfW", b)
	}
}

func TestShapeBboxPolygon(t *testing.T) {
	s := NewPolygonShape(Polygon{Vertices: []Point2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}})
	b := s.Bbox()
	if b.Min != (Point2{X: 0, Y: 0}) || b.Max != (Point2{X: 4, Y: 3}) {
		t.Errorf("polygon Bbox = %+v, want Min{0 0} Max{4 3}", b)
	}
}

func TestHasOnUnboundedSide(t *testing.T) {
	square := []Point2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	if HasOnUnboundedSide(square, Point2{X: 2, Y: 2}) {
		t.Error("want the square's center reported inside")
	}
	if !HasOnUnboundedSide(square, Point2{X: 10, Y: 10}) {
		t.Error("want a point far outside the square reported outside")
	}
}

func TestPolylineLength(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 0}}
	if got := pl.Length(); got != 9 {
		t.Errorf("Length = %v, want 9", got)
	}
	if got := (Polyline{}).Length(); got != 0 {
		t.Errorf("empty Length = %v, want 0", got)
	}
	if got := (Polyline{{X: 1, Y: 1}}).Length(); got != 0 {
		t.Errorf("single-point Length = %v, want 0", got)
	}
}

func TestPolylineFixDropsZeroLengthAndNaN(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}, {X: math.NaN(), Y: 0}, {X: 2, Y: 2}}
	fixed := pl.Fix()
	want := Polyline{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if len(fixed) != len(want) {
		t.Fatalf("Fix = %v, want %v", fixed, want)
	}
	for i := range want {
		if fixed[i] != want[i] {
			t.Errorf("Fix[%d] = %v, want %v", i, fixed[i], want[i])
		}
	}
}

func TestPolylineSimplifyDropsColinearPoints(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 5}}
	got := pl.Simplify()
	want := Polyline{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 5}}
	if len(got) != len(want) {
		t.Fatalf("Simplify = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Simplify[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPolylineInterpolateAndSplitAt(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}}
	mid := pl.Interpolate(0.5)
	if mid != (Point2{X: 5, Y: 0}) {
		t.Errorf("Interpolate(0.5) = %v, want {5 0}", mid)
	}
	if got := pl.Interpolate(0); got != pl[0] {
		t.Errorf("Interpolate(0) = %v, want start point", got)
	}
	if got := pl.Interpolate(1); got != pl[len(pl)-1] {
		t.Errorf("Interpolate(1) = %v, want end point", got)
	}

	a, b := pl.SplitAt(0.5)
	if a[len(a)-1] != b[0] {
		t.Errorf("SplitAt halves should share the split point, got %v and %v", a[len(a)-1], b[0])
	}
	if a[len(a)-1] != (Point2{X: 5, Y: 0}) {
		t.Errorf("split point = %v, want {5 0}", a[len(a)-1])
	}
}
