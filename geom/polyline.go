package geom

import "math"

// Polyline is a list of points {p1, p2, ..., pn} representing the
// series of segments {p1,p2}, {p2,p3}, ..., {pn-1,pn}. Used by
// SetRouteGuard (a polyline of grid-guard cells) and as the rats-nest
// hint between a connection's currently-disconnected terminals.
type Polyline []Point2

// Length returns the total length of the polyline, using pairwise
// summation to reduce round-off error.
func (pl Polyline) Length() float64 {
	if len(pl) <= 1 {
		return 0
	}
	lengths := make([]float64, len(pl)-1)
	for i := 0; i < len(pl)-1; i++ {
		lengths[i] = pl[i+1].Sub(pl[i]).Length()
	}
	return pairwiseSum(lengths)
}

func pairwiseSum(vals []float64) float64 {
	if len(vals) <= 8 {
		var s float64
		for _, v := range vals {
			s += v
		}
		return s
	}
	mid := len(vals) / 2
	return pairwiseSum(vals[:mid]) + pairwiseSum(vals[mid:])
}

// Fix returns a copy of pl with zero-length segments and NaN points
// removed.
func (pl Polyline) Fix() Polyline {
	if len(pl) == 0 {
		return pl
	}
	out := make(Polyline, 0, len(pl))
	prev := pl[0]
	for i, p := range pl {
		if i == 0 || p != prev {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				continue
			}
			out = append(out, p)
			prev = p
		}
	}
	return out
}

// colinearThreshold is not 1 to account for finite float precision.
const colinearThreshold = 0.99

// Simplify removes intermediate points that are colinear with their
// neighbors, within colinearThreshold.
func (pl Polyline) Simplify() Polyline {
	if len(pl) <= 2 {
		return pl
	}
	out := make(Polyline, 0, len(pl))
	out = append(out, pl[0])
	for i := 1; i < len(pl)-1; i++ {
		prevDir := normalized(pl[i].Sub(pl[i-1]))
		nextDir := normalized(pl[i+1].Sub(pl[i]))
		if prevDir.Dot(nextDir) < colinearThreshold {
			out = append(out, pl[i])
		}
	}
	return append(out, pl[len(pl)-1])
}

func normalized(v Point2) Point2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// Interpolate returns the point t*Length() along the polyline. t is
// clamped to [0,1]. Returns the zero point for an empty polyline.
func (pl Polyline) Interpolate(t float64) Point2 {
	i, j, t := pl.paramAt(t)
	if i < 0 {
		return Point2{}
	}
	if i == j {
		return pl[i]
	}
	return lerp(pl[i], pl[j], t)
}

// SplitAt splits pl into two polylines at t*Length() along it. The
// two results share the split point: split1[len(split1)-1] ==
// split2[0].
func (pl Polyline) SplitAt(t float64) (Polyline, Polyline) {
	i, j, t := pl.paramAt(t)
	if i < 0 {
		return nil, nil
	}
	line1 := append(Polyline{}, pl[:i+1]...)
	line2 := Polyline{}
	if i != j {
		split := lerp(pl[i], pl[j], t)
		line1 = append(line1, split)
		line2 = append(line2, split)
	}
	line2 = append(line2, pl[j:]...)
	return line1, line2
}

func lerp(a, b Point2, t float64) Point2 {
	return a.Add(b.Sub(a).Mul(t))
}

func (pl Polyline) paramAt(t float64) (int, int, float64) {
	if len(pl) == 0 {
		return -1, -1, t
	}
	if len(pl) == 1 || t <= 0 {
		return 0, 0, 0
	}
	if t >= 1 {
		idx := len(pl) - 1
		return idx, idx, 1
	}
	if len(pl) == 2 {
		return 0, 1, t
	}

	target := pl.Length() * t
	var cur float64
	for i := 0; i < len(pl)-1; i++ {
		segLen := pl[i+1].Sub(pl[i]).Length()
		if segLen == 0 {
			continue
		}
		next := cur + segLen
		if next == target {
			return i + 1, i + 1, 0
		}
		if next >= target {
			return i, i + 1, (target - cur) / segLen
		}
		cur = next
	}
	return -1, -1, 0
}
