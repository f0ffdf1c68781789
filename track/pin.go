package track

import "github.com/chrisbmr/pcbroute/geom"

// Pin is a metal region on one or more layers to which a net
// attaches.
type Pin struct {
	ID        string
	Name      string
	Shape     geom.Shape
	LayerMin  int
	LayerMax  int
	Clearance float64

	// NetID is empty until the pin is assigned to a Net.
	NetID string

	// CompoundGroup, when non-empty, names the set of pins that share
	// one electrical node (several physical pads acting as one
	// terminal); all pins in a group must carry the same value.
	CompoundGroup string
}

// SpansLayer reports whether z is within the pin's layer range.
func (p *Pin) SpansLayer(z int) bool {
	return z >= p.LayerMin && z <= p.LayerMax
}

// SpansLayerUnder reports whether z is both within the pin's layer
// range and set in mask — the combined check SetLayerMask uses to
// decide whether an endpoint currently on z needs relocating.
func (p *Pin) SpansLayerUnder(mask uint32, z int) bool {
	return p.SpansLayer(z) && mask&(1<<uint(z)) != 0
}

// FirstLegalLayer returns the lowest layer in [LayerMin, LayerMax]
// that is set in mask, and true if one exists. Used by SetLayerMask
// to relocate an endpoint whose current layer was just masked out.
func (p *Pin) FirstLegalLayer(mask uint32) (int, bool) {
	for z := p.LayerMin; z <= p.LayerMax; z++ {
		if mask&(1<<uint(z)) != 0 {
			return z, true
		}
	}
	return 0, false
}

// Center returns the pin's 2D placement center, independent of shape.
func (p *Pin) Center() geom.Point2 {
	switch p.Shape.Kind {
	case geom.ShapeCircle:
		return p.Shape.Circle.Center
	case geom.ShapeRect:
		return p.Shape.Rect.Center
	case geom.ShapeRectIso:
		b := p.Shape.Bbox()
		return geom.Point2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
	case geom.ShapeWideSegment:
		return p.Shape.WideSegment.P0.XY()
	default:
		b := p.Shape.Bbox()
		return geom.Point2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
	}
}
