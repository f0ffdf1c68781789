package track

import "github.com/chrisbmr/pcbroute/geom"

// Component is a named set of pins placed on the board with a
// footprint shape on a single layer.
type Component struct {
	ID       string
	Name     string
	Pins     []*Pin
	Footprint geom.Shape
	Layer    int
	Angle    float64 // degrees, applied to Footprint at load time

	CanRouteInside    bool
	CanPlaceViasInside bool
}

// PinByName returns the named pin, or nil if not found.
func (c *Component) PinByName(name string) *Pin {
	for _, p := range c.Pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}
