// Package track implements the routing data model: Pins, Components,
// Nets, Connections, and the Tracks (sequences of wide segments and
// vias) that realize them.
package track

// DesignRules is the minimum trace width, via diameter, and clearance
// a net (or a one-off connection) must route with.
type DesignRules struct {
	Clearance   float64
	TraceWidth  float64
	ViaDiameter float64
}

// ViaRadius returns half of ViaDiameter, the NavSpacings.ViaRadius
// input for this rule set.
func (r DesignRules) ViaRadius() float64 {
	return r.ViaDiameter / 2
}

// TraceWidthHalf returns half of TraceWidth, the NavSpacings input for
// this rule set.
func (r DesignRules) TraceWidthHalf() float64 {
	return r.TraceWidth / 2
}
