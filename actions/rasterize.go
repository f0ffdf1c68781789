// Package actions implements the connection-level routing actions:
// pure functions over a navgrid.Grid and a track.Connection with no
// state of their own, composed by the RRR agent and the CLI's route
// command alike.
package actions

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

func rasterizeSegment(g *navgrid.Grid, seg geom.WideSegment25, objClearance float64, delta int16) {
	sp := g.Spacings()
	shape := geom.NewWideSegmentShape(seg)
	g.AdjustKeepout(shape, seg.P0.Z, seg.P0.Z, sp.GetExpansionForTracks(objClearance), navgrid.KeepoutRouteTrack, delta)
	g.AdjustKeepout(shape, seg.P0.Z, seg.P0.Z, sp.GetExpansionForVias(objClearance), navgrid.KeepoutRouteVia, delta)
}

func rasterizeVia(g *navgrid.Grid, v track.Via, objClearance float64, delta int16) {
	sp := g.Spacings()
	shape := geom.NewCircleShape(geom.Circle{Center: v.Center, R: v.R})
	g.AdjustKeepout(shape, v.ZMin, v.ZMax, sp.GetExpansionForTracks(objClearance), navgrid.KeepoutRouteTrack, delta)
	g.AdjustKeepout(shape, v.ZMin, v.ZMax, sp.GetExpansionForVias(objClearance), navgrid.KeepoutRouteVia, delta)
}

// RasterizeTrack stamps t's keep-out onto the grid (both the track and
// via counters, since a track body also keeps vias at clearance and
// vice versa) and marks t rasterized. Returns track.ErrAlreadyRasterized
// if t was already rasterized.
func RasterizeTrack(g *navgrid.Grid, t *track.Track, objClearance float64) error {
	if err := t.AddRasterizedCount(); err != nil {
		return err
	}
	for _, seg := range t.Segments() {
		rasterizeSegment(g, seg, objClearance, 1)
	}
	for _, v := range t.Vias() {
		rasterizeVia(g, v, objClearance, 1)
	}
	return nil
}

// UnrasterizeTrack is RasterizeTrack's inverse. Returns
// track.ErrNotRasterized if t wasn't rasterized.
func UnrasterizeTrack(g *navgrid.Grid, t *track.Track, objClearance float64) error {
	if err := t.RemoveRasterizedCount(); err != nil {
		return err
	}
	for _, seg := range t.Segments() {
		rasterizeSegment(g, seg, objClearance, -1)
	}
	for _, v := range t.Vias() {
		rasterizeVia(g, v, objClearance, -1)
	}
	return nil
}
