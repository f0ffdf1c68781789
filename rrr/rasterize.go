package rrr

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// rasterizeHistory is the RRR agent's own rasterization pass
// (RRRAgent::rasterize in the original): it stamps/clears t's
// footprint using NavPoint.User bookkeeping rather than the strict
// RouteTrack/RouteVia keep-out counters every other caller respects,
// so overlapping connections during rip-up-and-reroute don't get
// treated as illegal — only costed. Returns how many cells ended this
// call with more than one connection's history stamped on them.
func (a *Agent) rasterizeHistory(g *navgrid.Grid, t *track.Track, clearance float64, delta int16, updateHistory bool) int {
	sp := g.Spacings()
	overlaps := 0
	for _, seg := range t.Segments() {
		shape := geom.NewWideSegmentShape(seg)
		overlaps += g.AdjustUserKeepout(shape, seg.P0.Z, seg.P0.Z, sp.GetExpansionForTracks(clearance), delta, updateHistory, a.HistoryCostIncrement, a.HistoryCostMaxIncrements)
	}
	for _, v := range t.Vias() {
		shape := geom.NewCircleShape(geom.Circle{Center: v.Center, R: v.R})
		overlaps += g.AdjustUserKeepout(shape, v.ZMin, v.ZMax, sp.GetExpansionForVias(clearance), delta, updateHistory, a.HistoryCostIncrement, a.HistoryCostMaxIncrements)
	}
	return overlaps
}
