package actions

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
)

// SetRouteGuard stamps (enable=true) or clears (enable=false) the
// RouteGuard flag along poly on layer z, widened by halfW — a soft
// keep-out a user draws by hand to steer A* away from an area without
// making it strictly illegal (computeCost multiplies by
// AStarCosts.Violation wherever RouteGuard is set; strictClearance
// treats it as fully blocking).
func SetRouteGuard(g *navgrid.Grid, poly geom.Polyline, z int, halfW float64, enable bool) {
	for i := 0; i+1 < len(poly); i++ {
		seg := geom.WideSegment25{
			P0:    geom.Point25{X: poly[i].X, Y: poly[i].Y, Z: z},
			P1:    geom.Point25{X: poly[i+1].X, Y: poly[i+1].Y, Z: z},
			HalfW: halfW,
		}
		shape := geom.NewWideSegmentShape(seg)
		if enable {
			g.StampFlags(shape, z, z, 0, navgrid.RouteGuard)
		} else {
			g.ClearFlags(shape, z, z, 0, navgrid.RouteGuard)
		}
	}
}
