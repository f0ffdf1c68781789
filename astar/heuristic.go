package astar

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
)

// heuristic returns h(n, target): the 45°-metric 2D distance plus a
// via-cost term for the layer difference. If n did not arrive via a
// vertical step, dz is penalized by one extra unit since a mandatory
// via turn is still ahead.
func (p *Pathfinder) heuristic(n navgrid.GridPos, target navgrid.GridPos, arrivedVertically bool) float32 {
	from := p.Grid.CellCenter(n.X, n.Y)
	to := p.Grid.CellCenter(target.X, target.Y)
	planar := float32(geom.Dist45(from, to))

	dz := n.Z - target.Z
	if dz < 0 {
		dz = -dz
	}
	dzf := float32(dz)
	if dzf > 0 && !arrivedVertically {
		dzf++
	}

	return planar + p.viaCost*0.5*dzf
}
