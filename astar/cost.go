package astar

import "github.com/chrisbmr/pcbroute/navgrid"

// computeCost returns g(u, v, d): the cost of stepping from cell u to
// its neighbor v via direction d, given the direction the search
// arrived at u from (backDir), used for the turn penalty.
func (p *Pathfinder) computeCost(u, v navgrid.GridPos, d navgrid.GridDirection, backDir navgrid.GridDirection) float32 {
	vPoint := p.Grid.Point(v.X, v.Y, v.Z)

	cost := vPoint.Cost

	if d.IsVertical() {
		cost *= p.viaCost
		if backDir.IsVertical() {
			// Stacked vias are cheaper than a fresh one, but never
			// free — that would let the search thrash layers for
			// free.
			cost *= 0.5
		}
	} else {
		if !p.prefersDirection(v.Z, d) {
			if d.IsDiagonal() {
				cost *= p.wrongDirectionCostDiag
			} else {
				cost *= p.costs.WrongDirection
			}
		}
		if p.layerMask&(1<<uint(v.Z)) == 0 {
			cost *= p.costs.MaskedLayer
		}
		if vPoint.Flags&navgrid.RouteTrackClearance != 0 {
			cost *= p.costs.Violation
		}
		if vPoint.Flags&navgrid.RouteGuard != 0 {
			cost *= p.costs.Violation
		}
	}

	steps := d.Opposite().Get45DegreeStepsBetween(backDir)
	cost += p.costs.TurnPer45Degrees * float32(steps*steps)

	if vPoint.Flags&navgrid.Source != 0 {
		cost *= 0.125
	}

	return cost
}

// prefersDirection reports whether d is in layer z's preferred
// direction set, decoded from AStarCosts.PreferredDirections[z]:
// 'x' prefers the two horizontal directions, 'y' the two vertical
// (planar) directions, '0' has no preference (everything counts as
// preferred).
func (p *Pathfinder) prefersDirection(z int, d navgrid.GridDirection) bool {
	if z < 0 || z >= len(p.costs.PreferredDirections) {
		return true
	}
	switch p.costs.PreferredDirections[z] {
	case 'x':
		return d == navgrid.DirL || d == navgrid.DirR
	case 'y':
		return d == navgrid.DirU || d == navgrid.DirD
	default:
		return true
	}
}
