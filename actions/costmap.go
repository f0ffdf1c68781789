package actions

import "github.com/chrisbmr/pcbroute/navgrid"

// SetCostMapAll overlays cost onto every cell in the grid — the
// "whole-grid" mode of the original's SetCostMap action, used to
// globally bias a search (e.g. discourage a whole layer).
func SetCostMapAll(g *navgrid.Grid, cost float32) {
	g.SetCostAll(cost)
}

// SetCostMapBox overlays cost onto every cell in the inclusive grid
// box [x0,x1]x[y0,y1]x[z0,z1].
func SetCostMapBox(g *navgrid.Grid, x0, y0, z0, x1, y1, z1 int, cost float32) {
	g.SetCostBox(x0, y0, z0, x1, y1, z1, cost)
}

// SetCostMapBlock overlays a rectangular block of per-cell costs read
// from a 3D array addressed [z][y][x], anchored at (x0, y0, z0) — the
// "single-point-block" mode, used by tools that paint a cost brush
// over a small area rather than a uniform value.
func SetCostMapBlock(g *navgrid.Grid, x0, y0, z0 int, block [][][]float32) {
	for dz, plane := range block {
		for dy, row := range plane {
			for dx, cost := range row {
				p := navgrid.GridPos{X: x0 + dx, Y: y0 + dy, Z: z0 + dz}
				g.SetCostPoint(p, cost)
			}
		}
	}
}
