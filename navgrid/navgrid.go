// Package navgrid implements the layered 3D navigation grid: a dense
// array of NavPoint cells with flags, keep-out counters, and the
// epoch bookkeeping the rasterizer and A* pathfinder rely on instead
// of O(N) per-operation resets.
package navgrid

import (
	"math"

	"github.com/chrisbmr/pcbroute/geom"
)

// NavSpacings describes the spacing requirements the grid is
// currently prepared to route: the clearance, track half-width, and
// via radius of the connection being routed. Changing these leaves
// every clearance area rasterized at the old spacings: Grid.SetSpacings
// does not re-rasterize them (see SetSpacingsDirty).
type NavSpacings struct {
	Clearance      float64
	TrackWidthHalf float64
	ViaRadius      float64
}

// GetExpansionForTracks returns how much to dilate an obstacle of the
// given clearance requirement when rasterizing it for the track pass.
func (s NavSpacings) GetExpansionForTracks(objClearance float64) float64 {
	return math.Max(s.Clearance, objClearance) + s.TrackWidthHalf
}

// GetExpansionForVias returns how much to dilate an obstacle of the
// given clearance requirement when rasterizing it for the via pass.
func (s NavSpacings) GetExpansionForVias(objClearance float64) float64 {
	return math.Max(s.Clearance, objClearance) + s.ViaRadius
}

// AStarCosts holds the tunable A* cost parameters for one search.
type AStarCosts struct {
	MaskedLayer      float32
	Via              float32
	Violation        float32
	TurnPer45Degrees float32
	WrongDirection   float32

	// PreferredDirections holds one string per layer, each character
	// 'x' (prefer horizontal), 'y' (prefer vertical), or '0' (no
	// preference), matching the original per-layer routing-direction
	// convention.
	PreferredDirections []byte
}

// SetViolationCostInf sets Violation to +Inf, i.e. a strict search
// that treats any clearance violation as illegal rather than costly.
func (c *AStarCosts) SetViolationCostInf() {
	c.Violation = float32(math.Inf(1))
}

// Valid reports whether the cost parameters are usable (all
// non-negative, as required by the A* non-negative-edge assumption).
func (c AStarCosts) Valid() bool {
	return c.MaskedLayer >= 0 && c.Via >= 0 && c.Violation >= 0 && c.WrongDirection >= 0
}

// Grid is the dense 3D navigation grid (UniformGrid25/NavGrid of the
// original design collapsed into one Go type: there is no need for an
// un-navigation-aware base class in Go, but the split of concerns —
// plain dense storage vs. routing-specific state — is kept internal
// via the fields below).
type Grid struct {
	W, H, D int
	// Edge is the cell edge length in board units.
	Edge float64
	// Origin is the board-unit position of cell (0,0,0)'s low corner.
	Origin geom.Point2

	points []NavPoint

	spacings   NavSpacings
	costs      AStarCosts
	dirStride  [vend]int
	searchSeq  uint16
	rasterSeq  uint16
}

// New creates a Grid of w*h*d cells with the given edge length and
// board-space origin.
func New(w, h, d int, edge float64, origin geom.Point2) *Grid {
	g := &Grid{
		W: w, H: h, D: d,
		Edge:   edge,
		Origin: origin,
		points: make([]NavPoint, w*h*d),
	}
	g.initDirectionStrides()
	g.initEdges()
	for i := range g.points {
		g.points[i].Cost = 1
	}
	return g
}

// LinearIndex returns the flat index of cell (x, y, z).
func (g *Grid) LinearIndex(x, y, z int) int {
	return z*g.W*g.H + y*g.W + x
}

// PosAtIndex is LinearIndex's inverse: it returns the GridPos whose
// flat index is idx.
func (g *Grid) PosAtIndex(idx int) GridPos {
	plane := g.W * g.H
	z := idx / plane
	rem := idx % plane
	y := rem / g.W
	x := rem % g.W
	return GridPos{X: x, Y: y, Z: z}
}

// Inside reports whether (x, y, z) is within the grid bounds.
func (g *Grid) Inside(x, y, z int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H && z >= 0 && z < g.D
}

// Point returns the cell at (x, y, z). Panics if out of bounds, same
// as the original's bounds-checked vector access.
func (g *Grid) Point(x, y, z int) *NavPoint {
	return &g.points[g.LinearIndex(x, y, z)]
}

// PointAt returns the cell at p, or nil if p is outside the grid.
func (g *Grid) PointAt(p GridPos) *NavPoint {
	if !g.Inside(p.X, p.Y, p.Z) {
		return nil
	}
	return g.Point(p.X, p.Y, p.Z)
}

// CellCenter returns the board-space center of cell (x, y, z):
// (xmin + (i+1/2)*edge, ymin + (j+1/2)*edge), ignoring z (layers carry
// no board-space offset).
func (g *Grid) CellCenter(x, y int) geom.Point2 {
	return geom.Point2{
		X: g.Origin.X + (float64(x)+0.5)*g.Edge,
		Y: g.Origin.Y + (float64(y)+0.5)*g.Edge,
	}
}

// XIndex returns the cell-index along X containing board-space x,
// offset by the given tolerance (used when snapping a slightly
// off-grid coordinate).
func (g *Grid) XIndex(x, tol float64) int {
	return int(math.Floor((x - g.Origin.X + tol) / g.Edge))
}

// YIndex returns the cell-index along Y containing board-space y.
func (g *Grid) YIndex(y, tol float64) int {
	return int(math.Floor((y - g.Origin.Y + tol) / g.Edge))
}

// PointAtXY returns the cell containing 2D point p on layer z, or nil
// if outside the grid.
func (g *Grid) PointAtXY(p geom.Point2, z int) *NavPoint {
	x := g.XIndex(p.X, 0)
	y := g.YIndex(p.Y, 0)
	if !g.Inside(x, y, z) {
		return nil
	}
	return g.Point(x, y, z)
}

// GridPosAtXY returns the GridPos containing 2D point p on layer z.
func (g *Grid) GridPosAtXY(p geom.Point2, z int) GridPos {
	return GridPos{X: g.XIndex(p.X, 0), Y: g.YIndex(p.Y, 0), Z: z}
}

// Spacings returns the grid's current NavSpacings.
func (g *Grid) Spacings() NavSpacings { return g.spacings }

// Costs returns a pointer to the grid's current AStarCosts, so callers
// may tune them in place before a search.
func (g *Grid) Costs() *AStarCosts { return &g.costs }

// SetSpacingsDirty reports whether newSpacings differs from the
// grid's current spacings (i.e. whether a spacings change requires
// re-rasterizing clearance areas). It does not itself change the
// grid's spacings; callers update g.spacings and re-rasterize
// separately (board.Board orchestrates this since only it knows every
// pin/track that needs re-rasterizing).
func (g *Grid) SetSpacingsDirty(newSpacings NavSpacings) bool {
	return newSpacings != g.spacings
}

// SetSpacings updates the grid's current spacings without
// re-rasterizing; callers must re-rasterize clearance areas
// themselves when SetSpacingsDirty reported true.
func (g *Grid) SetSpacings(s NavSpacings) {
	g.spacings = s
}

// initDirectionStrides precomputes the flat-index stride for each of
// the 10 directions, so neighbor lookups need no per-cell edge
// pointers (NavPoint.edgeMask only records whether the neighbor
// exists, not where it is).
func (g *Grid) initDirectionStrides() {
	for _, d := range AllDirections {
		dx, dy, dz := d.Offset()
		g.dirStride[d] = dz*g.W*g.H + dy*g.W + dx
	}
}

// DirectionStride returns the flat-index delta for stepping one cell
// in direction d.
func (g *Grid) DirectionStride(d GridDirection) int {
	return g.dirStride[d]
}

// initEdges precomputes each cell's static edge-availability mask:
// whether the neighbor in each direction exists within grid bounds.
func (g *Grid) initEdges() {
	for z := 0; z < g.D; z++ {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				p := g.Point(x, y, z)
				for _, d := range AllDirections {
					dx, dy, dz := d.Offset()
					p.setEdge(d, g.Inside(x+dx, y+dy, z+dz))
				}
			}
		}
	}
}

// NextSearchSeq returns a fresh 16-bit search epoch, resetting every
// cell's visit state once every 0x7fff searches (0x8000 is reserved to
// flag "on open list").
func (g *Grid) NextSearchSeq() uint16 {
	if g.searchSeq == 0x7fff {
		g.resetSearchSeq()
	}
	g.searchSeq++
	return g.searchSeq
}

func (g *Grid) resetSearchSeq() {
	for i := range g.points {
		g.points[i].openEpoch = 0
		g.points[i].closedEpoch = 0
	}
	g.searchSeq = 0
}

// NextRasterSeq returns a fresh 16-bit rasterization epoch, resetting
// every cell's write-epoch once every 0xffff rasterizations.
func (g *Grid) NextRasterSeq() uint16 {
	if g.rasterSeq == 0xffff {
		g.resetRasterSeq()
	}
	g.rasterSeq++
	return g.rasterSeq
}

func (g *Grid) resetRasterSeq() {
	for i := range g.points {
		g.points[i].writeEpoch = 0
	}
	g.rasterSeq = 0
}

// SearchSeq returns the current search epoch without advancing it.
func (g *Grid) SearchSeq() uint16 { return g.searchSeq }

// WrittenThisEpoch reports whether cell p was already written during
// rasterization epoch seq, and marks it written for that epoch if
// not. This is the single-write-per-epoch guard every WriteOp in
// package rasterize must consult before mutating a cell, so a shape
// whose rasterized ranges overlap (e.g. a track body and its own end
// cap) does not double-count.
func (g *Grid) WrittenThisEpoch(idx int, seq uint16) bool {
	p := &g.points[idx]
	if p.writeEpoch == seq {
		return true
	}
	p.writeEpoch = seq
	return false
}
