package astar

import (
	"context"
	"math"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/internal/pq"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// startSentinel marks a NavPoint.BackDir as belonging to a search-start
// cell rather than a real predecessor edge. GridDirection(-1) never
// matches a real direction (IsVertical/Is2D both fall through to their
// default/false arms for it), so it is safe to store in the same
// field reconstruction otherwise reads as a genuine back-edge.
const startSentinel navgrid.GridDirection = -1

// Pathfinder runs a reverse (target-to-source) A* search over a
// navgrid.Grid and reconstructs the winning path as a track.Track.
type Pathfinder struct {
	Grid  *navgrid.Grid
	costs navgrid.AStarCosts

	// layerMask selects which of the grid's layers this search may use
	// at full cost; a layer outside the mask is still traversable but
	// pays AStarCosts.MaskedLayer.
	layerMask uint32

	viaCost                float32
	wrongDirectionCostDiag float32
	strictClearance        bool
}

// New builds a Pathfinder for one search. defaultViaDiameter is the
// diameter used to precompute the per-layer-change via cost
// (AStarCosts.Via * defaultViaDiameter, matching the original's
// "via cost scales with how big a via actually has to be here").
func New(grid *navgrid.Grid, costs navgrid.AStarCosts, layerMask uint32, defaultViaDiameter float64) *Pathfinder {
	p := &Pathfinder{
		Grid:      grid,
		costs:     costs,
		layerMask: layerMask,
	}
	p.viaCost = costs.Via * float32(defaultViaDiameter)
	p.wrongDirectionCostDiag = float32(math.Sqrt2) + (costs.WrongDirection - 1)
	p.strictClearance = math.IsInf(float64(costs.Violation), 1)
	return p
}

// Endpoint describes one end of a connection to route: either a real
// Pin (whose full footprint is marked so the search may enter and
// leave anywhere on it) or a bare point with no pin.
type Endpoint struct {
	Pin *track.Pin
	Pos geom.Point25
}

func (e Endpoint) shape() (geom.Shape, int, int) {
	if e.Pin != nil {
		return e.Pin.Shape, e.Pin.LayerMin, e.Pin.LayerMax
	}
	return geom.NewCircleShape(geom.Circle{Center: e.Pos.XY(), R: 0}), e.Pos.Z, e.Pos.Z
}

// getApproxBlockageSearchArea returns the bounded trap-check pass's
// expansion budget: 8 cells of search per cell of the endpoints'
// combined bounding box, clamped to [384, 1024] so tiny connections
// still get a meaningful check and huge ones don't pay for an
// exhaustive local flood before falling back to the unbounded pass.
func getApproxBlockageSearchArea(bboxCells int) int {
	v := bboxCells * 8
	if v < 384 {
		return 384
	}
	if v > 1024 {
		return 1024
	}
	return v
}

// FindPath searches for a minimum-cost path between source and target
// and returns it as a routed track.Track. The grid state is always
// restored to its pre-call condition on return, success or failure
// (endpoint flag marks are undone).
func (p *Pathfinder) FindPath(ctx context.Context, source, target Endpoint, rules track.DesignRules) (*track.Track, error) {
	srcShape, srcZ0, srcZ1 := source.shape()
	dstShape, dstZ0, dstZ1 := target.shape()

	srcTouched := p.Grid.MarkEndpoint(srcShape, srcZ0, srcZ1, navgrid.Source)
	dstTouched := p.Grid.MarkEndpoint(dstShape, dstZ0, dstZ1, navgrid.Target)
	defer func() {
		p.Grid.RestoreEndpoint(srcTouched)
		p.Grid.RestoreEndpoint(dstTouched)
	}()

	starts := make([]navgrid.GridPos, 0, len(dstTouched))
	for _, idx := range dstTouched {
		starts = append(starts, p.Grid.PosAtIndex(idx))
	}
	isGoal := make(map[navgrid.GridPos]bool, len(srcTouched))
	for _, idx := range srcTouched {
		isGoal[p.Grid.PosAtIndex(idx)] = true
	}
	if len(starts) == 0 || len(isGoal) == 0 {
		return nil, ErrUnroutable
	}

	goalRep := p.Grid.GridPosAtXY(source.Pos.XY(), source.Pos.Z)

	bbox := srcShape.Bbox()
	bbox = bbox.UnionBbox(dstShape.Bbox())
	cellsW := int(math.Ceil(bbox.Width()/p.Grid.Edge)) + 1
	cellsH := int(math.Ceil(bbox.Height()/p.Grid.Edge)) + 1
	budget := getApproxBlockageSearchArea(cellsW * cellsH)

	goal, err := p.search(ctx, starts, goalRep, isGoal, budget)
	if err == ErrTrapped {
		goal, err = p.search(ctx, starts, goalRep, isGoal, 0)
	}
	if err != nil {
		return nil, err
	}

	path := p.reconstruct(goal)
	trk := p.buildTrack(path, rules)

	trk.SnapToEndpoint(source.Pos, target.Pos, p.Grid.Edge/1024)
	if err := trk.AutocreateVias(); err != nil {
		// Already has vias at every layer change from reconstruction;
		// a non-nil error here means the path is internally
		// inconsistent, which reconstruct should never produce.
		return nil, err
	}
	return trk, nil
}

// search runs one reverse A* pass from starts (cells on the target's
// footprint) toward any cell isGoal reports true for (cells on the
// source's footprint), using goalRep as the heuristic's target
// estimate. If maxExpansions is positive, the search gives up and
// returns ErrTrapped once that many cells have been closed without
// reaching a goal.
func (p *Pathfinder) search(ctx context.Context, starts []navgrid.GridPos, goalRep navgrid.GridPos, isGoal map[navgrid.GridPos]bool, maxExpansions int) (navgrid.GridPos, error) {
	seq := p.Grid.NextSearchSeq()
	open := pq.Queue[navgrid.GridPos]{}

	for _, s := range starts {
		np := p.Grid.PointAt(s)
		if np == nil || np.Flags.Blocking() {
			continue
		}
		h := p.heuristic(s, goalRep, false)
		np.Open(seq, h, startSentinel)
		open.Push(s, h)
	}

	expansions := 0
	for {
		select {
		case <-ctx.Done():
			return navgrid.GridPos{}, ctx.Err()
		default:
		}

		cur, score, ok := open.Pop()
		if !ok {
			return navgrid.GridPos{}, ErrUnroutable
		}
		curPoint := p.Grid.PointAt(cur)
		if curPoint.IsClosed(seq) || score > curPoint.Score {
			continue // stale lazy-deleted entry
		}
		curPoint.Close(seq)

		if isGoal[cur] {
			return cur, nil
		}

		expansions++
		if maxExpansions > 0 && expansions > maxExpansions {
			return navgrid.GridPos{}, ErrTrapped
		}

		var gCur float32
		if curPoint.BackDir == startSentinel {
			gCur = 0
		} else {
			gCur = curPoint.Score - p.heuristic(cur, goalRep, curPoint.BackDir.IsVertical())
		}

		for _, d := range navgrid.AllDirections {
			if !curPoint.HasEdge(d) {
				continue
			}
			if d.IsDiagonal() && !p.cornersClear(cur, d) {
				continue
			}
			next := d.Move(cur)
			nextPoint := p.Grid.PointAt(next)
			if nextPoint == nil || nextPoint.IsClosed(seq) {
				continue
			}
			if d.IsVertical() {
				if !nextPoint.FreeForVia() || !curPoint.FreeForVia() {
					continue
				}
			} else {
				if nextPoint.Flags.Blocking() {
					continue
				}
				if p.strictClearance && nextPoint.Flags&(navgrid.RouteTrackClearance|navgrid.RouteGuard) != 0 {
					continue
				}
			}

			cost := p.computeCost(cur, next, d, curPoint.BackDir)
			newG := gCur + cost
			newH := p.heuristic(next, goalRep, d.IsVertical())
			newScore := newG + newH

			if nextPoint.IsOpen(seq) && nextPoint.Score <= newScore {
				continue
			}
			nextPoint.Open(seq, newScore, d)
			open.Push(next, newScore)
		}
	}
}

// cornersClear reports whether both orthogonal neighbors adjoining
// diagonal step d from cur are open, i.e. the diagonal move does not
// cut a blocked corner (ASTAR_ALLOW_XOVER=false in the original).
func (p *Pathfinder) cornersClear(cur navgrid.GridPos, d navgrid.GridDirection) bool {
	a := d.RotatedCw45()
	b := d.RotatedCcw45()
	for _, side := range [2]navgrid.GridDirection{a, b} {
		sp := side.Move(cur)
		np := p.Grid.PointAt(sp)
		if np == nil || np.Flags.Blocking() {
			return false
		}
	}
	return true
}

// reconstruct walks BackDir.Opposite() from the goal cell found by
// search (on the source footprint) back to its start sentinel (a cell
// on the target footprint), producing a path ordered source-to-target.
func (p *Pathfinder) reconstruct(goal navgrid.GridPos) []navgrid.GridPos {
	var path []navgrid.GridPos
	cur := goal
	for {
		path = append(path, cur)
		np := p.Grid.PointAt(cur)
		if np.BackDir == startSentinel {
			break
		}
		cur = np.BackDir.Opposite().Move(cur)
	}
	return path
}

func signOf(x float64) int {
	const eps = 1e-9
	switch {
	case x > eps:
		return 1
	case x < -eps:
		return -1
	default:
		return 0
	}
}

// buildTrack converts a source-to-target grid path into a track.Track:
// runs of cells sharing a layer and a planar direction collapse into a
// single wide segment, and every layer change becomes a via. Cells
// flagged RouteTrackClearance along the way are recorded as
// violations (meaningful only when the search ran with a finite
// Violation cost rather than strictClearance).
func (p *Pathfinder) buildTrack(path []navgrid.GridPos, rules track.DesignRules) *track.Track {
	pts := make([]geom.Point25, len(path))
	var violations []geom.Point25
	for i, gp := range path {
		c := p.Grid.CellCenter(gp.X, gp.Y)
		pts[i] = geom.Point25{X: c.X, Y: c.Y, Z: gp.Z}
		if np := p.Grid.PointAt(gp); np != nil && np.Flags&navgrid.RouteTrackClearance != 0 {
			violations = append(violations, pts[i])
		}
	}

	trk := track.NewTrack(rules.TraceWidth, rules.ViaDiameter)
	trk.Start = pts[0]
	trk.End = pts[len(pts)-1]
	trk.Violations = violations

	i := 0
	for i < len(pts)-1 {
		if pts[i].Z != pts[i+1].Z {
			zmin, zmax := pts[i].Z, pts[i+1].Z
			if zmin > zmax {
				zmin, zmax = zmax, zmin
			}
			trk.AppendVia(track.Via{
				Center: pts[i].XY(),
				ZMin:   zmin,
				ZMax:   zmax,
				R:      rules.ViaRadius(),
			})
			i++
			continue
		}

		dx := signOf(pts[i+1].X - pts[i].X)
		dy := signOf(pts[i+1].Y - pts[i].Y)
		j := i + 1
		for j+1 < len(pts) && pts[j+1].Z == pts[i].Z &&
			signOf(pts[j+1].X-pts[j].X) == dx && signOf(pts[j+1].Y-pts[j].Y) == dy {
			j++
		}
		trk.AppendSegment(geom.WideSegment25{
			P0:    pts[i],
			P1:    pts[j],
			HalfW: rules.TraceWidthHalf(),
		})
		i = j
	}

	return trk
}
