package board

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chrisbmr/pcbroute/actions"
	"github.com/chrisbmr/pcbroute/astar"
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/internal"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/rrr"
	"github.com/chrisbmr/pcbroute/track"
)

// endpointLogFields renders a connection's endpoints for a log line,
// trimmed to 3 decimal places the way the teacher's SVG renderer
// trims coordinate attributes (internal.FormatFloat32) — here for
// human-readable log output instead of SVG attribute text.
func endpointLogFields(conn *track.Connection) logrus.Fields {
	return logrus.Fields{
		"source": fmt.Sprintf("(%s,%s,%d)",
			internal.FormatFloat32(float32(conn.Source.Pos.X), 3),
			internal.FormatFloat32(float32(conn.Source.Pos.Y), 3),
			conn.Source.Pos.Z),
		"target": fmt.Sprintf("(%s,%s,%d)",
			internal.FormatFloat32(float32(conn.Target.Pos.X), 3),
			internal.FormatFloat32(float32(conn.Target.Pos.Y), 3),
			conn.Target.Pos.Z),
	}
}

// connOrErr looks up a connection by ID, wrapped as an InputError if
// missing — every routing entry point below starts this way.
func (b *Board) connOrErr(id string) (*track.Connection, error) {
	conn := b.connections[id]
	if conn == nil {
		return nil, &InputError{Reason: fmt.Sprintf("no such connection %q", id)}
	}
	return conn, nil
}

// applySpacings prepares the grid for conn's own clearance/width/via
// rules (spec.md §4.2: "before routing a Connection, setSpacings is
// invoked"). Re-rasterizing every other clearance area at the new
// spacings is out of scope for a single-connection route call in this
// simplified model — each connection on this board is expected to
// share one design-rule set (or callers accept the lower-fidelity
// clearance this implies).
func (b *Board) applySpacings(conn *track.Connection) {
	want := navgrid.NavSpacings{
		Clearance:      conn.Rules.Clearance,
		TrackWidthHalf: conn.Rules.TraceWidthHalf(),
		ViaRadius:      conn.Rules.ViaRadius(),
	}
	b.Grid.SetSpacings(want)
}

func (b *Board) pathfinder(conn *track.Connection, overrides *navgrid.AStarCosts) *astar.Pathfinder {
	costs := b.Config.AStarCosts
	if overrides != nil {
		costs = *overrides
	}
	return astar.New(b.Grid, costs, conn.LayerMask, conn.Rules.ViaDiameter)
}

// RouteConnection routes connID from scratch: unroute it if already
// routed, then search source to target with A*, rasterizing the
// result on success (spec.md §4.4, AStarConnect).
func (b *Board) RouteConnection(ctx context.Context, connID string, overrides *navgrid.AStarCosts) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connOrErr(connID)
	if err != nil {
		return false, err
	}
	if conn.Locked {
		return false, &RuleError{Reason: "connection is locked"}
	}
	b.applySpacings(conn)

	pf := b.pathfinder(conn, overrides)
	ok, err := actions.AStarConnect(ctx, b.Grid, conn, pf)
	if err != nil {
		if ctx.Err() != nil {
			return false, ErrTimeout
		}
		return false, fmt.Errorf("board: route %s: %w", connID, err)
	}
	fields := endpointLogFields(conn)
	fields["connection"] = connID
	fields["success"] = ok
	b.Logger.WithFields(fields).Info("board: route_connection")
	return ok, nil
}

// UnrouteConnection drops connID's tracks and unrasterizes them.
func (b *Board) UnrouteConnection(connID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connOrErr(connID)
	if err != nil {
		return err
	}
	if conn.Locked {
		return &RuleError{Reason: "connection is locked"}
	}
	if err := actions.Unroute(b.Grid, conn); err != nil {
		return fmt.Errorf("board: unroute %s: %w", connID, err)
	}
	return nil
}

// RouteTo searches from connID's current end to an arbitrary point
// p1, appending a track on success (spec.md §4.4, AStarToPoint).
func (b *Board) RouteTo(ctx context.Context, connID string, p1 geom.Point25, overrides *navgrid.AStarCosts) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connOrErr(connID)
	if err != nil {
		return false, err
	}
	if conn.Locked {
		return false, &RuleError{Reason: "connection is locked"}
	}
	b.applySpacings(conn)

	pf := b.pathfinder(conn, overrides)
	ok, err := actions.AStarToPoint(ctx, b.Grid, conn, p1, pf)
	if err != nil {
		if ctx.Err() != nil {
			return false, ErrTimeout
		}
		return false, fmt.Errorf("board: route_to %s: %w", connID, err)
	}
	return ok, nil
}

// SegmentTo builds a manual (non-searched) segment for connID from p0
// to p1, with at most one 45°/axial bend and via
// (spec.md §4.4, SegmentToPoint).
func (b *Board) SegmentTo(connID string, p0, p1 geom.Point25, bendLocation float64, viaLoc actions.ViaLocation) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := b.connOrErr(connID)
	if err != nil {
		return false, err
	}
	if conn.Locked {
		return false, &RuleError{Reason: "connection is locked"}
	}
	b.applySpacings(conn)

	ok, err := actions.SegmentToPoint(b.Grid, conn, p0, p1, bendLocation, viaLoc)
	if err != nil {
		return false, fmt.Errorf("board: segment_to %s: %w", connID, err)
	}
	return ok, nil
}

// SetCostMapAll overlays cost onto every grid cell.
func (b *Board) SetCostMapAll(cost float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	actions.SetCostMapAll(b.Grid, cost)
}

// SetCostMapBox overlays cost onto the inclusive box [x0,y0,z0]..[x1,y1,z1].
func (b *Board) SetCostMapBox(x0, y0, z0, x1, y1, z1 int, cost float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	actions.SetCostMapBox(b.Grid, x0, y0, z0, x1, y1, z1, cost)
}

// SetRouteGuard stamps (enable=true) or clears (enable=false) the
// ROUTE_GUARD flag along poly at layer z, half-width halfW.
func (b *Board) SetRouteGuard(poly geom.Polyline, z int, halfW float64, enable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	actions.SetRouteGuard(b.Grid, poly, z, halfW, enable)
}

// SetLayerMask updates netID's layer mask and every one of its
// connections', relocating any endpoint whose pin no longer spans a
// legal layer (spec.md §4.4, SetLayerMask).
func (b *Board) SetLayerMask(netID string, mask uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	net := b.nets[netID]
	if net == nil {
		return &InputError{Reason: fmt.Sprintf("no such net %q", netID)}
	}
	if err := actions.SetLayerMask(net, mask); err != nil {
		return fmt.Errorf("board: set_layer_mask %s: %w", netID, err)
	}
	return nil
}

// RunRRROptions configures a RunRRR call; zero values fall back to
// the board's RouterConfig defaults.
type RunRRROptions struct {
	MinIterations            uint
	MaxIterations            uint
	MaxIterationsStagnant    uint
	NumTidyIterations        uint
	HistoryCostDecay         float32
	HistoryCostIncrement     float32
	HistoryCostMaxIncrements uint16
	RandomizeOrder           bool
	CheckStagnationBeforeSuccess bool
}

func (b *Board) rrrAgent(opts RunRRROptions) *rrr.Agent {
	a := rrr.NewAgent()
	cfg := b.Config
	a.MinIterations = orUint(opts.MinIterations, cfg.RRRMinIterations)
	a.MaxIterations = orUint(opts.MaxIterations, cfg.RRRMaxIterations)
	a.MaxIterationsStagnant = orUint(opts.MaxIterationsStagnant, cfg.RRRMaxIterationsStagnant)
	a.NumTidyIterations = orUint(opts.NumTidyIterations, cfg.RRRNumTidyIterations)
	a.RandomizeOrder = opts.RandomizeOrder || cfg.RRRRandomizeOrder
	a.CheckStagnationBeforeSuccess = opts.CheckStagnationBeforeSuccess
	if opts.HistoryCostDecay != 0 {
		_ = a.SetHistoryCostDecay(opts.HistoryCostDecay)
	} else {
		_ = a.SetHistoryCostDecay(cfg.RRRHistoryCostDecay)
	}
	if opts.HistoryCostIncrement != 0 {
		_ = a.SetHistoryCostIncrement(opts.HistoryCostIncrement)
	} else {
		_ = a.SetHistoryCostIncrement(cfg.RRRHistoryCostIncrement)
	}
	if opts.HistoryCostMaxIncrements != 0 {
		_ = a.SetHistoryCostMaxIncrements(opts.HistoryCostMaxIncrements)
	} else {
		_ = a.SetHistoryCostMaxIncrements(cfg.RRRHistoryCostMax)
	}
	a.Costs = cfg.AStarCosts
	return a
}

func orUint(v, fallback uint) uint {
	if v != 0 {
		return v
	}
	return fallback
}

// RunRRR rip-up-and-reroutes connIDs together (spec.md §4.5). All
// named connections must share one design-rule set — the agent warns
// (does not error) if they don't, per RRRAgent's own behavior.
func (b *Board) RunRRR(ctx context.Context, connIDs []string, opts RunRRROptions) (rrr.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conns := make([]*track.Connection, 0, len(connIDs))
	var viaDiameter float64
	for _, id := range connIDs {
		c, err := b.connOrErr(id)
		if err != nil {
			return rrr.Result{}, err
		}
		if c.Locked {
			return rrr.Result{}, &RuleError{Reason: fmt.Sprintf("connection %s is locked", id)}
		}
		conns = append(conns, c)
		if c.Rules.ViaDiameter > viaDiameter {
			viaDiameter = c.Rules.ViaDiameter
		}
	}
	if len(conns) > 0 {
		b.applySpacings(conns[0])
	}

	agent := b.rrrAgent(opts)
	result, err := agent.Run(ctx, b.Grid, conns, viaDiameter)
	if err != nil {
		if ctx.Err() != nil {
			return result, ErrTimeout
		}
		return result, fmt.Errorf("board: run_rrr: %w", err)
	}
	if !result.Success {
		return result, ErrUnroutable
	}
	return result, nil
}
