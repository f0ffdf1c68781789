package rrr

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chrisbmr/pcbroute/astar"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// ErrRerouteFailed is returned by Run when a connection's history-stage
// reroute finds no path at all (not merely an overlapping one) —
// RRRAgent.cpp's "route cannot be realized in reroute stage" error
// state, which aborts the run rather than continuing to iterate.
var ErrRerouteFailed = errors.New("rrr: connection has no path at all")

// Result summarizes one RRR iteration (or the run's final outcome):
// Success means every connection routed with zero mutual overlap.
// Lower Overlaps is always better; among equally-overlapping results,
// shorter TotalLength is better. This replaces the original's
// Python-supplied reward function with a fixed, built-in one, since
// this module has no embedded scripting layer to supply one from.
type Result struct {
	Success     bool
	Overlaps    int
	TotalLength float64
}

// Better reports whether r is a strict improvement over other under
// the ordering Success, then fewer Overlaps, then shorter TotalLength.
func (r Result) Better(other Result) bool {
	if r.Success != other.Success {
		return r.Success
	}
	if r.Overlaps != other.Overlaps {
		return r.Overlaps < other.Overlaps
	}
	return r.TotalLength < other.TotalLength
}

// Run executes the rip-up-and-reroute loop over conns on g, and
// returns the best Result found (restored onto conns' Tracks,
// strictly rasterized, before Run returns — successfully or not).
func (a *Agent) Run(ctx context.Context, g *navgrid.Grid, conns []*track.Connection, viaDiameter float64) (Result, error) {
	if len(conns) == 0 {
		return Result{Success: true}, nil
	}

	order := make([]int, len(conns))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xA5A5A5A5))
	if a.RandomizeOrder {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	warnIfRulesDiffer(conns)

	best := Result{Overlaps: -1}
	var bestTracks []*track.Track
	stagnant := uint(0)

	var iter uint
	for iter = 0; iter < a.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		g.DecayHistoryCosts(a.HistoryCostDecay)
		if a.RandomizeOrder {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		totalOverlaps := 0
		for _, i := range order {
			ov, err := a.rerouteHistory(ctx, g, conns[i], viaDiameter)
			if err != nil {
				return best, err
			}
			totalOverlaps += ov
		}

		result := Result{
			Success:     totalOverlaps == 0,
			Overlaps:    totalOverlaps,
			TotalLength: totalLength(conns),
		}
		logrus.WithFields(logrus.Fields{
			"iteration": iter,
			"overlaps":  result.Overlaps,
			"success":   result.Success,
		}).Info("rrr: iteration complete")

		if best.Success || a.CheckStagnationBeforeSuccess {
			stagnant++
		}
		if best.Overlaps < 0 || result.Better(best) {
			best = result
			bestTracks = snapshotTracks(conns)
			stagnant = 0
		}

		if iter+1 >= a.MinIterations && stagnant >= a.MaxIterationsStagnant {
			break
		}
	}

	return a.postroute(ctx, g, conns, best, bestTracks, viaDiameter)
}

func warnIfRulesDiffer(conns []*track.Connection) {
	w := conns[0].Rules.TraceWidth
	c := conns[0].Rules.Clearance
	v := conns[0].Rules.ViaDiameter
	for _, conn := range conns {
		if conn.Rules.TraceWidth != w || conn.Rules.Clearance != c || conn.Rules.ViaDiameter != v {
			logrus.Warn("rrr: connections have mismatched trace width/clearance/via diameter; RRR assumes a uniform rule set")
			return
		}
	}
}

func totalLength(conns []*track.Connection) float64 {
	var total float64
	for _, conn := range conns {
		for _, t := range conn.Tracks {
			total += t.Length()
		}
	}
	return total
}

func snapshotTracks(conns []*track.Connection) []*track.Track {
	out := make([]*track.Track, len(conns))
	for i, conn := range conns {
		if len(conn.Tracks) > 0 {
			out[i] = conn.Tracks[0]
		}
	}
	return out
}

// rerouteHistory rips up conn's current history-stage track (if any)
// and searches for a fresh one, biased by the grid's current history
// cost. It returns the new track's overlap count (0 meaning it didn't
// conflict with anything else currently stamped), or ErrRerouteFailed
// if no path exists at all.
func (a *Agent) rerouteHistory(ctx context.Context, g *navgrid.Grid, conn *track.Connection, viaDiameter float64) (int, error) {
	a.unrouteHistory(g, conn)

	pf := astar.New(g, a.Costs, conn.LayerMask, viaDiameter)
	src := astar.Endpoint{Pin: conn.Source.Pin, Pos: conn.Source.Pos}
	dst := astar.Endpoint{Pin: conn.Target.Pin, Pos: conn.Target.Pos}
	trk, err := pf.FindPath(ctx, src, dst, conn.Rules)
	if err != nil {
		return 0, ErrRerouteFailed
	}

	ov := a.rasterizeHistory(g, trk, conn.Rules.Clearance, 1, true)
	conn.Tracks = []*track.Track{trk}
	conn.IsRouted = false // history-stage tracks are provisional, never "properly routed"
	return ov, nil
}

func (a *Agent) unrouteHistory(g *navgrid.Grid, conn *track.Connection) {
	if len(conn.Tracks) == 0 {
		return
	}
	a.rasterizeHistory(g, conn.Tracks[0], conn.Rules.Clearance, -1, false)
	conn.Tracks = nil
	conn.IsRouted = false
}
