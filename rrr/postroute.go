package rrr

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chrisbmr/pcbroute/actions"
	"github.com/chrisbmr/pcbroute/astar"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// postroute unwinds every connection's history-stage bookkeeping,
// restores the best tracks seen during the run (strictly rasterized
// this time, via the real keep-out counters), and spends up to
// NumTidyIterations rounds trying to reroute each connection cleanly
// — falling back to its restored best track when a tidy-up attempt
// fails and the best result was a full success. After a failed tidy-up
// with a non-success best result, the connection is left unrouted.
func (a *Agent) postroute(ctx context.Context, g *navgrid.Grid, conns []*track.Connection, best Result, bestTracks []*track.Track, viaDiameter float64) (Result, error) {
	for _, conn := range conns {
		a.unrouteHistory(g, conn)
	}
	g.ResetUserKeepouts()

	logrus.WithFields(logrus.Fields{
		"success":  best.Success,
		"overlaps": best.Overlaps,
	}).Info("rrr: restoring best routing")

	if bestTracks == nil {
		return best, nil
	}
	for i, conn := range conns {
		if bestTracks[i] == nil {
			continue
		}
		if err := actions.SetTrack(g, conn, bestTracks[i]); err != nil {
			return best, err
		}
	}

	logrus.Info("rrr: tidying up")
	ok := true
	for n := uint(0); n < a.NumTidyIterations && ok; n++ {
		for i, conn := range conns {
			pf := astar.New(g, navgrid.AStarCosts{MaskedLayer: 1, Via: 1, Violation: 1, WrongDirection: 1}, conn.LayerMask, viaDiameter)
			rerouted, err := actions.AStarConnect(ctx, g, conn, pf)
			if err != nil {
				return best, err
			}
			if !rerouted && best.Success && bestTracks[i] != nil {
				if err := actions.SetTrack(g, conn, bestTracks[i]); err != nil {
					return best, err
				}
			}
			if !rerouted {
				ok = false
			}
		}
	}

	return best, nil
}
