package rrr

import (
	"context"
	"testing"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

func newTestGrid(w, h, d int) *navgrid.Grid {
	g := navgrid.New(w, h, d, 1, geom.Point2{})
	g.SetSpacings(navgrid.NavSpacings{Clearance: 0, TrackWidthHalf: 0.5, ViaRadius: 0.5})
	return g
}

// TestScenarioS5TwoConnectionCongestion is spec scenario S5: two
// parallel connections sharing a 10x10x2 grid, both preferring
// horizontal travel on layer 0 — close enough together that a naive
// simultaneous search would have them cross, but RRR's rip-up and
// history-cost bias should separate them within a handful of
// iterations.
func TestScenarioS5TwoConnectionCongestion(t *testing.T) {
	g := newTestGrid(10, 10, 2)
	rules := track.DesignRules{Clearance: 0, TraceWidth: 1, ViaDiameter: 1}

	c1 := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 4.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 9.5, Y: 4.5, Z: 0}})
	c1.Rules = rules
	c2 := track.NewConnection("c2", "n2",
		track.Point{Pos: geom.Point25{X: 0.5, Y: 5.5, Z: 0}},
		track.Point{Pos: geom.Point25{X: 9.5, Y: 5.5, Z: 0}})
	c2.Rules = rules

	agent := NewAgent()
	agent.MaxIterations = 64
	agent.MaxIterationsStagnant = 8

	result, err := agent.Run(context.Background(), g, []*track.Connection{c1, c2}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected both connections to route without overlap, got %+v", result)
	}
	if result.Overlaps != 0 {
		t.Fatalf("expected zero overlaps, got %d", result.Overlaps)
	}
	for _, c := range []*track.Connection{c1, c2} {
		if !c.IsRouted || len(c.Tracks) != 1 {
			t.Fatalf("expected connection %s routed with one track", c.ID)
		}
	}
	for i := 0; i < g.W; i++ {
		for j := 0; j < g.H; j++ {
			for z := 0; z < g.D; z++ {
				p := g.Point(i, j, z)
				if p.User[0] > 1 {
					t.Fatalf("cell (%d,%d,%d) still shows overlap after postroute: %d", i, j, z, p.User[0])
				}
			}
		}
	}
}

func TestAgentDefaults(t *testing.T) {
	a := NewAgent()
	if a.MinIterations != 1 || a.MaxIterations != 256 || a.MaxIterationsStagnant != 8 || a.NumTidyIterations != 2 {
		t.Fatalf("unexpected default iteration parameters: %+v", a)
	}
	if a.HistoryCostDecay != 1.0 || a.HistoryCostIncrement != 1.0/16.0 || a.HistoryCostMaxIncrements != 0xfffe {
		t.Fatalf("unexpected default history cost parameters: %+v", a)
	}
}

func TestSetHistoryCostValidation(t *testing.T) {
	a := NewAgent()
	if err := a.SetHistoryCostIncrement(-1); err != ErrHistoryCostIncrementNegative {
		t.Fatalf("want ErrHistoryCostIncrementNegative, got %v", err)
	}
	if err := a.SetHistoryCostDecay(1.5); err != ErrHistoryCostDecayRange {
		t.Fatalf("want ErrHistoryCostDecayRange, got %v", err)
	}
	if err := a.SetHistoryCostMaxIncrements(0xffff); err != ErrHistoryCostMaxTooLarge {
		t.Fatalf("want ErrHistoryCostMaxTooLarge, got %v", err)
	}
}
