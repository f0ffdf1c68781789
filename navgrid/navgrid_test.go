package navgrid

import (
	"testing"

	"github.com/chrisbmr/pcbroute/geom"
)

// TestAdjustKeepoutRasterizeUnrasterizeSymmetry is spec property 1:
// for every cell, rasterize(T); unrasterize(T) restores every
// keep-out counter and flag bit-for-bit.
func TestAdjustKeepoutRasterizeUnrasterizeSymmetry(t *testing.T) {
	g := New(10, 10, 1, 1, geom.Point2{})
	shape := geom.NewCircleShape(geom.Circle{Center: geom.Point2{X: 5, Y: 5}, R: 2})

	before := make([]NavPoint, len(g.points))
	copy(before, g.points)

	g.AdjustKeepout(shape, 0, 0, 0, KeepoutRouteTrack, 1)
	g.AdjustKeepout(shape, 0, 0, 0, KeepoutRouteTrack, -1)

	for i := range before {
		// writeEpoch is per-pass scratch, advanced by every AdjustKeepout
		// call; it is neither a keep-out counter nor a flag.
		after := g.points[i]
		after.writeEpoch = before[i].writeEpoch
		if before[i] != after {
			t.Fatalf("cell %d not restored after rasterize/unrasterize: before=%+v after=%+v", i, before[i], g.points[i])
		}
	}
}

// TestAdjustKeepoutOverlappingRangesCountedOnce confirms the
// rasterize/erase symmetry still holds when a shape's own coverage
// overlaps itself within one call (a wide circle whose dilated bbox
// spans rows that share cells at the poles) — AdjustKeepout's epoch
// guard must prevent a cell touched twice in one call from having its
// counter incremented twice.
func TestAdjustKeepoutOverlappingRangesCountedOnce(t *testing.T) {
	g := New(6, 6, 1, 1, geom.Point2{})
	shape := geom.NewCircleShape(geom.Circle{Center: geom.Point2{X: 3, Y: 3}, R: 2.5})

	g.AdjustKeepout(shape, 0, 0, 0, KeepoutPinTrack, 1)
	p := g.Point(3, 3, 0)
	if p.PinTracks != 1 {
		t.Fatalf("want the center cell's keep-out counter incremented exactly once, got %d", p.PinTracks)
	}

	g.AdjustKeepout(shape, 0, 0, 0, KeepoutPinTrack, -1)
	if p.PinTracks != 0 {
		t.Fatalf("want the counter back to 0 after unrasterizing, got %d", p.PinTracks)
	}
}

// TestWrittenThisEpochDedupesWithinOneEpoch is spec property 2's
// rasterization half: within one rasterization call the same cell is
// written at most once.
func TestWrittenThisEpochDedupesWithinOneEpoch(t *testing.T) {
	g := New(3, 3, 1, 1, geom.Point2{})
	seq := g.NextRasterSeq()

	if g.WrittenThisEpoch(0, seq) {
		t.Fatal("want the first touch of a cell in a fresh epoch to report not-yet-written")
	}
	if !g.WrittenThisEpoch(0, seq) {
		t.Fatal("want a second touch of the same cell in the same epoch to report already-written")
	}

	next := g.NextRasterSeq()
	if g.WrittenThisEpoch(0, next) {
		t.Fatal("want a new epoch to reset the written-this-epoch guard")
	}
}

// TestOpenCloseEpochIsolation is spec property 2's search half: within
// one A* search a cell is closed at most once, and IsOpen/IsClosed
// correctly reflect the current epoch only — a stale epoch from a
// previous search must not read as open or closed.
func TestOpenCloseEpochIsolation(t *testing.T) {
	g := New(3, 3, 1, 1, geom.Point2{})
	p := g.Point(1, 1, 0)

	seq1 := g.NextSearchSeq()
	p.Open(seq1, 1.5, DirU)
	if !p.IsOpen(seq1) {
		t.Fatal("want the cell open for the epoch it was opened in")
	}
	p.Close(seq1)
	if p.IsOpen(seq1) {
		t.Fatal("want Close to clear the open bit for the same epoch")
	}
	if !p.IsClosed(seq1) {
		t.Fatal("want the cell closed for the epoch it was closed in")
	}

	seq2 := g.NextSearchSeq()
	if p.IsOpen(seq2) || p.IsClosed(seq2) {
		t.Fatal("want a fresh search epoch to see the cell as neither open nor closed")
	}
}

// TestResetUserKeepoutsRestoresDefaultCost confirms the RRR
// postroute transition (ResetUserKeepouts) leaves every cell's cost
// multiplier at the documented default of 1, matching Grid.New's own
// initialization.
func TestResetUserKeepoutsRestoresDefaultCost(t *testing.T) {
	g := New(4, 4, 1, 1, geom.Point2{})
	shape := geom.NewCircleShape(geom.Circle{Center: geom.Point2{X: 2, Y: 2}, R: 1})
	g.AdjustUserKeepout(shape, 0, 0, 0, 1, true, 1.0/16, 0xfffe)

	g.ResetUserKeepouts()
	for i := range g.points {
		if g.points[i].Cost != 1 {
			t.Fatalf("cell %d: want Cost reset to 1, got %v", i, g.points[i].Cost)
		}
		if g.points[i].User[0] != 0 || g.points[i].User[1] != 0 {
			t.Fatalf("cell %d: want User counters reset to 0, got %v", i, g.points[i].User)
		}
	}
}

// TestNewInitializesDefaultCost confirms Grid.New leaves every cell's
// cost multiplier at its documented default of 1 rather than the Go
// zero value — SetCostMap callers (including a literal 0.0 cost
// overlay) must not be confused with an "unset" cell.
func TestNewInitializesDefaultCost(t *testing.T) {
	g := New(3, 3, 2, 1, geom.Point2{})
	for i := range g.points {
		if g.points[i].Cost != 1 {
			t.Fatalf("cell %d: want default Cost 1, got %v", i, g.points[i].Cost)
		}
	}
}
