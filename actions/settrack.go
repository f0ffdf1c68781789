package actions

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// SetTrack replaces conn's entire track list with exactly t (e.g. a
// track loaded from a saved board, or restored by an undo step),
// rasterizing it and unrasterizing whatever conn held before. The
// caller is responsible for validating t first — SetTrack does not
// call ValidateTrack itself, since some callers (loading a board
// mid-migration) intentionally accept a track that doesn't yet pass.
func SetTrack(g *navgrid.Grid, conn *track.Connection, t *track.Track) error {
	if conn.Locked {
		return ErrLocked
	}
	for _, old := range conn.Tracks {
		if old.IsRasterized() {
			if err := UnrasterizeTrack(g, old, conn.Rules.Clearance); err != nil {
				return err
			}
		}
	}
	if !t.IsRasterized() {
		if err := RasterizeTrack(g, t, conn.Rules.Clearance); err != nil {
			return err
		}
	}
	conn.SetSingleTrack(t)
	return nil
}

// ValidLayoutArea is a convenience wrapper: ValidateTrack(t, conn,
// layoutArea)&ValidLegalArea != 0.
func ValidLayoutArea(t *track.Track, conn *track.Connection, layoutArea geom.Bbox) bool {
	return ValidateTrack(t, conn, layoutArea)&ValidLegalArea != 0
}
