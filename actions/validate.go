package actions

import (
	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/track"
)

// ValidateFlags is a bitmask of the independent checks ValidateTrack
// runs; a track can fail one without the other (e.g. legally
// contiguous but drawn off the board).
type ValidateFlags uint8

const (
	// ValidLegalArea is set when the track's bounding box lies
	// entirely within the connection's layout area.
	ValidLegalArea ValidateFlags = 1 << iota
	// ValidLegalRules is set when the track is contiguous (ends match
	// declared Start/End, pieces touch, layer changes occur only at
	// vias) and every segment/via's width matches the connection's
	// design rules.
	ValidLegalRules
)

// ValidateTrack checks t against conn's declared endpoints, design
// rules, and layoutArea, returning which of ValidLegalArea/
// ValidLegalRules hold. Neither bit implies the other.
func ValidateTrack(t *track.Track, conn *track.Connection, layoutArea geom.Bbox) ValidateFlags {
	var flags ValidateFlags

	b := t.Bbox()
	if b.Min.X >= layoutArea.Min.X && b.Min.Y >= layoutArea.Min.Y &&
		b.Max.X <= layoutArea.Max.X && b.Max.Y <= layoutArea.Max.Y {
		flags |= ValidLegalArea
	}

	if t.HasValidEnds(1e-6) && rulesMatch(t, conn) {
		flags |= ValidLegalRules
	}

	return flags
}

func rulesMatch(t *track.Track, conn *track.Connection) bool {
	const tol = 1e-9
	for _, seg := range t.Segments() {
		if abs(seg.HalfW-conn.Rules.TraceWidthHalf()) > tol {
			return false
		}
	}
	for _, v := range t.Vias() {
		if abs(v.R-conn.Rules.ViaRadius()) > tol {
			return false
		}
		if !conn.LayerLegal(v.ZMin) || !conn.LayerLegal(v.ZMax) {
			return false
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
