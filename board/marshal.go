package board

import (
	"encoding/json"

	"github.com/chrisbmr/pcbroute/track"
)

// SegmentDoc is one wide segment's JSON rendering (spec.md §6,
// "output/persistence"): (x0,y0,x1,y1,z,w).
type SegmentDoc struct {
	X0, Y0, X1, Y1 float64
	Z              int
	W              float64
}

// ViaDoc is one via's JSON rendering: (x,y,zmin,zmax,r).
type ViaDoc struct {
	X, Y       float64
	ZMin, ZMax int
	R          float64
}

// TrackDoc is one track's JSON rendering: its ordered segments and
// vias plus start/end.
type TrackDoc struct {
	Segments []SegmentDoc `json:"segments,omitempty"`
	Vias     []ViaDoc     `json:"vias,omitempty"`
	StartX, StartY float64
	StartZ         int
	EndX, EndY     float64
	EndZ           int
}

// ConnectionResultDoc is one connection's output rendering: its
// tracks plus the bookkeeping fields spec.md §6 calls for.
type ConnectionResultDoc struct {
	ID        string     `json:"id"`
	NetID     string     `json:"netId"`
	Tracks    []TrackDoc `json:"tracks,omitempty"`
	LayerMask uint32     `json:"layerMask"`
	IsRouted  bool       `json:"isRouted"`
	Locked    bool       `json:"locked"`
	Color     string     `json:"color,omitempty"`
}

func trackDoc(t *track.Track) TrackDoc {
	td := TrackDoc{
		StartX: t.Start.X, StartY: t.Start.Y, StartZ: t.Start.Z,
		EndX: t.End.X, EndY: t.End.Y, EndZ: t.End.Z,
	}
	for _, s := range t.Segments() {
		td.Segments = append(td.Segments, SegmentDoc{
			X0: s.P0.X, Y0: s.P0.Y, X1: s.P1.X, Y1: s.P1.Y, Z: s.P0.Z, W: s.HalfW * 2,
		})
	}
	for _, v := range t.Vias() {
		td.Vias = append(td.Vias, ViaDoc{X: v.Center.X, Y: v.Center.Y, ZMin: v.ZMin, ZMax: v.ZMax, R: v.R})
	}
	return td
}

func connectionResultDoc(c *track.Connection) ConnectionResultDoc {
	out := ConnectionResultDoc{
		ID: c.ID, NetID: c.NetID, LayerMask: c.LayerMask,
		IsRouted: c.IsRouted, Locked: c.Locked, Color: c.Color,
	}
	for _, t := range c.Tracks {
		out.Tracks = append(out.Tracks, trackDoc(t))
	}
	return out
}

// ResultDocument is the full board-state output: every connection's
// current tracks, in the shape a CLI subcommand prints to stdout or
// --out (spec.md §6).
type ResultDocument struct {
	Connections []ConnectionResultDoc `json:"connections"`
}

// MarshalJSON renders the board's current routing state (every
// connection and its tracks) as a ResultDocument.
func (b *Board) MarshalJSON() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	doc := ResultDocument{Connections: make([]ConnectionResultDoc, 0, len(b.connections))}
	for _, c := range b.connections {
		doc.Connections = append(doc.Connections, connectionResultDoc(c))
	}
	return json.MarshalIndent(doc, "", "  ")
}
