package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// ShapeDoc is the JSON rendering of a geom.Shape: a "kind" tag plus
// whichever typed fields that kind uses. Mirrors geom.Shape's own
// tagged-union layout (spec.md §9, "polymorphic shapes").
type ShapeDoc struct {
	Kind string `json:"kind"`

	// circle
	CenterX float64 `json:"x,omitempty"`
	CenterY float64 `json:"y,omitempty"`
	R       float64 `json:"r,omitempty"`

	// rect (center + extent)
	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`

	// rectIso (low/high corners)
	LoX float64 `json:"loX,omitempty"`
	LoY float64 `json:"loY,omitempty"`
	HiX float64 `json:"hiX,omitempty"`
	HiY float64 `json:"hiY,omitempty"`

	// polygon
	Vertices [][2]float64 `json:"vertices,omitempty"`
}

func (d ShapeDoc) toShape() (geom.Shape, error) {
	switch d.Kind {
	case "circle":
		return geom.NewCircleShape(geom.Circle{Center: geom.Point2{X: d.CenterX, Y: d.CenterY}, R: d.R}), nil
	case "rect":
		return geom.NewRectShape(geom.Rect{Center: geom.Point2{X: d.CenterX, Y: d.CenterY}, W: d.W, H: d.H}), nil
	case "rectIso":
		return geom.NewRectIsoShape(geom.RectIso{
			Lo: geom.Point2{X: d.LoX, Y: d.LoY},
			Hi: geom.Point2{X: d.HiX, Y: d.HiY},
		}), nil
	case "polygon":
		verts := make([]geom.Point2, len(d.Vertices))
		for i, v := range d.Vertices {
			verts[i] = geom.Point2{X: v[0], Y: v[1]}
		}
		return geom.NewPolygonShape(geom.Polygon{Vertices: verts}), nil
	default:
		return geom.Shape{}, fmt.Errorf("board: unknown shape kind %q", d.Kind)
	}
}

// PinDoc is one pin's JSON representation, always nested under its
// owning ComponentDoc.
type PinDoc struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Shape         ShapeDoc `json:"shape"`
	LayerMin      int      `json:"layerMin"`
	LayerMax      int      `json:"layerMax"`
	Clearance     float64  `json:"clearance"`
	CompoundGroup string   `json:"compoundGroup,omitempty"`
}

// ComponentDoc is one component's JSON representation.
type ComponentDoc struct {
	ID                 string   `json:"id,omitempty"`
	Name               string   `json:"name"`
	X                  float64  `json:"x"`
	Y                  float64  `json:"y"`
	Layer              int      `json:"layer"`
	AngleDeg           float64  `json:"angleDeg"`
	Footprint          ShapeDoc `json:"footprint"`
	Clearance          float64  `json:"clearance"`
	CanRouteInside     bool     `json:"canRouteInside"`
	CanPlaceViasInside bool     `json:"canPlaceViasInside"`
	Pins               []PinDoc `json:"pins"`
}

// NetDoc is one net's JSON representation; Pins names pins by ID.
type NetDoc struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	SignalType  string   `json:"signalType,omitempty"`
	Pins        []string `json:"pins"`
	TraceWidth  float64  `json:"traceWidth"`
	ViaDiameter float64  `json:"viaDiameter"`
	Clearance   float64  `json:"clearance"`
	LayerMask   *uint32  `json:"layerMask,omitempty"`
}

// ConnectionDoc is one connection's JSON representation. If omitted
// entirely from the document, Board.fromDocument auto-builds
// connections per net via buildMST.
type ConnectionDoc struct {
	ID         string  `json:"id,omitempty"`
	NetID      string  `json:"netId"`
	SourcePin  string  `json:"sourcePin"`
	TargetPin  string  `json:"targetPin"`
	LayerMask  *uint32 `json:"layerMask,omitempty"`
	Locked     bool    `json:"locked,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// LayerDoc describes one copper layer (spec.md §6); carried through
// for round-tripping but not otherwise interpreted by the router core.
type LayerDoc struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Side  string `json:"side"`
}

// Document is the top-level JSON board format (spec.md §6). Each of
// Components/Nets/Connections may be given as a JSON array or as an
// id-keyed object, exactly mirroring topology.go's UnmarshalJSON
// flexibility for nodes/links; an absent id is filled with
// uuid.NewString() at decode time.
type Document struct {
	Layers     []LayerDoc
	LayoutArea ShapeDoc
	GridEdge   float64
	Components []ComponentDoc
	Nets       []NetDoc
	Connections []ConnectionDoc
	hasConnections bool
}

// UnmarshalJSON implements the array-or-map flexibility for
// "components", "nets", and "connections", generalized from
// topology.go's Node/Link handling (raumata, this module's teacher).
func (d *Document) UnmarshalJSON(data []byte) error {
	var topLevel struct {
		Layers      []LayerDoc
		LayoutArea  ShapeDoc
		GridEdge    float64
		Components  *json.RawMessage
		Nets        *json.RawMessage
		Connections *json.RawMessage
	}
	if err := json.Unmarshal(data, &topLevel); err != nil {
		return err
	}
	d.Layers = topLevel.Layers
	d.LayoutArea = topLevel.LayoutArea
	d.GridEdge = topLevel.GridEdge

	comps, err := decodeArrayOrMap(topLevel.Components, func(c *ComponentDoc, id string) { c.ID = id })
	if err != nil {
		return fmt.Errorf("\"components\": %w", err)
	}
	d.Components = comps

	nets, err := decodeArrayOrMap(topLevel.Nets, func(n *NetDoc, id string) { n.ID = id })
	if err != nil {
		return fmt.Errorf("\"nets\": %w", err)
	}
	d.Nets = nets

	if topLevel.Connections != nil {
		conns, err := decodeArrayOrMap(topLevel.Connections, func(c *ConnectionDoc, id string) { c.ID = id })
		if err != nil {
			return fmt.Errorf("\"connections\": %w", err)
		}
		d.Connections = conns
		d.hasConnections = true
	}
	return nil
}

// decodeArrayOrMap decodes raw as either a JSON array of *T or a
// JSON object of id -> *T, applying setID to fill in the id when the
// object form is used. Mirrors topology.go's per-field decode arm.
func decodeArrayOrMap[T any](raw *json.RawMessage, setID func(*T, string)) ([]T, error) {
	if raw == nil || len(*raw) == 0 {
		return nil, nil
	}
	data := *raw
	switch data[0] {
	case '[':
		var arr []T
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	case '{':
		m := make(map[string]T)
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		out := make([]T, 0, len(m))
		for id, v := range m {
			setID(&v, id)
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, errors.New("must be an array or object")
	}
}

// LoadJSON decodes data as a Document and builds a Board from it:
// sizes a navgrid.Grid to the layout bbox, rasterizes every pin and
// every component footprint not marked CanRouteInside as a permanent
// obstacle (no clearance area), and auto-builds any net's connections as
// an MST over its pins when the document didn't supply them
// (spec.md §6).
func LoadJSON(data []byte, cfg RouterConfig, logger *logrus.Logger) (*Board, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InputError{Reason: err.Error()}
	}
	return fromDocument(&doc, cfg, logger)
}

func fromDocument(doc *Document, cfg RouterConfig, logger *logrus.Logger) (*Board, error) {
	area, err := doc.LayoutArea.toShape()
	if err != nil {
		return nil, &InputError{Reason: "layoutArea: " + err.Error()}
	}
	bbox := area.Bbox()
	if bbox.Width() <= 0 || bbox.Height() <= 0 {
		return nil, &InputError{Reason: "layoutArea has zero or negative extent"}
	}
	edge := doc.GridEdge
	if edge <= 0 {
		edge = 1
	}
	w := int(math.Ceil(bbox.Width() / edge))
	h := int(math.Ceil(bbox.Height() / edge))
	depth := 1
	for _, l := range doc.Layers {
		if l.Index+1 > depth {
			depth = l.Index + 1
		}
	}
	grid := navgrid.New(w, h, depth, edge, bbox.Min)

	b := New(grid, bbox, cfg, logger)

	if err := b.loadComponents(doc.Components); err != nil {
		return nil, err
	}
	if err := b.loadNets(doc.Nets, cfg.SignalPatterns); err != nil {
		return nil, err
	}

	// Permanent obstacles (pin/component footprints) are rasterized
	// once, up front, at the zero spacings — per-connection clearance
	// re-rasterization (actions.RasterizeTrack et al.) happens lazily
	// as each connection is routed, at that connection's own rules.
	b.rasterizeObstacles()

	if doc.hasConnections {
		if err := b.loadConnections(doc.Connections); err != nil {
			return nil, err
		}
	} else {
		for _, net := range b.nets {
			conns, err := b.buildMST(net)
			if err != nil {
				return nil, err
			}
			for _, c := range conns {
				b.connections[c.ID] = c
				net.Connections = append(net.Connections, c)
			}
		}
	}

	return b, nil
}

func (b *Board) loadComponents(docs []ComponentDoc) error {
	for _, cd := range docs {
		footprint, err := cd.Footprint.toShape()
		if err != nil {
			return &InputError{Reason: "component " + cd.Name + ": " + err.Error()}
		}
		comp := &track.Component{
			ID:                 newID(cd.ID),
			Name:               cd.Name,
			Footprint:          footprint,
			Layer:              cd.Layer,
			Angle:              cd.AngleDeg,
			CanRouteInside:     cd.CanRouteInside,
			CanPlaceViasInside: cd.CanPlaceViasInside,
		}
		for _, pd := range cd.Pins {
			shape, err := pd.Shape.toShape()
			if err != nil {
				return &InputError{Reason: "pin " + pd.Name + ": " + err.Error()}
			}
			pin := &track.Pin{
				ID:            newID(pd.ID),
				Name:          pd.Name,
				Shape:         shape,
				LayerMin:      pd.LayerMin,
				LayerMax:      pd.LayerMax,
				Clearance:     pd.Clearance,
				CompoundGroup: pd.CompoundGroup,
			}
			comp.Pins = append(comp.Pins, pin)
			b.addPin(pin)
		}
		b.components[comp.ID] = comp
	}
	return nil
}

func (b *Board) loadNets(docs []NetDoc, patterns []track.SignalPattern) error {
	for _, nd := range docs {
		st := track.SignalType(0)
		if nd.SignalType != "" {
			switch nd.SignalType {
			case "power":
				st = track.SignalTypePower
			case "ground":
				st = track.SignalTypeGround
			case "user":
				st = track.SignalTypeUser
			default:
				st = track.SignalTypeSignal
			}
		}
		net := track.NewNet(newID(nd.ID), nd.Name, st, patterns)
		net.Rules = track.DesignRules{Clearance: nd.Clearance, TraceWidth: nd.TraceWidth, ViaDiameter: nd.ViaDiameter}
		if nd.LayerMask != nil {
			net.LayerMask = *nd.LayerMask
		}
		for _, pinID := range nd.Pins {
			p := b.pins[pinID]
			if p == nil {
				return &InputError{Reason: "net " + nd.Name + ": unknown pin id " + pinID}
			}
			p.NetID = net.ID
			net.Pins = append(net.Pins, p)
		}
		b.nets[net.ID] = net
	}
	return nil
}

func (b *Board) loadConnections(docs []ConnectionDoc) error {
	for _, cd := range docs {
		net := b.nets[cd.NetID]
		if net == nil {
			return &InputError{Reason: "connection " + cd.ID + ": unknown net id " + cd.NetID}
		}
		src := b.pins[cd.SourcePin]
		dst := b.pins[cd.TargetPin]
		if src == nil || dst == nil {
			return &InputError{Reason: "connection " + cd.ID + ": unknown pin id"}
		}
		conn := track.NewConnection(newID(cd.ID), net.ID,
			track.Point{Pos: geom.Point25{X: src.Center().X, Y: src.Center().Y, Z: src.LayerMin}, Pin: src},
			track.Point{Pos: geom.Point25{X: dst.Center().X, Y: dst.Center().Y, Z: dst.LayerMin}, Pin: dst})
		conn.Rules = net.Rules
		if cd.LayerMask != nil {
			conn.LayerMask = *cd.LayerMask
		}
		conn.Locked = cd.Locked
		conn.Color = cd.Color
		b.connections[conn.ID] = conn
		net.Connections = append(net.Connections, conn)
	}
	return nil
}

// rasterizeObstacles stamps every pin's footprint INSIDE_PIN and
// every component's footprint INSIDE_COMPONENT (permanent, never
// unrasterized), plus the layout-area border as a closed-box outline
// — spec.md §4.2's "layout-area border is rasterized ... so A* cannot
// exit the board". Clearance areas around pins are re-rasterized
// per-connection by actions.RasterizeTrack's callers at routing time,
// since clearance depends on the connection's own rules.
func (b *Board) rasterizeObstacles() {
	for _, p := range b.pins {
		b.Grid.StampFlags(p.Shape, p.LayerMin, p.LayerMax, 0, navgrid.InsidePin)
	}
	for _, c := range b.components {
		if c.CanRouteInside {
			continue
		}
		b.Grid.StampFlags(c.Footprint, c.Layer, c.Layer, 0, navgrid.InsideComponent)
	}
	for z := 0; z < b.Grid.D; z++ {
		for x := 0; x < b.Grid.W; x++ {
			b.Grid.Point(x, 0, z).Flags |= navgrid.BlockedPermanent
			b.Grid.Point(x, b.Grid.H-1, z).Flags |= navgrid.BlockedPermanent
		}
		for y := 0; y < b.Grid.H; y++ {
			b.Grid.Point(0, y, z).Flags |= navgrid.BlockedPermanent
			b.Grid.Point(b.Grid.W-1, y, z).Flags |= navgrid.BlockedPermanent
		}
	}
}
