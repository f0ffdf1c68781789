package board

import (
	"context"
	"encoding/json"
	"testing"
)

// buildDoc returns a minimal board document: a 10x10 single-layer
// board with one net of two pins 9 units apart, no obstacles — the
// same shape as spec scenario S1, routed through the JSON loader and
// the Board facade end to end.
func buildDoc(t *testing.T) []byte {
	t.Helper()
	doc := map[string]interface{}{
		"layers":     []map[string]interface{}{{"index": 0, "type": "signal", "side": "top"}},
		"layoutArea": map[string]interface{}{"kind": "rectIso", "loX": 0, "loY": 0, "hiX": 10, "hiY": 10},
		"gridEdge":   1,
		"components": []map[string]interface{}{
			{
				"name":      "U1",
				"x":         0, "y": 0, "layer": 0,
				"footprint": map[string]interface{}{"kind": "circle", "x": 0.5, "y": 0.5, "r": 0.1},
				"pins": []map[string]interface{}{
					{"name": "A", "shape": map[string]interface{}{"kind": "circle", "x": 0.5, "y": 0.5, "r": 0.1}, "layerMin": 0, "layerMax": 0},
					{"name": "B", "shape": map[string]interface{}{"kind": "circle", "x": 9.5, "y": 0.5, "r": 0.1}, "layerMin": 0, "layerMax": 0},
				},
			},
		},
		"nets": []map[string]interface{}{
			{"name": "N1", "pins": []string{}, "traceWidth": 1, "clearance": 0, "viaDiameter": 1},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// buildDocWithPinRefs is buildDoc but with the net's pin list filled
// in after IDs are known — JSON components generate pin IDs, so this
// builds the document manually instead of round-tripping through
// uuid-generated IDs.
func buildDocWithPinRefs(t *testing.T) []byte {
	t.Helper()
	doc := map[string]interface{}{
		"layers":     []map[string]interface{}{{"index": 0, "type": "signal", "side": "top"}},
		"layoutArea": map[string]interface{}{"kind": "rectIso", "loX": 0, "loY": 0, "hiX": 10, "hiY": 10},
		"gridEdge":   1,
		"components": []map[string]interface{}{
			{
				"name": "U1", "x": 0, "y": 0, "layer": 0,
				"footprint": map[string]interface{}{"kind": "circle", "x": 0.5, "y": 0.5, "r": 0.1},
				"pins": []map[string]interface{}{
					{"id": "pinA", "name": "A", "shape": map[string]interface{}{"kind": "circle", "x": 0.5, "y": 0.5, "r": 0.1}, "layerMin": 0, "layerMax": 0},
					{"id": "pinB", "name": "B", "shape": map[string]interface{}{"kind": "circle", "x": 9.5, "y": 0.5, "r": 0.1}, "layerMin": 0, "layerMax": 0},
				},
			},
		},
		"nets": []map[string]interface{}{
			{"name": "N1", "pins": []string{"pinA", "pinB"}, "traceWidth": 1, "clearance": 0, "viaDiameter": 1},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func TestLoadJSONBuildsGridAndAutoConnects(t *testing.T) {
	data := buildDocWithPinRefs(t)
	b, err := LoadJSON(data, DefaultRouterConfig(), nil)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if b.Grid.W != 10 || b.Grid.H != 10 || b.Grid.D != 1 {
		t.Fatalf("unexpected grid size: %dx%dx%d", b.Grid.W, b.Grid.H, b.Grid.D)
	}
	nets := b.Nets()
	if len(nets) != 1 {
		t.Fatalf("expected 1 net, got %d", len(nets))
	}
	conns := b.Connections()
	if len(conns) != 1 {
		t.Fatalf("expected MST to auto-build 1 connection for a 2-pin net, got %d", len(conns))
	}
}

func TestRouteConnectionRoutesAndPersists(t *testing.T) {
	data := buildDocWithPinRefs(t)
	b, err := LoadJSON(data, DefaultRouterConfig(), nil)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	conns := b.Connections()
	if len(conns) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(conns))
	}
	conn := conns[0]

	ok, err := b.RouteConnection(context.Background(), conn.ID, nil)
	if err != nil {
		t.Fatalf("RouteConnection: %v", err)
	}
	if !ok {
		t.Fatalf("expected connection to route on an empty 10x10 grid")
	}
	if !conn.IsRouted || len(conn.Tracks) != 1 {
		t.Fatalf("expected connection routed with exactly one track")
	}

	out, err := b.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var doc ResultDocument
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(doc.Connections) != 1 || !doc.Connections[0].IsRouted {
		t.Fatalf("expected persisted result to show the routed connection: %+v", doc)
	}
}

func TestUnrouteConnectionClearsTracks(t *testing.T) {
	data := buildDocWithPinRefs(t)
	b, err := LoadJSON(data, DefaultRouterConfig(), nil)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	conn := b.Connections()[0]
	if _, err := b.RouteConnection(context.Background(), conn.ID, nil); err != nil {
		t.Fatalf("RouteConnection: %v", err)
	}
	if err := b.UnrouteConnection(conn.ID); err != nil {
		t.Fatalf("UnrouteConnection: %v", err)
	}
	if conn.IsRouted || len(conn.Tracks) != 0 {
		t.Fatalf("expected connection to be fully unrouted")
	}
}

func TestRouteConnectionRejectsUnknownID(t *testing.T) {
	data := buildDocWithPinRefs(t)
	b, err := LoadJSON(data, DefaultRouterConfig(), nil)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	_, err = b.RouteConnection(context.Background(), "no-such-connection", nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown connection id")
	}
	var ie *InputError
	if !asInputError(err, &ie) {
		t.Fatalf("expected an *InputError, got %v (%T)", err, err)
	}
}

func asInputError(err error, target **InputError) bool {
	ie, ok := err.(*InputError)
	if ok {
		*target = ie
	}
	return ok
}
