package actions

import (
	"testing"

	"github.com/chrisbmr/pcbroute/geom"
	"github.com/chrisbmr/pcbroute/track"
)

// TestScenarioS6LayerMaskMovesEndpoint is spec scenario S6: a
// connection ending on a pin spanning layers [0,2], currently at z=1,
// has its net's mask changed to 0b101 (layers 0 and 2 legal). The
// endpoint must move to z=0, the pin's first mask-legal layer.
func TestScenarioS6LayerMaskMovesEndpoint(t *testing.T) {
	pin := &track.Pin{ID: "P", LayerMin: 0, LayerMax: 2}
	net := track.NewNet("n1", "NET1", track.SignalTypeSignal, nil)
	net.Pins = []*track.Pin{pin}

	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0, Y: 0, Z: 1}, Pin: pin},
		track.Point{Pos: geom.Point25{X: 10, Y: 0, Z: 1}, Pin: nil},
	)
	net.Connections = []*track.Connection{conn}

	if err := SetLayerMask(net, 0b101); err != nil {
		t.Fatalf("SetLayerMask: %v", err)
	}
	if conn.Source.Pos.Z != 0 {
		t.Fatalf("want endpoint relocated to z=0, got z=%d", conn.Source.Pos.Z)
	}
	if net.LayerMask != 0b101 {
		t.Fatalf("want net.LayerMask=0b101, got %b", net.LayerMask)
	}
	if conn.LayerMask != 0b101 {
		t.Fatalf("want conn.LayerMask=0b101, got %b", conn.LayerMask)
	}
}

func TestSetLayerMaskRejectsWhenNoLegalLayerLeft(t *testing.T) {
	pin := &track.Pin{ID: "P", LayerMin: 1, LayerMax: 1}
	net := track.NewNet("n1", "NET1", track.SignalTypeSignal, nil)
	net.Pins = []*track.Pin{pin}
	conn := track.NewConnection("c1", "n1",
		track.Point{Pos: geom.Point25{X: 0, Y: 0, Z: 1}, Pin: pin},
		track.Point{Pos: geom.Point25{X: 10, Y: 0, Z: 1}},
	)
	net.Connections = []*track.Connection{conn}

	if err := SetLayerMask(net, 0b001); err != ErrNoLegalLayer {
		t.Fatalf("want ErrNoLegalLayer, got %v", err)
	}
	if net.LayerMask == 0b001 {
		t.Fatalf("rejected mask change must not be applied")
	}
}
