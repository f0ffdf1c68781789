package actions

import "github.com/chrisbmr/pcbroute/track"

// SetLayerMask updates net's legal routing layers and every one of its
// connections' LayerMask to match. Any connection endpoint whose pin
// is no longer legal on its currently declared Z is relocated to that
// pin's first layer still legal under mask (Pin.FirstLegalLayer);
// ErrNoLegalLayer is returned, and nothing is changed, if any pin
// would be left with no legal layer at all.
func SetLayerMask(net *track.Net, mask uint32) error {
	for _, conn := range net.Connections {
		if conn.Source.Pin != nil && !conn.Source.Pin.SpansLayerUnder(mask, conn.Source.Pos.Z) {
			if _, ok := conn.Source.Pin.FirstLegalLayer(mask); !ok {
				return ErrNoLegalLayer
			}
		}
		if conn.Target.Pin != nil && !conn.Target.Pin.SpansLayerUnder(mask, conn.Target.Pos.Z) {
			if _, ok := conn.Target.Pin.FirstLegalLayer(mask); !ok {
				return ErrNoLegalLayer
			}
		}
	}

	net.LayerMask = mask
	for _, conn := range net.Connections {
		conn.LayerMask = mask
		relocateEndpoint(&conn.Source, mask)
		relocateEndpoint(&conn.Target, mask)
	}
	return nil
}

func relocateEndpoint(pt *track.Point, mask uint32) {
	if pt.Pin == nil || pt.Pin.SpansLayerUnder(mask, pt.Pos.Z) {
		return
	}
	if z, ok := pt.Pin.FirstLegalLayer(mask); ok {
		pt.Pos.Z = z
	}
}
