package actions

import "errors"

// ErrNoPath names the "no path found" outcome. No action in this
// package returns it: AStarConnect and AStarToPoint report an
// exhausted search as (false, nil).
var ErrNoPath = errors.New("actions: no path found")

// ErrAlreadyRouted names the "connection already routed" outcome. No
// action in this package returns it: AStarConnect unroutes the
// connection first, and SegmentToPoint appends to its tracks.
var ErrAlreadyRouted = errors.New("actions: connection already routed")

// ErrNotRouted is returned by Unroute/UnrouteSegment when the
// connection holds no track.
var ErrNotRouted = errors.New("actions: connection not routed")

// ErrLayerChangeNeedsVia is returned by SegmentToPoint when p0 and p1
// sit on different layers but the caller passed ViaLocationNone.
var ErrLayerChangeNeedsVia = errors.New("actions: layer change requires a via")

// ErrNoLegalLayer is returned by SetLayerMask when a pin has no layer
// left in [LayerMin, LayerMax] under the new mask.
var ErrNoLegalLayer = errors.New("actions: pin has no legal layer under mask")

// ErrLocked is returned by any mutating action on a Connection whose
// Locked field is set.
var ErrLocked = errors.New("actions: connection is locked")

// ErrEmptyTrim is returned by UnrouteSegment when popping the end
// piece of the chosen track fails because that track holds no pieces.
// UnrouteSegment checks up front only that the connection holds at
// least one track, not that the track is non-empty.
var ErrEmptyTrim = errors.New("actions: track already empty")
