package board

import "fmt"

// InputError reports a board description that violates the input
// schema: overlapping same-net-independent pins, a pin outside the
// layout area under strict mode, a zero-length bounding box, negative
// rules. Propagates to the API boundary.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("board: input error: %s", e.Reason) }

// RuleError reports a requested track that violates its net's design
// rules (width, via diameter, legal layer, layout-area containment).
// Surfaced by actions.ValidateTrack as a bitmask; wrapped here for
// callers that want an error value instead.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string { return fmt.Sprintf("board: rule violation: %s", e.Reason) }

// InvariantError reports programmer error or internal corruption:
// track endpoint/segment-list inconsistency, a rasterization count
// already set, asymmetric keep-out counters. Fatal — there is no
// valid caller path back to a non-corrupt state, unlike RuleError.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("board: invariant violated: %s", e.Reason)
}

// ErrTimeout is returned when a routing deadline is exceeded; any
// in-progress route is unrolled and the last completed state is
// preserved.
var ErrTimeout = fmt.Errorf("board: routing deadline exceeded")

// ErrUnroutable is returned when a requested connection could not be
// routed at all (A* exhausted the open list, or RRR could not
// converge). Reported, not fatal.
var ErrUnroutable = fmt.Errorf("board: connection could not be routed")
