// Package astar implements the A* pathfinder that searches the
// navigation grid for a minimum-cost path between a connection's
// endpoints. The search runs in reverse (target to source) so that
// reconstruction, which walks back-edges from the cell carrying the
// TARGET flag to the cell carrying the SOURCE flag, naturally
// produces a path ordered source to target.
package astar

import "errors"

// ErrUnroutable is returned when the open list is exhausted without
// reaching the source. Not fatal: the caller's grid state is
// unchanged (endpoint markings are always restored).
var ErrUnroutable = errors.New("astar: unroutable")

// ErrTrapped is returned by the bounded trap-check pass when its
// expansion budget runs out before the source is reached; FindPath
// then runs the unbounded pass. A bounded pass whose open list
// empties (the target sealed into a pocket) returns ErrUnroutable
// directly, without the unbounded pass.
var ErrTrapped = errors.New("astar: trapped")
