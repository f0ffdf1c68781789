// Package rrr implements an automatic rip-up-and-reroute agent, after
// Pathfinder [McMurchie and Ebeling, 1995]: connections are routed
// allowing temporary overlap, biased away from repeatedly-congested
// cells by a decaying history cost, until either every connection
// stops overlapping or the agent gives up and restores its best
// result seen so far.
package rrr

import (
	"errors"

	"github.com/chrisbmr/pcbroute/navgrid"
)

// ErrHistoryCostIncrementNegative is returned by
// Agent.SetHistoryCostIncrement for a negative value.
var ErrHistoryCostIncrementNegative = errors.New("rrr: history cost increment must be non-negative")

// ErrHistoryCostDecayRange is returned by Agent.SetHistoryCostDecay
// for a value outside [0, 1].
var ErrHistoryCostDecayRange = errors.New("rrr: history cost decay must be in [0, 1]")

// ErrHistoryCostMaxTooLarge is returned by
// Agent.SetHistoryCostMaxIncrements for a value above 0xfffe (0xffff
// is reserved the same way openBit is reserved in navgrid's epoch
// counters: it leaves room to add 1 before clamping without wrapping).
var ErrHistoryCostMaxTooLarge = errors.New("rrr: history cost max increments must be <= 0xfffe")

// Agent holds one RRR run's tunable parameters. Defaults match the
// original RRRAgent's field initializers exactly.
type Agent struct {
	MinIterations            uint
	MaxIterations             uint
	MaxIterationsStagnant     uint
	NumTidyIterations         uint
	CheckStagnationBeforeSuccess bool
	RandomizeOrder            bool

	HistoryCostDecay         float32
	HistoryCostIncrement     float32
	HistoryCostMaxIncrements uint16

	Costs navgrid.AStarCosts
}

// NewAgent returns an Agent with the original's default parameters.
func NewAgent() *Agent {
	a := &Agent{
		MinIterations:         1,
		MaxIterations:         256,
		MaxIterationsStagnant: 8,
		NumTidyIterations:     2,
		HistoryCostDecay:      1.0,
		HistoryCostIncrement:  1.0 / 16.0,
		HistoryCostMaxIncrements: 0xfffe,
	}
	a.Costs.MaskedLayer = 1
	a.Costs.Via = 1
	a.Costs.Violation = 1
	a.Costs.WrongDirection = 1
	return a
}

// SetHistoryCostIncrement validates and sets HistoryCostIncrement.
func (a *Agent) SetHistoryCostIncrement(v float32) error {
	if v < 0 {
		return ErrHistoryCostIncrementNegative
	}
	a.HistoryCostIncrement = v
	return nil
}

// SetHistoryCostDecay validates and sets HistoryCostDecay.
func (a *Agent) SetHistoryCostDecay(v float32) error {
	if v < 0 || v > 1 {
		return ErrHistoryCostDecayRange
	}
	a.HistoryCostDecay = v
	return nil
}

// SetHistoryCostMaxIncrements validates and sets HistoryCostMaxIncrements.
func (a *Agent) SetHistoryCostMaxIncrements(v uint16) error {
	if v > 0xfffe {
		return ErrHistoryCostMaxTooLarge
	}
	a.HistoryCostMaxIncrements = v
	return nil
}
