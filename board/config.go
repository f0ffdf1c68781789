package board

import (
	"github.com/chrisbmr/pcbroute/navgrid"
	"github.com/chrisbmr/pcbroute/track"
)

// RouterConfig collects the tunable parameters a CLI/API caller may
// override via the --config JSON document (SPEC_FULL §6,
// "Configuration"): default A* costs, RRR parameters, the cooperative
// pre-emption granularity, and the signal-type inference table.
// Mirrors the teacher's cmd/make-map JSON-config pattern, generalized
// from render config to router config.
type RouterConfig struct {
	AStarCosts navgrid.AStarCosts `json:"astarCosts"`

	RRRMinIterations         uint    `json:"rrrMinIterations"`
	RRRMaxIterations         uint    `json:"rrrMaxIterations"`
	RRRMaxIterationsStagnant uint    `json:"rrrMaxIterationsStagnant"`
	RRRNumTidyIterations     uint    `json:"rrrNumTidyIterations"`
	RRRHistoryCostDecay      float32 `json:"rrrHistoryCostDecay"`
	RRRHistoryCostIncrement  float32 `json:"rrrHistoryCostIncrement"`
	RRRHistoryCostMax        uint16  `json:"rrrHistoryCostMax"`
	RRRRandomizeOrder        bool    `json:"rrrRandomizeOrder"`

	// YieldGranularity is carried in the config but not read by any
	// code: the A* loop checks ctx on every pop and the RRR loop once
	// per iteration, and neither yields with Gosched() (spec.md §5).
	YieldGranularity int `json:"yieldGranularity"`

	// SignalPatterns overrides track.DefaultSignalPatterns for
	// net-name-based SignalType inference (spec.md §9, "tunable
	// configuration, not core policy").
	SignalPatterns []track.SignalPattern `json:"-"`
}

// DefaultRouterConfig returns the config a Board uses when none is
// supplied: unit A* costs and the RRR agent's documented defaults
// (see rrr.NewAgent).
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		AStarCosts: navgrid.AStarCosts{
			MaskedLayer:      1,
			Via:              1,
			Violation:        1,
			TurnPer45Degrees: 0,
			WrongDirection:   1,
		},
		RRRMinIterations:         1,
		RRRMaxIterations:         256,
		RRRMaxIterationsStagnant: 8,
		RRRNumTidyIterations:     2,
		RRRHistoryCostDecay:      1.0,
		RRRHistoryCostIncrement:  1.0 / 16.0,
		RRRHistoryCostMax:        0xfffe,
		YieldGranularity:         0,
		SignalPatterns:           track.DefaultSignalPatterns,
	}
}
