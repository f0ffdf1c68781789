package track

import "regexp"

// SignalType is a bitflag classification of a net's electrical role.
type SignalType uint8

const (
	SignalTypeSignal SignalType = 1 << iota
	SignalTypePower
	SignalTypeGround
	SignalTypeUser
)

// SignalPattern pairs a name-matching regex with the SignalType it
// implies, used to infer a net's type when not given explicitly.
// Kept as data rather than hardcoded logic per the project's decision
// to treat signal-type inference as tunable configuration, not core
// policy (see DESIGN.md, Open Question 3).
type SignalPattern struct {
	Pattern *regexp.Regexp
	Type    SignalType
}

// DefaultSignalPatterns is the built-in net-name inference table:
// GND*/*GND* -> ground, VCC*/+<N>V* -> power, everything else ->
// signal. Board construction may override this via
// RouterConfig.SignalPatterns.
var DefaultSignalPatterns = []SignalPattern{
	{regexp.MustCompile(`(?i)^gnd`), SignalTypeGround},
	{regexp.MustCompile(`(?i)gnd$`), SignalTypeGround},
	{regexp.MustCompile(`(?i)^vcc`), SignalTypePower},
	{regexp.MustCompile(`^\+?\d+(\.\d+)?V`), SignalTypePower},
}

// InferSignalType returns the SignalType implied by name under
// patterns, or SignalTypeSignal if none match.
func InferSignalType(name string, patterns []SignalPattern) SignalType {
	for _, p := range patterns {
		if p.Pattern.MatchString(name) {
			return p.Type
		}
	}
	return SignalTypeSignal
}

// Net is a set of pins that must be electrically connected.
type Net struct {
	ID         string
	Name       string
	SignalType SignalType
	Pins       []*Pin
	Connections []*Connection
	Rules      DesignRules
	LayerMask  uint32
}

// NewNet creates a Net, inferring SignalType from name if signalType
// is zero.
func NewNet(id, name string, signalType SignalType, patterns []SignalPattern) *Net {
	if signalType == 0 {
		signalType = InferSignalType(name, patterns)
	}
	return &Net{ID: id, Name: name, SignalType: signalType, LayerMask: ^uint32(0)}
}
