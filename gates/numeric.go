package gates

import (
	"math"

	"github.com/creastat/gate"
)

// Numbers derive a number from two numbers
var Numbers = Family[float64, float64]{
	Name:   "numeric",
	Schema: schema(0.0, 0.0),
	Decode: DecodeNumber,
	Functions: map[string]gate.Function[float64, float64]{
		"add": func(lhs, rhs float64) float64 { return lhs + rhs },
		"sub": func(lhs, rhs float64) float64 { return lhs - rhs },
		"mul": func(lhs, rhs float64) float64 { return lhs * rhs },
		// Division by zero yields 0
		"div": func(lhs, rhs float64) float64 {
			if rhs == 0 {
				return 0
			}
			return lhs / rhs
		},
		"mod": func(lhs, rhs float64) float64 {
			if rhs == 0 {
				return 0
			}
			return math.Mod(lhs, rhs)
		},
		"max": math.Max,
		"min": math.Min,
		"pow": math.Pow,
	},
}

// NumberComparisons compare two numbers
var NumberComparisons = Family[float64, bool]{
	Name:   "numeric comparison",
	Schema: schema(0.0, false),
	Decode: DecodeNumber,
	Functions: map[string]gate.Function[float64, bool]{
		"equals":                 func(lhs, rhs float64) bool { return lhs == rhs },
		"not_equals":             func(lhs, rhs float64) bool { return lhs != rhs },
		"greater_than":           func(lhs, rhs float64) bool { return lhs > rhs },
		"greater_than_or_equals": func(lhs, rhs float64) bool { return lhs >= rhs },
		"less_than":              func(lhs, rhs float64) bool { return lhs < rhs },
		"less_than_or_equals":    func(lhs, rhs float64) bool { return lhs <= rhs },
	},
}
