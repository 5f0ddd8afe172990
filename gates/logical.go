package gates

import "github.com/creastat/gate"

// Logical combine two booleans
var Logical = Family[bool, bool]{
	Name:   "logical",
	Schema: schema(false, false),
	Decode: DecodeBool,
	Functions: map[string]gate.Function[bool, bool]{
		"and":  func(lhs, rhs bool) bool { return lhs && rhs },
		"or":   func(lhs, rhs bool) bool { return lhs || rhs },
		"xor":  func(lhs, rhs bool) bool { return lhs != rhs },
		"nand": func(lhs, rhs bool) bool { return !(lhs && rhs) },
		"nor":  func(lhs, rhs bool) bool { return !(lhs || rhs) },
		"xnor": func(lhs, rhs bool) bool { return lhs == rhs },
	},
}
