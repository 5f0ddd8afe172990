package gates

import (
	"strings"

	"github.com/creastat/gate"
)

// Strings derive a string from two strings
var Strings = Family[string, string]{
	Name:   "string",
	Schema: schema("", ""),
	Decode: DecodeString,
	Functions: map[string]gate.Function[string, string]{
		"concat":  func(lhs, rhs string) string { return lhs + rhs },
		"prepend": func(lhs, rhs string) string { return rhs + lhs },
		"join_space": func(lhs, rhs string) string {
			switch {
			case lhs == "":
				return rhs
			case rhs == "":
				return lhs
			}
			return lhs + " " + rhs
		},
	},
}

// StringComparisons compare two strings
var StringComparisons = Family[string, bool]{
	Name:   "string comparison",
	Schema: schema("", false),
	Decode: DecodeString,
	Functions: map[string]gate.Function[string, bool]{
		"string_equals":     func(lhs, rhs string) bool { return lhs == rhs },
		"string_not_equals": func(lhs, rhs string) bool { return lhs != rhs },
		"contains":          strings.Contains,
		"starts_with":       strings.HasPrefix,
		"ends_with":         strings.HasSuffix,
	},
}
