package core

// Value is a property value in JSON shape: string, float64, bool, nil,
// []any or map[string]any. Integer kinds are tolerated by numeric decoders.
type Value = any

// OperatorPosition identifies which input of a gate an event belongs to
type OperatorPosition string

const (
	LHS OperatorPosition = "lhs"
	RHS OperatorPosition = "rhs"
)

// EventType categorizes events leaving the property graph
type EventType string

const (
	EventTypePropertyChanged EventType = "property_changed"
	EventTypeError           EventType = "error"
)

// PropertyDefinition names a property and the default a gate falls back to
// when a pushed value cannot be decoded
type PropertyDefinition struct {
	Name    string
	Default Value
}

// GateSchema describes the three properties a gate is wired against
type GateSchema struct {
	LHS    PropertyDefinition
	RHS    PropertyDefinition
	Result PropertyDefinition
}

// Definitions returns the schema's property definitions in LHS, RHS, RESULT order
func (s GateSchema) Definitions() []PropertyDefinition {
	return []PropertyDefinition{s.LHS, s.RHS, s.Result}
}

// Disconnectable is implemented by behaviours that hold a registration on
// an entity's property streams
type Disconnectable interface {
	Disconnect()
}
