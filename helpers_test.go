package gate

import (
	"fmt"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/infra/telemetry"
)

func testLogger() telemetry.Logger {
	return telemetry.New(telemetry.Config{Level: "error"})
}

func decodeString(v core.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func decodeNumber(v core.Value) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return f, nil
}

var testSchema = core.GateSchema{
	LHS:    core.PropertyDefinition{Name: "lhs", Default: ""},
	RHS:    core.PropertyDefinition{Name: "rhs", Default: ""},
	Result: core.PropertyDefinition{Name: "result", Default: ""},
}

var numberSchema = core.GateSchema{
	LHS:    core.PropertyDefinition{Name: "lhs", Default: 0.0},
	RHS:    core.PropertyDefinition{Name: "rhs", Default: 0.0},
	Result: core.PropertyDefinition{Name: "result", Default: false},
}

func newConcatEntity() *entity.ReactiveEntityInstance {
	return entity.NewReactiveEntityInstance("concat", map[string]core.Value{
		"lhs":    "",
		"rhs":    "",
		"result": "",
	})
}

func concatConfig() Config[string, string] {
	return Config[string, string]{
		Schema:   testSchema,
		Function: func(lhs, rhs string) string { return lhs + rhs },
		Decode:   decodeString,
		Logger:   testLogger(),
	}
}
