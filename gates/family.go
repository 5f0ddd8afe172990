// Package gates provides the concrete gate families: string, string
// comparison, numeric, numeric comparison and logical gates.
package gates

import (
	"errors"
	"fmt"
	"sort"

	"github.com/creastat/gate"
	"github.com/creastat/gate/behaviour"
	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
)

// ErrUnknownFunction is returned when a family has no function of the requested name
var ErrUnknownFunction = errors.New("unknown gate function")

// Property names shared by every gate family
const (
	PropertyLHS    = "lhs"
	PropertyRHS    = "rhs"
	PropertyResult = "result"
)

func schema(operandDefault, resultDefault core.Value) core.GateSchema {
	return core.GateSchema{
		LHS:    core.PropertyDefinition{Name: PropertyLHS, Default: operandDefault},
		RHS:    core.PropertyDefinition{Name: PropertyRHS, Default: operandDefault},
		Result: core.PropertyDefinition{Name: PropertyResult, Default: resultDefault},
	}
}

// Family is a set of gates sharing operand type, schema and decoder, which
// differ only by their function
type Family[T, R any] struct {
	Name      string
	Schema    core.GateSchema
	Decode    gate.Decoder[T]
	Functions map[string]gate.Function[T, R]
}

// Names returns the family's function names in sorted order
func (f Family[T, R]) Names() []string {
	names := make([]string, 0, len(f.Functions))
	for name := range f.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the gate configuration of the named function
func (f Family[T, R]) Config(name string, opts behaviour.Options) (gate.Config[T, R], error) {
	fn, ok := f.Functions[name]
	if !ok {
		return gate.Config[T, R]{}, fmt.Errorf("%s gate %q: %w", f.Name, name, ErrUnknownFunction)
	}
	return gate.Config[T, R]{
		Schema:   f.Schema,
		Function: fn,
		Decode:   f.Decode,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	}, nil
}

// New creates the named gate on e
func (f Family[T, R]) New(e *entity.ReactiveEntityInstance, name string, opts behaviour.Options) (*gate.Gate[T, R], error) {
	config, err := f.Config(name, opts)
	if err != nil {
		return nil, err
	}
	return gate.New(e, config)
}

// NewEntity creates an entity of the named type whose properties hold the
// family's defaults
func (f Family[T, R]) NewEntity(name string) *entity.ReactiveEntityInstance {
	properties := make(map[string]core.Value, 3)
	for _, def := range f.Schema.Definitions() {
		properties[def.Name] = def.Default
	}
	return entity.NewReactiveEntityInstance(name, properties)
}

// Register adds one behaviour per function to r
func (f Family[T, R]) Register(r *behaviour.Registry) error {
	for _, name := range f.Names() {
		name := name
		err := r.Register(name, func(e *entity.ReactiveEntityInstance, opts behaviour.Options) (core.Disconnectable, error) {
			g, err := f.New(e, name, opts)
			if err != nil {
				return nil, err
			}
			return g, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll registers every gate family
func RegisterAll(r *behaviour.Registry) error {
	registrations := []func(*behaviour.Registry) error{
		Strings.Register,
		StringComparisons.Register,
		Numbers.Register,
		NumberComparisons.Register,
		Logical.Register,
	}
	for _, register := range registrations {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}
