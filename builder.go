package gate

import (
	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/infra/telemetry"
)

// Builder constructs gates with a fluent API
type Builder[T, R any] struct {
	config Config[T, R]
}

// NewBuilder creates a new gate builder
func NewBuilder[T, R any]() *Builder[T, R] {
	return &Builder[T, R]{}
}

// WithSchema sets the LHS, RHS and RESULT property definitions
func (b *Builder[T, R]) WithSchema(schema core.GateSchema) *Builder[T, R] {
	b.config.Schema = schema
	return b
}

// WithProperties sets the property names and side defaults of the schema
func (b *Builder[T, R]) WithProperties(lhs, rhs, result string, lhsDefault, rhsDefault core.Value) *Builder[T, R] {
	b.config.Schema = core.GateSchema{
		LHS:    core.PropertyDefinition{Name: lhs, Default: lhsDefault},
		RHS:    core.PropertyDefinition{Name: rhs, Default: rhsDefault},
		Result: core.PropertyDefinition{Name: result},
	}
	return b
}

// WithFunction sets the function deriving the result
func (b *Builder[T, R]) WithFunction(f Function[T, R]) *Builder[T, R] {
	b.config.Function = f
	return b
}

// WithDecoder sets the operand decoder
func (b *Builder[T, R]) WithDecoder(decode Decoder[T]) *Builder[T, R] {
	b.config.Decode = decode
	return b
}

// WithEncoder sets the result encoder
func (b *Builder[T, R]) WithEncoder(encode func(R) core.Value) *Builder[T, R] {
	b.config.Encode = encode
	return b
}

// WithLogger sets the logger
func (b *Builder[T, R]) WithLogger(logger telemetry.Logger) *Builder[T, R] {
	b.config.Logger = logger
	return b
}

// WithMetrics sets the metrics sink
func (b *Builder[T, R]) WithMetrics(m *metrics.Metrics) *Builder[T, R] {
	b.config.Metrics = m
	return b
}

// Config returns the configuration assembled so far
func (b *Builder[T, R]) Config() Config[T, R] {
	return b.config
}

// Build creates the gate against the host entity
func (b *Builder[T, R]) Build(e *entity.ReactiveEntityInstance) (*Gate[T, R], error) {
	return New(e, b.config)
}
