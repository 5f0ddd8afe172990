// Package gate implements reactive gates: nodes that derive a result
// property from two input properties of a host entity through a pure
// function, re-deriving it whenever either input changes.
//
// The implementation is realized using push streams: the input property
// streams are tagged, merged, folded into an Expression and mapped through
// the gate's Function. An observer registered under the result property's
// id writes every derived value back into the entity.
package gate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/gate/stream"
	"github.com/creastat/infra/telemetry"
)

// Function derives a gate's result from its two operands. It must be pure.
type Function[T, R any] func(lhs, rhs T) R

// Decoder converts a property value into the gate's operand type. A decode
// error is never surfaced: the side's default is used instead.
type Decoder[T any] func(v core.Value) (T, error)

// Config holds gate configuration
type Config[T, R any] struct {
	Schema   core.GateSchema
	Function Function[T, R]
	Decode   Decoder[T]
	// Encode converts a result into a property value. Defaults to storing R as is.
	Encode  func(R) core.Value
	Logger  telemetry.Logger
	Metrics *metrics.Metrics
}

func (c Config[T, R]) validate() error {
	if c.Function == nil {
		return errors.New("gate function must be set")
	}
	if c.Decode == nil {
		return errors.New("gate decoder must be set")
	}
	if c.Logger == nil {
		return errors.New("gate logger must be set")
	}
	return nil
}

// Gate is a generic gate with two inputs (LHS, RHS) and one result
type Gate[T, R any] struct {
	mu        sync.RWMutex
	entity    *entity.ReactiveEntityInstance
	schema    core.GateSchema
	pipeline  *pipeline[T, R]
	handleID  stream.HandleID
	connected bool
	logger    telemetry.Logger
	metrics   *metrics.Metrics
}

// New wires a gate against the host entity and registers its result
// observer. It fails with a ValidationError, without registering anything,
// when the entity does not match the schema.
func New[T, R any](e *entity.ReactiveEntityInstance, config Config[T, R]) (*Gate[T, R], error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid gate config: %w", err)
	}

	lhsDefault, rhsDefault, err := ValidateSchema(e, config.Schema, config.Decode)
	if err != nil {
		return nil, err
	}

	lhs, _ := e.Property(config.Schema.LHS.Name)
	rhs, _ := e.Property(config.Schema.RHS.Name)
	result, _ := e.Property(config.Schema.Result.Name)

	encode := config.Encode
	if encode == nil {
		encode = func(r R) core.Value { return r }
	}

	g := &Gate[T, R]{
		entity:   e,
		schema:   config.Schema,
		handleID: result.ID,
		logger:   config.Logger.WithModule("gate"),
		metrics:  config.Metrics,
	}

	g.pipeline = buildPipeline(pipelineConfig[T, R]{
		lhs:        lhs.Stream(),
		rhs:        rhs.Stream(),
		lock:       &g.mu,
		decode:     config.Decode,
		lhsDefault: lhsDefault,
		rhsDefault: rhsDefault,
		f:          config.Function,
		onFallback: g.onDecodeFallback,
	})

	// Connect the derived stream with the result property
	g.pipeline.derived.ObserveWithHandle(g.handleID, func(r R) {
		v := encode(r)
		g.logger.Debug("Setting result of gate",
			telemetry.String("type", e.TypeName),
			telemetry.String("result", fmt.Sprint(v)))
		result.Set(v)
		g.metrics.RecordPropagation(e.TypeName)
	})

	g.connected = true
	g.metrics.GateConnected(e.TypeName)
	g.logger.Debug("Gate connected",
		telemetry.String("type", e.TypeName),
		telemetry.String("handle_id", g.handleID.String()))

	return g, nil
}

// MustNew is like New but panics on a schema mismatch. Use it where the
// entity's schema was already validated and a mismatch is a defect.
func MustNew[T, R any](e *entity.ReactiveEntityInstance, config Config[T, R]) *Gate[T, R] {
	g, err := New(e, config)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Gate[T, R]) onDecodeFallback(side core.OperatorPosition, v core.Value, err error) {
	g.logger.Debug("Undecodable operand replaced by default",
		telemetry.String("type", g.entity.TypeName),
		telemetry.String("side", string(side)),
		telemetry.String("value", fmt.Sprintf("%v", v)),
		telemetry.Err(err))
	g.metrics.RecordDecodeFallback(g.entity.TypeName, side)
}

// SetLHS writes the left operand into the host entity
func (g *Gate[T, R]) SetLHS(v core.Value) {
	g.entity.Set(g.schema.LHS.Name, v)
}

// SetRHS writes the right operand into the host entity
func (g *Gate[T, R]) SetRHS(v core.Value) {
	g.entity.Set(g.schema.RHS.Name, v)
}

// Result reads the result property of the host entity
func (g *Gate[T, R]) Result() core.Value {
	v, _ := g.entity.Get(g.schema.Result.Name)
	return v
}

// Expression returns the last folded operand state
func (g *Gate[T, R]) Expression() core.Expression[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pipeline.state
}

// TypeName returns the host entity's type name
func (g *Gate[T, R]) TypeName() string {
	return g.entity.TypeName
}

// Entity returns the host entity
func (g *Gate[T, R]) Entity() *entity.ReactiveEntityInstance {
	return g.entity
}

// HandleID returns the id the result observer is registered under
func (g *Gate[T, R]) HandleID() stream.HandleID {
	return g.handleID
}

// Connected reports whether the result observer is registered
func (g *Gate[T, R]) Connected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected
}

// Disconnect removes the result observer and releases the pipeline's
// registrations on the entity's property streams. When it returns no
// propagation is in flight and the result property is never written by this
// gate again. Calling it on a disconnected gate is a no-op.
//
// Disconnect must not be called from inside the gate's own propagation.
func (g *Gate[T, R]) Disconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		g.logger.Trace("Gate already disconnected",
			telemetry.String("type", g.entity.TypeName),
			telemetry.String("handle_id", g.handleID.String()))
		return
	}

	g.logger.Debug("Disconnect gate",
		telemetry.String("type", g.entity.TypeName),
		telemetry.String("handle_id", g.handleID.String()))

	g.pipeline.derived.Remove(g.handleID)
	g.pipeline.close()
	g.connected = false
	g.metrics.GateDisconnected(g.entity.TypeName)
}

// Close disconnects the gate. It allows `defer g.Close()` on every exit path.
func (g *Gate[T, R]) Close() error {
	g.Disconnect()
	return nil
}
