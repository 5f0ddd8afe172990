package gate

import (
	"sync"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/stream"
)

type closer interface {
	Close()
}

// pipelineConfig holds everything needed to wire one gate's streams
type pipelineConfig[T, R any] struct {
	lhs        *stream.Stream[core.Value]
	rhs        *stream.Stream[core.Value]
	lock       sync.Locker
	decode     Decoder[T]
	lhsDefault T
	rhsDefault T
	f          Function[T, R]
	onFallback func(side core.OperatorPosition, v core.Value, err error)
}

// pipeline is the tag → merge → fold → map chain of a gate
type pipeline[T, R any] struct {
	merged     *stream.Stream[core.TaggedValue[T]]
	expression *stream.Stream[core.Expression[T]]
	derived    *stream.Stream[R]

	// stages in downstream-first order, closed in that order
	stages []closer

	// last folded state, written under the gate lock
	state core.Expression[T]
}

// buildPipeline wires the two property streams into a derived result stream.
// Both inputs are synchronized on config.lock, so one push runs the whole
// chain to completion before any other push on the same gate starts.
func buildPipeline[T, R any](config pipelineConfig[T, R]) *pipeline[T, R] {
	lhsSync := stream.Synchronize(config.lhs, config.lock)
	rhsSync := stream.Synchronize(config.rhs, config.lock)

	lhs := stream.Map(lhsSync, tagger(core.LHS, config.decode, config.lhsDefault, config.onFallback))
	rhs := stream.Map(rhsSync, tagger(core.RHS, config.decode, config.rhsDefault, config.onFallback))

	merged := stream.Merge(lhs, rhs)

	initial := core.NewExpression(config.lhsDefault, config.rhsDefault)
	expression := stream.Fold(merged, initial, core.Expression[T].Apply)

	p := &pipeline[T, R]{
		merged:     merged,
		expression: expression,
		state:      initial,
	}
	expression.Observe(func(state core.Expression[T]) {
		p.state = state
	})

	f := config.f
	p.derived = stream.Map(expression, func(state core.Expression[T]) R {
		return f(state.LHS, state.RHS)
	})

	p.stages = []closer{p.derived, expression, merged, lhs, rhs, lhsSync, rhsSync}
	return p
}

// tagger decodes a pushed value for one side, substituting the side default
// when the value has an unexpected shape
func tagger[T any](side core.OperatorPosition, decode Decoder[T], def T, onFallback func(core.OperatorPosition, core.Value, error)) func(core.Value) core.TaggedValue[T] {
	return func(v core.Value) core.TaggedValue[T] {
		decoded, err := decode(v)
		if err != nil {
			if onFallback != nil {
				onFallback(side, v, err)
			}
			decoded = def
		}
		return core.TaggedValue[T]{Position: side, Value: decoded}
	}
}

// close releases every stage's registration, ending with the ones held on
// the host's property streams
func (p *pipeline[T, R]) close() {
	for _, s := range p.stages {
		s.Close()
	}
}
