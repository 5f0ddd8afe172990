package core

// TaggedValue is the unit flowing through a gate's merged stream
type TaggedValue[T any] struct {
	Position OperatorPosition
	Value    T
}

// Expression holds the last known value of both operator positions.
// Every side is either its default or the most recently observed value.
type Expression[T any] struct {
	LHS T
	RHS T
}

// NewExpression creates an expression from the two side defaults
func NewExpression[T any](lhs, rhs T) Expression[T] {
	return Expression[T]{LHS: lhs, RHS: rhs}
}

// WithLHS returns a copy with the left side replaced
func (e Expression[T]) WithLHS(v T) Expression[T] {
	e.LHS = v
	return e
}

// WithRHS returns a copy with the right side replaced
func (e Expression[T]) WithRHS(v T) Expression[T] {
	e.RHS = v
	return e
}

// Apply replaces the side named by the tag and carries the other one over.
// Later arrivals always win regardless of value ordering.
func (e Expression[T]) Apply(tv TaggedValue[T]) Expression[T] {
	switch tv.Position {
	case LHS:
		return e.WithLHS(tv.Value)
	case RHS:
		return e.WithRHS(tv.Value)
	}
	return e
}
