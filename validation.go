package gate

import (
	"errors"
	"fmt"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
)

var (
	// ErrMissingProperty is wrapped by a ValidationError when the host entity
	// lacks one of the gate's properties
	ErrMissingProperty = errors.New("missing property")

	// ErrInvalidSchema is wrapped by a ValidationError when the gate schema
	// itself is inconsistent
	ErrInvalidSchema = errors.New("invalid gate schema")
)

// ValidationError represents a schema mismatch between a gate and its host entity
type ValidationError struct {
	Message string
	Details string
	Err     error
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidateSchema checks that e carries every property named by schema and
// that the side defaults decode into the operand type. It returns the
// decoded LHS and RHS defaults.
func ValidateSchema[T any](e *entity.ReactiveEntityInstance, schema core.GateSchema, decode Decoder[T]) (T, T, error) {
	var zero T

	if e == nil {
		return zero, zero, ValidationError{
			Message: "gate validation failed",
			Details: "no host entity",
			Err:     ErrInvalidSchema,
		}
	}

	// Check that every property is named and present
	for _, def := range schema.Definitions() {
		if def.Name == "" {
			return zero, zero, ValidationError{
				Message: "gate validation failed",
				Details: "schema contains an unnamed property",
				Err:     ErrInvalidSchema,
			}
		}
		if !e.Has(def.Name) {
			return zero, zero, ValidationError{
				Message: "gate validation failed",
				Details: fmt.Sprintf("entity %s of type %q has no property %q", e.ID, e.TypeName, def.Name),
				Err:     ErrMissingProperty,
			}
		}
	}

	// A result written into one of its own inputs would re-enter the gate
	if schema.Result.Name == schema.LHS.Name || schema.Result.Name == schema.RHS.Name {
		return zero, zero, ValidationError{
			Message: "gate validation failed",
			Details: fmt.Sprintf("result property %q is also an input", schema.Result.Name),
			Err:     ErrInvalidSchema,
		}
	}

	lhsDefault, err := decode(schema.LHS.Default)
	if err != nil {
		return zero, zero, ValidationError{
			Message: "gate validation failed",
			Details: fmt.Sprintf("default of %q: %v", schema.LHS.Name, err),
			Err:     ErrInvalidSchema,
		}
	}

	rhsDefault, err := decode(schema.RHS.Default)
	if err != nil {
		return zero, zero, ValidationError{
			Message: "gate validation failed",
			Details: fmt.Sprintf("default of %q: %v", schema.RHS.Name, err),
			Err:     ErrInvalidSchema,
		}
	}

	return lhsDefault, rhsDefault, nil
}
