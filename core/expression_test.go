package core

import (
	"testing"

	"pgregory.net/rapid"
)

// For any interleaving of LHS and RHS updates, the expression SHALL hold the
// last value pushed on each side, or the default if that side never fired.
func TestPropertyExpressionLastValuePerSide(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lhsDefault := rapid.Int().Draw(rt, "lhsDefault")
		rhsDefault := rapid.Int().Draw(rt, "rhsDefault")
		updates := rapid.SliceOf(rapid.Custom(func(t *rapid.T) TaggedValue[int] {
			pos := rapid.SampledFrom([]OperatorPosition{LHS, RHS}).Draw(t, "position")
			return TaggedValue[int]{Position: pos, Value: rapid.Int().Draw(t, "value")}
		})).Draw(rt, "updates")

		wantLHS, wantRHS := lhsDefault, rhsDefault
		state := NewExpression(lhsDefault, rhsDefault)
		for _, u := range updates {
			state = state.Apply(u)
			if u.Position == LHS {
				wantLHS = u.Value
			} else {
				wantRHS = u.Value
			}
		}

		if state.LHS != wantLHS {
			rt.Fatalf("LHS = %d, want %d", state.LHS, wantLHS)
		}
		if state.RHS != wantRHS {
			rt.Fatalf("RHS = %d, want %d", state.RHS, wantRHS)
		}
	})
}

// For any single update, the untouched side SHALL be carried over unchanged.
func TestPropertyExpressionApplyTouchesOneSide(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		state := NewExpression(rapid.String().Draw(rt, "lhs"), rapid.String().Draw(rt, "rhs"))
		v := rapid.String().Draw(rt, "value")

		left := state.Apply(TaggedValue[string]{Position: LHS, Value: v})
		if left.LHS != v || left.RHS != state.RHS {
			rt.Fatalf("LHS update produced %+v from %+v", left, state)
		}

		right := state.Apply(TaggedValue[string]{Position: RHS, Value: v})
		if right.RHS != v || right.LHS != state.LHS {
			rt.Fatalf("RHS update produced %+v from %+v", right, state)
		}
	})
}

func TestExpressionApplyUnknownPosition(t *testing.T) {
	state := NewExpression("a", "b")
	got := state.Apply(TaggedValue[string]{Position: "middle", Value: "x"})
	if got != state {
		t.Errorf("unknown position changed state to %+v", got)
	}
}

func TestEventTypes(t *testing.T) {
	if (PropertyChangedEvent{}).EventType() != EventTypePropertyChanged {
		t.Error("PropertyChangedEvent returned wrong type")
	}
	if (ErrorEvent{}).EventType() != EventTypeError {
		t.Error("ErrorEvent returned wrong type")
	}
}

func TestGateSchemaDefinitionsOrder(t *testing.T) {
	s := GateSchema{
		LHS:    PropertyDefinition{Name: "lhs"},
		RHS:    PropertyDefinition{Name: "rhs"},
		Result: PropertyDefinition{Name: "result"},
	}
	defs := s.Definitions()
	if len(defs) != 3 || defs[0].Name != "lhs" || defs[1].Name != "rhs" || defs[2].Name != "result" {
		t.Errorf("unexpected definitions: %+v", defs)
	}
}
