// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import "testing"

func TestOperatorStringKnownAndUnknown(t *testing.T) {
	if got := EqOp.String(); got != "eq" {
		t.Fatalf("got %q, want %q", got, "eq")
	}
	if got := numOperators.String(); got == "" {
		t.Fatalf("expected a non-empty fallback string for an out-of-range operator")
	}
}

func TestIsComparison(t *testing.T) {
	comparisons := []Operator{EqOp, NeOp, LtOp, GtOp, LeOp, GeOp}
	for _, op := range comparisons {
		if !op.IsComparison() {
			t.Errorf("%s should be a comparison", op)
		}
	}
	nonComparisons := []Operator{AndOp, OrOp, ConstOp, ColumnRefOp, PlusOp}
	for _, op := range nonComparisons {
		if op.IsComparison() {
			t.Errorf("%s should not be a comparison", op)
		}
	}
}

func TestIsConjunction(t *testing.T) {
	if !AndOp.IsConjunction() || !OrOp.IsConjunction() {
		t.Fatalf("AND and OR must both be conjunctions")
	}
	if EqOp.IsConjunction() {
		t.Fatalf("EQ must not be a conjunction")
	}
}

func TestIsArithmetic(t *testing.T) {
	arith := []Operator{PlusOp, MinusOp, MultOp, DivOp}
	for _, op := range arith {
		if !op.IsArithmetic() {
			t.Errorf("%s should be arithmetic", op)
		}
	}
	if EqOp.IsArithmetic() {
		t.Fatalf("EQ must not be arithmetic")
	}
}

func TestNegateComparisonIsAnInvolution(t *testing.T) {
	for _, op := range []Operator{EqOp, NeOp, LtOp, GtOp, LeOp, GeOp} {
		neg := op.NegateComparison()
		if neg.NegateComparison() != op {
			t.Fatalf("negating %s twice should return %s, got %s", op, op, neg.NegateComparison())
		}
		if neg == op {
			t.Fatalf("%s must not negate to itself", op)
		}
	}
}

func TestNegateComparisonPanicsOnNonComparison(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic negating a non-comparison operator")
		}
	}()
	AndOp.NegateComparison()
}
