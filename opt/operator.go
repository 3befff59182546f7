// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package opt defines the closed set of scalar expression operators shared
// by the memo, pattern, rules, and task packages. It plays the same role in
// this module as github.com/cockroachdb/cockroach/pkg/sql/opt plays for the
// full optimizer: a small, dependency-free vocabulary that every other
// package imports.
package opt

import "fmt"

// Operator identifies the kind of a scalar expression node. It is a closed
// enum: every operator this engine knows about is listed here, and the
// rewrite rules switch over it exhaustively rather than relying on dynamic
// dispatch.
type Operator uint8

// The full operator vocabulary. Comparison operators are broken out
// individually (rather than folded into a single ComparisonOp with an
// operator payload), so a pattern names one exact comparison operator and
// IsComparison classifies them without inspecting a private field.
const (
	UnknownOp Operator = iota

	// ConstOp is a leaf holding a typed constant value.
	ConstOp

	// ColumnRefOp is a leaf referencing a (table, column) pair, optionally
	// resolved to a numeric column id by an external catalog.
	ColumnRefOp

	// StarOp is the zero-arity "*" leaf, as in COUNT(*).
	StarOp

	// -- Comparisons; each has exactly two children. --
	EqOp
	NeOp
	LtOp
	GtOp
	LeOp
	GeOp

	// -- Conjunctions; each has exactly two children. --
	AndOp
	OrOp

	// -- Arithmetic; each has exactly two children. --
	PlusOp
	MinusOp
	MultOp
	DivOp

	// UnaryMinusOp negates its single child.
	UnaryMinusOp

	// AggregateOp has one child (its argument) and carries an AggregateDef
	// private describing which aggregate function and its DISTINCT flag.
	AggregateOp

	// FunctionOp has one child per argument and carries a FunctionDef
	// private naming the function.
	FunctionOp

	// CaseOp is a searched CASE expression: children are ordered
	// (when1, then1, when2, then2, ..., [else]).
	CaseOp

	// SubqueryOp wraps an opaque, uninterpreted subplan supplied by the
	// relational planner. The rewrite engine never looks inside it; see
	// memo.Memo.Rebuild for how it is copied through verbatim.
	SubqueryOp

	numOperators
)

var operatorNames = [numOperators]string{
	UnknownOp:     "unknown",
	ConstOp:       "const",
	ColumnRefOp:   "column-ref",
	StarOp:        "star",
	EqOp:          "eq",
	NeOp:          "ne",
	LtOp:          "lt",
	GtOp:          "gt",
	LeOp:          "le",
	GeOp:          "ge",
	AndOp:         "and",
	OrOp:          "or",
	PlusOp:        "plus",
	MinusOp:       "minus",
	MultOp:        "mult",
	DivOp:         "div",
	UnaryMinusOp:  "unary-minus",
	AggregateOp:   "aggregate",
	FunctionOp:    "function",
	CaseOp:        "case",
	SubqueryOp:    "subquery",
}

// String implements fmt.Stringer.
func (op Operator) String() string {
	if op >= numOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return operatorNames[op]
}

// IsComparison returns true for the six comparison operators.
func (op Operator) IsComparison() bool {
	switch op {
	case EqOp, NeOp, LtOp, GtOp, LeOp, GeOp:
		return true
	}
	return false
}

// IsConjunction returns true for AND and OR.
func (op Operator) IsConjunction() bool {
	return op == AndOp || op == OrOp
}

// IsArithmetic returns true for the four binary arithmetic operators.
func (op Operator) IsArithmetic() bool {
	switch op {
	case PlusOp, MinusOp, MultOp, DivOp:
		return true
	}
	return false
}

// NegateComparison returns the operator that computes the logical negation
// of op, e.g. EqOp negates to NeOp. It panics if op is not a comparison,
// which would indicate a rule-internal invariant violation, treated here
// as a fatal assertion rather than a recoverable error.
func (op Operator) NegateComparison() Operator {
	switch op {
	case EqOp:
		return NeOp
	case NeOp:
		return EqOp
	case LtOp:
		return GeOp
	case GeOp:
		return LtOp
	case GtOp:
		return LeOp
	case LeOp:
		return GtOp
	}
	panic(fmt.Sprintf("opt: NegateComparison called on non-comparison operator %s", op))
}
