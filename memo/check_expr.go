// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/scalaropt/opt"
)

// checkArity enforces the fixed-arity invariants of each operator, mirroring
// the fatal-assertion style of pkg/sql/opt/memo/check_expr.go (which panics
// with errors.AssertionFailedf on a malformed expression rather than
// returning an error). Callers must not construct trees that violate it.
func checkArity(op opt.Operator, n int) {
	switch op {
	case opt.ConstOp, opt.ColumnRefOp, opt.StarOp:
		assertArity(op, n, 0, 0)
	case opt.EqOp, opt.NeOp, opt.LtOp, opt.GtOp, opt.LeOp, opt.GeOp,
		opt.AndOp, opt.OrOp,
		opt.PlusOp, opt.MinusOp, opt.MultOp, opt.DivOp:
		assertArity(op, n, 2, 2)
	case opt.UnaryMinusOp, opt.AggregateOp:
		assertArity(op, n, 1, 1)
	case opt.CaseOp:
		if n < 2 {
			panic(errors.AssertionFailedf(
				"memo: %s requires at least a when/then pair, got %d children", op, n))
		}
	case opt.FunctionOp, opt.SubqueryOp:
		// Variable arity; the function/subquery collaborator owns validation.
	default:
		panic(errors.AssertionFailedf("memo: unrecognized operator %s", op))
	}
}

func assertArity(op opt.Operator, n, min, max int) {
	if n < min || n > max {
		panic(errors.AssertionFailedf(
			"memo: %s requires %d children, got %d", op, min, n))
	}
}

// AssertInvariant panics with a fatal assertion if cond is false. The memo
// uses it to check that a looked-up group id exists, that an added
// alternative does not collide with an expression of another group, and
// that a group being rebuilt is not empty.
func AssertInvariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}
