// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rules

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/pattern"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

// CustomFuncs holds the match and replace helpers shared by every rule in
// this package, in the style of pkg/sql/opt/norm's CustomFuncs: a small
// struct threading the memo and type system through, initialized once and
// passed to every Check/Transform call rather than recreated per rule.
type CustomFuncs struct {
	mem    *memo.Memo
	values sqlvalue.TypeSystem
}

// Init initializes f for use against mem, evaluating constants with values.
func (f *CustomFuncs) Init(mem *memo.Memo, values sqlvalue.TypeSystem) {
	*f = CustomFuncs{mem: mem, values: values}
}

// ConstValue extracts the typed value out of a binding at a ConstOp
// position.
func (f *CustomFuncs) ConstValue(b *pattern.Binding) sqlvalue.Value {
	return b.Private().(memo.ConstDef).Value
}

// ColumnRef extracts the (table, column) definition out of a binding at a
// ColumnRefOp position.
func (f *CustomFuncs) ColumnRef(b *pattern.Binding) memo.ColumnRefDef {
	return b.Private().(memo.ColumnRefDef)
}

// SameColumnRef reports whether two ColumnRefOp bindings name the same
// (table, column) pair.
func (f *CustomFuncs) SameColumnRef(a, b *pattern.Binding) bool {
	return f.ColumnRef(a).Equal(f.ColumnRef(b))
}

// BoolGroupExpr builds a GroupExpr for a Boolean constant.
func (f *CustomFuncs) BoolGroupExpr(v sqlvalue.TriState) memo.GroupExpr {
	return memo.GroupExpr{Op: opt.ConstOp, Private: memo.ConstDef{Value: f.values.BooleanValue(v)}}
}

// PassThroughGroupExpr builds a GroupExpr that is exactly b's bound
// expression, used when a transform's output is "one of the inputs,
// unchanged" (e.g. transitive transform's "keep the constant conjunct").
// b must be bound at a Concrete position; a Leaf binding has no Expr.
func (f *CustomFuncs) PassThroughGroupExpr(b *pattern.Binding) memo.GroupExpr {
	return b.Expr
}

// CompareConstants evaluates the three-valued comparison named by op
// between two constant values, returning ErrNotComparable (not a fatal
// error) if the two values' types cannot be compared at all.
func (f *CustomFuncs) CompareConstants(op opt.Operator, left, right sqlvalue.Value) (sqlvalue.TriState, error) {
	if !left.CheckComparable(right) {
		return sqlvalue.TriUnknown, ErrNotComparable
	}
	switch op {
	case opt.EqOp:
		return left.CompareEquals(right), nil
	case opt.NeOp:
		return left.CompareNotEquals(right), nil
	case opt.LtOp:
		return left.CompareLessThan(right), nil
	case opt.GtOp:
		return left.CompareGreaterThan(right), nil
	case opt.GeOp:
		return left.CompareGreaterThanEquals(right), nil
	case opt.LeOp:
		// Implemented as the negation of GreaterThan, preserving NULL,
		// mirroring CompareGreaterThanEquals's derivation from LessThan.
		return left.CompareGreaterThan(right).Not(), nil
	default:
		assertUnreachable("rules: %s is not a comparison operator", op)
		return sqlvalue.TriUnknown, nil
	}
}
