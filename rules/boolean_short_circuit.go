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

// booleanShortCircuitRuleSet implements AndShortCircuit and
// OrShortCircuit. The pattern leaves both children as
// wildcards, since the Boolean constant may appear on either side; Check
// and Transform probe each child's group directly for a Boolean constant
// member.
func booleanShortCircuitRuleSet() *RuleSet {
	return &RuleSet{
		Name: BooleanShortCircuit,
		Rules: []*Rule{
			{
				ID:                 200,
				Name:               "AndShortCircuit",
				Promise:            PromiseNormal,
				Pattern:            pattern.New(opt.AndOp, pattern.LeafPattern(), pattern.LeafPattern()),
				Check:              hasBoolConstChild,
				Transform:          foldAnd,
				ReplaceOnTransform: true,
			},
			{
				ID:                 201,
				Name:               "OrShortCircuit",
				Promise:            PromiseNormal,
				Pattern:            pattern.New(opt.OrOp, pattern.LeafPattern(), pattern.LeafPattern()),
				Check:              hasBoolConstChild,
				Transform:          foldOr,
				ReplaceOnTransform: true,
			},
		},
	}
}

// boolConstInGroup returns the value of the first Boolean-typed constant
// expression found in the group, if any.
func boolConstInGroup(f *CustomFuncs, id memo.GroupID) (sqlvalue.Value, bool) {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op != opt.ConstOp {
			continue
		}
		v := ge.Private.(memo.ConstDef).Value
		if v.Type() == sqlvalue.BooleanType && !v.IsNull() {
			return v, true
		}
	}
	return nil, false
}

// hasBoolConstChild reports whether either child group holds a non-null
// Boolean constant.
func hasBoolConstChild(f *CustomFuncs, b *pattern.Binding) bool {
	_, i := findBoolConstChild(f, b)
	return i >= 0
}

// findBoolConstChild returns the value and index (0 or 1) of the first
// child holding a non-null Boolean constant, or (nil, -1) if neither does.
func findBoolConstChild(f *CustomFuncs, b *pattern.Binding) (sqlvalue.Value, int) {
	for i := 0; i < 2; i++ {
		if v, ok := boolConstInGroup(f, b.Child(i).GroupID); ok {
			return v, i
		}
	}
	return nil, -1
}

// otherChildGroupExpr copies the first logical expression currently held
// by the group at the non-constant child position, so that installing it
// into the AND/OR group makes the group rebuild to "the other child".
func otherChildGroupExpr(f *CustomFuncs, b *pattern.Binding, constIdx int) memo.GroupExpr {
	otherID := b.Child(1 - constIdx).GroupID
	return f.mem.GetGroup(otherID).Exprs()[0]
}

func foldAnd(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	v, i := findBoolConstChild(f, b)
	if i < 0 {
		return nil
	}
	if v.CompareEquals(f.values.BooleanValue(sqlvalue.True)) == sqlvalue.True {
		return []memo.GroupExpr{otherChildGroupExpr(f, b, i)}
	}
	return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.False)}
}

func foldOr(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	v, i := findBoolConstChild(f, b)
	if i < 0 {
		return nil
	}
	if v.CompareEquals(f.values.BooleanValue(sqlvalue.True)) == sqlvalue.True {
		return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.True)}
	}
	return []memo.GroupExpr{otherChildGroupExpr(f, b, i)}
}
