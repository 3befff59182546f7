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

// nullLookupRuleSet handles the three compound NULL cases three-valued
// logic collapses beyond the already-constant case comparator elimination
// covers on its own: x=NULL, x AND NULL, and x OR NULL. It deliberately
// does not attempt any broader NULL propagation than these three shapes.
func nullLookupRuleSet() *RuleSet {
	return &RuleSet{
		Name: NullLookup,
		Rules: []*Rule{
			{
				ID:                 500,
				Name:               "EqualNull",
				Promise:            PromiseNormal,
				Pattern:            pattern.New(opt.EqOp, pattern.LeafPattern(), pattern.LeafPattern()),
				Check:              hasNullConstChild,
				Transform:          foldEqualNull,
				ReplaceOnTransform: true,
			},
			{
				ID:                 501,
				Name:               "AndNull",
				Promise:            PromiseNormal,
				Pattern:            pattern.New(opt.AndOp, pattern.LeafPattern(), pattern.LeafPattern()),
				Check:              hasNullConstChild,
				Transform:          foldAndNull,
				ReplaceOnTransform: true,
			},
			{
				ID:                 502,
				Name:               "OrNull",
				Promise:            PromiseNormal,
				Pattern:            pattern.New(opt.OrOp, pattern.LeafPattern(), pattern.LeafPattern()),
				Check:              hasNullConstChild,
				Transform:          foldOrNull,
				ReplaceOnTransform: true,
			},
		},
	}
}

// nullConstInGroup reports whether the group holds a NULL constant of any
// type.
func nullConstInGroup(f *CustomFuncs, id memo.GroupID) bool {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op == opt.ConstOp && ge.Private.(memo.ConstDef).Value.IsNull() {
			return true
		}
	}
	return false
}

// findNullConstChild returns the index (0 or 1) of the first child whose
// group holds a NULL constant, or -1 if neither does.
func findNullConstChild(f *CustomFuncs, b *pattern.Binding) int {
	for i := 0; i < 2; i++ {
		if nullConstInGroup(f, b.Child(i).GroupID) {
			return i
		}
	}
	return -1
}

func hasNullConstChild(f *CustomFuncs, b *pattern.Binding) bool {
	return findNullConstChild(f, b) >= 0
}

// foldEqualNull rewrites x=NULL to a Boolean NULL constant, regardless of
// what x is. Comparator elimination already produces this same result
// when x also happens to be a constant; this rule extends the outcome to
// the case where x is any other expression, not just a constant.
func foldEqualNull(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	if findNullConstChild(f, b) < 0 {
		return nil
	}
	return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.TriUnknown)}
}

// foldAndNull rewrites x AND NULL to a Boolean NULL constant. This is
// deliberately unconditional: even when x is provably FALSE, this engine
// does not attempt the deeper analysis needed to short-circuit to FALSE
// here, matching the narrow scope this rule set covers.
func foldAndNull(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	if findNullConstChild(f, b) < 0 {
		return nil
	}
	return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.TriUnknown)}
}

// foldOrNull rewrites x OR NULL: to x itself when x is provably TRUE or
// NULL (OR's other identity element), otherwise to a Boolean NULL
// constant. "Provably TRUE-or-NULL" is decided narrowly: only when the
// other child's group already holds a Boolean constant that is TRUE or
// NULL; anything else, including an unresolved expression that might
// evaluate to TRUE at runtime, falls through to the NULL result.
func foldOrNull(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	nullIdx := findNullConstChild(f, b)
	if nullIdx < 0 {
		return nil
	}
	other := b.Child(1 - nullIdx)
	if isProvablyTrueOrNull(f, other.GroupID) {
		return []memo.GroupExpr{f.mem.GetGroup(other.GroupID).Exprs()[0]}
	}
	return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.TriUnknown)}
}

// isProvablyTrueOrNull reports whether id's group holds a Boolean constant
// that is TRUE or NULL.
func isProvablyTrueOrNull(f *CustomFuncs, id memo.GroupID) bool {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op != opt.ConstOp {
			continue
		}
		v := ge.Private.(memo.ConstDef).Value
		if v.Type() != sqlvalue.BooleanType {
			continue
		}
		if v.IsNull() {
			return true
		}
		if v.CompareEquals(f.values.BooleanValue(sqlvalue.True)) == sqlvalue.True {
			return true
		}
	}
	return false
}
