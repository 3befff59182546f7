// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rules

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/pattern"
)

// equivalentTransformRuleSet generates commutative reorderings of AND, OR,
// and Eq. Both children are GroupMarker leaves: the
// rule never inspects their contents, only their identities, and pushes a
// new group-expression with the same operator but the child group-IDs
// flipped. Applied with ReplaceOnTransform = false, so both orderings
// coexist as equivalents in the same group.
func equivalentTransformRuleSet() *RuleSet {
	ops := []opt.Operator{opt.AndOp, opt.OrOp, opt.EqOp}
	set := &RuleSet{Name: EquivalentTransform}
	for i, op := range ops {
		op := op
		set.Rules = append(set.Rules, &Rule{
			ID:      300 + i,
			Name:    "Commute_" + op.String(),
			Promise: PromiseHigh,
			Pattern: pattern.New(op, pattern.GroupMarkerPattern(), pattern.GroupMarkerPattern()),
			Check: func(f *CustomFuncs, b *pattern.Binding) bool {
				// A self-flip (both children the same group) would just
				// re-add the same group-expression; the memo's dedup
				// already makes that a no-op, so no special-casing is
				// needed here.
				return true
			},
			Transform: func(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
				return []memo.GroupExpr{{
					Op:       op,
					Private:  b.Private(),
					Children: []memo.GroupID{b.Child(1).GroupID, b.Child(0).GroupID},
				}}
			},
			ReplaceOnTransform: false,
		})
	}
	return set
}
