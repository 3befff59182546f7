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

// comparatorEliminationRuleSet folds a comparison of two constants into a
// single Boolean constant. One rule per comparison
// operator; each rule's Check is trivially true because the pattern
// already constrains both children to ConstOp.
func comparatorEliminationRuleSet() *RuleSet {
	ops := []opt.Operator{opt.EqOp, opt.NeOp, opt.LtOp, opt.GtOp, opt.LeOp, opt.GeOp}
	set := &RuleSet{Name: ComparatorElim}
	for i, op := range ops {
		op := op
		set.Rules = append(set.Rules, &Rule{
			ID:      100 + i,
			Name:    "FoldComparison_" + op.String(),
			Promise: PromiseNormal,
			Pattern: pattern.New(op, pattern.New(opt.ConstOp), pattern.New(opt.ConstOp)),
			Check:   func(f *CustomFuncs, b *pattern.Binding) bool { return true },
			Transform: func(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
				left := f.ConstValue(b.Child(0))
				right := f.ConstValue(b.Child(1))

				// CompareConstants checks comparability before it ever looks
				// at nullness; a NULL operand only collapses the result to
				// Boolean NULL once the two types are comparable in the
				// first place. An incomparable NULL (e.g. an integer NULL
				// against a boolean constant) falls out through the
				// ErrNotComparable path below, same as two incomparable
				// non-null constants.
				result, err := f.CompareConstants(op, left, right)
				if err != nil {
					// Not comparable: no rewrite.
					return nil
				}
				return []memo.GroupExpr{f.BoolGroupExpr(result)}
			},
			ReplaceOnTransform: true,
		})
	}
	return set
}
