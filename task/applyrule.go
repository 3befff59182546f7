// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package task

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/rules"
)

// ApplyRule binds a single named rule against one specific group-expression
// and installs whatever it produces. Neither TopDownRewrite nor
// BottomUpRewrite needs this directly (they iterate a whole rule set over
// a group's every expression); it exists for a caller that already knows
// exactly which rule it wants applied to exactly which group-expression,
// the way a cost-based optimizer's rule scheduler would drive individual
// exploration steps one at a time rather than sweeping a whole set.
type ApplyRule struct {
	GroupID memo.GroupID
	Expr    memo.GroupExpr
	Rule    *rules.Rule
}

// Execute implements Task.
func (t *ApplyRule) Execute(s *Scheduler) {
	applyRuleToExpr(s, t.GroupID, t.Expr, t.Rule)
}
