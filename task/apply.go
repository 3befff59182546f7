// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package task

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/pattern"
	"github.com/cockroachdb/scalaropt/rules"
)

// applyRuleSet runs every rule in set, ordered by promise (ties by rule
// id), against a fixed snapshot of groupID's group-expressions taken
// before the first rule fires. Expressions a rule adds mid-pass are not
// themselves matched against later rules in this same call; they get
// their turn the next time the scheduler visits this group.
func applyRuleSet(s *Scheduler, groupID memo.GroupID, set *rules.RuleSet) {
	snapshot := append([]memo.GroupExpr(nil), s.mem.GetGroup(groupID).Exprs()...)
	for _, rule := range set.Sorted() {
		for _, ge := range snapshot {
			applyRuleToExpr(s, groupID, ge, rule)
		}
	}
}

// applyRuleToExpr binds rule's pattern against ge (rooted at groupID) and,
// for every binding that passes Check, installs Transform's output per
// rule.ReplaceOnTransform.
func applyRuleToExpr(s *Scheduler, groupID memo.GroupID, ge memo.GroupExpr, rule *rules.Rule) {
	it := pattern.Bind(s.mem, groupID, ge, rule.Pattern)
	if it == nil {
		return
	}
	for {
		b := it.Binding()
		if rule.Check(s.cf, b) {
			for _, out := range rule.Transform(s.cf, b) {
				if rule.ReplaceOnTransform {
					s.mem.ReplaceGroupExpression(groupID, out)
				} else {
					s.mem.AddEquivalentGroupExpression(groupID, out)
				}
			}
		}
		if !it.Next() {
			return
		}
	}
}
