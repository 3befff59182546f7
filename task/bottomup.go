// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package task

import (
	"github.com/cockroachdb/scalaropt/internal/log"
	"github.com/cockroachdb/scalaropt/memo"
)

// BottomUpRewrite descends to a group's children before applying rules to
// the group itself. It runs in two phases distinguished by
// HasOptimizedChild:
//
//   - false (the initial push): re-pushes itself with HasOptimizedChild
//     set to true, then pushes a BottomUpRewrite(child, false) for each
//     distinct child of the group's current representative expression.
//     Because those child pushes happen after the self re-push, and are
//     themselves pushed in reverse so the leftmost child sits on top of
//     the stack, every descendant finishes (recursively) before this
//     group's own true-phase task runs.
//   - true: applies RuleSet to GroupID exactly like TopDownRewrite, but
//     without pushing any further descent — the recursion already
//     happened in the false phase.
type BottomUpRewrite struct {
	GroupID           memo.GroupID
	RuleSet           string
	HasOptimizedChild bool
}

// Execute implements Task.
func (t *BottomUpRewrite) Execute(s *Scheduler) {
	if !t.HasOptimizedChild {
		rep := s.mem.GetGroup(t.GroupID).Exprs()[0]
		children := distinctChildren(rep.Children)

		s.Push(&BottomUpRewrite{GroupID: t.GroupID, RuleSet: t.RuleSet, HasOptimizedChild: true})
		pushLeftToRight(s, children, func(child memo.GroupID) Task {
			return &BottomUpRewrite{GroupID: child, RuleSet: t.RuleSet}
		})
		return
	}

	set := s.registry.RuleSet(t.RuleSet)
	applyRuleSet(s, t.GroupID, set)
	s.mem.GetGroup(t.GroupID).SetExplored(true)
	s.log.VEventf(s.ctx, 2, "task: bottom-up %s saturated group %d", log.Safe(t.RuleSet), log.Safe(t.GroupID))
}
