// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package task

import (
	"github.com/cockroachdb/scalaropt/internal/log"
	"github.com/cockroachdb/scalaropt/memo"
)

// TopDownRewrite applies every rule in RuleSet to GroupID, then pushes a
// TopDownRewrite for each distinct child group of the resulting
// representative group-expression. Because the stack is LIFO, those child
// tasks run only after this group's own rule application has already
// settled, giving the "parent before children" ordering the name
// promises.
type TopDownRewrite struct {
	GroupID memo.GroupID
	RuleSet string
}

// Execute implements Task.
func (t *TopDownRewrite) Execute(s *Scheduler) {
	set := s.registry.RuleSet(t.RuleSet)
	applyRuleSet(s, t.GroupID, set)

	g := s.mem.GetGroup(t.GroupID)
	g.SetExplored(true)
	s.log.VEventf(s.ctx, 2, "task: top-down %s saturated group %d", log.Safe(t.RuleSet), log.Safe(t.GroupID))

	rep := g.Exprs()[0]
	children := distinctChildren(rep.Children)
	pushLeftToRight(s, children, func(child memo.GroupID) Task {
		return &TopDownRewrite{GroupID: child, RuleSet: t.RuleSet}
	})
}
