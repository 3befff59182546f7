// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package task implements the LIFO task stack that drives every rewrite
// pass: TopDownRewrite, BottomUpRewrite, and ApplyRule. Replacing virtual
// dispatch with a single Task interface and one drain loop in Scheduler.Run
// mirrors pkg/sql/opt/xform/state.go's optimizeExprState/scheduleRule
// dispatch, adapted to a single tagged interface instead of a queue of
// closures.
package task

import (
	"context"

	"github.com/cockroachdb/scalaropt/internal/log"
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/rules"
)

// Task is one unit of scheduled work. Execute may push more tasks onto the
// scheduler; there is no recursion through this interface, only through
// the stack.
type Task interface {
	Execute(s *Scheduler)
}

// Scheduler owns the task stack, the memo it rewrites, and the rule
// machinery every task consults. It is single-use: construct one per
// RewriteExpression call.
type Scheduler struct {
	stack    []Task
	mem      *memo.Memo
	cf       *rules.CustomFuncs
	registry *rules.Registry
	ctx      context.Context
	log      log.Logger
}

// NewScheduler builds an empty Scheduler over mem, using cf to evaluate
// rule Check/Transform calls and registry to resolve rule-set names.
func NewScheduler(ctx context.Context, mem *memo.Memo, cf *rules.CustomFuncs, registry *rules.Registry) *Scheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Scheduler{mem: mem, cf: cf, registry: registry, ctx: ctx, log: log.Default}
}

// Push adds t to the top of the stack.
func (s *Scheduler) Push(t Task) {
	s.stack = append(s.stack, t)
}

// Run drains the stack, executing tasks LIFO until empty.
func (s *Scheduler) Run() {
	for len(s.stack) > 0 {
		n := len(s.stack) - 1
		t := s.stack[n]
		s.stack = s.stack[:n]
		t.Execute(s)
	}
}

// distinctChildren returns children with duplicates removed, preserving
// first-occurrence left-to-right order, and skipping InvalidGroupID (a
// leaf operator has no children to descend into).
func distinctChildren(children []memo.GroupID) []memo.GroupID {
	if len(children) == 0 {
		return nil
	}
	seen := make(map[memo.GroupID]bool, len(children))
	out := make([]memo.GroupID, 0, len(children))
	for _, c := range children {
		if c == memo.InvalidGroupID || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// pushLeftToRight pushes each of children as a task built by build, in an
// order such that they pop off the LIFO stack left-to-right: since the
// last-pushed task pops first, children are pushed in reverse.
func pushLeftToRight(s *Scheduler, children []memo.GroupID, build func(memo.GroupID) Task) {
	for i := len(children) - 1; i >= 0; i-- {
		s.Push(build(children[i]))
	}
}
