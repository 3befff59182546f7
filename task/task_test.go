// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package task

import (
	"context"
	"testing"

	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/rules"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

var basic = sqlvalue.BasicValues{}

func constInt(i int64) *memo.Expr {
	return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basic.IntegerValue(i)})
}

func newSchedulerFor(t *testing.T, mem *memo.Memo) *Scheduler {
	t.Helper()
	var cf rules.CustomFuncs
	cf.Init(mem, basic)
	registry := rules.NewRuleSets()
	return NewScheduler(context.Background(), mem, &cf, registry)
}

// recordOrder is a Task that appends its tag to a shared slice, used to
// observe the order the scheduler actually executes tasks in.
type recordOrder struct {
	tag string
	out *[]string
}

func (r *recordOrder) Execute(s *Scheduler) {
	*r.out = append(*r.out, r.tag)
}

func TestSchedulerRunsLIFO(t *testing.T) {
	mem := memo.New()
	sched := newSchedulerFor(t, mem)

	var order []string
	sched.Push(&recordOrder{tag: "first-pushed", out: &order})
	sched.Push(&recordOrder{tag: "second-pushed", out: &order})
	sched.Push(&recordOrder{tag: "third-pushed", out: &order})
	sched.Run()

	want := []string{"third-pushed", "second-pushed", "first-pushed"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSchedulerRunDrainsToEmpty(t *testing.T) {
	mem := memo.New()
	sched := newSchedulerFor(t, mem)
	sched.Push(&recordOrder{tag: "a", out: &[]string{}})
	sched.Run()
	if len(sched.stack) != 0 {
		t.Fatalf("expected empty stack after Run, got %d tasks", len(sched.stack))
	}
}

func TestTopDownRewriteSaturatesGroupAndDescends(t *testing.T) {
	mem := memo.New()
	// EQ(EQ(1,2), EQ(3,4)) has no operator this pattern set folds at the
	// outer level, but every descendant EqOp group should still be visited
	// and explored during the descent.
	root := mem.RecordExpression(memo.NewExpr(opt.EqOp, nil,
		memo.NewExpr(opt.EqOp, nil, constInt(1), constInt(2)),
		memo.NewExpr(opt.EqOp, nil, constInt(3), constInt(4))))
	mem.SetRoot(root)

	sched := newSchedulerFor(t, mem)
	sched.Push(&TopDownRewrite{GroupID: root, RuleSet: rules.ComparatorElim})
	sched.Run()

	rep := mem.Rebuild(mem.Root())
	// The two innermost EQ(constant, constant) groups fold to Boolean
	// constants; the outer EQ(Boolean, Boolean) does not, since
	// comparator-elimination's pattern requires ConstOp children and a
	// single top-down pass visits the outer group before its children are
	// folded, when its children are still EqOp and do not match yet.
	if rep.Op != opt.EqOp {
		t.Fatalf("expected root to remain an EqOp after a single top-down pass, got %s", rep.Op)
	}
	if rep.Children[0].Op != opt.ConstOp || rep.Children[1].Op != opt.ConstOp {
		t.Fatalf("expected both descendant EQ groups to have folded to constants, got %+v", rep)
	}
}

func TestBottomUpRewriteFoldsParentAfterChildren(t *testing.T) {
	mem := memo.New()
	root := mem.RecordExpression(memo.NewExpr(opt.EqOp, nil,
		memo.NewExpr(opt.EqOp, nil, constInt(1), constInt(1)),
		memo.NewExpr(opt.EqOp, nil, constInt(2), constInt(2))))
	mem.SetRoot(root)

	sched := newSchedulerFor(t, mem)
	sched.Push(&BottomUpRewrite{GroupID: root, RuleSet: rules.ComparatorElim})
	sched.Run()

	// Bottom-up folds the two inner EQ(1,1) and EQ(2,2) groups to
	// Constant(TRUE) before visiting the root, so by the time the root is
	// visited it is EQ(TRUE, TRUE), which matches comparator-elimination's
	// ConstOp/ConstOp pattern and folds to Constant(TRUE) as well.
	rep := mem.Rebuild(mem.Root())
	if rep.Op != opt.ConstOp {
		t.Fatalf("expected root to fold once its children are both TRUE, got %s", rep.Op)
	}
}

func TestGroupExploredAfterTopDownRewrite(t *testing.T) {
	mem := memo.New()
	root := mem.RecordExpression(constInt(1))

	sched := newSchedulerFor(t, mem)
	sched.Push(&TopDownRewrite{GroupID: root, RuleSet: rules.ComparatorElim})
	sched.Run()

	if !mem.GetGroup(root).Explored() {
		t.Fatalf("expected group to be marked explored after a rewrite task visits it")
	}
}

func TestApplyRuleAppliesOneRuleToOneExpression(t *testing.T) {
	mem := memo.New()
	root := mem.RecordExpression(memo.NewExpr(opt.EqOp, nil, constInt(1), constInt(1)))
	mem.SetRoot(root)

	sched := newSchedulerFor(t, mem)
	registry := rules.NewRuleSets()
	set := registry.RuleSet(rules.ComparatorElim)
	var eqRule *rules.Rule
	for _, r := range set.Rules {
		if r.Name == "FoldComparison_eq" {
			eqRule = r
		}
	}
	if eqRule == nil {
		t.Fatalf("expected a FoldComparison_eq rule in %s", rules.ComparatorElim)
	}

	ge := mem.GetGroup(root).Exprs()[0]
	sched.Push(&ApplyRule{GroupID: root, Expr: ge, Rule: eqRule})
	sched.Run()

	rep := mem.Rebuild(mem.Root())
	if rep.Op != opt.ConstOp {
		t.Fatalf("expected ApplyRule to fold EQ(1,1), got %s", rep.Op)
	}
}
