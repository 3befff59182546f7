// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"testing"

	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

func TestRecordExpressionDedupsIdenticalSubtrees(t *testing.T) {
	m := New()
	x := col("t", "x")

	e := NewExpr(opt.AndOp, nil, NewExpr(opt.EqOp, nil, x, constInt(1)), NewExpr(opt.EqOp, nil, x.Copy(), constInt(1)))
	root := m.RecordExpression(e)

	and := m.GetGroup(root).Exprs()[0]
	if and.Children[0] != and.Children[1] {
		t.Fatalf("structurally identical children must be recorded into the same group, got %d and %d",
			and.Children[0], and.Children[1])
	}
}

func TestRecordExpressionThenRebuildRoundTrips(t *testing.T) {
	m := New()
	e := NewExpr(opt.EqOp, nil, col("t", "x"), constInt(1))
	root := m.RecordExpression(e)
	got := m.Rebuild(root)

	if !e.Equal(got) {
		t.Fatalf("round trip changed the expression: got %s, want %s", FormatExpr(got), FormatExpr(e))
	}
}

func TestReplaceGroupExpressionKeepsGroupIDStable(t *testing.T) {
	m := New()
	e := NewExpr(opt.EqOp, nil, col("t", "x"), constInt(1))
	root := m.RecordExpression(e)

	m.ReplaceGroupExpression(root, GroupExpr{Op: opt.ConstOp, Private: ConstDef{Value: basic.BooleanValue(sqlvalue.True)}})

	g := m.GetGroup(root)
	if len(g.Exprs()) != 1 {
		t.Fatalf("replace must leave exactly one group-expression, got %d", len(g.Exprs()))
	}
	if g.ID() != root {
		t.Fatalf("replace must not change the group's id")
	}
}

func TestAddEquivalentGroupExpressionReportsProgress(t *testing.T) {
	m := New()
	e := NewExpr(opt.EqOp, nil, col("t", "x"), constInt(1))
	root := m.RecordExpression(e)

	flipped := GroupExpr{Op: opt.EqOp, Children: []GroupID{
		m.GetGroup(root).Exprs()[0].Children[1],
		m.GetGroup(root).Exprs()[0].Children[0],
	}}

	if added := m.AddEquivalentGroupExpression(root, flipped); !added {
		t.Fatalf("adding a genuinely new alternative must report progress")
	}
	if len(m.GetGroup(root).Exprs()) != 2 {
		t.Fatalf("group should now hold both alternatives")
	}

	// Re-adding the exact same alternative is a dedup collision, not progress.
	if added := m.AddEquivalentGroupExpression(root, flipped); added {
		t.Fatalf("re-adding an existing alternative must not report progress")
	}
	if len(m.GetGroup(root).Exprs()) != 2 {
		t.Fatalf("dedup collision must not grow the group")
	}
}

func TestRebuildFallsBackToVerbatimForSubquery(t *testing.T) {
	m := New()
	sub := NewLeaf(opt.SubqueryOp, "opaque plan handle")
	root := m.RecordExpression(sub)

	got := m.Rebuild(root)
	if got.Private != "opaque plan handle" {
		t.Fatalf("subquery rebuild must preserve the verbatim payload, got %v", got.Private)
	}
}

func TestResetClearsGroupsAndFingerprints(t *testing.T) {
	m := New()
	m.RecordExpression(constInt(1))
	if m.NumGroups() == 0 {
		t.Fatalf("expected at least one group before reset")
	}
	m.Reset()
	if m.NumGroups() != 0 {
		t.Fatalf("expected no groups after reset, got %d", m.NumGroups())
	}
	// A fresh recording after Reset must not collide with pre-reset ids.
	id := m.RecordExpression(constInt(1))
	if id != 1 {
		t.Fatalf("expected group ids to restart at 1 after reset, got %d", id)
	}
}
