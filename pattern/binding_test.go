// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pattern

import (
	"testing"

	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

var basic = sqlvalue.BasicValues{}

func constInt(i int64) *memo.Expr {
	return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basic.IntegerValue(i)})
}

func TestBindMatchesConcretePattern(t *testing.T) {
	m := memo.New()
	root := m.RecordExpression(memo.NewExpr(opt.EqOp, nil, constInt(1), constInt(2)))
	ge := m.GetGroup(root).Exprs()[0]

	pat := New(opt.EqOp, New(opt.ConstOp), New(opt.ConstOp))
	it := Bind(m, root, ge, pat)
	if it == nil {
		t.Fatalf("expected a match")
	}
	b := it.Binding()
	if b.Op() != opt.EqOp {
		t.Fatalf("expected root binding op EqOp, got %s", b.Op())
	}
	if b.Child(0).Op() != opt.ConstOp || b.Child(1).Op() != opt.ConstOp {
		t.Fatalf("expected both children bound to ConstOp")
	}
	if it.Next() {
		t.Fatalf("expected exactly one binding for a single group-expression")
	}
}

func TestBindReturnsNilOnOperatorMismatch(t *testing.T) {
	m := memo.New()
	root := m.RecordExpression(memo.NewExpr(opt.EqOp, nil, constInt(1), constInt(2)))
	ge := m.GetGroup(root).Exprs()[0]

	pat := New(opt.AndOp, LeafPattern(), LeafPattern())
	if it := Bind(m, root, ge, pat); it != nil {
		t.Fatalf("expected no match for a mismatched root operator")
	}
}

func TestBindLeafMatchesAnyChildWithoutDescending(t *testing.T) {
	m := memo.New()
	root := m.RecordExpression(memo.NewExpr(opt.AndOp, nil, constInt(1), constInt(2)))
	ge := m.GetGroup(root).Exprs()[0]

	pat := New(opt.AndOp, LeafPattern(), GroupMarkerPattern())
	it := Bind(m, root, ge, pat)
	if it == nil {
		t.Fatalf("expected leaf/group-marker children to match unconditionally")
	}
	b := it.Binding()
	if b.Child(0).GroupID != ge.Children[0] || b.Child(1).GroupID != ge.Children[1] {
		t.Fatalf("leaf/group-marker bindings must record the child group id")
	}
}

func TestBindEnumeratesCartesianProductAcrossAlternatives(t *testing.T) {
	m := memo.New()
	x := memo.NewLeaf(opt.ColumnRefOp, memo.ColumnRefDef{Table: "t", Column: "x"})

	group := m.RecordExpression(memo.NewExpr(opt.EqOp, nil, x, constInt(1)))
	ge := m.GetGroup(group).Exprs()[0]
	leftGroup := ge.Children[0]

	// Give the left child group a second equivalent alternative so the
	// cartesian product has more than one binding to enumerate.
	m.AddEquivalentGroupExpression(leftGroup, memo.GroupExpr{
		Op: opt.ColumnRefOp, Private: memo.ColumnRefDef{Table: "t", Column: "x2"},
	})

	pat := New(opt.EqOp, New(opt.ColumnRefOp), New(opt.ConstOp))
	it := Bind(m, group, ge, pat)
	if it == nil {
		t.Fatalf("expected a match")
	}
	count := 1
	for it.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 bindings from 2 left-child alternatives, got %d", count)
	}
}
