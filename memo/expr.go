// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"reflect"

	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

// Expr is the caller-facing scalar expression tree: the borrowed input to
// RewriteExpression and the freshly-owned output it returns. Nodes are
// immutable once handed to the memo; the engine never mutates an Expr's
// Children slice in place, since the same subtree can be shared across
// multiple group-expressions once equivalent-transform runs.
type Expr struct {
	Op       opt.Operator
	Private  interface{}
	Children []*Expr
}

// NewLeaf constructs a zero-child expression node.
func NewLeaf(op opt.Operator, private interface{}) *Expr {
	return &Expr{Op: op, Private: private}
}

// NewExpr constructs an expression node with the given children.
func NewExpr(op opt.Operator, private interface{}, children ...*Expr) *Expr {
	return &Expr{Op: op, Private: private, Children: children}
}

// Copy returns a deep copy of the tree rooted at e. A nil receiver copies
// to nil, matching RewriteExpression's "passing a null reference returns a
// null reference" contract.
func (e *Expr) Copy() *Expr {
	if e == nil {
		return nil
	}
	cp := &Expr{Op: e.Op, Private: e.Private}
	if len(e.Children) > 0 {
		cp.Children = make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			cp.Children[i] = c.Copy()
		}
	}
	return cp
}

// Equal reports whether e and o are structurally identical: same operator
// tag, same private payload, and recursively equal children in order.
// Hashing (and therefore memo dedup) is order-sensitive for
// the same reason — commutative reorderings are explored by the
// equivalent-transform rule, not folded together by Equal or by hashing.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Op != o.Op {
		return false
	}
	if !privateEqual(e.Private, o.Private) {
		return false
	}
	if len(e.Children) != len(o.Children) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// privateEqual compares two operator private payloads. ColumnRefDef and
// ConstDef get their own equality rules (column refs compare on (table,
// column); constants compare on (type, value)); every other private type
// defined in private_defs.go is a plain value struct, so
// reflect.DeepEqual is exact for it.
func privateEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case ColumnRefDef:
		bv, ok := b.(ColumnRefDef)
		return ok && av.Equal(bv)
	case ConstDef:
		bv, ok := b.(ConstDef)
		if !ok {
			return false
		}
		if av.Value.Type() != bv.Value.Type() {
			return false
		}
		if av.Value.IsNull() || bv.Value.IsNull() {
			return av.Value.IsNull() == bv.Value.IsNull()
		}
		return av.Value.CompareEquals(bv.Value) == sqlvalue.True
	default:
		return reflect.DeepEqual(a, b)
	}
}
