// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pattern

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
)

// Binding is one concrete match of a pattern against a group-expression.
// At a Concrete position, Expr and Children are populated; at a Leaf or
// GroupMarker position, only GroupID is meaningful.
type Binding struct {
	GroupID  memo.GroupID
	Expr     memo.GroupExpr
	Children []*Binding
}

// Op returns the operator bound at a Concrete position.
func (b *Binding) Op() opt.Operator { return b.Expr.Op }

// Private returns the private payload bound at a Concrete position.
func (b *Binding) Private() interface{} { return b.Expr.Private }

// Child returns the i'th child binding.
func (b *Binding) Child(i int) *Binding { return b.Children[i] }

// Iterator lazily enumerates every binding of a pattern rooted at a given
// group-expression, in deterministic order: left-to-right across sibling
// positions, first-inserted-first within a group. Adapted from ExprIter in
// other_examples/DQinYuan-tidb-v3.0.0-wrapped__expr_iterator.go, with one
// deviation: that iterator exploits a sorted/contiguous per-operand
// storage invariant to `break` early when a group's expressions stop
// matching the pattern's operand; this engine stores each group's
// expressions in an unordered slice (memo.group.exprs), so the search
// below does a full linear scan with `continue` instead.
type Iterator struct {
	mem     *memo.Memo
	pat     *Pattern
	groupID memo.GroupID

	// scanSiblings is true for iterators built to search a whole group
	// (child positions); it is false for the root iterator returned by
	// Bind, which is anchored to the single group-expression the caller
	// supplied and never substitutes a sibling in its place — the caller
	// (a rule-applying task) is the one that loops "for each logical
	// expression currently in the group" at the root.
	scanSiblings bool

	cur      memo.GroupExpr
	idx      int
	children []*Iterator
}

// Bind returns an iterator over every binding of pat against ge, a
// specific group-expression living in groupID, or nil if ge does not match
// pat at all (no bindings exist). Call Binding to read the current match,
// then Next to advance; Next returns false once every binding has been
// produced.
func Bind(mem *memo.Memo, groupID memo.GroupID, ge memo.GroupExpr, pat *Pattern) *Iterator {
	it := &Iterator{mem: mem, pat: pat, groupID: groupID}
	if pat.Tag != Concrete {
		return it
	}
	if !pat.Match(ge.Op) || len(ge.Children) != len(pat.Children) {
		return nil
	}
	children := make([]*Iterator, len(pat.Children))
	for i := range pat.Children {
		c := newFromGroup(mem, ge.Children[i], pat.Children[i])
		if c == nil {
			return nil
		}
		children[i] = c
	}
	it.cur = ge
	it.children = children
	return it
}

// newFromGroup builds an iterator that searches groupID's own expressions
// for the first one that matches pat (and whose subtree fully binds),
// returning nil if none does. Used for child positions with a Concrete
// pattern; Leaf and GroupMarker positions never need to search since they
// match any group unconditionally.
func newFromGroup(mem *memo.Memo, groupID memo.GroupID, pat *Pattern) *Iterator {
	it := &Iterator{mem: mem, pat: pat, groupID: groupID, scanSiblings: true}
	if pat.Tag != Concrete {
		return it
	}
	if !it.Reset() {
		return nil
	}
	return it
}

// Binding materializes the current match as a Binding tree.
func (it *Iterator) Binding() *Binding {
	b := &Binding{GroupID: it.groupID}
	if it.pat.Tag == Concrete {
		b.Expr = it.cur
		b.Children = make([]*Binding, len(it.children))
		for i, c := range it.children {
			b.Children[i] = c.Binding()
		}
	}
	return b
}

// Reset rewinds the iterator to its first matching binding, searching from
// the start of the group's expression list. It returns false if the group
// holds no expression matching pat at all.
func (it *Iterator) Reset() bool {
	if it.pat.Tag != Concrete {
		return true
	}
	exprs := it.mem.GetGroup(it.groupID).Exprs()
	for i, ge := range exprs {
		if !it.pat.Match(ge.Op) || len(ge.Children) != len(it.pat.Children) {
			continue
		}
		if children, ok := it.bindChildren(ge); ok {
			it.cur = ge
			it.children = children
			it.idx = i
			return true
		}
	}
	return false
}

// Next advances to the next binding in deterministic left-to-right,
// first-inserted-first order, returning false once exhausted. It first
// tries to advance the rightmost child (holding earlier siblings fixed, to
// produce the cartesian product across sibling positions); only when
// no child can advance further does it look for another candidate
// group-expression in its own group (and only if scanSiblings, i.e. this
// is not the caller-anchored root).
func (it *Iterator) Next() bool {
	if it.pat.Tag != Concrete {
		return false
	}
	for i := len(it.children) - 1; i >= 0; i-- {
		if it.children[i].Next() {
			for j := i + 1; j < len(it.children); j++ {
				it.children[j].Reset()
			}
			return true
		}
	}
	if !it.scanSiblings {
		return false
	}
	exprs := it.mem.GetGroup(it.groupID).Exprs()
	for i := it.idx + 1; i < len(exprs); i++ {
		ge := exprs[i]
		if !it.pat.Match(ge.Op) || len(ge.Children) != len(it.pat.Children) {
			continue
		}
		if children, ok := it.bindChildren(ge); ok {
			it.cur = ge
			it.children = children
			it.idx = i
			return true
		}
	}
	return false
}

// bindChildren attempts to bind every child pattern of it.pat against ge's
// children, returning ok=false if any child position fails to match
// anything at all.
func (it *Iterator) bindChildren(ge memo.GroupExpr) (children []*Iterator, ok bool) {
	children = make([]*Iterator, len(it.pat.Children))
	for i := range it.pat.Children {
		c := newFromGroup(it.mem, ge.Children[i], it.pat.Children[i])
		if c == nil {
			return nil, false
		}
		children[i] = c
	}
	return children, true
}
