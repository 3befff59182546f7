// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/scalaropt/internal/log"
	"github.com/cockroachdb/scalaropt/opt"
)

// GroupID is a dense, monotonically-assigned identifier for a memo group.
// The zero value is never a valid group.
type GroupID uint32

// InvalidGroupID marks the absence of a group, e.g. the memo's root before
// anything has been recorded.
const InvalidGroupID GroupID = 0

// GroupExpr is the (operator, private payload, ordered child group ids)
// tuple a group-expression is built from. Two GroupExprs with equal Op,
// Private, and Children are duplicates and collapse to one memo entry.
type GroupExpr struct {
	Op       opt.Operator
	Private  interface{}
	Children []GroupID

	// Verbatim holds the original, uninterpreted Expr for SubqueryOp nodes
	// only (see Memo.Rebuild). It is nil for every other operator.
	Verbatim *Expr
}

// fingerprint returns a string uniquely identifying this GroupExpr's shape,
// used for memo dedup on insert. Modeled directly on
// GroupExpr.FingerPrint in
// other_examples/DQinYuan-tidb-v3.0.0-wrapped__group_expr.go: a cheap
// string built from the operator, its private payload, and the child ids,
// rather than a numeric hash — simple, and easy to eyeball in test
// failures.
func (e GroupExpr) fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", e.Op)
	if c, ok := e.Private.(ConstDef); ok {
		// A constant's rendered value alone does not carry its type (every
		// NULL renders as "NULL"), so the type is part of the key.
		fmt.Fprintf(&b, "{%v:%v}", c.Value.Type(), e.Private)
	} else if e.Private != nil {
		fmt.Fprintf(&b, "{%v}", e.Private)
	}
	for _, c := range e.Children {
		fmt.Fprintf(&b, ":%d", c)
	}
	return b.String()
}

// group is an equivalence class of logically equivalent GroupExprs. It is
// unexported, matching how memoGroup is unexported in
// pkg/sql/opt/xform/memo_group.go — callers reach it only through Memo's
// exported accessors.
type group struct {
	id       GroupID
	exprs    []GroupExpr
	explored bool
	// implemented is reserved for a future physical-implementation pass;
	// it is never read or written by anything in this package.
	implemented bool
}

// Exprs returns the group's current logical expressions, in
// first-inserted-first order — the order the binding iterator and rebuild
// rely on for deterministic output.
func (g *group) Exprs() []GroupExpr { return g.exprs }

// ID returns the group's id.
func (g *group) ID() GroupID { return g.id }

// Explored reports whether a rule-saturation pass has already run over
// this group.
func (g *group) Explored() bool { return g.explored }

// SetExplored marks the group as saturated.
func (g *group) SetExplored(v bool) { g.explored = v }

// Memo is the table of equivalence groups built up over the course of a
// single RewriteExpression call. It owns every Expr and GroupExpr it
// contains; Reset discards all of it.
type Memo struct {
	groups       []group
	fingerprints map[string]GroupID
	root         GroupID
}

// New returns an empty Memo, ready for use.
func New() *Memo {
	return &Memo{fingerprints: make(map[string]GroupID)}
}

// Root returns the group id most recently passed to SetRoot, or
// InvalidGroupID if SetRoot has not been called. RecordExpression does not
// set it.
func (m *Memo) Root() GroupID { return m.root }

// SetRoot records which group id is the logical root of the tree being
// rewritten. RewriteExpression calls this once, right after ingest.
func (m *Memo) SetRoot(id GroupID) { m.root = id }

// GetGroup returns the group with the given id. It panics if id is
// InvalidGroupID or out of range, since every GroupID handed to a caller
// by this package always refers to a live group.
func (m *Memo) GetGroup(id GroupID) *group {
	AssertInvariant(id != InvalidGroupID && int(id) <= len(m.groups),
		"memo: GetGroup called with invalid group id %d (have %d groups)", id, len(m.groups))
	return &m.groups[id-1]
}

// RecordExpression records expr (and, recursively, its children) into the
// memo in post-order, and returns the group id of the root. A nil expr
// returns InvalidGroupID.
func (m *Memo) RecordExpression(expr *Expr) GroupID {
	if expr == nil {
		return InvalidGroupID
	}
	checkArity(expr.Op, len(expr.Children))

	childIDs := make([]GroupID, len(expr.Children))
	for i, c := range expr.Children {
		childIDs[i] = m.RecordExpression(c)
	}

	ge := GroupExpr{Op: expr.Op, Private: expr.Private, Children: childIDs}
	if expr.Op == opt.SubqueryOp {
		// Subquery internals are an external, uninterpreted collaborator
		// payload; keep the original node so Rebuild can copy it through
		// verbatim instead of reconstructing it from Op+Private (see
		// Memo.Rebuild).
		ge.Verbatim = expr.Copy()
	}
	return m.internExpr(ge)
}

// internExpr looks up ge by fingerprint, returning the existing group id on
// a hash collision, or creates a new single-expression group otherwise.
func (m *Memo) internExpr(ge GroupExpr) GroupID {
	fp := ge.fingerprint()
	if id, ok := m.fingerprints[fp]; ok {
		return id
	}
	id := GroupID(len(m.groups) + 1)
	m.groups = append(m.groups, group{id: id, exprs: []GroupExpr{ge}})
	m.fingerprints[fp] = id
	return id
}

// MemoizeGroupExpr interns a group-expression built directly from existing
// child group-IDs (rather than from a caller-facing Expr tree, the way
// RecordExpression does), returning its group id. Rules use this to build
// a new expression whose children already live in the memo, such as
// propagating a constant across a transitive equality.
func (m *Memo) MemoizeGroupExpr(ge GroupExpr) GroupID {
	checkArity(ge.Op, len(ge.Children))
	return m.internExpr(ge)
}

// ReplaceGroupExpression clears the group's contents and inserts the
// single new expression. Used by rules applied with
// replace_on_transform=true (boolean short-circuit). The group's id, and
// therefore every parent reference to it, remains valid — only the
// group's contents change.
func (m *Memo) ReplaceGroupExpression(id GroupID, ge GroupExpr) {
	g := m.GetGroup(id)
	for _, old := range g.exprs {
		delete(m.fingerprints, old.fingerprint())
	}
	g.exprs = []GroupExpr{ge}
	m.fingerprints[ge.fingerprint()] = id
}

// AddEquivalentGroupExpression appends ge to the group as an alternative,
// equivalent expression without clearing existing members. Used by rules
// applied with replace_on_transform=false (equivalent transform). It
// returns false, meaning no progress was made, if ge is already present
// anywhere in the memo. The task scheduler ignores this result: it pushes
// the same child tasks whether or not the expression was added.
func (m *Memo) AddEquivalentGroupExpression(id GroupID, ge GroupExpr) bool {
	fp := ge.fingerprint()
	if existing, ok := m.fingerprints[fp]; ok {
		AssertInvariant(existing == id,
			"memo: AddEquivalentGroupExpression fingerprint collision across groups %d and %d", existing, id)
		return false
	}
	g := m.GetGroup(id)
	g.exprs = append(g.exprs, ge)
	m.fingerprints[fp] = id
	return true
}

// Rebuild walks the memo from id, choosing the first logical expression of
// each group, and materializes a freshly-owned Expr tree. It is the exact
// mirror of RecordExpression.
func (m *Memo) Rebuild(id GroupID) *Expr {
	if id == InvalidGroupID {
		return nil
	}
	g := m.GetGroup(id)
	AssertInvariant(len(g.exprs) > 0, "memo: group %d has no expressions to rebuild", id)
	ge := g.exprs[0]

	if ge.Op == opt.SubqueryOp {
		// Subquery is this engine's one operator whose payload it never
		// learned how to reconstruct from Op+Private+children, because
		// that payload belongs to the relational planner collaborator;
		// fall back to copying the original node verbatim instead of
		// swapping in rebuilt children.
		log.Warningf(nil, "memo: rebuild falling back to verbatim copy for subquery group %d", log.Safe(id))
		return ge.Verbatim.Copy()
	}

	children := make([]*Expr, len(ge.Children))
	for i, cid := range ge.Children {
		children[i] = m.Rebuild(cid)
	}
	return &Expr{Op: ge.Op, Private: ge.Private, Children: children}
}

// Reset discards all groups and fingerprints, returning the Memo to its
// initial empty state.
func (m *Memo) Reset() {
	m.groups = nil
	m.fingerprints = make(map[string]GroupID)
	m.root = InvalidGroupID
}

// NumGroups returns the number of groups currently in the memo, primarily
// useful for tests asserting on memo growth or non-growth.
func (m *Memo) NumGroups() int { return len(m.groups) }
