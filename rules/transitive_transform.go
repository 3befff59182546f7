// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rules

import (
	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/pattern"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

// transitiveTransformRuleSet holds two low-priority rules over
// AND(Equal, Equal), applied bottom-up so that child groups are visited
// before the AND group. In the rewriter's pass order this set runs before
// comparator elimination. Both rules rewrite the AND group itself; neither
// reaches into a sibling group.
func transitiveTransformRuleSet() *RuleSet {
	pat := pattern.New(opt.AndOp,
		pattern.New(opt.EqOp, pattern.LeafPattern(), pattern.LeafPattern()),
		pattern.New(opt.EqOp, pattern.LeafPattern(), pattern.LeafPattern()))

	return &RuleSet{
		Name: TransitiveTransform,
		Rules: []*Rule{
			{
				ID:                 400,
				Name:               "TwoConstantEquality",
				Promise:            PromiseLow,
				Pattern:            pat,
				Check:              checkTwoConstantEquality,
				Transform:          transformTwoConstantEquality,
				ReplaceOnTransform: true,
			},
			{
				ID:                 401,
				Name:               "TransitiveClosureConstant",
				Promise:            PromiseLow,
				Pattern:            pat,
				Check:              checkTransitiveClosureConstant,
				Transform:          transformTransitiveClosureConstant,
				ReplaceOnTransform: true,
			},
		},
	}
}

// columnConstEq describes one leg of an AND(Equal, Equal) match that
// resolved to (column, constant) in either child order, or ok=false if the
// leg isn't a column-to-constant equality at all.
type columnConstEq struct {
	col      memo.ColumnRefDef
	constVal sqlvalue.Value
	ok       bool
}

// classifyEquality inspects one Equal binding and, if it is exactly one
// column reference compared to exactly one constant, returns the leg.
func classifyEquality(f *CustomFuncs, eq *pattern.Binding) columnConstEq {
	left, right := eq.Child(0), eq.Child(1)
	leftIsCol := isColumnRefGroup(f, left.GroupID)
	rightIsCol := isColumnRefGroup(f, right.GroupID)
	leftConst, leftIsConst := constInGroup(f, left.GroupID)
	rightConst, rightIsConst := constInGroup(f, right.GroupID)

	switch {
	case leftIsCol && rightIsConst:
		return columnConstEq{col: columnRefInGroup(f, left.GroupID), constVal: rightConst, ok: true}
	case rightIsCol && leftIsConst:
		return columnConstEq{col: columnRefInGroup(f, right.GroupID), constVal: leftConst, ok: true}
	default:
		return columnConstEq{}
	}
}

// classifyColumnEquality inspects one Equal binding and, if both sides are
// column references, returns them; ok is false if either side is not a
// bare column reference (in particular, if either side is a constant).
func classifyColumnEquality(f *CustomFuncs, eq *pattern.Binding) (left, right memo.ColumnRefDef, ok bool) {
	l, r := eq.Child(0), eq.Child(1)
	if !isColumnRefGroup(f, l.GroupID) || !isColumnRefGroup(f, r.GroupID) {
		return memo.ColumnRefDef{}, memo.ColumnRefDef{}, false
	}
	return columnRefInGroup(f, l.GroupID), columnRefInGroup(f, r.GroupID), true
}

func isColumnRefGroup(f *CustomFuncs, id memo.GroupID) bool {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op == opt.ColumnRefOp {
			return true
		}
	}
	return false
}

// columnRefInGroup returns the definition of the first column reference in
// id's group. The Equal legs' children are Leaf positions, whose bindings
// carry only a group id, so the definition is read from the group itself.
func columnRefInGroup(f *CustomFuncs, id memo.GroupID) memo.ColumnRefDef {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op == opt.ColumnRefOp {
			return ge.Private.(memo.ColumnRefDef)
		}
	}
	return memo.ColumnRefDef{}
}

func constInGroup(f *CustomFuncs, id memo.GroupID) (sqlvalue.Value, bool) {
	for _, ge := range f.mem.GetGroup(id).Exprs() {
		if ge.Op == opt.ConstOp {
			return ge.Private.(memo.ConstDef).Value, true
		}
	}
	return nil, false
}

// checkTwoConstantEquality reports whether both legs of the AND resolve to
// the same column compared against a comparable constant. A NULL constant
// is not exempted: A.B=1 AND A.B=NULL still matches, and falls through to
// the FALSE branch in transformTwoConstantEquality, since NULL never
// compares equal to anything.
func checkTwoConstantEquality(f *CustomFuncs, b *pattern.Binding) bool {
	left := classifyEquality(f, b.Child(0))
	right := classifyEquality(f, b.Child(1))
	if !left.ok || !right.ok || !left.col.Equal(right.col) {
		return false
	}
	return left.constVal.CheckComparable(right.constVal)
}

// transformTwoConstantEquality resolves AND(A.B=c1, A.B=c2): if c1 and c2
// are equal, the AND collapses to the single equality A.B=c1 (one copy of
// the left conjunct); otherwise (including when either constant is NULL,
// since NULL never compares equal to anything) the two conjuncts
// contradict and the AND collapses to FALSE.
func transformTwoConstantEquality(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	if !checkTwoConstantEquality(f, b) {
		return nil
	}
	left := classifyEquality(f, b.Child(0))
	right := classifyEquality(f, b.Child(1))
	if left.constVal.CompareEquals(right.constVal) == sqlvalue.True {
		return []memo.GroupExpr{f.PassThroughGroupExpr(b.Child(0))}
	}
	return []memo.GroupExpr{f.BoolGroupExpr(sqlvalue.False)}
}

// transitiveMatch names the constant leg (K=Constant) and the two column
// refs (L, R) of a column-to-column second leg, once both have been
// classified.
type transitiveMatch struct {
	constLeg *pattern.Binding
	k        memo.ColumnRefDef
	constVal sqlvalue.Value
	l, r     memo.ColumnRefDef
	otherLeg *pattern.Binding
	found    bool
}

// findTransitiveMatch requires one leg to be ColumnRef=Constant and the
// other to be ColumnRef=ColumnRef, in either arrangement of the two Equal
// legs.
func findTransitiveMatch(f *CustomFuncs, b *pattern.Binding) transitiveMatch {
	legs := [2]*pattern.Binding{b.Child(0), b.Child(1)}
	for i := 0; i < 2; i++ {
		constLeg := classifyEquality(f, legs[i])
		if !constLeg.ok {
			continue
		}
		otherLeg := legs[1-i]
		l, r, ok := classifyColumnEquality(f, otherLeg)
		if !ok {
			continue
		}
		return transitiveMatch{
			constLeg: legs[i], k: constLeg.col, constVal: constLeg.constVal,
			l: l, r: r, otherLeg: otherLeg, found: true,
		}
	}
	return transitiveMatch{}
}

func checkTransitiveClosureConstant(f *CustomFuncs, b *pattern.Binding) bool {
	return findTransitiveMatch(f, b).found
}

// transformTransitiveClosureConstant implements the four cases of
// Transitive-closure-constant: K=Constant paired with L=R.
//   - L = R exactly: the AND collapses to Equal(K, Constant) alone.
//   - K matches neither L nor R: no rewrite.
//   - K = L: rewrite to AND(Equal(K,Constant), Equal(Constant,R)).
//   - K = R: rewrite to AND(Equal(K,Constant), Equal(L,Constant)).
func transformTransitiveClosureConstant(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr {
	m := findTransitiveMatch(f, b)
	if !m.found {
		return nil
	}
	if m.l.Equal(m.r) {
		return []memo.GroupExpr{f.PassThroughGroupExpr(m.constLeg)}
	}

	constID := f.mem.MemoizeGroupExpr(memo.GroupExpr{
		Op:      opt.ConstOp,
		Private: memo.ConstDef{Value: m.constVal},
	})

	var newEqID memo.GroupID
	switch {
	case m.k.Equal(m.l):
		newEqID = f.mem.MemoizeGroupExpr(memo.GroupExpr{
			Op:       opt.EqOp,
			Children: []memo.GroupID{constID, m.otherLeg.Child(1).GroupID},
		})
	case m.k.Equal(m.r):
		newEqID = f.mem.MemoizeGroupExpr(memo.GroupExpr{
			Op:       opt.EqOp,
			Children: []memo.GroupID{m.otherLeg.Child(0).GroupID, constID},
		})
	default:
		return nil
	}

	return []memo.GroupExpr{{
		Op:       opt.AndOp,
		Children: []memo.GroupID{m.constLeg.GroupID, newEqID},
	}}
}
