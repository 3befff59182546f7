// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rules_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/opt"
	"github.com/cockroachdb/scalaropt/rules"
	"github.com/cockroachdb/scalaropt/sqlvalue"
	"github.com/cockroachdb/scalaropt/task"
)

// A minimal Lisp-ish reader for the "rewrite" datadriven fixtures: input
// text such as "(AND (EQ A.B 1) (EQ A.B 1))" builds a *memo.Expr tree.
// Column references are any bare identifier containing a dot; integer
// constants are bare digits (optionally signed); TRUE/FALSE/NULL are the
// three constant Boolean/NULL literals the rule fixtures need.
var basicTS = sqlvalue.BasicValues{}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

type exprParser struct {
	toks []string
	pos  int
}

func parseExprString(t *testing.T, s string) *memo.Expr {
	t.Helper()
	p := &exprParser{toks: tokenize(s)}
	e := p.parse(t)
	if p.pos != len(p.toks) {
		t.Fatalf("trailing tokens after expression: %v", p.toks[p.pos:])
	}
	return e
}

func (p *exprParser) next(t *testing.T) string {
	t.Helper()
	if p.pos >= len(p.toks) {
		t.Fatalf("unexpected end of input")
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok
}

func (p *exprParser) parse(t *testing.T) *memo.Expr {
	t.Helper()
	tok := p.next(t)
	if tok != "(" {
		return p.parseLeaf(t, tok)
	}
	op := p.opFor(t, p.next(t))
	var children []*memo.Expr
	for p.toks[p.pos] != ")" {
		children = append(children, p.parse(t))
	}
	p.pos++ // consume ")"
	return memo.NewExpr(op, nil, children...)
}

func (p *exprParser) opFor(t *testing.T, name string) opt.Operator {
	t.Helper()
	switch name {
	case "AND":
		return opt.AndOp
	case "OR":
		return opt.OrOp
	case "EQ":
		return opt.EqOp
	case "NE":
		return opt.NeOp
	case "LT":
		return opt.LtOp
	case "GT":
		return opt.GtOp
	case "LE":
		return opt.LeOp
	case "GE":
		return opt.GeOp
	default:
		t.Fatalf("unknown operator %q", name)
		return opt.UnknownOp
	}
}

func (p *exprParser) parseLeaf(t *testing.T, tok string) *memo.Expr {
	t.Helper()
	switch tok {
	case "TRUE":
		return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basicTS.BooleanValue(sqlvalue.True)})
	case "FALSE":
		return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basicTS.BooleanValue(sqlvalue.False)})
	case "NULL":
		return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basicTS.NullValue(sqlvalue.IntegerType)})
	}
	if strings.Contains(tok, ".") {
		parts := strings.SplitN(tok, ".", 2)
		return memo.NewLeaf(opt.ColumnRefOp, memo.ColumnRefDef{Table: parts[0], Column: parts[1]})
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		t.Fatalf("unrecognized leaf token %q", tok)
	}
	return memo.NewLeaf(opt.ConstOp, memo.ConstDef{Value: basicTS.IntegerValue(n)})
}

// saturate builds a fresh memo from in and saturates it against exactly
// one named rule set using strategy ("topdown" or "bottomup"). This
// mirrors what the root rewriter facade does for a single pass, without
// the other four rule sets running around it, so each fixture isolates
// one rule family.
func saturate(t *testing.T, ruleSet string, strategy string, in *memo.Expr) *memo.Memo {
	t.Helper()
	mem := memo.New()
	root := mem.RecordExpression(in)
	mem.SetRoot(root)

	var cf rules.CustomFuncs
	cf.Init(mem, basicTS)
	registry := rules.NewRuleSets()

	sched := task.NewScheduler(nil, mem, &cf, registry)
	switch strategy {
	case "topdown":
		sched.Push(&task.TopDownRewrite{GroupID: root, RuleSet: ruleSet})
	case "bottomup":
		sched.Push(&task.BottomUpRewrite{GroupID: root, RuleSet: ruleSet})
	default:
		t.Fatalf("unknown strategy %q", strategy)
	}
	sched.Run()
	return mem
}

// runRuleSet saturates in against ruleSet and returns the rebuilt tree,
// formatted with memo.FormatExpr. Rules applied with
// ReplaceOnTransform=false (equivalent-transform) won't show up here,
// since Rebuild always picks a group's first-inserted expression; use
// runRuleSetDumpMemo for those.
func runRuleSet(t *testing.T, ruleSet string, strategy string, in *memo.Expr) string {
	t.Helper()
	mem := saturate(t, ruleSet, strategy, in)
	return memo.FormatExpr(mem.Rebuild(mem.Root()))
}

// runRuleSetDumpMemo saturates in against ruleSet and returns the full
// memo dump, so a fixture can see every equivalent alternative a
// ReplaceOnTransform=false rule (equivalent-transform) added alongside the
// original, rather than only whichever one Rebuild happens to pick first.
func runRuleSetDumpMemo(t *testing.T, ruleSet string, strategy string, in *memo.Expr) string {
	t.Helper()
	mem := saturate(t, ruleSet, strategy, in)
	return mem.String()
}
