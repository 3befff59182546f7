// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scalaropt rewrites scalar SQL expression trees into an
// equivalent, simplified form by driving a memo of equivalence groups
// through a fixed sequence of pattern-matching rewrite passes. It has no
// catalog, no cost model, and no relational operators: it is the
// scalar-expression slice of a Cascades-style optimizer, structured the
// way pkg/sql/opt/norm and pkg/sql/opt/xform structure the real thing.
package scalaropt

import (
	"context"

	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/rules"
	"github.com/cockroachdb/scalaropt/sqlvalue"
	"github.com/cockroachdb/scalaropt/task"
)

// Option configures a Rewriter built by New.
type Option func(*config)

type config struct {
	registryOpts []rules.Option
}

// WithTypeSystem overrides the TypeSystem constants are evaluated against,
// in place of the default sqlvalue.BasicValues{}. Tests use this to
// substitute a TypeSystem that exercises comparability failures or
// alternate constant kinds without touching the rule definitions.
func WithTypeSystem(values sqlvalue.TypeSystem) Option {
	return func(c *config) { c.registryOpts = append(c.registryOpts, rules.WithTypeSystem(values)) }
}

// Rewriter holds the rule registry a sequence of RewriteExpression calls
// runs against. It has no mutable state of its own between calls — each
// call builds and discards its own Memo — so a single Rewriter is safe to
// reuse (though not to share across concurrent calls; see the
// single-threaded-per-call note on RewriteExpression).
type Rewriter struct {
	registry *rules.Registry
}

// New builds a Rewriter with the five hardcoded rule sets, applying any
// opts on top.
func New(opts ...Option) *Rewriter {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return &Rewriter{registry: rules.NewRuleSets(c.registryOpts...)}
}

// defaultRewriter is shared by the package-level RewriteExpression
// convenience function; building a Registry is cheap and stateless, but
// there is no reason to repeat it on every call that doesn't need a
// custom Option.
var defaultRewriter = New()

// RewriteExpression rewrites expr to an equivalent, simplified form using
// the default rule configuration. It is single-threaded and has no
// suspension points or cancellation; ctx is threaded through only to the
// ambient logging calls the rewrite passes make along the way. A nil expr
// returns nil.
func RewriteExpression(ctx context.Context, expr *memo.Expr) *memo.Expr {
	return defaultRewriter.RewriteExpression(ctx, expr)
}

// RewriteExpression runs expr through the memo, saturates it against
// every rule set in the documented order, then rebuilds and returns the
// simplified tree. The steps mirror the Init/apply-rules/DetachMemo
// lifecycle pkg/sql/opt/xform/optimizer_test.go exercises against
// xform.Optimizer: ingest into the memo, drive rule application via a
// Scheduler, rebuild the winning tree, then discard the memo so the
// Rewriter carries no state between calls.
func (rw *Rewriter) RewriteExpression(ctx context.Context, expr *memo.Expr) *memo.Expr {
	if expr == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	mem := memo.New()
	root := mem.RecordExpression(expr)
	mem.SetRoot(root)

	var cf rules.CustomFuncs
	cf.Init(mem, rw.registry.TypeSystem())

	sched := task.NewScheduler(ctx, mem, &cf, rw.registry)
	// Pushed in this fixed order; the LIFO stack pops (and therefore
	// executes) them in reverse: boolean-short-circuit first, then
	// transitive-transform, comparator-elimination, null-lookup, and
	// finally equivalent-transform last. Each pass, with the child tasks it
	// pushes, drains before the next pass pops, so a pass sees the output
	// of the passes that ran before it but not of those after it. Within a
	// pass each group visit applies the rules to one snapshot of the
	// group, so the result is not necessarily a fixpoint.
	sched.Push(&task.TopDownRewrite{GroupID: root, RuleSet: rules.EquivalentTransform})
	sched.Push(&task.BottomUpRewrite{GroupID: root, RuleSet: rules.NullLookup})
	sched.Push(&task.BottomUpRewrite{GroupID: root, RuleSet: rules.ComparatorElim})
	sched.Push(&task.BottomUpRewrite{GroupID: root, RuleSet: rules.TransitiveTransform})
	sched.Push(&task.TopDownRewrite{GroupID: root, RuleSet: rules.BooleanShortCircuit})
	sched.Run()

	result := mem.Rebuild(mem.Root())
	mem.Reset()
	return result
}
