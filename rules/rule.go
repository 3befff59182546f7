// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package rules defines the concrete rewrite rules and the named rule sets
// the task scheduler drives them through.
package rules

import (
	"sort"

	"github.com/cockroachdb/scalaropt/memo"
	"github.com/cockroachdb/scalaropt/pattern"
	"github.com/cockroachdb/scalaropt/sqlvalue"
)

// Promise values encode firing priority only; rule firing in this engine
// is never cost-based.
const (
	PromiseLow    = 1
	PromiseNormal = 5
	PromiseHigh   = 10
)

// Rule pairs a pattern with a check predicate and a transform, plus the
// bookkeeping the scheduler needs to fire rules in a deterministic order.
type Rule struct {
	// ID is a distinct integer used only to break promise ties
	// deterministically; it carries no other meaning.
	ID int
	// Name identifies the rule in test output and logging.
	Name string
	// Promise is this rule's firing priority; higher fires first.
	Promise int
	// Pattern is the match template applied at each candidate binding.
	Pattern *pattern.Pattern
	// Check reports whether the transform should run for this binding.
	Check func(f *CustomFuncs, b *pattern.Binding) bool
	// Transform produces the equivalent group-expressions to add. An
	// empty result is not a failure, it is simply "no rewrite".
	Transform func(f *CustomFuncs, b *pattern.Binding) []memo.GroupExpr
	// ReplaceOnTransform selects how Transform's output is installed: true
	// clears the group and installs the single new expression; false adds
	// it as an equivalent alternative.
	ReplaceOnTransform bool
}

// RuleSet is a named, ordered collection of rewrite rules.
type RuleSet struct {
	Name  string
	Rules []*Rule
}

// Sorted returns the set's rules ordered by promise descending, ties
// broken by rule-id ascending, for deterministic firing order. The
// receiver's slice is left untouched; callers get a fresh, ordered copy.
func (s *RuleSet) Sorted() []*Rule {
	out := make([]*Rule, len(s.Rules))
	copy(out, s.Rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Promise != out[j].Promise {
			return out[i].Promise > out[j].Promise
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Named rule-set identifiers, referenced by the rewriter facade when it
// seeds the task stack.
const (
	EquivalentTransform = "EQUIVALENT_TRANSFORM"
	NullLookup          = "NULL_LOOKUP"
	ComparatorElim      = "COMPARATOR_ELIMINATION"
	TransitiveTransform = "TRANSITIVE_TRANSFORM"
	BooleanShortCircuit = "BOOLEAN_SHORT_CIRCUIT"
)

// Registry holds every rule set this engine defines, and (separately) any
// implementation rules reserved for a future physical-implementation
// pass — kept in their own field rather than appended to the transform
// rule sets.
type Registry struct {
	transformSets       map[string]*RuleSet
	implementationRules []*Rule
	values              sqlvalue.TypeSystem
}

// Option configures a Registry built by NewRuleSets, in the style of
// pkg/sql/opt/norm's Factory.Init functional options. The five
// transformation rule sets are always present; an Option can only add to
// the registry (e.g. registering an implementation rule reserved for a
// future physical-implementation pass, or substituting the TypeSystem
// used to evaluate constants), never remove one of the five rule sets.
type Option func(*Registry)

// WithImplementationRule returns an Option that registers rule via
// AddImplementationRule at construction time.
func WithImplementationRule(rule *Rule) Option {
	return func(r *Registry) { r.AddImplementationRule(rule) }
}

// WithTypeSystem returns an Option that overrides the TypeSystem used to
// build the CustomFuncs this registry's rules run against, in place of
// the default sqlvalue.BasicValues{} — the seam a test substitutes an
// alternate constant-comparison implementation through.
func WithTypeSystem(values sqlvalue.TypeSystem) Option {
	return func(r *Registry) { r.values = values }
}

// TypeSystem returns the TypeSystem this registry was built with,
// defaulting to sqlvalue.BasicValues{}.
func (r *Registry) TypeSystem() sqlvalue.TypeSystem {
	if r.values == nil {
		return sqlvalue.BasicValues{}
	}
	return r.values
}

// NewRuleSets builds the registry containing every rule set this package
// defines, applying any opts on top.
func NewRuleSets(opts ...Option) *Registry {
	r := &Registry{transformSets: make(map[string]*RuleSet)}
	r.register(comparatorEliminationRuleSet())
	r.register(booleanShortCircuitRuleSet())
	r.register(equivalentTransformRuleSet())
	r.register(nullLookupRuleSet())
	r.register(transitiveTransformRuleSet())
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) register(set *RuleSet) {
	r.transformSets[set.Name] = set
}

// RuleSet looks up a named rule set, panicking if the name is unknown —
// an unknown rule-set name reaching this call is a caller bug, not a
// recoverable condition.
func (r *Registry) RuleSet(name string) *RuleSet {
	s, ok := r.transformSets[name]
	AssertKnownRuleSet(ok, name)
	return s
}

// AddImplementationRule registers a rule reserved for a future
// physical-implementation pass. It is never consulted by the rewrite
// tasks in this package; it exists so the registry has somewhere to put
// such rules without conflating them with the transformation rule sets.
func (r *Registry) AddImplementationRule(rule *Rule) {
	r.implementationRules = append(r.implementationRules, rule)
}

// ImplementationRules returns the rules registered via
// AddImplementationRule, untouched by any transform rule set.
func (r *Registry) ImplementationRules() []*Rule {
	return r.implementationRules
}
