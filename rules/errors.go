// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rules

import "github.com/cockroachdb/errors"

// ErrNotComparable is returned internally by CustomFuncs.CompareConstants
// when two constant values fail CheckComparable. It is not a fatal
// condition: callers treat it as a signal to emit no transform, not as an
// error to propagate.
var ErrNotComparable = errors.New("rules: operands are not comparable")

// AssertKnownRuleSet panics with a fatal assertion when a caller asks the
// registry for an undefined rule-set name.
func AssertKnownRuleSet(ok bool, name string) {
	if !ok {
		panic(errors.AssertionFailedf("rules: unknown rule set %q", name))
	}
}

// assertUnreachable panics with a fatal assertion; used for switch default
// branches over an already-pattern-constrained operator, where reaching
// the default indicates a rule-internal invariant violation rather than a
// recoverable condition.
func assertUnreachable(format string, args ...interface{}) {
	panic(errors.AssertionFailedf(format, args...))
}
