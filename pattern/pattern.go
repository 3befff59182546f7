// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pattern defines the tree templates rules match against, and the
// binding iterator that enumerates every concrete sub-expression in a memo
// matching a given pattern.
package pattern

import (
	"fmt"

	"github.com/cockroachdb/scalaropt/opt"
)

// Tag distinguishes the three kinds of pattern node.
type Tag uint8

const (
	// Concrete matches only group-expressions whose operator equals Op,
	// and recursively matches each child position against the
	// corresponding child pattern.
	Concrete Tag = iota
	// Leaf is the wildcard: it matches any single subtree of any arity,
	// without descending into it. The binding records only the child's
	// group-ID at a Leaf position.
	Leaf
	// GroupMarker matches an entire group without constraining its
	// operator, and (like Leaf) does not descend. It exists as a distinct
	// tag from Leaf purely for readability at call sites — rules that
	// want to preserve "this child, whatever it is, as a group reference"
	// write GroupMarker rather than Leaf to say so.
	GroupMarker
)

func (t Tag) String() string {
	switch t {
	case Concrete:
		return "Concrete"
	case Leaf:
		return "Leaf"
	case GroupMarker:
		return "GroupMarker"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// Pattern is a recursive match template.
// Arity is implicit from len(Children).
type Pattern struct {
	Tag      Tag
	Op       opt.Operator
	Children []*Pattern
}

// Match reports whether a concrete operator satisfies this pattern node in
// isolation (ignoring children). A Leaf or GroupMarker pattern matches
// anything.
func (p *Pattern) Match(op opt.Operator) bool {
	return p.Tag != Concrete || p.Op == op
}

// New builds a Concrete pattern node requiring operator op with the given
// child patterns.
func New(op opt.Operator, children ...*Pattern) *Pattern {
	return &Pattern{Tag: Concrete, Op: op, Children: children}
}

// LeafPattern returns a wildcard pattern node.
func LeafPattern() *Pattern {
	return &Pattern{Tag: Leaf}
}

// GroupMarkerPattern returns a group-marker pattern node.
func GroupMarkerPattern() *Pattern {
	return &Pattern{Tag: GroupMarker}
}
