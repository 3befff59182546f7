// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package sqlvalue defines the type-system boundary the rewrite engine
// consumes from an external collaborator: the SQL parser and catalog are
// out of scope, so constants are evaluated already-typed values rather
// than raw literals. Comparator elimination and NULL lookup call through
// the TypeSystem/Value contract defined here rather than embedding
// comparison logic of their own, mirroring how
// pkg/sql/opt/norm/general_funcs.go's CustomFuncs delegate to tree.Datum
// comparisons instead of hand-rolling them.
package sqlvalue

import "fmt"

// Type identifies the static SQL type of a Value.
type Type uint8

const (
	// UnknownType is the zero value; a Value should never report it.
	UnknownType Type = iota
	// BooleanType is SQL BOOLEAN.
	BooleanType
	// IntegerType is a SQL integer family type, backed by an
	// arbitrary-precision decimal internally (see BasicValues).
	IntegerType
)

func (t Type) String() string {
	switch t {
	case BooleanType:
		return "bool"
	case IntegerType:
		return "int"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// TriState is a three-valued logic result: TRUE, FALSE, or the SQL NULL
// ("unknown") truth value produced whenever either comparison operand is
// NULL.
type TriState uint8

const (
	// False is SQL FALSE.
	False TriState = iota
	// True is SQL TRUE.
	True
	// TriUnknown is SQL NULL used as a three-valued logic truth value.
	TriUnknown
)

func (t TriState) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "null"
	}
}

// Not implements three-valued NOT: NOT(NULL) is NULL.
func (t TriState) Not() TriState {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return TriUnknown
	}
}

// Value is a single typed SQL scalar: a constant that has already been
// evaluated, or NULL of some type. Comparator-elimination rules call these
// methods directly instead of interpreting the type or bit pattern
// themselves — the caller (this engine) never needs to know how a Value
// is represented internally.
type Value interface {
	// Type returns the value's static type.
	Type() Type
	// IsNull reports whether this Value is SQL NULL.
	IsNull() bool
	// CheckComparable reports whether this Value can be compared to other.
	// Values of different concrete types are never comparable in this
	// reference type system; a richer type system with implicit casts
	// could relax that, which is exactly why this is a method call rather
	// than the caller inspecting Type() itself.
	CheckComparable(other Value) bool
	// CompareEquals, CompareNotEquals, CompareLessThan,
	// CompareGreaterThan, and CompareGreaterThanEquals implement the six
	// SQL comparison operators (CompareLessThanEquals is derived by
	// negating CompareGreaterThan). Each returns
	// TriUnknown if either operand is NULL. Calling these when
	// CheckComparable would return false is a misuse and panics.
	CompareEquals(other Value) TriState
	CompareNotEquals(other Value) TriState
	CompareLessThan(other Value) TriState
	CompareGreaterThan(other Value) TriState
	CompareGreaterThanEquals(other Value) TriState
	fmt.Stringer
}

// TypeSystem is the collaborator boundary: the rewrite engine constructs
// constants only through these factory methods, never by reaching into a
// concrete Value implementation's fields.
type TypeSystem interface {
	// BooleanValue constructs a BOOLEAN constant. Pass TriUnknown for NULL.
	BooleanValue(b TriState) Value
	// IntegerValue constructs an integer constant with the given value.
	IntegerValue(i int64) Value
	// NullValue constructs a NULL of the given type.
	NullValue(typ Type) Value
}
