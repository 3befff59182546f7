// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package sqlvalue

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq/oid"
)

// typeOid maps a Type to the Postgres-compatible OID the wire protocol and
// the catalog collaborator use to identify it, matching the convention
// pkg/sql/opt/norm/fold_constants_funcs.go uses lib/pq/oid for rather than
// a bespoke type-tag enum.
func typeOid(t Type) oid.Oid {
	switch t {
	case BooleanType:
		return oid.T_bool
	case IntegerType:
		return oid.T_int8
	default:
		return oid.T_unknown
	}
}

// basicValue is the reference Value implementation. Booleans are stored as
// a TriState directly; integers are backed by an arbitrary-precision
// apd.Decimal rather than a bare int64, the same decimal-backed
// representation pkg/sql/opt uses for numeric constants.
type basicValue struct {
	typ    Type
	oid    oid.Oid
	null   bool
	b      TriState
	intVal *apd.Decimal
}

var _ Value = (*basicValue)(nil)

func (v *basicValue) Type() Type   { return v.typ }
func (v *basicValue) IsNull() bool { return v.null }

func (v *basicValue) String() string {
	if v.null {
		return "NULL"
	}
	switch v.typ {
	case BooleanType:
		return v.b.String()
	case IntegerType:
		return v.intVal.String()
	default:
		return fmt.Sprintf("<value oid=%d>", v.oid)
	}
}

func (v *basicValue) CheckComparable(other Value) bool {
	o, ok := other.(*basicValue)
	if !ok {
		return false
	}
	return v.typ == o.typ && v.typ != UnknownType
}

// assertComparable panics with a fatal assertion when a rule calls a
// Compare* method without first checking CheckComparable — a rule-internal
// invariant violation, not a recoverable "not comparable" outcome (that
// path is CompareConstants in package rules, which checks CheckComparable
// up front).
func (v *basicValue) assertComparable(other Value) *basicValue {
	o, ok := other.(*basicValue)
	if !ok || v.typ != o.typ {
		panic(errors.AssertionFailedf(
			"sqlvalue: Compare* called on incomparable values %v and %v", v, other))
	}
	return o
}

func (v *basicValue) CompareEquals(other Value) TriState {
	o := v.assertComparable(other)
	if v.null || o.null {
		return TriUnknown
	}
	if v.typ == BooleanType {
		return boolToTri(v.b == o.b)
	}
	return boolToTri(v.intVal.Cmp(o.intVal) == 0)
}

func (v *basicValue) CompareNotEquals(other Value) TriState {
	return v.CompareEquals(other).Not()
}

func (v *basicValue) CompareLessThan(other Value) TriState {
	o := v.assertComparable(other)
	if v.null || o.null {
		return TriUnknown
	}
	if v.typ == BooleanType {
		return boolToTri(v.b == False && o.b == True)
	}
	return boolToTri(v.intVal.Cmp(o.intVal) < 0)
}

func (v *basicValue) CompareGreaterThan(other Value) TriState {
	o := v.assertComparable(other)
	if v.null || o.null {
		return TriUnknown
	}
	if v.typ == BooleanType {
		return boolToTri(v.b == True && o.b == False)
	}
	return boolToTri(v.intVal.Cmp(o.intVal) > 0)
}

// CompareGreaterThanEquals is implemented as the negation of LessThan,
// preserving NULL (NOT(NULL) stays NULL).
func (v *basicValue) CompareGreaterThanEquals(other Value) TriState {
	return v.CompareLessThan(other).Not()
}

func boolToTri(b bool) TriState {
	if b {
		return True
	}
	return False
}

// BasicValues is the reference TypeSystem implementation, sufficient to
// drive booleans, integers, and NULL.
type BasicValues struct{}

var _ TypeSystem = BasicValues{}

// BooleanValue implements TypeSystem.
func (BasicValues) BooleanValue(b TriState) Value {
	return &basicValue{typ: BooleanType, oid: typeOid(BooleanType), null: b == TriUnknown, b: b}
}

// IntegerValue implements TypeSystem.
func (BasicValues) IntegerValue(i int64) Value {
	return &basicValue{typ: IntegerType, oid: typeOid(IntegerType), intVal: apd.New(i, 0)}
}

// NullValue implements TypeSystem.
func (BasicValues) NullValue(typ Type) Value {
	v := &basicValue{typ: typ, oid: typeOid(typ), null: true}
	if typ == IntegerType {
		v.intVal = apd.New(0, 0)
	}
	return v
}
