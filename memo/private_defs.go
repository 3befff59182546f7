// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"fmt"

	"github.com/cockroachdb/scalaropt/sqlvalue"
)

// ConstDef defines the value of the Private field of a ConstOp node: a
// single already-evaluated typed value, as returned by a sqlvalue.TypeSystem
// constructor. Modeled on FuncOpDef in
// pkg/sql/opt/memo/private_defs.go: a small named struct per operator's
// private payload rather than an untyped blob.
type ConstDef struct {
	Value sqlvalue.Value
}

func (d ConstDef) String() string { return d.Value.String() }

// ColumnRefDef defines the value of the Private field of a ColumnRefOp
// node. ResolvedID is the numeric column id assigned by an external
// catalog collaborator; zero means unresolved.
type ColumnRefDef struct {
	Table      string
	Column     string
	ResolvedID int32
}

func (d ColumnRefDef) String() string {
	return fmt.Sprintf("%s.%s", d.Table, d.Column)
}

// Equal reports whether two column references name the same (table,
// column) pair. The resolved id, when present, is derived from the pair
// and is not part of the equality itself.
func (d ColumnRefDef) Equal(o ColumnRefDef) bool {
	return d.Table == o.Table && d.Column == o.Column
}

// ArithmeticDef defines the value of the Private field of Plus/Minus/
// Mult/Div nodes: the statically-inferred result type of the operation.
type ArithmeticDef struct {
	ResultType sqlvalue.Type
}

func (d ArithmeticDef) String() string { return d.ResultType.String() }

// AggregateDef defines the value of the Private field of an AggregateOp
// node.
type AggregateDef struct {
	Kind     string
	Distinct bool
}

func (d AggregateDef) String() string {
	if d.Distinct {
		return d.Kind + "(distinct)"
	}
	return d.Kind
}

// FunctionDef defines the value of the Private field of a FunctionOp node.
// Its arguments are the node's Children, not part of this struct.
type FunctionDef struct {
	Name string
}

func (d FunctionDef) String() string { return d.Name }
