// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast implements spec.md §3's data model: a sum type over
// expression variants, each carrying a dense 64-bit id unique within one
// AST, plus the arena-backed navigator used by compiler passes and the
// mutable-AST rewriter (spec.md §4.2, Design Notes).
//
// The variant shape follows the teacher's internal/core/adt package:
// a closed set of concrete node types implementing a marker interface
// (there, Node/Value/Expr/Decl; here, just Expr, since CEL expressions
// have no declaration/lattice distinction to make).
package ast

// ID is the unique-within-one-AST node identifier assigned by the parser
// or macro expander (spec.md §3).
type ID int64

// Expr is implemented by every expression node variant in the table in
// spec.md §3. The interface itself carries no behavior beyond identity;
// navigation and evaluation dispatch on the concrete type via a type
// switch, exactly as internal/core/adt's expr() marker methods do.
type Expr interface {
	ID() ID
}

// Constant is a tagged literal value (spec.md §3 "Constant").
type Constant struct {
	Id ID

	// Exactly one of the following is meaningful; Kind says which.
	Kind ConstantKind

	BoolValue   bool
	IntValue    int64
	UintValue   uint64
	DoubleValue float64
	StringValue string
	BytesValue  []byte
}

type ConstantKind int

const (
	NullConstant ConstantKind = iota
	BoolConstant
	IntConstant
	UintConstant
	DoubleConstant
	StringConstant
	BytesConstant
)

func (e *Constant) ID() ID { return e.Id }

// Ident is an unqualified name reference (spec.md §3 "Ident").
type Ident struct {
	Id   ID
	Name string
}

func (e *Ident) ID() ID { return e.Id }

// Select is a field access, or (when TestOnly is set) a has() presence
// test over that same field (spec.md §3 "Select", §4.5 has()).
type Select struct {
	Id       ID
	Operand  Expr
	Field    string
	TestOnly bool
}

func (e *Select) ID() ID { return e.Id }

// Call is a function or method invocation. Target is nil for a free
// function call (spec.md §3 "Call").
type Call struct {
	Id       ID
	Target   Expr // nil for a free function
	Function string
	Args     []Expr
}

func (e *Call) ID() ID { return e.Id }

// ListExpr is an ordered list construction. OptionalIndices names the
// positions in Elements that carry the `?` optional marker (spec.md §3
// "List").
type ListExpr struct {
	Id              ID
	Elements        []Expr
	OptionalIndices map[int]bool
}

func (e *ListExpr) ID() ID { return e.Id }

// StructField is one entry of a StructExpr (spec.md §3 "Struct").
type StructField struct {
	Id       ID
	Name     string
	Value    Expr
	Optional bool
}

// StructExpr constructs a named message value (spec.md §3 "Struct").
type StructExpr struct {
	Id          ID
	MessageName string
	Fields      []StructField
}

func (e *StructExpr) ID() ID { return e.Id }

// MapEntry is one key/value pair of a MapExpr (spec.md §3 "Map").
type MapEntry struct {
	Id       ID
	Key      Expr
	Value    Expr
	Optional bool
}

// MapExpr constructs a map value (spec.md §3 "Map").
type MapExpr struct {
	Id      ID
	Entries []MapEntry
}

func (e *MapExpr) ID() ID { return e.Id }

// Comprehension is CEL's sole looping construct: a bounded fold over a
// list or map (spec.md §3 "Comprehension", glossary "Comprehension").
type Comprehension struct {
	Id            ID
	IterVar       string
	IterRange     Expr
	AccuVar       string
	AccuInit      Expr
	LoopCondition Expr
	LoopStep      Expr
	Result        Expr

	// MacroCall, when non-nil and populateMacroCalls was requested at
	// compile time, records the syntactic macro invocation this
	// comprehension was expanded from (spec.md §4.5).
	MacroCall Expr
}

func (e *Comprehension) ID() ID { return e.Id }

// NotSet is the placeholder variant for a not-yet-filled expression slot
// (spec.md §3 "NotSet"), used by the mutable rewriter while a node is
// under construction.
type NotSet struct {
	Id ID
}

func (e *NotSet) ID() ID { return e.Id }
