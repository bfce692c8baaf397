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

package ast

import (
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/token"
)

// Reference is what the checker records in an Ast's reference map for a
// resolved identifier, select, or call node (spec.md §3 "AST container",
// §4.6 step 5): either a list of matching overload ids (for a Call, or an
// Ident/Select bound to a function value), or a constant value (for an
// enum literal reference).
type Reference struct {
	Name       string
	OverloadID []string
	Value      Expr // non-nil when the reference names an enum constant
}

// Ast is the container described in spec.md §3 "AST container": a root
// expression, its source, and - once checked - per-node type and
// reference side-maps keyed by node id. A parsed-only Ast has empty
// side-maps, exactly as spec.md requires.
type Ast struct {
	root   Expr
	src    *source.Source
	nextID ID

	// typeMap and refMap are declared as map[ID]interface{} here to avoid
	// an import cycle with the types package; checker.CheckedAst wraps
	// this with typed accessors.
	typeMap map[ID]interface{}
	refMap  map[ID]*Reference
	posMap  map[ID]token.Position
}

// NewAst wraps a freshly parsed root expression with its source and the
// parser's id->position table (spec.md §4.1, used to position checker
// and evaluator diagnostics precisely).
func NewAst(root Expr, src *source.Source, maxID ID, posMap map[ID]token.Position) *Ast {
	return &Ast{root: root, src: src, nextID: maxID + 1, posMap: posMap}
}

// PositionOf returns the source position the parser recorded for id, or
// the zero Position if none was recorded (e.g. for a node synthesized by
// the macro expander after parsing).
func (a *Ast) PositionOf(id ID) token.Position {
	if a.posMap == nil {
		return token.Position{}
	}
	return a.posMap[id]
}

// SetPosition records/overwrites the position of id, used by the macro
// expander to give synthesized nodes a sensible position (that of the
// macro call they replace).
func (a *Ast) SetPosition(id ID, pos token.Position) {
	if a.posMap == nil {
		a.posMap = map[ID]token.Position{}
	}
	a.posMap[id] = pos
}

// Expr returns the AST's root expression.
func (a *Ast) Expr() Expr { return a.root }

// Source returns the AST's originating source text.
func (a *Ast) Source() *source.Source { return a.src }

// NextID allocates a fresh node id, used by the macro expander when it
// synthesizes new nodes (spec.md §4.5).
func (a *Ast) NextID() ID {
	id := a.nextID
	a.nextID++
	return id
}

// IsChecked reports whether the AST carries type/reference information.
func (a *Ast) IsChecked() bool { return a.typeMap != nil }

// SetTypeMap installs the checker's per-node type annotations.
func (a *Ast) SetTypeMap(m map[ID]interface{}) { a.typeMap = m }

// TypeOf returns the raw (interface{}-typed) annotation for id, or nil if
// the AST is unchecked or the id has no annotation.
func (a *Ast) TypeOf(id ID) interface{} {
	if a.typeMap == nil {
		return nil
	}
	return a.typeMap[id]
}

// SetReferenceMap installs the checker's per-node reference annotations.
func (a *Ast) SetReferenceMap(m map[ID]*Reference) { a.refMap = m }

// ReferenceOf returns the resolved reference for id, if any.
func (a *Ast) ReferenceOf(id ID) *Reference {
	if a.refMap == nil {
		return nil
	}
	return a.refMap[id]
}

// ReferenceMap returns the full id->Reference map (may be nil for a
// parsed-only AST).
func (a *Ast) ReferenceMap() map[ID]*Reference { return a.refMap }
