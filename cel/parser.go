// Copyright 2018 The CUE Authors
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

// Package cel assembles spec.md §6's abstract Compiler/Runtime API out
// of the lower packages: cel/source (text), cel/ast (unchecked tree),
// cel/macros (expansion), cel/checker (type checking) and
// cel/interpreter (planning and evaluation). It plays the role the
// teacher's top-level cue package plays over cue/ast, cue/parser and
// internal/core/{compile,eval}: one façade that wires the pipeline
// stages together behind a builder-configured Env.
package cel

import (
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/source"
)

// Parser turns source text into an unchecked Ast. spec.md §1 treats the
// concrete lexer/grammar as an external collaborator and specifies only
// the AST shape it must emit (every node shape in cel/ast); this
// package never implements a grammar itself; instead an Env is
// configured with whatever Parser a caller supplies, and Env.Parse
// simply delegates to it. A caller with no grammar handy can still
// build and evaluate an Ast directly (e.g. by constructing cel/ast
// nodes programmatically, or via cel/celtest fixtures) without ever
// registering a Parser.
type Parser interface {
	// Parse returns the root expression along with per-node source
	// positions and a node id allocator (ast.NewAst's maxID), or a
	// ValidationResult carrying one or more ParseError diagnostics.
	Parse(src *source.Source) (*ast.Ast, *errors.ValidationResult)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(src *source.Source) (*ast.Ast, *errors.ValidationResult)

// Parse implements Parser.
func (f ParserFunc) Parse(src *source.Source) (*ast.Ast, *errors.ValidationResult) {
	return f(src)
}
