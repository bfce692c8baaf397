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

package macros

import "github.com/exprlang/cel/cel/ast"

// Expander rewrites macro call sites in a parsed AST into their core
// comprehension/conditional forms (spec.md §4.5). It holds the active
// macro set (as configured by the standardMacros builder option,
// spec.md §6) plus the node-id allocator shared with the parser.
type Expander struct {
	macros           map[string]Macro // keyed by macroKey: "<function>#method" or "<function>#free"
	ids              idGen
	populateCalls    bool
	macroCalls       map[ast.ID]ast.Expr
}

// NewExpander builds an Expander recognising exactly the given macros.
func NewExpander(ids idGen, populateMacroCalls bool, macros ...Macro) *Expander {
	e := &Expander{ids: ids, populateCalls: populateMacroCalls, macroCalls: map[ast.ID]ast.Expr{}}
	e.macros = map[string]Macro{}
	for _, m := range macros {
		e.macros[macroKey(m.Function, m.ReceiverStyle)] = m
	}
	return e
}

func macroKey(function string, receiver bool) string {
	if receiver {
		return function + "#method"
	}
	return function + "#free"
}

// MacroCalls returns the id->original-call map populated when
// populateMacroCalls was requested (spec.md §4.5 "macro-call side-map").
func (e *Expander) MacroCalls() map[ast.ID]ast.Expr { return e.macroCalls }

// Expand rewrites every recognised macro invocation in root, replacing
// it with its comprehension/conditional expansion and recording the
// pre-expansion call (keyed by the expanded node's id) when
// populateMacroCalls is set.
func (e *Expander) Expand(root ast.Expr) (ast.Expr, error) {
	var expandErr error
	result := ast.Apply(root, nil, func(c ast.Cursor) bool {
		call, ok := c.Node().(*ast.Call)
		if !ok {
			return true
		}
		receiver := call.Target != nil
		m, ok := e.macros[macroKey(call.Function, receiver)]
		if !ok {
			return true
		}
		if !m.acceptsArgCount(len(call.Args)) {
			return true
		}
		expanded, err := m.Expand(e.ids, call.Target, call.Args)
		if err != nil {
			expandErr = err
			return false
		}
		if e.populateCalls {
			e.macroCalls[expanded.ID()] = call
		}
		c.Replace(expanded)
		return true
	})
	if expandErr != nil {
		return nil, expandErr
	}
	return result, nil
}
