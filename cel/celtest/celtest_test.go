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

// This file drives cel/celtest's txtar fixtures through the real
// Env.Check/Env.Program/Program.Eval pipeline. There is no CEL source
// lexer anywhere in this module (see cel/parser.go, cmd/cel/main.go), so
// a Case's Expr string can't be parsed the normal way; instead each
// fixture's Expr is a label that looks up a hand-built pre-macro-expansion
// ast.Expr tree here, the same shape a Parser would have produced, which
// is then run through the real macro expander before checking.
package celtest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel"
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/celtest"
	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/macros"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/types"
	"github.com/exprlang/cel/cel/types/adapter"
)

// builder produces the raw, pre-macro-expansion tree for one registered
// expression label, using next to allocate fresh node ids the way a
// parser would.
type builder func(next func() ast.ID) ast.Expr

// scenario pairs a tree builder with the EnvOptions its variables need.
type scenario struct {
	build builder
	opts  []cel.EnvOption
}

func intConst(next func() ast.ID, v int64) ast.Expr {
	return &ast.Constant{Id: next(), Kind: ast.IntConstant, IntValue: v}
}

func boolConst(next func() ast.ID, v bool) ast.Expr {
	return &ast.Constant{Id: next(), Kind: ast.BoolConstant, BoolValue: v}
}

func strConst(next func() ast.ID, v string) ast.Expr {
	return &ast.Constant{Id: next(), Kind: ast.StringConstant, StringValue: v}
}

func ident(next func() ast.ID, name string) ast.Expr {
	return &ast.Ident{Id: next(), Name: name}
}

func call(next func() ast.ID, fn string, args ...ast.Expr) ast.Expr {
	return &ast.Call{Id: next(), Function: fn, Args: args}
}

func scenarios() map[string]scenario {
	return map[string]scenario{
		"1 < 2 && 1 <= 1 && 2 > 1 && 1 >= 1 && 1 == 1 && 2 != 1": {
			build: func(next func() ast.ID) ast.Expr {
				lt := call(next, "_<_", intConst(next, 1), intConst(next, 2))
				lte := call(next, "_<=_", intConst(next, 1), intConst(next, 1))
				gt := call(next, "_>_", intConst(next, 2), intConst(next, 1))
				gte := call(next, "_>=_", intConst(next, 1), intConst(next, 1))
				eq := call(next, "_==_", intConst(next, 1), intConst(next, 1))
				ne := call(next, "_!=_", intConst(next, 2), intConst(next, 1))
				chain := call(next, "_&&_", lt, lte)
				chain = call(next, "_&&_", chain, gt)
				chain = call(next, "_&&_", chain, gte)
				chain = call(next, "_&&_", chain, eq)
				chain = call(next, "_&&_", chain, ne)
				return chain
			},
		},
		"resource.name.startsWith('/groups/' + group)": {
			build: func(next func() ast.ID) ast.Expr {
				name := &ast.Select{Id: next(), Operand: ident(next, "resource"), Field: "name"}
				prefix := call(next, "_+_", strConst(next, "/groups/"), ident(next, "group"))
				return call(next, "startsWith", name, prefix)
			},
			opts: []cel.EnvOption{
				cel.Variable("resource", types.Dyn),
				cel.Variable("group", types.String),
			},
		},
		"has(msg.single_nested_message)": {
			build: func(next func() ast.ID) ast.Expr {
				sel := &ast.Select{Id: next(), Operand: ident(next, "msg"), Field: "single_nested_message"}
				return &ast.Call{Id: next(), Function: "has", Args: []ast.Expr{sel}}
			},
			opts: []cel.EnvOption{cel.Variable("msg", types.Dyn)},
		},
		"[0, 1, 2].exists(x, x > 1)": {
			build: func(next func() ast.ID) ast.Expr {
				list := &ast.ListExpr{Id: next(), Elements: []ast.Expr{
					intConst(next, 0), intConst(next, 1), intConst(next, 2),
				}}
				pred := call(next, "_>_", ident(next, "x"), intConst(next, 1))
				return &ast.Call{Id: next(), Target: list, Function: "exists", Args: []ast.Expr{ident(next, "x"), pred}}
			},
		},
		"[0, 1, 2].all(x, x >= 0)": {
			build: func(next func() ast.ID) ast.Expr {
				list := &ast.ListExpr{Id: next(), Elements: []ast.Expr{
					intConst(next, 0), intConst(next, 1), intConst(next, 2),
				}}
				pred := call(next, "_>=_", ident(next, "x"), intConst(next, 0))
				return &ast.Call{Id: next(), Target: list, Function: "all", Args: []ast.Expr{ident(next, "x"), pred}}
			},
		},
		"[0, 1, 2].filter(x, x > 0)": {
			build: func(next func() ast.ID) ast.Expr {
				list := &ast.ListExpr{Id: next(), Elements: []ast.Expr{
					intConst(next, 0), intConst(next, 1), intConst(next, 2),
				}}
				pred := call(next, "_>_", ident(next, "x"), intConst(next, 0))
				return &ast.Call{Id: next(), Target: list, Function: "filter", Args: []ast.Expr{ident(next, "x"), pred}}
			},
		},
		"[0, 1, 2].map(x, x + 1)": {
			build: func(next func() ast.ID) ast.Expr {
				list := &ast.ListExpr{Id: next(), Elements: []ast.Expr{
					intConst(next, 0), intConst(next, 1), intConst(next, 2),
				}}
				transform := call(next, "_+_", ident(next, "x"), intConst(next, 1))
				return &ast.Call{Id: next(), Target: list, Function: "map", Args: []ast.Expr{ident(next, "x"), transform}}
			},
		},
		"true || (1 / 0 > 2)": {
			build: func(next func() ast.ID) ast.Expr {
				div := call(next, "_>_", call(next, "_/_", intConst(next, 1), intConst(next, 0)), intConst(next, 2))
				return call(next, "_||_", boolConst(next, true), div)
			},
		},
		"false || (1 / 0 > 2)": {
			build: func(next func() ast.ID) ast.Expr {
				div := call(next, "_>_", call(next, "_/_", intConst(next, 1), intConst(next, 0)), intConst(next, 2))
				return call(next, "_||_", boolConst(next, false), div)
			},
		},
	}
}

// buildChecked runs build's raw tree through the standard macro
// expander (exactly the step Env.Parse takes after its Parser returns,
// see cel/env.go's Parse) and returns a fresh, unchecked Ast.
func buildChecked(build builder) (*ast.Ast, error) {
	var n ast.ID
	next := func() ast.ID { n++; return n }
	root := build(next)

	nav, err := ast.Navigate(root)
	if err != nil {
		return nil, err
	}
	parsed := ast.NewAst(root, source.New("celtest", ""), nav.MaxID(), nil)

	expander := macros.NewExpander(parsed, false, macros.StandardMacros()...)
	expanded, err := expander.Expand(parsed.Expr())
	if err != nil {
		return nil, fmt.Errorf("macro expansion: %w", err)
	}
	return ast.NewAst(expanded, source.New("celtest", ""), parsed.NextID(), nil), nil
}

func runSuite(t *testing.T, path string, reg map[string]scenario) {
	t.Helper()
	suite, err := celtest.Load(path)
	require.NoError(t, err)

	celtest.Run(t, suite, func(expr string, vars map[string]interface{}) (interface{}, error) {
		sc, ok := reg[expr]
		if !ok {
			return nil, fmt.Errorf("celtest_test: no builder registered for %q", expr)
		}

		env, err := cel.NewEnv(sc.opts...)
		if err != nil {
			return nil, err
		}

		unchecked, err := buildChecked(sc.build)
		if err != nil {
			return nil, err
		}
		checked, err := env.CheckedAst(unchecked)
		if err != nil {
			return nil, err
		}
		prog, err := env.Program(checked)
		if err != nil {
			return nil, err
		}

		bindings := make(map[string]interpreter.Value, len(vars))
		for name, v := range vars {
			cv, err := adapter.ToValue(v)
			if err != nil {
				return nil, err
			}
			bindings[name] = cv
		}

		result := prog.Eval(context.Background(), bindings)
		if interpreter.IsError(result) {
			return nil, result.(*interpreter.ErrorValue).Err
		}
		if u, ok := result.(*interpreter.UnknownValue); ok {
			return nil, fmt.Errorf("result is unknown: unresolved id(s) %v", u.IDs)
		}
		return adapter.FromValue(result)
	})
}

func TestLogicalChain(t *testing.T) {
	runSuite(t, "testdata/logical_chain.txtar", scenarios())
}

func TestStartsWith(t *testing.T) {
	runSuite(t, "testdata/starts_with.txtar", scenarios())
}

func TestHasPresence(t *testing.T) {
	runSuite(t, "testdata/has_presence.txtar", scenarios())
}

func TestListMacros(t *testing.T) {
	runSuite(t, "testdata/list_macros.txtar", scenarios())
}

func TestErrorAbsorption(t *testing.T) {
	runSuite(t, "testdata/error_absorption.txtar", scenarios())
}
