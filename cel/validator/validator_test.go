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

package validator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel"
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/macros"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/validator"
)

func TestRegexLiteralsFlagsInvalidPattern(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// matches("x", "[")
	e := &ast.Call{Id: 1, Function: "matches", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.StringConstant, StringValue: "x"},
		&ast.Constant{Id: 3, Kind: ast.StringConstant, StringValue: "["},
	}}
	checked, res := env.Check(ast.NewAst(e, source.New("test", ""), 4, nil))
	require.False(t, res.HasError())

	out := env.Validate(checked, validator.RegexLiterals())
	require.False(t, out.HasError())
	require.NotEmpty(t, out.Diagnostics())
}

func TestRegexLiteralsAcceptsValidPattern(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	e := &ast.Call{Id: 1, Function: "matches", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.StringConstant, StringValue: "x"},
		&ast.Constant{Id: 3, Kind: ast.StringConstant, StringValue: "^x$"},
	}}
	checked, res := env.Check(ast.NewAst(e, source.New("test", ""), 4, nil))
	require.False(t, res.HasError())

	out := env.Validate(checked, validator.RegexLiterals())
	require.Empty(t, out.Diagnostics())
}

func TestHomogeneousAggregateLiteralsFlagsMixedList(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// [1, "two"]
	e := &ast.ListExpr{Id: 1, Elements: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.StringConstant, StringValue: "two"},
	}}
	checked, res := env.Check(ast.NewAst(e, source.New("test", ""), 4, nil))
	require.False(t, res.HasError())

	out := env.Validate(checked, validator.HomogeneousAggregateLiterals())
	require.NotEmpty(t, out.Diagnostics())
}

func TestHomogeneousAggregateLiteralsAcceptsUniformList(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// [1, 2, 3]
	e := &ast.ListExpr{Id: 1, Elements: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 2},
		&ast.Constant{Id: 4, Kind: ast.IntConstant, IntValue: 3},
	}}
	checked, res := env.Check(ast.NewAst(e, source.New("test", ""), 5, nil))
	require.False(t, res.HasError())

	out := env.Validate(checked, validator.HomogeneousAggregateLiterals())
	require.Empty(t, out.Diagnostics())
}

func TestComprehensionNestingLimitFlagsDeepNesting(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// [[1].exists(x, x > 0)].exists(y, y)
	inner := &ast.Call{Id: 10, Target: &ast.ListExpr{Id: 1, Elements: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
	}}, Function: "exists", Args: []ast.Expr{
		&ast.Ident{Id: 3, Name: "x"},
		&ast.Call{Id: 4, Function: "_>_", Args: []ast.Expr{
			&ast.Ident{Id: 5, Name: "x"},
			&ast.Constant{Id: 6, Kind: ast.IntConstant, IntValue: 0},
		}},
	}}
	outer := &ast.Call{Id: 11, Target: &ast.ListExpr{Id: 12, Elements: []ast.Expr{inner}},
		Function: "exists", Args: []ast.Expr{
			&ast.Ident{Id: 13, Name: "y"},
			&ast.Ident{Id: 14, Name: "y"},
		}}

	// Expand the macros first, as Env.Parse does before Check.
	parsed := ast.NewAst(outer, source.New("test", ""), 15, nil)
	expanded, err := macros.NewExpander(parsed, false, macros.StandardMacros()...).Expand(outer)
	require.NoError(t, err)

	checked, res := env.Check(ast.NewAst(expanded, source.New("test", ""), parsed.NextID(), nil))
	require.False(t, res.HasError())

	out := env.Validate(checked, validator.ComprehensionNestingLimit(1))
	require.NotEmpty(t, out.Diagnostics())
}
