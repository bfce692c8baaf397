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

package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/containers"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/types"
)

func rootContainer(t *testing.T) *containers.Container {
	c, err := containers.NewBuilder("").Build()
	require.NoError(t, err)
	return c
}

func newTestAst(root ast.Expr) *ast.Ast {
	return ast.NewAst(root, source.New("test", ""), root.ID(), nil)
}

func TestCheckArithmetic(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{})
	// 1 + 2
	e := &ast.Call{Id: 1, Function: "_+_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 2},
	}}
	a := newTestAst(e)
	checked, res := checker.Check(a, env)
	require.NotNil(t, checked)
	assert.False(t, res.HasError())
	assert.True(t, types.Equal(types.Int, checked.TypeOf(1)))
}

func TestCheckUndeclaredVar(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{})
	e := &ast.Ident{Id: 1, Name: "missing"}
	a := newTestAst(e)
	checked, res := checker.Check(a, env)
	assert.Nil(t, checked)
	assert.True(t, res.HasError())
}

func TestCheckVarDeclared(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{}).AddVar("x", types.Int)
	e := &ast.Ident{Id: 1, Name: "x"}
	a := newTestAst(e)
	checked, res := checker.Check(a, env)
	require.NotNil(t, checked)
	assert.False(t, res.HasError())
	assert.True(t, types.Equal(types.Int, checked.TypeOf(1)))
}

func TestCheckListLeastUpperBound(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{})
	e := &ast.ListExpr{Id: 1, Elements: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 2},
	}}
	a := newTestAst(e)
	checked, res := checker.Check(a, env)
	require.NotNil(t, checked)
	assert.False(t, res.HasError())
	assert.True(t, types.Equal(types.ListOf(types.Int), checked.TypeOf(1)))
}

func TestCheckComprehensionScoping(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{})
	// [1].all(x, x > 0) desugared form, built directly as a comprehension.
	list := &ast.ListExpr{Id: 1, Elements: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
	}}
	comp := &ast.Comprehension{
		Id: 3, IterVar: "x", IterRange: list,
		AccuVar: "__result__", AccuInit: &ast.Constant{Id: 4, Kind: ast.BoolConstant, BoolValue: true},
		LoopCondition: &ast.Constant{Id: 5, Kind: ast.BoolConstant, BoolValue: true},
		LoopStep: &ast.Call{Id: 6, Function: "_&&_", Args: []ast.Expr{
			&ast.Ident{Id: 7, Name: "__result__"},
			&ast.Call{Id: 8, Function: "_>_", Args: []ast.Expr{
				&ast.Ident{Id: 9, Name: "x"},
				&ast.Constant{Id: 10, Kind: ast.IntConstant, IntValue: 0},
			}},
		}},
		Result: &ast.Ident{Id: 11, Name: "__result__"},
	}
	a := newTestAst(comp)
	checked, res := checker.Check(a, env)
	require.NotNil(t, checked)
	assert.False(t, res.HasError())
	assert.True(t, types.Equal(types.Bool, checked.TypeOf(3)))
}

func TestCheckNoMatchingOverload(t *testing.T) {
	env := checker.NewStandardEnv(rootContainer(t), types.Options{})
	e := &ast.Call{Id: 1, Function: "_+_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.StringConstant, StringValue: "x"},
	}}
	a := newTestAst(e)
	checked, res := checker.Check(a, env)
	assert.Nil(t, checked)
	assert.True(t, res.HasError())
}
