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

package cel_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel"
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/interpreter"
)

func evalKind(t *testing.T, env *cel.Env, e ast.Expr) errors.ErrorKind {
	t.Helper()
	checked, res := env.Check(newAst(e))
	require.False(t, res.HasError())

	prog, err := env.Program(checked)
	require.NoError(t, err)

	got := prog.Eval(context.Background(), nil)
	require.True(t, interpreter.IsError(got), "expected an ErrorValue, got %v", got)

	evalErr, ok := got.(*interpreter.ErrorValue).Err.(*errors.EvalError)
	require.True(t, ok, "expected *errors.EvalError, got %T", got.(*interpreter.ErrorValue).Err)
	return evalErr.Kind
}

func TestIntDivisionByZeroTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// 1 / 0
	e := &ast.Call{Id: 1, Function: "_/_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 0},
	}}
	require.Equal(t, errors.DivByZero, evalKind(t, env, e))
}

func TestIntModulusByZeroTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// 1 % 0
	e := &ast.Call{Id: 1, Function: "_%_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 0},
	}}
	require.Equal(t, errors.DivByZero, evalKind(t, env, e))
}

func TestIntAdditionOverflowTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// math.MaxInt64 + 1
	e := &ast.Call{Id: 1, Function: "_+_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: math.MaxInt64},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 1},
	}}
	require.Equal(t, errors.Overflow, evalKind(t, env, e))
}

func TestIntDivisionOverflowTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// math.MinInt64 / -1
	e := &ast.Call{Id: 1, Function: "_/_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: math.MinInt64},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: -1},
	}}
	require.Equal(t, errors.Overflow, evalKind(t, env, e))
}

func TestIntSubtractionOverflowTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// math.MinInt64 - 1
	e := &ast.Call{Id: 1, Function: "_-_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: math.MinInt64},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 1},
	}}
	require.Equal(t, errors.Overflow, evalKind(t, env, e))
}

func TestIntMultiplicationOverflowTraps(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	// math.MaxInt64 * 2
	e := &ast.Call{Id: 1, Function: "_*_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: math.MaxInt64},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 2},
	}}
	require.Equal(t, errors.Overflow, evalKind(t, env, e))
}
