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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel"
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/types"
)

func newAst(root ast.Expr) *ast.Ast {
	return ast.NewAst(root, source.New("test", ""), root.ID()+1, nil)
}

func TestEnvCheckAndEval(t *testing.T) {
	env, err := cel.NewEnv(cel.Variable("x", types.Int))
	require.NoError(t, err)

	// x + 1
	e := &ast.Call{Id: 1, Function: "_+_", Args: []ast.Expr{
		&ast.Ident{Id: 2, Name: "x"},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 1},
	}}
	checked, res := env.Check(newAst(e))
	require.False(t, res.HasError())
	require.NotNil(t, checked)

	prog, err := env.Program(checked)
	require.NoError(t, err)

	got := prog.Eval(context.Background(), map[string]interpreter.Value{"x": interpreter.Int(41)})
	if diff := cmp.Diff(interpreter.Int(42), got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestEnvCheckUndeclaredVariable(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	e := &ast.Ident{Id: 1, Name: "missing"}
	checked, res := env.Check(newAst(e))
	require.Nil(t, checked)
	require.True(t, res.HasError())
}

func TestProgramEvalErrorPropagation(t *testing.T) {
	env, err := cel.NewEnv(cel.Variable("xs", types.ListOf(types.Int)))
	require.NoError(t, err)

	// xs[5]
	e := &ast.Call{Id: 1, Function: "_[_]", Args: []ast.Expr{
		&ast.Ident{Id: 2, Name: "xs"},
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 5},
	}}
	checked, res := env.Check(newAst(e))
	require.False(t, res.HasError())

	prog, err := env.Program(checked)
	require.NoError(t, err)

	got := prog.Eval(context.Background(), map[string]interpreter.Value{
		"xs": &interpreter.List{Elem: types.Int},
	})
	require.True(t, interpreter.IsError(got))
}

func TestEnvProgramGlobalsShadowedByEvalVars(t *testing.T) {
	env, err := cel.NewEnv(cel.Variable("x", types.Int))
	require.NoError(t, err)

	e := &ast.Ident{Id: 1, Name: "x"}
	checked, res := env.Check(newAst(e))
	require.False(t, res.HasError())

	prog, err := env.Program(checked, cel.Globals(map[string]interpreter.Value{"x": interpreter.Int(7)}))
	require.NoError(t, err)

	got := prog.Eval(context.Background(), nil)
	if diff := cmp.Diff(interpreter.Int(7), got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	got = prog.Eval(context.Background(), map[string]interpreter.Value{"x": interpreter.Int(9)})
	if diff := cmp.Diff(interpreter.Int(9), got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}
