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

package macros_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/macros"
)

type counter struct{ n ast.ID }

func (c *counter) NextID() ast.ID { c.n++; return c.n }

func TestExpandExists(t *testing.T) {
	ids := &counter{n: 100}
	// [0,1,2].exists(x, x > 1)
	list := &ast.ListExpr{Id: ids.NextID(), Elements: []ast.Expr{
		&ast.Constant{Id: ids.NextID(), Kind: ast.IntConstant, IntValue: 0},
		&ast.Constant{Id: ids.NextID(), Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: ids.NextID(), Kind: ast.IntConstant, IntValue: 2},
	}}
	pred := &ast.Call{Id: ids.NextID(), Function: "_>_", Args: []ast.Expr{
		&ast.Ident{Id: ids.NextID(), Name: "x"},
		&ast.Constant{Id: ids.NextID(), Kind: ast.IntConstant, IntValue: 1},
	}}
	call := &ast.Call{
		Id: ids.NextID(), Target: list, Function: "exists",
		Args: []ast.Expr{&ast.Ident{Id: ids.NextID(), Name: "x"}, pred},
	}

	e := macros.NewExpander(ids, true, macros.StandardMacros()...)
	expanded, err := e.Expand(call)
	require.NoError(t, err)

	comp, ok := expanded.(*ast.Comprehension)
	require.True(t, ok)
	assert.Equal(t, "x", comp.IterVar)
	assert.Equal(t, list, comp.IterRange)
	assert.NotNil(t, e.MacroCalls()[comp.ID()])
}

func TestExpandHasRequiresSelect(t *testing.T) {
	ids := &counter{}
	call := &ast.Call{Id: ids.NextID(), Function: "has", Args: []ast.Expr{
		&ast.Ident{Id: ids.NextID(), Name: "notASelect"},
	}}
	e := macros.NewExpander(ids, false, macros.StandardMacros()...)
	_, err := e.Expand(call)
	assert.Error(t, err)
}

func TestExpandHas(t *testing.T) {
	ids := &counter{}
	sel := &ast.Select{Id: ids.NextID(), Operand: &ast.Ident{Id: ids.NextID(), Name: "msg"}, Field: "single_nested_message"}
	call := &ast.Call{Id: ids.NextID(), Function: "has", Args: []ast.Expr{sel}}
	e := macros.NewExpander(ids, false, macros.StandardMacros()...)
	expanded, err := e.Expand(call)
	require.NoError(t, err)
	got, ok := expanded.(*ast.Select)
	require.True(t, ok)
	assert.True(t, got.TestOnly)
}
