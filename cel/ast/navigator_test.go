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

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel/ast"
)

// 1 + (2 * 3), built with ids increasing left to right: _+_=1, 1=2,
// _*_=3, 2=4, 3=5.
func additionOfProduct() ast.Expr {
	return &ast.Call{Id: 1, Function: "_+_", Args: []ast.Expr{
		&ast.Constant{Id: 2, Kind: ast.IntConstant, IntValue: 1},
		&ast.Call{Id: 3, Function: "_*_", Args: []ast.Expr{
			&ast.Constant{Id: 4, Kind: ast.IntConstant, IntValue: 2},
			&ast.Constant{Id: 5, Kind: ast.IntConstant, IntValue: 3},
		}},
	}}
}

func TestNavigateLeafHeightAndDepth(t *testing.T) {
	root, err := ast.Navigate(additionOfProduct())
	require.NoError(t, err)

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 2, root.Height())

	kids := root.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, 1, kids[0].Depth())
	assert.Equal(t, 0, kids[0].Height(), "leaf constant has height 0")

	mul := kids[1]
	assert.Equal(t, 1, mul.Depth())
	assert.Equal(t, 1, mul.Height())
	for _, c := range mul.Children() {
		assert.Equal(t, 2, c.Depth())
		assert.Equal(t, 0, c.Height())
	}
}

func TestNavigateMaxID(t *testing.T) {
	root, err := ast.Navigate(additionOfProduct())
	require.NoError(t, err)
	assert.Equal(t, ast.ID(5), root.MaxID())

	kids := root.Children()
	assert.Equal(t, ast.ID(2), kids[0].MaxID(), "leaf's max id is its own id")
	assert.Equal(t, ast.ID(5), kids[1].MaxID(), "subtree max id reaches its deepest descendant")
}

func TestAllNodesPreOrder(t *testing.T) {
	root, err := ast.Navigate(additionOfProduct())
	require.NoError(t, err)

	var ids []ast.ID
	for _, n := range root.AllNodes(ast.PreOrder) {
		ids = append(ids, n.Node().ID())
	}
	assert.Equal(t, []ast.ID{1, 2, 3, 4, 5}, ids)
}

func TestAllNodesPostOrder(t *testing.T) {
	root, err := ast.Navigate(additionOfProduct())
	require.NoError(t, err)

	var ids []ast.ID
	for _, n := range root.AllNodes(ast.PostOrder) {
		ids = append(ids, n.Node().ID())
	}
	assert.Equal(t, []ast.ID{2, 4, 5, 3, 1}, ids)
}

func TestDescendantsExcludesSelf(t *testing.T) {
	root, err := ast.Navigate(additionOfProduct())
	require.NoError(t, err)

	all := root.AllNodes(ast.PreOrder)
	desc := root.Descendants(ast.PreOrder)
	assert.Len(t, desc, len(all)-1)
	for _, d := range desc {
		assert.NotSame(t, root, d)
	}
}

func TestNavigateWithLimitRejectsDeepRecursion(t *testing.T) {
	var chain ast.Expr = &ast.Constant{Id: 1, Kind: ast.IntConstant, IntValue: 0}
	var next ast.ID = 2
	for i := 0; i < 10; i++ {
		chain = &ast.Call{Id: next, Function: "_+_", Args: []ast.Expr{
			chain, &ast.Constant{Id: next + 1, Kind: ast.IntConstant, IntValue: 1},
		}}
		next += 2
	}

	_, err := ast.NavigateWithLimit(chain, 3)
	require.Error(t, err)
	var recErr *ast.RecursionLimitError
	require.ErrorAs(t, err, &recErr)
}

func TestCallChildOrderTargetThenArgs(t *testing.T) {
	// receiver.method(arg)
	root := &ast.Call{Id: 1, Target: &ast.Ident{Id: 2, Name: "receiver"}, Function: "method",
		Args: []ast.Expr{&ast.Ident{Id: 3, Name: "arg"}}}
	nav, err := ast.Navigate(root)
	require.NoError(t, err)

	kids := nav.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, ast.ID(2), kids[0].Node().ID(), "target comes before args")
	assert.Equal(t, ast.ID(3), kids[1].Node().ID())
}

func TestMapEntryChildOrderKeyThenValue(t *testing.T) {
	root := &ast.MapExpr{Id: 1, Entries: []ast.MapEntry{
		{Id: 2, Key: &ast.Constant{Id: 3, Kind: ast.StringConstant, StringValue: "k"},
			Value: &ast.Constant{Id: 4, Kind: ast.IntConstant, IntValue: 1}},
	}}
	nav, err := ast.Navigate(root)
	require.NoError(t, err)

	kids := nav.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, ast.ID(3), kids[0].Node().ID(), "key precedes value")
	assert.Equal(t, ast.ID(4), kids[1].Node().ID())
}
