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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/cel/cel/ast"
)

// a comprehension over a list and struct/map literal, built so every
// WireExpr variant in marshal.go is exercised at least once.
func everyVariantExpr() ast.Expr {
	list := &ast.ListExpr{Id: 2, Elements: []ast.Expr{
		&ast.Constant{Id: 3, Kind: ast.IntConstant, IntValue: 1},
		&ast.Constant{Id: 4, Kind: ast.IntConstant, IntValue: 2},
	}, OptionalIndices: map[int]bool{1: true}}

	m := &ast.MapExpr{Id: 5, Entries: []ast.MapEntry{
		{Id: 6, Key: &ast.Constant{Id: 7, Kind: ast.StringConstant, StringValue: "k"},
			Value: &ast.Ident{Id: 8, Name: "v"}},
	}}

	s := &ast.StructExpr{Id: 9, MessageName: "pkg.Msg", Fields: []ast.StructField{
		{Id: 10, Name: "field", Value: &ast.Constant{Id: 11, Kind: ast.BoolConstant, BoolValue: true}, Optional: true},
	}}

	sel := &ast.Select{Id: 12, Operand: &ast.Ident{Id: 13, Name: "x"}, Field: "y", TestOnly: true}

	body := &ast.Call{Id: 14, Function: "_+_", Args: []ast.Expr{list, sel}}

	return &ast.Comprehension{
		Id: 1, IterVar: "i", IterRange: m,
		AccuVar: "__result__", AccuInit: s,
		LoopCondition: &ast.Constant{Id: 15, Kind: ast.BoolConstant, BoolValue: true},
		LoopStep:      body,
		Result:        &ast.Ident{Id: 16, Name: "__result__"},
	}
}

func TestToWireFromWireRoundTrip(t *testing.T) {
	original := everyVariantExpr()

	wire := ast.ToWire(original)
	back := ast.FromWire(wire)

	assert.Equal(t, original, back)
}

func TestToWireJSONRoundTrip(t *testing.T) {
	original := everyVariantExpr()

	data, err := json.Marshal(ast.ToWire(original))
	require.NoError(t, err)

	var wire ast.WireExpr
	require.NoError(t, json.Unmarshal(data, &wire))

	back := ast.FromWire(&wire)
	assert.Equal(t, original, back)
}

func TestFromWireNotSetOnEmptyWireExpr(t *testing.T) {
	back := ast.FromWire(&ast.WireExpr{ID: 42})
	assert.Equal(t, &ast.NotSet{Id: 42}, back)
}

func TestToWireNilIsNil(t *testing.T) {
	assert.Nil(t, ast.ToWire(nil))
	assert.Nil(t, ast.FromWire(nil))
}
