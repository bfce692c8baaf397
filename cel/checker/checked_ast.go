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

package checker

import (
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/types"
)

// CheckedAst wraps a *ast.Ast whose typeMap/refMap have been populated by
// Check, giving typed access without ast importing types (which would
// cycle, since types has no reason to know about ast, but checker - the
// natural place for that coupling to live - already imports both).
type CheckedAst struct {
	*ast.Ast
}

// TypeOf returns the checked type of the node with the given id, or
// types.Dyn if the id carries no annotation.
func (c CheckedAst) TypeOf(id ast.ID) *types.Type {
	v := c.Ast.TypeOf(id)
	if v == nil {
		return types.Dyn
	}
	t, ok := v.(*types.Type)
	if !ok {
		return types.Dyn
	}
	return t
}
