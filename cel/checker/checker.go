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
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/types"
)

// scope is the lexical chain of comprehension-bound names, rooted at nil
// (the environment's own globals). It mirrors the teacher's
// cue/internal/compile environment-frame chain, narrowed to what CEL
// needs: a flat name->type table per nesting level (spec.md §4.6 "a
// comprehension's iteration and accumulator variables are visible only
// within its own loopCondition/loopStep/result subexpressions").
type scope struct {
	parent *scope
	vars   map[string]*types.Type
}

func (s *scope) push(vars map[string]*types.Type) *scope {
	return &scope{parent: s, vars: vars}
}

func (s *scope) lookup(name string) (*types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// checker holds the per-Check working state; one is created per call to
// Check and discarded afterward.
type checker struct {
	env    *Env
	src    *ast.Ast
	result *errors.ValidationResult
	types  map[ast.ID]interface{}
	refs   map[ast.ID]*ast.Reference
}

// Check type-checks root against env, annotating it in place with a type
// map and reference map (spec.md §4.6) and returns the checked wrapper,
// or a nil wrapper plus a result carrying at least one error diagnostic.
func Check(a *ast.Ast, env *Env) (*CheckedAst, *errors.ValidationResult) {
	c := &checker{
		env:    env,
		src:    a,
		result: errors.NewValidationResult(a.Source()),
		types:  map[ast.ID]interface{}{},
		refs:   map[ast.ID]*ast.Reference{},
	}
	c.check(a.Expr(), nil)
	a.SetTypeMap(c.types)
	a.SetReferenceMap(c.refs)
	if c.result.HasError() {
		return nil, c.result
	}
	checked := CheckedAst{a}
	c.result.SetAst(checked)
	return &checked, c.result
}

func (c *checker) errorf(id ast.ID, format string, args ...interface{}) {
	c.result.AddError(c.src.PositionOf(id), format, args...)
}

func (c *checker) set(id ast.ID, t *types.Type) *types.Type {
	c.types[id] = t
	return t
}

// check is the bottom-up recursive type-checking step of spec.md §4.6,
// dispatching on the concrete node variant exactly as
// cue/internal/compile.compiler.expr does.
func (c *checker) check(e ast.Expr, sc *scope) *types.Type {
	switch n := e.(type) {
	case *ast.Constant:
		return c.set(n.Id, c.checkConstant(n))
	case *ast.Ident:
		return c.set(n.Id, c.checkIdent(n, sc))
	case *ast.Select:
		return c.set(n.Id, c.checkSelect(n, sc))
	case *ast.Call:
		return c.set(n.Id, c.checkCall(n, sc))
	case *ast.ListExpr:
		return c.set(n.Id, c.checkList(n, sc))
	case *ast.MapExpr:
		return c.set(n.Id, c.checkMap(n, sc))
	case *ast.StructExpr:
		return c.set(n.Id, c.checkStruct(n, sc))
	case *ast.Comprehension:
		return c.set(n.Id, c.checkComprehension(n, sc))
	case *ast.NotSet:
		c.errorf(n.Id, "incomplete expression")
		return c.set(n.Id, types.Dyn)
	default:
		return types.Dyn
	}
}

func (c *checker) checkConstant(n *ast.Constant) *types.Type {
	switch n.Kind {
	case ast.NullConstant:
		return types.Null
	case ast.BoolConstant:
		return types.Bool
	case ast.IntConstant:
		return types.Int
	case ast.UintConstant:
		return types.Uint
	case ast.DoubleConstant:
		return types.Double
	case ast.StringConstant:
		return types.String
	case ast.BytesConstant:
		return types.Bytes
	default:
		return types.Dyn
	}
}

func (c *checker) checkIdent(n *ast.Ident, sc *scope) *types.Type {
	if t, ok := sc.lookup(n.Name); ok {
		c.refs[n.Id] = &ast.Reference{Name: n.Name}
		return t
	}
	if t, resolved, ok := c.env.LookupVar(n.Name); ok {
		c.refs[n.Id] = &ast.Reference{Name: resolved}
		return t
	}
	c.errorf(n.Id, "undeclared reference to %q", n.Name)
	return types.Dyn
}

func (c *checker) checkSelect(n *ast.Select, sc *scope) *types.Type {
	opType := c.check(n.Operand, sc)
	if n.TestOnly {
		return types.Bool
	}
	return c.fieldType(n.Id, opType, n.Field)
}

func (c *checker) fieldType(id ast.ID, opType *types.Type, field string) *types.Type {
	switch opType.Kind {
	case types.DynKind, types.AnyKind:
		return types.Dyn
	case types.MapKind:
		return opType.Params[1]
	case types.StructKind:
		if msg, ok := c.env.LookupMessage(opType.Name); ok {
			if ft, ok := msg.Fields[field]; ok {
				return ft
			}
		}
		return types.Dyn
	default:
		c.errorf(id, "type %s does not support field selection", opType)
		return types.Dyn
	}
}

func (c *checker) checkList(n *ast.ListExpr, sc *scope) *types.Type {
	var elem *types.Type
	for _, el := range n.Elements {
		t := c.check(el, sc)
		elem = types.LeastUpperBound(elem, t, c.env.opts)
	}
	if elem == nil {
		elem = types.Dyn
	}
	return types.ListOf(elem)
}

func (c *checker) checkMap(n *ast.MapExpr, sc *scope) *types.Type {
	var key, val *types.Type
	for _, ent := range n.Entries {
		k := c.check(ent.Key, sc)
		v := c.check(ent.Value, sc)
		key = types.LeastUpperBound(key, k, c.env.opts)
		val = types.LeastUpperBound(val, v, c.env.opts)
	}
	if key == nil {
		key = types.Dyn
	}
	if val == nil {
		val = types.Dyn
	}
	return types.MapOf(key, val)
}

func (c *checker) checkStruct(n *ast.StructExpr, sc *scope) *types.Type {
	msg, ok := c.env.LookupMessage(n.MessageName)
	if !ok {
		c.errorf(n.Id, "undeclared message type %q", n.MessageName)
		for _, f := range n.Fields {
			c.check(f.Value, sc)
		}
		return types.Dyn
	}
	for _, f := range n.Fields {
		vt := c.check(f.Value, sc)
		ft, ok := msg.Fields[f.Name]
		if !ok {
			c.errorf(f.Id, "message %q has no field named %q", n.MessageName, f.Name)
			continue
		}
		if !types.AssignableTo(vt, ft, c.env.opts) {
			c.errorf(f.Id, "field %q expects %s, found %s", f.Name, ft, vt)
		}
	}
	return types.StructOf(n.MessageName)
}

// checkCall resolves a call against every overload of its function
// declaration, unifying each candidate's parameter types (with the
// target prepended for a receiver-style call) against the actual
// argument types, per spec.md §4.6 step 5 "overload resolution unifies
// type parameters independently per candidate; a call with zero matches
// is a no-matching-overload error, more than one with differing result
// types resolves to the least upper bound".
func (c *checker) checkCall(n *ast.Call, sc *scope) *types.Type {
	var argTypes []*types.Type
	if n.Target != nil {
		argTypes = append(argTypes, c.check(n.Target, sc))
	}
	for _, a := range n.Args {
		argTypes = append(argTypes, c.check(a, sc))
	}

	fn, resolved, ok := c.env.LookupFunction(n.Function)
	if !ok {
		c.errorf(n.Id, "undeclared function %q", n.Function)
		return types.Dyn
	}

	var matchedIDs []string
	var resultType *types.Type
	for _, ov := range fn.Overloads {
		if ov.ReceiverStyle != (n.Target != nil) {
			continue
		}
		if len(ov.Params) != len(argTypes) {
			continue
		}
		sub := types.NewSubstitution()
		matched := true
		for i, p := range ov.Params {
			if !types.Unify(p, argTypes[i], sub, c.env.opts) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		matchedIDs = append(matchedIDs, ov.ID)
		result := types.Substitute(ov.Result, sub)
		resultType = types.LeastUpperBound(resultType, result, c.env.opts)
	}

	if len(matchedIDs) == 0 {
		c.errorf(n.Id, "no matching overload for function %q", resolved)
		return types.Dyn
	}
	c.refs[n.Id] = &ast.Reference{Name: resolved, OverloadID: matchedIDs}
	return resultType
}

func (c *checker) checkComprehension(n *ast.Comprehension, sc *scope) *types.Type {
	rangeType := c.check(n.IterRange, sc)
	var iterType *types.Type
	switch rangeType.Kind {
	case types.ListKind:
		iterType = rangeType.Params[0]
	case types.MapKind:
		iterType = rangeType.Params[0]
	case types.DynKind:
		iterType = types.Dyn
	default:
		c.errorf(n.Id, "comprehension range must be a list or map, found %s", rangeType)
		iterType = types.Dyn
	}
	accuInit := c.check(n.AccuInit, sc)

	inner := sc.push(map[string]*types.Type{n.IterVar: iterType, n.AccuVar: accuInit})

	condType := c.check(n.LoopCondition, inner)
	if !types.Equal(condType, types.Bool) && condType.Kind != types.DynKind {
		c.errorf(n.LoopCondition.ID(), "loop condition must be bool, found %s", condType)
	}
	stepType := c.check(n.LoopStep, inner)
	_ = stepType
	return c.check(n.Result, inner)
}
