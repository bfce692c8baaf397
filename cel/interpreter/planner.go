// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interpreter

import (
	"fmt"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/overloads"
	"github.com/exprlang/cel/cel/token"
)

// Planner turns a checked Ast into an Interpretable tree, resolving each
// Call node's overload ids through a Dispatcher (spec.md §4.7 "Program
// construction"). It is the interpreter-side counterpart of
// cue/internal/compile.compiler: the checker has already decided what
// each node means, and the planner's only job is to pick a concrete
// Interpretable shape for it.
type Planner struct {
	checked    *checker.CheckedAst
	dispatcher *Dispatcher
	decorators []InterpretableDecorator
}

// NewPlanner creates a Planner over a type-checked Ast.
func NewPlanner(checked *checker.CheckedAst, dispatcher *Dispatcher, decorators ...InterpretableDecorator) *Planner {
	return &Planner{checked: checked, dispatcher: dispatcher, decorators: decorators}
}

// Plan builds the Interpretable tree for the Ast's root expression.
func (p *Planner) Plan() (Interpretable, error) {
	return p.plan(p.checked.Expr())
}

func (p *Planner) decorate(i Interpretable) (Interpretable, error) {
	for _, d := range p.decorators {
		var err error
		i, err = d(i)
		if err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (p *Planner) plan(e ast.Expr) (Interpretable, error) {
	var out Interpretable
	var err error
	switch n := e.(type) {
	case *ast.Constant:
		out = &evalConst{id: n.Id, val: toValue(n)}
	case *ast.Ident:
		out = &evalIdent{id: n.Id, pos: p.checked.PositionOf(n.Id), name: n.Name}
	case *ast.Select:
		var operand Interpretable
		operand, err = p.plan(n.Operand)
		if err != nil {
			return nil, err
		}
		out = &evalSelect{id: n.Id, pos: p.checked.PositionOf(n.Id), operand: operand, field: n.Field, testOnly: n.TestOnly}
	case *ast.Call:
		out, err = p.planCall(n)
	case *ast.ListExpr:
		out, err = p.planList(n)
	case *ast.MapExpr:
		out, err = p.planMap(n)
	case *ast.StructExpr:
		out, err = p.planStruct(n)
	case *ast.Comprehension:
		out, err = p.planComprehension(n)
	default:
		return nil, fmt.Errorf("cannot plan node of type %T", e)
	}
	if err != nil {
		return nil, err
	}
	return p.decorate(out)
}

func toValue(n *ast.Constant) Value {
	switch n.Kind {
	case ast.NullConstant:
		return Null{}
	case ast.BoolConstant:
		return Bool(n.BoolValue)
	case ast.IntConstant:
		return Int(n.IntValue)
	case ast.UintConstant:
		return Uint(n.UintValue)
	case ast.DoubleConstant:
		return Double(n.DoubleValue)
	case ast.StringConstant:
		return String(n.StringValue)
	case ast.BytesConstant:
		return Bytes(n.BytesValue)
	default:
		return Null{}
	}
}

func (p *Planner) planCall(n *ast.Call) (Interpretable, error) {
	pos := p.checked.PositionOf(n.Id)
	switch n.Function {
	case overloads.LogicalAnd:
		lhs, err := p.plan(n.Args[0])
		if err != nil {
			return nil, err
		}
		rhs, err := p.plan(n.Args[1])
		if err != nil {
			return nil, err
		}
		return &evalAnd{id: n.Id, pos: pos, lhs: lhs, rhs: rhs}, nil
	case overloads.LogicalOr:
		lhs, err := p.plan(n.Args[0])
		if err != nil {
			return nil, err
		}
		rhs, err := p.plan(n.Args[1])
		if err != nil {
			return nil, err
		}
		return &evalOr{id: n.Id, pos: pos, lhs: lhs, rhs: rhs}, nil
	case overloads.Conditional:
		cond, err := p.plan(n.Args[0])
		if err != nil {
			return nil, err
		}
		truthy, err := p.plan(n.Args[1])
		if err != nil {
			return nil, err
		}
		falsy, err := p.plan(n.Args[2])
		if err != nil {
			return nil, err
		}
		return &evalConditional{id: n.Id, pos: pos, cond: cond, truthy: truthy, falsy: falsy}, nil
	}

	var args []Interpretable
	if n.Target != nil {
		t, err := p.plan(n.Target)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	for _, a := range n.Args {
		ai, err := p.plan(a)
		if err != nil {
			return nil, err
		}
		args = append(args, ai)
	}

	ref := p.checked.ReferenceOf(n.Id)
	var overloadIDs []string
	if ref != nil {
		overloadIDs = ref.OverloadID
	}
	return &evalCall{id: n.Id, pos: pos, function: n.Function, overloadIDs: overloadIDs, args: args, dispatcher: p.dispatcher}, nil
}

func (p *Planner) planList(n *ast.ListExpr) (Interpretable, error) {
	elems := make([]Interpretable, len(n.Elements))
	for i, el := range n.Elements {
		ei, err := p.plan(el)
		if err != nil {
			return nil, err
		}
		elems[i] = ei
	}
	return &evalList{id: n.Id, pos: p.checked.PositionOf(n.Id), elems: elems, opt: n.OptionalIndices}, nil
}

func (p *Planner) planMap(n *ast.MapExpr) (Interpretable, error) {
	keys := make([]Interpretable, len(n.Entries))
	vals := make([]Interpretable, len(n.Entries))
	keyPos := make([]token.Position, len(n.Entries))
	opt := map[int]bool{}
	for i, ent := range n.Entries {
		k, err := p.plan(ent.Key)
		if err != nil {
			return nil, err
		}
		v, err := p.plan(ent.Value)
		if err != nil {
			return nil, err
		}
		keys[i], vals[i] = k, v
		keyPos[i] = p.checked.PositionOf(ent.Key.ID())
		if ent.Optional {
			opt[i] = true
		}
	}
	return &evalMap{id: n.Id, pos: p.checked.PositionOf(n.Id), keyPos: keyPos, keys: keys, vals: vals, opt: opt}, nil
}

func (p *Planner) planStruct(n *ast.StructExpr) (Interpretable, error) {
	names := make([]string, len(n.Fields))
	vals := make([]Interpretable, len(n.Fields))
	for i, f := range n.Fields {
		v, err := p.plan(f.Value)
		if err != nil {
			return nil, err
		}
		names[i] = f.Name
		vals[i] = v
	}
	return &evalStruct{id: n.Id, pos: p.checked.PositionOf(n.Id), messageName: n.MessageName, fieldNames: names, fieldVals: vals}, nil
}

func (p *Planner) planComprehension(n *ast.Comprehension) (Interpretable, error) {
	iterRange, err := p.plan(n.IterRange)
	if err != nil {
		return nil, err
	}
	accuInit, err := p.plan(n.AccuInit)
	if err != nil {
		return nil, err
	}
	cond, err := p.plan(n.LoopCondition)
	if err != nil {
		return nil, err
	}
	step, err := p.plan(n.LoopStep)
	if err != nil {
		return nil, err
	}
	result, err := p.plan(n.Result)
	if err != nil {
		return nil, err
	}
	return &evalFold{
		id: n.Id, pos: p.checked.PositionOf(n.Id),
		iterVar: n.IterVar, iterRange: iterRange,
		accuVar: n.AccuVar, accuInit: accuInit,
		cond: cond, step: step, result: result,
	}, nil
}
