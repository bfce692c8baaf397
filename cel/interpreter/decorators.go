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
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/overloads"
	"github.com/exprlang/cel/cel/token"
)

// EvalObserver records one node's computed value during a Plan's
// evaluation, used by decObserveEval to build an eval-state trace
// (spec.md Design Notes "observability hooks"; grounded directly on the
// pack's google/cel-go interpreter/decorators.go decObserveEval).
type EvalObserver func(id ast.ID, val Value)

// DecObserveEval wraps every planned node so its result passes through
// observer before propagating to its parent.
func DecObserveEval(observer EvalObserver) InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		return &evalWatch{inst: i, observer: observer}, nil
	}
}

type evalWatch struct {
	inst     Interpretable
	observer EvalObserver
}

func (e *evalWatch) ID() ast.ID { return e.inst.ID() }

func (e *evalWatch) Eval(ctx Activation) Value {
	val := e.inst.Eval(ctx)
	e.observer(e.inst.ID(), val)
	return val
}

// DecDisableShortcircuits rewrites every short-circuiting node into its
// exhaustive counterpart, forcing both branches of `_&&_`/`_||_`/`_?_:_`
// and every comprehension step to evaluate regardless of what would
// normally end the fold early. Used by policy-analysis tooling that
// needs to observe every subexpression's value, not just the ones a
// normal run would reach (spec.md Design Notes "exhaustive evaluation
// mode").
func DecDisableShortcircuits() InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		switch n := i.(type) {
		case *evalOr:
			return &evalExhaustiveOr{id: n.id, pos: n.pos, lhs: n.lhs, rhs: n.rhs}, nil
		case *evalAnd:
			return &evalExhaustiveAnd{id: n.id, pos: n.pos, lhs: n.lhs, rhs: n.rhs}, nil
		case *evalConditional:
			return &evalExhaustiveConditional{id: n.id, pos: n.pos, cond: n.cond, truthy: n.truthy, falsy: n.falsy}, nil
		case *evalFold:
			return &evalExhaustiveFold{
				id: n.id, pos: n.pos,
				iterVar: n.iterVar, iterRange: n.iterRange,
				accuVar: n.accuVar, accuInit: n.accuInit,
				cond: n.cond, step: n.step, result: n.result,
			}, nil
		}
		return i, nil
	}
}

// DecOptimize folds constant subexpressions at plan time: a list/map
// literal built entirely from evalConst elements becomes one evalConst,
// and an `in` test against a constant list of primitive elements becomes
// a set-membership lookup instead of a linear scan (spec.md Design Notes
// "plan-time constant folding"; grounded on the pack's google/cel-go
// decOptimize, narrowed to the two rewrites that carry over cleanly to
// this Value model).
func DecOptimize() InterpretableDecorator {
	return func(i Interpretable) (Interpretable, error) {
		switch n := i.(type) {
		case *evalList:
			return maybeBuildListLiteral(i, n), nil
		case *evalMap:
			return maybeBuildMapLiteral(i, n), nil
		case *evalCall:
			if n.function == overloads.In {
				return maybeOptimizeSetMembership(i, n), nil
			}
		}
		return i, nil
	}
}

func maybeBuildListLiteral(i Interpretable, l *evalList) Interpretable {
	for _, el := range l.elems {
		if _, ok := el.(*evalConst); !ok {
			return i
		}
	}
	return &evalConst{id: l.id, val: l.Eval(EmptyActivation())}
}

func maybeBuildMapLiteral(i Interpretable, m *evalMap) Interpretable {
	for idx, k := range m.keys {
		if _, ok := k.(*evalConst); !ok {
			return i
		}
		if _, ok := m.vals[idx].(*evalConst); !ok {
			return i
		}
	}
	return &evalConst{id: m.id, val: m.Eval(EmptyActivation())}
}

// maybeOptimizeSetMembership rewrites `x in [a, b, c]` into a hash-set
// lookup when the list operand is a constant built entirely from
// primitive (hashable) values; any other shape of `in` keeps its
// original evalCall plan and is resolved through the dispatcher at
// every evaluation instead.
func maybeOptimizeSetMembership(i Interpretable, call *evalCall) Interpretable {
	if len(call.args) != 2 {
		return i
	}
	lit, ok := call.args[1].(*evalConst)
	if !ok {
		return i
	}
	list, ok := lit.val.(*List)
	if !ok {
		return i
	}
	set := map[interface{}]bool{}
	for _, elem := range list.Elems {
		k, ok := mapKey(elem)
		if !ok {
			return i
		}
		set[k] = true
	}
	return &evalSetMembership{id: call.id, pos: call.pos, arg: call.args[0], set: set}
}

// evalSetMembership tests an input value against a precomputed hash set,
// replacing a linear scan over a constant list (spec.md §4.7 "@in").
type evalSetMembership struct {
	id   ast.ID
	pos  token.Position
	arg  Interpretable
	set  map[interface{}]bool
}

func (e *evalSetMembership) ID() ast.ID { return e.id }

func (e *evalSetMembership) Eval(ctx Activation) Value {
	val := e.arg.Eval(ctx)
	if IsAbnormal(val) {
		return val
	}
	k, ok := mapKey(val)
	if !ok {
		return Bool(false)
	}
	return Bool(e.set[k])
}

// evalExhaustiveOr is evalOr without the short-circuit: both operands
// always evaluate.
type evalExhaustiveOr struct {
	id       ast.ID
	pos      token.Position
	lhs, rhs Interpretable
}

func (e *evalExhaustiveOr) ID() ast.ID { return e.id }

func (e *evalExhaustiveOr) Eval(ctx Activation) Value {
	lv := e.lhs.Eval(ctx)
	rv := e.rhs.Eval(ctx)
	lb, lok := lv.(Bool)
	if lok && bool(lb) {
		return Bool(true)
	}
	rb, rok := rv.(Bool)
	if rok && bool(rb) {
		return Bool(true)
	}
	switch {
	case lok && rok:
		return Bool(false)
	case lok: // lv resolved false
		return rv
	case rok: // rv resolved false
		return lv
	case IsAbnormal(lv) && IsAbnormal(rv):
		return combineAbnormal(lv, rv)
	case IsAbnormal(lv):
		return lv
	case IsAbnormal(rv):
		return rv
	}
	return Bool(false)
}

// evalExhaustiveAnd is evalAnd without the short-circuit.
type evalExhaustiveAnd struct {
	id       ast.ID
	pos      token.Position
	lhs, rhs Interpretable
}

func (e *evalExhaustiveAnd) ID() ast.ID { return e.id }

func (e *evalExhaustiveAnd) Eval(ctx Activation) Value {
	lv := e.lhs.Eval(ctx)
	rv := e.rhs.Eval(ctx)
	lb, lok := lv.(Bool)
	if lok && !bool(lb) {
		return Bool(false)
	}
	rb, rok := rv.(Bool)
	if rok && !bool(rb) {
		return Bool(false)
	}
	switch {
	case lok && rok:
		return Bool(true)
	case lok: // lv resolved true
		return rv
	case rok: // rv resolved true
		return lv
	case IsAbnormal(lv) && IsAbnormal(rv):
		return combineAbnormal(lv, rv)
	case IsAbnormal(lv):
		return lv
	case IsAbnormal(rv):
		return rv
	}
	return Bool(true)
}

// evalExhaustiveConditional is evalConditional without the short-circuit:
// both branches evaluate, but only the selected one's value is returned.
type evalExhaustiveConditional struct {
	id                  ast.ID
	pos                 token.Position
	cond, truthy, falsy Interpretable
}

func (e *evalExhaustiveConditional) ID() ast.ID { return e.id }

func (e *evalExhaustiveConditional) Eval(ctx Activation) Value {
	cv := e.cond.Eval(ctx)
	tv := e.truthy.Eval(ctx)
	fv := e.falsy.Eval(ctx)
	b, ok := cv.(Bool)
	if !ok {
		return cv
	}
	if b {
		return tv
	}
	return fv
}

// evalExhaustiveFold is evalFold without early termination: the loop
// condition is evaluated every iteration but never stops the fold, so
// every element's step runs (spec.md Design Notes "exhaustive evaluation
// mode").
type evalExhaustiveFold struct {
	id        ast.ID
	pos       token.Position
	iterVar   string
	iterRange Interpretable
	accuVar   string
	accuInit  Interpretable
	cond      Interpretable
	step      Interpretable
	result    Interpretable
}

func (e *evalExhaustiveFold) ID() ast.ID { return e.id }

func (e *evalExhaustiveFold) Eval(ctx Activation) Value {
	rangeVal := e.iterRange.Eval(ctx)
	if IsAbnormal(rangeVal) {
		return rangeVal
	}
	var items []Value
	switch r := rangeVal.(type) {
	case *List:
		items = r.Elems
	case *Map:
		items = r.Keys
	default:
		return rangeVal
	}

	accuVal := e.accuInit.Eval(ctx)
	accuCtx := newVarActivation(ctx, e.accuVar, accuVal)
	for _, item := range items {
		iterCtx := newVarActivation(accuCtx, e.iterVar, item)
		e.cond.Eval(iterCtx)
		accuCtx = newVarActivation(ctx, e.accuVar, e.step.Eval(iterCtx))
	}
	return e.result.Eval(accuCtx)
}
