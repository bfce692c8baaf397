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
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/token"
	"github.com/exprlang/cel/cel/types"
)

// elemLUB computes the runtime least-upper-bound element type of a list
// literal's evaluated elements, defaulting to dyn for an empty list
// (spec.md §4.6 "list/map element type is the least upper bound... or
// dyn"), mirroring what the checker already computed statically but
// recorded here too so a bare runtime List/Map.Type() never carries a
// nil parameter.
func elemLUB(vals []Value) *types.Type {
	var t *types.Type
	for _, v := range vals {
		t = types.LeastUpperBound(t, v.Type(), types.Options{})
	}
	if t == nil {
		return types.Dyn
	}
	return t
}

// Interpretable is one planned evaluation step (spec.md §4.8); a
// Program's plan is a tree of these, one per checked Ast node, built by
// Plan and optionally rewritten by InterpretableDecorators.
type Interpretable interface {
	ID() ast.ID
	Eval(ctx Activation) Value
}

// InterpretableDecorator rewrites one planned node into another,
// typically to add cross-cutting behavior (exhaustive evaluation,
// constant folding, eval-state tracing) without touching the planner
// itself (spec.md Design Notes "decorators"; grounded directly on the
// pack's google/cel-go interpreter/decorators.go).
type InterpretableDecorator func(Interpretable) (Interpretable, error)

type evalConst struct {
	id  ast.ID
	val Value
}

func (e *evalConst) ID() ast.ID          { return e.id }
func (e *evalConst) Eval(Activation) Value { return e.val }

type evalIdent struct {
	id   ast.ID
	pos  token.Position
	name string
}

func (e *evalIdent) ID() ast.ID { return e.id }

func (e *evalIdent) Eval(ctx Activation) Value {
	if v, ok := ctx.ResolveName(e.name); ok {
		return v
	}
	if ctx.StrictVariables() {
		return NewError(e.pos, errors.Unbound, "unbound variable %q", e.name)
	}
	return NewUnknown(e.id)
}

// evalOr implements spec.md §4.8's commutative-logical short-circuit
// rule for `_||_`: True if either operand is True, even when the other
// errors; False only when both are False. Otherwise, when one operand is
// False the other is returned as is; when neither is a Bool, an Error or
// Unknown operand propagates (combineAbnormal merges two of them), and
// any other pair fails with no matching overload.
type evalOr struct {
	id       ast.ID
	pos      token.Position
	lhs, rhs Interpretable
}

func (e *evalOr) ID() ast.ID { return e.id }

func (e *evalOr) Eval(ctx Activation) Value {
	lv := e.lhs.Eval(ctx)
	if b, ok := lv.(Bool); ok && bool(b) {
		return Bool(true)
	}
	rv := e.rhs.Eval(ctx)
	if b, ok := rv.(Bool); ok && bool(b) {
		return Bool(true)
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	switch {
	case lok && rok:
		return Bool(bool(lb) || bool(rb))
	case lok: // lv resolved false (true already returned above)
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
	return NewError(e.pos, errors.InvalidArgument, "no matching overload for _||_")
}

// evalAnd is evalOr's dual for `_&&_`.
type evalAnd struct {
	id       ast.ID
	pos      token.Position
	lhs, rhs Interpretable
}

func (e *evalAnd) ID() ast.ID { return e.id }

func (e *evalAnd) Eval(ctx Activation) Value {
	lv := e.lhs.Eval(ctx)
	if b, ok := lv.(Bool); ok && !bool(b) {
		return Bool(false)
	}
	rv := e.rhs.Eval(ctx)
	if b, ok := rv.(Bool); ok && !bool(b) {
		return Bool(false)
	}
	lb, lok := lv.(Bool)
	rb, rok := rv.(Bool)
	switch {
	case lok && rok:
		return Bool(bool(lb) && bool(rb))
	case lok: // lv resolved true (false already returned above)
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
	return NewError(e.pos, errors.InvalidArgument, "no matching overload for _&&_")
}

// evalConditional implements the `_?_:_` ternary, short-circuiting on
// the condition (spec.md §4.8).
type evalConditional struct {
	id                 ast.ID
	pos                token.Position
	cond, truthy, falsy Interpretable
}

func (e *evalConditional) ID() ast.ID { return e.id }

func (e *evalConditional) Eval(ctx Activation) Value {
	cv := e.cond.Eval(ctx)
	b, ok := cv.(Bool)
	if !ok {
		if IsAbnormal(cv) {
			return cv
		}
		return NewError(e.pos, errors.InvalidArgument, "conditional requires a bool, found %s", cv.Type())
	}
	if b {
		return e.truthy.Eval(ctx)
	}
	return e.falsy.Eval(ctx)
}

// evalSelect implements field selection and has()-style presence
// testing (spec.md §4.8 "Select").
type evalSelect struct {
	id       ast.ID
	pos      token.Position
	operand  Interpretable
	field    string
	testOnly bool
}

func (e *evalSelect) ID() ast.ID { return e.id }

func (e *evalSelect) Eval(ctx Activation) Value {
	ov := e.operand.Eval(ctx)
	if IsAbnormal(ov) {
		return ov
	}
	switch v := ov.(type) {
	case *Map:
		val, ok := v.Get(String(e.field))
		if e.testOnly {
			return Bool(ok)
		}
		if !ok {
			return NewError(e.pos, errors.NoSuchKey, "no such key: %s", e.field)
		}
		return val
	case *Struct:
		val, ok := v.Fields[e.field]
		if e.testOnly {
			return Bool(ok)
		}
		if !ok {
			return NewError(e.pos, errors.NoSuchField, "no such field: %s", e.field)
		}
		return val
	default:
		return NewError(e.pos, errors.InvalidArgument, "type %s does not support field selection", ov.Type())
	}
}

// evalList plans a list literal, preserving the optional-element markers
// the checker/parser recorded (spec.md §3 "List", §4.5 optional list
// entries from the `?` marker).
type evalList struct {
	id    ast.ID
	pos   token.Position
	elems []Interpretable
	opt   map[int]bool
}

func (e *evalList) ID() ast.ID { return e.id }

func (e *evalList) Eval(ctx Activation) Value {
	out := make([]Value, 0, len(e.elems))
	for i, el := range e.elems {
		v := el.Eval(ctx)
		if IsAbnormal(v) {
			return v
		}
		if e.opt[i] {
			opt, ok := v.(*Optional)
			if !ok {
				return NewError(e.pos, errors.InvalidArgument, "optional list element must be an optional value")
			}
			if !opt.Present {
				continue
			}
			v = opt.Val
		}
		out = append(out, v)
	}
	return &List{Elems: out, Elem: elemLUB(out)}
}

// evalMap plans a map literal (spec.md §3 "Map"), reporting
// DuplicateKey at the position of the offending entry.
type evalMap struct {
	id      ast.ID
	pos     token.Position
	keyPos  []token.Position
	keys    []Interpretable
	vals    []Interpretable
	opt     map[int]bool
}

func (e *evalMap) ID() ast.ID { return e.id }

func (e *evalMap) Eval(ctx Activation) Value {
	m := NewMap(types.Dyn, types.Dyn)
	var keyType, valType *types.Type
	for i := range e.keys {
		k := e.keys[i].Eval(ctx)
		if IsAbnormal(k) {
			return k
		}
		v := e.vals[i].Eval(ctx)
		if IsAbnormal(v) {
			return v
		}
		if e.opt[i] {
			opt, ok := v.(*Optional)
			if !ok {
				return NewError(e.pos, errors.InvalidArgument, "optional map entry value must be an optional value")
			}
			if !opt.Present {
				continue
			}
			v = opt.Val
		}
		switch m.Put(k, v) {
		case PutInvalidKeyType:
			return NewError(e.keyPos[i], errors.InvalidArgument, "invalid map key type %s", k.Type())
		case PutDuplicateKey:
			return NewError(e.keyPos[i], errors.DuplicateKey, "duplicate map key %v", k)
		}
		keyType = types.LeastUpperBound(keyType, k.Type(), types.Options{})
		valType = types.LeastUpperBound(valType, v.Type(), types.Options{})
	}
	if keyType != nil {
		m.Key = keyType
	}
	if valType != nil {
		m.Val = valType
	}
	return m
}

// evalStruct plans a message-construction expression (spec.md §3
// "Struct").
type evalStruct struct {
	id          ast.ID
	pos         token.Position
	messageName string
	fieldNames  []string
	fieldVals   []Interpretable
}

func (e *evalStruct) ID() ast.ID { return e.id }

func (e *evalStruct) Eval(ctx Activation) Value {
	fields := make(map[string]Value, len(e.fieldNames))
	for i, name := range e.fieldNames {
		v := e.fieldVals[i].Eval(ctx)
		if IsAbnormal(v) {
			return v
		}
		fields[name] = v
	}
	return &Struct{MessageName: e.messageName, Fields: fields}
}

// evalCall plans a function/method invocation, trying each of the
// checker's matched overload ids in turn against the dispatcher until
// one accepts the actual runtime argument types (spec.md §4.6 step 5
// "more than one candidate may match statically; dynamic dispatch picks
// the overload whose runtime argument kinds agree").
type evalCall struct {
	id         ast.ID
	pos        token.Position
	function   string
	overloadIDs []string
	args       []Interpretable
	dispatcher *Dispatcher
}

func (e *evalCall) ID() ast.ID { return e.id }

func (e *evalCall) Eval(ctx Activation) Value {
	args := make([]Value, len(e.args))
	for i, a := range e.args {
		v := a.Eval(ctx)
		if IsAbnormal(v) {
			return v
		}
		args[i] = v
	}
	for _, id := range e.overloadIDs {
		b, ok := e.dispatcher.FindOverload(id)
		if !ok {
			continue
		}
		res := b.call(args)
		if errv, isErr := res.(*ErrorValue); isErr && isOverloadMismatch(errv) {
			continue
		}
		return res
	}
	return NewError(e.pos, errors.InvalidArgument, "no matching overload for function %q", e.function)
}

// isOverloadMismatch reports whether an ErrorValue returned by a binding
// signals "wrong runtime kind, try the next candidate overload" rather
// than a genuine evaluation failure to propagate (e.g. division by
// zero). Bindings signal this by returning mismatch(), an ErrorValue
// whose Err is errOverloadMismatchSentinel.
func isOverloadMismatch(e *ErrorValue) bool { return e.Err == errOverloadMismatchSentinel }

// evalFold plans a comprehension: a bounded fold over a list or map
// (spec.md §3 "Comprehension", §4.8, §5 "IterationLimit"). It mirrors
// the pack's google/cel-go evalFold shape, generalized to report a
// positioned IterationLimit error instead of silently truncating.
type evalFold struct {
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

func (e *evalFold) ID() ast.ID { return e.id }

func (e *evalFold) Eval(ctx Activation) Value {
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
		return NewError(e.pos, errors.InvalidArgument, "comprehension range must be a list or map, found %s", rangeVal.Type())
	}

	accuVal := e.accuInit.Eval(ctx)
	if IsAbnormal(accuVal) {
		return accuVal
	}
	accuCtx := newVarActivation(ctx, e.accuVar, accuVal)

	for _, item := range items {
		if err := ctx.Context().Err(); err != nil {
			return NewError(e.pos, errors.Cancelled, "evaluation cancelled: %s", err)
		}
		if !ctx.Limits().Consume() {
			return NewError(e.pos, errors.IterationLimit, "comprehension exceeded the configured iteration limit")
		}
		iterCtx := newVarActivation(accuCtx, e.iterVar, item)
		cv := e.cond.Eval(iterCtx)
		if b, ok := cv.(Bool); ok && !bool(b) {
			break
		}
		if IsAbnormal(cv) {
			return cv
		}
		stepVal := e.step.Eval(iterCtx)
		if IsAbnormal(stepVal) {
			return stepVal
		}
		accuCtx = newVarActivation(ctx, e.accuVar, stepVal)
	}
	return e.result.Eval(accuCtx)
}
