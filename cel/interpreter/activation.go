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

import "context"

// Limits bounds the resources a single Program.Eval call may consume
// (spec.md §5 "Concurrency & Resource Model": a bounded iteration count
// per comprehension and a bounded recursion depth, both configurable via
// ProgramOption). The counter is a pointer so every Activation frame in
// one evaluation chain shares it.
type Limits struct {
	MaxIterations int
	iterations    *int
}

// NewLimits creates a fresh, independent iteration counter.
func NewLimits(maxIterations int) *Limits {
	n := 0
	return &Limits{MaxIterations: maxIterations, iterations: &n}
}

// Consume records one more comprehension step, reporting false once
// MaxIterations has been exceeded (spec.md §7 "IterationLimit").
func (l *Limits) Consume() bool {
	if l == nil || l.MaxIterations <= 0 {
		return true
	}
	*l.iterations++
	return *l.iterations <= l.MaxIterations
}

// Activation resolves an identifier name to its bound Value, per
// spec.md §4.8 "Environment chain": the top-level activation supplies
// the program's input variables, and each comprehension frame pushes
// one more link binding its iteration/accumulator variables, shadowing
// an outer binding of the same name (grounded on
// cue/internal/adt/context.go's Environment up-chain, generalized from a
// lexical-block chain to a variable-binding chain since CEL has no
// nested scopes besides comprehensions).
type Activation interface {
	ResolveName(name string) (Value, bool)
	Context() context.Context
	Limits() *Limits

	// StrictVariables reports whether an activation miss on an Ident
	// should fail with Unbound instead of yielding Unknown (spec.md
	// §4.8 "Partial state"; set via cel.EnableStrictVariables).
	StrictVariables() bool
}

// mapActivation is the root Activation, backed by the caller-supplied
// input variables (spec.md §6 "Program.eval(vars map[string]any)").
type mapActivation struct {
	vars   map[string]Value
	ctx    context.Context
	limits *Limits
	strict bool
}

// NewActivation wraps a flat variable binding as the root Activation,
// bounding any comprehension evaluated beneath it by limits and
// cancellable via ctx (spec.md §5 "Cancellation"). strict toggles
// spec.md §4.8's strict-variables mode for every Ident resolved beneath
// this activation.
func NewActivation(ctx context.Context, vars map[string]Value, limits *Limits, strict bool) Activation {
	return &mapActivation{vars: vars, ctx: ctx, limits: limits, strict: strict}
}

func (a *mapActivation) ResolveName(name string) (Value, bool) {
	v, ok := a.vars[name]
	return v, ok
}

func (a *mapActivation) Context() context.Context { return a.ctx }
func (a *mapActivation) Limits() *Limits           { return a.limits }
func (a *mapActivation) StrictVariables() bool     { return a.strict }

// varActivation is one comprehension-frame link in the chain: it binds
// exactly one name over a parent Activation (spec.md §4.8).
type varActivation struct {
	parent Activation
	name   string
	val    Value
}

func newVarActivation(parent Activation, name string, val Value) *varActivation {
	return &varActivation{parent: parent, name: name, val: val}
}

func (a *varActivation) ResolveName(name string) (Value, bool) {
	if name == a.name {
		return a.val, true
	}
	if a.parent == nil {
		return nil, false
	}
	return a.parent.ResolveName(name)
}

func (a *varActivation) Context() context.Context { return a.parent.Context() }
func (a *varActivation) Limits() *Limits           { return a.parent.Limits() }
func (a *varActivation) StrictVariables() bool     { return a.parent.StrictVariables() }

// EmptyActivation returns an Activation with no bound variables, used by
// the optimizer decorator to fold constant subexpressions (spec.md
// Design Notes "constant folding").
func EmptyActivation() Activation {
	return &mapActivation{vars: map[string]Value{}, ctx: context.Background()}
}
