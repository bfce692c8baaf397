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

package cel

import (
	"context"

	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/interpreter"
)

// Program is spec.md §6's Runtime.createProgram(checkedAst) result: a
// planned, directly evaluable form of one checked Ast, reusable across
// many Eval calls with different input bindings.
type Program struct {
	checked         *checker.CheckedAst
	plan            interpreter.Interpretable
	maxIterations   int
	globals         map[string]interpreter.Value
	strictVariables bool
}

type progBuild struct {
	decorators      []interpreter.InterpretableDecorator
	maxIterations   int
	globals         map[string]interpreter.Value
	strictVariables bool
}

// ProgramOption configures a Program at creation time (spec.md §6
// "Runtime.Builder").
type ProgramOption func(*progBuild)

// ExhaustiveEval disables every short-circuit, forcing both branches of
// `_&&_`/`_||_`/`_?_:_` and every comprehension step to evaluate (spec.md
// Design Notes "exhaustive evaluation mode"; the EvalOption analogue of
// the pack's google/cel-go OptExhaustiveEval).
func ExhaustiveEval() ProgramOption {
	return func(b *progBuild) {
		b.decorators = append(b.decorators, interpreter.DecDisableShortcircuits())
	}
}

// Optimize folds constant subexpressions and precomputes set-membership
// tests at plan time (spec.md Design Notes "plan-time constant
// folding").
func Optimize() ProgramOption {
	return func(b *progBuild) {
		b.decorators = append(b.decorators, interpreter.DecOptimize())
	}
}

// Observe wires an EvalObserver into every planned node, used by
// tracing/debugging tooling that needs each subexpression's computed
// value (spec.md Design Notes "observability hooks").
func Observe(observer interpreter.EvalObserver) ProgramOption {
	return func(b *progBuild) {
		b.decorators = append(b.decorators, interpreter.DecObserveEval(observer))
	}
}

// Globals sets default variable bindings consulted when a name is
// absent from the map passed to Program.Eval, the way a Program's
// statically-bound globals shadow nothing but are themselves shadowed
// by per-call bindings (spec.md §6 "Program.eval(vars)").
func Globals(vars map[string]interpreter.Value) ProgramOption {
	return func(b *progBuild) {
		b.globals = vars
	}
}

// Program builds a Program from a checked Ast, applying opts in order
// (spec.md §6 "Runtime.createProgram").
func (e *Env) Program(checked *checker.CheckedAst, opts ...ProgramOption) (*Program, error) {
	b := &progBuild{maxIterations: e.comprehensionMaxIterations, strictVariables: e.strictVariables}
	for _, opt := range opts {
		opt(b)
	}
	planner := interpreter.NewPlanner(checked, e.dispatcher, b.decorators...)
	plan, err := planner.Plan()
	if err != nil {
		return nil, err
	}
	return &Program{
		checked:         checked,
		plan:            plan,
		maxIterations:   b.maxIterations,
		globals:         b.globals,
		strictVariables: b.strictVariables,
	}, nil
}

// Eval runs the Program against vars, which shadow any Globals set at
// Program creation time (spec.md §6 "Program.eval(vars) → value |
// <EvalError>"). ctx bounds evaluation by cancellation (spec.md §5
// "Cancellation"; ErrorKind Cancelled).
func (p *Program) Eval(ctx context.Context, vars map[string]interpreter.Value) interpreter.Value {
	merged := make(map[string]interpreter.Value, len(p.globals)+len(vars))
	for k, v := range p.globals {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	limits := interpreter.NewLimits(p.maxIterations)
	act := interpreter.NewActivation(ctx, merged, limits, p.strictVariables)
	return p.plan.Eval(act)
}

// CheckedAst returns the checked Ast this Program was planned from,
// useful for callers that want to inspect types or positions after the
// fact (e.g. a debugger built on internal/debug).
func (p *Program) CheckedAst() *checker.CheckedAst { return p.checked }
