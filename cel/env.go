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
	"fmt"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/containers"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/macros"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/token"
	"github.com/exprlang/cel/cel/types"
	"github.com/exprlang/cel/cel/validator"
)

// Env is spec.md §6's Compiler: an immutable-once-built configuration
// (container, declared variables/functions/message types, the macro
// subset recognized during expansion, and the resource limits applied
// to every Program it produces). One Env is built once via NewEnv and
// reused across many independent expressions.
type Env struct {
	container  *containers.Container
	checkerEnv *checker.Env
	dispatcher *interpreter.Dispatcher
	macros     []macros.Macro
	parser     Parser

	populateMacroCalls        bool
	comprehensionMaxIterations int
	maxParseRecursionDepth     int
	resolveTypeDependencies    bool
	enableUnsignedLongs        bool
	enableTimestampEpoch       bool
	strictVariables            bool
}

// envBuild accumulates the raw option inputs before container and
// checker.Env construction, since AddVar/AddFunction/AddMessageType all
// need a built container to resolve candidate names against.
type envBuild struct {
	containerName string
	aliases       [][2]string // alias, qualified
	abbreviations []string
	vars          map[string]*types.Type
	funcDecls     []checker.FunctionDecl
	bindings      []interpreter.Binding
	messages      []checker.MessageType
	macroNames    map[macros.Name]bool
	parser        Parser

	typeOpts types.Options

	populateMacroCalls         bool
	comprehensionMaxIterations int
	maxParseRecursionDepth     int
	resolveTypeDependencies    bool
	enableUnsignedLongs        bool
	enableTimestampEpoch       bool
	strictVariables            bool
}

// EnvOption is a functional option configuring an Env under construction
// (spec.md §6's Builder: container, aliases, abbreviations, addVar,
// addFunctionDeclaration, addMessageTypes, populateMacroCalls,
// enableHeterogeneousNumericComparisons, enableUnsignedLongs,
// enableTimestampEpoch, comprehensionMaxIterations,
// maxParseRecursionDepth, resolveTypeDependencies, standardMacros).
type EnvOption func(*envBuild) error

func defaultMacroNames() map[macros.Name]bool {
	return map[macros.Name]bool{
		macros.Has: true, macros.All: true, macros.Exists: true,
		macros.ExistsOne: true, macros.Filter: true, macros.Map: true,
		macros.CelBind: true,
	}
}

// NewEnv builds an Env, applying opts over a default configuration: an
// empty container, the full standard macro set, no custom variables,
// functions or message types, a 1000-step comprehension iteration bound
// and the navigator's §4.2 recursion limit (ast.MaxDepth) as the default
// parse recursion depth.
func NewEnv(opts ...EnvOption) (*Env, error) {
	b := &envBuild{
		vars:                       map[string]*types.Type{},
		macroNames:                 defaultMacroNames(),
		comprehensionMaxIterations: 1000,
		maxParseRecursionDepth:     ast.MaxDepth,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	cb := containers.NewBuilder(b.containerName)
	for _, a := range b.aliases {
		cb = cb.AddAlias(a[0], a[1])
	}
	for _, abbrev := range b.abbreviations {
		cb = cb.AddAbbreviation(abbrev, abbrev)
	}
	container, err := cb.Build()
	if err != nil {
		return nil, err
	}

	checkerEnv := checker.NewStandardEnv(container, b.typeOpts)
	for name, t := range b.vars {
		checkerEnv.AddVar(name, t)
	}
	for _, fn := range b.funcDecls {
		checkerEnv.AddFunction(fn)
	}
	for _, m := range b.messages {
		checkerEnv.AddMessageType(m)
	}

	dispatcher := interpreter.NewDispatcher(interpreter.StandardOverloads()...)
	for _, bind := range b.bindings {
		dispatcher.Add(bind)
	}

	var activeMacros []macros.Macro
	for _, m := range macros.StandardMacros() {
		if b.macroNames[m.Name] {
			activeMacros = append(activeMacros, m)
		}
	}

	return &Env{
		container:  container,
		checkerEnv: checkerEnv,
		dispatcher: dispatcher,
		macros:     activeMacros,
		parser:     b.parser,

		populateMacroCalls:         b.populateMacroCalls,
		comprehensionMaxIterations: b.comprehensionMaxIterations,
		maxParseRecursionDepth:     b.maxParseRecursionDepth,
		resolveTypeDependencies:    b.resolveTypeDependencies,
		enableUnsignedLongs:        b.enableUnsignedLongs,
		enableTimestampEpoch:       b.enableTimestampEpoch,
		strictVariables:            b.strictVariables,
	}, nil
}

// Parse runs the configured Parser over text and expands any recognized
// macro calls (spec.md §6 "Compiler.parse(source) → ValidationResult",
// §4.5). It fails with a single-diagnostic ValidationResult if no
// Parser was registered via the Parser EnvOption: the grammar is
// outside this module's scope (spec.md §1), so an Env used for parsing
// must supply one.
func (e *Env) Parse(text string) (*ast.Ast, *errors.ValidationResult) {
	src := source.New("<input>", text)
	if e.parser == nil {
		res := errors.NewValidationResult(src)
		res.AddError(token.Position{}, "no Parser configured for this Env")
		return nil, res
	}
	a, res := e.parser.Parse(src)
	if res != nil && res.HasError() {
		return nil, res
	}
	expander := macros.NewExpander(a, e.populateMacroCalls, e.macros...)
	root, err := expander.Expand(a.Expr())
	if err != nil {
		res := errors.NewValidationResult(src)
		res.AddError(token.Position{}, "macro expansion: %v", err)
		return nil, res
	}

	// Carry forward every still-live node's parsed position; nodes the
	// expander synthesized keep the zero Position (spec.md §4.5 "expansion
	// preserves span information" for the nodes it doesn't replace).
	posMap := map[ast.ID]token.Position{}
	if nav, navErr := ast.Navigate(root); navErr == nil {
		for _, n := range nav.AllNodes(ast.PreOrder) {
			if pos := a.PositionOf(n.Node().ID()); pos.IsValid() {
				posMap[n.Node().ID()] = pos
			}
		}
	}

	expanded := ast.NewAst(root, src, a.NextID(), posMap)
	return expanded, res
}

// Check type-checks a parsed Ast against the Env's declarations (spec.md
// §6 "Compiler.check(parsedAst) → ValidationResult", §4.6).
func (e *Env) Check(parsed *ast.Ast) (*checker.CheckedAst, *errors.ValidationResult) {
	return checker.Check(parsed, e.checkerEnv)
}

// Compile parses then checks text in one step (spec.md §6
// "Compiler.compile(source) → ValidationResult").
func (e *Env) Compile(text string) (*checker.CheckedAst, *errors.ValidationResult) {
	parsed, res := e.Parse(text)
	if res != nil && res.HasError() {
		return nil, res
	}
	return e.Check(parsed)
}

// CheckedAst type-checks an already-expanded, already-allocated Ast
// built outside of Parse (e.g. constructed programmatically or loaded
// from cel/celtest fixtures) the same way Check does, returning an
// error instead of a ValidationResult for callers that just want a Go
// error value.
func (e *Env) CheckedAst(a *ast.Ast) (*checker.CheckedAst, error) {
	checked, res := checker.Check(a, e.checkerEnv)
	if res.HasError() {
		return nil, fmt.Errorf("%s", res.GetErrorString())
	}
	return checked, nil
}

// Validate runs advisory AST validators over an already-checked Ast,
// collecting their findings as Warning diagnostics on a fresh
// ValidationResult (spec.md §7 Warning severity). Unlike Check, a
// non-empty result here never means the Ast is unevaluable - only that
// a validator flagged something worth a second look (an invalid regex
// literal, mixed-type aggregate literal, or over-deep comprehension
// nesting, via cel/validator.ExtendedValidations and
// cel/validator.ComprehensionNestingLimit).
func (e *Env) Validate(checked *checker.CheckedAst, vs ...validator.ASTValidator) *errors.ValidationResult {
	res := errors.NewValidationResult(checked.Source())
	validator.Run(checked, res, vs...)
	return res
}
