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

// Package validator runs advisory passes over an already-checked Ast,
// the way the pack's google/cel-go ASTValidator extension point does:
// the core checker (cel/checker) only ever rejects a program outright,
// so a separate pass is where "this type-checks but is still probably a
// mistake" diagnostics belong (spec.md §7 Warning severity - it never
// makes a ValidationResult report HasError).
package validator

import (
	"regexp"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/overloads"
	"github.com/exprlang/cel/cel/types"
)

// ASTValidator is one named advisory pass over a checked Ast.
type ASTValidator interface {
	Name() string
	Validate(checked *checker.CheckedAst, res *errors.ValidationResult)
}

// ExtendedValidations returns the standard bundle of advisory checks:
// regex-literal, homogeneous-aggregate-literal and, unlike the other two,
// ComprehensionNestingLimit needs a caller-supplied limit and is not
// included here.
func ExtendedValidations() []ASTValidator {
	return []ASTValidator{
		RegexLiterals(),
		HomogeneousAggregateLiterals(),
	}
}

// Run applies every validator in vs to checked, appending their
// diagnostics to res.
func Run(checked *checker.CheckedAst, res *errors.ValidationResult, vs ...ASTValidator) {
	for _, v := range vs {
		v.Validate(checked, res)
	}
}

// regexLiteralValidator flags a `matches` call whose pattern argument is
// a string constant that fails to compile, instead of leaving the
// mistake to surface as an InvalidArgument error on first evaluation
// (spec.md §4.7 "@matches").
type regexLiteralValidator struct{}

// RegexLiterals validates that a literal regex argument to `matches`
// compiles, grounded on cel/interpreter/functions.go's own
// regexp.Compile call for the `matches` binding.
func RegexLiterals() ASTValidator { return regexLiteralValidator{} }

func (regexLiteralValidator) Name() string { return "cel.validator.regex_literals" }

func (regexLiteralValidator) Validate(checked *checker.CheckedAst, res *errors.ValidationResult) {
	nav, err := ast.Navigate(checked.Expr())
	if err != nil {
		return
	}
	for _, n := range nav.AllNodes(ast.PreOrder) {
		call, ok := n.Node().(*ast.Call)
		if !ok || call.Function != overloads.Matches || len(call.Args) == 0 {
			continue
		}
		pattern, ok := call.Args[len(call.Args)-1].(*ast.Constant)
		if !ok || pattern.Kind != ast.StringConstant {
			continue
		}
		if _, err := regexp.Compile(pattern.StringValue); err != nil {
			res.AddWarning(checked.PositionOf(pattern.Id), "invalid regex literal %q: %v", pattern.StringValue, err)
		}
	}
}

// homogeneousAggregateLiteralValidator flags a list or map literal whose
// checked element/key/value types disagree, catching the kind of mixed
// literal (spec.md §4.3 "least upper bound") that type-checks as `dyn`
// but is usually a typo rather than an intentional heterogeneous
// collection.
type homogeneousAggregateLiteralValidator struct{}

// HomogeneousAggregateLiterals flags list/map literals with
// non-uniform element, key, or value types.
func HomogeneousAggregateLiterals() ASTValidator { return homogeneousAggregateLiteralValidator{} }

func (homogeneousAggregateLiteralValidator) Name() string {
	return "cel.validator.homogeneous_aggregate_literals"
}

func (homogeneousAggregateLiteralValidator) Validate(checked *checker.CheckedAst, res *errors.ValidationResult) {
	nav, err := ast.Navigate(checked.Expr())
	if err != nil {
		return
	}
	for _, n := range nav.AllNodes(ast.PreOrder) {
		switch x := n.Node().(type) {
		case *ast.ListExpr:
			checkUniform(checked, res, x.Id, "list", elementIDs(x.Elements))
		case *ast.MapExpr:
			keys, vals := make([]ast.ID, len(x.Entries)), make([]ast.ID, len(x.Entries))
			for i, e := range x.Entries {
				keys[i], vals[i] = e.Key.ID(), e.Value.ID()
			}
			checkUniform(checked, res, x.Id, "map key", keys)
			checkUniform(checked, res, x.Id, "map value", vals)
		}
	}
}

func elementIDs(elems []ast.Expr) []ast.ID {
	out := make([]ast.ID, len(elems))
	for i, e := range elems {
		out[i] = e.ID()
	}
	return out
}

func checkUniform(checked *checker.CheckedAst, res *errors.ValidationResult, at ast.ID, what string, ids []ast.ID) {
	if len(ids) < 2 {
		return
	}
	first := checked.TypeOf(ids[0])
	for _, id := range ids[1:] {
		t := checked.TypeOf(id)
		if !types.Equal(first, t) {
			res.AddWarning(checked.PositionOf(at), "mixed %s types: %s and %s", what, first, t)
			return
		}
	}
}

// comprehensionNestingLimitValidator flags a comprehension nested more
// deeply than limit, the same guard the pack's google/cel-go
// ValidateComprehensionNestingLimit uses to bound the polynomial-time
// blowup a deeply nested fold can cause.
type comprehensionNestingLimitValidator struct{ limit int }

// ComprehensionNestingLimit flags any comprehension nested more than
// limit levels deep inside another comprehension's range/step/result.
func ComprehensionNestingLimit(limit int) ASTValidator {
	return comprehensionNestingLimitValidator{limit: limit}
}

func (v comprehensionNestingLimitValidator) Name() string {
	return "cel.validator.comprehension_nesting_limit"
}

func (v comprehensionNestingLimitValidator) Validate(checked *checker.CheckedAst, res *errors.ValidationResult) {
	var walk func(n *ast.Navigable, depth int)
	walk = func(n *ast.Navigable, depth int) {
		if _, ok := n.Node().(*ast.Comprehension); ok {
			depth++
			if depth > v.limit {
				res.AddWarning(checked.PositionOf(n.Node().ID()), "comprehension nesting exceeds limit %d", v.limit)
			}
		}
		for _, c := range n.Children() {
			walk(c, depth)
		}
	}
	nav, err := ast.Navigate(checked.Expr())
	if err != nil {
		return
	}
	walk(nav, 0)
}
