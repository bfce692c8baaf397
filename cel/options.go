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
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/macros"
	"github.com/exprlang/cel/cel/types"
)

// WithParser registers the Parser an Env delegates Parse/Compile to
// (spec.md §1: the grammar itself is an external collaborator; this
// option is how a caller plugs one in).
func WithParser(p Parser) EnvOption {
	return func(b *envBuild) error {
		b.parser = p
		return nil
	}
}

// Container sets the name used to resolve unqualified identifiers
// (spec.md §4.4 "container").
func Container(name string) EnvOption {
	return func(b *envBuild) error {
		b.containerName = name
		return nil
	}
}

// Alias registers a single-segment name as shorthand for a qualified one
// (spec.md §4.4 "aliases").
func Alias(short, qualified string) EnvOption {
	return func(b *envBuild) error {
		b.aliases = append(b.aliases, [2]string{short, qualified})
		return nil
	}
}

// Abbreviation derives its abbreviation from qualifiedName's final
// segment (spec.md §4.4 "abbreviations").
func Abbreviation(qualifiedName string) EnvOption {
	return func(b *envBuild) error {
		b.abbreviations = append(b.abbreviations, qualifiedName)
		return nil
	}
}

// Variable declares a free variable of type t (spec.md §6 "addVar").
func Variable(name string, t *types.Type) EnvOption {
	return func(b *envBuild) error {
		b.vars[name] = t
		return nil
	}
}

// Overload is one signature/implementation pair contributed by a
// FunctionDeclaration EnvOption. Exactly one of Unary/Binary/Function
// should be set, matching len(Params) (spec.md §6
// "addFunctionDeclaration" paired with "Runtime.Builder.addFunctionBindings").
type Overload struct {
	ID             string
	Params         []*types.Type
	Result         *types.Type
	ReceiverStyle  bool
	TypeParamNames []string

	Unary    func(interpreter.Value) interpreter.Value
	Binary   func(a, b interpreter.Value) interpreter.Value
	Function func(args []interpreter.Value) interpreter.Value
}

// FunctionDeclaration declares name's overload set, both the signatures
// the checker resolves against and the runtime bindings the dispatcher
// invokes, keyed by the same overload id (spec.md §6).
func FunctionDeclaration(name string, overloads ...Overload) EnvOption {
	return func(b *envBuild) error {
		decl := checker.FunctionDecl{Name: name}
		for _, o := range overloads {
			decl.Overloads = append(decl.Overloads, checker.Overload{
				ID:             o.ID,
				Params:         o.Params,
				Result:         o.Result,
				ReceiverStyle:  o.ReceiverStyle,
				TypeParamNames: o.TypeParamNames,
			})
			b.bindings = append(b.bindings, interpreter.Binding{
				ID: o.ID, Unary: o.Unary, Binary: o.Binary, Function: o.Function,
			})
		}
		b.funcDecls = append(b.funcDecls, decl)
		return nil
	}
}

// MessageType declares a message type's field shape (spec.md §6
// "addMessageTypes"). The richer wire descriptor, if any, is supplied
// separately through cel/types/protodesc and consulted only at
// evaluation time.
func MessageType(name string, fields map[string]*types.Type) EnvOption {
	return func(b *envBuild) error {
		b.messages = append(b.messages, checker.MessageType{Name: name, Fields: fields})
		return nil
	}
}

// EnableHeterogeneousNumericComparisons relaxes `_==_`/ordering overload
// resolution to accept mixed int/uint/double operands (spec.md §6
// "enableHeterogeneousNumericComparisons", §4.3 Options). Off by default
// per DESIGN.md's Open Question decision.
func EnableHeterogeneousNumericComparisons() EnvOption {
	return func(b *envBuild) error {
		b.typeOpts.HeterogeneousNumericComparisons = true
		return nil
	}
}

// EnableUnsignedLongs records that the configured Parser is expected to
// emit IntConstant vs. UintConstant distinctions for unsigned integer
// literals (spec.md §6 "enableUnsignedLongs"). This module's own
// checker and interpreter always distinguish Int/Uint regardless, so the
// flag is only stored on the Env: nothing in this module reads it, and
// the Env has no accessor for it.
func EnableUnsignedLongs() EnvOption {
	return func(b *envBuild) error {
		b.enableUnsignedLongs = true
		return nil
	}
}

// EnableTimestampEpoch stores a flag on the Env (spec.md §6
// "enableTimestampEpoch") that nothing in this module reads. The
// standard timestamp() conversion (cel/checker/stdlib.go,
// cel/interpreter/functions.go) accepts an int as seconds since the Unix
// epoch whether or not the flag is set; there is no string-only mode,
// and no overload implicitly coerces int to Timestamp.
func EnableTimestampEpoch() EnvOption {
	return func(b *envBuild) error {
		b.enableTimestampEpoch = true
		return nil
	}
}

// ResolveTypeDependencies records whether addMessageTypes should follow
// a type's own field types transitively when resolving its declaration
// (spec.md §6 "resolveTypeDependencies"). Surfaced for API completeness;
// this module's MessageType option always takes a fully-resolved field
// map, so the flag has no effect on checker.Env construction itself and
// exists for a caller building message declarations from protodesc to
// consult.
func ResolveTypeDependencies() EnvOption {
	return func(b *envBuild) error {
		b.resolveTypeDependencies = true
		return nil
	}
}

// PopulateMacroCalls makes the macros.Expander that Env.Parse builds
// record every expanded macro's pre-expansion call. Env.Parse does not
// return that side-map, so the recorded calls are discarded once
// expansion succeeds.
func PopulateMacroCalls() EnvOption {
	return func(b *envBuild) error {
		b.populateMacroCalls = true
		return nil
	}
}

// ComprehensionMaxIterations bounds every comprehension evaluated by a
// Program built from this Env (spec.md §6 "comprehensionMaxIterations";
// §5 "IterationLimit"). A non-positive n disables the bound.
func ComprehensionMaxIterations(n int) EnvOption {
	return func(b *envBuild) error {
		b.comprehensionMaxIterations = n
		return nil
	}
}

// MaxParseRecursionDepth records the recursion bound a configured Parser
// should enforce while building the raw Ast (spec.md §6
// "maxParseRecursionDepth"). The navigator's own depth check
// (ast.NavigateWithLimit, spec.md §4.2) is applied independently by
// whatever code walks the resulting Ast.
func MaxParseRecursionDepth(n int) EnvOption {
	return func(b *envBuild) error {
		b.maxParseRecursionDepth = n
		return nil
	}
}

// StandardMacros selects exactly the named standard macros, replacing
// the default (all seven) set (spec.md §6 "standardMacros ∈ subsets of
// {HAS, ALL, EXISTS, EXISTS_ONE, FILTER, MAP, CEL_BIND}").
func StandardMacros(names ...macros.Name) EnvOption {
	return func(b *envBuild) error {
		b.macroNames = map[macros.Name]bool{}
		for _, n := range names {
			b.macroNames[n] = true
		}
		return nil
	}
}

// ClearMacros disables every standard macro; only literal calls survive
// expansion unchanged.
func ClearMacros() EnvOption {
	return StandardMacros()
}

// EnableStrictVariables makes an activation miss on an Ident fail with
// an Unbound EvalError instead of yielding spec.md §4.8's Unknown
// sentinel (spec.md §6 "strictVariables").
func EnableStrictVariables() EnvOption {
	return func(b *envBuild) error {
		b.strictVariables = true
		return nil
	}
}
