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

package types

import "golang.org/x/exp/maps"

// Substitution maps a type-parameter name to the concrete type it has
// been bound to during one overload-resolution attempt (spec.md §4.3
// "Type parameters unify with concrete types...maintains a substitution").
type Substitution map[string]*Type

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution { return Substitution{} }

// Clone returns a shallow copy of a substitution (the bound *Type values
// are shared) so speculative unification attempts (one per candidate
// overload, per spec.md §4.6 step 5) don't add bindings to each other.
func (s Substitution) Clone() Substitution {
	return maps.Clone(s)
}

// Unify attempts to make param assignable from arg, extending sub in
// place. It returns false (leaving sub partially updated) if param and
// arg disagree on a type parameter already bound to something else
// (spec.md §4.3 "unification fails if two substitutions disagree").
func Unify(param, arg *Type, sub Substitution, opts Options) bool {
	if param == nil || arg == nil {
		return false
	}
	if param.Kind == TypeParamKind {
		if bound, ok := sub[param.Name]; ok {
			return Equal(bound, arg) || AssignableTo(arg, bound, opts)
		}
		sub[param.Name] = arg
		return true
	}
	if arg.Kind == DynKind || param.Kind == DynKind {
		return true
	}
	if param.Kind != arg.Kind {
		if isNumeric(param.Kind) && isNumeric(arg.Kind) {
			return opts.HeterogeneousNumericComparisons
		}
		return false
	}
	switch param.Kind {
	case ListKind, OptionalKind, TypeKind, NullableKind:
		return Unify(param.Params[0], arg.Params[0], sub, opts)
	case MapKind:
		return Unify(param.Params[0], arg.Params[0], sub, opts) && Unify(param.Params[1], arg.Params[1], sub, opts)
	case StructKind, EnumKind, OpaqueKind:
		return param.Name == arg.Name
	default:
		return true
	}
}

// Substitute replaces every bound type parameter in t with its binding
// in sub, leaving unbound parameters as-is (used once an overload has
// been selected, to compute its concrete result type).
func Substitute(t *Type, sub Substitution) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == TypeParamKind {
		if bound, ok := sub[t.Name]; ok {
			return bound
		}
		return t
	}
	if len(t.Params) == 0 {
		return t
	}
	out := &Type{Kind: t.Kind, Name: t.Name, Params: make([]*Type, len(t.Params))}
	for i, p := range t.Params {
		out.Params[i] = Substitute(p, sub)
	}
	return out
}
