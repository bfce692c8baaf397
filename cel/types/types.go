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

import (
	"fmt"
	"strings"
)

// Type is a closed-kind, parameterised type value, immutable once built
// (spec.md §3 "Types"). Parameters are ordered and meaningful only for
// the kinds that carry them: ListKind (1: element), MapKind (2: key,
// value), OptionalKind (1: wrapped), NullableKind (1: wrapped), TypeKind
// (1: the type this is the type of), OpaqueKind (0..n, Name identifies
// the opaque family), FunctionKind (1+n: result then parameters).
type Type struct {
	Kind   Kind
	Name   string // struct/enum/opaque/type-param name, or function name
	Params []*Type
}

func basic(k Kind) *Type { return &Type{Kind: k} }

var (
	Null      = basic(NullKind)
	Bool      = basic(BoolKind)
	Int       = basic(IntKind)
	Uint      = basic(UintKind)
	Double    = basic(DoubleKind)
	String    = basic(StringKind)
	Bytes     = basic(BytesKind)
	Timestamp = basic(TimestampKind)
	Duration  = basic(DurationKind)
	Any       = basic(AnyKind)
	Dyn       = basic(DynKind)
	Error     = basic(ErrorKind)
	Unknown   = basic(UnknownKind)
)

// ListOf builds list<elem>.
func ListOf(elem *Type) *Type { return &Type{Kind: ListKind, Params: []*Type{elem}} }

// MapOf builds map<key,value>.
func MapOf(key, value *Type) *Type { return &Type{Kind: MapKind, Params: []*Type{key, value}} }

// OptionalOf builds optional<t> (glossary "Optional<T>").
func OptionalOf(t *Type) *Type { return &Type{Kind: OptionalKind, Params: []*Type{t}} }

// NullableOf builds a nullable wrapper of t, matching both t and null
// (spec.md §4.3 "Nullable<T>"; used for google.protobuf.*Value wrappers).
func NullableOf(t *Type) *Type { return &Type{Kind: NullableKind, Params: []*Type{t}} }

// TypeOf builds type<t>, the type of a type value t.
func TypeOf(t *Type) *Type { return &Type{Kind: TypeKind, Params: []*Type{t}} }

// OpaqueOf builds an opaque<name,params...> parametric type, used for
// library-defined types that are neither list nor map (e.g. a vector
// type some function library might add).
func OpaqueOf(name string, params ...*Type) *Type {
	return &Type{Kind: OpaqueKind, Name: name, Params: params}
}

// TypeParam builds an unbound type-parameter placeholder named name.
func TypeParam(name string) *Type { return &Type{Kind: TypeParamKind, Name: name} }

// StructOf builds a reference to a declared message type named name.
func StructOf(name string) *Type { return &Type{Kind: StructKind, Name: name} }

// EnumOf builds a reference to a declared enum type named name.
func EnumOf(name string) *Type { return &Type{Kind: EnumKind, Name: name} }

// FunctionOf builds the type of a function with the given result and
// parameter types.
func FunctionOf(result *Type, params ...*Type) *Type {
	return &Type{Kind: FunctionKind, Name: "", Params: append([]*Type{result}, params...)}
}

func (t *Type) String() string {
	switch t.Kind {
	case ListKind:
		return fmt.Sprintf("list(%s)", t.Params[0])
	case MapKind:
		return fmt.Sprintf("map(%s, %s)", t.Params[0], t.Params[1])
	case OptionalKind:
		return fmt.Sprintf("optional(%s)", t.Params[0])
	case NullableKind:
		return fmt.Sprintf("wrapper(%s)", t.Params[0])
	case TypeKind:
		return fmt.Sprintf("type(%s)", t.Params[0])
	case OpaqueKind:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		if len(parts) == 0 {
			return t.Name
		}
		return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
	case TypeParamKind:
		return t.Name
	case StructKind, EnumKind:
		return t.Name
	case FunctionKind:
		parts := make([]string, len(t.Params)-1)
		for i, p := range t.Params[1:] {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Params[0])
	default:
		return t.Kind.String()
	}
}

// Equal reports structural equality. Two unbound type params are equal
// iff they have the same name, matching the checker's treatment of a
// single overload's declared signature.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Name != b.Name {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

// Options gates the numeric-comparison/assignability relaxations that
// spec.md §9 leaves as configuration switches.
type Options struct {
	HeterogeneousNumericComparisons bool
}

// AssignableTo reports whether a value of type from may be used where a
// value of type to is expected (spec.md §4.3):
//
//   - identical kinds with identical parameters: assignable.
//   - dyn assignable to/from anything.
//   - Nullable<T> assignable from T or from null.
//   - numeric types are not implicitly convertible among each other
//     unless opts.HeterogeneousNumericComparisons is set.
func AssignableTo(from, to *Type, opts Options) bool {
	if from == nil || to == nil {
		return false
	}
	if to.Kind == DynKind || from.Kind == DynKind {
		return true
	}
	if to.Kind == NullableKind {
		inner := to.Params[0]
		return from.Kind == NullKind || AssignableTo(from, inner, opts)
	}
	if from.Kind == NullableKind {
		inner := from.Params[0]
		return AssignableTo(inner, to, opts)
	}
	if isNumeric(from.Kind) && isNumeric(to.Kind) {
		if from.Kind == to.Kind {
			return true
		}
		return opts.HeterogeneousNumericComparisons
	}
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case ListKind, OptionalKind, TypeKind, NullableKind:
		return AssignableTo(from.Params[0], to.Params[0], opts)
	case MapKind:
		return AssignableTo(from.Params[0], to.Params[0], opts) && AssignableTo(from.Params[1], to.Params[1], opts)
	case StructKind, EnumKind, OpaqueKind:
		return from.Name == to.Name
	case TypeParamKind:
		return from.Name == to.Name
	default:
		return true
	}
}

// LeastUpperBound returns the narrowest type both a and b are assignable
// to, falling back to dyn for heterogeneous literals (spec.md §4.6 steps
// 6/7, "list/map element type is the least-upper-bound... or dyn under
// heterogeneous literals").
func LeastUpperBound(a, b *Type, opts Options) *Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if Equal(a, b) {
		return a
	}
	if AssignableTo(b, a, opts) {
		return a
	}
	if AssignableTo(a, b, opts) {
		return b
	}
	return Dyn
}
