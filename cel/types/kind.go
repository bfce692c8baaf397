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

// Package types implements spec.md §3/§4.3: the closed enumeration of
// type kinds, parameterised types, and assignability. The kind
// enumeration mirrors the teacher's closed bitset in
// cue/internal/adt/kind.go, generalized from CUE's lattice kinds to
// CEL's closed, non-lattice type kinds (CEL has no "top of a unification
// lattice" kind arithmetic beyond dyn/error).
package types

// Kind is the closed set of type kinds enumerated in spec.md §3.
type Kind int

const (
	UnknownKind Kind = iota
	NullKind
	BoolKind
	IntKind
	UintKind
	DoubleKind
	StringKind
	BytesKind
	TimestampKind
	DurationKind
	AnyKind
	DynKind
	ErrorKind
	ListKind
	MapKind
	OptionalKind
	TypeKind
	OpaqueKind
	TypeParamKind
	StructKind
	EnumKind
	NullableKind
	FunctionKind
)

func (k Kind) String() string {
	switch k {
	case UnknownKind:
		return "unknown"
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case DoubleKind:
		return "double"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case TimestampKind:
		return "timestamp"
	case DurationKind:
		return "duration"
	case AnyKind:
		return "any"
	case DynKind:
		return "dyn"
	case ErrorKind:
		return "error"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	case OptionalKind:
		return "optional"
	case TypeKind:
		return "type"
	case OpaqueKind:
		return "opaque"
	case TypeParamKind:
		return "type_param"
	case StructKind:
		return "struct"
	case EnumKind:
		return "enum"
	case NullableKind:
		return "nullable"
	case FunctionKind:
		return "function"
	}
	return "unknown"
}

// isNumeric is used to gate cross-numeric comparisons/assignability
// behind the heterogeneous-numeric-comparisons switch (spec.md §4.3, §9).
func isNumeric(k Kind) bool {
	return k == IntKind || k == UintKind || k == DoubleKind
}
