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

// Package interpreter implements spec.md §4.7/§4.8: the runtime value
// representation, the dispatcher that binds overload ids to Go
// functions, and the tree-walking evaluator built from a checked Ast.
// The Interpretable/Eval split and the decorator mechanism are grounded
// directly on the pack's google/cel-go reference interpreter (seen in
// this retrieval as a bare interpreter/decorators.go file), which keeps
// every evalXxx node unexported in one flat package rather than splitting
// evaluation into a sub-package - decorators need to type-switch on
// concrete evalOr/evalAnd/evalFold nodes, which only works from inside
// the same package.
package interpreter

import (
	"time"

	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/token"
	"github.com/exprlang/cel/cel/types"
)

// Value is a runtime CEL value (spec.md §3 "Value", glossary "Value").
// Every concrete Value also implements Type(), used both by the
// evaluator (e.g. to pick an overload binding by operand kind) and by
// callers that inspect a Program's result.
type Value interface {
	Type() *types.Type
}

// Null is CEL's singleton null value.
type Null struct{}

func (Null) Type() *types.Type { return types.Null }

// Bool, Int, Uint, Double, String and Bytes are CEL's primitive scalar
// values, each backed by the matching native Go type (spec.md §4.9
// "primitive kinds map 1:1 onto native Go types").
type (
	Bool   bool
	Int    int64
	Uint   uint64
	Double float64
	String string
	Bytes  []byte
)

func (Bool) Type() *types.Type   { return types.Bool }
func (Int) Type() *types.Type    { return types.Int }
func (Uint) Type() *types.Type   { return types.Uint }
func (Double) Type() *types.Type { return types.Double }
func (String) Type() *types.Type { return types.String }
func (Bytes) Type() *types.Type  { return types.Bytes }

// Timestamp and Duration wrap time.Time/time.Duration (spec.md §4.9,
// glossary "Timestamp"/"Duration").
type Timestamp struct{ time.Time }
type Duration struct{ time.Duration }

func (Timestamp) Type() *types.Type { return types.Timestamp }
func (Duration) Type() *types.Type  { return types.Duration }

// List is an ordered, runtime-homogeneous-or-dyn sequence (spec.md §3
// "List value").
type List struct {
	Elems []Value
	Elem  *types.Type
}

func (l *List) Type() *types.Type { return types.ListOf(l.Elem) }

// mapKey is the canonical, comparable Go value a Value hashes to when
// used as a map key - CEL restricts map keys to bool/int/uint/string
// (spec.md §3 "Map value"), all of which are natively Go-comparable.
func mapKey(v Value) (interface{}, bool) {
	switch k := v.(type) {
	case Bool:
		return k, true
	case Int:
		return k, true
	case Uint:
		return k, true
	case String:
		return k, true
	default:
		return nil, false
	}
}

// Map is a runtime map value, preserving insertion order for iteration
// (spec.md §3 "Map value", §4.9 "iteration order of a map is insertion
// order").
type Map struct {
	Keys   []Value
	lookup map[interface{}]Value
	Key    *types.Type
	Val    *types.Type
}

// NewMap returns an empty Map with the given key and value types.
// Entries are added with Put, which reports a duplicate key (spec.md
// §4.1/§9 "duplicate map keys are an error by default").
func NewMap(keyType, valType *types.Type) *Map {
	return &Map{lookup: map[interface{}]Value{}, Key: keyType, Val: valType}
}

// PutResult reports what happened when inserting one entry into a Map
// under construction (spec.md §4.1/§9 "duplicate map keys are an error
// by default"); the caller (evalMap) turns a non-ok result into a
// positioned EvalError.
type PutResult int

const (
	PutOK PutResult = iota
	PutInvalidKeyType
	PutDuplicateKey
)

// Put inserts key->val, reporting whether the key was valid and unique.
func (m *Map) Put(key, val Value) PutResult {
	k, ok := mapKey(key)
	if !ok {
		return PutInvalidKeyType
	}
	if _, exists := m.lookup[k]; exists {
		return PutDuplicateKey
	}
	m.lookup[k] = val
	m.Keys = append(m.Keys, key)
	return PutOK
}

// Get resolves key, returning (value, true) if present.
func (m *Map) Get(key Value) (Value, bool) {
	k, ok := mapKey(key)
	if !ok {
		return nil, false
	}
	v, ok := m.lookup[k]
	return v, ok
}

func (m *Map) Size() int { return len(m.Keys) }

func (m *Map) Type() *types.Type { return types.MapOf(m.Key, m.Val) }

// Struct is a runtime message value: a named type plus its populated
// fields (spec.md §3 "Struct value").
type Struct struct {
	MessageName string
	Fields      map[string]Value
}

func (s *Struct) Type() *types.Type { return types.StructOf(s.MessageName) }

// Optional wraps spec.md's Optional<T>: either a present value, or
// Empty.
type Optional struct {
	Val     Value
	Present bool
	Elem    *types.Type
}

func (o *Optional) Type() *types.Type { return types.OptionalOf(o.Elem) }

// EmptyOptional builds optional.none() typed at elem.
func EmptyOptional(elem *types.Type) *Optional { return &Optional{Elem: elem} }

// SomeOptional builds optional.of(v).
func SomeOptional(v Value) *Optional { return &Optional{Val: v, Present: true, Elem: v.Type()} }

// TypeValue is the runtime representation of a type literal, e.g. the
// result of the `type` conversion function (spec.md §4.7 "type()").
type TypeValue struct{ T *types.Type }

func (t TypeValue) Type() *types.Type { return types.TypeOf(t.T) }

// ErrorValue carries an evaluation failure as a first-class Value so it
// can propagate through an expression tree the way spec.md §4.8 "Error
// Propagation" requires: an Error value returned by a subexpression
// becomes the Call's result unless a logical operator's short-circuit
// rule swallows it first.
type ErrorValue struct{ Err error }

func (ErrorValue) Type() *types.Type { return types.Error }

// NewError wraps a formatted, positioned EvalError as an ErrorValue.
func NewError(pos token.Position, kind errors.ErrorKind, format string, args ...interface{}) *ErrorValue {
	return &ErrorValue{Err: errors.NewEvalError(kind, pos, format, args...)}
}

// IsError reports whether v is an ErrorValue.
func IsError(v Value) bool { _, ok := v.(*ErrorValue); return ok }

// UnknownValue carries spec.md §4.8 "Partial state": the sentinel an
// activation miss on an Ident produces when strict-variables mode isn't
// enabled. Unlike ErrorValue it isn't a terminal failure - it propagates
// or is absorbed by `&&`/`||`/`?:` under the same short-circuit rules as
// Error (spec.md §7's Unknown row), and several Unknowns reaching the
// same join point merge their ids rather than picking just one.
type UnknownValue struct{ IDs []ast.ID }

func (*UnknownValue) Type() *types.Type { return types.Unknown }

// NewUnknown builds the single-id UnknownValue produced by one unresolved
// Ident (spec.md §4.8 "an activation miss on an id... yields Unknown{id}
// unless strict variables is enabled").
func NewUnknown(id ast.ID) *UnknownValue { return &UnknownValue{IDs: []ast.ID{id}} }

// IsUnknown reports whether v is an UnknownValue.
func IsUnknown(v Value) bool { _, ok := v.(*UnknownValue); return ok }

// IsAbnormal reports whether v is an ErrorValue or an UnknownValue, the
// two kinds spec.md §4.8/§7 single out as propagating out of a strict
// evaluation position instead of being treated as an ordinary operand.
func IsAbnormal(v Value) bool { return IsError(v) || IsUnknown(v) }

// combineAbnormal implements spec.md §4.8's "x, y both abnormal ->
// combined error/unknown set" row. This Value model has no single type
// that carries an error and an unknown simultaneously, so a terminal
// Error always wins over an Unknown (an Error reports why evaluation
// cannot proceed at all, which subsumes "some id was unresolved"); two
// Unknowns merge their ids instead of arbitrarily picking one.
func combineAbnormal(lv, rv Value) Value {
	lu, lok := lv.(*UnknownValue)
	ru, rok := rv.(*UnknownValue)
	switch {
	case lok && rok:
		return &UnknownValue{IDs: append(append([]ast.ID{}, lu.IDs...), ru.IDs...)}
	case IsError(lv):
		return lv
	case IsError(rv):
		return rv
	case lok:
		return lu
	default:
		return ru
	}
}

// Equal implements spec.md §4.7's generic, structural definition of
// `_==_`/`_!=_`: defined for every pair of values, comparing by kind
// and recursing into lists/maps/structs; an operand of differing
// non-numeric kind compares unequal rather than erroring (spec.md §4.9
// "equality is total"). Error/Unknown operands propagate per spec.md
// §4.8 rather than participating in the comparison.
func Equal(a, b Value) Value {
	if IsAbnormal(a) && IsAbnormal(b) {
		return combineAbnormal(a, b)
	}
	if IsAbnormal(a) {
		return a
	}
	if IsAbnormal(b) {
		return b
	}
	if eq, ok := equalValues(a, b); ok {
		return Bool(eq)
	}
	return Bool(false)
}

func equalValues(a, b Value) (bool, bool) {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok, true
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv, true
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv, true
		case Uint:
			return int64(av) >= 0 && uint64(av) == uint64(bv), true
		case Double:
			return float64(av) == float64(bv), true
		}
		return false, true
	case Uint:
		switch bv := b.(type) {
		case Uint:
			return av == bv, true
		case Int:
			return int64(bv) >= 0 && uint64(bv) == uint64(av), true
		case Double:
			return float64(av) == float64(bv), true
		}
		return false, true
	case Double:
		switch bv := b.(type) {
		case Double:
			return av == bv, true
		case Int:
			return float64(av) == float64(bv), true
		case Uint:
			return float64(av) == float64(bv), true
		}
		return false, true
	case String:
		bv, ok := b.(String)
		return ok && av == bv, true
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && string(av) == string(bv), true
	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && av.Equal(bv.Time), true
	case Duration:
		bv, ok := b.(Duration)
		return ok && av.Duration == bv.Duration, true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false, true
		}
		for i := range av.Elems {
			eq, _ := equalValues(av.Elems[i], bv.Elems[i])
			if !eq {
				return false, true
			}
		}
		return true, true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Size() != bv.Size() {
			return false, true
		}
		for _, k := range av.Keys {
			v1, _ := av.Get(k)
			v2, ok := bv.Get(k)
			if !ok {
				return false, true
			}
			eq, _ := equalValues(v1, v2)
			if !eq {
				return false, true
			}
		}
		return true, true
	case *Struct:
		bv, ok := b.(*Struct)
		if !ok || av.MessageName != bv.MessageName || len(av.Fields) != len(bv.Fields) {
			return false, true
		}
		for k, v1 := range av.Fields {
			v2, ok := bv.Fields[k]
			if !ok {
				return false, true
			}
			eq, _ := equalValues(v1, v2)
			if !eq {
				return false, true
			}
		}
		return true, true
	}
	return false, true
}
