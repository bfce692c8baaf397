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

package checker

import (
	"github.com/exprlang/cel/cel/overloads"
	"github.com/exprlang/cel/cel/types"
)

func unary(fn, id string, operand, result *types.Type) FunctionDecl {
	return FunctionDecl{Name: fn, Overloads: []Overload{{ID: id, Params: []*types.Type{operand}, Result: result}}}
}

func binary(fn, id string, a, b, result *types.Type) Overload {
	return Overload{ID: id, Params: []*types.Type{a, b}, Result: result}
}

// numericKinds lists the concrete numeric types arithmetic/comparison
// overloads are declared for (spec.md §4.6 "no implicit numeric
// widening among int/uint/double").
var numericKinds = []*types.Type{types.Int, types.Uint, types.Double}

func kindName(t *types.Type) string { return t.Kind.String() }

func arithmeticFamily(fn, opSuffix string) FunctionDecl {
	var overloads []Overload
	for _, t := range numericKinds {
		overloads = append(overloads, binary(fn, opSuffix+"_"+kindName(t)+"_"+kindName(t), t, t, t))
	}
	return FunctionDecl{Name: fn, Overloads: overloads}
}

func comparisonFamily(fn, opSuffix string, opts types.Options) FunctionDecl {
	var ovs []Overload
	for _, t := range numericKinds {
		ovs = append(ovs, binary(fn, opSuffix+"_"+kindName(t)+"_"+kindName(t), t, t, types.Bool))
	}
	for _, t := range []*types.Type{types.Bool, types.String, types.Bytes, types.Timestamp, types.Duration} {
		ovs = append(ovs, binary(fn, opSuffix+"_"+kindName(t)+"_"+kindName(t), t, t, types.Bool))
	}
	if opts.HeterogeneousNumericComparisons {
		for _, a := range numericKinds {
			for _, b := range numericKinds {
				if a == b {
					continue
				}
				ovs = append(ovs, binary(fn, opSuffix+"_"+kindName(a)+"_"+kindName(b), a, b, types.Bool))
			}
		}
	}
	return FunctionDecl{Name: fn, Overloads: ovs}
}

// StandardFunctions returns the operator and builtin-function
// declarations of spec.md §4.7 "Standard library", keyed by the
// overload ids in package overloads so the interpreter's function
// registry can bind implementations against the exact same names.
func StandardFunctions() []FunctionDecl {
	a := types.TypeParam("A")
	out := []FunctionDecl{
		{Name: overloads.LogicalAnd, Overloads: []Overload{binary(overloads.LogicalAnd, "logical_and", types.Bool, types.Bool, types.Bool)}},
		{Name: overloads.LogicalOr, Overloads: []Overload{binary(overloads.LogicalOr, "logical_or", types.Bool, types.Bool, types.Bool)}},
		unary(overloads.LogicalNot, "logical_not", types.Bool, types.Bool),
		unary(overloads.NotStrictlyFalse, "not_strictly_false", types.Bool, types.Bool),

		{Name: overloads.Conditional, Overloads: []Overload{{
			ID: "conditional", Params: []*types.Type{types.Bool, a, a}, Result: a, TypeParamNames: []string{"A"},
		}}},

		equalityFamily(overloads.Equals),
		equalityFamily(overloads.NotEquals),
		comparisonFamily(overloads.Less, "lt", types.Options{}),
		comparisonFamily(overloads.LessEquals, "lte", types.Options{}),
		comparisonFamily(overloads.Greater, "gt", types.Options{}),
		comparisonFamily(overloads.GreaterEquals, "gte", types.Options{}),

		arithmeticFamily(overloads.Add, "add"),
		{Name: overloads.Add, Overloads: []Overload{
			binary(overloads.Add, "add_string_string", types.String, types.String, types.String),
			binary(overloads.Add, "add_bytes_bytes", types.Bytes, types.Bytes, types.Bytes),
			binary(overloads.Add, "add_list_list", types.ListOf(a), types.ListOf(a), types.ListOf(a)),
			binary(overloads.Add, "add_timestamp_duration", types.Timestamp, types.Duration, types.Timestamp),
			binary(overloads.Add, "add_duration_duration", types.Duration, types.Duration, types.Duration),
		}},
		arithmeticFamily(overloads.Subtract, "subtract"),
		{Name: overloads.Subtract, Overloads: []Overload{
			binary(overloads.Subtract, "subtract_timestamp_duration", types.Timestamp, types.Duration, types.Timestamp),
			binary(overloads.Subtract, "subtract_timestamp_timestamp", types.Timestamp, types.Timestamp, types.Duration),
			binary(overloads.Subtract, "subtract_duration_duration", types.Duration, types.Duration, types.Duration),
		}},
		arithmeticFamily(overloads.Multiply, "multiply"),
		arithmeticFamily(overloads.Divide, "divide"),
		arithmeticFamily(overloads.Modulo, "modulo"),
		{Name: overloads.Negate, Overloads: []Overload{
			{ID: "negate_int64", Params: []*types.Type{types.Int}, Result: types.Int},
			{ID: "negate_double", Params: []*types.Type{types.Double}, Result: types.Double},
		}},

		{Name: overloads.Index, Overloads: []Overload{
			{ID: "index_list", Params: []*types.Type{types.ListOf(a), types.Int}, Result: a, TypeParamNames: []string{"A"}},
			{ID: "index_map", Params: []*types.Type{types.MapOf(a, types.TypeParam("B")), a}, Result: types.TypeParam("B"), TypeParamNames: []string{"A", "B"}},
		}},
		{Name: overloads.In, Overloads: []Overload{
			{ID: "in_list", Params: []*types.Type{a, types.ListOf(a)}, Result: types.Bool, TypeParamNames: []string{"A"}},
			{ID: "in_map", Params: []*types.Type{a, types.MapOf(a, types.TypeParam("B"))}, Result: types.Bool, TypeParamNames: []string{"A", "B"}},
		}},

		{Name: overloads.Size, Overloads: []Overload{
			unaryOv("size_string", types.String, types.Int),
			unaryOv("size_bytes", types.Bytes, types.Int),
			unaryOv("size_list", types.ListOf(a), types.Int),
			unaryOv("size_map", types.MapOf(a, types.TypeParam("B")), types.Int),
		}},
		{Name: overloads.StartsWith, Overloads: []Overload{binary(overloads.StartsWith, "starts_with_string", types.String, types.String, types.Bool)}},
		{Name: overloads.EndsWith, Overloads: []Overload{binary(overloads.EndsWith, "ends_with_string", types.String, types.String, types.Bool)}},
		{Name: overloads.Contains, Overloads: []Overload{binary(overloads.Contains, "contains_string", types.String, types.String, types.Bool)}},
		{Name: overloads.Matches, Overloads: []Overload{binary(overloads.Matches, "matches_string", types.String, types.String, types.Bool)}},

		convFamily(overloads.TypeConversionInt, types.Int),
		convFamily(overloads.TypeConversionUint, types.Uint),
		convFamily(overloads.TypeConversionDouble, types.Double),
		convFamily(overloads.TypeConversionString, types.String),
		convFamily(overloads.TypeConversionBytes, types.Bytes),
		convFamily(overloads.TypeConversionBool, types.Bool),
		convFamily(overloads.TypeConversionTimestamp, types.Timestamp),
		convFamily(overloads.TypeConversionDuration, types.Duration),
		{Name: overloads.TypeConversionDyn, Overloads: []Overload{unaryOv("to_dyn", a, types.Dyn)}},
		{Name: overloads.TypeConversionType, Overloads: []Overload{unaryOv("type_of", a, types.TypeOf(a))}},

		{Name: overloads.OptionalOf, Overloads: []Overload{unaryOv("optional_of", a, types.OptionalOf(a))}},
		{Name: overloads.OptionalNone, Overloads: []Overload{{ID: "optional_none", Params: nil, Result: types.OptionalOf(types.Dyn)}}},
		{Name: overloads.OptionalValue, Overloads: []Overload{unaryOv("optional_value", types.OptionalOf(a), a)}},
		{Name: overloads.OptionalHasValue, Overloads: []Overload{unaryOv("optional_has_value", types.OptionalOf(a), types.Bool)}},
		{Name: overloads.OptionalOrValue, Overloads: []Overload{binary(overloads.OptionalOrValue, "optional_or_value", types.OptionalOf(a), a, a)}},
	}
	for _, fn := range timestampGetters() {
		out = append(out, fn)
	}
	return out
}

func unaryOv(id string, operand, result *types.Type) Overload {
	return Overload{ID: id, Params: []*types.Type{operand}, Result: result, TypeParamNames: typeParamNamesOf(operand, result)}
}

func typeParamNamesOf(ts ...*types.Type) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(t *types.Type)
	walk = func(t *types.Type) {
		if t == nil {
			return
		}
		if t.Kind == types.TypeParamKind && !seen[t.Name] {
			seen[t.Name] = true
			out = append(out, t.Name)
		}
		for _, p := range t.Params {
			walk(p)
		}
	}
	for _, t := range ts {
		walk(t)
	}
	return out
}

// equalityFamily declares ==/!= over any pair of like-kinded operands,
// plus dyn on either side (spec.md §4.7 "equality is defined for every
// type, structurally").
func equalityFamily(fn string) FunctionDecl {
	a := types.TypeParam("A")
	return FunctionDecl{Name: fn, Overloads: []Overload{
		{ID: fn + "_generic", Params: []*types.Type{a, a}, Result: types.Bool, TypeParamNames: []string{"A"}},
	}}
}

func convFamily(fn string, to *types.Type) FunctionDecl {
	a := types.TypeParam("A")
	return FunctionDecl{Name: fn, Overloads: []Overload{
		{ID: fn + "_convert", Params: []*types.Type{a}, Result: to, TypeParamNames: []string{"A"}},
	}}
}

func timestampGetters() []FunctionDecl {
	names := []string{
		overloads.TimestampGetFullYear, overloads.TimestampGetMonth, overloads.TimestampGetDayOfYear,
		overloads.TimestampGetDayOfMonth, overloads.TimestampGetDate, overloads.TimestampGetDayOfWeek,
		overloads.TimestampGetHours, overloads.TimestampGetMinutes, overloads.TimestampGetSeconds,
		overloads.TimestampGetMilliseconds,
	}
	var out []FunctionDecl
	for _, n := range names {
		ovs := []Overload{
			{ID: n + "_timestamp", Params: []*types.Type{types.Timestamp}, Result: types.Int, ReceiverStyle: true},
			{ID: n + "_timestamp_tz", Params: []*types.Type{types.Timestamp, types.String}, Result: types.Int, ReceiverStyle: true},
		}
		switch n {
		case overloads.TimestampGetHours, overloads.TimestampGetMinutes, overloads.TimestampGetSeconds, overloads.TimestampGetMilliseconds:
			ovs = append(ovs, Overload{ID: n + "_duration", Params: []*types.Type{types.Duration}, Result: types.Int, ReceiverStyle: true})
		}
		out = append(out, FunctionDecl{Name: n, Overloads: ovs})
	}
	return out
}
