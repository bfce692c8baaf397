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

// Package overloads names the globally-unique overload ids shared by the
// checker (which declares signatures) and the interpreter's function
// library (which binds implementations) - the same split of concerns the
// pack's google/cel-go keeps in its own common/overloads package.
package overloads

// Function names as they appear in source (spec.md §3 "Call").
const (
	LogicalAnd = "_&&_"
	LogicalOr  = "_||_"
	LogicalNot = "!_"
	Conditional = "_?_:_"
	NotStrictlyFalse = "@not_strictly_false"

	Equals       = "_==_"
	NotEquals    = "_!=_"
	Less         = "_<_"
	LessEquals   = "_<=_"
	Greater      = "_>_"
	GreaterEquals = "_>=_"

	Add      = "_+_"
	Subtract = "_-_"
	Multiply = "_*_"
	Divide   = "_/_"
	Modulo   = "_%_"
	Negate   = "-_"

	Index = "_[_]"
	In    = "@in"

	Size        = "size"
	StartsWith  = "startsWith"
	EndsWith    = "endsWith"
	Contains    = "contains"
	Matches     = "matches"

	TypeConversionInt       = "int"
	TypeConversionUint      = "uint"
	TypeConversionDouble    = "double"
	TypeConversionString    = "string"
	TypeConversionBytes     = "bytes"
	TypeConversionBool      = "bool"
	TypeConversionTimestamp = "timestamp"
	TypeConversionDuration  = "duration"
	TypeConversionDyn       = "dyn"
	TypeConversionType      = "type"

	OptionalOf      = "optional.of"
	OptionalNone    = "optional.none"
	OptionalValue   = "value"
	OptionalHasValue = "hasValue"
	OptionalOrValue = "orValue"

	TimestampGetFullYear   = "getFullYear"
	TimestampGetMonth      = "getMonth"
	TimestampGetDayOfYear  = "getDayOfYear"
	TimestampGetDayOfMonth = "getDayOfMonth"
	TimestampGetDate       = "getDate"
	TimestampGetDayOfWeek  = "getDayOfWeek"
	TimestampGetHours      = "getHours"
	TimestampGetMinutes    = "getMinutes"
	TimestampGetSeconds    = "getSeconds"
	TimestampGetMilliseconds = "getMilliseconds"
)

// ID joins its parts with "_" (e.g. ID("add", "int", "int") is
// "add_int_int"), the same shape as the overload ids that
// cel/checker/stdlib.go and cel/interpreter/functions.go spell out,
// keeping one name per (function, operand shape) pair unique the way
// spec.md §3 "Overload" requires.
func ID(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "_" + p
	}
	return out
}
