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

package interpreter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/overloads"
	"github.com/exprlang/cel/cel/token"
	"github.com/exprlang/cel/cel/types"
)

func regexpMatch(pattern, s string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// mismatchError signals "this binding does not apply to the actual
// runtime operand kinds, try the next candidate overload" rather than a
// genuine evaluation failure (spec.md §4.6 step 5 "dynamic dispatch
// picks the overload whose runtime argument kinds agree").
type mismatchError struct{}

func (mismatchError) Error() string { return "overload mismatch" }

var errOverloadMismatchSentinel error = mismatchError{}

func mismatch() Value { return &ErrorValue{Err: errOverloadMismatchSentinel} }

func evalErr(kind errors.ErrorKind, format string, args ...interface{}) Value {
	return NewError(token.Position{}, kind, format, args...)
}

// StandardOverloads returns the runtime bindings for every overload id
// checker.StandardFunctions declares, grounded on cue/internal/compile's
// predeclared-function table (cue/internal/compile/predeclared.go) for
// the binding-table shape, and on the pack's google/cel-go interpreter
// for CEL-specific semantics (overflow trapping, string/collection
// builtins, optional chaining).
func StandardOverloads() []Binding {
	var out []Binding
	out = append(out, logicalOverloads()...)
	out = append(out, equalityOverloads()...)
	out = append(out, comparisonOverloads()...)
	out = append(out, arithmeticOverloads()...)
	out = append(out, indexOverloads()...)
	out = append(out, collectionOverloads()...)
	out = append(out, conversionOverloads()...)
	out = append(out, optionalOverloads()...)
	out = append(out, timestampOverloads()...)
	return out
}

func logicalOverloads() []Binding {
	return []Binding{
		{ID: "logical_not", Unary: func(a Value) Value {
			b, ok := a.(Bool)
			if !ok {
				return mismatch()
			}
			return Bool(!b)
		}},
		{ID: "not_strictly_false", Unary: func(a Value) Value {
			if b, ok := a.(Bool); ok {
				return b
			}
			return Bool(true)
		}},
	}
}

func equalityOverloads() []Binding {
	return []Binding{
		{ID: overloads.Equals + "_generic", Binary: func(a, b Value) Value { return Equal(a, b) }},
		{ID: overloads.NotEquals + "_generic", Binary: func(a, b Value) Value {
			eq := Equal(a, b)
			if IsAbnormal(eq) {
				return eq
			}
			return Bool(!bool(eq.(Bool)))
		}},
	}
}

// numCompare returns -1/0/1, promoting int/uint/double pairs to a common
// representation the way spec.md §9's heterogeneous-numeric-comparisons
// switch allows.
func numCompare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return cmpInt64(int64(av), int64(bv)), true
		case Uint:
			if av < 0 {
				return -1, true
			}
			return cmpUint64(uint64(av), uint64(bv)), true
		case Double:
			return cmpFloat64(float64(av), float64(bv)), true
		}
	case Uint:
		switch bv := b.(type) {
		case Uint:
			return cmpUint64(uint64(av), uint64(bv)), true
		case Int:
			if bv < 0 {
				return 1, true
			}
			return cmpUint64(uint64(av), uint64(bv)), true
		case Double:
			return cmpFloat64(float64(av), float64(bv)), true
		}
	case Double:
		switch bv := b.(type) {
		case Double:
			return cmpFloat64(float64(av), float64(bv)), true
		case Int:
			return cmpFloat64(float64(av), float64(bv)), true
		case Uint:
			return cmpFloat64(float64(av), float64(bv)), true
		}
	}
	return 0, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparisonOverloads() []Binding {
	var out []Binding
	order := func(suffix string, pass func(int) bool) {
		for _, kinds := range [][2]string{{"int", "int"}, {"uint", "uint"}, {"double", "double"},
			{"int", "uint"}, {"int", "double"}, {"uint", "int"}, {"uint", "double"}, {"double", "int"}, {"double", "uint"}} {
			out = append(out, Binding{ID: suffix + "_" + kinds[0] + "_" + kinds[1], Binary: func(a, b Value) Value {
				c, ok := numCompare(a, b)
				if !ok {
					return mismatch()
				}
				return Bool(pass(c))
			}})
		}
		for _, kind := range []string{"bool", "string", "bytes", "timestamp", "duration"} {
			out = append(out, Binding{ID: suffix + "_" + kind + "_" + kind, Binary: func(a, b Value) Value {
				c, ok := orderedCompare(a, b)
				if !ok {
					return mismatch()
				}
				return Bool(pass(c))
			}})
		}
	}
	order("lt", func(c int) bool { return c < 0 })
	order("lte", func(c int) bool { return c <= 0 })
	order("gt", func(c int) bool { return c > 0 })
	order("gte", func(c int) bool { return c >= 0 })
	return out
}

func orderedCompare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !bool(av) {
			return -1, true
		}
		return 1, true
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	case Bytes:
		bv, ok := b.(Bytes)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	case Timestamp:
		bv, ok := b.(Timestamp)
		if !ok {
			return 0, false
		}
		switch {
		case av.Before(bv.Time):
			return -1, true
		case av.After(bv.Time):
			return 1, true
		default:
			return 0, true
		}
	case Duration:
		bv, ok := b.(Duration)
		if !ok {
			return 0, false
		}
		return cmpInt64(int64(av.Duration), int64(bv.Duration)), true
	}
	return 0, false
}

func arithmeticOverloads() []Binding {
	out := []Binding{
		{ID: "add_int_int", Binary: addInt},
		{ID: "add_uint_uint", Binary: addUint},
		{ID: "add_double_double", Binary: addDouble},
		{ID: "add_string_string", Binary: func(a, b Value) Value {
			av, ok1 := a.(String)
			bv, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return av + bv
		}},
		{ID: "add_bytes_bytes", Binary: func(a, b Value) Value {
			av, ok1 := a.(Bytes)
			bv, ok2 := b.(Bytes)
			if !ok1 || !ok2 {
				return mismatch()
			}
			out := make(Bytes, 0, len(av)+len(bv))
			out = append(out, av...)
			out = append(out, bv...)
			return out
		}},
		{ID: "add_list_list", Binary: func(a, b Value) Value {
			av, ok1 := a.(*List)
			bv, ok2 := b.(*List)
			if !ok1 || !ok2 {
				return mismatch()
			}
			out := make([]Value, 0, len(av.Elems)+len(bv.Elems))
			out = append(out, av.Elems...)
			out = append(out, bv.Elems...)
			return &List{Elems: out}
		}},
		{ID: "add_timestamp_duration", Binary: func(a, b Value) Value {
			av, ok1 := a.(Timestamp)
			bv, ok2 := b.(Duration)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Timestamp{av.Add(bv.Duration)}
		}},
		{ID: "add_duration_duration", Binary: func(a, b Value) Value {
			av, ok1 := a.(Duration)
			bv, ok2 := b.(Duration)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Duration{av.Duration + bv.Duration}
		}},
		{ID: "subtract_int_int", Binary: func(a, b Value) Value {
			av, bv, ok := ints(a, b)
			if !ok {
				return mismatch()
			}
			r := av - bv
			if (bv > 0 && r > av) || (bv < 0 && r < av) {
				return evalErr(errors.Overflow, "int subtraction overflow")
			}
			return Int(r)
		}},
		{ID: "subtract_uint_uint", Binary: func(a, b Value) Value {
			av, bv, ok := uints(a, b)
			if !ok {
				return mismatch()
			}
			if bv > av {
				return evalErr(errors.Overflow, "uint subtraction overflow")
			}
			return Uint(av - bv)
		}},
		{ID: "subtract_double_double", Binary: func(a, b Value) Value {
			av, bv, ok := doubles(a, b)
			if !ok {
				return mismatch()
			}
			return Double(av - bv)
		}},
		{ID: "subtract_timestamp_duration", Binary: func(a, b Value) Value {
			av, ok1 := a.(Timestamp)
			bv, ok2 := b.(Duration)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Timestamp{av.Add(-bv.Duration)}
		}},
		{ID: "subtract_timestamp_timestamp", Binary: func(a, b Value) Value {
			av, ok1 := a.(Timestamp)
			bv, ok2 := b.(Timestamp)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Duration{av.Sub(bv.Time)}
		}},
		{ID: "subtract_duration_duration", Binary: func(a, b Value) Value {
			av, ok1 := a.(Duration)
			bv, ok2 := b.(Duration)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Duration{av.Duration - bv.Duration}
		}},
		{ID: "multiply_int_int", Binary: func(a, b Value) Value {
			av, bv, ok := ints(a, b)
			if !ok {
				return mismatch()
			}
			if av == 0 || bv == 0 {
				return Int(0)
			}
			r := av * bv
			if r/bv != av {
				return evalErr(errors.Overflow, "int multiplication overflow")
			}
			return Int(r)
		}},
		{ID: "multiply_uint_uint", Binary: func(a, b Value) Value {
			av, bv, ok := uints(a, b)
			if !ok {
				return mismatch()
			}
			if av == 0 || bv == 0 {
				return Uint(0)
			}
			r := av * bv
			if r/bv != av {
				return evalErr(errors.Overflow, "uint multiplication overflow")
			}
			return Uint(r)
		}},
		{ID: "multiply_double_double", Binary: func(a, b Value) Value {
			av, bv, ok := doubles(a, b)
			if !ok {
				return mismatch()
			}
			return Double(av * bv)
		}},
		{ID: "divide_int_int", Binary: func(a, b Value) Value {
			av, bv, ok := ints(a, b)
			if !ok {
				return mismatch()
			}
			if bv == 0 {
				return evalErr(errors.DivByZero, "division by zero")
			}
			if av == math.MinInt64 && bv == -1 {
				return evalErr(errors.Overflow, "int division overflow")
			}
			return Int(av / bv)
		}},
		{ID: "divide_uint_uint", Binary: func(a, b Value) Value {
			av, bv, ok := uints(a, b)
			if !ok {
				return mismatch()
			}
			if bv == 0 {
				return evalErr(errors.DivByZero, "division by zero")
			}
			return Uint(av / bv)
		}},
		{ID: "divide_double_double", Binary: func(a, b Value) Value {
			av, bv, ok := doubles(a, b)
			if !ok {
				return mismatch()
			}
			return Double(av / bv)
		}},
		{ID: "modulo_int_int", Binary: func(a, b Value) Value {
			av, bv, ok := ints(a, b)
			if !ok {
				return mismatch()
			}
			if bv == 0 {
				return evalErr(errors.DivByZero, "modulus by zero")
			}
			return Int(av % bv)
		}},
		{ID: "modulo_uint_uint", Binary: func(a, b Value) Value {
			av, bv, ok := uints(a, b)
			if !ok {
				return mismatch()
			}
			if bv == 0 {
				return evalErr(errors.DivByZero, "modulus by zero")
			}
			return Uint(av % bv)
		}},
		{ID: "modulo_double_double", Binary: func(a, b Value) Value {
			av, bv, ok := doubles(a, b)
			if !ok {
				return mismatch()
			}
			return Double(math.Mod(av, bv))
		}},
		{ID: "negate_int64", Unary: func(a Value) Value {
			av, ok := a.(Int)
			if !ok {
				return mismatch()
			}
			if av == math.MinInt64 {
				return evalErr(errors.Overflow, "int negation overflow")
			}
			return -av
		}},
		{ID: "negate_double", Unary: func(a Value) Value {
			av, ok := a.(Double)
			if !ok {
				return mismatch()
			}
			return -av
		}},
	}
	return out
}

func ints(a, b Value) (int64, int64, bool) {
	av, ok1 := a.(Int)
	bv, ok2 := b.(Int)
	return int64(av), int64(bv), ok1 && ok2
}

func uints(a, b Value) (uint64, uint64, bool) {
	av, ok1 := a.(Uint)
	bv, ok2 := b.(Uint)
	return uint64(av), uint64(bv), ok1 && ok2
}

func doubles(a, b Value) (float64, float64, bool) {
	av, ok1 := a.(Double)
	bv, ok2 := b.(Double)
	return float64(av), float64(bv), ok1 && ok2
}

func addInt(a, b Value) Value {
	av, bv, ok := ints(a, b)
	if !ok {
		return mismatch()
	}
	r := av + bv
	if (bv > 0 && r < av) || (bv < 0 && r > av) {
		return evalErr(errors.Overflow, "int addition overflow")
	}
	return Int(r)
}

func addUint(a, b Value) Value {
	av, bv, ok := uints(a, b)
	if !ok {
		return mismatch()
	}
	r := av + bv
	if r < av {
		return evalErr(errors.Overflow, "uint addition overflow")
	}
	return Uint(r)
}

func addDouble(a, b Value) Value {
	av, bv, ok := doubles(a, b)
	if !ok {
		return mismatch()
	}
	return Double(av + bv)
}

func indexOverloads() []Binding {
	return []Binding{
		{ID: "index_list", Binary: func(a, b Value) Value {
			list, ok := a.(*List)
			idx, ok2 := b.(Int)
			if !ok || !ok2 {
				return mismatch()
			}
			if idx < 0 || int(idx) >= len(list.Elems) {
				return evalErr(errors.InvalidArgument, "index %d out of range", idx)
			}
			return list.Elems[idx]
		}},
		{ID: "index_map", Binary: func(a, b Value) Value {
			m, ok := a.(*Map)
			if !ok {
				return mismatch()
			}
			v, found := m.Get(b)
			if !found {
				return evalErr(errors.NoSuchKey, "no such key: %v", b)
			}
			return v
		}},
		{ID: "in_list", Binary: func(a, b Value) Value {
			list, ok := b.(*List)
			if !ok {
				return mismatch()
			}
			for _, e := range list.Elems {
				if eq, isBool := Equal(a, e).(Bool); isBool && bool(eq) {
					return Bool(true)
				}
			}
			return Bool(false)
		}},
		{ID: "in_map", Binary: func(a, b Value) Value {
			m, ok := b.(*Map)
			if !ok {
				return mismatch()
			}
			_, found := m.Get(a)
			return Bool(found)
		}},
	}
}

func collectionOverloads() []Binding {
	return []Binding{
		{ID: "size_string", Unary: func(a Value) Value {
			s, ok := a.(String)
			if !ok {
				return mismatch()
			}
			return Int(len([]rune(string(s))))
		}},
		{ID: "size_bytes", Unary: func(a Value) Value {
			b, ok := a.(Bytes)
			if !ok {
				return mismatch()
			}
			return Int(len(b))
		}},
		{ID: "size_list", Unary: func(a Value) Value {
			l, ok := a.(*List)
			if !ok {
				return mismatch()
			}
			return Int(len(l.Elems))
		}},
		{ID: "size_map", Unary: func(a Value) Value {
			m, ok := a.(*Map)
			if !ok {
				return mismatch()
			}
			return Int(m.Size())
		}},
		{ID: "starts_with_string", Binary: func(a, b Value) Value {
			s, ok1 := a.(String)
			prefix, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Bool(strings.HasPrefix(string(s), string(prefix)))
		}},
		{ID: "ends_with_string", Binary: func(a, b Value) Value {
			s, ok1 := a.(String)
			suffix, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Bool(strings.HasSuffix(string(s), string(suffix)))
		}},
		{ID: "contains_string", Binary: func(a, b Value) Value {
			s, ok1 := a.(String)
			sub, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			return Bool(strings.Contains(string(s), string(sub)))
		}},
		{ID: "matches_string", Binary: func(a, b Value) Value {
			s, ok1 := a.(String)
			pattern, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			matched, err := regexpMatch(string(pattern), string(s))
			if err != nil {
				return evalErr(errors.InvalidArgument, "invalid regular expression: %s", err)
			}
			return Bool(matched)
		}},
	}
}

func conversionOverloads() []Binding {
	return []Binding{
		{ID: "int_convert", Unary: convertToInt},
		{ID: "uint_convert", Unary: convertToUint},
		{ID: "double_convert", Unary: convertToDouble},
		{ID: "string_convert", Unary: convertToString},
		{ID: "bytes_convert", Unary: convertToBytes},
		{ID: "bool_convert", Unary: convertToBool},
		{ID: "timestamp_convert", Unary: convertToTimestamp},
		{ID: "duration_convert", Unary: convertToDuration},
		{ID: "to_dyn", Unary: func(a Value) Value { return a }},
		{ID: "type_of", Unary: func(a Value) Value { return TypeValue{T: a.Type()} }},
	}
}

func convertToInt(a Value) Value {
	switch v := a.(type) {
	case Int:
		return v
	case Uint:
		if v > math.MaxInt64 {
			return evalErr(errors.Overflow, "uint %d overflows int", v)
		}
		return Int(v)
	case Double:
		if v < math.MinInt64 || v > math.MaxInt64 {
			return evalErr(errors.Overflow, "double %v overflows int", v)
		}
		return Int(int64(v))
	case String:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid int literal %q", v)
		}
		return Int(n)
	case Timestamp:
		return Int(v.Unix())
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to int", a.Type())
}

func convertToUint(a Value) Value {
	switch v := a.(type) {
	case Uint:
		return v
	case Int:
		if v < 0 {
			return evalErr(errors.Overflow, "int %d overflows uint", v)
		}
		return Uint(v)
	case Double:
		if v < 0 || v > math.MaxUint64 {
			return evalErr(errors.Overflow, "double %v overflows uint", v)
		}
		return Uint(uint64(v))
	case String:
		n, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid uint literal %q", v)
		}
		return Uint(n)
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to uint", a.Type())
}

func convertToDouble(a Value) Value {
	switch v := a.(type) {
	case Double:
		return v
	case Int:
		return Double(v)
	case Uint:
		return Double(v)
	case String:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid double literal %q", v)
		}
		return Double(f)
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to double", a.Type())
}

func convertToString(a Value) Value {
	switch v := a.(type) {
	case String:
		return v
	case Int:
		return String(strconv.FormatInt(int64(v), 10))
	case Uint:
		return String(strconv.FormatUint(uint64(v), 10))
	case Double:
		return String(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Bool:
		return String(strconv.FormatBool(bool(v)))
	case Bytes:
		return String(string(v))
	case Timestamp:
		return String(v.Format(time.RFC3339Nano))
	case Duration:
		return String(v.String())
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to string", a.Type())
}

func convertToBytes(a Value) Value {
	switch v := a.(type) {
	case Bytes:
		return v
	case String:
		return Bytes(v)
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to bytes", a.Type())
}

func convertToBool(a Value) Value {
	switch v := a.(type) {
	case Bool:
		return v
	case String:
		b, err := strconv.ParseBool(string(v))
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid bool literal %q", v)
		}
		return Bool(b)
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to bool", a.Type())
}

func convertToTimestamp(a Value) Value {
	switch v := a.(type) {
	case Timestamp:
		return v
	case String:
		t, err := time.Parse(time.RFC3339Nano, string(v))
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid timestamp literal %q", v)
		}
		return Timestamp{t}
	case Int:
		return Timestamp{time.Unix(int64(v), 0).UTC()}
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to timestamp", a.Type())
}

func convertToDuration(a Value) Value {
	switch v := a.(type) {
	case Duration:
		return v
	case String:
		d, err := time.ParseDuration(string(v))
		if err != nil {
			return evalErr(errors.InvalidArgument, "invalid duration literal %q", v)
		}
		return Duration{d}
	}
	return evalErr(errors.InvalidArgument, "cannot convert %s to duration", a.Type())
}

func optionalOverloads() []Binding {
	return []Binding{
		{ID: "optional_of", Unary: func(a Value) Value { return SomeOptional(a) }},
		{ID: "optional_none", Function: func([]Value) Value { return EmptyOptional(types.Dyn) }},
		{ID: "optional_value", Unary: func(a Value) Value {
			opt, ok := a.(*Optional)
			if !ok {
				return mismatch()
			}
			if !opt.Present {
				return evalErr(errors.InvalidArgument, "optional.value() called on an empty optional")
			}
			return opt.Val
		}},
		{ID: "optional_has_value", Unary: func(a Value) Value {
			opt, ok := a.(*Optional)
			if !ok {
				return mismatch()
			}
			return Bool(opt.Present)
		}},
		{ID: "optional_or_value", Binary: func(a, b Value) Value {
			opt, ok := a.(*Optional)
			if !ok {
				return mismatch()
			}
			if opt.Present {
				return opt.Val
			}
			return b
		}},
	}
}

func timestampOverloads() []Binding {
	fields := map[string]func(time.Time) int64{
		overloads.TimestampGetFullYear:     func(t time.Time) int64 { return int64(t.Year()) },
		overloads.TimestampGetMonth:        func(t time.Time) int64 { return int64(t.Month()) - 1 },
		overloads.TimestampGetDayOfYear:    func(t time.Time) int64 { return int64(t.YearDay()) - 1 },
		overloads.TimestampGetDayOfMonth:   func(t time.Time) int64 { return int64(t.Day()) - 1 },
		overloads.TimestampGetDate:         func(t time.Time) int64 { return int64(t.Day()) },
		overloads.TimestampGetDayOfWeek:    func(t time.Time) int64 { return int64(t.Weekday()) },
		overloads.TimestampGetHours:        func(t time.Time) int64 { return int64(t.Hour()) },
		overloads.TimestampGetMinutes:      func(t time.Time) int64 { return int64(t.Minute()) },
		overloads.TimestampGetSeconds:      func(t time.Time) int64 { return int64(t.Second()) },
		overloads.TimestampGetMilliseconds: func(t time.Time) int64 { return int64(t.Nanosecond() / 1e6) },
	}
	var out []Binding
	for name, get := range fields {
		get := get
		out = append(out, Binding{ID: name + "_timestamp", Unary: func(a Value) Value {
			t, ok := a.(Timestamp)
			if !ok {
				return mismatch()
			}
			return Int(get(t.Time.UTC()))
		}})
		out = append(out, Binding{ID: name + "_timestamp_tz", Binary: func(a, b Value) Value {
			t, ok1 := a.(Timestamp)
			tz, ok2 := b.(String)
			if !ok1 || !ok2 {
				return mismatch()
			}
			loc, err := time.LoadLocation(string(tz))
			if err != nil {
				return evalErr(errors.InvalidArgument, "invalid time zone %q", tz)
			}
			return Int(get(t.Time.In(loc)))
		}})
	}
	durationFields := map[string]func(time.Duration) int64{
		overloads.TimestampGetHours:   func(d time.Duration) int64 { return int64(d / time.Hour) },
		overloads.TimestampGetMinutes: func(d time.Duration) int64 { return int64(d / time.Minute) },
		overloads.TimestampGetSeconds: func(d time.Duration) int64 { return int64(d / time.Second) },
		overloads.TimestampGetMilliseconds: func(d time.Duration) int64 {
			return int64(d/time.Millisecond) % 1000
		},
	}
	for name, get := range durationFields {
		get := get
		out = append(out, Binding{ID: name + "_duration", Unary: func(a Value) Value {
			d, ok := a.(Duration)
			if !ok {
				return mismatch()
			}
			return Int(get(d.Duration))
		}})
	}
	return out
}
