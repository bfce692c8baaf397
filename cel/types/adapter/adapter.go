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

// Package adapter converts native Go values into interpreter.Value and
// back (spec.md §4.9 "host↔CEL value adaptation"). Program.Eval takes
// and returns interpreter.Value directly; this package exists for hosts
// that would rather hand in plain Go maps/slices/structs and get plain
// Go values back, the way cue/go.go's convertRec/toMarshalErr pair lets
// a caller move between native Go values and cue.Value without hand
// -writing the traversal themselves.
package adapter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/types"
)

// ToValue converts a native Go value into an interpreter.Value,
// recursing into slices, arrays, maps and structs the way
// cue/go.go's convertRec walks a reflect.Value (generalized here from
// CUE's lattice-valued conversion to CEL's flat runtime Value set: no
// defaults, no optionality bit besides the Optional wrapper itself).
func ToValue(x interface{}) (interpreter.Value, error) {
	if x == nil {
		return interpreter.Null{}, nil
	}
	switch v := x.(type) {
	case interpreter.Value:
		return v, nil
	case bool:
		return interpreter.Bool(v), nil
	case int:
		return interpreter.Int(v), nil
	case int32:
		return interpreter.Int(v), nil
	case int64:
		return interpreter.Int(v), nil
	case uint:
		return interpreter.Uint(v), nil
	case uint32:
		return interpreter.Uint(v), nil
	case uint64:
		return interpreter.Uint(v), nil
	case float32:
		return interpreter.Double(v), nil
	case float64:
		return interpreter.Double(v), nil
	case string:
		return interpreter.String(v), nil
	case []byte:
		return interpreter.Bytes(v), nil
	case time.Time:
		return interpreter.Timestamp{Time: v}, nil
	case time.Duration:
		return interpreter.Duration{Duration: v}, nil
	case json.Marshaler:
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var native interface{}
		if err := json.Unmarshal(b, &native); err != nil {
			return nil, err
		}
		return ToValue(native)
	}
	return convertRec(reflect.ValueOf(x))
}

func convertRec(rv reflect.Value) (interpreter.Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return interpreter.Null{}, nil
		}
		return convertRec(rv.Elem())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return interpreter.Bytes(rv.Bytes()), nil
		}
		elems := make([]interpreter.Value, rv.Len())
		for i := range elems {
			ev, err := ToValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return &interpreter.List{Elems: elems, Elem: elemLUB(elems)}, nil
	case reflect.Map:
		m := interpreter.NewMap(types.Dyn, types.Dyn)
		iter := rv.MapRange()
		for iter.Next() {
			k, err := ToValue(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			v, err := ToValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			if res := m.Put(k, v); res != interpreter.PutOK {
				return nil, fmt.Errorf("adapter: invalid map key %v", k)
			}
		}
		return m, nil
	case reflect.Struct:
		t := rv.Type()
		m := interpreter.NewMap(types.String, types.Dyn)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			v, err := ToValue(rv.Field(i).Interface())
			if err != nil {
				return nil, err
			}
			m.Put(interpreter.String(name), v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("adapter: unsupported Go type %s", rv.Type())
	}
}

// elemLUB narrows a List's static element type to the common type of
// its elements, defaulting to types.Dyn for an empty or heterogeneous
// list (spec.md §4.3 "least upper bound").
func elemLUB(elems []interpreter.Value) *types.Type {
	if len(elems) == 0 {
		return types.Dyn
	}
	lub := elems[0].Type()
	for _, e := range elems[1:] {
		lub = types.LeastUpperBound(lub, e.Type(), types.Options{})
	}
	return lub
}

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok {
		if i := indexComma(tag); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" {
			return tag
		}
	}
	return f.Name
}

func indexComma(s string) int {
	for i, c := range s {
		if c == ',' {
			return i
		}
	}
	return -1
}

// FromValue converts an interpreter.Value back into a plain Go value
// (bool, int64, uint64, float64, string, []byte, time.Time,
// time.Duration, []interface{}, map[string]interface{}), the inverse of
// ToValue. An ErrorValue converts to a Go error rather than a value.
func FromValue(v interpreter.Value) (interface{}, error) {
	switch t := v.(type) {
	case interpreter.Null:
		return nil, nil
	case interpreter.Bool:
		return bool(t), nil
	case interpreter.Int:
		return int64(t), nil
	case interpreter.Uint:
		return uint64(t), nil
	case interpreter.Double:
		return float64(t), nil
	case interpreter.String:
		return string(t), nil
	case interpreter.Bytes:
		return []byte(t), nil
	case interpreter.Timestamp:
		return t.Time, nil
	case interpreter.Duration:
		return t.Duration, nil
	case *interpreter.Optional:
		if !t.Present {
			return nil, nil
		}
		return FromValue(t.Val)
	case *interpreter.List:
		out := make([]interface{}, len(t.Elems))
		for i, e := range t.Elems {
			ev, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *interpreter.Map:
		out := make(map[string]interface{}, len(t.Keys))
		for _, k := range t.Keys {
			ks, ok := k.(interpreter.String)
			if !ok {
				return nil, fmt.Errorf("adapter: map key %v is not convertible to a Go map[string]any key", k)
			}
			val, _ := t.Get(k)
			vv, err := FromValue(val)
			if err != nil {
				return nil, err
			}
			out[string(ks)] = vv
		}
		return out, nil
	case *interpreter.ErrorValue:
		return nil, t.Err
	case *interpreter.UnknownValue:
		return nil, fmt.Errorf("adapter: result is unknown (unresolved ids %v)", t.IDs)
	default:
		return nil, fmt.Errorf("adapter: unsupported Value type %T", v)
	}
}
