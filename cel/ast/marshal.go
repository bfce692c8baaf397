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

package ast

import "golang.org/x/exp/slices"

// WireExpr is the canonical, serialization-friendly shape of an
// expression node: the cel-spec "ParsedExpr"/"CheckedExpr" proto layout,
// reproduced here as a plain Go struct (spec.md §6 "Wire format for
// ASTs"). Exactly one of the Xxx fields is populated, mirroring the
// proto's oneof.
type WireExpr struct {
	ID ID `json:"id"`

	ConstExpr   *WireConstant      `json:"const_expr,omitempty"`
	IdentExpr   *WireIdent         `json:"ident_expr,omitempty"`
	SelectExpr  *WireSelect        `json:"select_expr,omitempty"`
	CallExpr    *WireCall          `json:"call_expr,omitempty"`
	ListExpr    *WireList          `json:"list_expr,omitempty"`
	StructExpr  *WireStruct        `json:"struct_expr,omitempty"`
	MapExpr     *WireMap           `json:"map_expr,omitempty"`
	ComprehExpr *WireComprehension `json:"comprehension_expr,omitempty"`
}

type WireConstant struct {
	Kind        ConstantKind `json:"kind"`
	BoolValue   bool         `json:"bool_value,omitempty"`
	IntValue    int64        `json:"int64_value,omitempty"`
	UintValue   uint64       `json:"uint64_value,omitempty"`
	DoubleValue float64      `json:"double_value,omitempty"`
	StringValue string       `json:"string_value,omitempty"`
	BytesValue  []byte       `json:"bytes_value,omitempty"`
}

type WireIdent struct {
	Name string `json:"name"`
}

type WireSelect struct {
	Operand  *WireExpr `json:"operand"`
	Field    string    `json:"field"`
	TestOnly bool      `json:"test_only,omitempty"`
}

type WireCall struct {
	Target   *WireExpr   `json:"target,omitempty"`
	Function string      `json:"function"`
	Args     []*WireExpr `json:"args,omitempty"`
}

type WireList struct {
	Elements       []*WireExpr `json:"elements,omitempty"`
	OptionalIndices []int32    `json:"optional_indices,omitempty"`
}

type WireStructField struct {
	ID       ID        `json:"id"`
	Name     string    `json:"name"`
	Value    *WireExpr `json:"value"`
	Optional bool      `json:"optional_entry,omitempty"`
}

type WireStruct struct {
	MessageName string             `json:"message_name,omitempty"`
	Entries     []*WireStructField `json:"entries,omitempty"`
}

type WireMapEntry struct {
	ID       ID        `json:"id"`
	Key      *WireExpr `json:"key"`
	Value    *WireExpr `json:"value"`
	Optional bool      `json:"optional_entry,omitempty"`
}

type WireMap struct {
	Entries []*WireMapEntry `json:"entries,omitempty"`
}

type WireComprehension struct {
	IterVar       string    `json:"iter_var"`
	IterRange     *WireExpr `json:"iter_range"`
	AccuVar       string    `json:"accu_var"`
	AccuInit      *WireExpr `json:"accu_init"`
	LoopCondition *WireExpr `json:"loop_condition"`
	LoopStep      *WireExpr `json:"loop_step"`
	Result        *WireExpr `json:"result"`
}

// ToWire converts an in-memory Expr tree to its canonical wire shape,
// preserving node ids exactly (spec.md §6 "identical id assignment").
func ToWire(e Expr) *WireExpr {
	if e == nil {
		return nil
	}
	w := &WireExpr{ID: e.ID()}
	switch x := e.(type) {
	case *Constant:
		w.ConstExpr = &WireConstant{
			Kind: x.Kind, BoolValue: x.BoolValue, IntValue: x.IntValue,
			UintValue: x.UintValue, DoubleValue: x.DoubleValue,
			StringValue: x.StringValue, BytesValue: x.BytesValue,
		}
	case *Ident:
		w.IdentExpr = &WireIdent{Name: x.Name}
	case *Select:
		w.SelectExpr = &WireSelect{Operand: ToWire(x.Operand), Field: x.Field, TestOnly: x.TestOnly}
	case *Call:
		c := &WireCall{Target: ToWire(x.Target), Function: x.Function}
		for _, a := range x.Args {
			c.Args = append(c.Args, ToWire(a))
		}
		w.CallExpr = c
	case *ListExpr:
		l := &WireList{}
		for i, el := range x.Elements {
			l.Elements = append(l.Elements, ToWire(el))
			if x.OptionalIndices[i] {
				l.OptionalIndices = append(l.OptionalIndices, int32(i))
			}
		}
		w.ListExpr = l
	case *StructExpr:
		s := &WireStruct{MessageName: x.MessageName}
		for _, f := range x.Fields {
			s.Entries = append(s.Entries, &WireStructField{ID: f.Id, Name: f.Name, Value: ToWire(f.Value), Optional: f.Optional})
		}
		w.StructExpr = s
	case *MapExpr:
		m := &WireMap{}
		for _, ent := range x.Entries {
			m.Entries = append(m.Entries, &WireMapEntry{ID: ent.Id, Key: ToWire(ent.Key), Value: ToWire(ent.Value), Optional: ent.Optional})
		}
		w.MapExpr = m
	case *Comprehension:
		w.ComprehExpr = &WireComprehension{
			IterVar: x.IterVar, IterRange: ToWire(x.IterRange),
			AccuVar: x.AccuVar, AccuInit: ToWire(x.AccuInit),
			LoopCondition: ToWire(x.LoopCondition), LoopStep: ToWire(x.LoopStep),
			Result: ToWire(x.Result),
		}
	case *NotSet:
		// Represented by an otherwise-empty WireExpr carrying only the id.
	}
	return w
}

// FromWire is the inverse of ToWire.
func FromWire(w *WireExpr) Expr {
	if w == nil {
		return nil
	}
	switch {
	case w.ConstExpr != nil:
		c := w.ConstExpr
		return &Constant{Id: w.ID, Kind: c.Kind, BoolValue: c.BoolValue, IntValue: c.IntValue,
			UintValue: c.UintValue, DoubleValue: c.DoubleValue, StringValue: c.StringValue, BytesValue: c.BytesValue}
	case w.IdentExpr != nil:
		return &Ident{Id: w.ID, Name: w.IdentExpr.Name}
	case w.SelectExpr != nil:
		s := w.SelectExpr
		return &Select{Id: w.ID, Operand: FromWire(s.Operand), Field: s.Field, TestOnly: s.TestOnly}
	case w.CallExpr != nil:
		call := w.CallExpr
		args := make([]Expr, len(call.Args))
		for i, a := range call.Args {
			args[i] = FromWire(a)
		}
		return &Call{Id: w.ID, Target: FromWire(call.Target), Function: call.Function, Args: args}
	case w.ListExpr != nil:
		l := w.ListExpr
		elems := make([]Expr, len(l.Elements))
		for i, e := range l.Elements {
			elems[i] = FromWire(e)
		}
		opt := map[int]bool{}
		for _, i := range l.OptionalIndices {
			opt[int(i)] = true
		}
		return &ListExpr{Id: w.ID, Elements: elems, OptionalIndices: opt}
	case w.StructExpr != nil:
		s := w.StructExpr
		fields := make([]StructField, len(s.Entries))
		for i, f := range s.Entries {
			fields[i] = StructField{Id: f.ID, Name: f.Name, Value: FromWire(f.Value), Optional: f.Optional}
		}
		return &StructExpr{Id: w.ID, MessageName: s.MessageName, Fields: fields}
	case w.MapExpr != nil:
		m := w.MapExpr
		entries := make([]MapEntry, len(m.Entries))
		for i, e := range m.Entries {
			entries[i] = MapEntry{Id: e.ID, Key: FromWire(e.Key), Value: FromWire(e.Value), Optional: e.Optional}
		}
		return &MapExpr{Id: w.ID, Entries: entries}
	case w.ComprehExpr != nil:
		c := w.ComprehExpr
		return &Comprehension{
			Id: w.ID, IterVar: c.IterVar, IterRange: FromWire(c.IterRange),
			AccuVar: c.AccuVar, AccuInit: FromWire(c.AccuInit),
			LoopCondition: FromWire(c.LoopCondition), LoopStep: FromWire(c.LoopStep),
			Result: FromWire(c.Result),
		}
	default:
		return &NotSet{Id: w.ID}
	}
}

// sortedIDs is a small helper shared by the checker/debug packages that
// need to print or serialize a type/reference map in deterministic node
// id order.
func sortedIDs(ids []ID) []ID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

// SortedIDs exposes sortedIDs for other packages that walk a side-map.
func SortedIDs(ids []ID) []ID { return sortedIDs(ids) }
