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

// Binding is one overload's runtime implementation, keyed in the
// Dispatcher by the exact overload id the checker resolved a call to
// (spec.md §4.7 "Dispatcher"). Exactly one of Unary/Binary/Function is
// set, matching the overload's declared arity.
type Binding struct {
	ID       string
	Unary    func(Value) Value
	Binary   func(a, b Value) Value
	Function func(args []Value) Value
}

func (b Binding) call(args []Value) Value {
	switch {
	case b.Unary != nil && len(args) == 1:
		return b.Unary(args[0])
	case b.Binary != nil && len(args) == 2:
		return b.Binary(args[0], args[1])
	case b.Function != nil:
		return b.Function(args)
	default:
		return &ErrorValue{Err: errArityMismatch(b.ID, len(args))}
	}
}

// Dispatcher is the registry described in spec.md §4.7: a lookup table
// from overload id to runtime binding, populated once from
// StandardOverloads() and any host-registered custom functions, then
// consulted by every evalCall node at plan time (grounded on
// cue/internal/adt's builtin-function table, generalized from CUE's
// fixed builtin set to CEL's open, host-extensible one).
type Dispatcher struct {
	bindings map[string]Binding
}

// NewDispatcher creates a Dispatcher pre-loaded with overloads.
func NewDispatcher(overloads ...Binding) *Dispatcher {
	d := &Dispatcher{bindings: map[string]Binding{}}
	for _, o := range overloads {
		d.Add(o)
	}
	return d
}

// Add registers or replaces the binding for overload.ID.
func (d *Dispatcher) Add(b Binding) { d.bindings[b.ID] = b }

// FindOverload resolves an overload id to its binding.
func (d *Dispatcher) FindOverload(id string) (Binding, bool) {
	b, ok := d.bindings[id]
	return b, ok
}
