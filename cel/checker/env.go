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

// Package checker implements spec.md §4.6: the bottom-up type checker
// that walks a parsed Ast and annotates it with a per-node type map and
// reference map, the way the teacher's cue/internal/compile package
// walks a parsed cue/ast.File and produces adt nodes annotated with
// source position and (eventually) evaluated kind.
package checker

import (
	"github.com/exprlang/cel/cel/containers"
	"github.com/exprlang/cel/cel/types"
)

// Overload is one signature a declared function may be invoked with
// (spec.md §3 "Overload"). Params/Result may reference named type
// parameters (types.TypeParam) that unify independently per call site.
type Overload struct {
	ID             string
	Params         []*types.Type
	Result         *types.Type
	ReceiverStyle  bool
	TypeParamNames []string
}

// FunctionDecl is the set of overloads sharing one function name
// (spec.md §3 "Function").
type FunctionDecl struct {
	Name      string
	Overloads []Overload
}

// MessageType is the checker's view of a declared message type: just
// enough to type-check field selection and struct construction (spec.md
// §6 "addMessageTypes"). The richer descriptor (oneofs, proto wire
// numbers, default values) lives behind cel/types/protodesc and is
// consulted only at evaluation time, not by the checker.
type MessageType struct {
	Name   string
	Fields map[string]*types.Type
}

// Env is the immutable-once-built checking environment: the container
// used for name resolution, declared variables, and declared functions
// (spec.md §4.4, §6 addVar/addFunctionDeclaration builder options).
type Env struct {
	container *containers.Container
	vars      map[string]*types.Type
	funcs     map[string]*FunctionDecl
	messages  map[string]MessageType
	opts      types.Options
}

// NewEnv creates an Env rooted at container, initially with no variables
// or functions declared (the stdlib overloads are added separately by
// NewStandardEnv).
func NewEnv(container *containers.Container, opts types.Options) *Env {
	return &Env{
		container: container,
		vars:      map[string]*types.Type{},
		funcs:     map[string]*FunctionDecl{},
		messages:  map[string]MessageType{},
		opts:      opts,
	}
}

// AddMessageType declares a message type's field shape, consulted when
// checking struct construction and field selection against it.
func (e *Env) AddMessageType(msg MessageType) *Env {
	e.messages[msg.Name] = msg
	return e
}

// LookupMessage resolves name against the container's candidate list,
// the same way LookupVar/LookupFunction do.
func (e *Env) LookupMessage(name string) (MessageType, bool) {
	for _, cand := range e.container.ResolveCandidateNames(name) {
		if m, ok := e.messages[cand]; ok {
			return m, true
		}
	}
	return MessageType{}, false
}

// NewStandardEnv creates an Env pre-populated with the operators and
// built-in functions of spec.md §4.7/Glossary "Standard library".
func NewStandardEnv(container *containers.Container, opts types.Options) *Env {
	env := NewEnv(container, opts)
	for _, fn := range StandardFunctions() {
		env.AddFunction(fn)
	}
	return env
}

// AddVar declares a free variable of type t.
func (e *Env) AddVar(name string, t *types.Type) *Env {
	e.vars[name] = t
	return e
}

// AddFunction declares fn, merging its overloads into any existing
// declaration under the same name (spec.md §6 addFunctionDeclaration may
// be called more than once for the same function).
func (e *Env) AddFunction(fn FunctionDecl) *Env {
	existing, ok := e.funcs[fn.Name]
	if !ok {
		cp := fn
		e.funcs[fn.Name] = &cp
		return e
	}
	existing.Overloads = append(existing.Overloads, fn.Overloads...)
	return e
}

// Container returns the environment's container, used by the checker to
// resolve unqualified names (spec.md §4.4).
func (e *Env) Container() *containers.Container { return e.container }

// Options returns the numeric-comparison/assignability gate this
// environment checks under.
func (e *Env) Options() types.Options { return e.opts }

// LookupVar resolves name against every candidate the container
// produces, returning the first declared variable found.
func (e *Env) LookupVar(name string) (*types.Type, string, bool) {
	for _, cand := range e.container.ResolveCandidateNames(name) {
		if t, ok := e.vars[cand]; ok {
			return t, cand, true
		}
	}
	return nil, "", false
}

// LookupFunction resolves a function name the same way LookupVar
// resolves a variable name.
func (e *Env) LookupFunction(name string) (*FunctionDecl, string, bool) {
	for _, cand := range e.container.ResolveCandidateNames(name) {
		if fn, ok := e.funcs[cand]; ok {
			return fn, cand, true
		}
	}
	return nil, "", false
}
