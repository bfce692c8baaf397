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

package errors

import (
	"fmt"

	"github.com/exprlang/cel/cel/token"
)

// ErrorKind is the closed set of eval-time failure kinds from spec.md §7.
type ErrorKind int

const (
	_ ErrorKind = iota
	NoSuchKey
	NoSuchField
	DivByZero
	Overflow
	InvalidField
	InvalidArgument
	IterationLimit
	RecursionLimit
	Unbound
	Cancelled
	DuplicateKey
)

func (k ErrorKind) String() string {
	switch k {
	case NoSuchKey:
		return "no such key"
	case NoSuchField:
		return "no such field"
	case DivByZero:
		return "division by zero"
	case Overflow:
		return "integer overflow"
	case InvalidField:
		return "invalid field"
	case InvalidArgument:
		return "invalid argument"
	case IterationLimit:
		return "iteration limit exceeded"
	case RecursionLimit:
		return "recursion limit exceeded"
	case Unbound:
		return "unbound variable"
	case Cancelled:
		return "cancelled"
	case DuplicateKey:
		return "duplicate key"
	}
	return "unknown error"
}

// EvalError is the value a failing evaluation step fails-with, per
// spec.md §7. It is modeled on cue/errors.go's *bottom: a typed code plus
// a lazily rendered message, carrying its own span.
type EvalError struct {
	Kind ErrorKind
	Pos  token.Position
	msg  string
	args []interface{}
}

func NewEvalError(kind ErrorKind, pos token.Position, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Pos: pos, msg: format, args: args}
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, fmt.Sprintf(e.msg, e.args...))
}

func (e *EvalError) Position() token.Position { return e.Pos }

func (e *EvalError) Msg() (string, []interface{}) { return e.msg, e.args }

// Is supports xerrors.Is(err, errors.KindSentinel(kind)) style matching:
// it reports true for a KindSentinel of the same ErrorKind.
func (e *EvalError) Is(target error) bool {
	if k, ok := target.(*kindSentinel); ok {
		return e.Kind == k.kind
	}
	return false
}

// kindSentinel lets callers write errors.Is(err, errors.KindSentinel(errors.DivByZero)).
type kindSentinel struct{ kind ErrorKind }

func (k *kindSentinel) Error() string { return k.kind.String() }

// KindSentinel returns a sentinel error matching any EvalError of the
// given kind, for use with Is/xerrors.Is.
func KindSentinel(kind ErrorKind) error { return &kindSentinel{kind: kind} }
