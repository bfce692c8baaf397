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

// Package errors defines the diagnostic and evaluation error values used
// throughout the compile and eval pipeline. It mirrors the teacher
// cuelang.org/go/cue/errors value-error idiom: errors are plain values,
// not just strings, and format lazily so positions stay attached all the
// way to the point they are printed.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/exprlang/cel/cel/token"
)

// Severity distinguishes a fatal diagnostic from an advisory one.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Message holds a lazily formatted diagnostic message, embeddable in
// richer error types the way cue/errors.Message is.
type Message struct {
	format string
	args   []interface{}
}

// NewMessage creates a Message from a printf-style format and arguments.
func NewMessage(format string, args []interface{}) Message {
	return Message{format: format, args: args}
}

func (m Message) Msg() (string, []interface{}) { return m.format, m.args }

func (m Message) Error() string { return fmt.Sprintf(m.format, m.args...) }

// Error is the interface satisfied by every diagnostic-carrying error in
// this module: it knows where it happened in addition to what happened.
type Error interface {
	error
	Position() token.Position
	Msg() (format string, args []interface{})
}

// posError is the concrete Error used by Newf/Wrapf.
type posError struct {
	Message
	pos     token.Position
	wrapped error
}

func (e *posError) Position() token.Position { return e.pos }

func (e *posError) Unwrap() error { return e.wrapped }

// Newf creates an Error positioned at pos.
func Newf(pos token.Position, format string, args ...interface{}) Error {
	return &posError{Message: NewMessage(format, args), pos: pos}
}

// Wrapf creates an Error positioned at pos that wraps err, so that
// xerrors.Is/As can still reach err's sentinel identity.
func Wrapf(err error, pos token.Position, format string, args ...interface{}) Error {
	return &posError{Message: NewMessage(format, args), pos: pos, wrapped: err}
}

// Append combines two errors into a list, flattening any existing lists.
// A nil left-hand side is treated as the empty list, matching
// cue/errors.Append's convention.
func Append(a, b Error) Error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return list{a, b}
	}
}

// list is an Error that is the concatenation of its members' own Errors
// slices, following cue/errors' "Errors() []Error" multi-error convention.
type list []Error

func (l list) Error() string {
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (l list) Position() token.Position {
	if len(l) == 0 {
		return token.Position{}
	}
	return l[0].Position()
}

func (l list) Msg() (string, []interface{}) { return l.Error(), nil }

// Errors flattens an Error value into its leaf diagnostics, in the order
// they were appended.
func Errors(err Error) []Error {
	if err == nil {
		return nil
	}
	if l, ok := err.(list); ok {
		var out []Error
		for _, e := range l {
			out = append(out, Errors(e)...)
		}
		return out
	}
	return []Error{err}
}

// Diagnostic is a single check-time finding: an error or a warning with a
// span and message, as specified by spec.md §4.1.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Message  string
}

func (d Diagnostic) String() string { return d.Message }

// sourceLiner is implemented by a source that can render the text of one
// line, used to build the "| <source line>\n| <caret>^" suffix.
type sourceLiner interface {
	Line(n int) string
}

// ValidationResult accumulates diagnostics produced while parsing or
// checking a single expression, per spec.md §4.1 and §6.
type ValidationResult struct {
	diags []Diagnostic
	src   sourceLiner
	ast   interface{} // *ast.Ast, kept as interface{} to avoid an import cycle
}

// NewValidationResult creates an empty result bound to src for rendering
// source-line excerpts in formatted diagnostics.
func NewValidationResult(src sourceLiner) *ValidationResult {
	return &ValidationResult{src: src}
}

// AddError records an error-severity diagnostic.
func (r *ValidationResult) AddError(pos token.Position, format string, args ...interface{}) {
	r.diags = append(r.diags, Diagnostic{Severity: Error, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// AddWarning records a warning-severity diagnostic; it never makes
// HasError true.
func (r *ValidationResult) AddWarning(pos token.Position, format string, args ...interface{}) {
	r.diags = append(r.diags, Diagnostic{Severity: Warning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// SetAst records the checked or parsed AST this result carries when there
// is no error.
func (r *ValidationResult) SetAst(a interface{}) { r.ast = a }

// HasError reports whether any Error-severity diagnostic was recorded.
func (r *ValidationResult) HasError() bool {
	for _, d := range r.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns all recorded diagnostics, sorted by position.
func (r *ValidationResult) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), r.diags...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos.Offset < out[j].Pos.Offset
	})
	return out
}

// GetAst returns the result's AST, failing with ValidationError when any
// error-severity diagnostic is present, per spec.md §4.1.
func (r *ValidationResult) GetAst() (interface{}, error) {
	if r.HasError() {
		return nil, &ValidationError{Result: r}
	}
	return r.ast, nil
}

// ValidationError is returned by GetAst when the result carries at least
// one error diagnostic.
type ValidationError struct {
	Result *ValidationResult
}

func (e *ValidationError) Error() string { return e.Result.GetErrorString() }

// GetErrorString renders every error-severity diagnostic in the
// "ERROR: <src>:<line>:<col>: <msg>\n | <line>\n | <caret>^" layout
// required by spec.md §4.1/§6.
func (r *ValidationResult) GetErrorString() string {
	return r.renderString(func(d Diagnostic) bool { return d.Severity == Error })
}

// GetIssueString renders every diagnostic regardless of severity.
func (r *ValidationResult) GetIssueString() string {
	return r.renderString(func(Diagnostic) bool { return true })
}

func (r *ValidationResult) renderString(include func(Diagnostic) bool) string {
	var sb strings.Builder
	for _, d := range r.Diagnostics() {
		if !include(d) {
			continue
		}
		label := "ERROR"
		if d.Severity == Warning {
			label = "WARNING"
		}
		fmt.Fprintf(&sb, "%s: %s: %s\n", label, d.Pos, d.Message)
		if r.src != nil && d.Pos.IsValid() {
			line := r.src.Line(d.Pos.Line)
			sb.WriteString(" | ")
			sb.WriteString(line)
			sb.WriteByte('\n')
			sb.WriteString(" | ")
			col := d.Pos.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", col-1))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// Is reports whether err or anything it wraps matches target, delegating
// to xerrors so eval-time ErrorKind sentinels (see EvalError) can be
// matched the way cue/errors uses xerrors.Is for its codeXxx sentinels.
func Is(err, target error) bool { return xerrors.Is(err, target) }

// As delegates to xerrors.As.
func As(err error, target interface{}) bool { return xerrors.As(err, target) }
