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

// Package run holds cmd/cel's subcommand bodies, kept out of main so
// they stay independently testable (the teacher keeps its own cmd/cue
// logic in an internal subpackage for the same reason, and that
// convention is not retained verbatim here since cmd/cue's own tree was
// dropped - see DESIGN.md - but the pattern of a thin main.go over a
// testable internal/run package is reused).
package run

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/exprlang/cel/cel"
	"github.com/exprlang/cel/cel/ast"
	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/errors"
	"github.com/exprlang/cel/cel/interpreter"
	"github.com/exprlang/cel/cel/source"
	"github.com/exprlang/cel/cel/types/adapter"
	"github.com/exprlang/cel/internal/debug"
)

// LoadWireAst reads a cel/ast/marshal.go WireExpr JSON document from
// path and wraps it as an unchecked Ast.
func LoadWireAst(path string) (*ast.Ast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wire ast.WireExpr
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	root := ast.FromWire(&wire)
	src := source.New(path, "")
	maxID := maxNodeID(root)
	return ast.NewAst(root, src, maxID, nil), nil
}

func maxNodeID(root ast.Expr) ast.ID {
	nav, err := ast.Navigate(root)
	if err != nil {
		return root.ID()
	}
	return nav.MaxID()
}

// Debug renders e via internal/debug.Str.
func Debug(e ast.Expr) string { return debug.Str(e) }

func standardEnv() (*cel.Env, error) {
	return cel.NewEnv()
}

// Check type-checks a, returning the checked Ast and the full
// ValidationResult.
func Check(a *ast.Ast) (*checker.CheckedAst, *errors.ValidationResult, error) {
	env, err := standardEnv()
	if err != nil {
		return nil, nil, err
	}
	checked, res := env.Check(a)
	return checked, res, nil
}

// Eval plans and evaluates checked against vars.
func Eval(ctx context.Context, checked *checker.CheckedAst, vars map[string]interpreter.Value) (interface{}, error) {
	env, err := standardEnv()
	if err != nil {
		return nil, err
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, err
	}
	result := prog.Eval(ctx, vars)
	if interpreter.IsError(result) {
		return nil, result.(*interpreter.ErrorValue).Err
	}
	if u, ok := result.(*interpreter.UnknownValue); ok {
		return nil, fmt.Errorf("result is unknown: unresolved id(s) %v", u.IDs)
	}
	return adapter.FromValue(result)
}

// ParseVars turns a list of "name=value" strings into Values, inferring
// value's type as int, then float64, then bool, defaulting to string.
func ParseVars(raw []string) (map[string]interpreter.Value, error) {
	out := map[string]interpreter.Value{}
	for _, kv := range raw {
		name, value, ok := splitKV(kv)
		if !ok {
			return nil, fmt.Errorf("invalid --var %q, want name=value", kv)
		}
		out[name] = inferValue(value)
	}
	return out, nil
}

func splitKV(s string) (name, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func inferValue(s string) interpreter.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return interpreter.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return interpreter.Double(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return interpreter.Bool(b)
	}
	return interpreter.String(s)
}
