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

// Package debug prints a given Ast node.
//
// The result is not CEL source, only a human-readable rendering of the
// tree's internal shape, indented one level per nesting depth the same
// way cue/internal/debug prints an adt.Node: useful for inspecting a
// macro expansion or a checker/planner decision, not for round-tripping.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/kr/text"

	"github.com/exprlang/cel/cel/ast"
)

// Str renders e as an indented tree, one line per node (spec.md Design
// Notes "debug printer").
func Str(e ast.Expr) string {
	return strings.TrimRight(node(e), "\n")
}

func node(e ast.Expr) string {
	if e == nil {
		return "<nil>\n"
	}
	switch n := e.(type) {
	case *ast.Constant:
		return fmt.Sprintf("%s\n", constant(n))
	case *ast.Ident:
		return fmt.Sprintf("ident(%s)\n", n.Name)
	case *ast.Select:
		var b strings.Builder
		suffix := ""
		if n.TestOnly {
			suffix = "?"
		}
		fmt.Fprintf(&b, "select(.%s%s)\n", n.Field, suffix)
		b.WriteString(text.Indent(node(n.Operand), "  "))
		return b.String()
	case *ast.Call:
		var b strings.Builder
		fmt.Fprintf(&b, "call(%s)\n", n.Function)
		if n.Target != nil {
			b.WriteString(text.Indent("target:\n"+text.Indent(node(n.Target), "  "), "  "))
		}
		for i, a := range n.Args {
			b.WriteString(text.Indent(fmt.Sprintf("arg[%d]:\n", i)+text.Indent(node(a), "  "), "  "))
		}
		return b.String()
	case *ast.ListExpr:
		var b strings.Builder
		fmt.Fprintf(&b, "list[%d]\n", len(n.Elements))
		for i, el := range n.Elements {
			prefix := fmt.Sprintf("[%d]: ", i)
			if n.OptionalIndices[i] {
				prefix = fmt.Sprintf("[%d]?: ", i)
			}
			b.WriteString(text.Indent(prefix+node(el), "  "))
		}
		return b.String()
	case *ast.MapExpr:
		var b strings.Builder
		fmt.Fprintf(&b, "map[%d]\n", len(n.Entries))
		for i, ent := range n.Entries {
			opt := ""
			if ent.Optional {
				opt = "?"
			}
			b.WriteString(text.Indent(fmt.Sprintf("key[%d]%s: ", i, opt)+node(ent.Key), "  "))
			b.WriteString(text.Indent(fmt.Sprintf("val[%d]%s: ", i, opt)+node(ent.Value), "  "))
		}
		return b.String()
	case *ast.StructExpr:
		var b strings.Builder
		fmt.Fprintf(&b, "struct(%s)\n", n.MessageName)
		for _, f := range n.Fields {
			opt := ""
			if f.Optional {
				opt = "?"
			}
			b.WriteString(text.Indent(fmt.Sprintf("%s%s: ", f.Name, opt)+node(f.Value), "  "))
		}
		return b.String()
	case *ast.Comprehension:
		var b strings.Builder
		fmt.Fprintf(&b, "comprehension(%s, %s)\n", n.IterVar, n.AccuVar)
		b.WriteString(text.Indent("iterRange: "+node(n.IterRange), "  "))
		b.WriteString(text.Indent("accuInit: "+node(n.AccuInit), "  "))
		b.WriteString(text.Indent("loopCondition: "+node(n.LoopCondition), "  "))
		b.WriteString(text.Indent("loopStep: "+node(n.LoopStep), "  "))
		b.WriteString(text.Indent("result: "+node(n.Result), "  "))
		return b.String()
	default:
		return fmt.Sprintf("%s\n", pretty.Sprint(e))
	}
}

func constant(n *ast.Constant) string {
	switch n.Kind {
	case ast.NullConstant:
		return "const(null)"
	case ast.BoolConstant:
		return "const(" + strconv.FormatBool(n.BoolValue) + ")"
	case ast.IntConstant:
		return "const(" + strconv.FormatInt(n.IntValue, 10) + ")"
	case ast.UintConstant:
		return "const(" + strconv.FormatUint(n.UintValue, 10) + "u)"
	case ast.DoubleConstant:
		return "const(" + strconv.FormatFloat(n.DoubleValue, 'g', -1, 64) + ")"
	case ast.StringConstant:
		return "const(" + strconv.Quote(n.StringValue) + ")"
	case ast.BytesConstant:
		return fmt.Sprintf("const(b%q)", n.BytesValue)
	default:
		return pretty.Sprint(n)
	}
}
