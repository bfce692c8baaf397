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

// Package macros implements spec.md §4.5: the parse-time expander that
// rewrites has/all/exists/exists_one/filter/map/cel.bind into the core
// comprehension/conditional AST shapes. CEL's only looping construct is
// the bounded fold the teacher's own sole-looping-construct -
// comprehension clauses in a StructLit/ListLit (internal/core/adt's
// ForClause/IfClause) - already models, so the expansion target here is
// exactly an ast.Comprehension.
package macros

import (
	"fmt"

	"github.com/exprlang/cel/cel/ast"
)

// Name identifies one of the standard macros (spec.md §6 "standardMacros").
type Name string

const (
	Has        Name = "has"
	All        Name = "all"
	Exists     Name = "exists"
	ExistsOne  Name = "exists_one"
	Filter     Name = "filter"
	Map        Name = "map"
	CelBind    Name = "cel.bind"
)

// idGen allocates fresh node ids for synthesized expansion nodes.
type idGen interface{ NextID() ast.ID }

// Macro describes one recognised macro invocation shape.
type Macro struct {
	Name          Name
	Function      string
	ReceiverStyle bool
	ArgCounts     []int // acceptable arg counts, e.g. map() accepts 2 or 3
	Expand        func(ids idGen, target ast.Expr, args []ast.Expr) (ast.Expr, error)
}

func (m Macro) acceptsArgCount(n int) bool {
	for _, c := range m.ArgCounts {
		if c == n {
			return true
		}
	}
	return false
}

// not-strictly-false marker function name, used in the condition slot of
// all()/exists() expansions (spec.md §4.5).
const notStrictlyFalse = "@not_strictly_false"

func ident(ids idGen, name string) ast.Expr {
	return &ast.Ident{Id: ids.NextID(), Name: name}
}

func call(ids idGen, fn string, target ast.Expr, args ...ast.Expr) ast.Expr {
	return &ast.Call{Id: ids.NextID(), Target: target, Function: fn, Args: args}
}

func boolConst(ids idGen, v bool) ast.Expr {
	return &ast.Constant{Id: ids.NextID(), Kind: ast.BoolConstant, BoolValue: v}
}

func intConst(ids idGen, v int64) ast.Expr {
	return &ast.Constant{Id: ids.NextID(), Kind: ast.IntConstant, IntValue: v}
}

// StandardMacros returns the full set recognised by spec.md §4.5, each
// independently selectable via the standardMacros builder option
// (spec.md §6).
func StandardMacros() []Macro {
	return []Macro{
		hasMacro(),
		allMacro(),
		existsMacro(),
		existsOneMacro(),
		filterMacro(),
		mapMacro(),
		celBindMacro(),
	}
}

func hasMacro() Macro {
	return Macro{
		Name: Has, Function: "has", ReceiverStyle: false, ArgCounts: []int{1},
		Expand: func(ids idGen, _ ast.Expr, args []ast.Expr) (ast.Expr, error) {
			sel, ok := args[0].(*ast.Select)
			if !ok {
				return nil, macroErr("has() requires a field selection argument")
			}
			return &ast.Select{Id: ids.NextID(), Operand: sel.Operand, Field: sel.Field, TestOnly: true}, nil
		},
	}
}

// foldMacro builds the common accu/step/condition/result comprehension
// shape shared by all()/exists() (spec.md §4.5).
func foldMacro(name Name, accuInit func(idGen) ast.Expr, step func(ids idGen, accu, pred ast.Expr) ast.Expr,
	cond func(ids idGen, accu ast.Expr) ast.Expr, result func(ids idGen, accu ast.Expr) ast.Expr) Macro {
	return Macro{
		Name: name, Function: string(name), ReceiverStyle: true, ArgCounts: []int{2},
		Expand: func(ids idGen, target ast.Expr, args []ast.Expr) (ast.Expr, error) {
			iterVar, ok := args[0].(*ast.Ident)
			if !ok {
				return nil, macroErr("%s() requires an identifier as its first argument", name)
			}
			pred := args[1]
			accuVar := "__result__"
			accuIdent := func() ast.Expr { return &ast.Ident{Id: ids.NextID(), Name: accuVar} }
			return &ast.Comprehension{
				Id:            ids.NextID(),
				IterVar:       iterVar.Name,
				IterRange:     target,
				AccuVar:       accuVar,
				AccuInit:      accuInit(ids),
				LoopCondition: cond(ids, accuIdent()),
				LoopStep:      step(ids, accuIdent(), pred),
				Result:        result(ids, accuIdent()),
			}, nil
		},
	}
}

func allMacro() Macro {
	return foldMacro(All,
		func(ids idGen) ast.Expr { return boolConst(ids, true) },
		func(ids idGen, accu, pred ast.Expr) ast.Expr { return call(ids, "_&&_", nil, accu, pred) },
		func(ids idGen, accu ast.Expr) ast.Expr { return call(ids, notStrictlyFalse, nil, accu) },
		func(ids idGen, accu ast.Expr) ast.Expr { return accu },
	)
}

func existsMacro() Macro {
	return foldMacro(Exists,
		func(ids idGen) ast.Expr { return boolConst(ids, false) },
		func(ids idGen, accu, pred ast.Expr) ast.Expr { return call(ids, "_||_", nil, accu, pred) },
		func(ids idGen, accu ast.Expr) ast.Expr {
			return call(ids, notStrictlyFalse, nil, call(ids, "!_", nil, accu))
		},
		func(ids idGen, accu ast.Expr) ast.Expr { return accu },
	)
}

func existsOneMacro() Macro {
	return Macro{
		Name: ExistsOne, Function: string(ExistsOne), ReceiverStyle: true, ArgCounts: []int{2},
		Expand: func(ids idGen, target ast.Expr, args []ast.Expr) (ast.Expr, error) {
			iterVar, ok := args[0].(*ast.Ident)
			if !ok {
				return nil, macroErr("exists_one() requires an identifier as its first argument")
			}
			pred := args[1]
			accuVar := "__result__"
			accuIdent := func() ast.Expr { return &ast.Ident{Id: ids.NextID(), Name: accuVar} }
			step := call(ids, "_?_:_", nil, pred, call(ids, "_+_", nil, accuIdent(), intConst(ids, 1)), accuIdent())
			return &ast.Comprehension{
				Id:            ids.NextID(),
				IterVar:       iterVar.Name,
				IterRange:     target,
				AccuVar:       accuVar,
				AccuInit:      intConst(ids, 0),
				LoopCondition: boolConst(ids, true),
				LoopStep:      step,
				Result:        call(ids, "_==_", nil, accuIdent(), intConst(ids, 1)),
			}, nil
		},
	}
}

func filterMacro() Macro {
	return Macro{
		Name: Filter, Function: string(Filter), ReceiverStyle: true, ArgCounts: []int{2},
		Expand: func(ids idGen, target ast.Expr, args []ast.Expr) (ast.Expr, error) {
			iterVar, ok := args[0].(*ast.Ident)
			if !ok {
				return nil, macroErr("filter() requires an identifier as its first argument")
			}
			pred := args[1]
			accuVar := "__result__"
			accuIdent := func() ast.Expr { return &ast.Ident{Id: ids.NextID(), Name: accuVar} }
			appended := &ast.ListExpr{Id: ids.NextID(), Elements: []ast.Expr{&ast.Ident{Id: ids.NextID(), Name: iterVar.Name}}}
			step := call(ids, "_?_:_", nil, pred, call(ids, "_+_", nil, accuIdent(), appended), accuIdent())
			return &ast.Comprehension{
				Id:            ids.NextID(),
				IterVar:       iterVar.Name,
				IterRange:     target,
				AccuVar:       accuVar,
				AccuInit:      &ast.ListExpr{Id: ids.NextID()},
				LoopCondition: boolConst(ids, true),
				LoopStep:      step,
				Result:        accuIdent(),
			}, nil
		},
	}
}

func mapMacro() Macro {
	return Macro{
		Name: Map, Function: string(Map), ReceiverStyle: true, ArgCounts: []int{2, 3},
		Expand: func(ids idGen, target ast.Expr, args []ast.Expr) (ast.Expr, error) {
			iterVar, ok := args[0].(*ast.Ident)
			if !ok {
				return nil, macroErr("map() requires an identifier as its first argument")
			}
			var pred, transform ast.Expr
			if len(args) == 3 {
				pred, transform = args[1], args[2]
			} else {
				transform = args[1]
			}
			accuVar := "__result__"
			accuIdent := func() ast.Expr { return &ast.Ident{Id: ids.NextID(), Name: accuVar} }
			appended := &ast.ListExpr{Id: ids.NextID(), Elements: []ast.Expr{transform}}
			step := call(ids, "_+_", nil, accuIdent(), appended)
			if pred != nil {
				step = call(ids, "_?_:_", nil, pred, step, accuIdent())
			}
			return &ast.Comprehension{
				Id:            ids.NextID(),
				IterVar:       iterVar.Name,
				IterRange:     target,
				AccuVar:       accuVar,
				AccuInit:      &ast.ListExpr{Id: ids.NextID()},
				LoopCondition: boolConst(ids, true),
				LoopStep:      step,
				Result:        accuIdent(),
			}, nil
		},
	}
}

// celBindMacro implements cel.bind(v, e1, e2): a local binding via a
// single-iteration comprehension (spec.md §4.5).
func celBindMacro() Macro {
	return Macro{
		Name: CelBind, Function: "cel.bind", ReceiverStyle: false, ArgCounts: []int{3},
		Expand: func(ids idGen, _ ast.Expr, args []ast.Expr) (ast.Expr, error) {
			varIdent, ok := args[0].(*ast.Ident)
			if !ok {
				return nil, macroErr("cel.bind() requires an identifier as its first argument")
			}
			init, body := args[1], args[2]
			return &ast.Comprehension{
				Id:            ids.NextID(),
				IterVar:       "#unused",
				IterRange:     &ast.ListExpr{Id: ids.NextID(), Elements: []ast.Expr{boolConst(ids, false)}},
				AccuVar:       varIdent.Name,
				AccuInit:      init,
				LoopCondition: boolConst(ids, false),
				LoopStep:      &ast.Ident{Id: ids.NextID(), Name: varIdent.Name},
				Result:        body,
			}, nil
		},
	}
}

type macroError string

func (e macroError) Error() string { return string(e) }

func macroErr(format string, args ...interface{}) error {
	return macroError(fmt.Sprintf(format, args...))
}
