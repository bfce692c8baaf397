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

// Command cel inspects, type-checks and evaluates a CEL expression
// given as a wire-format Ast (spec.md §6's "Wire format for ASTs",
// cel/ast/marshal.go), since the concrete grammar this module's checker
// and interpreter consume is outside spec.md §1's scope: there is no
// source-text lexer to feed a `parse` subcommand, so every subcommand
// here takes the already-parsed tree instead. A host with a grammar of
// its own plugs it in as a cel.Parser and gets the same Env/Program API
// this binary exercises (cel/env.go, cel/program.go).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exprlang/cel/cmd/cel/internal/run"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cel",
		Short: "Inspect, check and evaluate a wire-format CEL Ast",
	}
	root.AddCommand(newAstCmd(), newCheckCmd(), newEvalCmd())
	return root
}

func newAstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file.json>",
		Short: "Pretty-print a wire-format Ast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := run.LoadWireAst(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), run.Debug(a.Expr()))
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.json>",
		Short: "Type-check a wire-format Ast against the standard environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := run.LoadWireAst(args[0])
			if err != nil {
				return err
			}
			_, res, err := run.Check(a)
			if err != nil {
				return err
			}
			if res.HasError() {
				fmt.Fprintln(cmd.OutOrStdout(), res.GetErrorString())
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func newEvalCmd() *cobra.Command {
	var rawVars []string
	c := &cobra.Command{
		Use:   "eval <file.json>",
		Short: "Check then evaluate a wire-format Ast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := run.LoadWireAst(args[0])
			if err != nil {
				return err
			}
			checked, res, err := run.Check(a)
			if err != nil {
				return err
			}
			if res.HasError() {
				fmt.Fprintln(cmd.OutOrStdout(), res.GetErrorString())
				os.Exit(1)
			}
			vars, err := run.ParseVars(rawVars)
			if err != nil {
				return err
			}
			result, err := run.Eval(context.Background(), checked, vars)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	c.Flags().StringArrayVarP(&rawVars, "var", "v", nil, "binding in name=value form; value is parsed as int, float, bool, or else string")
	return c
}
