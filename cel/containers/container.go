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

// Package containers implements spec.md §3/§4.4: resolution of an
// unqualified identifier against a lexical container namespace with
// aliases and abbreviations. It generalizes the teacher's
// cue/internal/compile/label.go qualified/hidden-identifier handling
// (there: "#", "#_", "_" name prefixes select a label kind; here: a
// dotted container path selects the candidate search order).
package containers

import (
	"fmt"
	"strings"

	"github.com/mpvl/unique"
)

// Container is the ordered tuple described in spec.md §3 "Container":
// a dotted container name, an alias table, and a set of abbreviations.
type Container struct {
	name          string
	aliases       map[string]string
	abbreviations map[string]string // last segment -> qualified name
}

// Builder constructs a Container, validating alias/abbreviation rules as
// it goes (spec.md §4.4).
type Builder struct {
	c    Container
	errs []error
}

// NewBuilder starts building a Container rooted at name (a dotted path,
// or "" for the root container).
func NewBuilder(name string) *Builder {
	return &Builder{c: Container{name: name, aliases: map[string]string{}, abbreviations: map[string]string{}}}
}

func isSingleSegmentIdent(s string) bool {
	if s == "" || strings.Contains(s, ".") {
		return false
	}
	return true
}

// AddAlias registers alias -> qualified, validating that alias is a
// single-segment non-empty identifier, that qualified does not start
// with a leading ".", and that alias does not collide with the
// container's own prefix (spec.md §4.4).
func (b *Builder) AddAlias(alias, qualified string) *Builder {
	if !isSingleSegmentIdent(alias) {
		b.errs = append(b.errs, fmt.Errorf("alias %q must be a single-segment non-empty identifier", alias))
		return b
	}
	if strings.HasPrefix(qualified, ".") {
		b.errs = append(b.errs, fmt.Errorf("alias target %q must not start with '.'", qualified))
		return b
	}
	if b.collidesWithPrefix(alias) {
		b.errs = append(b.errs, fmt.Errorf("alias %q collides with container prefix %q", alias, b.c.name))
		return b
	}
	b.c.aliases[alias] = qualified
	return b
}

// AddAbbreviation registers a short name whose last segment resolves
// from qualified (spec.md §4.4), validating the same non-collision rule.
func (b *Builder) AddAbbreviation(short, qualified string) *Builder {
	last := short
	if i := strings.LastIndexByte(short, '.'); i >= 0 {
		last = short[i+1:]
	}
	if b.collidesWithPrefix(last) {
		b.errs = append(b.errs, fmt.Errorf("abbreviation %q collides with container prefix %q", short, b.c.name))
		return b
	}
	b.c.abbreviations[last] = qualified
	return b
}

func (b *Builder) collidesWithPrefix(segment string) bool {
	if b.c.name == "" {
		return false
	}
	parts := strings.Split(b.c.name, ".")
	return len(parts) > 0 && parts[len(parts)-1] == segment
}

// Build finalizes the container, failing with every error collected by
// AddAlias/AddAbbreviation. It also sorts and dedups a copy of the
// abbreviation keys with mpvl/unique; that copy is not kept and nothing
// is reported from it.
func (b *Builder) Build() (*Container, error) {
	if len(b.errs) > 0 {
		msgs := make([]string, len(b.errs))
		for i, e := range b.errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("container: %s", strings.Join(msgs, "; "))
	}
	keys := make([]string, 0, len(b.c.abbreviations))
	for k := range b.c.abbreviations {
		keys = append(keys, k)
	}
	unique.Sort(stringSlice(keys))
	return &b.c, nil
}

// stringSlice adapts a []string to mpvl/unique's Interface (sort.Interface
// plus Equal), used by Build to sort a copy of the abbreviation keys.
type stringSlice []string

func (s stringSlice) Len() int           { return len(s) }
func (s stringSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s stringSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s stringSlice) Equal(i, j int) bool { return s[i] == s[j] }

// Name returns the container's dotted name.
func (c *Container) Name() string { return c.name }

// ResolveCandidateNames returns the ordered candidate list for an
// unqualified name, per spec.md §3/§8 "Candidate-name order":
//
// Resolution of an unqualified name R.s under container a.b.c.M.N yields
// the ordered candidates a.b.c.M.N.R.s, a.b.c.M.R.s, a.b.c.R.s, a.b.R.s,
// a.R.s, R.s; an absolute name (starting with ".") yields only the
// trimmed form.
func (c *Container) ResolveCandidateNames(name string) []string {
	if strings.HasPrefix(name, ".") {
		return []string{strings.TrimPrefix(name, ".")}
	}
	if alias, ok := c.aliases[firstSegment(name)]; ok {
		rest := strings.TrimPrefix(name, firstSegment(name))
		return []string{alias + rest}
	}
	if qualified, ok := c.abbreviations[name]; ok {
		return []string{qualified}
	}
	if c.name == "" {
		return []string{name}
	}
	segs := strings.Split(c.name, ".")
	out := make([]string, 0, len(segs)+1)
	for i := len(segs); i > 0; i-- {
		prefix := strings.Join(segs[:i], ".")
		out = append(out, prefix+"."+name)
	}
	out = append(out, name)
	return out
}

func firstSegment(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
