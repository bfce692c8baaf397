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

// Package source implements spec.md §4.1: immutable source text with a
// code-point indexed line/column mapping, and the internal representation
// choice (Latin-1 / BMP / supplemental) that must stay invisible to
// callers.
package source

import (
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/exprlang/cel/cel/token"
)

// width classifies how wide the source text's code points are, so the
// internal storage can be as compact as possible without the caller ever
// observing anything but code points (spec.md §4.1).
type width int

const (
	latin1 width = iota
	basicMultilingual
	supplemental
)

// Source is an immutable, indexable view of one expression's source text.
type Source struct {
	name        string
	runes       []rune
	lineOffsets []int // lineOffsets[i] = rune offset where line i+1 (1-based) starts
	w           width
}

// New builds a Source from raw text, selecting the narrowest internal
// representation the content allows.
func New(name, text string) *Source {
	normalized := norm.NFC.String(text)
	runes := []rune(normalized)
	s := &Source{name: name, runes: runes, w: classify(runes)}
	s.indexLines()
	return s
}

func classify(runes []rune) width {
	w := latin1
	for _, r := range runes {
		if r > 0xFF {
			w = basicMultilingual
		}
		if utf16.IsSurrogate(r) || r > 0xFFFF {
			return supplemental
		}
	}
	return w
}

func (s *Source) indexLines() {
	offsets := []int{0}
	for i, r := range s.runes {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	s.lineOffsets = offsets
}

// Name returns the source's file/identifier name.
func (s *Source) Name() string { return s.name }

// Text returns the full source text.
func (s *Source) Text() string { return string(s.runes) }

// Len returns the number of code points in the source.
func (s *Source) Len() int { return len(s.runes) }

// Position resolves a 0-based code-point offset into a 1-based line and
// column, via binary search over the line table (spec.md §4.1).
func (s *Source) Position(offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.runes) {
		offset = len(s.runes)
	}
	// lineOffsets is sorted ascending; find the last offset <= target.
	i := sort.Search(len(s.lineOffsets), func(i int) bool {
		return s.lineOffsets[i] > offset
	})
	line := i // 1-based since lineOffsets[0] == 0 is line 1
	col := offset - s.lineOffsets[line-1] + 1
	return token.Position{Filename: s.name, Offset: offset, Line: line, Column: col}
}

// Offset is the inverse of Position: given a 1-based (line, column), it
// returns the corresponding 0-based code-point offset.
func (s *Source) Offset(line, column int) int {
	if line < 1 {
		line = 1
	}
	if line > len(s.lineOffsets) {
		line = len(s.lineOffsets)
	}
	return s.lineOffsets[line-1] + column - 1
}

// Line returns the text of the given 1-based line number, without its
// trailing newline. It satisfies the sourceLiner interface the errors
// package uses to render diagnostics.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lineOffsets) {
		return ""
	}
	start := s.lineOffsets[n-1]
	end := len(s.runes)
	if n < len(s.lineOffsets) {
		end = s.lineOffsets[n] - 1 // exclude the newline
	}
	if end < start {
		end = start
	}
	return string(s.runes[start:end])
}
