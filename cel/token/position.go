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

// Package token holds the position values shared by the source, ast,
// errors and checker packages.
package token

import "fmt"

// Pos is a compact source position: a byte offset into a single source
// text plus that text's identity. NoPos means "unknown position".
type Pos struct {
	file   string
	offset int
}

// NoPos is the zero Pos value; no source is associated with it.
var NoPos = Pos{}

// NewPos returns the position of the byte at offset off in the named file.
func NewPos(file string, off int) Pos {
	return Pos{file: file, offset: off}
}

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool { return p != NoPos }

// Offset returns the 0-based byte offset of p.
func (p Pos) Offset() int { return p.offset }

// Filename returns the name of the source file the position belongs to.
func (p Pos) Filename() string { return p.file }

// Position is the expanded, human-readable form of a Pos: 1-based line
// and column numbers, resolved by a Source's line table.
type Position struct {
	Filename string
	Offset   int // 0-based code-point offset
	Line     int // 1-based line number
	Column   int // 1-based column number (in code points)
}

// IsValid reports whether the position holds usable line information.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	s := p.Filename
	if s == "" {
		s = "-"
	}
	return fmt.Sprintf("%s:%d:%d", s, p.Line, p.Column)
}
