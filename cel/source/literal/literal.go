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

// Package literal scans CEL numeric, string and bytes literal tokens.
// Int and uint text is staged through apd.Decimal (as the teacher's
// cue/internal/compile/label.go stages int/float labels) and then
// narrowed to the fixed-width runtime types spec.md §4.6/§8 require,
// trapping overflow rather than growing precision; double text is
// parsed directly with strconv.ParseFloat.
package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v2"
)

// ParseInt parses a CEL integer literal (`123`) into an int64, failing if
// the decimal value does not fit - the numeric literal is never silently
// widened to arbitrary precision (spec.md §1 non-goals).
func ParseInt(lit string) (int64, error) {
	d, _, err := apd.NewFromString(lit)
	if err != nil {
		return 0, fmt.Errorf("invalid int literal %q: %w", lit, err)
	}
	i, err := d.Int64()
	if err != nil {
		return 0, fmt.Errorf("int literal %q overflows int64", lit)
	}
	return i, nil
}

// ParseUint parses a CEL unsigned literal (`123u`) into a uint64.
func ParseUint(lit string) (uint64, error) {
	lit = strings.TrimSuffix(strings.TrimSuffix(lit, "u"), "U")
	d, _, err := apd.NewFromString(lit)
	if err != nil {
		return 0, fmt.Errorf("invalid uint literal %q: %w", lit, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("uint literal %q cannot be negative", lit)
	}
	var coeff apd.BigInt
	coeff.Set(&d.Coeff)
	if d.Exponent != 0 {
		var c apd.Decimal
		c.Set(d)
		ctx := apd.BaseContext.WithPrecision(39)
		var zero apd.Decimal
		if _, err := ctx.Quantize(&c, &c, 0); err != nil {
			_ = zero
			return 0, fmt.Errorf("invalid uint literal %q: %w", lit, err)
		}
		coeff.Set(&c.Coeff)
	}
	if !coeff.IsUint64() {
		return 0, fmt.Errorf("uint literal %q overflows uint64", lit)
	}
	return coeff.Uint64(), nil
}

// ParseFloat parses a CEL double literal (`1.5`, `1e10`) into a float64.
func ParseFloat(lit string) (float64, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid double literal %q: %w", lit, err)
	}
	return f, nil
}

// Unquote decodes a CEL string literal's surface syntax (single/double/raw
// quoted, with the usual backslash escapes) into its value.
func Unquote(lit string) (string, error) {
	if len(lit) >= 2 && (lit[0] == 'r' || lit[0] == 'R') {
		inner := lit[1:]
		return strings.Trim(inner, "\"'"), nil
	}
	s, err := strconv.Unquote(normalizeQuotes(lit))
	if err != nil {
		return "", fmt.Errorf("invalid string literal %q: %w", lit, err)
	}
	return s, nil
}

// UnquoteBytes decodes a CEL bytes literal (`b"..."`) into its raw bytes.
func UnquoteBytes(lit string) ([]byte, error) {
	lit = strings.TrimPrefix(strings.TrimPrefix(lit, "b"), "B")
	s, err := Unquote(lit)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// normalizeQuotes rewrites CEL's single-quoted strings to the
// double-quoted form strconv.Unquote expects.
func normalizeQuotes(lit string) string {
	if len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'' {
		inner := lit[1 : len(lit)-1]
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		return `"` + inner + `"`
	}
	return lit
}
