// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberLit is the classification of a numeric literal. The lexer only
// checks its shape; whether it fits a particular field is decided when it
// is converted.
type NumberLit struct {
	// Neg is set if the literal had a leading '-'.
	Neg bool
	// Float is set for literals with a fraction, an exponent or an f suffix,
	// and for inf and nan.
	Float bool
	// Base of an integer literal: 8, 10 or 16.
	Base int
	// Digits without sign, hex prefix or f suffix.
	Digits string
	// Special is "inf" or "nan" for those literals.
	Special string
}

func classifyNumber(raw string) (NumberLit, error) {
	var n NumberLit
	s := raw
	if strings.HasPrefix(s, "-") {
		n.Neg = true
		s = s[1:]
	}

	switch strings.ToLower(s) {
	case "inf", "infinity":
		n.Float, n.Special = true, "inf"
		return n, nil
	case "nan":
		n.Float, n.Special = true, "nan"
		return n, nil
	}

	if s == "" || (s[0] != '.' && (s[0] < '0' || s[0] > '9')) {
		return n, fmt.Errorf("invalid number: %s", raw)
	}

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n.Base, n.Digits = 16, s[2:]
		if n.Digits == "" || strings.IndexFunc(n.Digits, func(r rune) bool { return !isHexDigit(r) }) >= 0 {
			return n, fmt.Errorf("invalid syntax in hexadecimal integer value: %s", raw)
		}

	case strings.ContainsAny(s, ".eE") || strings.HasSuffix(s, "f") || strings.HasSuffix(s, "F"):
		n.Float = true
		n.Digits = strings.TrimRight(s, "fF")
		if len(s)-len(n.Digits) > 1 || strings.ContainsRune(n.Digits, '_') {
			return n, fmt.Errorf("invalid syntax in float value: %s", raw)
		}
		if _, err := strconv.ParseFloat(n.Digits, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return n, fmt.Errorf("invalid syntax in float value: %s", raw)
		}

	case len(s) > 1 && s[0] == '0':
		n.Base, n.Digits = 8, s
		if strings.IndexFunc(s, func(r rune) bool { return !isOctalDigit(r) }) >= 0 {
			return n, fmt.Errorf("invalid syntax in octal integer value: %s", raw)
		}

	default:
		n.Base, n.Digits = 10, s
		if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return n, fmt.Errorf("invalid number: %s", raw)
		}
	}
	return n, nil
}

// Uint returns the magnitude of an integer literal.
func (n NumberLit) Uint() (uint64, error) {
	if n.Float {
		return 0, fmt.Errorf("%s is not an integer", n)
	}
	u, err := strconv.ParseUint(n.Digits, n.Base, 64)
	if err != nil {
		return 0, numError(err, "integer", n.String())
	}
	return u, nil
}

// Float64 returns the value of any numeric literal as a float64.
func (n NumberLit) Float64() (float64, error) {
	return n.float(64)
}

// Float32 returns the value of any numeric literal rounded to float32.
// Finite literals that round to infinity are out of range.
func (n NumberLit) Float32() (float32, error) {
	f, err := n.float(32)
	return float32(f), err
}

func (n NumberLit) float(bitSize int) (float64, error) {
	var f float64
	switch {
	case n.Special == "inf":
		f = math.Inf(1)
	case n.Special == "nan":
		f = math.NaN()
	case n.Float || n.Base == 10:
		var err error
		f, err = strconv.ParseFloat(n.Digits, bitSize)
		if err != nil {
			return 0, numError(err, "float", n.String())
		}
	default:
		u, err := n.Uint()
		if err != nil {
			return 0, err
		}
		if bitSize == 32 {
			f = float64(float32(u))
		} else {
			f = float64(u)
		}
	}
	if n.Neg {
		f = -f
	}
	return f, nil
}

// String returns the literal in normalized form.
func (n NumberLit) String() string {
	var b strings.Builder
	if n.Neg {
		b.WriteByte('-')
	}
	switch {
	case n.Special != "":
		b.WriteString(n.Special)
	case n.Base == 16:
		b.WriteString("0x")
		b.WriteString(n.Digits)
	default:
		b.WriteString(n.Digits)
	}
	return b.String()
}

func numError(err error, kind, s string) error {
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		return err
	}
	if errors.Is(ne.Err, strconv.ErrRange) {
		return fmt.Errorf("value out of range for %s: %s", kind, s)
	}
	return fmt.Errorf("invalid syntax in %s value: %s", kind, s)
}
