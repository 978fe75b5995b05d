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

// Package width measures how many terminal cells a string occupies, for
// lining up carets under diagnostic snippets.
package width

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Tabstop is the size tabs are rendered as when none is given. This matches
// the column computation of the source package.
const Tabstop = 8

// NonPrint reports whether r is replaced with <U+NNNN> when printing a
// diagnostic snippet.
func NonPrint(r rune) bool {
	return !strings.ContainsRune(" \r\t\n", r) && !unicode.IsPrint(r)
}

// Width calculates the approximate width of a string in terminal columns.
type Width struct {
	// The column at which the text is being rendered.
	Column int

	// The width of a tabstop in columns. Zero means [Tabstop].
	Tabstop int

	// If set, non-printable characters are escaped in the format <U+NNNN>,
	// and invalid UTF-8 bytes as <NN>.
	EscapeNonPrint bool

	// If non-nil, text is written here with tabs expanded to spaces.
	Out io.StringWriter
}

// Of returns the width of s rendered from column zero.
func Of(s string) int {
	w := Width{EscapeNonPrint: true}
	_, _ = w.WriteString(s)
	return w.Column
}

// WriteString writes the given text, advancing w.Column and writing to w.Out.
func (w *Width) WriteString(text string) (int, error) {
	n := 0
	write := func(s string) error {
		if w.Out != nil {
			m, err := w.Out.WriteString(s)
			n += m
			return err
		}
		return nil
	}

	tabstop := w.Tabstop
	if tabstop <= 0 {
		tabstop = Tabstop
	}

	for i, next := range strings.Split(text, "\t") {
		if i > 0 {
			tab := tabstop - (w.Column % tabstop)
			w.Column += tab
			if err := write(strings.Repeat(" ", tab)); err != nil {
				return n, err
			}
		}

		if !w.EscapeNonPrint {
			w.Column += uniseg.StringWidth(next)
			if err := write(next); err != nil {
				return n, err
			}
			continue
		}

		for next != "" {
			cut := strings.IndexFunc(next, func(r rune) bool {
				return r == utf8.RuneError || NonPrint(r)
			})
			if cut == -1 {
				w.Column += uniseg.StringWidth(next)
				if err := write(next); err != nil {
					return n, err
				}
				break
			}

			var chunk string
			chunk, next = next[:cut], next[cut:]

			var escape string
			r, size := utf8.DecodeRuneInString(next)
			if r == utf8.RuneError && size <= 1 {
				escape = fmt.Sprintf("<%02X>", next[0])
				next = next[1:]
			} else {
				escape = fmt.Sprintf("<U+%04X>", r)
				next = next[size:]
			}

			w.Column += uniseg.StringWidth(chunk) + len(escape)
			if err := write(chunk); err != nil {
				return n, err
			}
			if err := write(escape); err != nil {
				return n, err
			}
		}
	}

	return n, nil
}
