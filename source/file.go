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

// Package source tracks line structure of a text unit so that byte offsets
// can be turned into human-readable positions for diagnostics.
package source

import (
	"fmt"
	"sort"
)

// File contains information about the contents of a text unit. A lexer
// records line starts as it scans, which lets offsets be resolved to
// line/column pairs lazily.
type File struct {
	// The name of the source, e.g. a file path. May be empty.
	name string
	// The raw contents.
	data []byte
	// The offsets for each line. The value at index i is the zero-based
	// byte offset at which line i+1 begins, so lines[0] is always zero.
	lines []int
}

// NewFile creates a new instance for the given contents.
func NewFile(name string, contents []byte) *File {
	return &File{
		name:  name,
		data:  contents,
		lines: []int{0},
	}
}

// Name returns the name the file was created with.
func (f *File) Name() string {
	return f.name
}

// Data returns the raw contents.
func (f *File) Data() []byte {
	return f.data
}

// AddLine adds the offset representing the beginning of the "next" line.
// The first line always starts at offset 0, the second line starts at
// offset-of-newline-char+1.
func (f *File) AddLine(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("invalid offset: %d must not be negative", offset))
	}
	if offset > len(f.data) {
		panic(fmt.Sprintf("invalid offset: %d is greater than file size %d", offset, len(f.data)))
	}

	lastOffset := f.lines[len(f.lines)-1]
	if offset <= lastOffset {
		// The lexer may be restarted, in which case lines are re-added.
		// Offsets at or before the last known line are already recorded.
		return
	}

	f.lines = append(f.lines, offset)
}

// Pos resolves a byte offset into a position.
//
// Lines that have not been recorded with AddLine yet are discovered by
// scanning the contents, so Pos works for any offset regardless of how
// far a lexer has progressed.
func (f *File) Pos(offset int) Pos {
	if f == nil {
		return Pos{Offset: offset}
	}
	if offset > len(f.data) {
		offset = len(f.data)
	}
	f.scanTo(offset)

	lineNumber := sort.Search(len(f.lines), func(n int) bool {
		return f.lines[n] > offset
	})

	col := 0
	for i := f.lines[lineNumber-1]; i < offset; i++ {
		if f.data[i] == '\t' {
			nextTabStop := 8 - (col % 8)
			col += nextTabStop
		} else {
			col++
		}
	}

	return Pos{
		Filename: f.name,
		Offset:   offset,
		Line:     lineNumber,
		// Columns are 1-indexed.
		Col: col + 1,
	}
}

// Line returns the text of the given 1-indexed line, without its trailing
// newline. Returns the empty string if the line does not exist.
func (f *File) Line(line int) string {
	if f == nil || line < 1 {
		return ""
	}
	f.scanTo(len(f.data))
	if line > len(f.lines) {
		return ""
	}
	start := f.lines[line-1]
	end := len(f.data)
	if line < len(f.lines) {
		end = f.lines[line] - 1
	}
	if end > start && f.data[end-1] == '\r' {
		end--
	}
	return string(f.data[start:end])
}

// LineOffset returns the byte offset at which the given 1-indexed line
// starts, or -1 if the line does not exist.
func (f *File) LineOffset(line int) int {
	if f == nil || line < 1 {
		return -1
	}
	f.scanTo(len(f.data))
	if line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}

// scanTo records every line start at or before offset that has not been
// recorded yet.
func (f *File) scanTo(offset int) {
	last := f.lines[len(f.lines)-1]
	for i := last; i < offset && i < len(f.data); i++ {
		if f.data[i] == '\n' && i+1 > f.lines[len(f.lines)-1] {
			f.lines = append(f.lines, i+1)
		}
	}
}

// Pos is a position in a text unit.
type Pos struct {
	Filename  string
	Offset    int
	Line, Col int
}

// UnknownPos is a placeholder position when only the source name is known.
func UnknownPos(filename string) Pos {
	return Pos{Filename: filename}
}

// IsKnown returns whether this position carries line information.
func (p Pos) IsKnown() bool {
	return p.Line > 0
}

// String implements [fmt.Stringer].
func (p Pos) String() string {
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	if !p.IsKnown() {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Col)
}
