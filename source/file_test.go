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


package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilePos(t *testing.T) {
	t.Parallel()

	file := NewFile("in.txtpb", []byte("a: 1\n\tb: 2\r\n\nc"))
	assert.Equal(t, Pos{Filename: "in.txtpb", Offset: 0, Line: 1, Col: 1}, file.Pos(0))
	assert.Equal(t, Pos{Filename: "in.txtpb", Offset: 3, Line: 1, Col: 4}, file.Pos(3))
	assert.Equal(t, Pos{Filename: "in.txtpb", Offset: 6, Line: 2, Col: 9}, file.Pos(6))
	assert.Equal(t, Pos{Filename: "in.txtpb", Offset: 13, Line: 4, Col: 1}, file.Pos(13))
	// Offsets past the end clamp to the end.
	assert.Equal(t, Pos{Filename: "in.txtpb", Offset: 14, Line: 4, Col: 2}, file.Pos(100))

	// Line starts recorded out of order are ignored.
	file.AddLine(5)
	assert.Equal(t, 2, file.Pos(5).Line)
	assert.Panics(t, func() { file.AddLine(-1) })
	assert.Panics(t, func() { file.AddLine(15) })
}

func TestFileLine(t *testing.T) {
	t.Parallel()

	file := NewFile("", []byte("a: 1\n\tb: 2\r\n\nc"))
	assert.Equal(t, "a: 1", file.Line(1))
	assert.Equal(t, "\tb: 2", file.Line(2))
	assert.Equal(t, "", file.Line(3))
	assert.Equal(t, "c", file.Line(4))
	assert.Equal(t, "", file.Line(5))
	assert.Equal(t, "", file.Line(0))

	assert.Equal(t, 5, file.LineOffset(2))
	assert.Equal(t, 13, file.LineOffset(4))
	assert.Equal(t, -1, file.LineOffset(5))

	var nilFile *File
	assert.Equal(t, Pos{Offset: 3}, nilFile.Pos(3))
	assert.Equal(t, -1, nilFile.LineOffset(1))
}

func TestPosString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<input>:2:3", Pos{Line: 2, Col: 3}.String())
	assert.Equal(t, "x.txtpb:1:1", Pos{Filename: "x.txtpb", Line: 1, Col: 1}.String())
	assert.Equal(t, "x.txtpb", UnknownPos("x.txtpb").String())
	assert.False(t, UnknownPos("x.txtpb").IsKnown())
}
