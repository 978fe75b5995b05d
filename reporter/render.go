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

package reporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bufbuild/textpb/internal/width"
	"github.com/bufbuild/textpb/source"
)

// Render formats err for a terminal. Positioned errors get the offending
// line of file and a caret under the position:
//
//	in.txtpb:2:9: invalid value for uint32 field rotors: string "four"
//	 2 | rotors: "four"
//	   |         ^
//
// file may be nil, in which case only the error text is rendered.
func Render(file *source.File, err error) string {
	var ewp ErrorWithPos
	if !errors.As(err, &ewp) || file == nil {
		return err.Error() + "\n"
	}
	pos := ewp.GetPosition()
	start := file.LineOffset(pos.Line)
	if start < 0 || pos.Offset < start {
		return err.Error() + "\n"
	}

	line := file.Line(pos.Line)
	prefix := line[:min(pos.Offset-start, len(line))]

	var out strings.Builder
	fmt.Fprintln(&out, err.Error())

	gutter := strconv.Itoa(pos.Line)
	margin := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&out, " %s | ", gutter)
	text := width.Width{EscapeNonPrint: true, Out: &out}
	_, _ = text.WriteString(line)
	out.WriteByte('\n')

	caret := width.Width{EscapeNonPrint: true}
	_, _ = caret.WriteString(prefix)
	fmt.Fprintf(&out, " %s | %s^\n", margin, strings.Repeat(" ", caret.Column))
	return out.String()
}
