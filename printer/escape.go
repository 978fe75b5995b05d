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

package printer

import (
	"strconv"
	"unicode/utf8"
)

// appendString appends in as a double-quoted literal.
//
// If text is set, printable UTF-8 is copied through and only control
// characters and invalid bytes are escaped. Otherwise every byte outside
// printable ASCII is escaped.
func appendString(out []byte, in []byte, text bool) []byte {
	out = append(out, '"')
	for len(in) > 0 {
		r, n := rune(in[0]), 1
		if text && r >= utf8.RuneSelf {
			r, n = utf8.DecodeRune(in)
		}

		switch {
		case r == utf8.RuneError && n == 1:
			out = appendOctal(out, in[0])
		case r == '\n':
			out = append(out, `\n`...)
		case r == '\r':
			out = append(out, `\r`...)
		case r == '\t':
			out = append(out, `\t`...)
		case r == '"' || r == '\'' || r == '\\':
			out = append(out, '\\', byte(r))
		case r < ' ' || r == 0x7f:
			out = appendOctal(out, in[0])
		case r >= utf8.RuneSelf && (!text || !strconv.IsPrint(r)):
			for _, b := range in[:n] {
				out = appendOctal(out, b)
			}
		default:
			out = append(out, in[:n]...)
		}
		in = in[n:]
	}
	return append(out, '"')
}

func appendOctal(out []byte, b byte) []byte {
	return append(out, '\\', '0'+b>>6, '0'+(b>>3)&7, '0'+b&7)
}
