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

package prototest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/walk"
)

// ToYAMLOptions contains configuration for [ToYAML].
type ToYAMLOptions struct {
	// The maximum column width before wrapping starts to occur.
	MaxWidth int
}

// ToYAML converts a message tree into a YAML document in a deterministic
// manner. This is intended for generating YAML for golden outputs; it shows
// the tree exactly as stored, independently of the printer.
//
// The result will use a compressed representation where possible.
func ToYAML(m *message.Message, opts ToYAMLOptions) string {
	y := &toYAML{
		ToYAMLOptions: opts,
	}

	d := y.message(m)
	if len(d.pairs) == 0 {
		return ""
	}

	d.prepare()
	y.write(d)
	return y.out.String()
}

// toYAML is state of an on-going YAML conversion.
type toYAML struct {
	ToYAMLOptions

	out     strings.Builder
	nesting int
}

// name is a field name, written without quotes.
type name string

// message converts a message tree into a [doc], which is used as an
// intermediate processing stage to help make formatting decisions
// (such as compressing nested messages).
func (y *toYAML) message(m *message.Message) *doc {
	d := new(doc)
	for f := range m.Fields() {
		key := name(f.TextName())
		if !f.IsRepeated() {
			v, _ := m.Get(f)
			d.push(key, y.value(v, f))
			continue
		}

		list := new(doc)
		for _, v := range m.List(f) {
			list.push(nil, y.value(v, f))
		}
		d.push(key, list)
	}
	return d
}

// value converts a value into something that can be placed into a [doc].
func (y *toYAML) value(v message.Value, f *walk.Field) any {
	switch v.Kind() {
	case walk.MessageKind:
		return y.message(v.Message())
	case walk.StringKind, walk.BytesKind:
		return string(v.Bytes())
	case walk.EnumKind:
		if v.EnumName() != "" {
			return name(v.EnumName())
		}
		if ev := f.Enum().ValueByNumber(v.EnumNumber()); ev != nil {
			return name(ev.Name())
		}
		return name(strconv.Itoa(int(v.EnumNumber())))
	default:
		return name(v.String())
	}
}

// write writes a value returned by [toYAML.value] into the internal output
// buffer.
func (y *toYAML) write(v any) {
	switch v := v.(type) {
	case name:
		y.out.WriteString(string(v))
	case string:
		fmt.Fprintf(&y.out, "%q", v)
	case *doc:
		if y.isOneLine(v) {
			y.writeOneLineDoc(v)
			return
		}

		for _, pair := range v.pairs {
			oneLine := y.isOneLine(pair[1])
			y.indent()

			if pair[0] == nil {
				y.out.WriteString("- ")
			} else {
				y.write(pair[0])
				if !oneLine {
					y.out.WriteString(":\n")
				} else {
					y.out.WriteString(": ")
				}
			}

			if !oneLine {
				y.nesting++
			}

			y.write(pair[1])
			if !oneLine {
				y.nesting--
			} else {
				y.out.WriteString("\n")
			}
		}
	}
}

func (y *toYAML) writeOneLineDoc(d *doc) {
	switch {
	case d.isArray:
		y.out.WriteString("[")
		for i, pair := range d.pairs {
			if i > 0 {
				y.out.WriteString(", ")
			}
			y.write(pair[1])
		}
		y.out.WriteString("]")

	case len(d.pairs) == 0:
		y.out.WriteString("{}")

	default:
		y.out.WriteString("{ ")
		for i, pair := range d.pairs {
			if i > 0 {
				y.out.WriteString(", ")
			}
			y.write(pair[0])
			y.out.WriteString(": ")
			y.write(pair[1])
		}
		y.out.WriteString(" }")
	}
}

func (y *toYAML) isOneLine(v any) bool {
	maxWidth := y.MaxWidth
	if maxWidth == 0 {
		maxWidth = 80
	}
	maxWidth -= y.nesting * 2

	doc, ok := v.(*doc)
	return !ok || doc.width < maxWidth
}

// indent appends indentation if necessary.
func (y *toYAML) indent() {
	s := y.out.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		for range y.nesting {
			y.out.WriteString("  ")
		}
	}
}

// doc is a generic document structure used as an intermediate for generating
// the compressed output of ToYAML.
//
// It is composed of an array of pairs of arbitrary values.
type doc struct {
	pairs [][2]any

	width   int
	isArray bool
}

// push adds a new entry to this document.
//
// All pushes entries must either have a non-nil key OR a nil key.
func (d *doc) push(k, v any) {
	if len(d.pairs) == 0 {
		d.isArray = k == nil
	} else if d.isArray != (k == nil) {
		panic("misuse of doc.push()")
	}

	d.pairs = append(d.pairs, [2]any{k, v})
}

// prepare computes the width of the document, for deciding what fits on
// one line.
func (d *doc) prepare() {
	if d.isArray || len(d.pairs) == 0 {
		d.width = 2 // Accounts for [] or an empty {}.
	} else {
		d.width = 4 // Accounts for the { ... } delimiters.
	}

	for i := range d.pairs {
		pair := &d.pairs[i]
		if pair[0] != nil {
			// The 2 accounts for the ": " token.
			d.width += len(fmt.Sprint(pair[0])) + 2
		}

		if i > 0 {
			d.width += 2 // Accounts for the ", "
		}

		switch v := pair[1].(type) {
		case name:
			d.width += len(v)
		case string:
			d.width += len(strconv.Quote(v))
		case *doc:
			v.prepare()
			d.width += v.width
		}
	}
}
