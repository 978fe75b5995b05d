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

// Package printer renders message trees in the text format.
//
// Output is deterministic: fields appear in declaration order followed by
// extensions in field number order, regardless of the order in which they
// were set.
package printer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/walk"
)

// Options controls the layout of printed text.
type Options struct {
	// Indent is the string used for each level of indentation.
	// Defaults to two spaces if empty.
	Indent string

	// Compact, when true, prints everything on a single line with fields
	// separated by spaces.
	Compact bool
}

// withDefaults returns a copy of opts with default values applied.
func (opts Options) withDefaults() Options {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return opts
}

// Print renders m. The returned bytes are obtained from a (a nil allocator
// means [alloc.Heap]) and belong to the caller.
//
// Errors wrap [reporter.ErrAllocation] if a fails, or
// [reporter.ErrInternal] if m holds a value that disagrees with its
// field's descriptor.
func Print(m *message.Message, a alloc.Allocator, opts Options) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", reporter.ErrInternal)
	}
	p := &printer{options: opts.withDefaults()}
	if err := p.message(m); err != nil {
		return nil, err
	}

	out, err := alloc.Clone(alloc.Or(a), p.out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", reporter.ErrAllocation, err)
	}
	return out, nil
}

// printer is the state of an on-going Print call.
type printer struct {
	options Options
	out     []byte
	depth   int
}

func (p *printer) message(m *message.Message) error {
	for f := range m.Fields() {
		if !f.IsRepeated() {
			v, _ := m.Get(f)
			if err := p.field(f, v); err != nil {
				return err
			}
			continue
		}
		for _, v := range m.List(f) {
			if err := p.field(f, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// field prints one name/value pair.
func (p *printer) field(f *walk.Field, v message.Value) error {
	if v.Kind() != f.Kind() {
		return fmt.Errorf("%w: %v value stored in %v field %s", reporter.ErrInternal, v.Kind(), f.Kind(), f.TextName())
	}

	p.startField()
	p.out = append(p.out, f.TextName()...)

	if f.Kind() != walk.MessageKind {
		p.out = append(p.out, ": "...)
		p.scalar(f, v)
		p.endField()
		return nil
	}

	nested := v.Message()
	if nested == nil {
		return fmt.Errorf("%w: nil message stored in field %s", reporter.ErrInternal, f.TextName())
	}
	if nested.Descriptor() != f.Message() {
		return fmt.Errorf("%w: %s stored in field %s of type %s",
			reporter.ErrInternal, nested.Descriptor().FullName(), f.TextName(), f.Message().FullName())
	}
	if nested.Len() == 0 {
		p.out = append(p.out, " {}"...)
		p.endField()
		return nil
	}

	p.out = append(p.out, " {"...)
	p.endField()
	p.depth++
	if err := p.message(nested); err != nil {
		return err
	}
	p.depth--
	p.startField()
	p.out = append(p.out, '}')
	p.endField()
	return nil
}

// startField emits whatever separates the previous field from the next.
func (p *printer) startField() {
	if p.options.Compact {
		if len(p.out) > 0 {
			p.out = append(p.out, ' ')
		}
		return
	}
	for range p.depth {
		p.out = append(p.out, p.options.Indent...)
	}
}

func (p *printer) endField() {
	if !p.options.Compact {
		p.out = append(p.out, '\n')
	}
}

func (p *printer) scalar(f *walk.Field, v message.Value) {
	switch v.Kind() {
	case walk.BoolKind:
		p.out = strconv.AppendBool(p.out, v.Bool())
	case walk.Int32Kind, walk.Int64Kind:
		p.out = strconv.AppendInt(p.out, v.Int(), 10)
	case walk.Uint32Kind, walk.Uint64Kind:
		p.out = strconv.AppendUint(p.out, v.Uint(), 10)
	case walk.FloatKind:
		p.out = appendFloat(p.out, v.Float(), 32)
	case walk.DoubleKind:
		p.out = appendFloat(p.out, v.Float(), 64)
	case walk.StringKind:
		p.out = appendString(p.out, v.Bytes(), true)
	case walk.BytesKind:
		p.out = appendString(p.out, v.Bytes(), false)
	case walk.EnumKind:
		name := v.EnumName()
		if name == "" {
			if ev := f.Enum().ValueByNumber(v.EnumNumber()); ev != nil {
				name = ev.Name()
			}
		}
		if name != "" {
			p.out = append(p.out, name...)
		} else {
			p.out = strconv.AppendInt(p.out, int64(v.EnumNumber()), 10)
		}
	}
}

// appendFloat writes the shortest representation of n that reads back as
// the same value at the given precision.
func appendFloat(out []byte, n float64, bitSize int) []byte {
	switch {
	case math.IsNaN(n):
		return append(out, "nan"...)
	case math.IsInf(n, +1):
		return append(out, "inf"...)
	case math.IsInf(n, -1):
		return append(out, "-inf"...)
	}

	return strconv.AppendFloat(out, n, 'g', -1, bitSize)
}
