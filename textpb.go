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

package textpb

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/parser"
	"github.com/bufbuild/textpb/printer"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
	"github.com/bufbuild/textpb/walk"
)

// Options configures the operations of this package. The zero value is
// ready to use.
type Options struct {
	// Filename names the input in diagnostics. If empty, positions are
	// reported against "<input>".
	Filename string
	// MaxDepth bounds message nesting while parsing. Zero means
	// [parser.DefaultMaxDepth].
	MaxDepth int
	// Reporter, if set, is notified of the error that aborts a parse.
	Reporter reporter.ErrorReporter

	// Indent is the indentation unit for rendering. Defaults to two spaces.
	Indent string
	// Compact renders everything on a single line.
	Compact bool
}

// FromString parses text as a message of type md using default options.
func FromString(md *walk.Message, text string, a alloc.Allocator) (*message.Message, reporter.Result) {
	return Options{}.FromString(md, text, a)
}

// FromFile reads r to the end and parses the contents as a message of
// type md using default options.
func FromFile(md *walk.Message, r io.Reader, a alloc.Allocator) (*message.Message, reporter.Result) {
	return Options{}.FromFile(md, r, a)
}

// ToString renders m using default options.
func ToString(m *message.Message, a alloc.Allocator) (string, reporter.Result) {
	return Options{}.ToString(m, a)
}

// FromString parses text as a message of type md. The tree is allocated
// from a; a nil allocator means [alloc.Heap].
//
// On failure the returned message is nil and nothing allocated from a is
// outstanding.
func (o Options) FromString(md *walk.Message, text string, a alloc.Allocator) (*message.Message, reporter.Result) {
	if md == nil {
		return nil, reporter.Failure(fmt.Errorf("%w: nil message descriptor", reporter.ErrInternal))
	}
	data := unsafe.Slice(unsafe.StringData(text), len(text))
	return parser.Parse(o.Filename, data, md, a, o.parserOptions())
}

// FromFile reads r to the end and parses the contents as a message of
// type md. Closing r is the caller's responsibility.
//
// A read error fails with [reporter.IOError].
func (o Options) FromFile(md *walk.Message, r io.Reader, a alloc.Allocator) (*message.Message, reporter.Result) {
	data, err := io.ReadAll(r)
	if err != nil {
		pos := source.Pos{Filename: o.Filename}
		return nil, reporter.Failure(reporter.Error(pos, reporter.IOError, fmt.Errorf("cannot read input: %w", err)))
	}
	if md == nil {
		return nil, reporter.Failure(fmt.Errorf("%w: nil message descriptor", reporter.ErrInternal))
	}
	return parser.Parse(o.Filename, data, md, a, o.parserOptions())
}

// ToString renders m, allocating the text from a; a nil allocator means
// [alloc.Heap]. The text should be released with [FreeString].
//
// On success the result reports m's completeness, so that callers can
// tell whether the text would parse into a complete message.
func (o Options) ToString(m *message.Message, a alloc.Allocator) (string, reporter.Result) {
	out, err := printer.Print(m, a, printer.Options{Indent: o.Indent, Compact: o.Compact})
	if err != nil {
		return "", reporter.Failure(err)
	}
	var s string
	if len(out) > 0 {
		s = unsafe.String(&out[0], len(out))
	}
	return s, reporter.Success(parser.Completeness(m))
}

// FreeString releases text returned by [ToString] through the allocator
// that produced it.
func FreeString(a alloc.Allocator, s string) {
	if s == "" {
		return
	}
	alloc.Or(a).Free(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{MaxDepth: o.MaxDepth, Reporter: o.Reporter}
}
