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
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
	"github.com/bufbuild/textpb/walk"
)

// DefaultMaxDepth is the nesting limit used when [Options.MaxDepth] is zero.
const DefaultMaxDepth = 100

// Options configures [Parse].
type Options struct {
	// MaxDepth bounds how deeply messages may nest. The top-level message
	// is at depth zero. Zero means [DefaultMaxDepth].
	MaxDepth int
	// Reporter, if set, is notified of the error that aborts a parse.
	Reporter reporter.ErrorReporter
}

// Parse parses data, named filename for diagnostics, as a message of type md.
// Every node and string is allocated from a; a nil allocator means
// [alloc.Heap].
//
// On success the returned message is owned by the caller, who releases it
// with [message.Free] through the same allocator, and the result reports
// the tree's completeness. On failure the message is nil, the result
// carries the first error, and everything allocated has been freed.
func Parse(filename string, data []byte, md *walk.Message, a alloc.Allocator, opts Options) (*message.Message, reporter.Result) {
	file := source.NewFile(filename, data)
	p := &parser{
		lex:      NewLexer(file),
		file:     file,
		a:        alloc.Or(a),
		handler:  reporter.NewHandler(opts.Reporter),
		maxDepth: opts.MaxDepth,
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}

	root, err := p.parse(md)
	if err != nil {
		return nil, p.handler.Result()
	}
	return root, reporter.Success(Completeness(root))
}

type parser struct {
	lex     *Lexer
	file    *source.File
	a       alloc.Allocator
	handler *reporter.Handler

	maxDepth int
	// The current token, which has not been consumed yet.
	tok Token
}

func (p *parser) parse(md *walk.Message) (*message.Message, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := message.New(p.a, md)
	if err != nil {
		return nil, p.allocFailed(0, err)
	}
	if err := p.messageBody(root, 0, ""); err != nil {
		message.Free(p.a, root)
		return nil, err
	}
	return root, nil
}

// messageBody parses fields into m until closer, or until the end of input
// if closer is empty. The closer is consumed.
func (p *parser) messageBody(m *message.Message, depth int, closer string) error {
	for {
		switch {
		case p.tok.Kind == EOF && closer == "":
			return nil
		case p.tok.Kind == EOF:
			return p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected %q to end message %s, found end of input", closer, m.Descriptor().FullName())
		case closer != "" && p.tok.Is(closer):
			return p.advance()
		}

		if err := p.field(m, depth); err != nil {
			return err
		}
		if p.tok.Is(";") || p.tok.Is(",") {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) field(m *message.Message, depth int) error {
	at := p.tok.Offset
	f, err := p.fieldName(m)
	if err != nil {
		return err
	}

	if !f.IsRepeated() {
		if m.Has(f) {
			return p.errorf(at, reporter.DuplicateField,
				"non-repeated field %s is set more than once", f.TextName())
		}
		if other := m.WhichOneof(f.Oneof()); other != nil {
			return p.errorf(at, reporter.DuplicateOneofSet,
				"field %s cannot be set: %s of oneof %s is already set",
				f.TextName(), other.TextName(), m.Descriptor().Oneofs()[f.Oneof()])
		}
	}

	hasColon := p.tok.Is(":")
	if hasColon {
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.tok.Is("[") {
		if f.Kind() != walk.MessageKind && !hasColon {
			return p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected ':' after field name %s", f.TextName())
		}
		return p.list(m, f, at, depth)
	}

	var v message.Value
	if f.Kind() == walk.MessageKind {
		v, err = p.messageValue(f, depth)
	} else {
		if !hasColon {
			return p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected ':' after field name %s, found %s", f.TextName(), p.tok.describe())
		}
		v, err = p.scalar(f)
	}
	if err != nil {
		return err
	}
	return p.store(m, f, at, v)
}

// fieldName parses a field name and resolves it against m's type.
func (p *parser) fieldName(m *message.Message) (*walk.Field, error) {
	md := m.Descriptor()
	tok := p.tok

	switch {
	case tok.Kind == Ident:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f := md.FieldByName(tok.Raw)
		if f == nil {
			return nil, p.errorf(tok.Offset, reporter.UnknownField,
				"unknown field %q in message %s", tok.Raw, md.FullName())
		}
		return f, nil

	case tok.Is("["):
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		f := md.ExtensionByName(protoreflect.FullName(name))
		if f == nil {
			return nil, p.errorf(tok.Offset, reporter.UnknownField,
				"unknown extension [%s] of message %s", name, md.FullName())
		}
		return f, nil

	default:
		return nil, p.errorf(tok.Offset, reporter.SyntaxError,
			"expected field name, found %s", tok.describe())
	}
}

// qualifiedName parses "[a.b.c]" and returns "a.b.c".
func (p *parser) qualifiedName() (string, error) {
	if err := p.advance(); err != nil {
		return "", err
	}
	if p.tok.Is(".") {
		if err := p.advance(); err != nil {
			return "", err
		}
	}

	var name strings.Builder
	for {
		if p.tok.Kind != Ident {
			return "", p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected identifier in extension name, found %s", p.tok.describe())
		}
		name.WriteString(p.tok.Raw)
		if err := p.advance(); err != nil {
			return "", err
		}

		switch {
		case p.tok.Is("."):
			name.WriteByte('.')
			if err := p.advance(); err != nil {
				return "", err
			}
		case p.tok.Is("]"):
			return name.String(), p.advance()
		case p.tok.Is("/"):
			return "", p.errorf(p.tok.Offset, reporter.SyntaxError,
				"type URLs are not supported in field names")
		default:
			return "", p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected '.' or ']' in extension name, found %s", p.tok.describe())
		}
	}
}

// list parses the "[v1, v2, ...]" form of a repeated field.
func (p *parser) list(m *message.Message, f *walk.Field, at int, depth int) error {
	if !f.IsRepeated() {
		return p.errorf(p.tok.Offset, reporter.TypeMismatch,
			"non-repeated field %s cannot be given a list", f.TextName())
	}
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Is("]") {
		return p.advance()
	}

	for {
		var v message.Value
		var err error
		if f.Kind() == walk.MessageKind {
			v, err = p.messageValue(f, depth)
		} else {
			v, err = p.scalar(f)
		}
		if err != nil {
			return err
		}
		if err := p.store(m, f, at, v); err != nil {
			return err
		}

		switch {
		case p.tok.Is("]"):
			return p.advance()
		case p.tok.Is(","):
			if err := p.advance(); err != nil {
				return err
			}
		default:
			return p.errorf(p.tok.Offset, reporter.SyntaxError,
				"expected ',' or ']' in list, found %s", p.tok.describe())
		}
	}
}

// messageValue parses "{...}" or "<...>" into a new message of f's type.
func (p *parser) messageValue(f *walk.Field, depth int) (message.Value, error) {
	open := p.tok
	var closer string
	switch {
	case open.Is("{"):
		closer = "}"
	case open.Is("<"):
		closer = ">"
	default:
		return message.Value{}, p.errorf(open.Offset, reporter.SyntaxError,
			"expected '{' or '<' to start message field %s, found %s", f.TextName(), open.describe())
	}
	if depth+1 > p.maxDepth {
		return message.Value{}, p.errorf(open.Offset, reporter.DepthExceeded,
			"message nesting exceeds the maximum depth of %d", p.maxDepth)
	}

	nested, err := message.New(p.a, f.Message())
	if err != nil {
		return message.Value{}, p.allocFailed(open.Offset, err)
	}
	if err := p.advance(); err != nil {
		message.Free(p.a, nested)
		return message.Value{}, err
	}
	if err := p.messageBody(nested, depth+1, closer); err != nil {
		message.Free(p.a, nested)
		return message.Value{}, err
	}
	return message.Of(nested), nil
}

// store adds v to f, taking ownership of it.
func (p *parser) store(m *message.Message, f *walk.Field, at int, v message.Value) error {
	var err error
	if f.IsRepeated() {
		err = m.Append(f, v)
	} else {
		err = m.Set(f, v)
	}
	if err == nil {
		return nil
	}

	message.FreeValue(p.a, v)
	switch {
	case errors.Is(err, message.ErrOneofConflict):
		return p.errorf(at, reporter.DuplicateOneofSet, "%v", err)
	case errors.Is(err, message.ErrAlreadySet):
		return p.errorf(at, reporter.DuplicateField, "%v", err)
	default:
		return p.errorf(at, reporter.InternalError, "%v", err)
	}
}

// scalar parses the value of a non-message field.
func (p *parser) scalar(f *walk.Field) (message.Value, error) {
	tok := p.tok
	switch f.Kind() {
	case walk.StringKind, walk.BytesKind:
		return p.str(f)
	case walk.BoolKind:
		return p.boolean(f)
	case walk.EnumKind:
		return p.enum(f)
	}

	var v message.Value
	var err error
	switch f.Kind() {
	case walk.FloatKind, walk.DoubleKind:
		v, err = p.float(f)
	case walk.Int32Kind, walk.Int64Kind, walk.Uint32Kind, walk.Uint64Kind:
		v, err = p.integer(f)
	default:
		return message.Value{}, p.errorf(tok.Offset, reporter.InternalError,
			"field %s has unexpected kind %v", f.TextName(), f.Kind())
	}
	if err != nil {
		return message.Value{}, err
	}
	return v, p.advance()
}

func (p *parser) integer(f *walk.Field) (message.Value, error) {
	tok := p.tok
	if tok.Kind != Number {
		return message.Value{}, p.mismatch(f)
	}

	var v message.Value
	var err error
	switch f.Kind() {
	case walk.Int32Kind:
		var i int32
		i, err = toSigned[int32](tok.Num)
		v = message.Int32(i)
	case walk.Int64Kind:
		var i int64
		i, err = toSigned[int64](tok.Num)
		v = message.Int64(i)
	case walk.Uint32Kind:
		var u uint32
		u, err = toUnsigned[uint32](tok.Num)
		v = message.Uint32(u)
	case walk.Uint64Kind:
		var u uint64
		u, err = toUnsigned[uint64](tok.Num)
		v = message.Uint64(u)
	}
	if err != nil {
		return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
			"invalid value for %v field %s: %v", f.Kind(), f.TextName(), err)
	}
	return v, nil
}

func (p *parser) float(f *walk.Field) (message.Value, error) {
	tok := p.tok
	var n NumberLit
	switch tok.Kind {
	case Number:
		n = tok.Num
	case Ident:
		var err error
		if n, err = classifyNumber(tok.Raw); err != nil || n.Special == "" {
			return message.Value{}, p.mismatch(f)
		}
	default:
		return message.Value{}, p.mismatch(f)
	}

	if f.Kind() == walk.FloatKind {
		s, err := n.Float32()
		if err != nil {
			return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
				"invalid value for float field %s: %v", f.TextName(), err)
		}
		return message.Float(s), nil
	}
	d, err := n.Float64()
	if err != nil {
		return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
			"invalid value for %v field %s: %v", f.Kind(), f.TextName(), err)
	}
	return message.Double(d), nil
}

func (p *parser) boolean(f *walk.Field) (message.Value, error) {
	tok := p.tok
	var b bool
	switch {
	case tok.Kind == Ident && (tok.Raw == "true" || tok.Raw == "True" || tok.Raw == "t"):
		b = true
	case tok.Kind == Ident && (tok.Raw == "false" || tok.Raw == "False" || tok.Raw == "f"):
		b = false
	case tok.Kind == Number && !tok.Num.Neg && !tok.Num.Float && tok.Num.Base == 10 &&
		(tok.Num.Digits == "0" || tok.Num.Digits == "1"):
		b = tok.Num.Digits == "1"
	default:
		return message.Value{}, p.mismatch(f)
	}
	return message.Bool(b), p.advance()
}

func (p *parser) enum(f *walk.Field) (message.Value, error) {
	tok := p.tok
	switch tok.Kind {
	case Ident:
		ev := f.Enum().ValueByName(tok.Raw)
		if ev == nil {
			return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
				"unknown value %q for enum %s of field %s", tok.Raw, f.Enum().FullName(), f.TextName())
		}
		return message.Enum(ev.Name(), ev.Number()), p.advance()

	case Number:
		n, err := toSigned[int32](tok.Num)
		if err != nil {
			return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
				"invalid value for enum field %s: %v", f.TextName(), err)
		}
		return message.Enum("", protoreflect.EnumNumber(n)), p.advance()

	default:
		return message.Value{}, p.mismatch(f)
	}
}

// str parses one or more adjacent string literals, concatenating them.
func (p *parser) str(f *walk.Field) (message.Value, error) {
	tok := p.tok
	if tok.Kind != String {
		return message.Value{}, p.mismatch(f)
	}

	text := tok.Value
	if err := p.advance(); err != nil {
		return message.Value{}, err
	}
	if p.tok.Kind == String {
		var buf strings.Builder
		buf.WriteString(text)
		for p.tok.Kind == String {
			buf.WriteString(p.tok.Value)
			if err := p.advance(); err != nil {
				return message.Value{}, err
			}
		}
		text = buf.String()
	}

	if f.Kind() == walk.StringKind && !utf8.ValidString(text) {
		return message.Value{}, p.errorf(tok.Offset, reporter.TypeMismatch,
			"invalid value for string field %s: invalid UTF-8", f.TextName())
	}

	var v message.Value
	var err error
	if f.Kind() == walk.StringKind {
		v, err = message.NewString(p.a, text)
	} else {
		v, err = message.NewBytes(p.a, []byte(text))
	}
	if err != nil {
		return message.Value{}, p.allocFailed(tok.Offset, err)
	}
	return v, nil
}

// advance consumes the current token.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return p.handler.HandleError(err)
	}
	p.tok = tok
	return nil
}

func (p *parser) mismatch(f *walk.Field) error {
	return p.errorf(p.tok.Offset, reporter.TypeMismatch,
		"invalid value for %v field %s: %s", f.Kind(), f.TextName(), p.tok.describe())
}

func (p *parser) allocFailed(offset int, err error) error {
	return p.handler.HandleError(reporter.Error(p.file.Pos(offset), reporter.AllocationFailure,
		fmt.Errorf("cannot allocate: %w", err)))
}

func (p *parser) errorf(offset int, code reporter.Code, format string, args ...any) error {
	return p.handler.HandleErrorf(p.file.Pos(offset), code, format, args...)
}
