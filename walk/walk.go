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

// Package walk provides read-only access to the type metadata that drives
// the text codec.
//
// Descriptors come from the schema compilation step as
// [protoreflect.FileDescriptor] values. [FromFiles] walks them once and
// produces an immutable [Schema], whose [Message], [Field] and [Enum]
// values expose exactly what the codec needs: lookups by name and number,
// declaration order, labels, oneof membership and nesting.
//
// Nothing in this package mutates a Schema after construction, so every
// value may be shared freely between goroutines.
package walk

import (
	"cmp"
	"fmt"
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Descriptors walks every message, enum and extension declared in file,
// calling fn for each. Nested declarations are visited after their parent.
func Descriptors(file protoreflect.FileDescriptor, fn func(protoreflect.Descriptor) error) error {
	return DescriptorsEnterAndExit(file, fn, nil)
}

// DescriptorsEnterAndExit is like [Descriptors], but also calls exit (if
// non-nil) once a descriptor and all of its children have been visited.
func DescriptorsEnterAndExit(file protoreflect.FileDescriptor, enter, exit func(protoreflect.Descriptor) error) error {
	for i := range file.Messages().Len() {
		if err := messageDescriptor(file.Messages().Get(i), enter, exit); err != nil {
			return err
		}
	}
	for i := range file.Enums().Len() {
		if err := leaf(file.Enums().Get(i), enter, exit); err != nil {
			return err
		}
	}
	for i := range file.Extensions().Len() {
		if err := leaf(file.Extensions().Get(i), enter, exit); err != nil {
			return err
		}
	}
	return nil
}

func messageDescriptor(msg protoreflect.MessageDescriptor, enter, exit func(protoreflect.Descriptor) error) error {
	if err := enter(msg); err != nil {
		return err
	}
	for i := range msg.Messages().Len() {
		if err := messageDescriptor(msg.Messages().Get(i), enter, exit); err != nil {
			return err
		}
	}
	for i := range msg.Enums().Len() {
		if err := leaf(msg.Enums().Get(i), enter, exit); err != nil {
			return err
		}
	}
	for i := range msg.Extensions().Len() {
		if err := leaf(msg.Extensions().Get(i), enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		return exit(msg)
	}
	return nil
}

func leaf(d protoreflect.Descriptor, enter, exit func(protoreflect.Descriptor) error) error {
	if err := enter(d); err != nil {
		return err
	}
	if exit != nil {
		return exit(d)
	}
	return nil
}

// Option configures [FromFiles].
type Option func(*builder)

// WithoutRequired builds a schema that does not track required fields.
// Required fields are treated as optional and parse results report
// completeness as unsupported.
//
// This models descriptor metadata produced by tooling that does not record
// field presence.
func WithoutRequired() Option {
	return func(b *builder) { b.noRequired = true }
}

// Schema is an immutable, indexed view of a set of files.
type Schema struct {
	messages map[protoreflect.FullName]*Message
	enums    map[protoreflect.FullName]*Enum
}

// FromFiles builds a schema from the given files and everything they
// transitively import.
func FromFiles(files []protoreflect.FileDescriptor, opts ...Option) (*Schema, error) {
	b := &builder{
		schema: &Schema{
			messages: make(map[protoreflect.FullName]*Message),
			enums:    make(map[protoreflect.FullName]*Enum),
		},
		seen: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, file := range files {
		if err := b.file(file); err != nil {
			return nil, err
		}
	}
	if err := b.attachExtensions(); err != nil {
		return nil, err
	}
	return b.schema, nil
}

// FromMessage is a convenience for building a schema from the file that
// declares md and returning md's converted descriptor.
func FromMessage(md protoreflect.MessageDescriptor, opts ...Option) (*Message, error) {
	schema, err := FromFiles([]protoreflect.FileDescriptor{md.ParentFile()}, opts...)
	if err != nil {
		return nil, err
	}
	m := schema.Message(md.FullName())
	if m == nil {
		return nil, fmt.Errorf("walk: message %s not found in %s", md.FullName(), md.ParentFile().Path())
	}
	return m, nil
}

// Message looks up a message by its fully-qualified name. Returns nil if
// there is no such message.
func (s *Schema) Message(name protoreflect.FullName) *Message {
	return s.messages[name]
}

// Enum looks up an enum by its fully-qualified name. Returns nil if there
// is no such enum.
func (s *Schema) Enum(name protoreflect.FullName) *Enum {
	return s.enums[name]
}

// Messages returns every message in the schema, sorted by name.
func (s *Schema) Messages() []*Message {
	out := make([]*Message, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Message) int {
		return cmp.Compare(a.FullName(), b.FullName())
	})
	return out
}

// builder is the state of an on-going conversion.
type builder struct {
	schema     *Schema
	noRequired bool

	seen       map[string]bool
	extensions []protoreflect.FieldDescriptor
}

func (b *builder) file(file protoreflect.FileDescriptor) error {
	if b.seen[file.Path()] {
		return nil
	}
	b.seen[file.Path()] = true

	imports := file.Imports()
	for i := range imports.Len() {
		if imp := imports.Get(i); !imp.IsPlaceholder() {
			if err := b.file(imp.FileDescriptor); err != nil {
				return err
			}
		}
	}

	return Descriptors(file, func(d protoreflect.Descriptor) error {
		switch d := d.(type) {
		case protoreflect.MessageDescriptor:
			_, err := b.message(d)
			return err
		case protoreflect.EnumDescriptor:
			b.enum(d)
		case protoreflect.FieldDescriptor:
			b.extensions = append(b.extensions, d)
		}
		return nil
	})
}

// message converts md, memoizing by name so that recursive types resolve to
// the same *Message.
func (b *builder) message(md protoreflect.MessageDescriptor) (*Message, error) {
	if m, ok := b.schema.messages[md.FullName()]; ok {
		return m, nil
	}

	m := &Message{
		desc:           md,
		byName:         make(map[string]*Field),
		byNumber:       make(map[protoreflect.FieldNumber]*Field),
		extByName:      make(map[protoreflect.FullName]*Field),
		tracksRequired: !b.noRequired,
	}
	// Register before converting fields, so that recursion terminates.
	b.schema.messages[md.FullName()] = m

	oneofs := md.Oneofs()
	oneofIndex := make(map[int]int)
	for i := range oneofs.Len() {
		od := oneofs.Get(i)
		if od.IsSynthetic() {
			continue
		}
		oneofIndex[i] = len(m.oneofs)
		m.oneofs = append(m.oneofs, string(od.Name()))
	}

	fields := md.Fields()
	for i := range fields.Len() {
		fd := fields.Get(i)
		f, err := b.field(fd, m)
		if err != nil {
			return nil, err
		}
		f.index = len(m.fields)
		f.oneof = -1
		if od := fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
			f.oneof = oneofIndex[od.Index()]
		}

		m.fields = append(m.fields, f)
		m.byName[f.name] = f
		m.byNumber[f.number] = f
	}
	return m, nil
}

func (b *builder) field(fd protoreflect.FieldDescriptor, parent *Message) (*Field, error) {
	f := &Field{
		desc:   fd,
		parent: parent,
		name:   fd.TextName(),
		number: fd.Number(),
		kind:   kindOf(fd.Kind()),
		oneof:  -1,
	}
	if f.kind == InvalidKind {
		return nil, fmt.Errorf("walk: field %s has unsupported kind %v", fd.FullName(), fd.Kind())
	}

	switch {
	case fd.Cardinality() == protoreflect.Repeated:
		f.label = Repeated
	case fd.Cardinality() == protoreflect.Required && !b.noRequired:
		f.label = Required
	default:
		f.label = Optional
	}

	switch f.kind {
	case MessageKind:
		nested, err := b.message(fd.Message())
		if err != nil {
			return nil, err
		}
		f.message = nested
	case EnumKind:
		f.enum = b.enum(fd.Enum())
	}
	return f, nil
}

func (b *builder) enum(ed protoreflect.EnumDescriptor) *Enum {
	if e, ok := b.schema.enums[ed.FullName()]; ok {
		return e
	}

	e := &Enum{
		desc:     ed,
		byName:   make(map[string]*EnumValue),
		byNumber: make(map[protoreflect.EnumNumber]*EnumValue),
	}
	values := ed.Values()
	for i := range values.Len() {
		vd := values.Get(i)
		v := &EnumValue{name: string(vd.Name()), number: vd.Number()}
		e.values = append(e.values, v)
		e.byName[v.name] = v
		if _, ok := e.byNumber[v.number]; !ok {
			// Aliases resolve to the first declared name.
			e.byNumber[v.number] = v
		}
	}
	b.schema.enums[ed.FullName()] = e
	return e
}

// attachExtensions registers every extension seen while walking files with
// the message it extends.
func (b *builder) attachExtensions() error {
	touched := make(map[*Message]bool)
	for _, xd := range b.extensions {
		target, err := b.message(xd.ContainingMessage())
		if err != nil {
			return err
		}
		if _, ok := target.extByName[xd.FullName()]; ok {
			continue
		}

		f, err := b.field(xd, target)
		if err != nil {
			return err
		}
		f.name = string(xd.FullName())
		f.extension = true
		f.oneof = -1
		target.extensions = append(target.extensions, f)
		target.extByName[xd.FullName()] = f
		touched[target] = true
	}

	for m := range touched {
		slices.SortFunc(m.extensions, func(a, b *Field) int {
			return cmp.Compare(a.number, b.number)
		})
		for i, f := range m.extensions {
			f.index = len(m.fields) + i
		}
	}
	return nil
}
