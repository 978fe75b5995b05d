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

// Package message provides a generic message instance: a tree of field
// values shaped by a [walk.Message] descriptor rather than by generated
// code.
//
// Every node and every string or bytes payload is obtained from an
// [alloc.Allocator], and a tree is released with [Free] through that same
// allocator. A tree is strictly owned: storing a message inside another
// transfers ownership to the parent.
package message

import (
	"errors"
	"fmt"
	"iter"
	"unsafe"

	"github.com/tidwall/btree"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/walk"
)

// NodeSize is the number of bytes charged to an allocator for each message
// node.
const NodeSize = int(unsafe.Sizeof(Message{}))

var (
	// ErrKindMismatch is returned when a value's tag disagrees with the
	// field's kind.
	ErrKindMismatch = errors.New("value kind does not match field kind")
	// ErrOneofConflict is returned when setting a field whose oneof group
	// already has a different member set.
	ErrOneofConflict = errors.New("another field of the oneof is already set")
	// ErrAlreadySet is returned when setting a singular field that is
	// already set.
	ErrAlreadySet = errors.New("field is already set")
	// ErrCardinality is returned when Set is used on a repeated field, or
	// Append on a singular one.
	ErrCardinality = errors.New("wrong operation for field cardinality")
	// ErrForeignField is returned when a field does not belong to the
	// message's descriptor.
	ErrForeignField = errors.New("field does not belong to this message")
)

// Message is a generic message instance.
//
// A Message is not safe for concurrent mutation.
type Message struct {
	desc *walk.Message

	// Keyed by [walk.Field.Index], so iteration is in declaration order
	// with extensions last.
	fields btree.Map[int, *slot]
	// For each oneof group, the index of the set member, or -1.
	oneofs []int

	block []byte
}

// slot holds the value(s) of one set field.
type slot struct {
	field *walk.Field
	value Value   // Singular fields.
	list  []Value // Repeated fields.
}

// New allocates an empty message of the given type from a.
func New(a alloc.Allocator, desc *walk.Message) (*Message, error) {
	block, err := a.Alloc(NodeSize)
	if err != nil {
		return nil, err
	}
	m := &Message{desc: desc, block: block}
	if n := len(desc.Oneofs()); n > 0 {
		m.oneofs = make([]int, n)
		for i := range m.oneofs {
			m.oneofs[i] = -1
		}
	}
	return m, nil
}

// Descriptor returns this message's type.
func (m *Message) Descriptor() *walk.Message {
	return m.desc
}

// Len returns the number of set fields.
func (m *Message) Len() int {
	return m.fields.Len()
}

// Has returns whether f is set. A repeated field is set if it has at least
// one element.
func (m *Message) Has(f *walk.Field) bool {
	_, ok := m.fields.Get(f.Index())
	return ok && m.owns(f)
}

// Get returns the value of a singular field, and whether it is set.
func (m *Message) Get(f *walk.Field) (Value, bool) {
	s, ok := m.fields.Get(f.Index())
	if !ok || s.field != f {
		return Value{}, false
	}
	return s.value, !f.IsRepeated()
}

// List returns the elements of a repeated field. The returned slice must not
// be modified.
func (m *Message) List(f *walk.Field) []Value {
	s, ok := m.fields.Get(f.Index())
	if !ok || s.field != f {
		return nil
	}
	return s.list
}

// WhichOneof returns the member of the given oneof group that is set, or
// nil if none is.
func (m *Message) WhichOneof(oneof int) *walk.Field {
	if oneof < 0 || oneof >= len(m.oneofs) || m.oneofs[oneof] < 0 {
		return nil
	}
	return m.desc.Fields()[m.oneofs[oneof]]
}

// Fields returns an iterator over the set fields, in declaration order,
// followed by set extensions in field number order.
func (m *Message) Fields() iter.Seq[*walk.Field] {
	return func(yield func(*walk.Field) bool) {
		iter := m.fields.Iter()
		for more := iter.First(); more; more = iter.Next() {
			if !yield(iter.Value().field) {
				return
			}
		}
	}
}

// Set stores v in the singular field f.
//
// Fails if f is repeated, is already set, belongs to a oneof group with
// another member set, or if v's kind does not match f.
func (m *Message) Set(f *walk.Field, v Value) error {
	if err := m.check(f, v); err != nil {
		return err
	}
	if f.IsRepeated() {
		return fmt.Errorf("%w: %s is repeated", ErrCardinality, f.Name())
	}
	if _, ok := m.fields.Get(f.Index()); ok {
		return fmt.Errorf("%w: %s", ErrAlreadySet, f.Name())
	}
	if other := m.WhichOneof(f.Oneof()); other != nil {
		return fmt.Errorf("%w: %s conflicts with %s", ErrOneofConflict, f.Name(), other.Name())
	}

	m.fields.Set(f.Index(), &slot{field: f, value: v})
	if f.Oneof() >= 0 {
		m.oneofs[f.Oneof()] = f.Index()
	}
	return nil
}

// Append adds v to the end of the repeated field f.
func (m *Message) Append(f *walk.Field, v Value) error {
	if err := m.check(f, v); err != nil {
		return err
	}
	if !f.IsRepeated() {
		return fmt.Errorf("%w: %s is not repeated", ErrCardinality, f.Name())
	}

	s, ok := m.fields.Get(f.Index())
	if !ok {
		s = &slot{field: f}
		m.fields.Set(f.Index(), s)
	}
	s.list = append(s.list, v)
	return nil
}

// Clear unsets f, releasing whatever it held through a.
func (m *Message) Clear(a alloc.Allocator, f *walk.Field) {
	s, ok := m.fields.Delete(f.Index())
	if !ok {
		return
	}
	s.free(a)
	if f.Oneof() >= 0 && m.oneofs[f.Oneof()] == f.Index() {
		m.oneofs[f.Oneof()] = -1
	}
}

func (m *Message) owns(f *walk.Field) bool {
	return f.Parent() == m.desc
}

func (m *Message) check(f *walk.Field, v Value) error {
	if !m.owns(f) {
		return fmt.Errorf("%w: %s is not a field of %s", ErrForeignField, f.Name(), m.desc.FullName())
	}
	if v.kind != f.Kind() {
		return fmt.Errorf("%w: %v value for %v field %s", ErrKindMismatch, v.kind, f.Kind(), f.Name())
	}
	if v.kind == walk.MessageKind {
		if v.msg == nil {
			return fmt.Errorf("%w: nil message for field %s", ErrKindMismatch, f.Name())
		}
		if v.msg.desc != f.Message() {
			return fmt.Errorf("%w: %s value for field %s of type %s",
				ErrKindMismatch, v.msg.desc.FullName(), f.Name(), f.Message().FullName())
		}
	}
	return nil
}
