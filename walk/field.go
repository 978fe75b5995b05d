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

package walk

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Field describes one field of a [Message], or an extension of it.
type Field struct {
	desc   protoreflect.FieldDescriptor
	parent *Message

	name      string
	number    protoreflect.FieldNumber
	kind      Kind
	label     Label
	oneof     int
	index     int
	extension bool

	message *Message
	enum    *Enum
}

// Name returns the name this field is written with in the text format.
//
// For ordinary fields this is the field's text name (for groups, the name
// of the group's message type). For extensions it is the extension's
// fully-qualified name, which appears between brackets.
func (f *Field) Name() string {
	return f.name
}

// TextName returns the name as it is written before the value: identical
// to Name for ordinary fields, bracketed for extensions.
func (f *Field) TextName() string {
	if f.extension {
		return "[" + f.name + "]"
	}
	return f.name
}

// Number returns this field's number.
func (f *Field) Number() protoreflect.FieldNumber {
	return f.number
}

// Kind returns the value class of this field.
func (f *Field) Kind() Kind {
	return f.kind
}

// Label returns this field's cardinality.
func (f *Field) Label() Label {
	return f.label
}

// IsRepeated is shorthand for f.Label() == Repeated.
func (f *Field) IsRepeated() bool {
	return f.label == Repeated
}

// IsRequired is shorthand for f.Label() == Required.
func (f *Field) IsRequired() bool {
	return f.label == Required
}

// IsExtension returns whether this is an extension field.
func (f *Field) IsExtension() bool {
	return f.extension
}

// Oneof returns the index of the oneof group this field belongs to within
// its containing message, or -1 if it is not part of one.
func (f *Field) Oneof() int {
	return f.oneof
}

// Index returns the declaration index of this field within its containing
// message. Extensions are numbered after all declared fields.
func (f *Field) Index() int {
	return f.index
}

// Parent returns the message this field belongs to (for extensions, the
// message being extended).
func (f *Field) Parent() *Message {
	return f.parent
}

// Message returns the message type of a [MessageKind] field, or nil.
func (f *Field) Message() *Message {
	return f.message
}

// Enum returns the enum type of an [EnumKind] field, or nil.
func (f *Field) Enum() *Enum {
	return f.enum
}

// Descriptor returns the descriptor this field was converted from.
func (f *Field) Descriptor() protoreflect.FieldDescriptor {
	return f.desc
}
