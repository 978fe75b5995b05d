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

// Message describes the fields of one message type.
type Message struct {
	desc protoreflect.MessageDescriptor

	fields   []*Field
	byName   map[string]*Field
	byNumber map[protoreflect.FieldNumber]*Field
	oneofs   []string

	extensions []*Field
	extByName  map[protoreflect.FullName]*Field

	tracksRequired bool
}

// FullName returns the fully-qualified name of this message type.
func (m *Message) FullName() protoreflect.FullName {
	return m.desc.FullName()
}

// Descriptor returns the descriptor this message was converted from.
func (m *Message) Descriptor() protoreflect.MessageDescriptor {
	return m.desc
}

// Fields returns the fields of this message in declaration order.
//
// The returned slice must not be modified.
func (m *Message) Fields() []*Field {
	return m.fields
}

// Extensions returns the extensions of this message known to the schema,
// ordered by field number.
//
// The returned slice must not be modified.
func (m *Message) Extensions() []*Field {
	return m.extensions
}

// FieldByName looks up a declared field by its text name. The match is exact
// and case-sensitive. Returns nil if there is no such field.
func (m *Message) FieldByName(name string) *Field {
	return m.byName[name]
}

// FieldByNumber looks up a declared field by number. Returns nil if there is
// no such field.
func (m *Message) FieldByNumber(n protoreflect.FieldNumber) *Field {
	return m.byNumber[n]
}

// ExtensionByName looks up an extension of this message by its
// fully-qualified name. Returns nil if there is no such extension.
func (m *Message) ExtensionByName(name protoreflect.FullName) *Field {
	return m.extByName[name]
}

// Oneofs returns the names of this message's oneof groups. A field's
// [Field.Oneof] indexes into this slice. Synthetic oneofs used for proto3
// optional fields are not groups.
func (m *Message) Oneofs() []string {
	return m.oneofs
}

// TracksRequired returns whether this descriptor exposes required-field
// information. When it does not, completeness cannot be determined.
func (m *Message) TracksRequired() bool {
	return m.tracksRequired
}

// IsMapEntry returns whether this message is the synthetic entry type of a
// map field.
func (m *Message) IsMapEntry() bool {
	return m.desc.IsMapEntry()
}
