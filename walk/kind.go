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
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Kind is the value class of a field, as far as the text format is
// concerned. Wire-level distinctions such as sint32 vs. sfixed32 collapse
// into one Kind.
type Kind uint8

const (
	InvalidKind Kind = iota
	BoolKind
	Int32Kind
	Int64Kind
	Uint32Kind
	Uint64Kind
	FloatKind
	DoubleKind
	StringKind
	BytesKind
	EnumKind
	MessageKind
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case Int32Kind:
		return "int32"
	case Int64Kind:
		return "int64"
	case Uint32Kind:
		return "uint32"
	case Uint64Kind:
		return "uint64"
	case FloatKind:
		return "float"
	case DoubleKind:
		return "double"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case EnumKind:
		return "enum"
	case MessageKind:
		return "message"
	default:
		return fmt.Sprintf("walk.Kind(%d)", int(k))
	}
}

// IsScalar returns whether values of this kind are written as a single
// literal token (or a run of string literals).
func (k Kind) IsScalar() bool {
	return k != MessageKind && k != InvalidKind
}

// kindOf maps a protoreflect kind onto a Kind.
func kindOf(k protoreflect.Kind) Kind {
	switch k {
	case protoreflect.BoolKind:
		return BoolKind
	case protoreflect.EnumKind:
		return EnumKind
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return Int32Kind
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return Uint32Kind
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return Int64Kind
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return Uint64Kind
	case protoreflect.FloatKind:
		return FloatKind
	case protoreflect.DoubleKind:
		return DoubleKind
	case protoreflect.StringKind:
		return StringKind
	case protoreflect.BytesKind:
		return BytesKind
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return MessageKind
	default:
		return InvalidKind
	}
}

// Label is the cardinality of a field.
type Label uint8

const (
	Optional Label = iota
	Required
	Repeated
)

// String implements [fmt.Stringer].
func (l Label) String() string {
	switch l {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Repeated:
		return "repeated"
	default:
		return fmt.Sprintf("walk.Label(%d)", int(l))
	}
}
