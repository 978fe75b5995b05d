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

package message

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/walk"
)

// Value is a tagged union over every kind of value a field may hold. The tag
// is a [walk.Kind]; it is fixed by the constructor and checked against the
// field's kind whenever a value is stored in a [Message].
//
// The zero Value is invalid.
type Value struct {
	kind walk.Kind

	// Integers, bools, float bits and enum numbers.
	bits uint64
	// Enum symbols, and string contents (backed by block).
	str string
	// Allocator-owned storage for string and bytes values.
	block []byte

	msg *Message
}

// Bool returns a bool value.
func Bool(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{kind: walk.BoolKind, bits: bits}
}

// Int32 returns an int32 value.
func Int32(v int32) Value {
	return Value{kind: walk.Int32Kind, bits: uint64(int64(v))}
}

// Int64 returns an int64 value.
func Int64(v int64) Value {
	return Value{kind: walk.Int64Kind, bits: uint64(v)}
}

// Uint32 returns a uint32 value.
func Uint32(v uint32) Value {
	return Value{kind: walk.Uint32Kind, bits: uint64(v)}
}

// Uint64 returns a uint64 value.
func Uint64(v uint64) Value {
	return Value{kind: walk.Uint64Kind, bits: v}
}

// Float returns a float value.
func Float(v float32) Value {
	return Value{kind: walk.FloatKind, bits: uint64(math.Float32bits(v))}
}

// Double returns a double value.
func Double(v float64) Value {
	return Value{kind: walk.DoubleKind, bits: math.Float64bits(v)}
}

// Enum returns an enum value. name may be empty if the number was given
// without a symbol.
func Enum(name string, number protoreflect.EnumNumber) Value {
	return Value{kind: walk.EnumKind, str: name, bits: uint64(int64(number))}
}

// Of wraps an embedded message. The enclosing message takes ownership of m
// once the value is stored.
func Of(m *Message) Value {
	return Value{kind: walk.MessageKind, msg: m}
}

// NewString copies s into memory obtained from a and returns a string
// value referring to it.
func NewString(a alloc.Allocator, s string) (Value, error) {
	block, err := alloc.Clone(a, unsafe.Slice(unsafe.StringData(s), len(s)))
	if err != nil {
		return Value{}, err
	}
	v := Value{kind: walk.StringKind, block: block}
	if len(block) > 0 {
		v.str = unsafe.String(&block[0], len(block))
	}
	return v, nil
}

// NewBytes copies b into memory obtained from a and returns a bytes value
// referring to it.
func NewBytes(a alloc.Allocator, b []byte) (Value, error) {
	block, err := alloc.Clone(a, b)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: walk.BytesKind, block: block}, nil
}

// Kind returns this value's tag.
func (v Value) Kind() walk.Kind {
	return v.kind
}

// IsValid returns whether this is a non-zero Value.
func (v Value) IsValid() bool {
	return v.kind != walk.InvalidKind
}

// Bool returns the value of a [walk.BoolKind] value.
func (v Value) Bool() bool {
	v.must(walk.BoolKind)
	return v.bits != 0
}

// Int returns the value of a [walk.Int32Kind] or [walk.Int64Kind] value.
func (v Value) Int() int64 {
	v.must(walk.Int32Kind, walk.Int64Kind)
	return int64(v.bits)
}

// Uint returns the value of a [walk.Uint32Kind] or [walk.Uint64Kind] value.
func (v Value) Uint() uint64 {
	v.must(walk.Uint32Kind, walk.Uint64Kind)
	return v.bits
}

// Float returns the value of a [walk.FloatKind] or [walk.DoubleKind] value.
func (v Value) Float() float64 {
	v.must(walk.FloatKind, walk.DoubleKind)
	if v.kind == walk.FloatKind {
		return float64(math.Float32frombits(uint32(v.bits)))
	}
	return math.Float64frombits(v.bits)
}

// Bytes returns the contents of a [walk.BytesKind] or [walk.StringKind]
// value. The returned slice aliases allocator memory and must not be
// modified.
func (v Value) Bytes() []byte {
	v.must(walk.BytesKind, walk.StringKind)
	return v.block
}

// EnumName returns the symbol of a [walk.EnumKind] value, which may be empty.
func (v Value) EnumName() string {
	v.must(walk.EnumKind)
	return v.str
}

// EnumNumber returns the number of a [walk.EnumKind] value.
func (v Value) EnumNumber() protoreflect.EnumNumber {
	v.must(walk.EnumKind)
	return protoreflect.EnumNumber(int32(v.bits))
}

// Message returns the embedded message of a [walk.MessageKind] value.
func (v Value) Message() *Message {
	v.must(walk.MessageKind)
	return v.msg
}

// String returns the contents of a [walk.StringKind] value. For other kinds
// it returns a debugging representation, implementing [fmt.Stringer].
func (v Value) String() string {
	switch v.kind {
	case walk.StringKind:
		return v.str
	case walk.BytesKind:
		return strconv.Quote(string(v.block))
	case walk.BoolKind:
		return strconv.FormatBool(v.Bool())
	case walk.Int32Kind, walk.Int64Kind:
		return strconv.FormatInt(v.Int(), 10)
	case walk.Uint32Kind, walk.Uint64Kind:
		return strconv.FormatUint(v.Uint(), 10)
	case walk.FloatKind:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case walk.DoubleKind:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case walk.EnumKind:
		if v.str != "" {
			return v.str
		}
		return strconv.FormatInt(int64(v.EnumNumber()), 10)
	case walk.MessageKind:
		if v.msg == nil {
			return "<nil message>"
		}
		return fmt.Sprintf("<%s>", v.msg.desc.FullName())
	default:
		return "<invalid>"
	}
}

func (v Value) must(kinds ...walk.Kind) {
	for _, k := range kinds {
		if v.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("message: %v value used as %v", v.kind, kinds))
}
