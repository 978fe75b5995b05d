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

// Enum maps symbolic names to numbers and back.
type Enum struct {
	desc protoreflect.EnumDescriptor

	values   []*EnumValue
	byName   map[string]*EnumValue
	byNumber map[protoreflect.EnumNumber]*EnumValue
}

// EnumValue is a single named value of an [Enum].
type EnumValue struct {
	name   string
	number protoreflect.EnumNumber
}

// Name returns the symbolic name.
func (v *EnumValue) Name() string { return v.name }

// Number returns the numeric value.
func (v *EnumValue) Number() protoreflect.EnumNumber { return v.number }

// FullName returns the fully-qualified name of this enum type.
func (e *Enum) FullName() protoreflect.FullName {
	return e.desc.FullName()
}

// Values returns the values in declaration order.
//
// The returned slice must not be modified.
func (e *Enum) Values() []*EnumValue {
	return e.values
}

// ValueByName resolves a symbolic name. Returns nil if there is no value
// with this name.
func (e *Enum) ValueByName(name string) *EnumValue {
	return e.byName[name]
}

// ValueByNumber resolves a number. If several names share the number, the
// first declared one is returned. Returns nil if no value has this number.
func (e *Enum) ValueByNumber(n protoreflect.EnumNumber) *EnumValue {
	return e.byNumber[n]
}
