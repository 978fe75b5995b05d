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
	"cmp"
	"fmt"
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/walk"
)

// ToDynamic converts m into a [dynamicpb.Message] of the descriptor m's type
// was converted from. This makes trees usable with the rest of the protobuf
// ecosystem, e.g. for binary encoding or comparison with protocmp.
func ToDynamic(m *Message) (*dynamicpb.Message, error) {
	out := dynamicpb.NewMessage(m.desc.Descriptor())
	for f := range m.Fields() {
		fd := f.Descriptor()
		if f.IsExtension() {
			fd = dynamicpb.NewExtensionType(fd).TypeDescriptor()
		}

		switch {
		case fd.IsMap():
			mp := out.Mutable(fd).Map()
			for _, entry := range m.List(f) {
				k, v, err := mapEntry(fd, entry.msg)
				if err != nil {
					return nil, err
				}
				mp.Set(k, v)
			}

		case f.IsRepeated():
			list := out.Mutable(fd).List()
			for _, v := range m.List(f) {
				pv, err := toProtoValue(fd, v)
				if err != nil {
					return nil, err
				}
				list.Append(pv)
			}

		default:
			v, _ := m.Get(f)
			pv, err := toProtoValue(fd, v)
			if err != nil {
				return nil, err
			}
			out.Set(fd, pv)
		}
	}
	return out, nil
}

func mapEntry(fd protoreflect.FieldDescriptor, entry *Message) (protoreflect.MapKey, protoreflect.Value, error) {
	keyField := entry.desc.FieldByNumber(1)
	valueField := entry.desc.FieldByNumber(2)

	key := fd.MapKey().Default()
	if v, ok := entry.Get(keyField); ok {
		pv, err := toProtoValue(fd.MapKey(), v)
		if err != nil {
			return protoreflect.MapKey{}, protoreflect.Value{}, err
		}
		key = pv
	}

	var value protoreflect.Value
	if v, ok := entry.Get(valueField); ok {
		pv, err := toProtoValue(fd.MapValue(), v)
		if err != nil {
			return protoreflect.MapKey{}, protoreflect.Value{}, err
		}
		value = pv
	} else if fd.MapValue().Message() != nil {
		value = protoreflect.ValueOfMessage(dynamicpb.NewMessage(fd.MapValue().Message()))
	} else {
		value = fd.MapValue().Default()
	}
	return key.MapKey(), value, nil
}

func toProtoValue(fd protoreflect.FieldDescriptor, v Value) (protoreflect.Value, error) {
	switch v.kind {
	case walk.BoolKind:
		return protoreflect.ValueOfBool(v.Bool()), nil
	case walk.Int32Kind:
		return protoreflect.ValueOfInt32(int32(v.Int())), nil
	case walk.Int64Kind:
		return protoreflect.ValueOfInt64(v.Int()), nil
	case walk.Uint32Kind:
		return protoreflect.ValueOfUint32(uint32(v.Uint())), nil
	case walk.Uint64Kind:
		return protoreflect.ValueOfUint64(v.Uint()), nil
	case walk.FloatKind:
		return protoreflect.ValueOfFloat32(float32(v.Float())), nil
	case walk.DoubleKind:
		return protoreflect.ValueOfFloat64(v.Float()), nil
	case walk.StringKind:
		return protoreflect.ValueOfString(string(v.block)), nil
	case walk.BytesKind:
		return protoreflect.ValueOfBytes(slices.Clone(v.block)), nil
	case walk.EnumKind:
		return protoreflect.ValueOfEnum(v.EnumNumber()), nil
	case walk.MessageKind:
		nested, err := ToDynamic(v.msg)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfMessage(nested), nil
	default:
		return protoreflect.Value{}, fmt.Errorf("%w: invalid value for field %s", ErrKindMismatch, fd.FullName())
	}
}

// FromDynamic builds a message tree of type desc from pm, allocating
// through a. Map fields become repeated entry messages ordered by key;
// unknown fields are dropped.
//
// On failure, everything allocated so far is released.
func FromDynamic(a alloc.Allocator, desc *walk.Message, pm protoreflect.Message) (_ *Message, err error) {
	if desc.FullName() != pm.Descriptor().FullName() {
		return nil, fmt.Errorf("message: cannot convert %s into %s", pm.Descriptor().FullName(), desc.FullName())
	}

	m, err := New(a, desc)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			Free(a, m)
		}
	}()

	pm.Range(func(fd protoreflect.FieldDescriptor, pv protoreflect.Value) bool {
		f := desc.FieldByNumber(fd.Number())
		if fd.IsExtension() {
			f = desc.ExtensionByName(fd.FullName())
		}
		if f == nil {
			err = fmt.Errorf("message: field %s is not known to %s", fd.FullName(), desc.FullName())
			return false
		}

		switch {
		case fd.IsMap():
			err = fromMap(a, m, f, fd, pv.Map())
		case fd.IsList():
			list := pv.List()
			for i := range list.Len() {
				var v Value
				if v, err = fromProtoValue(a, f, list.Get(i)); err != nil {
					break
				}
				if err = m.Append(f, v); err != nil {
					FreeValue(a, v)
					break
				}
			}
		default:
			var v Value
			if v, err = fromProtoValue(a, f, pv); err != nil {
				break
			}
			if err = m.Set(f, v); err != nil {
				FreeValue(a, v)
			}
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap(a alloc.Allocator, m *Message, f *walk.Field, fd protoreflect.FieldDescriptor, mp protoreflect.Map) error {
	type pair struct {
		k protoreflect.MapKey
		v protoreflect.Value
	}
	var pairs []pair
	mp.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		pairs = append(pairs, pair{k, v})
		return true
	})
	slices.SortFunc(pairs, func(x, y pair) int {
		return compareMapKeys(x.k, y.k)
	})

	entryDesc := f.Message()
	keyField, valueField := entryDesc.FieldByNumber(1), entryDesc.FieldByNumber(2)
	for _, p := range pairs {
		entry, err := New(a, entryDesc)
		if err != nil {
			return err
		}
		if err := m.Append(f, Of(entry)); err != nil {
			Free(a, entry)
			return err
		}

		k, err := fromProtoValue(a, keyField, p.k.Value())
		if err != nil {
			return err
		}
		if err := entry.Set(keyField, k); err != nil {
			FreeValue(a, k)
			return err
		}
		v, err := fromProtoValue(a, valueField, p.v)
		if err != nil {
			return err
		}
		if err := entry.Set(valueField, v); err != nil {
			FreeValue(a, v)
			return err
		}
	}
	return nil
}

func compareMapKeys(x, y protoreflect.MapKey) int {
	switch xv := x.Interface().(type) {
	case bool:
		yv := y.Bool()
		switch {
		case xv == yv:
			return 0
		case !xv:
			return -1
		default:
			return 1
		}
	case int32, int64:
		return cmp.Compare(x.Int(), y.Int())
	case uint32, uint64:
		return cmp.Compare(x.Uint(), y.Uint())
	default:
		return cmp.Compare(x.String(), y.String())
	}
}

func fromProtoValue(a alloc.Allocator, f *walk.Field, pv protoreflect.Value) (Value, error) {
	switch f.Kind() {
	case walk.BoolKind:
		return Bool(pv.Bool()), nil
	case walk.Int32Kind:
		return Int32(int32(pv.Int())), nil
	case walk.Int64Kind:
		return Int64(pv.Int()), nil
	case walk.Uint32Kind:
		return Uint32(uint32(pv.Uint())), nil
	case walk.Uint64Kind:
		return Uint64(pv.Uint()), nil
	case walk.FloatKind:
		return Float(float32(pv.Float())), nil
	case walk.DoubleKind:
		return Double(pv.Float()), nil
	case walk.StringKind:
		return NewString(a, pv.String())
	case walk.BytesKind:
		return NewBytes(a, pv.Bytes())
	case walk.EnumKind:
		n := pv.Enum()
		var name string
		if ev := f.Enum().ValueByNumber(n); ev != nil {
			name = ev.Name()
		}
		return Enum(name, n), nil
	case walk.MessageKind:
		nested, err := FromDynamic(a, f.Message(), pv.Message())
		if err != nil {
			return Value{}, err
		}
		return Of(nested), nil
	default:
		return Value{}, fmt.Errorf("%w: field %s has kind %v", ErrKindMismatch, f.Name(), f.Kind())
	}
}
