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

package walk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/textpb/internal/prototest"
	"github.com/bufbuild/textpb/walk"
)

func TestDescriptorsOrder(t *testing.T) {
	t.Parallel()

	files := prototest.Files(t)
	fd, err := files.FindFileByPath("textpb/test/test.proto")
	require.NoError(t, err)

	var names []protoreflect.FullName
	var exits []protoreflect.FullName
	err = walk.DescriptorsEnterAndExit(fd,
		func(d protoreflect.Descriptor) error {
			names = append(names, d.FullName())
			return nil
		},
		func(d protoreflect.Descriptor) error {
			exits = append(exits, d.FullName())
			return nil
		},
	)
	require.NoError(t, err)

	// Nested declarations come right after their parent.
	idx := func(name string) int {
		for i, n := range names {
			if n == protoreflect.FullName(name) {
				return i
			}
		}
		return -1
	}
	require.NotEqual(t, -1, idx("textpb.test.WithMap"))
	assert.Equal(t, idx("textpb.test.WithMap")+1, idx("textpb.test.WithMap.CountsEntry"))
	assert.Less(t, idx("textpb.test.Ponycopter"), idx("textpb.test.Colour"))
	assert.Less(t, idx("textpb.test.Colour"), idx("textpb.test.tag"))
	assert.Len(t, exits, len(names))
}

func TestMessage(t *testing.T) {
	t.Parallel()

	schema := prototest.Schema(t)
	md := schema.Message("textpb.test.Ponycopter")
	require.NotNil(t, md)
	assert.Equal(t, protoreflect.FullName("textpb.test.Ponycopter"), md.FullName())
	assert.True(t, md.TracksRequired())
	assert.False(t, md.IsMapEntry())
	assert.Empty(t, md.Extensions())

	var names []string
	for i, f := range md.Fields() {
		names = append(names, f.Name())
		assert.Equal(t, i, f.Index())
		assert.Same(t, md, f.Parent())
		assert.Equal(t, walk.Optional, f.Label())
		assert.Equal(t, -1, f.Oneof())
	}
	assert.Equal(t, []string{"hair_colour", "rotors", "awesomeness"}, names)

	rotors := md.FieldByName("rotors")
	require.NotNil(t, rotors)
	assert.Same(t, rotors, md.FieldByNumber(2))
	assert.Equal(t, walk.Uint32Kind, rotors.Kind())
	assert.Nil(t, md.FieldByName("Rotors"))
	assert.Nil(t, md.FieldByNumber(99))
}

func TestKinds(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Scalars")
	expected := map[string]walk.Kind{
		"i32": walk.Int32Kind, "s32": walk.Int32Kind, "sf32": walk.Int32Kind,
		"i64": walk.Int64Kind, "s64": walk.Int64Kind, "sf64": walk.Int64Kind,
		"u32": walk.Uint32Kind, "f32": walk.Uint32Kind,
		"u64": walk.Uint64Kind, "f64": walk.Uint64Kind,
		"fl": walk.FloatKind, "db": walk.DoubleKind,
		"b": walk.BoolKind, "s": walk.StringKind, "by": walk.BytesKind,
		"colour": walk.EnumKind,
	}
	for name, kind := range expected {
		f := md.FieldByName(name)
		if assert.NotNil(t, f, name) {
			assert.Equal(t, kind, f.Kind(), name)
			assert.True(t, kind.IsScalar(), name)
		}
	}
	assert.False(t, walk.MessageKind.IsScalar())
	assert.Equal(t, "walk.Kind(99)", walk.Kind(99).String())
}

func TestOneofs(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Choice")
	require.Equal(t, []string{"kind"}, md.Oneofs())

	var members []string
	for _, f := range md.Fields() {
		if f.Oneof() == 0 {
			members = append(members, f.Name())
		}
	}
	assert.Equal(t, []string{"name", "id", "pony"}, members)
	assert.Equal(t, -1, md.FieldByName("note").Oneof())
}

func TestRecursiveTypes(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Node")
	next := md.FieldByName("next")
	require.NotNil(t, next)
	assert.Same(t, md, next.Message())

	req := prototest.Message(t, "Required")
	assert.Same(t, req, req.FieldByName("child").Message())
	assert.Same(t, req, req.FieldByName("children").Message())
	assert.True(t, req.FieldByName("id").IsRequired())
	assert.True(t, req.FieldByName("children").IsRepeated())
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Required")
	exts := md.Extensions()
	require.Len(t, exts, 2)

	tag, pony := exts[0], exts[1]
	assert.Equal(t, "textpb.test.tag", tag.Name())
	assert.Equal(t, "[textpb.test.tag]", tag.TextName())
	assert.True(t, tag.IsExtension())
	assert.Equal(t, len(md.Fields()), tag.Index())
	assert.Equal(t, len(md.Fields())+1, pony.Index())
	assert.Equal(t, protoreflect.FieldNumber(101), pony.Number())
	assert.Same(t, md, pony.Parent())
	assert.Equal(t, protoreflect.FullName("textpb.test.Ponycopter"), pony.Message().FullName())

	assert.Same(t, tag, md.ExtensionByName("textpb.test.tag"))
	assert.Nil(t, md.ExtensionByName("textpb.test.nope"))
	assert.Nil(t, md.FieldByName("tag"))
	assert.Nil(t, md.FieldByNumber(100))
}

func TestEnum(t *testing.T) {
	t.Parallel()

	schema := prototest.Schema(t)
	e := schema.Enum("textpb.test.Colour")
	require.NotNil(t, e)
	scalars := schema.Message("textpb.test.Scalars")
	require.NotNil(t, scalars)
	assert.Same(t, e, scalars.FieldByName("colour").Enum())

	var names []string
	for _, v := range e.Values() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, names)
	assert.Equal(t, protoreflect.EnumNumber(1), e.ValueByName("GREEN").Number())
	assert.Equal(t, "BLUE", e.ValueByNumber(2).Name())
	assert.Nil(t, e.ValueByName("green"))
	assert.Nil(t, e.ValueByNumber(7))
}

func TestMapEntry(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "WithMap")
	counts := md.FieldByName("counts")
	require.NotNil(t, counts)
	assert.True(t, counts.IsRepeated())
	assert.True(t, counts.Message().IsMapEntry())
}

func TestWithoutRequired(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Required", walk.WithoutRequired())
	assert.False(t, md.TracksRequired())
	assert.Equal(t, walk.Optional, md.FieldByName("id").Label())
	assert.False(t, md.FieldByName("child").Message().TracksRequired())
}

func TestFromMessage(t *testing.T) {
	t.Parallel()

	md, err := walk.FromMessage((&descriptorpb.FieldOptions{}).ProtoReflect().Descriptor())
	require.NoError(t, err)
	assert.Equal(t, protoreflect.FullName("google.protobuf.FieldOptions"), md.FullName())

	ctype := md.FieldByName("ctype")
	require.NotNil(t, ctype)
	assert.Equal(t, walk.EnumKind, ctype.Kind())
	assert.Equal(t, "STRING", ctype.Enum().ValueByNumber(0).Name())

	// Messages are sorted by name.
	schema := prototest.Schema(t)
	msgs := schema.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.Less(t, msgs[i-1].FullName(), msgs[i].FullName())
	}
}
