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

// Package prototest contains the schemas and assertions shared by tests.
package prototest

import (
	_ "embed"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/textpb/walk"
)

// Package is the protobuf package of the test schema.
const Package = "textpb.test"

//go:embed testdata/test.textproto
var testSchema []byte

// DescriptorSet returns the test schema as a descriptor set.
func DescriptorSet(tb testing.TB) *descriptorpb.FileDescriptorSet {
	tb.Helper()
	var fdset descriptorpb.FileDescriptorSet
	require.NoError(tb, prototext.Unmarshal(testSchema, &fdset))
	return &fdset
}

// Files returns the test schema as resolved file descriptors.
func Files(tb testing.TB) *protoregistry.Files {
	tb.Helper()
	files, err := protodesc.NewFiles(DescriptorSet(tb))
	require.NoError(tb, err)
	return files
}

// Schema converts the test schema with walk.
func Schema(tb testing.TB, opts ...walk.Option) *walk.Schema {
	tb.Helper()
	var fds []protoreflect.FileDescriptor
	Files(tb).RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		fds = append(fds, fd)
		return true
	})
	schema, err := walk.FromFiles(fds, opts...)
	require.NoError(tb, err)
	return schema
}

// Message returns the named message of the test schema, e.g. "Ponycopter".
func Message(tb testing.TB, name string, opts ...walk.Option) *walk.Message {
	tb.Helper()
	md := Schema(tb, opts...).Message(protoreflect.FullName(Package + "." + name))
	require.NotNil(tb, md, "no message %s in test schema", name)
	return md
}

// WriteDescriptorSet writes the test schema in binary form to path, for
// tests of tools that read descriptor sets from disk.
func WriteDescriptorSet(tb testing.TB, path string) {
	tb.Helper()
	data, err := proto.Marshal(DescriptorSet(tb))
	require.NoError(tb, err)
	require.NoError(tb, os.WriteFile(path, data, 0o600))
}

func AssertMessagesEqual(t *testing.T, exp, act proto.Message, msgAndArgs ...any) {
	t.Helper()
	AssertMessagesEqualWithOptions(t, exp, act, nil, msgAndArgs...)
}

func AssertMessagesEqualWithOptions(t *testing.T, exp, act proto.Message, opts []cmp.Option, msgAndArgs ...any) {
	t.Helper()
	cmpOpts := []cmp.Option{protocmp.Transform()}
	cmpOpts = append(cmpOpts, opts...)
	if diff := cmp.Diff(exp, act, cmpOpts...); diff != "" {
		var prefix string
		if len(msgAndArgs) == 1 {
			if msg, ok := msgAndArgs[0].(string); ok {
				prefix = msg + ": "
			} else {
				prefix = fmt.Sprintf("%+v: ", msgAndArgs[0])
			}
		} else if len(msgAndArgs) > 1 {
			prefix = fmt.Sprintf(msgAndArgs[0].(string)+": ", msgAndArgs[1:]...)
		}

		t.Errorf("%smessage mismatch (-want +got):\n%v", prefix, diff)
	}
}
