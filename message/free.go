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
	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/walk"
)

// Free releases m and everything it owns through a, which must be the
// allocator the tree was built with. m must not be used afterwards.
//
// Freeing a nil message is a no-op.
func Free(a alloc.Allocator, m *Message) {
	if m == nil {
		return
	}
	m.fields.Scan(func(_ int, s *slot) bool {
		s.free(a)
		return true
	})
	m.fields.Clear()
	a.Free(m.block)
	m.block = nil
}

// FreeValue releases whatever v owns through a. This is only needed for
// values that were never stored in a message, for example when building a
// value fails half-way.
func FreeValue(a alloc.Allocator, v Value) {
	switch v.kind {
	case walk.StringKind, walk.BytesKind:
		a.Free(v.block)
	case walk.MessageKind:
		Free(a, v.msg)
	}
}

func (s *slot) free(a alloc.Allocator) {
	if s.field.IsRepeated() {
		for _, v := range s.list {
			FreeValue(a, v)
		}
		s.list = nil
		return
	}
	FreeValue(a, s.value)
	s.value = Value{}
}
