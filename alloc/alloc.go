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

// Package alloc defines the allocator abstraction that every message tree
// construction and destruction goes through.
//
// There is no package-level default allocator. Callers pass an [Allocator]
// value explicitly; the top-level textpb functions treat a nil allocator as
// [Heap].
//
// A tree must be released through the same allocator that built it. Mixing
// allocators between construction and release of one tree is undefined and
// is the caller's responsibility; no implementation here attempts to detect
// it.
package alloc

import "errors"

// ErrExhausted is returned by allocators that refuse an allocation.
var ErrExhausted = errors.New("allocator exhausted")

// Allocator is a pluggable pair of allocate/release operations. The
// receiver is the allocator's opaque context.
type Allocator interface {
	// Alloc returns a zeroed block of exactly n bytes, or an error if the
	// allocation cannot be satisfied.
	Alloc(n int) ([]byte, error)
	// Free releases a block previously returned by Alloc on the same
	// allocator. Freeing a nil or empty block is a no-op.
	Free(b []byte)
}

// Heap allocates from the Go heap. Free is a no-op; the garbage collector
// reclaims blocks once they are unreachable.
//
// The zero value is ready to use and is safe for concurrent use.
type Heap struct{}

var _ Allocator = Heap{}

// Alloc implements [Allocator].
func (Heap) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("alloc: negative size")
	}
	return make([]byte, n), nil
}

// Free implements [Allocator].
func (Heap) Free([]byte) {}

// Or returns a, or [Heap] if a is nil.
func Or(a Allocator) Allocator {
	if a == nil {
		return Heap{}
	}
	return a
}

// Clone allocates a copy of data from a.
func Clone(a Allocator, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	b, err := a.Alloc(len(data))
	if err != nil {
		return nil, err
	}
	copy(b, data)
	return b, nil
}
