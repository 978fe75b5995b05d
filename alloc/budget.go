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

package alloc

import (
	"fmt"
	"sync"
)

// Budget wraps another allocator, enforcing limits and keeping track of
// what is outstanding. It is intended for bounding memory use on untrusted
// input and for checking that every allocation is eventually released.
//
// Budget is safe for concurrent use if the wrapped allocator is.
type Budget struct {
	// The allocator that satisfies requests. If nil, [Heap] is used.
	Inner Allocator
	// The maximum number of outstanding bytes. Zero means unlimited.
	MaxBytes int
	// The maximum number of successful Alloc calls over the lifetime of
	// the budget. Zero means unlimited. This is mostly useful for injecting
	// a failure at a precise point.
	MaxAllocs int

	mu          sync.Mutex
	outstanding int
	live        int
	allocs      int
	peak        int
}

var _ Allocator = (*Budget)(nil)

// Alloc implements [Allocator].
func (b *Budget) Alloc(n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.MaxAllocs > 0 && b.allocs >= b.MaxAllocs {
		return nil, fmt.Errorf("%w: allocation limit of %d reached", ErrExhausted, b.MaxAllocs)
	}
	if b.MaxBytes > 0 && b.outstanding+n > b.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrExhausted, n, b.outstanding, b.MaxBytes)
	}

	block, err := Or(b.Inner).Alloc(n)
	if err != nil {
		return nil, err
	}

	b.allocs++
	b.live++
	b.outstanding += n
	b.peak = max(b.peak, b.outstanding)
	return block, nil
}

// Free implements [Allocator].
func (b *Budget) Free(block []byte) {
	if block == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.live--
	b.outstanding -= len(block)
	Or(b.Inner).Free(block)
}

// Outstanding returns the number of bytes and blocks currently allocated
// and not yet freed.
func (b *Budget) Outstanding() (bytes, blocks int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outstanding, b.live
}

// Peak returns the high-water mark of outstanding bytes.
func (b *Budget) Peak() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peak
}

// Allocs returns the number of successful Alloc calls so far.
func (b *Budget) Allocs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allocs
}
